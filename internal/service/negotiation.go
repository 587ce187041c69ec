package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/artur/tubedrop/internal/downloader"
)

// Negotiator resolves the encodings a client can choose from
type Negotiator struct {
	extractor downloader.Extractor
}

func NewNegotiator(extractor downloader.Extractor) *Negotiator {
	return &Negotiator{extractor: extractor}
}

// GetVideoInfo returns the filtered, unsorted and undeduplicated format list.
// Quality pickers run downloader.PickerFormats over it.
func (n *Negotiator) GetVideoInfo(ctx context.Context, rawURL string) (*downloader.VideoMetadata, error) {
	if !n.extractor.IsSupportedURL(rawURL) {
		return nil, downloader.ErrInvalidURL
	}

	video, err := n.extractor.ResolveMetadata(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", downloader.ErrExtractionFailed, err)
	}

	return &downloader.VideoMetadata{
		Title:     video.Title,
		Thumbnail: video.ThumbnailURL,
		Duration:  strconv.Itoa(video.DurationSeconds),
		Formats:   downloader.NormalizeFormats(video.Encodings),
	}, nil
}
