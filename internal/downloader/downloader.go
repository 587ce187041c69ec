package downloader

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrInvalidURL indicates the URL is not a supported video URL.
	ErrInvalidURL = errors.New("invalid video url")
	// ErrExtractionFailed indicates the extraction library could not resolve metadata or a stream.
	ErrExtractionFailed = errors.New("extraction failed")
	// ErrNoMatchingFormat indicates no encoding satisfies a selection.
	ErrNoMatchingFormat = errors.New("no matching format")
)

// Extractor resolves video metadata and opens media streams for a video platform
type Extractor interface {
	// IsSupportedURL is a cheap syntactic check, it never touches the network.
	IsSupportedURL(rawURL string) bool
	ResolveMetadata(ctx context.Context, rawURL string) (*Video, error)
	OpenStream(ctx context.Context, rawURL string, sel Selection) (io.ReadCloser, error)
}

// Video is what the extractor knows about a video
type Video struct {
	Title           string
	ThumbnailURL    string
	DurationSeconds int
	Encodings       []Encoding
}

// Encoding is a single stream variant offered by the platform
type Encoding struct {
	Itag         int
	QualityLabel string
	MimeType     string
	Container    string
	Bitrate      int
	HasAudio     bool
	HasVideo     bool
}
