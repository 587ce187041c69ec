package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/artur/tubedrop/internal/downloader"
)

const relayBufferSize = 32 * 1024

// RelayRequest is a download request as it arrives from the client
type RelayRequest struct {
	URL    string
	Format string
	// Itag is nil when the client did not pick an encoding.
	Itag *int
}

// Selection maps the request onto an extractor selection.
// mp3 ignores the itag.
func (r RelayRequest) Selection() downloader.Selection {
	if downloader.EffectiveFormat(r.Format) == downloader.FormatMP3 {
		return downloader.HighestAudioOnly
	}
	if r.Itag != nil {
		return downloader.ByItag(*r.Itag)
	}
	return downloader.HighestMuxed
}

// Relay streams media from the extractor straight into an HTTP response
type Relay struct {
	extractor downloader.Extractor
}

func NewRelay(extractor downloader.Extractor) *Relay {
	return &Relay{extractor: extractor}
}

// Serve writes the attachment to w and returns the number of body bytes sent.
//
// Errors returned with nothing written leave w untouched, so the caller is free
// to answer with a status of its own. Once the first byte went out the error
// wraps ErrStreamAborted and the caller must not write anything else.
func (r *Relay) Serve(ctx context.Context, w http.ResponseWriter, req RelayRequest) (int64, error) {
	if !r.extractor.IsSupportedURL(req.URL) {
		return 0, downloader.ErrInvalidURL
	}

	video, err := r.extractor.ResolveMetadata(ctx, req.URL)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", downloader.ErrExtractionFailed, err)
	}

	format := downloader.EffectiveFormat(req.Format)
	sel := req.Selection()

	stream, err := r.extractor.OpenStream(ctx, req.URL, sel)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", downloader.ErrExtractionFailed, err)
	}
	defer stream.Close()

	filename := downloader.AttachmentFilename(video.Title, format)
	log.Printf("[RELAY] Streaming %q (%s)", filename, sel)

	h := w.Header()
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	h.Set("Content-Type", downloader.ContentType(format, pickedEncoding(video, sel)))

	cw := &commitWriter{w: w}
	n, err := io.CopyBuffer(cw, stream, make([]byte, relayBufferSize))
	if err != nil {
		if cw.committed {
			return n, fmt.Errorf("%w after %d bytes: %w", ErrStreamAborted, n, err)
		}
		h.Del("Content-Disposition")
		h.Del("Content-Type")
		return 0, fmt.Errorf("%w: %w", downloader.ErrExtractionFailed, err)
	}

	return n, nil
}

// pickedEncoding looks the selection up in the resolved metadata.
// nil when the metadata no longer offers it.
func pickedEncoding(video *downloader.Video, sel downloader.Selection) *downloader.Encoding {
	e, err := sel.Pick(video.Encodings)
	if err != nil {
		return nil
	}
	return &e
}

// commitWriter remembers whether anything reached the underlying writer.
// A write attempt counts even if it fails, the status line may be out.
type commitWriter struct {
	w         io.Writer
	committed bool
}

func (c *commitWriter) Write(p []byte) (int, error) {
	c.committed = true
	return c.w.Write(p)
}
