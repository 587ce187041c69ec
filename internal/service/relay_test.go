package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/artur/tubedrop/internal/downloader"
)

func intPtr(i int) *int { return &i }

func TestRelayRequest_Selection(t *testing.T) {
	tests := []struct {
		name string
		req  RelayRequest
		want downloader.Selection
	}{
		{"mp3 ignores itag", RelayRequest{Format: "mp3", Itag: intPtr(22)}, downloader.HighestAudioOnly},
		{"mp3 without itag", RelayRequest{Format: "mp3"}, downloader.HighestAudioOnly},
		{"mp4 with itag", RelayRequest{Format: "mp4", Itag: intPtr(137)}, downloader.ByItag(137)},
		{"mp4 without itag", RelayRequest{Format: "mp4"}, downloader.HighestMuxed},
		{"unknown format falls back to mp4", RelayRequest{Format: "flac", Itag: intPtr(18)}, downloader.ByItag(18)},
		{"empty format", RelayRequest{}, downloader.HighestMuxed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Selection(); got != tt.want {
				t.Errorf("Selection() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRelay_Serve(t *testing.T) {
	ex := &fakeExtractor{video: sampleVideo()}
	rec := httptest.NewRecorder()

	n, err := NewRelay(ex).Serve(context.Background(), rec, RelayRequest{URL: validURL, Format: "mp4"})
	if err != nil {
		t.Fatalf("Serve returned error: %v", err)
	}

	if n != int64(len("media-bytes")) {
		t.Errorf("expected %d bytes, got %d", len("media-bytes"), n)
	}
	if rec.Body.String() != "media-bytes" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="Foo Bar Baz.mp4"` {
		t.Errorf("unexpected Content-Disposition %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "video/mp4" {
		t.Errorf("unexpected Content-Type %q", got)
	}
	if ex.lastSelection != downloader.HighestMuxed {
		t.Errorf("expected highest muxed selection, got %s", ex.lastSelection)
	}
	if !ex.streams[0].closed {
		t.Error("expected stream to be closed")
	}
}

func TestRelay_ServeMP3(t *testing.T) {
	ex := &fakeExtractor{video: sampleVideo()}
	rec := httptest.NewRecorder()

	_, err := NewRelay(ex).Serve(context.Background(), rec, RelayRequest{URL: validURL, Format: "mp3", Itag: intPtr(22)})
	if err != nil {
		t.Fatalf("Serve returned error: %v", err)
	}

	if ex.lastSelection != downloader.HighestAudioOnly {
		t.Errorf("expected highest audio-only selection, got %s", ex.lastSelection)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="Foo Bar Baz.mp3"` {
		t.Errorf("unexpected Content-Disposition %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "audio/webm" {
		t.Errorf("expected the picked stream's own media type, got %q", got)
	}
}

func TestRelay_ContentTypeFallback(t *testing.T) {
	video := sampleVideo()
	for i := range video.Encodings {
		video.Encodings[i].MimeType = ""
	}

	tests := []struct {
		format string
		want   string
	}{
		{"mp4", "video/mp4"},
		{"mp3", "audio/mpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := httptest.NewRecorder()
			_, err := NewRelay(&fakeExtractor{video: video}).Serve(context.Background(), rec, RelayRequest{URL: validURL, Format: tt.format})
			if err != nil {
				t.Fatalf("Serve returned error: %v", err)
			}
			if got := rec.Header().Get("Content-Type"); got != tt.want {
				t.Errorf("Content-Type = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRelay_InvalidURL(t *testing.T) {
	ex := &fakeExtractor{video: sampleVideo()}
	rec := httptest.NewRecorder()

	_, err := NewRelay(ex).Serve(context.Background(), rec, RelayRequest{URL: "https://vimeo.com/12345", Format: "mp4"})
	if !errors.Is(err, downloader.ErrInvalidURL) {
		t.Fatalf("expected ErrInvalidURL, got %v", err)
	}
	if ex.resolveCalls != 0 || ex.openCalls != 0 {
		t.Errorf("extractor should not be called, got resolve=%d open=%d", ex.resolveCalls, ex.openCalls)
	}
	if rec.Body.Len() != 0 || len(rec.Header()) != 0 {
		t.Error("nothing should be written for an invalid url")
	}
}

func TestRelay_PreCommitFailures(t *testing.T) {
	tests := []struct {
		name string
		ex   *fakeExtractor
	}{
		{"metadata fails", &fakeExtractor{metaErr: errBoom}},
		{"stream open fails", &fakeExtractor{video: sampleVideo(), openErr: errBoom}},
		{"stream fails before first byte", &fakeExtractor{
			video:     sampleVideo(),
			newStream: func() io.ReadCloser { return &failingStream{err: errBoom} },
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			n, err := NewRelay(tt.ex).Serve(context.Background(), rec, RelayRequest{URL: validURL, Format: "mp4"})
			if !errors.Is(err, downloader.ErrExtractionFailed) {
				t.Fatalf("expected ErrExtractionFailed, got %v", err)
			}
			if errors.Is(err, ErrStreamAborted) {
				t.Error("pre-commit failure must not be reported as aborted")
			}
			if n != 0 {
				t.Errorf("expected 0 bytes, got %d", n)
			}
			if rec.Flushed || rec.Body.Len() != 0 {
				t.Error("nothing should have been written")
			}
			if rec.Header().Get("Content-Disposition") != "" {
				t.Error("attachment headers should be cleared on pre-commit failure")
			}
			for _, s := range tt.ex.streams {
				if !s.closed {
					t.Error("expected stream to be closed")
				}
			}
		})
	}
}

func TestRelay_PostCommitFailure(t *testing.T) {
	ex := &fakeExtractor{
		video:     sampleVideo(),
		newStream: func() io.ReadCloser { return &failingStream{data: []byte("partial"), err: errBoom} },
	}
	rec := httptest.NewRecorder()

	n, err := NewRelay(ex).Serve(context.Background(), rec, RelayRequest{URL: validURL, Format: "mp4", Itag: intPtr(22)})
	if !errors.Is(err, ErrStreamAborted) {
		t.Fatalf("expected ErrStreamAborted, got %v", err)
	}
	if n != int64(len("partial")) {
		t.Errorf("expected %d bytes, got %d", len("partial"), n)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status must stay %d, got %d", http.StatusOK, rec.Code)
	}
	if rec.Body.String() != "partial" {
		t.Errorf("expected only the partial body, got %q", rec.Body.String())
	}
	if ex.lastSelection != downloader.ByItag(22) {
		t.Errorf("expected itag 22 selection, got %s", ex.lastSelection)
	}
	if !ex.streams[0].closed {
		t.Error("expected stream to be closed")
	}
}

// brokenClient fails every write, like a disconnected peer
type brokenClient struct {
	header http.Header
}

func (b *brokenClient) Header() http.Header         { return b.header }
func (b *brokenClient) WriteHeader(statusCode int)  {}
func (b *brokenClient) Write(p []byte) (int, error) { return 0, errors.New("broken pipe") }

func TestRelay_ClientDisconnectReleasesStream(t *testing.T) {
	ex := &fakeExtractor{video: sampleVideo()}

	_, err := NewRelay(ex).Serve(context.Background(), &brokenClient{header: http.Header{}}, RelayRequest{URL: validURL})
	if !errors.Is(err, ErrStreamAborted) {
		t.Fatalf("expected ErrStreamAborted, got %v", err)
	}
	if !ex.streams[0].closed {
		t.Error("expected stream to be closed after write failure")
	}
}
