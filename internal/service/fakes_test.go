package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/artur/tubedrop/internal/database/models"
	"github.com/artur/tubedrop/internal/downloader"
)

// fakeExtractor implements downloader.Extractor without network access
type fakeExtractor struct {
	video     *downloader.Video
	metaErr   error
	openErr   error
	newStream func() io.ReadCloser

	resolveCalls  int
	openCalls     int
	lastSelection downloader.Selection
	streams       []*trackingStream
}

func (f *fakeExtractor) IsSupportedURL(rawURL string) bool {
	return downloader.IsSupportedURL(rawURL)
}

func (f *fakeExtractor) ResolveMetadata(ctx context.Context, rawURL string) (*downloader.Video, error) {
	f.resolveCalls++
	if f.metaErr != nil {
		return nil, f.metaErr
	}
	return f.video, nil
}

func (f *fakeExtractor) OpenStream(ctx context.Context, rawURL string, sel downloader.Selection) (io.ReadCloser, error) {
	f.openCalls++
	f.lastSelection = sel
	if f.openErr != nil {
		return nil, f.openErr
	}
	var rc io.ReadCloser = io.NopCloser(strings.NewReader("media-bytes"))
	if f.newStream != nil {
		rc = f.newStream()
	}
	ts := &trackingStream{ReadCloser: rc}
	f.streams = append(f.streams, ts)
	return ts, nil
}

type trackingStream struct {
	io.ReadCloser
	closed bool
}

func (s *trackingStream) Close() error {
	s.closed = true
	return s.ReadCloser.Close()
}

// failingStream yields data and then fails
type failingStream struct {
	data []byte
	err  error
}

func (s *failingStream) Read(p []byte) (int, error) {
	if len(s.data) == 0 {
		return 0, s.err
	}
	n := copy(p, s.data)
	s.data = s.data[n:]
	return n, nil
}

func (s *failingStream) Close() error { return nil }

var errBoom = errors.New("boom")

func sampleVideo() *downloader.Video {
	return &downloader.Video{
		Title:           "Foo: Bar? <Baz>!",
		ThumbnailURL:    "https://i.ytimg.com/vi/dQw4w9WgXcQ/default.jpg",
		DurationSeconds: 212,
		Encodings: []downloader.Encoding{
			{Itag: 18, QualityLabel: "360p", MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, Container: "mp4", HasAudio: true, HasVideo: true},
			{Itag: 22, QualityLabel: "720p", MimeType: `video/mp4; codecs="avc1.64001F, mp4a.40.2"`, Container: "mp4", HasAudio: true, HasVideo: true},
			{Itag: 136, QualityLabel: "720p", MimeType: `video/mp4; codecs="avc1.4d401f"`, Container: "mp4", HasVideo: true},
			{Itag: 248, QualityLabel: "1080p", MimeType: `video/webm; codecs="vp9"`, Container: "webm", HasVideo: true},
			{Itag: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, Container: "mp4", Bitrate: 130000, HasAudio: true},
			{Itag: 251, MimeType: `audio/webm; codecs="opus"`, Container: "webm", Bitrate: 160000, HasAudio: true},
		},
	}
}

// fakeStore is an in-memory HistoryStore
type fakeStore struct {
	mu        sync.Mutex
	records   []models.Download
	appendErr error
	listErr   error
	lastLimit int
}

func (s *fakeStore) Append(ctx context.Context, in models.DownloadInput) (*models.Download, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return nil, s.appendErr
	}
	d := models.Download{
		ID:        int64(len(s.records) + 1),
		URL:       in.URL,
		Title:     in.Title,
		Thumbnail: in.Thumbnail,
		Format:    in.Format,
		Quality:   in.Quality,
		CreatedAt: time.Now(),
	}
	s.records = append(s.records, d)
	return &d, nil
}

func (s *fakeStore) ListRecent(ctx context.Context, limit int) ([]models.Download, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLimit = limit
	if s.listErr != nil {
		return nil, s.listErr
	}
	result := make([]models.Download, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, s.records[i])
	}
	return result, nil
}

type fakeNotifier struct {
	notified chan *models.Download
	err      error
}

func (n *fakeNotifier) NotifyDownload(d *models.Download) error {
	n.notified <- d
	return n.err
}
