package downloader

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/kkdai/youtube/v2"
)

var videoIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// Hosts where the video id travels in the "v" query parameter
var queryHosts = map[string]bool{
	"youtube.com":        true,
	"www.youtube.com":    true,
	"m.youtube.com":      true,
	"music.youtube.com":  true,
	"gaming.youtube.com": true,
}

var pathPrefixes = []string{"/embed/", "/v/", "/shorts/", "/live/"}

// YouTubeDownloader is the Extractor backed by kkdai/youtube
type YouTubeDownloader struct {
	client youtube.Client
}

func NewYouTubeDownloader() *YouTubeDownloader {
	return &YouTubeDownloader{
		client: youtube.Client{},
	}
}

func (d *YouTubeDownloader) IsSupportedURL(rawURL string) bool {
	return IsSupportedURL(rawURL)
}

func (d *YouTubeDownloader) ResolveMetadata(ctx context.Context, rawURL string) (*Video, error) {
	video, err := d.client.GetVideoContext(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get video info: %w", err)
	}

	return toVideo(video), nil
}

func (d *YouTubeDownloader) OpenStream(ctx context.Context, rawURL string, sel Selection) (io.ReadCloser, error) {
	video, err := d.client.GetVideoContext(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get video info: %w", err)
	}

	format, err := formatFor(video, sel)
	if err != nil {
		return nil, err
	}

	stream, _, err := d.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, fmt.Errorf("failed to get stream: %w", err)
	}
	return stream, nil
}

// formatFor resolves sel against the video's formats and returns the kkdai
// format with the picked itag
func formatFor(video *youtube.Video, sel Selection) (*youtube.Format, error) {
	encodings := make([]Encoding, 0, len(video.Formats))
	for _, f := range video.Formats {
		encodings = append(encodings, toEncoding(f))
	}

	picked, err := sel.Pick(encodings)
	if err != nil {
		return nil, err
	}

	for i := range video.Formats {
		if video.Formats[i].ItagNo == picked.Itag {
			return &video.Formats[i], nil
		}
	}
	return nil, fmt.Errorf("%w for %s", ErrNoMatchingFormat, sel)
}

// IsSupportedURL reports whether rawURL is an absolute YouTube video URL
func IsSupportedURL(rawURL string) bool {
	return extractYouTubeID(rawURL) != ""
}

func extractYouTubeID(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || !u.IsAbs() {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}

	var id string
	host := strings.ToLower(u.Hostname())
	switch {
	case host == "youtu.be":
		id, _, _ = strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	case queryHosts[host]:
		id = u.Query().Get("v")
		if id != "" {
			break
		}
		for _, prefix := range pathPrefixes {
			if strings.HasPrefix(u.Path, prefix) {
				id, _, _ = strings.Cut(strings.TrimPrefix(u.Path, prefix), "/")
				break
			}
		}
	}

	if !videoIDPattern.MatchString(id) {
		return ""
	}
	return id
}

func toVideo(video *youtube.Video) *Video {
	v := &Video{
		Title:           video.Title,
		DurationSeconds: int(video.Duration.Seconds()),
		Encodings:       make([]Encoding, 0, len(video.Formats)),
	}
	if len(video.Thumbnails) > 0 {
		v.ThumbnailURL = video.Thumbnails[0].URL
	}
	for _, f := range video.Formats {
		v.Encodings = append(v.Encodings, toEncoding(f))
	}
	return v
}

func toEncoding(f youtube.Format) Encoding {
	return Encoding{
		Itag:         f.ItagNo,
		QualityLabel: f.QualityLabel,
		MimeType:     f.MimeType,
		Container:    containerOf(f.MimeType),
		Bitrate:      f.Bitrate,
		HasAudio:     f.AudioChannels > 0 || f.AudioQuality != "",
		HasVideo:     strings.HasPrefix(f.MimeType, "video/"),
	}
}
