package downloader

import (
	"regexp"
	"sort"
	"strings"
)

const (
	FormatMP4 = "mp4"
	FormatMP3 = "mp3"
)

// StandardContainer is the platform's standard video container
const StandardContainer = "mp4"

// VideoMetadata is returned to clients by the info endpoint
type VideoMetadata struct {
	Title     string   `json:"title"`
	Thumbnail string   `json:"thumbnail"`
	Duration  string   `json:"duration"`
	Formats   []Format `json:"formats"`
}

// Format describes one encoding a client can pick
type Format struct {
	Itag         int     `json:"itag"`
	QualityLabel *string `json:"qualityLabel"`
	Container    string  `json:"container"`
	HasAudio     bool    `json:"hasAudio"`
	HasVideo     bool    `json:"hasVideo"`
}

// NormalizeFormats keeps mp4 encodings and anything carrying audio.
// Order is preserved, no dedup is done here.
func NormalizeFormats(encodings []Encoding) []Format {
	formats := make([]Format, 0, len(encodings))
	for _, e := range encodings {
		if e.Container != StandardContainer && !e.HasAudio {
			continue
		}

		f := Format{
			Itag:      e.Itag,
			Container: e.Container,
			HasAudio:  e.HasAudio,
			HasVideo:  e.HasVideo,
		}
		if e.QualityLabel != "" {
			label := e.QualityLabel
			f.QualityLabel = &label
		}
		formats = append(formats, f)
	}
	return formats
}

// PickerFormats is a helper for API clients building a quality picker out of
// the info response. The server itself returns formats undeduplicated.
// It keeps video entries for mp4 and audio entries for mp3, unique by quality
// label (or itag when unlabeled), first occurrence wins, highest itag first.
func PickerFormats(formats []Format, kind string) []Format {
	seenLabels := make(map[string]bool)
	seenItags := make(map[int]bool)

	result := make([]Format, 0, len(formats))
	for _, f := range formats {
		if kind == FormatMP3 {
			if !f.HasAudio {
				continue
			}
		} else if !f.HasVideo {
			continue
		}

		if f.QualityLabel != nil {
			if seenLabels[*f.QualityLabel] {
				continue
			}
			seenLabels[*f.QualityLabel] = true
		} else {
			if seenItags[f.Itag] {
				continue
			}
			seenItags[f.Itag] = true
		}
		result = append(result, f)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Itag > result[j].Itag
	})
	return result
}

// EffectiveFormat maps anything but mp3 to mp4
func EffectiveFormat(format string) string {
	if format == FormatMP3 {
		return FormatMP3
	}
	return FormatMP4
}

// ContentType returns the attachment mime type. The picked encoding's own
// media type wins, nothing is transcoded. Without one it falls back to the
// effective format.
func ContentType(format string, picked *Encoding) string {
	if picked != nil {
		mediaType, _, _ := strings.Cut(picked.MimeType, ";")
		if mediaType = strings.TrimSpace(mediaType); mediaType != "" {
			return strings.ToLower(mediaType)
		}
	}
	if format == FormatMP3 {
		return "audio/mpeg"
	}
	return "video/mp4"
}

var (
	nonWordChars = regexp.MustCompile(`[^\w\s]`)
	whitespace   = regexp.MustCompile(`\s`)
)

const fallbackTitle = "download"

// SanitizeTitle drops everything but word characters and whitespace.
// Whitespace is flattened to plain spaces so it can't break the header line.
func SanitizeTitle(title string) string {
	s := nonWordChars.ReplaceAllString(title, "")
	s = whitespace.ReplaceAllString(s, " ")
	if strings.TrimSpace(s) == "" {
		return fallbackTitle
	}
	return s
}

// AttachmentFilename returns "<sanitized title>.<ext>"
func AttachmentFilename(title, format string) string {
	return SanitizeTitle(title) + "." + EffectiveFormat(format)
}

// containerOf extracts the subtype of a mime type, "video/mp4; codecs=..." -> "mp4"
func containerOf(mimeType string) string {
	mediaType, _, _ := strings.Cut(mimeType, ";")
	_, subtype, ok := strings.Cut(strings.TrimSpace(mediaType), "/")
	if !ok {
		return ""
	}
	return strings.ToLower(subtype)
}
