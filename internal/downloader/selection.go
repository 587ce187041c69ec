package downloader

import "fmt"

// Policy tells the extractor how to choose an encoding
type Policy int

const (
	PolicyItag Policy = iota
	PolicyHighestAudioOnly
	PolicyHighestMuxed
)

// Selection is either an explicit itag or a declarative policy
type Selection struct {
	Policy Policy
	Itag   int
}

var (
	HighestAudioOnly = Selection{Policy: PolicyHighestAudioOnly}
	HighestMuxed     = Selection{Policy: PolicyHighestMuxed}
)

// ByItag selects the encoding with exactly this itag
func ByItag(itag int) Selection {
	return Selection{Policy: PolicyItag, Itag: itag}
}

func (s Selection) String() string {
	switch s.Policy {
	case PolicyItag:
		return fmt.Sprintf("itag=%d", s.Itag)
	case PolicyHighestAudioOnly:
		return "highestaudio"
	case PolicyHighestMuxed:
		return "highestmuxed"
	default:
		return fmt.Sprintf("policy(%d)", int(s.Policy))
	}
}

// Pick returns the encoding this selection refers to.
// Audio-only encodings compete on bitrate, muxed encodings on itag.
func (s Selection) Pick(encodings []Encoding) (Encoding, error) {
	var (
		best  Encoding
		found bool
	)

	for _, e := range encodings {
		switch s.Policy {
		case PolicyItag:
			if e.Itag == s.Itag {
				return e, nil
			}
		case PolicyHighestAudioOnly:
			if e.HasAudio && !e.HasVideo && (!found || e.Bitrate > best.Bitrate) {
				best, found = e, true
			}
		case PolicyHighestMuxed:
			if e.HasAudio && e.HasVideo && (!found || e.Itag > best.Itag) {
				best, found = e, true
			}
		}
	}

	if !found {
		return Encoding{}, fmt.Errorf("%w for %s", ErrNoMatchingFormat, s)
	}
	return best, nil
}
