package models

import (
	"fmt"
	"strings"
)

// QualityTier is the user-facing quality request, ordered lowest to highest.
type QualityTier int

const (
	QualityMinimum QualityTier = iota
	QualityLow
	QualityMedium
	QualityHigh
	QualityLossless
	QualityHiFi
)

var qualityNames = [...]string{"minimum", "low", "medium", "high", "lossless", "hifi"}

func (q QualityTier) String() string {
	if q < 0 || int(q) >= len(qualityNames) {
		return fmt.Sprintf("QualityTier(%d)", int(q))
	}
	return qualityNames[q]
}

// ParseQualityTier parses a tier name such as "lossless".
func ParseQualityTier(s string) (QualityTier, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range qualityNames {
		if name == s {
			return QualityTier(i), nil
		}
	}
	return 0, fmt.Errorf("unknown quality tier %q", s)
}

// FormatTag is a coarse codec and bitrate class as named by the upstream service.
type FormatTag string

const (
	FormatMisc   FormatTag = "MP3_MISC"
	FormatMP3128 FormatTag = "MP3_128"
	FormatMP3320 FormatTag = "MP3_320"
	FormatFLAC   FormatTag = "FLAC"
)

// Codec is the container/codec of a deliverable stream.
type Codec string

const (
	CodecMP3  Codec = "mp3"
	CodecFLAC Codec = "flac"
)

// FormatSet is a set of format tags an account may stream.
type FormatSet map[FormatTag]struct{}

// NewFormatSet builds a set from the given tags.
func NewFormatSet(tags ...FormatTag) FormatSet {
	set := make(FormatSet, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}

// Has reports whether tag is in the set. A nil set contains nothing.
func (s FormatSet) Has(tag FormatTag) bool {
	_, ok := s[tag]
	return ok
}

// Account is what a successful login reports about the session.
type Account struct {
	UserID  string
	Name    string
	Country string
	Formats []FormatTag
}
