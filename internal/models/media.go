package models

import (
	"fmt"
	"strings"
)

// MediaType is the closed set of catalog entity kinds.
type MediaType int

const (
	MediaTrack MediaType = iota
	MediaAlbum
	MediaPlaylist
	MediaArtist
)

var mediaTypeNames = [...]string{"track", "album", "playlist", "artist"}

func (m MediaType) String() string {
	if m < 0 || int(m) >= len(mediaTypeNames) {
		return fmt.Sprintf("MediaType(%d)", int(m))
	}
	return mediaTypeNames[m]
}

// ParseMediaType parses a lower-case entity name such as "album".
func ParseMediaType(s string) (MediaType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range mediaTypeNames {
		if name == s {
			return MediaType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown media type %q", s)
}

// MediaIdentification is the result of parsing a catalog locator.
type MediaIdentification struct {
	Type MediaType `json:"type"`
	ID   string    `json:"id"`
}
