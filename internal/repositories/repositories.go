package repositories

import (
	"strings"
	"time"
)

// SessionTokenKey is the settings key under which the session token is kept.
const SessionTokenKey = "arl"

// artistSeparator joins artist names into a single column.
const artistSeparator = "; "

func joinArtists(artists []string) string {
	return strings.Join(artists, artistSeparator)
}

func splitArtists(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, artistSeparator)
}

func now() time.Time {
	return time.Now().UTC()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint")
}
