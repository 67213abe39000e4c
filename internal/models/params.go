package models

import "github.com/desertthunder/dzx/internal/schema"

// AlbumTags are album-level tags merged into each member track.
type AlbumTags struct {
	TotalTracks int
	TotalDiscs  int
	UPC         string
	Label       string
	AlbumArtist string
	ReleaseDate string
}

// Apply overwrites the album-level keys of t.
func (a *AlbumTags) Apply(t *Tags) {
	if a == nil {
		return
	}
	t.TotalTracks = a.TotalTracks
	t.TotalDiscs = a.TotalDiscs
	t.UPC = a.UPC
	t.Label = a.Label
	t.AlbumArtist = a.AlbumArtist
	t.ReleaseDate = a.ReleaseDate
}

// TrackParams are threaded from a parent collection into track resolution.
//
// Prefetched holds raw tracks the parent already has, keyed by track id. It is
// required for user-uploaded tracks, which cannot be fetched individually.
type TrackParams struct {
	AlbumTags  *AlbumTags
	Prefetched map[string]*schema.Track
}

// DownloadParams are everything the download lookup needs. Nil on records
// produced without an authenticated session.
type DownloadParams struct {
	ID               string
	TrackToken       string
	TrackTokenExpiry int64
	Format           FormatTag
}

// CoverParams caches album picture hashes by track id.
type CoverParams struct {
	Prefetched map[string]string
}

// CreditsParams caches contributor maps by track id.
type CreditsParams struct {
	Prefetched map[string]map[string][]string
}

// LyricsParams caches raw lyrics by track id.
type LyricsParams struct {
	Prefetched map[string]*schema.Lyrics
}
