package schema

import "strings"

// Artist is a gateway artist entry.
type Artist struct {
	ArtID      Text   `json:"ART_ID"`
	ArtName    string `json:"ART_NAME"`
	ArtPicture string `json:"ART_PICTURE"`
}

type availableCountries struct {
	StreamAds []string `json:"STREAM_ADS"`
}

type rights struct {
	StreamAdsAvailable bool `json:"STREAM_ADS_AVAILABLE"`
}

// Track is a gateway track (song.getData / deezer.pageTrack DATA).
type Track struct {
	SngID               Text                `json:"SNG_ID"`
	SngTitle            string              `json:"SNG_TITLE"`
	Version             string              `json:"VERSION"`
	AlbID               Text                `json:"ALB_ID"`
	AlbTitle            string              `json:"ALB_TITLE"`
	AlbPicture          string              `json:"ALB_PICTURE"`
	ArtID               Text                `json:"ART_ID"`
	ArtName             string              `json:"ART_NAME"`
	Artists             []Artist            `json:"ARTISTS"`
	TrackNumber         Text                `json:"TRACK_NUMBER"`
	DiskNumber          Text                `json:"DISK_NUMBER"`
	ISRC                string              `json:"ISRC"`
	Copyright           string              `json:"COPYRIGHT"`
	Gain                Text                `json:"GAIN"`
	PhysicalReleaseDate string              `json:"PHYSICAL_RELEASE_DATE"`
	Duration            Text                `json:"DURATION"`
	ExplicitLyrics      Text                `json:"EXPLICIT_LYRICS"`
	TrackToken          string              `json:"TRACK_TOKEN"`
	TrackTokenExpire    int64               `json:"TRACK_TOKEN_EXPIRE"`
	FilesizeMP3128      Text                `json:"FILESIZE_MP3_128"`
	FilesizeMP3320      Text                `json:"FILESIZE_MP3_320"`
	FilesizeFLAC        Text                `json:"FILESIZE_FLAC"`
	AvailableCountries  availableCountries  `json:"AVAILABLE_COUNTRIES"`
	Rights              rights              `json:"RIGHTS"`
	Contributors        map[string][]string `json:"SNG_CONTRIBUTORS"`
	Fallback            *Track              `json:"FALLBACK,omitempty"`
}

// Effective returns the fallback record when the upstream substituted one.
func (t *Track) Effective() *Track {
	if t.Fallback != nil {
		return t.Fallback
	}
	return t
}

// ArtistNames lists credited artists, falling back to the main artist.
func (t *Track) ArtistNames() []string {
	if len(t.Artists) == 0 {
		if t.ArtName == "" {
			return nil
		}
		return []string{t.ArtName}
	}
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.ArtName)
	}
	return names
}

// UserUploaded reports whether the track id is negative.
func (t *Track) UserUploaded() bool {
	return strings.HasPrefix(strings.TrimSpace(string(t.SngID)), "-")
}

// LyricsLine is one timed line of synchronized lyrics.
type LyricsLine struct {
	LrcTimestamp string `json:"lrc_timestamp"`
	Milliseconds Text   `json:"milliseconds"`
	Duration     Text   `json:"duration"`
	Line         string `json:"line"`
}

// Lyrics is a gateway lyrics payload.
type Lyrics struct {
	LyricsID       Text         `json:"LYRICS_ID"`
	LyricsText     string       `json:"LYRICS_TEXT"`
	LyricsSyncJSON []LyricsLine `json:"LYRICS_SYNC_JSON"`
}

// TrackPage is the deezer.pageTrack response.
type TrackPage struct {
	Data   Track   `json:"DATA"`
	Lyrics *Lyrics `json:"LYRICS,omitempty"`
}

type explicitContent struct {
	ExplicitLyricsStatus int `json:"EXPLICIT_LYRICS_STATUS"`
}

// Explicit reports whether the status marks explicit content.
func (e explicitContent) Explicit() bool {
	return e.ExplicitLyricsStatus == 1 || e.ExplicitLyricsStatus == 4
}

// Album is a gateway album.
type Album struct {
	AlbID                Text            `json:"ALB_ID"`
	AlbTitle             string          `json:"ALB_TITLE"`
	AlbPicture           string          `json:"ALB_PICTURE"`
	ArtID                Text            `json:"ART_ID"`
	ArtName              string          `json:"ART_NAME"`
	Artists              []Artist        `json:"ARTISTS"`
	UPC                  string          `json:"UPC"`
	LabelName            string          `json:"LABEL_NAME"`
	OriginalReleaseDate  string          `json:"ORIGINAL_RELEASE_DATE"`
	PhysicalReleaseDate  string          `json:"PHYSICAL_RELEASE_DATE"`
	ExplicitAlbumContent explicitContent `json:"EXPLICIT_ALBUM_CONTENT"`
	NumberTrack          Text            `json:"NUMBER_TRACK"`
}

// ReleaseDate prefers the original release date over the physical one.
func (a *Album) ReleaseDate() string {
	if a.OriginalReleaseDate != "" {
		return a.OriginalReleaseDate
	}
	return a.PhysicalReleaseDate
}

// Explicit reports the album explicit status.
func (a *Album) Explicit() bool {
	return a.ExplicitAlbumContent.Explicit()
}

// ArtistNames lists the album artists, falling back to the main artist.
func (a *Album) ArtistNames() []string {
	if len(a.Artists) == 0 {
		return []string{a.ArtName}
	}
	names := make([]string, 0, len(a.Artists))
	for _, ar := range a.Artists {
		names = append(names, ar.ArtName)
	}
	return names
}

// TrackList is the SONGS envelope of album and playlist pages.
type TrackList struct {
	Data  []Track `json:"data"`
	Count int     `json:"count"`
	Total int     `json:"total"`
}

// AlbumPage is the deezer.pageAlbum response.
type AlbumPage struct {
	Data  Album     `json:"DATA"`
	Songs TrackList `json:"SONGS"`
}

// Playlist is a gateway playlist.
type Playlist struct {
	PlaylistID      Text   `json:"PLAYLIST_ID"`
	Title           string `json:"TITLE"`
	Description     string `json:"DESCRIPTION"`
	ParentUsername  string `json:"PARENT_USERNAME"`
	ParentUserID    Text   `json:"PARENT_USER_ID"`
	PlaylistPicture string `json:"PLAYLIST_PICTURE"`
	DateAdd         string `json:"DATE_ADD"`
	NbSong          Text   `json:"NB_SONG"`
}

// PlaylistPage is the deezer.pagePlaylist response.
type PlaylistPage struct {
	Data  Playlist  `json:"DATA"`
	Songs TrackList `json:"SONGS"`
}

// SearchPage holds the hits of a gateway search. Only the slice matching the
// requested media type is populated.
type SearchPage struct {
	Tracks    []Track
	Albums    []Album
	Artists   []Artist
	Playlists []Playlist
}
