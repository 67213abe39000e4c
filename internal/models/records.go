package models

// Tags are the tagging fields of a track. Album-level fields are merged in
// from the parent album via [AlbumTags.Apply].
type Tags struct {
	TrackNumber int    `json:"track_number,omitempty"`
	TotalTracks int    `json:"total_tracks,omitempty"`
	DiscNumber  int    `json:"disc_number,omitempty"`
	TotalDiscs  int    `json:"total_discs,omitempty"`
	ISRC        string `json:"isrc,omitempty"`
	UPC         string `json:"upc,omitempty"`
	Copyright   string `json:"copyright,omitempty"`
	Label       string `json:"label,omitempty"`
	AlbumArtist string `json:"album_artist,omitempty"`
	ReplayGain  string `json:"replay_gain,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`
}

// Track is the canonical track record.
//
// Error carries a soft failure (region, subscription, missing credentials)
// that does not prevent the metadata from being used.
type Track struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	AlbumID     string    `json:"album_id,omitempty"`
	Album       string    `json:"album,omitempty"`
	ArtistID    string    `json:"artist_id,omitempty"`
	Artists     []string  `json:"artists"`
	Tags        Tags      `json:"tags"`
	Format      FormatTag `json:"format,omitempty"`
	Codec       Codec     `json:"codec,omitempty"`
	Bitrate     int       `json:"bitrate,omitempty"` // kbps, zero when unknown
	BitDepth    int       `json:"bit_depth,omitempty"`
	SampleRate  float64   `json:"sample_rate,omitempty"` // kHz
	CoverURL    string    `json:"cover_url,omitempty"`
	ReleaseYear int       `json:"release_year,omitempty"`
	Duration    *int      `json:"duration,omitempty"` // seconds
	Explicit    *bool     `json:"explicit,omitempty"`
	PreviewURL  string    `json:"preview_url,omitempty"`

	Download *DownloadParams `json:"-"`
	Cover    CoverParams     `json:"-"`
	Credits  CreditsParams   `json:"-"`
	Lyrics   LyricsParams    `json:"-"`

	Error string `json:"error,omitempty"`
}

// Album is the canonical album record. Tracks holds member ids only.
type Album struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Artist           string        `json:"artist"`
	ArtistID         string        `json:"artist_id,omitempty"`
	Tracks           []string      `json:"tracks"`
	ReleaseYear      int           `json:"release_year,omitempty"`
	Explicit         *bool         `json:"explicit,omitempty"`
	CoverURL         string        `json:"cover_url,omitempty"`
	CoverType        ImageFileType `json:"cover_type,omitempty"`
	AllTrackCoverJPG string        `json:"all_track_cover_jpg_url,omitempty"`
	UPC              string        `json:"upc,omitempty"`
	Label            string        `json:"label,omitempty"`

	TrackParams TrackParams `json:"-"`

	Error string `json:"error,omitempty"`
}

// Playlist is the canonical playlist record. Tracks holds member ids only.
type Playlist struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Creator     string        `json:"creator"`
	CreatorID   string        `json:"creator_id,omitempty"`
	Tracks      []string      `json:"tracks"`
	ReleaseYear int           `json:"release_year,omitempty"`
	CoverURL    string        `json:"cover_url,omitempty"`
	CoverType   ImageFileType `json:"cover_type,omitempty"`
	Description string        `json:"description,omitempty"`

	TrackParams TrackParams `json:"-"`

	Error string `json:"error,omitempty"`
}

// ArtistAlbum summarizes one discography entry. Only ID is guaranteed.
type ArtistAlbum struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Artist      string `json:"artist,omitempty"`
	ReleaseYear int    `json:"release_year,omitempty"`
	CoverURL    string `json:"cover_url,omitempty"`
}

// Artist is the canonical artist record. Albums holds member album ids in
// discography order; Discography carries display summaries for the same ids.
type Artist struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Albums      []string      `json:"albums"`
	Discography []ArtistAlbum `json:"discography,omitempty"`

	Error string `json:"error,omitempty"`
}

// SearchParams are threaded from a search hit into its later resolution.
type SearchParams struct {
	ArtistName string `json:"artist_name,omitempty"`
}

// SearchResult is an entity-agnostic search hit.
type SearchResult struct {
	ID         string        `json:"id"`
	Type       MediaType     `json:"type"`
	Name       string        `json:"name"`
	Artists    []string      `json:"artists,omitempty"`
	Year       int           `json:"year,omitempty"`
	Duration   *int          `json:"duration,omitempty"`
	Explicit   *bool         `json:"explicit,omitempty"`
	ImageURL   string        `json:"image_url,omitempty"`
	PreviewURL string        `json:"preview_url,omitempty"`
	Additional []string      `json:"additional,omitempty"`
	Params     *SearchParams `json:"params,omitempty"`
}

// Credit is one contributor role and the names credited in it.
type Credit struct {
	Role  string   `json:"role"`
	Names []string `json:"names"`
}

// Cover is a resolved artwork URL.
type Cover struct {
	URL      string        `json:"url"`
	FileType ImageFileType `json:"file_type"`
}

// Lyrics holds plain and synchronized (LRC) lyrics. Both may be empty.
type Lyrics struct {
	Embedded string `json:"embedded,omitempty"`
	Synced   string `json:"synced,omitempty"`
}

// Download points at a temporary file now owned by the caller.
type Download struct {
	TempFilePath string    `json:"temp_file_path"`
	Format       FormatTag `json:"format"`
	Size         int64     `json:"size"`
}
