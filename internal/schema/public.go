package schema

// PublicArtist is an artist from the public REST API.
type PublicArtist struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	PictureSmall  string `json:"picture_small"`
	PictureMedium string `json:"picture_medium"`
	PictureXL     string `json:"picture_xl"`
	NbAlbum       int    `json:"nb_album"`
	Role          string `json:"role,omitempty"`
}

// PublicAlbumRef is the album stub embedded in public track objects.
type PublicAlbumRef struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Cover       string `json:"cover"`
	CoverSmall  string `json:"cover_small"`
	CoverMedium string `json:"cover_medium"`
	CoverXL     string `json:"cover_xl"`
	MD5Image    string `json:"md5_image"`
	ReleaseDate string `json:"release_date"`
}

// PublicTrack is a track from the public REST API.
type PublicTrack struct {
	ID             int64          `json:"id"`
	Readable       bool           `json:"readable"`
	Title          string         `json:"title"`
	ISRC           string         `json:"isrc"`
	Duration       int            `json:"duration"`
	TrackPosition  int            `json:"track_position"`
	DiskNumber     int            `json:"disk_number"`
	ReleaseDate    string         `json:"release_date"`
	ExplicitLyrics bool           `json:"explicit_lyrics"`
	Gain           float64        `json:"gain"`
	Preview        string         `json:"preview"`
	MD5Image       string         `json:"md5_image"`
	Artist         PublicArtist   `json:"artist"`
	Contributors   []PublicArtist `json:"contributors"`
	Album          PublicAlbumRef `json:"album"`
}

// ArtistNames lists the contributors, falling back to the main artist.
func (t *PublicTrack) ArtistNames() []string {
	if len(t.Contributors) == 0 {
		if t.Artist.Name == "" {
			return nil
		}
		return []string{t.Artist.Name}
	}
	names := make([]string, 0, len(t.Contributors))
	for _, c := range t.Contributors {
		names = append(names, c.Name)
	}
	return names
}

// PublicTrackList is the paged track envelope of public albums and playlists.
type PublicTrackList struct {
	Data  []PublicTrack `json:"data"`
	Total int           `json:"total"`
	Next  string        `json:"next,omitempty"`
}

type publicLabel struct {
	Name string `json:"name"`
}

// PublicAlbum is an album from the public REST API.
type PublicAlbum struct {
	ID             int64           `json:"id"`
	Title          string          `json:"title"`
	UPC            string          `json:"upc"`
	Label          string          `json:"label"`
	ReleaseDate    string          `json:"release_date"`
	RecordType     string          `json:"record_type"`
	ExplicitLyrics bool            `json:"explicit_lyrics"`
	Cover          string          `json:"cover"`
	CoverSmall     string          `json:"cover_small"`
	CoverMedium    string          `json:"cover_medium"`
	CoverXL        string          `json:"cover_xl"`
	MD5Image       string          `json:"md5_image"`
	NbTracks       int             `json:"nb_tracks"`
	Artist         PublicArtist    `json:"artist"`
	Contributors   []PublicArtist  `json:"contributors"`
	Tracks         PublicTrackList `json:"tracks"`
}

// PublicUser is the creator stub of a public playlist.
type PublicUser struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PublicPlaylist is a playlist from the public REST API.
type PublicPlaylist struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	NbTracks      int             `json:"nb_tracks"`
	Picture       string          `json:"picture"`
	PictureSmall  string          `json:"picture_small"`
	PictureMedium string          `json:"picture_medium"`
	PictureXL     string          `json:"picture_xl"`
	MD5Image      string          `json:"md5_image"`
	PictureType   string          `json:"picture_type"`
	CreationDate  string          `json:"creation_date"`
	Creator       PublicUser      `json:"creator"`
	User          PublicUser      `json:"user"`
	Tracks        PublicTrackList `json:"tracks"`
}

// Owner returns the creator, which search hits report as "user".
func (p *PublicPlaylist) Owner() PublicUser {
	if p.Creator.ID != 0 || p.Creator.Name != "" {
		return p.Creator
	}
	return p.User
}

// PublicSearchPage holds public search hits; only the requested type is set.
type PublicSearchPage struct {
	Tracks    []PublicTrack
	Albums    []PublicAlbum
	Artists   []PublicArtist
	Playlists []PublicPlaylist
}
