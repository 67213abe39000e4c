package resolver

import (
	"strconv"

	"github.com/desertthunder/dzx/internal/formats"
	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/schema"
	"github.com/samber/lo"
)

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}

func publicTrackIDs(tracks []schema.PublicTrack) []string {
	return lo.Map(tracks, func(t schema.PublicTrack, _ int) string { return idString(t.ID) })
}

// publicTrack maps a public track. The public schema carries ready-made
// image URLs and no stream data, so nothing is negotiated. A track the
// catalog marks unreadable carries the not-available reason instead of the
// public notice.
func publicTrack(id string, t *schema.PublicTrack, params *models.TrackParams) *models.Track {
	tags := models.Tags{
		TrackNumber: t.TrackPosition,
		DiscNumber:  t.DiskNumber,
		ISRC:        t.ISRC,
		ReleaseDate: t.ReleaseDate,
	}
	if t.Gain != 0 {
		tags.ReplayGain = strconv.FormatFloat(t.Gain, 'f', -1, 64)
	}
	if params != nil {
		params.AlbumTags.Apply(&tags)
	}

	track := &models.Track{
		ID:          id,
		Name:        t.Title,
		AlbumID:     idString(t.Album.ID),
		Album:       t.Album.Title,
		ArtistID:    idString(t.Artist.ID),
		Artists:     t.ArtistNames(),
		Tags:        tags,
		CoverURL:    lo.CoalesceOrEmpty(t.Album.CoverXL, t.Album.CoverMedium),
		ReleaseYear: yearOf(tags.ReleaseDate),
		Explicit:    lo.ToPtr(t.ExplicitLyrics),
		PreviewURL:  t.Preview,
		Error:       PublicNotice,
	}
	if t.Duration > 0 {
		track.Duration = lo.ToPtr(t.Duration)
	}
	if !t.Readable {
		track.Error = formats.ReasonNotAvailable
	}
	return track
}

// publicAlbumTotals mirrors albumTotals; listings without positions fall
// back to the listing length on a single disc.
func publicAlbumTotals(a *schema.PublicAlbum) (tracks, discs int) {
	data := a.Tracks.Data
	if len(data) == 0 {
		return 0, 0
	}
	last := data[len(data)-1]
	tracks, discs = last.TrackPosition, last.DiskNumber
	if tracks == 0 {
		tracks = max(a.NbTracks, len(data))
	}
	if discs == 0 {
		discs = 1
	}
	return tracks, discs
}

func publicAlbum(id string, a *schema.PublicAlbum) *models.Album {
	totalTracks, totalDiscs := publicAlbumTotals(a)
	tags := &models.AlbumTags{
		TotalTracks: totalTracks,
		TotalDiscs:  totalDiscs,
		UPC:         a.UPC,
		Label:       a.Label,
		AlbumArtist: a.Artist.Name,
		ReleaseDate: a.ReleaseDate,
	}

	return &models.Album{
		ID:               id,
		Name:             a.Title,
		Artist:           a.Artist.Name,
		ArtistID:         idString(a.Artist.ID),
		Tracks:           publicTrackIDs(a.Tracks.Data),
		ReleaseYear:      yearOf(a.ReleaseDate),
		Explicit:         lo.ToPtr(a.ExplicitLyrics),
		CoverURL:         a.CoverXL,
		CoverType:        models.ImageJPG,
		AllTrackCoverJPG: a.CoverXL,
		UPC:              a.UPC,
		Label:            a.Label,
		TrackParams:      models.TrackParams{AlbumTags: tags},
		Error:            PublicNotice,
	}
}

func publicPlaylist(id string, p *schema.PublicPlaylist) *models.Playlist {
	owner := p.Owner()
	return &models.Playlist{
		ID:          id,
		Name:        p.Title,
		Creator:     owner.Name,
		CreatorID:   idString(owner.ID),
		Tracks:      publicTrackIDs(p.Tracks.Data),
		ReleaseYear: yearOf(p.CreationDate),
		CoverURL:    p.PictureXL,
		CoverType:   models.ImageJPG,
		Description: p.Description,
		Error:       PublicNotice,
	}
}

func publicDiscography(albums []schema.PublicAlbum, artistName string) []models.ArtistAlbum {
	return lo.Map(albums, func(a schema.PublicAlbum, _ int) models.ArtistAlbum {
		entry := models.ArtistAlbum{ID: idString(a.ID)}
		if a.Title == "" {
			return entry
		}
		entry.Name = a.Title
		entry.Artist = lo.CoalesceOrEmpty(a.Artist.Name, artistName)
		entry.ReleaseYear = yearOf(a.ReleaseDate)
		entry.CoverURL = a.CoverSmall
		return entry
	})
}
