package resolver

import (
	"strings"

	"github.com/desertthunder/dzx/internal/formats"
	"github.com/desertthunder/dzx/internal/images"
	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/schema"
	"github.com/samber/lo"
)

func intOf(t schema.Text) int {
	n, _ := t.Int()
	return n
}

func gatewayTrackIDs(songs []schema.Track) []string {
	return lo.Map(songs, func(t schema.Track, _ int) string { return t.SngID.String() })
}

// gatewayTrack maps a gateway track. t must already be the effective record.
func (r *Resolver) gatewayTrack(id string, t *schema.Track, lyrics *schema.Lyrics, tier models.QualityTier, params *models.TrackParams) *models.Track {
	tags := models.Tags{
		TrackNumber: intOf(t.TrackNumber),
		DiscNumber:  intOf(t.DiskNumber),
		ISRC:        t.ISRC,
		Copyright:   t.Copyright,
		ReplayGain:  t.Gain.String(),
		ReleaseDate: t.PhysicalReleaseDate,
	}
	if params != nil {
		params.AlbumTags.Apply(&tags)
	}

	decision := formats.Negotiate(formats.Request{
		Tier:                    tier,
		UserUploaded:            t.UserUploaded() || userUploaded(id),
		UploaderAllowsStreaming: t.Rights.StreamAdsAvailable,
		Exists: map[models.FormatTag]bool{
			models.FormatFLAC:   !t.FilesizeFLAC.IsZero(),
			models.FormatMP3320: !t.FilesizeMP3320.IsZero(),
			models.FormatMP3128: !t.FilesizeMP3128.IsZero(),
		},
		Countries:      t.AvailableCountries.StreamAds,
		AccountCountry: r.session.Country(),
		Available:      r.session.Formats(),
	})

	track := &models.Track{
		ID:          id,
		Name:        composeTitle(t.SngTitle, t.Version),
		AlbumID:     t.AlbID.String(),
		Album:       t.AlbTitle,
		ArtistID:    t.ArtID.String(),
		Artists:     t.ArtistNames(),
		Tags:        tags,
		Format:      decision.Format,
		Codec:       decision.Codec,
		Bitrate:     decision.Bitrate,
		BitDepth:    formats.BitDepth,
		SampleRate:  formats.SampleRate,
		CoverURL:    r.coverURL(t.AlbPicture, models.ImageCover, models.ImageJPG),
		ReleaseYear: yearOf(tags.ReleaseDate),
		Download: &models.DownloadParams{
			ID:               t.SngID.String(),
			TrackToken:       t.TrackToken,
			TrackTokenExpiry: t.TrackTokenExpire,
			Format:           decision.Format,
		},
		Cover:   models.CoverParams{Prefetched: map[string]string{id: t.AlbPicture}},
		Credits: models.CreditsParams{Prefetched: map[string]map[string][]string{id: t.Contributors}},
		Lyrics:  models.LyricsParams{Prefetched: map[string]*schema.Lyrics{id: lyrics}},
	}
	if track.Download.ID == "" {
		track.Download.ID = id
	}
	if d, ok := t.Duration.Int(); ok {
		track.Duration = lo.ToPtr(d)
	}
	if t.ExplicitLyrics != "" {
		track.Explicit = lo.ToPtr(t.ExplicitLyrics == "1")
	}
	if decision.Err != nil {
		track.Error = decision.Err.Error()
	}
	return track
}

// albumTotals reads the track and disc counts from the last listed track.
func albumTotals(songs []schema.Track) (tracks, discs int) {
	if len(songs) == 0 {
		return 0, 0
	}
	last := songs[len(songs)-1]
	return intOf(last.TrackNumber), intOf(last.DiskNumber)
}

func (r *Resolver) gatewayAlbum(id string, page *schema.AlbumPage) *models.Album {
	a := &page.Data
	totalTracks, totalDiscs := albumTotals(page.Songs.Data)
	tags := &models.AlbumTags{
		TotalTracks: totalTracks,
		TotalDiscs:  totalDiscs,
		UPC:         a.UPC,
		Label:       a.LabelName,
		AlbumArtist: a.ArtName,
		ReleaseDate: a.ReleaseDate(),
	}

	// placeholder images cannot be requested as png
	coverType := images.Served(a.AlbPicture, r.cover.FileType)

	return &models.Album{
		ID:               lo.CoalesceOrEmpty(a.AlbID.String(), id),
		Name:             a.AlbTitle,
		Artist:           a.ArtName,
		ArtistID:         a.ArtID.String(),
		Tracks:           gatewayTrackIDs(page.Songs.Data),
		ReleaseYear:      yearOf(tags.ReleaseDate),
		Explicit:         lo.ToPtr(a.Explicit()),
		CoverURL:         r.coverURL(a.AlbPicture, models.ImageCover, coverType),
		CoverType:        coverType,
		AllTrackCoverJPG: r.coverURL(a.AlbPicture, models.ImageCover, models.ImageJPG),
		UPC:              a.UPC,
		Label:            a.LabelName,
		TrackParams:      models.TrackParams{AlbumTags: tags},
	}
}

// gatewayPlaylist maps a playlist page. composite is the public composite
// cover URL, possibly empty.
func (r *Resolver) gatewayPlaylist(id string, page *schema.PlaylistPage, composite string) *models.Playlist {
	p := &page.Data
	songs := page.Songs.Data
	pic := strings.TrimSpace(p.PlaylistPicture)

	cover := composite
	if cover == "" && pic != "" {
		cover = r.coverURL(pic, models.ImagePlaylist, r.cover.FileType)
	}
	if cover == "" && len(songs) > 0 && songs[0].AlbPicture != "" {
		cover = r.coverURL(songs[0].AlbPicture, models.ImageCover, models.ImageJPG)
	}

	// User-uploaded tracks cannot be fetched on their own, so they travel
	// with the playlist.
	uploads := map[string]*schema.Track{}
	for i := range songs {
		if songs[i].UserUploaded() {
			uploads[songs[i].SngID.String()] = &songs[i]
		}
	}

	return &models.Playlist{
		ID:          lo.CoalesceOrEmpty(p.PlaylistID.String(), id),
		Name:        p.Title,
		Creator:     p.ParentUsername,
		CreatorID:   p.ParentUserID.String(),
		Tracks:      gatewayTrackIDs(songs),
		ReleaseYear: yearOf(p.DateAdd),
		CoverURL:    cover,
		CoverType:   images.Served(pic, r.cover.FileType),
		Description: p.Description,
		TrackParams: models.TrackParams{Prefetched: uploads},
	}
}

// gatewayDiscography summarizes discography entries. Entries without a
// title carry only their id.
func gatewayDiscography(albums []schema.Album, artistName string) []models.ArtistAlbum {
	return lo.Map(albums, func(a schema.Album, _ int) models.ArtistAlbum {
		entry := models.ArtistAlbum{ID: a.AlbID.String()}
		if a.AlbTitle == "" {
			return entry
		}
		entry.Name = a.AlbTitle
		entry.Artist = lo.CoalesceOrEmpty(a.ArtName, artistName)
		entry.ReleaseYear = yearOf(a.ReleaseDate())
		if a.AlbPicture != "" {
			entry.CoverURL = images.Thumbnail(a.AlbPicture, models.ImageCover)
		}
		return entry
	})
}
