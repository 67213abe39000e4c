package resolver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/dzx/internal/images"
	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/schema"
	"github.com/desertthunder/dzx/internal/shared"
	"github.com/samber/lo"
)

// PlaylistEnrichLimit caps how many playlist hits get a cover lookup.
const PlaylistEnrichLimit = 25

// Search maps a catalog search into lightweight results. For track searches a
// reference track with an ISRC replaces the query with a direct lookup.
func (r *Resolver) Search(ctx context.Context, mediaType models.MediaType, query string, ref *models.Track, limit int) ([]models.SearchResult, error) {
	privileged, err := r.privileged(ctx)
	if err != nil {
		return nil, err
	}

	isrc := ""
	if ref != nil && mediaType == models.MediaTrack {
		isrc = strings.TrimSpace(ref.Tags.ISRC)
	}

	if privileged {
		return r.searchGateway(ctx, mediaType, query, isrc, limit)
	}
	return r.searchPublic(ctx, mediaType, query, isrc, limit)
}

func (r *Resolver) searchGateway(ctx context.Context, mediaType models.MediaType, query, isrc string, limit int) ([]models.SearchResult, error) {
	if isrc != "" {
		t, err := r.remote.TrackByISRC(ctx, isrc)
		switch {
		case err == nil:
			return r.gatewayTrackHits(ctx, []schema.Track{*t.Effective()}), nil
		case !errors.Is(err, shared.ErrNotFound):
			return nil, err
		}
		r.logger.Debug("isrc not found, searching by query", "isrc", isrc)
	}

	page, err := r.remote.Search(ctx, query, mediaType, 0, limit)
	if err != nil {
		return nil, err
	}

	switch mediaType {
	case models.MediaTrack:
		return r.gatewayTrackHits(ctx, page.Tracks), nil
	case models.MediaAlbum:
		return lo.Map(page.Albums, func(a schema.Album, _ int) models.SearchResult { return gatewayAlbumHit(a) }), nil
	case models.MediaArtist:
		return lo.Map(page.Artists, func(a schema.Artist, _ int) models.SearchResult { return gatewayArtistHit(a) }), nil
	case models.MediaPlaylist:
		return r.gatewayPlaylistHits(ctx, page.Playlists), nil
	}
	return nil, fmt.Errorf("%w: media type %s", shared.ErrInvalidArgument, mediaType)
}

// gatewayTrackHits maps track hits, taking previews and fallback thumbnails
// from one batched public lookup.
func (r *Resolver) gatewayTrackHits(ctx context.Context, tracks []schema.Track) []models.SearchResult {
	if len(tracks) == 0 {
		return []models.SearchResult{}
	}

	public, err := r.remote.PublicTracks(ctx, gatewayTrackIDs(tracks))
	if err != nil {
		r.logger.Warn("preview lookup failed", "error", err)
		public = nil
	}

	return lo.Map(tracks, func(t schema.Track, _ int) models.SearchResult {
		id := t.SngID.String()
		pub, hasPublic := public[id]

		hit := models.SearchResult{
			ID:         id,
			Type:       models.MediaTrack,
			Name:       composeTitle(t.SngTitle, t.Version),
			Artists:    t.ArtistNames(),
			Explicit:   lo.ToPtr(t.ExplicitLyrics == "1"),
			Additional: []string{t.AlbTitle},
		}
		if d, ok := t.Duration.Int(); ok && d > 0 {
			hit.Duration = lo.ToPtr(d)
		}
		if hasPublic {
			hit.PreviewURL = pub.Preview
		}
		switch {
		case t.AlbPicture != "":
			hit.ImageURL = images.Thumbnail(t.AlbPicture, models.ImageCover)
		case hasPublic:
			hit.ImageURL = pub.Album.CoverSmall
		}
		return hit
	})
}

func gatewayAlbumHit(a schema.Album) models.SearchResult {
	hit := models.SearchResult{
		ID:         a.AlbID.String(),
		Type:       models.MediaAlbum,
		Name:       a.AlbTitle,
		Artists:    a.ArtistNames(),
		Year:       yearOf(a.PhysicalReleaseDate),
		Explicit:   lo.ToPtr(a.Explicit()),
		Additional: []string{trackCount(intOf(a.NumberTrack))},
	}
	if a.AlbPicture != "" {
		hit.ImageURL = images.Thumbnail(a.AlbPicture, models.ImageCover)
	}
	return hit
}

func gatewayArtistHit(a schema.Artist) models.SearchResult {
	hit := models.SearchResult{
		ID:     a.ArtID.String(),
		Type:   models.MediaArtist,
		Name:   a.ArtName,
		Params: &models.SearchParams{ArtistName: a.ArtName},
	}
	if a.ArtPicture != "" {
		hit.ImageURL = images.Thumbnail(a.ArtPicture, models.ImageArtist)
	}
	return hit
}

// gatewayPlaylistHits drops empty playlists and enriches the covers of the
// first [PlaylistEnrichLimit] listed hits.
func (r *Resolver) gatewayPlaylistHits(ctx context.Context, playlists []schema.Playlist) []models.SearchResult {
	hits := make([]models.SearchResult, 0, len(playlists))
	for idx, p := range playlists {
		if p.NbSong.IsZero() {
			continue
		}

		cover := ""
		if pic := strings.TrimSpace(p.PlaylistPicture); pic != "" {
			cover = images.Thumbnail(pic, models.ImagePlaylist)
		}
		if idx < PlaylistEnrichLimit {
			cover = r.enrichPlaylistCover(ctx, p.PlaylistID.String(), cover)
		}

		hits = append(hits, models.SearchResult{
			ID:         p.PlaylistID.String(),
			Type:       models.MediaPlaylist,
			Name:       p.Title,
			Artists:    []string{p.ParentUsername},
			ImageURL:   cover,
			Additional: []string{trackCount(intOf(p.NbSong))},
		})
	}
	return hits
}

// enrichPlaylistCover prefers the public composite cover, then a short page
// fetch when there is still no cover. Failures keep current.
func (r *Resolver) enrichPlaylistCover(ctx context.Context, id, current string) string {
	composite, err := r.remote.PlaylistCover(ctx, id)
	if err != nil {
		r.logger.Debug("playlist cover enrichment failed", "id", id, "error", err)
		return current
	}
	if composite != "" {
		return composite
	}
	if current != "" {
		return current
	}

	page, err := r.remote.Playlist(ctx, id, 4, 0)
	if err != nil {
		r.logger.Debug("playlist cover enrichment failed", "id", id, "error", err)
		return current
	}
	if pic := strings.TrimSpace(page.Data.PlaylistPicture); pic != "" {
		return images.Thumbnail(pic, models.ImagePlaylist)
	}
	if songs := page.Songs.Data; len(songs) > 0 && songs[0].AlbPicture != "" {
		return images.Thumbnail(songs[0].AlbPicture, models.ImageCover)
	}
	return current
}

func (r *Resolver) searchPublic(ctx context.Context, mediaType models.MediaType, query, isrc string, limit int) ([]models.SearchResult, error) {
	if isrc != "" {
		t, err := r.remote.PublicTrackByISRC(ctx, isrc)
		switch {
		case err == nil:
			return []models.SearchResult{publicTrackHit(*t)}, nil
		case !errors.Is(err, shared.ErrNotFound):
			return nil, err
		}
	}

	page, err := r.remote.SearchPublic(ctx, query, mediaType, 0, limit)
	if err != nil {
		return nil, err
	}

	switch mediaType {
	case models.MediaTrack:
		return lo.Map(page.Tracks, func(t schema.PublicTrack, _ int) models.SearchResult { return publicTrackHit(t) }), nil
	case models.MediaAlbum:
		return lo.Map(page.Albums, func(a schema.PublicAlbum, _ int) models.SearchResult {
			return models.SearchResult{
				ID:         idString(a.ID),
				Type:       models.MediaAlbum,
				Name:       a.Title,
				Artists:    []string{a.Artist.Name},
				Year:       yearOf(a.ReleaseDate),
				Explicit:   lo.ToPtr(a.ExplicitLyrics),
				ImageURL:   a.CoverSmall,
				Additional: []string{trackCount(a.NbTracks)},
			}
		}), nil
	case models.MediaArtist:
		return lo.Map(page.Artists, func(a schema.PublicArtist, _ int) models.SearchResult {
			return models.SearchResult{
				ID:       idString(a.ID),
				Type:     models.MediaArtist,
				Name:     a.Name,
				ImageURL: a.PictureSmall,
				Params:   &models.SearchParams{ArtistName: a.Name},
			}
		}), nil
	case models.MediaPlaylist:
		valid := lo.Filter(page.Playlists, func(p schema.PublicPlaylist, _ int) bool { return p.NbTracks > 0 })
		return lo.Map(valid, func(p schema.PublicPlaylist, _ int) models.SearchResult {
			return models.SearchResult{
				ID:         idString(p.ID),
				Type:       models.MediaPlaylist,
				Name:       p.Title,
				Artists:    []string{p.Owner().Name},
				ImageURL:   p.PictureSmall,
				Additional: []string{trackCount(p.NbTracks)},
			}
		}), nil
	}
	return nil, fmt.Errorf("%w: media type %s", shared.ErrInvalidArgument, mediaType)
}

func publicTrackHit(t schema.PublicTrack) models.SearchResult {
	hit := models.SearchResult{
		ID:         strconv.FormatInt(t.ID, 10),
		Type:       models.MediaTrack,
		Name:       t.Title,
		Artists:    t.ArtistNames(),
		Explicit:   lo.ToPtr(t.ExplicitLyrics),
		ImageURL:   t.Album.CoverSmall,
		PreviewURL: t.Preview,
		Additional: []string{t.Album.Title},
	}
	if t.Duration > 0 {
		hit.Duration = lo.ToPtr(t.Duration)
	}
	return hit
}
