package resolver

import (
	"context"

	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/schema"
)

// Track resolves one track at the requested quality. params carries data
// threaded from a parent collection and may be nil.
func (r *Resolver) Track(ctx context.Context, id string, tier models.QualityTier, params *models.TrackParams) (*models.Track, error) {
	privileged, err := r.privileged(ctx)
	if err != nil {
		return nil, err
	}

	var prefetched *schema.Track
	if params != nil {
		prefetched = params.Prefetched[id]
	}

	if !privileged {
		if userUploaded(id) {
			return nil, credentialRequired("user-uploaded track " + id)
		}
		t, err := r.remote.PublicTrack(ctx, id)
		if err != nil {
			return nil, err
		}
		return publicTrack(id, t, params), nil
	}

	var (
		raw    *schema.Track
		lyrics *schema.Lyrics
	)
	switch {
	case prefetched != nil:
		raw = prefetched
	case userUploaded(id):
		// user uploads are only served by the reduced schema
		if raw, err = r.remote.TrackData(ctx, id); err != nil {
			return nil, err
		}
	default:
		page, err := r.remote.Track(ctx, id)
		if err != nil {
			return nil, err
		}
		raw, lyrics = &page.Data, page.Lyrics
	}

	return r.gatewayTrack(id, raw.Effective(), lyrics, tier, params), nil
}

// Album resolves an album. cache may hold album pages the caller already has.
func (r *Resolver) Album(ctx context.Context, id string, cache map[string]*schema.AlbumPage) (*models.Album, error) {
	privileged, err := r.privileged(ctx)
	if err != nil {
		return nil, err
	}

	if !privileged {
		a, err := r.remote.PublicAlbum(ctx, id)
		if err != nil {
			return nil, err
		}
		return publicAlbum(id, a), nil
	}

	page := cache[id]
	if page == nil {
		if page, err = r.remote.Album(ctx, id); err != nil {
			return nil, err
		}
	}
	return r.gatewayAlbum(id, page), nil
}

// Playlist resolves a playlist with every member track id.
func (r *Resolver) Playlist(ctx context.Context, id string, cache map[string]*schema.PlaylistPage) (*models.Playlist, error) {
	privileged, err := r.privileged(ctx)
	if err != nil {
		return nil, err
	}

	if !privileged {
		p, err := r.remote.PublicPlaylist(ctx, id)
		if err != nil {
			return nil, err
		}
		return publicPlaylist(id, p), nil
	}

	page := cache[id]
	if page == nil {
		if page, err = r.remote.Playlist(ctx, id, -1, 0); err != nil {
			return nil, err
		}
	}

	composite, err := r.remote.PlaylistCover(ctx, id)
	if err != nil {
		r.logger.Warn("playlist cover lookup failed", "id", id, "error", err)
		composite = ""
	}
	return r.gatewayPlaylist(id, page, composite), nil
}

// Artist resolves an artist's discography. name, when known from a search
// hit, saves a lookup.
func (r *Resolver) Artist(ctx context.Context, id string, includeCredited bool, name string) (*models.Artist, error) {
	privileged, err := r.privileged(ctx)
	if err != nil {
		return nil, err
	}

	if name == "" {
		a, err := r.remote.PublicArtist(ctx, id)
		if err != nil {
			return nil, err
		}
		name = a.Name
	}

	artist := &models.Artist{ID: id, Name: name}
	if privileged {
		albums, err := r.remote.ArtistDiscography(ctx, id, 0, -1, includeCredited)
		if err != nil {
			return nil, err
		}
		artist.Discography = gatewayDiscography(albums, name)
	} else {
		albums, err := r.remote.PublicArtistAlbums(ctx, id, 0, -1)
		if err != nil {
			return nil, err
		}
		artist.Discography = publicDiscography(albums, name)
		artist.Error = PublicNotice
	}

	artist.Albums = make([]string, 0, len(artist.Discography))
	for _, a := range artist.Discography {
		artist.Albums = append(artist.Albums, a.ID)
	}
	return artist, nil
}
