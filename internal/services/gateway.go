package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/schema"
	"github.com/desertthunder/dzx/internal/shared"
	"github.com/samber/lo"
)

// notFound swaps a generic not-found for the entity-specific sentinel.
func notFound(err error, sentinel error, id string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("%w: %s", sentinel, id)
	}
	return err
}

// Track fetches the full track page, including lyrics when present.
func (s *DeezerService) Track(ctx context.Context, id string) (*schema.TrackPage, error) {
	var page schema.TrackPage
	if err := s.gw(ctx, "deezer.pageTrack", map[string]any{"sng_id": id}, &page); err != nil {
		return nil, notFound(err, shared.ErrTrackNotFound, id)
	}
	return &page, nil
}

// TrackData fetches the reduced track schema.
func (s *DeezerService) TrackData(ctx context.Context, id string) (*schema.Track, error) {
	var track schema.Track
	if err := s.gw(ctx, "song.getData", map[string]any{"sng_id": id}, &track); err != nil {
		return nil, notFound(err, shared.ErrTrackNotFound, id)
	}
	return &track, nil
}

// Album fetches the album page with its track listing.
func (s *DeezerService) Album(ctx context.Context, id string) (*schema.AlbumPage, error) {
	params := map[string]any{"alb_id": id, "lang": "en", "header": true, "tab": 0}

	var page schema.AlbumPage
	if err := s.gw(ctx, "deezer.pageAlbum", params, &page); err != nil {
		return nil, notFound(err, shared.ErrAlbumNotFound, id)
	}
	return &page, nil
}

func (s *DeezerService) Playlist(ctx context.Context, id string, pageSize, offset int) (*schema.PlaylistPage, error) {
	params := map[string]any{
		"playlist_id": id,
		"lang":        "en",
		"nb":          pageSize,
		"start":       offset,
		"tab":         0,
		"header":      true,
	}

	var page schema.PlaylistPage
	if err := s.gw(ctx, "deezer.pagePlaylist", params, &page); err != nil {
		return nil, notFound(err, shared.ErrPlaylistNotFound, id)
	}
	return &page, nil
}

// ArtistDiscography lists the artist's albums. Without credited, albums whose
// main artist is someone else are dropped.
func (s *DeezerService) ArtistDiscography(ctx context.Context, id string, start, count int, credited bool) ([]schema.Album, error) {
	params := map[string]any{
		"art_id":           id,
		"discography_mode": "all",
		"filter_role_id":   []int{0},
		"nb":               count,
		"nb_songs":         0,
		"start":            start,
	}
	if credited {
		params["filter_role_id"] = []int{0, 5}
	}

	var list struct {
		Data []schema.Album `json:"data"`
	}
	if err := s.gw(ctx, "album.getDiscography", params, &list); err != nil {
		return nil, notFound(err, shared.ErrArtistNotFound, id)
	}

	if credited {
		return list.Data, nil
	}
	return lo.Filter(list.Data, func(a schema.Album, _ int) bool {
		return a.ArtID == "" || a.ArtID.String() == id
	}), nil
}

func (s *DeezerService) TrackContributors(ctx context.Context, id string) (map[string][]string, error) {
	track, err := s.TrackData(ctx, id)
	if err != nil {
		return nil, err
	}
	return track.Contributors, nil
}

func (s *DeezerService) TrackLyrics(ctx context.Context, id string) (*schema.Lyrics, error) {
	var lyrics schema.Lyrics
	if err := s.gw(ctx, "song.getLyrics", map[string]any{"sng_id": id}, &lyrics); err != nil {
		return nil, notFound(err, shared.ErrNotFound, id)
	}
	return &lyrics, nil
}

// TrackByISRC looks the ISRC up on the public API, then fetches the gateway record.
func (s *DeezerService) TrackByISRC(ctx context.Context, isrc string) (*schema.Track, error) {
	public, err := s.PublicTrackByISRC(ctx, isrc)
	if err != nil {
		return nil, err
	}
	return s.TrackData(ctx, strconv.FormatInt(public.ID, 10))
}

func searchOutput(mediaType models.MediaType) string {
	return strings.ToUpper(mediaType.String())
}

// Search runs a gateway search; only the slice for mediaType is populated.
func (s *DeezerService) Search(ctx context.Context, query string, mediaType models.MediaType, offset, limit int) (*schema.SearchPage, error) {
	params := map[string]any{
		"query":  query,
		"filter": "ALL",
		"output": searchOutput(mediaType),
		"start":  offset,
		"nb":     limit,
	}

	page := &schema.SearchPage{}
	var err error
	switch mediaType {
	case models.MediaTrack:
		page.Tracks, err = searchData[schema.Track](ctx, s, params)
	case models.MediaAlbum:
		page.Albums, err = searchData[schema.Album](ctx, s, params)
	case models.MediaArtist:
		page.Artists, err = searchData[schema.Artist](ctx, s, params)
	case models.MediaPlaylist:
		page.Playlists, err = searchData[schema.Playlist](ctx, s, params)
	default:
		return nil, fmt.Errorf("%w: media type %d", shared.ErrInvalidArgument, mediaType)
	}
	if err != nil {
		return nil, err
	}
	return page, nil
}

func searchData[T any](ctx context.Context, s *DeezerService, params map[string]any) ([]T, error) {
	var list struct {
		Data []T `json:"data"`
	}
	if err := s.gw(ctx, "search.music", params, &list); err != nil {
		return nil, err
	}
	return list.Data, nil
}
