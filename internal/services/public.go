package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/schema"
	"github.com/desertthunder/dzx/internal/shared"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

// publicBatchConcurrency bounds the fan-out of [DeezerService.PublicTracks].
const publicBatchConcurrency = 4

// publicGet performs an unauthenticated GET against the public API.
//
// The public API answers errors with status 200 and an "error" object;
// code 800 means the entity does not exist.
func (s *DeezerService) publicGet(ctx context.Context, path string, query url.Values, result any) error {
	endpoint := s.endpoints.Public + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	s.logger.Debug("public call", "path", path)
	resp, err := s.do(req)
	if err != nil {
		return err
	}
	body, err := readBody(resp)
	if err != nil {
		return err
	}

	if e := gjson.GetBytes(body, "error"); e.Exists() {
		if e.Get("code").Int() == 800 {
			return fmt.Errorf("%w: %s", shared.ErrNotFound, e.Get("message").String())
		}
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, e.Get("message").String())
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (s *DeezerService) PublicTrack(ctx context.Context, id string) (*schema.PublicTrack, error) {
	var track schema.PublicTrack
	if err := s.publicGet(ctx, "/track/"+url.PathEscape(id), nil, &track); err != nil {
		return nil, notFound(err, shared.ErrTrackNotFound, id)
	}
	return &track, nil
}

func (s *DeezerService) PublicTrackByISRC(ctx context.Context, isrc string) (*schema.PublicTrack, error) {
	var track schema.PublicTrack
	if err := s.publicGet(ctx, "/track/isrc:"+url.PathEscape(isrc), nil, &track); err != nil {
		return nil, notFound(err, shared.ErrTrackNotFound, "isrc:"+isrc)
	}
	return &track, nil
}

func (s *DeezerService) PublicAlbum(ctx context.Context, id string) (*schema.PublicAlbum, error) {
	var album schema.PublicAlbum
	if err := s.publicGet(ctx, "/album/"+url.PathEscape(id), nil, &album); err != nil {
		return nil, notFound(err, shared.ErrAlbumNotFound, id)
	}
	return &album, nil
}

func (s *DeezerService) PublicPlaylist(ctx context.Context, id string) (*schema.PublicPlaylist, error) {
	var playlist schema.PublicPlaylist
	if err := s.publicGet(ctx, "/playlist/"+url.PathEscape(id), nil, &playlist); err != nil {
		return nil, notFound(err, shared.ErrPlaylistNotFound, id)
	}
	return &playlist, nil
}

func (s *DeezerService) PublicArtist(ctx context.Context, id string) (*schema.PublicArtist, error) {
	var artist schema.PublicArtist
	if err := s.publicGet(ctx, "/artist/"+url.PathEscape(id), nil, &artist); err != nil {
		return nil, notFound(err, shared.ErrArtistNotFound, id)
	}
	return &artist, nil
}

// PublicArtistAlbums pages through the artist's albums. A negative limit
// fetches every page.
func (s *DeezerService) PublicArtistAlbums(ctx context.Context, id string, offset, limit int) ([]schema.PublicAlbum, error) {
	const pageSize = 100

	var out []schema.PublicAlbum
	for {
		size := pageSize
		if limit >= 0 {
			size = min(pageSize, limit-len(out))
			if size <= 0 {
				return out, nil
			}
		}

		q := url.Values{}
		q.Set("index", strconv.Itoa(offset+len(out)))
		q.Set("limit", strconv.Itoa(size))

		var page struct {
			Data  []schema.PublicAlbum `json:"data"`
			Total int                  `json:"total"`
		}
		if err := s.publicGet(ctx, "/artist/"+url.PathEscape(id)+"/albums", q, &page); err != nil {
			return nil, notFound(err, shared.ErrArtistNotFound, id)
		}

		out = append(out, page.Data...)
		if len(page.Data) == 0 || offset+len(out) >= page.Total {
			return out, nil
		}
	}
}

// SearchPublic runs a public search; only the slice for mediaType is populated.
func (s *DeezerService) SearchPublic(ctx context.Context, query string, mediaType models.MediaType, offset, limit int) (*schema.PublicSearchPage, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("index", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	path := "/search/" + mediaType.String()

	page := &schema.PublicSearchPage{}
	var err error
	switch mediaType {
	case models.MediaTrack:
		page.Tracks, err = publicData[schema.PublicTrack](ctx, s, path, q)
	case models.MediaAlbum:
		page.Albums, err = publicData[schema.PublicAlbum](ctx, s, path, q)
	case models.MediaArtist:
		page.Artists, err = publicData[schema.PublicArtist](ctx, s, path, q)
	case models.MediaPlaylist:
		page.Playlists, err = publicData[schema.PublicPlaylist](ctx, s, path, q)
	default:
		return nil, fmt.Errorf("%w: media type %d", shared.ErrInvalidArgument, mediaType)
	}
	if err != nil {
		return nil, err
	}
	return page, nil
}

func publicData[T any](ctx context.Context, s *DeezerService, path string, q url.Values) ([]T, error) {
	var list struct {
		Data []T `json:"data"`
	}
	if err := s.publicGet(ctx, path, q, &list); err != nil {
		return nil, err
	}
	return list.Data, nil
}

// PlaylistCover returns the public composite cover, which the gateway often
// replaces with a placeholder.
func (s *DeezerService) PlaylistCover(ctx context.Context, id string) (string, error) {
	playlist, err := s.PublicPlaylist(ctx, id)
	if err != nil {
		return "", err
	}
	if playlist.MD5Image == "" {
		return "", nil
	}
	return playlist.PictureXL, nil
}

// PublicTracks fetches public data for ids with bounded concurrency. Ids that
// fail are logged and left out; only cancellation is returned as an error.
func (s *DeezerService) PublicTracks(ctx context.Context, ids []string) (map[string]schema.PublicTrack, error) {
	var mu sync.Mutex
	out := make(map[string]schema.PublicTrack, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(publicBatchConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			track, err := s.PublicTrack(gctx, id)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.logger.Debug("public track lookup failed", "id", id, "error", err)
				return nil
			}
			mu.Lock()
			out[id] = *track
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
