package services

import (
	"context"

	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/schema"
)

// Remote is the catalog surface the resolver depends on.
//
// Gateway methods require a logged-in session; the Public* methods, PlaylistCover
// and PublicTracks do not.
type Remote interface {
	LoginWithToken(ctx context.Context, token string) (*models.Account, error)
	LoginWithPassword(ctx context.Context, email, password string) (string, error)

	Track(ctx context.Context, id string) (*schema.TrackPage, error)
	// TrackData fetches the reduced track schema. It is the only way to
	// fetch a user-uploaded track.
	TrackData(ctx context.Context, id string) (*schema.Track, error)
	Album(ctx context.Context, id string) (*schema.AlbumPage, error)
	// Playlist fetches a playlist page; pageSize -1 requests every track.
	Playlist(ctx context.Context, id string, pageSize, offset int) (*schema.PlaylistPage, error)
	ArtistDiscography(ctx context.Context, id string, start, count int, credited bool) ([]schema.Album, error)
	TrackContributors(ctx context.Context, id string) (map[string][]string, error)
	TrackLyrics(ctx context.Context, id string) (*schema.Lyrics, error)
	TrackByISRC(ctx context.Context, isrc string) (*schema.Track, error)
	Search(ctx context.Context, query string, mediaType models.MediaType, offset, limit int) (*schema.SearchPage, error)

	PublicTrack(ctx context.Context, id string) (*schema.PublicTrack, error)
	PublicTrackByISRC(ctx context.Context, isrc string) (*schema.PublicTrack, error)
	PublicAlbum(ctx context.Context, id string) (*schema.PublicAlbum, error)
	PublicPlaylist(ctx context.Context, id string) (*schema.PublicPlaylist, error)
	PublicArtist(ctx context.Context, id string) (*schema.PublicArtist, error)
	PublicArtistAlbums(ctx context.Context, id string, offset, limit int) ([]schema.PublicAlbum, error)
	SearchPublic(ctx context.Context, query string, mediaType models.MediaType, offset, limit int) (*schema.PublicSearchPage, error)
	// PlaylistCover returns the composite cover URL, or "" when there is none.
	PlaylistCover(ctx context.Context, id string) (string, error)
	// PublicTracks batch-fetches public track data keyed by id. Ids that
	// fail are left out.
	PublicTracks(ctx context.Context, ids []string) (map[string]schema.PublicTrack, error)

	TrackURL(ctx context.Context, id, token string, tokenExpiry int64, format models.FormatTag) (string, error)
	Download(ctx context.Context, id, url, path string) error
}

var _ Remote = (*DeezerService)(nil)
