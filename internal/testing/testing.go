// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/schema"
	"github.com/desertthunder/dzx/internal/shared"
)

// FakeRemote is a programmable test double for [services.Remote].
//
// Lookups are served from the maps; a missing key answers with the matching
// not-found error. Errors keyed by method name override any data. Every call
// is recorded as "Method:arg".
type FakeRemote struct {
	mu    sync.Mutex
	calls []string

	Account   *models.Account
	ARL       string
	Errors    map[string]error
	StreamURL string
	Payload   []byte

	Tracks        map[string]*schema.TrackPage
	TrackRecords  map[string]*schema.Track
	Albums        map[string]*schema.AlbumPage
	Playlists     map[string]*schema.PlaylistPage
	Discographies map[string][]schema.Album
	Contributors  map[string]map[string][]string
	Lyrics        map[string]*schema.Lyrics
	ISRC          map[string]*schema.Track
	Searches      map[models.MediaType]*schema.SearchPage

	PublicTrackData map[string]*schema.PublicTrack
	PublicISRC      map[string]*schema.PublicTrack
	PublicAlbums    map[string]*schema.PublicAlbum
	PublicPlaylists map[string]*schema.PublicPlaylist
	PublicArtists   map[string]*schema.PublicArtist
	ArtistAlbums    map[string][]schema.PublicAlbum
	PublicSearches  map[models.MediaType]*schema.PublicSearchPage
	PlaylistCovers  map[string]string
}

func (f *FakeRemote) record(method, arg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, method+":"+arg)
	return f.Errors[method]
}

// Calls returns the recorded calls in order.
func (f *FakeRemote) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Count returns how many times method was called.
func (f *FakeRemote) Count(method string) int {
	n := 0
	for _, c := range f.Calls() {
		if strings.HasPrefix(c, method+":") {
			n++
		}
	}
	return n
}

func lookup[T any](m map[string]T, id string, notFound error) (T, error) {
	v, ok := m[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s", notFound, id)
	}
	return v, nil
}

func (f *FakeRemote) LoginWithToken(_ context.Context, token string) (*models.Account, error) {
	if err := f.record("LoginWithToken", token); err != nil {
		return nil, err
	}
	if f.Account == nil {
		return nil, shared.ErrInvalidCredentials
	}
	account := *f.Account
	return &account, nil
}

func (f *FakeRemote) LoginWithPassword(_ context.Context, email, _ string) (string, error) {
	if err := f.record("LoginWithPassword", email); err != nil {
		return "", err
	}
	return f.ARL, nil
}

func (f *FakeRemote) Track(_ context.Context, id string) (*schema.TrackPage, error) {
	if err := f.record("Track", id); err != nil {
		return nil, err
	}
	return lookup(f.Tracks, id, shared.ErrTrackNotFound)
}

func (f *FakeRemote) TrackData(_ context.Context, id string) (*schema.Track, error) {
	if err := f.record("TrackData", id); err != nil {
		return nil, err
	}
	return lookup(f.TrackRecords, id, shared.ErrTrackNotFound)
}

func (f *FakeRemote) Album(_ context.Context, id string) (*schema.AlbumPage, error) {
	if err := f.record("Album", id); err != nil {
		return nil, err
	}
	return lookup(f.Albums, id, shared.ErrAlbumNotFound)
}

func (f *FakeRemote) Playlist(_ context.Context, id string, pageSize, offset int) (*schema.PlaylistPage, error) {
	if err := f.record("Playlist", fmt.Sprintf("%s/%d/%d", id, pageSize, offset)); err != nil {
		return nil, err
	}
	return lookup(f.Playlists, id, shared.ErrPlaylistNotFound)
}

func (f *FakeRemote) ArtistDiscography(_ context.Context, id string, _, _ int, credited bool) ([]schema.Album, error) {
	if err := f.record("ArtistDiscography", fmt.Sprintf("%s/%t", id, credited)); err != nil {
		return nil, err
	}
	return lookup(f.Discographies, id, shared.ErrArtistNotFound)
}

func (f *FakeRemote) TrackContributors(_ context.Context, id string) (map[string][]string, error) {
	if err := f.record("TrackContributors", id); err != nil {
		return nil, err
	}
	return lookup(f.Contributors, id, shared.ErrTrackNotFound)
}

func (f *FakeRemote) TrackLyrics(_ context.Context, id string) (*schema.Lyrics, error) {
	if err := f.record("TrackLyrics", id); err != nil {
		return nil, err
	}
	return lookup(f.Lyrics, id, shared.ErrNotFound)
}

func (f *FakeRemote) TrackByISRC(_ context.Context, isrc string) (*schema.Track, error) {
	if err := f.record("TrackByISRC", isrc); err != nil {
		return nil, err
	}
	return lookup(f.ISRC, isrc, shared.ErrTrackNotFound)
}

func (f *FakeRemote) Search(_ context.Context, query string, mediaType models.MediaType, _, _ int) (*schema.SearchPage, error) {
	if err := f.record("Search", mediaType.String()+"/"+query); err != nil {
		return nil, err
	}
	if page, ok := f.Searches[mediaType]; ok {
		return page, nil
	}
	return &schema.SearchPage{}, nil
}

func (f *FakeRemote) PublicTrack(_ context.Context, id string) (*schema.PublicTrack, error) {
	if err := f.record("PublicTrack", id); err != nil {
		return nil, err
	}
	return lookup(f.PublicTrackData, id, shared.ErrTrackNotFound)
}

func (f *FakeRemote) PublicTrackByISRC(_ context.Context, isrc string) (*schema.PublicTrack, error) {
	if err := f.record("PublicTrackByISRC", isrc); err != nil {
		return nil, err
	}
	return lookup(f.PublicISRC, isrc, shared.ErrTrackNotFound)
}

func (f *FakeRemote) PublicAlbum(_ context.Context, id string) (*schema.PublicAlbum, error) {
	if err := f.record("PublicAlbum", id); err != nil {
		return nil, err
	}
	return lookup(f.PublicAlbums, id, shared.ErrAlbumNotFound)
}

func (f *FakeRemote) PublicPlaylist(_ context.Context, id string) (*schema.PublicPlaylist, error) {
	if err := f.record("PublicPlaylist", id); err != nil {
		return nil, err
	}
	return lookup(f.PublicPlaylists, id, shared.ErrPlaylistNotFound)
}

func (f *FakeRemote) PublicArtist(_ context.Context, id string) (*schema.PublicArtist, error) {
	if err := f.record("PublicArtist", id); err != nil {
		return nil, err
	}
	return lookup(f.PublicArtists, id, shared.ErrArtistNotFound)
}

func (f *FakeRemote) PublicArtistAlbums(_ context.Context, id string, _, _ int) ([]schema.PublicAlbum, error) {
	if err := f.record("PublicArtistAlbums", id); err != nil {
		return nil, err
	}
	return lookup(f.ArtistAlbums, id, shared.ErrArtistNotFound)
}

func (f *FakeRemote) SearchPublic(_ context.Context, query string, mediaType models.MediaType, _, _ int) (*schema.PublicSearchPage, error) {
	if err := f.record("SearchPublic", mediaType.String()+"/"+query); err != nil {
		return nil, err
	}
	if page, ok := f.PublicSearches[mediaType]; ok {
		return page, nil
	}
	return &schema.PublicSearchPage{}, nil
}

func (f *FakeRemote) PlaylistCover(_ context.Context, id string) (string, error) {
	if err := f.record("PlaylistCover", id); err != nil {
		return "", err
	}
	return f.PlaylistCovers[id], nil
}

func (f *FakeRemote) PublicTracks(_ context.Context, ids []string) (map[string]schema.PublicTrack, error) {
	if err := f.record("PublicTracks", strings.Join(ids, ",")); err != nil {
		return nil, err
	}
	out := map[string]schema.PublicTrack{}
	for _, id := range ids {
		if t, ok := f.PublicTrackData[id]; ok {
			out[id] = *t
		}
	}
	return out, nil
}

func (f *FakeRemote) TrackURL(_ context.Context, id, _ string, _ int64, format models.FormatTag) (string, error) {
	if err := f.record("TrackURL", id+"/"+string(format)); err != nil {
		return "", err
	}
	return f.StreamURL, nil
}

// Download writes Payload to path.
func (f *FakeRemote) Download(_ context.Context, id, _, path string) error {
	if err := f.record("Download", id); err != nil {
		return err
	}
	return os.WriteFile(path, f.Payload, 0o644)
}

// FakeSession is a settable session state. EnsureAuthenticated returns
// EnsureErr, or marks the session authenticated when it is nil.
type FakeSession struct {
	mu          sync.Mutex
	Authed      bool
	EnsureErr   error
	CountryCode string
	Available   models.FormatSet
	Ensures     int
}

func (s *FakeSession) EnsureAuthenticated(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Ensures++
	if s.EnsureErr != nil {
		return s.EnsureErr
	}
	s.Authed = true
	return nil
}

func (s *FakeSession) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Authed
}

func (s *FakeSession) Country() string { return s.CountryCode }

func (s *FakeSession) Formats() models.FormatSet { return s.Available }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
