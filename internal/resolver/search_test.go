package resolver

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/desertthunder/dzx/internal/images"
	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/schema"
	"github.com/desertthunder/dzx/internal/shared"
	tu "github.com/desertthunder/dzx/internal/testing"
)

func searchTrack(id, title, picture string) schema.Track {
	return schema.Track{
		SngID:      schema.Text(id),
		SngTitle:   title,
		AlbTitle:   "Discovery",
		AlbPicture: picture,
		ArtName:    "Daft Punk",
		Duration:   "224",
	}
}

func searchPlaylist(id int, songs string) schema.Playlist {
	return schema.Playlist{
		PlaylistID:     schema.Text(fmt.Sprint(id)),
		Title:          fmt.Sprintf("Playlist %d", id),
		ParentUsername: "listener",
		NbSong:         schema.Text(songs),
	}
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("Tracks", func(t *testing.T) {
		t.Run("batches preview lookups", func(t *testing.T) {
			remote := &tu.FakeRemote{
				Searches: map[models.MediaType]*schema.SearchPage{models.MediaTrack: {Tracks: []schema.Track{
					searchTrack("1", "One More Time", coverHash),
					searchTrack("2", "Aerodynamic", ""),
					searchTrack("3", "Digital Love", coverHash),
				}}},
				PublicTrackData: map[string]*schema.PublicTrack{
					"1": {ID: 1, Preview: "https://preview/1.mp3"},
					"2": {ID: 2, Preview: "https://preview/2.mp3", Album: schema.PublicAlbumRef{CoverSmall: "https://small/2.jpg"}},
				},
			}
			r := newTestResolver(t, remote, fullSession(), models.CoverSpec{})

			hits, err := r.Search(ctx, models.MediaTrack, "daft punk", nil, 10)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(hits) != 3 {
				t.Fatalf("expected 3 hits, got %d", len(hits))
			}
			if remote.Count("PublicTracks") != 1 {
				t.Errorf("expected a single batched lookup, got %v", remote.Calls())
			}
			if hits[0].PreviewURL != "https://preview/1.mp3" || hits[0].ImageURL != images.Thumbnail(coverHash, models.ImageCover) {
				t.Errorf("unexpected first hit %+v", hits[0])
			}
			if hits[1].ImageURL != "https://small/2.jpg" {
				t.Errorf("expected public thumbnail fallback, got %s", hits[1].ImageURL)
			}
			if hits[2].PreviewURL != "" {
				t.Errorf("expected no preview for missing public record, got %s", hits[2].PreviewURL)
			}
			if hits[0].Duration == nil || *hits[0].Duration != 224 || hits[0].Additional[0] != "Discovery" {
				t.Errorf("unexpected hit details %+v", hits[0])
			}
		})

		t.Run("empty result makes no preview call", func(t *testing.T) {
			remote := &tu.FakeRemote{}
			r := newTestResolver(t, remote, fullSession(), models.CoverSpec{})

			hits, err := r.Search(ctx, models.MediaTrack, "nothing", nil, 10)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if hits == nil || len(hits) != 0 {
				t.Errorf("expected empty non-nil hits, got %v", hits)
			}
			if remote.Count("PublicTracks") != 0 {
				t.Error("expected no preview lookup")
			}
		})

		t.Run("preview failures are swallowed", func(t *testing.T) {
			remote := &tu.FakeRemote{
				Searches: map[models.MediaType]*schema.SearchPage{models.MediaTrack: {Tracks: []schema.Track{searchTrack("1", "One More Time", "")}}},
				Errors:   map[string]error{"PublicTracks": shared.ErrAPIRequest},
			}
			r := newTestResolver(t, remote, fullSession(), models.CoverSpec{})

			hits, err := r.Search(ctx, models.MediaTrack, "one more time", nil, 10)
			if err != nil || len(hits) != 1 {
				t.Errorf("expected one hit, got %v %v", hits, err)
			}
		})
	})

	t.Run("ISRC", func(t *testing.T) {
		ref := &models.Track{Tags: models.Tags{ISRC: "GBDUW0000059"}}

		t.Run("returns exactly one result", func(t *testing.T) {
			hit := searchTrack("3135556", "Harder, Better, Faster, Stronger", coverHash)
			remote := &tu.FakeRemote{
				ISRC: map[string]*schema.Track{"GBDUW0000059": &hit},
				Searches: map[models.MediaType]*schema.SearchPage{models.MediaTrack: {Tracks: []schema.Track{
					searchTrack("1", "a", ""), searchTrack("2", "b", ""),
				}}},
			}
			r := newTestResolver(t, remote, fullSession(), models.CoverSpec{})

			hits, err := r.Search(ctx, models.MediaTrack, "harder better", ref, 10)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(hits) != 1 || hits[0].ID != "3135556" {
				t.Errorf("expected the isrc match only, got %+v", hits)
			}
			if remote.Count("Search") != 0 {
				t.Error("expected no query search")
			}
		})

		t.Run("uses the fallback record", func(t *testing.T) {
			hit := searchTrack("3135556", "Harder, Better, Faster, Stronger", coverHash)
			fallback := searchTrack("999", "Harder, Better, Faster, Stronger (Remastered)", coverHash)
			hit.Fallback = &fallback
			remote := &tu.FakeRemote{ISRC: map[string]*schema.Track{"GBDUW0000059": &hit}}
			r := newTestResolver(t, remote, fullSession(), models.CoverSpec{})

			hits, err := r.Search(ctx, models.MediaTrack, "harder better", ref, 10)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(hits) != 1 {
				t.Fatalf("expected one hit, got %+v", hits)
			}
			if hits[0].ID != "999" || hits[0].Name != fallback.SngTitle {
				t.Errorf("expected the fallback record, got %s %q", hits[0].ID, hits[0].Name)
			}
		})

		t.Run("falls back to the query when not found", func(t *testing.T) {
			remote := &tu.FakeRemote{
				Searches: map[models.MediaType]*schema.SearchPage{models.MediaTrack: {Tracks: []schema.Track{searchTrack("1", "a", "")}}},
			}
			r := newTestResolver(t, remote, fullSession(), models.CoverSpec{})

			hits, err := r.Search(ctx, models.MediaTrack, "harder better", ref, 10)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(hits) != 1 || remote.Count("TrackByISRC") != 1 || remote.Count("Search") != 1 {
				t.Errorf("unexpected hits %v calls %v", hits, remote.Calls())
			}
		})

		t.Run("other errors propagate", func(t *testing.T) {
			remote := &tu.FakeRemote{Errors: map[string]error{"TrackByISRC": shared.ErrAPIRequest}}
			r := newTestResolver(t, remote, fullSession(), models.CoverSpec{})

			if _, err := r.Search(ctx, models.MediaTrack, "q", ref, 10); !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected API error, got %v", err)
			}
		})

		t.Run("ignored for other media types", func(t *testing.T) {
			remote := &tu.FakeRemote{}
			r := newTestResolver(t, remote, fullSession(), models.CoverSpec{})

			if _, err := r.Search(ctx, models.MediaAlbum, "discovery", ref, 10); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if remote.Count("TrackByISRC") != 0 {
				t.Error("expected isrc to be ignored for album searches")
			}
		})

		t.Run("public path", func(t *testing.T) {
			remote := &tu.FakeRemote{PublicISRC: map[string]*schema.PublicTrack{"GBDUW0000059": samplePublicTrack()}}
			r := newTestResolver(t, remote, publicSession(), models.CoverSpec{})

			hits, err := r.Search(ctx, models.MediaTrack, "q", ref, 10)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(hits) != 1 || hits[0].ID != "3135556" || hits[0].PreviewURL == "" {
				t.Errorf("unexpected hits %+v", hits)
			}
		})
	})

	t.Run("Playlists", func(t *testing.T) {
		t.Run("drops empty playlists", func(t *testing.T) {
			remote := &tu.FakeRemote{Searches: map[models.MediaType]*schema.SearchPage{models.MediaPlaylist: {Playlists: []schema.Playlist{
				searchPlaylist(1, "12"), searchPlaylist(2, "0"), searchPlaylist(3, ""), searchPlaylist(4, "1"),
			}}}}
			r := newTestResolver(t, remote, fullSession(), models.CoverSpec{})

			hits, err := r.Search(ctx, models.MediaPlaylist, "late night", nil, 10)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(hits) != 2 || hits[0].ID != "1" || hits[1].ID != "4" {
				t.Errorf("unexpected hits %+v", hits)
			}
			if hits[0].Additional[0] != "12 tracks" || hits[1].Additional[0] != "1 track" {
				t.Errorf("unexpected track counts %v %v", hits[0].Additional, hits[1].Additional)
			}
		})

		t.Run("enriches only the first listed hits", func(t *testing.T) {
			playlists := make([]schema.Playlist, 30)
			covers := map[string]string{}
			for i := range playlists {
				playlists[i] = searchPlaylist(i+1, "5")
				covers[fmt.Sprint(i+1)] = fmt.Sprintf("https://composite/%d.jpg", i+1)
			}
			remote := &tu.FakeRemote{
				Searches:       map[models.MediaType]*schema.SearchPage{models.MediaPlaylist: {Playlists: playlists}},
				PlaylistCovers: covers,
			}
			r := newTestResolver(t, remote, fullSession(), models.CoverSpec{})

			hits, err := r.Search(ctx, models.MediaPlaylist, "mix", nil, 30)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(hits) != 30 {
				t.Fatalf("expected 30 hits, got %d", len(hits))
			}
			if remote.Count("PlaylistCover") != PlaylistEnrichLimit {
				t.Errorf("expected %d cover lookups, got %d", PlaylistEnrichLimit, remote.Count("PlaylistCover"))
			}
			if hits[0].ImageURL != "https://composite/1.jpg" {
				t.Errorf("expected composite cover, got %s", hits[0].ImageURL)
			}
			if hits[29].ImageURL != "" {
				t.Errorf("expected no cover past the limit, got %s", hits[29].ImageURL)
			}
		})

		t.Run("falls back to a short page fetch", func(t *testing.T) {
			page := &schema.PlaylistPage{Songs: schema.TrackList{Data: []schema.Track{searchTrack("1", "a", coverHash)}}}
			remote := &tu.FakeRemote{
				Searches:  map[models.MediaType]*schema.SearchPage{models.MediaPlaylist: {Playlists: []schema.Playlist{searchPlaylist(1, "3")}}},
				Playlists: map[string]*schema.PlaylistPage{"1": page},
			}
			r := newTestResolver(t, remote, fullSession(), models.CoverSpec{})

			hits, err := r.Search(ctx, models.MediaPlaylist, "mix", nil, 10)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if hits[0].ImageURL != images.Thumbnail(coverHash, models.ImageCover) {
				t.Errorf("expected first track thumbnail, got %s", hits[0].ImageURL)
			}
			if remote.Calls()[2] != "Playlist:1/4/0" {
				t.Errorf("unexpected calls %v", remote.Calls())
			}
		})

		t.Run("enrichment errors are swallowed", func(t *testing.T) {
			p := searchPlaylist(1, "3")
			p.PlaylistPicture = "abc"
			remote := &tu.FakeRemote{
				Searches: map[models.MediaType]*schema.SearchPage{models.MediaPlaylist: {Playlists: []schema.Playlist{p}}},
				Errors:   map[string]error{"PlaylistCover": shared.ErrAPIRequest},
			}
			r := newTestResolver(t, remote, fullSession(), models.CoverSpec{})

			hits, err := r.Search(ctx, models.MediaPlaylist, "mix", nil, 10)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if hits[0].ImageURL != images.Thumbnail("abc", models.ImagePlaylist) {
				t.Errorf("expected playlist thumbnail, got %s", hits[0].ImageURL)
			}
		})

		t.Run("public path drops empty playlists", func(t *testing.T) {
			remote := &tu.FakeRemote{PublicSearches: map[models.MediaType]*schema.PublicSearchPage{models.MediaPlaylist: {
				Playlists: []schema.PublicPlaylist{{ID: 1, NbTracks: 0}, {ID: 2, NbTracks: 8, User: schema.PublicUser{Name: "listener"}}},
			}}}
			r := newTestResolver(t, remote, publicSession(), models.CoverSpec{})

			hits, err := r.Search(ctx, models.MediaPlaylist, "mix", nil, 10)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(hits) != 1 || hits[0].ID != "2" || hits[0].Artists[0] != "listener" {
				t.Errorf("unexpected hits %+v", hits)
			}
		})
	})

	t.Run("Albums And Artists", func(t *testing.T) {
		remote := &tu.FakeRemote{Searches: map[models.MediaType]*schema.SearchPage{
			models.MediaAlbum: {Albums: []schema.Album{{
				AlbID: "302127", AlbTitle: "Discovery", ArtName: "Daft Punk",
				PhysicalReleaseDate: "2001-03-12", NumberTrack: "14", AlbPicture: coverHash,
			}}},
			models.MediaArtist: {Artists: []schema.Artist{{ArtID: "27", ArtName: "Daft Punk"}}},
		}}
		r := newTestResolver(t, remote, fullSession(), models.CoverSpec{})

		albums, err := r.Search(ctx, models.MediaAlbum, "discovery", nil, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if albums[0].Year != 2001 || albums[0].Additional[0] != "14 tracks" || albums[0].Artists[0] != "Daft Punk" {
			t.Errorf("unexpected album hit %+v", albums[0])
		}

		artists, err := r.Search(ctx, models.MediaArtist, "daft", nil, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if artists[0].Params == nil || artists[0].Params.ArtistName != "Daft Punk" {
			t.Errorf("expected artist name param, got %+v", artists[0])
		}
	})

	t.Run("Invalid Media Type", func(t *testing.T) {
		r := newTestResolver(t, &tu.FakeRemote{}, fullSession(), models.CoverSpec{})
		if _, err := r.Search(ctx, models.MediaType(9), "q", nil, 10); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid argument, got %v", err)
		}
	})
}
