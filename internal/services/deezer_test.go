package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/shared"
)

const testBFSecret = "0123456789abcdef"

// gatewayHandler answers gateway calls by method name.
type gatewayHandler map[string]func(w http.ResponseWriter, r *http.Request)

func writeResults(w http.ResponseWriter, results any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"error": []any{}, "results": results})
}

func writeGatewayError(w http.ResponseWriter, errObj map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"error": errObj, "results": map[string]any{}})
}

func userData(userID int, lossless bool) map[string]any {
	return map[string]any{
		"checkForm": "api-token",
		"COUNTRY":   "FR",
		"USER": map[string]any{
			"USER_ID":   userID,
			"BLOG_NAME": "listener",
			"OPTIONS": map[string]any{
				"license_token": "license",
				"web_hq":        true,
				"web_lossless":  lossless,
			},
		},
	}
}

// newTestService wires a service to a single httptest server. Gateway calls go
// to /ajax/gw-light.php; public, media and connect calls share the root.
func newTestService(t *testing.T, gw gatewayHandler, extra map[string]http.HandlerFunc) (*DeezerService, *httptest.Server) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/ajax/gw-light.php", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		method := r.URL.Query().Get("method")
		h, ok := gw[method]
		if !ok {
			t.Errorf("unexpected gateway method %s", method)
			http.Error(w, "unexpected", http.StatusInternalServerError)
			return
		}
		h(w, r)
	})
	for path, h := range extra {
		mux.HandleFunc(path, h)
	}

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	svc, err := NewDeezerService(DeezerConfig{
		ClientID:     "447462",
		ClientSecret: "secret",
		BFSecret:     testBFSecret,
		Endpoints: Endpoints{
			Gateway: srv.URL + "/ajax/gw-light.php",
			Public:  srv.URL,
			Media:   srv.URL,
			Connect: srv.URL,
		},
		Logger: shared.NewLogger(io.Discard),
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc, srv
}

func TestNewDeezerService(t *testing.T) {
	t.Run("Missing Client ID", func(t *testing.T) {
		_, err := NewDeezerService(DeezerConfig{ClientSecret: "secret"})
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected invalid config, got %v", err)
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		svc, err := NewDeezerService(DeezerConfig{ClientID: "id", ClientSecret: "secret"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if svc.endpoints.Gateway != defaultGatewayURL {
			t.Errorf("expected default gateway, got %s", svc.endpoints.Gateway)
		}
		if svc.client.Jar == nil {
			t.Error("expected a cookie jar")
		}
	})
}

func TestGatewayError(t *testing.T) {
	tt := []struct {
		name string
		body string
		want error
	}{
		{"empty array", `{"error":[],"results":{}}`, nil},
		{"empty object", `{"error":{},"results":{}}`, nil},
		{"missing", `{"results":{}}`, nil},
		{"data error", `{"error":{"DATA_ERROR":"song not found"}}`, shared.ErrNotFound},
		{"token", `{"error":{"VALID_TOKEN_REQUIRED":"invalid api token"}}`, shared.ErrNotAuthenticated},
		{"other", `{"error":{"QUOTA_ERROR":"slow down"}}`, shared.ErrAPIRequest},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			err := gatewayError([]byte(tc.body))
			if tc.want == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLoginWithToken(t *testing.T) {
	t.Run("Accepted", func(t *testing.T) {
		svc, _ := newTestService(t, gatewayHandler{
			"deezer.getUserData": func(w http.ResponseWriter, r *http.Request) {
				c, err := r.Cookie(shared.SessionCookieName)
				if err != nil || c.Value != "good-arl" {
					t.Errorf("expected arl cookie, got %v", c)
				}
				writeResults(w, userData(42, true))
			},
		}, nil)

		account, err := svc.LoginWithToken(context.Background(), "good-arl")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if account.UserID != "42" || account.Country != "FR" || account.Name != "listener" {
			t.Errorf("unexpected account %+v", account)
		}
		set := models.NewFormatSet(account.Formats...)
		for _, f := range []models.FormatTag{models.FormatMP3128, models.FormatMP3320, models.FormatFLAC} {
			if !set.Has(f) {
				t.Errorf("expected %s in formats", f)
			}
		}
		if svc.apiToken != "api-token" || svc.licenseToken != "license" {
			t.Errorf("expected tokens to be captured, got %q %q", svc.apiToken, svc.licenseToken)
		}
	})

	t.Run("Free Account", func(t *testing.T) {
		svc, _ := newTestService(t, gatewayHandler{
			"deezer.getUserData": func(w http.ResponseWriter, r *http.Request) {
				data := userData(7, false)
				data["USER"].(map[string]any)["OPTIONS"] = map[string]any{"license_token": "l"}
				writeResults(w, data)
			},
		}, nil)

		account, err := svc.LoginWithToken(context.Background(), "arl")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(account.Formats) != 1 || account.Formats[0] != models.FormatMP3128 {
			t.Errorf("expected only MP3_128, got %v", account.Formats)
		}
	})

	t.Run("Rejected", func(t *testing.T) {
		svc, _ := newTestService(t, gatewayHandler{
			"deezer.getUserData": func(w http.ResponseWriter, r *http.Request) {
				writeResults(w, userData(0, false))
			},
		}, nil)

		_, err := svc.LoginWithToken(context.Background(), "stale")
		if !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Errorf("expected invalid credentials, got %v", err)
		}
	})
}

func TestLoginWithPassword(t *testing.T) {
	var sawBearer bool
	calls := 0

	svc, _ := newTestService(t, gatewayHandler{
		"deezer.getUserData": func(w http.ResponseWriter, r *http.Request) {
			calls++
			writeResults(w, userData(0, false))
		},
		"user.getArl": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("api_token") != "api-token" {
				t.Errorf("expected api token on getArl, got %q", r.URL.Query().Get("api_token"))
			}
			writeResults(w, "minted-arl")
		},
	}, map[string]http.HandlerFunc{
		"/oauth/user_auth.php": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("login") != "me@example.com" {
				t.Errorf("expected login, got %s", q.Get("login"))
			}
			if q.Get("password") != md5Hex("secret") {
				t.Errorf("expected hashed password")
			}
			want := md5Hex("447462" + "me@example.com" + md5Hex("secret") + "secret")
			if q.Get("hash") != want {
				t.Errorf("expected hash %s, got %s", want, q.Get("hash"))
			}
			json.NewEncoder(w).Encode(map[string]string{"access_token": "oauth-token"})
		},
		"/platform/generic/track/" + sessionBootstrapTrack: func(w http.ResponseWriter, r *http.Request) {
			sawBearer = r.Header.Get("Authorization") == "Bearer oauth-token"
			w.Write([]byte(`{}`))
		},
	})

	arl, err := svc.LoginWithPassword(context.Background(), "me@example.com", "secret")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if arl != "minted-arl" {
		t.Errorf("expected minted-arl, got %q", arl)
	}
	if !sawBearer {
		t.Error("expected bearer-authenticated bootstrap call")
	}
	if calls != 2 {
		t.Errorf("expected two user data calls, got %d", calls)
	}

	t.Run("Rejected", func(t *testing.T) {
		svc, _ := newTestService(t, gatewayHandler{
			"deezer.getUserData": func(w http.ResponseWriter, r *http.Request) {
				writeResults(w, userData(0, false))
			},
		}, map[string]http.HandlerFunc{
			"/oauth/user_auth.php": func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"error":{"type":"OAuthException"}}`))
			},
		})

		_, err := svc.LoginWithPassword(context.Background(), "me@example.com", "wrong")
		if !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Errorf("expected invalid credentials, got %v", err)
		}
	})
}

func TestGatewayLookups(t *testing.T) {
	ctx := context.Background()

	t.Run("Track", func(t *testing.T) {
		svc, _ := newTestService(t, gatewayHandler{
			"deezer.pageTrack": func(w http.ResponseWriter, r *http.Request) {
				var params map[string]any
				json.NewDecoder(r.Body).Decode(&params)
				if params["sng_id"] != "3135556" {
					t.Errorf("expected sng_id param, got %v", params)
				}
				writeResults(w, map[string]any{
					"DATA": map[string]any{
						"SNG_ID":    "3135556",
						"SNG_TITLE": "Harder, Better, Faster, Stronger",
						"DURATION":  "224",
						"ARTISTS":   []map[string]any{{"ART_ID": 27, "ART_NAME": "Daft Punk"}},
					},
					"LYRICS": map[string]any{"LYRICS_TEXT": "work it"},
				})
			},
		}, nil)

		page, err := svc.Track(ctx, "3135556")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if page.Data.SngTitle != "Harder, Better, Faster, Stronger" {
			t.Errorf("unexpected title %q", page.Data.SngTitle)
		}
		if d, ok := page.Data.Duration.Int(); !ok || d != 224 {
			t.Errorf("expected duration 224, got %v", page.Data.Duration)
		}
		if page.Lyrics == nil || page.Lyrics.LyricsText != "work it" {
			t.Errorf("expected lyrics, got %+v", page.Lyrics)
		}
	})

	t.Run("Track Not Found", func(t *testing.T) {
		svc, _ := newTestService(t, gatewayHandler{
			"deezer.pageTrack": func(w http.ResponseWriter, r *http.Request) {
				writeGatewayError(w, map[string]string{"DATA_ERROR": "song not found"})
			},
		}, nil)

		_, err := svc.Track(ctx, "1")
		if !errors.Is(err, shared.ErrTrackNotFound) || !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected track not found, got %v", err)
		}
	})

	t.Run("Artist Discography Filters Credited", func(t *testing.T) {
		svc, _ := newTestService(t, gatewayHandler{
			"album.getDiscography": func(w http.ResponseWriter, r *http.Request) {
				writeResults(w, map[string]any{"data": []map[string]any{
					{"ALB_ID": "1", "ALB_TITLE": "Own", "ART_ID": "27"},
					{"ALB_ID": "2", "ALB_TITLE": "Feature", "ART_ID": "99"},
				}})
			},
		}, nil)

		own, err := svc.ArtistDiscography(ctx, "27", 0, -1, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(own) != 1 || own[0].AlbID != "1" {
			t.Errorf("expected only own album, got %+v", own)
		}

		all, err := svc.ArtistDiscography(ctx, "27", 0, -1, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(all) != 2 {
			t.Errorf("expected both albums, got %d", len(all))
		}
	})

	t.Run("Search", func(t *testing.T) {
		svc, _ := newTestService(t, gatewayHandler{
			"search.music": func(w http.ResponseWriter, r *http.Request) {
				var params map[string]any
				json.NewDecoder(r.Body).Decode(&params)
				if params["output"] != "ALBUM" {
					t.Errorf("expected ALBUM output, got %v", params["output"])
				}
				writeResults(w, map[string]any{"data": []map[string]any{
					{"ALB_ID": "302127", "ALB_TITLE": "Discovery", "NUMBER_TRACK": 14},
				}})
			},
		}, nil)

		page, err := svc.Search(ctx, "discovery", models.MediaAlbum, 0, 10)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(page.Albums) != 1 || page.Albums[0].AlbTitle != "Discovery" {
			t.Errorf("unexpected albums %+v", page.Albums)
		}
		if len(page.Tracks) != 0 {
			t.Error("only albums should be populated")
		}
	})

	t.Run("Contributors", func(t *testing.T) {
		svc, _ := newTestService(t, gatewayHandler{
			"song.getData": func(w http.ResponseWriter, r *http.Request) {
				writeResults(w, map[string]any{
					"SNG_ID":           "5",
					"SNG_CONTRIBUTORS": map[string][]string{"composer": {"A", "B"}, "artist": {"C"}},
				})
			},
		}, nil)

		credits, err := svc.TrackContributors(ctx, "5")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(credits["composer"]) != 2 {
			t.Errorf("unexpected credits %v", credits)
		}
	})

	t.Run("Track By ISRC", func(t *testing.T) {
		svc, _ := newTestService(t, gatewayHandler{
			"song.getData": func(w http.ResponseWriter, r *http.Request) {
				var params map[string]any
				json.NewDecoder(r.Body).Decode(&params)
				if params["sng_id"] != "3135556" {
					t.Errorf("expected id from public lookup, got %v", params["sng_id"])
				}
				writeResults(w, map[string]any{"SNG_ID": "3135556", "ISRC": "GBDUW0000059"})
			},
		}, map[string]http.HandlerFunc{
			"/track/isrc:GBDUW0000059": func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"id":3135556,"title":"Harder"}`))
			},
		})

		track, err := svc.TrackByISRC(ctx, "GBDUW0000059")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if track.ISRC != "GBDUW0000059" {
			t.Errorf("unexpected track %+v", track)
		}
	})

	t.Run("Upstream Failure", func(t *testing.T) {
		svc, _ := newTestService(t, gatewayHandler{
			"song.getLyrics": func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusBadGateway)
			},
		}, nil)

		_, err := svc.TrackLyrics(ctx, "5")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected API error, got %v", err)
		}
		if !strings.Contains(err.Error(), "502") {
			t.Errorf("expected status in error, got %v", err)
		}
	})
}
