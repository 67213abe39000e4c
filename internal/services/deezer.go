package services

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/shared"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	defaultGatewayURL = "https://www.deezer.com/ajax/gw-light.php"
	defaultPublicURL  = "https://api.deezer.com"
	defaultMediaURL   = "https://media.deezer.com"
	defaultConnectURL = "https://connect.deezer.com"

	// sessionBootstrapTrack is fetched with the bearer token to open a web session.
	sessionBootstrapTrack = "3135556"
)

// Endpoints are the base URLs the service talks to. Zero fields use the
// production hosts.
type Endpoints struct {
	Gateway string
	Public  string
	Media   string
	Connect string
}

func (e Endpoints) withDefaults() Endpoints {
	e.Gateway = shared.OrString(e.Gateway, defaultGatewayURL)
	e.Public = strings.TrimSuffix(shared.OrString(e.Public, defaultPublicURL), "/")
	e.Media = strings.TrimSuffix(shared.OrString(e.Media, defaultMediaURL), "/")
	e.Connect = strings.TrimSuffix(shared.OrString(e.Connect, defaultConnectURL), "/")
	return e
}

// DeezerConfig configures a [DeezerService].
type DeezerConfig struct {
	ClientID     string
	ClientSecret string
	// BFSecret seeds the per-track stream decryption key.
	BFSecret string

	Endpoints         Endpoints
	HTTPClient        *http.Client
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
	Logger            *log.Logger
}

// DeezerService implements [Remote] over the gateway, public and media APIs.
//
// The session cookie lives in the client's cookie jar; the gateway API token
// and license token are captured by [DeezerService.LoginWithToken].
type DeezerService struct {
	endpoints    Endpoints
	client       *http.Client
	limiter      *rate.Limiter
	clientID     string
	clientSecret string
	bfSecret     string
	logger       *log.Logger

	mu           sync.RWMutex
	apiToken     string
	licenseToken string
}

// NewDeezerService creates a service. The HTTP client gets a cookie jar if it
// has none.
func NewDeezerService(cfg DeezerConfig) (*DeezerService, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: client_id and client_secret are required", shared.ErrInvalidConfig)
	}

	var client http.Client
	if cfg.HTTPClient != nil {
		client = *cfg.HTTPClient
	}
	if client.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		client.Jar = jar
	}
	if cfg.Timeout > 0 {
		client.Timeout = cfg.Timeout
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &DeezerService{
		endpoints:    cfg.Endpoints.withDefaults(),
		client:       &client,
		limiter:      rate.NewLimiter(limit, max(cfg.Burst, 1)),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		bfSecret:     cfg.BFSecret,
		logger:       shared.OrDefault(cfg.Logger),
	}, nil
}

// do waits for the rate limiter and sends req.
func (s *DeezerService) do(req *http.Request) (*http.Response, error) {
	if err := s.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return resp, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}
	return body, nil
}

// gw calls a gateway method and decodes its "results" into result.
func (s *DeezerService) gw(ctx context.Context, method string, params any, result any) error {
	s.mu.RLock()
	token := s.apiToken
	s.mu.RUnlock()
	if method == "deezer.getUserData" {
		token = ""
	}

	q := url.Values{}
	q.Set("method", method)
	q.Set("input", "3")
	q.Set("api_version", "1.0")
	q.Set("api_token", token)

	if params == nil {
		params = map[string]any{}
	}
	payload, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode params: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoints.Gateway+"?"+q.Encode(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	s.logger.Debug("gateway call", "method", method)
	resp, err := s.do(req)
	if err != nil {
		return err
	}
	body, err := readBody(resp)
	if err != nil {
		return err
	}

	if err := gatewayError(body); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	if result == nil {
		return nil
	}
	results := gjson.GetBytes(body, "results")
	if !results.Exists() {
		return fmt.Errorf("%w: %s returned no results", shared.ErrAPIRequest, method)
	}
	if err := json.Unmarshal([]byte(results.Raw), result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	return nil
}

// gatewayError inspects the envelope's "error" field, which is an empty array
// on success and an object keyed by error type otherwise.
func gatewayError(body []byte) error {
	e := gjson.GetBytes(body, "error")
	switch {
	case !e.Exists():
		return nil
	case e.IsArray() && len(e.Array()) == 0:
		return nil
	case e.IsObject() && len(e.Map()) == 0:
		return nil
	}

	raw := e.Raw
	switch {
	case strings.Contains(raw, "DATA_ERROR"):
		return fmt.Errorf("%w: %s", shared.ErrNotFound, raw)
	case strings.Contains(raw, "VALID_TOKEN_REQUIRED"), strings.Contains(raw, "NEED_API_AUTH_REQUIRED"):
		return fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, raw)
	}
	return fmt.Errorf("%w: %s", shared.ErrAPIRequest, raw)
}

// LoginWithToken sets the session cookie and reads the account profile.
func (s *DeezerService) LoginWithToken(ctx context.Context, token string) (*models.Account, error) {
	gatewayURL, err := url.Parse(s.endpoints.Gateway)
	if err != nil {
		return nil, fmt.Errorf("%w: gateway url: %v", shared.ErrInvalidConfig, err)
	}
	s.client.Jar.SetCookies(gatewayURL, []*http.Cookie{{Name: shared.SessionCookieName, Value: token, Path: "/"}})

	var raw json.RawMessage
	if err := s.gw(ctx, "deezer.getUserData", nil, &raw); err != nil {
		return nil, err
	}

	data := gjson.ParseBytes(raw)
	user := data.Get("USER")
	if user.Get("USER_ID").Int() == 0 {
		return nil, fmt.Errorf("%w: session token was not accepted", shared.ErrInvalidCredentials)
	}

	opts := user.Get("OPTIONS")
	s.mu.Lock()
	s.apiToken = data.Get("checkForm").String()
	s.licenseToken = opts.Get("license_token").String()
	s.mu.Unlock()

	formats := []models.FormatTag{models.FormatMP3128}
	if opts.Get("web_hq").Bool() || opts.Get("mobile_hq").Bool() {
		formats = append(formats, models.FormatMP3320)
	}
	if opts.Get("web_lossless").Bool() || opts.Get("mobile_lossless").Bool() {
		formats = append(formats, models.FormatFLAC)
	}

	return &models.Account{
		UserID:  user.Get("USER_ID").String(),
		Name:    user.Get("BLOG_NAME").String(),
		Country: data.Get("COUNTRY").String(),
		Formats: formats,
	}, nil
}

// LoginWithPassword exchanges email and password for a session token.
//
// The connect endpoint yields an OAuth access token, which opens a web session
// through one bearer-authenticated call; the gateway then hands out the token.
func (s *DeezerService) LoginWithPassword(ctx context.Context, email, password string) (string, error) {
	var anon json.RawMessage
	if err := s.gw(ctx, "deezer.getUserData", nil, &anon); err != nil {
		return "", err
	}
	s.mu.Lock()
	s.apiToken = gjson.GetBytes(anon, "checkForm").String()
	s.mu.Unlock()

	token, err := s.accessToken(ctx, email, password)
	if err != nil {
		return "", err
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.client)
	oc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	bootstrap := &http.Client{Transport: oc.Transport, Jar: s.client.Jar, Timeout: s.client.Timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoints.Public+"/platform/generic/track/"+sessionBootstrapTrack, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	resp, err := bootstrap.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: session bootstrap: %v", shared.ErrAPIRequest, err)
	}
	if _, err := readBody(resp); err != nil {
		return "", err
	}

	var session json.RawMessage
	if err := s.gw(ctx, "deezer.getUserData", nil, &session); err != nil {
		return "", err
	}
	s.mu.Lock()
	s.apiToken = gjson.GetBytes(session, "checkForm").String()
	s.mu.Unlock()

	var arl string
	if err := s.gw(ctx, "user.getArl", nil, &arl); err != nil {
		return "", err
	}
	if arl == "" {
		return "", fmt.Errorf("%w: no session token issued", shared.ErrInvalidCredentials)
	}

	s.logger.Info("exchanged email and password for a session token")
	return arl, nil
}

func (s *DeezerService) accessToken(ctx context.Context, email, password string) (*oauth2.Token, error) {
	pwHash := md5Hex(password)
	q := url.Values{}
	q.Set("app_id", s.clientID)
	q.Set("login", email)
	q.Set("password", pwHash)
	q.Set("hash", md5Hex(s.clientID+email+pwHash+s.clientSecret))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoints.Connect+"/oauth/user_auth.php?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := s.do(req)
	if err != nil {
		return nil, err
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}

	access := gjson.GetBytes(body, "access_token").String()
	if access == "" {
		return nil, fmt.Errorf("%w: email or password rejected", shared.ErrInvalidCredentials)
	}
	return &oauth2.Token{AccessToken: access, TokenType: "Bearer"}, nil
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
