// Package session owns the authentication state of a catalog session.
//
// A [Manager] starts unauthenticated and moves to authenticated on the first
// successful login; it never moves back. [Manager.EnsureAuthenticated] walks
// the credential chain: stored token, configured token, then email and
// password. A stale token falls back to password login when both are set.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/dzx/internal/formats"
	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/shared"
)

// Authenticator performs the login exchanges against the remote service.
type Authenticator interface {
	LoginWithToken(ctx context.Context, token string) (*models.Account, error)
	LoginWithPassword(ctx context.Context, email, password string) (string, error)
}

// TokenStore persists the session token between runs.
type TokenStore interface {
	ReadToken(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
}

// Credentials are the configured ways to log in. Token is preferred over
// Email and Password when both are present.
type Credentials struct {
	ClientID      string
	ClientSecret  string
	SigningSecret string
	Email         string
	Password      string
	Token         string
}

// HasPassword reports whether both email and password are set.
func (c Credentials) HasPassword() bool {
	return strings.TrimSpace(c.Email) != "" && strings.TrimSpace(c.Password) != ""
}

// Options tune the subscription advisory.
type Options struct {
	Tier                     models.QualityTier
	DisableSubscriptionCheck bool
	Logger                   *log.Logger
}

// Manager holds the session state. Login transitions are serialized; reads
// are safe from any goroutine.
type Manager struct {
	auth   Authenticator
	store  TokenStore
	creds  Credentials
	opts   Options
	logger *log.Logger

	login sync.Mutex

	mu            sync.RWMutex
	authenticated bool
	account       models.Account
	formats       models.FormatSet
}

// New creates an unauthenticated [Manager]. store may be nil.
func New(auth Authenticator, store TokenStore, creds Credentials, opts Options) *Manager {
	return &Manager{
		auth:    auth,
		store:   store,
		creds:   creds,
		opts:    opts,
		logger:  shared.OrDefault(opts.Logger),
		formats: models.NewFormatSet(),
	}
}

// IsAuthenticated reports whether a login has succeeded.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.authenticated
}

// Country is the account's country code, empty until authenticated.
func (m *Manager) Country() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.account.Country
}

// Account returns what the last login reported.
func (m *Manager) Account() models.Account {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.account
}

// Formats returns a copy of the formats the account may stream.
func (m *Manager) Formats() models.FormatSet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(models.FormatSet, len(m.formats))
	for f := range m.formats {
		out[f] = struct{}{}
	}
	return out
}

// LoginWithToken exchanges a session token for an authenticated session.
func (m *Manager) LoginWithToken(ctx context.Context, token string) error {
	m.login.Lock()
	defer m.login.Unlock()
	return m.loginWithToken(ctx, token)
}

// LoginWithPassword exchanges email and password for a session token, then
// logs in with it.
func (m *Manager) LoginWithPassword(ctx context.Context, email, password string) error {
	m.login.Lock()
	defer m.login.Unlock()
	return m.loginWithPassword(ctx, email, password)
}

// EnsureAuthenticated logs in with the first usable credential. It is a no-op
// once authenticated.
func (m *Manager) EnsureAuthenticated(ctx context.Context) error {
	m.login.Lock()
	defer m.login.Unlock()

	if m.IsAuthenticated() {
		return nil
	}

	var tokenErr error
	for _, token := range m.candidateTokens(ctx) {
		err := m.loginWithToken(ctx, token)
		if err == nil {
			return nil
		}
		m.logger.Warn("session token rejected", "error", err)
		tokenErr = err
	}

	if m.creds.HasPassword() {
		if err := m.loginWithPassword(ctx, m.creds.Email, m.creds.Password); err != nil {
			return err
		}
		return nil
	}

	if tokenErr != nil {
		return fmt.Errorf("%w; %s", tokenErr, shared.CredentialHelp)
	}
	return fmt.Errorf("%w: %s", shared.ErrMissingCredentials, shared.CredentialHelp)
}

// CheckSubscriptionCompatibility warns when the configured tier's format is
// not streamable by the account. It never fails.
func (m *Manager) CheckSubscriptionCompatibility(tier models.QualityTier) bool {
	want := formats.ForTier(tier)
	if m.Formats().Has(want) {
		return true
	}
	m.logger.Warn("requested quality is not available on this subscription",
		"quality", tier.String(), "format", want)
	return false
}

func (m *Manager) candidateTokens(ctx context.Context) []string {
	var tokens []string
	if m.store != nil {
		stored, err := m.store.ReadToken(ctx)
		if err != nil {
			m.logger.Warn("failed to read stored session token", "error", err)
		} else if stored = strings.TrimSpace(stored); stored != "" {
			tokens = append(tokens, stored)
		}
	}
	if configured := strings.TrimSpace(m.creds.Token); configured != "" && (len(tokens) == 0 || tokens[0] != configured) {
		tokens = append(tokens, configured)
	}
	return tokens
}

func (m *Manager) loginWithToken(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: empty session token", shared.ErrMissingCredentials)
	}

	account, err := m.auth.LoginWithToken(ctx, token)
	if err != nil {
		if shared.IsCredentialError(err) || errors.Is(err, shared.ErrNotAuthenticated) {
			return fmt.Errorf("%w: %w", shared.ErrInvalidCredentials, err)
		}
		return err
	}

	m.mu.Lock()
	m.authenticated = true
	m.account = *account
	m.formats = models.NewFormatSet(account.Formats...)
	m.mu.Unlock()

	m.logger.Info("logged in", "user", account.Name, "country", account.Country)

	if m.store != nil {
		if err := m.store.SaveToken(ctx, token); err != nil {
			m.logger.Warn("failed to save session token", "error", err)
		}
	}

	if !m.opts.DisableSubscriptionCheck {
		m.CheckSubscriptionCompatibility(m.opts.Tier)
	}
	return nil
}

func (m *Manager) loginWithPassword(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: email and password are both required", shared.ErrMissingCredentials)
	}

	token, err := m.auth.LoginWithPassword(ctx, email, password)
	switch {
	case err == nil:
	case shared.IsCredentialError(err):
		return err
	case errors.Is(err, shared.ErrNotAuthenticated):
		return fmt.Errorf("%w: %w", shared.ErrInvalidCredentials, err)
	default:
		return err
	}
	return m.loginWithToken(ctx, token)
}
