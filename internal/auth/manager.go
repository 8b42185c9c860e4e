// Package auth issues, verifies and renews the two token kinds used by the
// API: a short-lived access token that is trusted on signature and expiry
// alone, and a long-lived refresh token that must also match the value
// persisted on the customer's row.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/coffee-shop-api/internal/model"
)

// Default lifetimes and secrets used when configuration leaves them unset.
const (
	DefaultAccessTTL     = 15 * time.Minute
	DefaultRefreshTTL    = 7 * 24 * time.Hour
	DefaultAccessSecret  = "your-secret-key"
	DefaultRefreshSecret = "your-refresh-token-secret"
)

// RefreshStore is the persistent record holding one refresh token per
// principal. SaveRefreshToken overwrites whatever was stored before.
// FindByRefreshToken reports found=false when no row stores exactly token
// with an expiry strictly after now.
type RefreshStore interface {
	SaveRefreshToken(ctx context.Context, customerID uint64, token string, expires time.Time) error
	FindByRefreshToken(ctx context.Context, token string, now time.Time) (p model.Principal, found bool, err error)
}

// Config carries the signing secrets and lifetimes.
type Config struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
}

// TokenPair is returned by Issue.
type TokenPair struct {
	AccessToken    string    `json:"accessToken"`
	AccessExpires  time.Time `json:"accessTokenExpires"`
	RefreshToken   string    `json:"refreshToken"`
	RefreshExpires time.Time `json:"refreshTokenExpires"`
}

// Result is a successful authentication. When Renewed is true the access
// token had expired and RenewedAccessToken must be handed back to the caller.
type Result struct {
	Principal          model.Principal
	Renewed            bool
	RenewedAccessToken string
}

// Manager is stateless apart from its injected dependencies and is safe for
// concurrent use.
type Manager struct {
	store   RefreshStore
	access  signer
	refresh signer
	now     func() time.Time
}

// Option customises a Manager.
type Option func(*Manager)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager builds a Manager. Zero-valued config fields fall back to the
// package defaults.
func NewManager(cfg Config, store RefreshStore, opts ...Option) *Manager {
	if cfg.AccessSecret == "" {
		cfg.AccessSecret = DefaultAccessSecret
	}
	if cfg.RefreshSecret == "" {
		cfg.RefreshSecret = DefaultRefreshSecret
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	m := &Manager{
		store:   store,
		access:  signer{secret: []byte(cfg.AccessSecret), ttl: cfg.AccessTTL},
		refresh: signer{secret: []byte(cfg.RefreshSecret), ttl: cfg.RefreshTTL},
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Issue mints a fresh access/refresh pair for p and persists the refresh
// token with its expiry, replacing the previous one.
func (m *Manager) Issue(ctx context.Context, p model.Principal) (TokenPair, error) {
	const op = "auth.Issue"
	now := m.now()

	access, accessExp, err := m.access.sign(p, now)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%s: sign access: %w", op, errors.Join(ErrInternal, err))
	}
	refresh, refreshExp, err := m.refresh.sign(p, now)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%s: sign refresh: %w", op, errors.Join(ErrInternal, err))
	}
	if err := m.store.SaveRefreshToken(ctx, p.ID, refresh, refreshExp); err != nil {
		return TokenPair{}, fmt.Errorf("%s: save refresh: %w", op, errors.Join(ErrInternal, err))
	}
	return TokenPair{
		AccessToken:    access,
		AccessExpires:  accessExp,
		RefreshToken:   refresh,
		RefreshExpires: refreshExp,
	}, nil
}

// Authenticate runs the request gate. authorization is the raw Authorization
// header value and refreshToken the optional refresh header value. The store
// is read only when the access token has expired and is never written here.
func (m *Manager) Authenticate(ctx context.Context, authorization, refreshToken string) (Result, error) {
	const op = "auth.Authenticate"

	raw, ok := bearer(authorization)
	if !ok {
		return Result{}, ErrMissingToken
	}
	if raw == "" {
		return Result{}, ErrInvalidToken
	}
	now := m.now()

	claims, err := m.access.parse(raw, now)
	switch {
	case err == nil:
		return Result{Principal: claims.Principal()}, nil
	case !errors.Is(err, errExpired):
		return Result{}, ErrInvalidToken
	}

	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return Result{}, ErrRefreshRequired
	}
	if _, err := m.refresh.parse(refreshToken, now); err != nil {
		return Result{}, ErrRefreshInvalidOrExpired
	}

	p, found, err := m.store.FindByRefreshToken(ctx, refreshToken, now)
	if err != nil {
		return Result{}, fmt.Errorf("%s: find refresh: %w", op, errors.Join(ErrInternal, err))
	}
	if !found {
		return Result{}, ErrRefreshInvalidOrExpired
	}

	access, _, err := m.access.sign(p, now)
	if err != nil {
		return Result{}, fmt.Errorf("%s: sign access: %w", op, errors.Join(ErrInternal, err))
	}
	return Result{Principal: p, Renewed: true, RenewedAccessToken: access}, nil
}

// bearer extracts the token from an "Authorization: Bearer <token>" value.
// ok reports whether the scheme is present; the token may still be empty.
func bearer(header string) (tok string, ok bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix)), true
}
