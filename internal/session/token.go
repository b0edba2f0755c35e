package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// ErrNoCredential is returned when no usable access credential exists and
// none can be obtained. Callers must abort the request, never send it
// unauthenticated.
var ErrNoCredential = errors.New("no usable credential")

// Refresher exchanges a refresh token for a fresh token pair at the
// identity provider.
type Refresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (access, refresh string, err error)
}

// expirySkew refreshes tokens slightly before their exp claim so an
// in-flight request never carries a token that expires mid-send.
const expirySkew = 30 * time.Second

// Credentials supplies a fresh bearer credential on every outbound request
// (attach-on-send) and transparently refreshes an expiring one.
type Credentials struct {
	mu        sync.Mutex
	path      string
	ident     *Identity
	refresher Refresher
	logger    *zap.Logger
}

// NewCredentials creates a credential source backed by the identity marker
// at path. The refresher may be set later via SetRefresher to break the
// construction cycle with the API client.
func NewCredentials(path string, logger *zap.Logger) (*Credentials, error) {
	ident, err := LoadIdentity(path)
	if err != nil {
		return nil, fmt.Errorf("load identity: %w", err)
	}
	return &Credentials{
		path:   path,
		ident:  ident,
		logger: logger,
	}, nil
}

// SetRefresher installs the token refresher.
func (c *Credentials) SetRefresher(r Refresher) {
	c.mu.Lock()
	c.refresher = r
	c.mu.Unlock()
}

// HasIdentity reports whether a cached identity marker exists.
func (c *Credentials) HasIdentity() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ident != nil
}

// CachedUserID returns the user id from the cached marker, or 0.
func (c *Credentials) CachedUserID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ident == nil {
		return 0
	}
	return c.ident.UserID
}

// Token returns a bearer credential valid for at least expirySkew, refreshing
// through the identity provider when needed. Returns ErrNoCredential when
// nothing usable exists or the refresh is rejected.
func (c *Credentials) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ident == nil {
		return "", ErrNoCredential
	}
	if tokenFresh(c.ident.AccessToken) {
		return c.ident.AccessToken, nil
	}

	if c.refresher == nil || c.ident.RefreshToken == "" {
		return "", fmt.Errorf("access token expired: %w", ErrNoCredential)
	}

	access, refresh, err := c.refresher.RefreshToken(ctx, c.ident.RefreshToken)
	if err != nil {
		c.logger.Warn("token refresh rejected", zap.Error(err))
		return "", fmt.Errorf("refresh token: %w", ErrNoCredential)
	}
	c.ident.AccessToken = access
	if refresh != "" {
		c.ident.RefreshToken = refresh
	}
	if err := SaveIdentity(c.path, c.ident); err != nil {
		c.logger.Warn("persist refreshed identity", zap.Error(err))
	}
	return access, nil
}

// SetIdentity installs and persists a new identity marker after login.
func (c *Credentials) SetIdentity(ident *Identity) error {
	c.mu.Lock()
	c.ident = ident
	c.mu.Unlock()
	return SaveIdentity(c.path, ident)
}

// Clear drops the identity marker in memory and on disk.
func (c *Credentials) Clear() error {
	c.mu.Lock()
	c.ident = nil
	c.mu.Unlock()
	return ClearIdentity(c.path)
}

// tokenFresh inspects the JWT exp claim without verifying the signature;
// only the provider can verify, the client just needs to know when to
// refresh. Tokens without an exp claim are assumed fresh.
func tokenFresh(token string) bool {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return time.Until(exp.Time) > expirySkew
}
