// Package auth owns the session lifecycle: login, logout, restoration from
// the session store, and the token hooks driving the API client's silent
// refresh.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/corops/cordash/internal/backend"
	"github.com/corops/cordash/internal/domain"
	"github.com/corops/cordash/internal/session"
)

// Controller is the single owner of the Session value. It keeps the store,
// the client's default Authorization header and its in-memory copy mutually
// consistent across login, logout and silent refresh.
type Controller struct {
	store  session.Store
	client *backend.Client

	mu      sync.RWMutex
	current domain.Session
}

// NewController creates a controller bound to a store and a client, and
// registers itself as the client's token hooks.
func NewController(store session.Store, client *backend.Client) *Controller {
	c := &Controller{
		store:  store,
		client: client,
	}
	client.SetTokenHooks(c)
	return c
}

// Restore loads a previously persisted session and, when present, installs
// its access token as the client's default header. Call it before serving
// any guarded content so a returning operator never sees the login page.
func (c *Controller) Restore(ctx context.Context) error {
	s, err := c.store.Load(ctx)
	if err != nil {
		return domain.NewInternalError("SESSION_RESTORE_FAILED", "Failed to restore session from store", err)
	}

	c.mu.Lock()
	c.current = s
	c.mu.Unlock()

	if s.Authenticated() {
		c.client.SetAuthHeader(s.AccessToken)
	}
	return nil
}

// Login exchanges credentials for tokens and establishes the session. On
// failure the prior session state is left untouched and the error is
// returned for presentation; ok reports whether the login succeeded.
func (c *Controller) Login(ctx context.Context, username, password string) (ok bool, err error) {
	pair, err := c.client.Login(ctx, username, password)
	if err != nil {
		return false, err
	}

	// The token endpoint returns no profile payload, so the user record is
	// derived from the submitted username.
	s := domain.Session{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		User:         &domain.User{Username: username},
	}

	if err := c.store.Save(ctx, s); err != nil {
		return false, domain.NewInternalError("SESSION_SAVE_FAILED", "Failed to persist session", err)
	}

	c.client.SetAuthHeader(pair.Access)

	c.mu.Lock()
	c.current = s
	c.mu.Unlock()

	return true, nil
}

// Logout clears the store, strips the default Authorization header and
// drops the in-memory session. Safe to call when already logged out.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return domain.NewInternalError("SESSION_CLEAR_FAILED", "Failed to clear session store", err)
	}

	c.client.ClearAuthHeader()

	c.mu.Lock()
	c.current = domain.Session{}
	c.mu.Unlock()

	return nil
}

// Signed reports whether an authenticated session is active.
func (c *Controller) Signed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.Authenticated()
}

// User returns the current identity, or nil when signed out.
func (c *Controller) User() *domain.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.User
}

// Session returns a copy of the current session.
func (c *Controller) Session() domain.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// RefreshToken implements backend.TokenHooks.
func (c *Controller) RefreshToken(context.Context) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.RefreshToken
}

// OnAccessToken implements backend.TokenHooks: the silent refresh path
// persists the renewed access token together with the retained refresh
// token and user, keeping the three fields consistent.
func (c *Controller) OnAccessToken(ctx context.Context, access string) {
	c.mu.Lock()
	c.current = c.current.WithAccessToken(access)
	renewed := c.current
	c.mu.Unlock()

	// A failed persist leaves the in-memory session usable; the next
	// restart simply starts from the previous token pair.
	_ = c.store.Save(ctx, renewed)
}

// OnSessionExpired implements backend.TokenHooks: a failed renewal tears
// the whole session down.
func (c *Controller) OnSessionExpired(ctx context.Context) {
	_ = c.Logout(ctx)
}

// TokenExpiry reports the expiry time of a JWT access token without
// verifying its signature; the backend remains the authority on validity.
// Malformed tokens yield a zero time.
func TokenExpiry(token string) time.Time {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
