// Package web serves the metrics dashboard: login, the dashboard pages and
// the live summary feed, all rendered server-side on top of the shared
// backend client.
package web

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/corops/cordash/internal/auth"
	"github.com/corops/cordash/internal/backend"
	"github.com/corops/cordash/internal/config"
	"github.com/corops/cordash/internal/session"
)

const (
	sessionCookie = "cordash_session"
	flashCookie   = "cordash_flash"

	ctxControllerKey = "auth_controller"
	ctxClientKey     = "backend_client"
)

// App wires the session store and backend client factory into the HTTP
// layer. Each request gets its own controller bound to the browser's
// session cookie; the underlying http.Client is shared.
type App struct {
	cfg        *config.AppConfig
	sessions   session.KeyedStore
	httpClient *http.Client
}

// NewApp creates the web application.
func NewApp(cfg *config.AppConfig, sessions session.KeyedStore) *App {
	return &App{
		cfg:      cfg,
		sessions: sessions,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// sessionID returns the browser's session identifier, minting a new one
// when the cookie is absent or malformed.
func (a *App) sessionID(c *gin.Context) string {
	if sid, err := c.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(sid); err == nil {
			return sid
		}
	}

	sid := uuid.New().String()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, sid, int(a.cfg.GetSessionTTL().Seconds()), "/", "", a.cfg.CookieSecure(), true)
	return sid
}

// bind builds the per-request controller and client pair and restores any
// persisted session. The returned error means the session store itself is
// unavailable, not that the visitor is signed out.
func (a *App) bind(c *gin.Context) (*auth.Controller, *backend.Client, error) {
	store := session.Bound(a.sessions, a.sessionID(c))
	client := backend.NewClient(a.cfg.GetAPIBaseURL(), backend.WithHTTPClient(a.httpClient))
	ctrl := auth.NewController(store, client)

	if err := ctrl.Restore(c.Request.Context()); err != nil {
		return nil, nil, err
	}
	return ctrl, client, nil
}

func controllerFrom(c *gin.Context) *auth.Controller {
	return c.MustGet(ctxControllerKey).(*auth.Controller)
}

func clientFrom(c *gin.Context) *backend.Client {
	return c.MustGet(ctxClientKey).(*backend.Client)
}

// Flash messages survive exactly one redirect.

type flash struct {
	Kind    string // "success" or "error"
	Message string
}

func setFlash(c *gin.Context, kind, message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, url.QueryEscape(kind+"|"+message), 60, "/", "", false, true)
}

func takeFlash(c *gin.Context) *flash {
	raw, err := c.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return nil
	}
	for i := 0; i < len(decoded); i++ {
		if decoded[i] == '|' {
			return &flash{Kind: decoded[:i], Message: decoded[i+1:]}
		}
	}
	return &flash{Kind: "success", Message: decoded}
}
