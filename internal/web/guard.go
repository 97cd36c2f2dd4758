package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireSession gates the dashboard pages. Three outcomes:
//
//   - the session store cannot be read: a neutral "restoring session" page
//     is served with 503 so the visitor is neither let in nor bounced to
//     the login form while their state is unknown;
//   - no authenticated session: redirect to the login page, uncacheable so
//     a later signed-in visit is never satisfied from cache;
//   - authenticated: the controller and client are injected and the
//     handler runs.
func (a *App) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl, client, err := a.bind(c)
		if err != nil {
			c.Header("Cache-Control", "no-store")
			c.HTML(http.StatusServiceUnavailable, "loading.tmpl", gin.H{})
			c.Abort()
			return
		}

		if !ctrl.Signed() {
			c.Header("Cache-Control", "no-store")
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		c.Set(ctxControllerKey, ctrl)
		c.Set(ctxClientKey, client)
		c.Next()
	}
}
