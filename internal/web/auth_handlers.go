package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/corops/cordash/internal/backend"
)

func (a *App) handleLoginPage(c *gin.Context) {
	ctrl, _, err := a.bind(c)
	if err == nil && ctrl.Signed() {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	data := gin.H{}
	if f := takeFlash(c); f != nil {
		data["Flash"] = f
	}
	c.HTML(http.StatusOK, "login.tmpl", data)
}

func (a *App) handleLogin(c *gin.Context) {
	ctrl, _, err := a.bind(c)
	if err != nil {
		c.HTML(http.StatusServiceUnavailable, "loading.tmpl", gin.H{})
		return
	}

	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	if username == "" || password == "" {
		c.HTML(http.StatusBadRequest, "login.tmpl", gin.H{
			"Error":    "Por favor, preencha todos os campos",
			"Username": username,
		})
		return
	}

	ok, err := ctrl.Login(c.Request.Context(), username, password)
	if ok {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		c.HTML(http.StatusUnauthorized, "login.tmpl", gin.H{
			"Error":    "Usuário ou senha incorretos",
			"Username": username,
		})
		return
	}

	c.HTML(http.StatusBadGateway, "login.tmpl", gin.H{
		"Error":    "Não foi possível conectar ao servidor. Tente novamente.",
		"Username": username,
	})
}

func (a *App) handleLogout(c *gin.Context) {
	ctrl, _, err := a.bind(c)
	if err == nil {
		_ = ctrl.Logout(c.Request.Context())
	}
	c.Header("Cache-Control", "no-store")
	c.Redirect(http.StatusSeeOther, "/login")
}
