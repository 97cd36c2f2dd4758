package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/corops/cordash/internal/web/middleware"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Router builds the gin engine with all routes registered.
func (a *App) Router() *gin.Engine {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.DefaultLoggingMiddleware())
	engine.Use(middleware.DefaultRecoveryMiddleware())
	engine.Use(middleware.SecurityHeadersMiddleware())

	engine.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.tmpl")))

	engine.GET("/healthz", a.handleHealth)

	engine.GET("/login", a.handleLoginPage)
	engine.POST("/login", a.handleLogin)
	engine.POST("/logout", a.handleLogout)

	guarded := engine.Group("/", a.RequireSession())
	guarded.GET("/", a.handleDashboard)
	guarded.GET("/manual-entry", a.handleManualEntryPage)
	guarded.POST("/manual-entry", a.handleManualEntryCreate)
	guarded.POST("/manual-entry/:id", a.handleManualEntryUpdate)
	guarded.POST("/manual-entry/:id/delete", a.handleManualEntryDelete)
	guarded.GET("/ws/summary", a.handleSummaryFeed)

	// Unknown paths land on the dashboard; the guard decides from there.
	engine.NoRoute(func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, "/")
	})

	return engine
}

func (a *App) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"environment": a.cfg.GetEnvironment(),
	})
}
