package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/corops/cordash/internal/domain"
)

// handleDashboard renders the main dashboard. The summary, the latest
// social snapshots and the download totals are fetched in parallel; a
// single expired session surfaces as one redirect, not three.
func (a *App) handleDashboard(c *gin.Context) {
	client := clientFrom(c)
	ctrl := controllerFrom(c)
	period, err := domain.ParsePeriod(c.Query("period"))
	if err != nil {
		period = domain.DefaultPeriod
	}

	var (
		summary *domain.DashboardSummary
		latest  []domain.SocialMetric
		totals  *domain.DownloadTotals
	)

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		summary, err = client.DashboardSummary(ctx, period)
		return err
	})
	g.Go(func() error {
		var err error
		latest, err = client.LatestSocialMetrics(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = client.TotalDownloads(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		if sessionExpired(err) {
			c.Header("Cache-Control", "no-store")
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		c.HTML(http.StatusBadGateway, "dashboard.tmpl", gin.H{
			"User":   ctrl.User(),
			"Period": period,
			"Error":  "Não foi possível carregar os dados do painel",
		})
		return
	}

	c.HTML(http.StatusOK, "dashboard.tmpl", gin.H{
		"User":    ctrl.User(),
		"Period":  period,
		"Periods": []domain.Period{domain.PeriodDay, domain.PeriodWeek, domain.PeriodMonth, domain.PeriodYear},
		"Summary": summary,
		"Latest":  latest,
		"Totals":  totals,
	})
}

// sessionExpired reports whether the request failed because the silent
// token refresh did, meaning the visitor must sign in again.
func sessionExpired(err error) bool {
	var domainErr *domain.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == "SESSION_EXPIRED"
}
