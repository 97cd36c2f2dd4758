package web

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/corops/cordash/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Only the page we served opens this socket.
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	},
}

// summaryUpdate is one frame of the live feed.
type summaryUpdate struct {
	Summary *domain.DashboardSummary `json:"summary"`
	SentAt  time.Time                `json:"sent_at"`
}

// handleSummaryFeed upgrades the connection and pushes a fresh dashboard
// summary immediately and then on every poll tick until the browser goes
// away or a fetch fails.
func (a *App) handleSummaryFeed(c *gin.Context) {
	client := clientFrom(c)
	period, err := domain.ParsePeriod(c.Query("period"))
	if err != nil {
		period = domain.DefaultPeriod
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	// The browser never sends application frames; the read loop exists to
	// notice the close handshake.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	push := func() bool {
		summary, err := client.DashboardSummary(c.Request.Context(), period)
		if err != nil {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "summary unavailable"),
				time.Now().Add(time.Second))
			return false
		}
		return conn.WriteJSON(summaryUpdate{Summary: summary, SentAt: time.Now().UTC()}) == nil
	}

	if !push() {
		return
	}

	ticker := time.NewTicker(a.cfg.GetSummaryPollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
			if !push() {
				return
			}
		}
	}
}
