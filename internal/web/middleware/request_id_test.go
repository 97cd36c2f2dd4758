package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestIDMiddleware())

	var seen string
	router.GET("/", func(c *gin.Context) {
		seen = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	t.Run("generates an id when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		router.ServeHTTP(w, req)

		if seen == "" {
			t.Fatal("expected a request id in context")
		}
		if _, err := uuid.Parse(seen); err != nil {
			t.Errorf("request id %q is not a uuid: %v", seen, err)
		}
		if got := w.Header().Get("X-Request-ID"); got != seen {
			t.Errorf("response header %q does not match context id %q", got, seen)
		}
	})

	t.Run("propagates an incoming id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "upstream-id")
		router.ServeHTTP(w, req)

		if seen != "upstream-id" {
			t.Errorf("GetRequestID() = %q, expected upstream-id", seen)
		}
	})
}
