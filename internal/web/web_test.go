package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corops/cordash/internal/config"
	"github.com/corops/cordash/internal/domain"
	"github.com/corops/cordash/internal/session"
	"github.com/corops/cordash/internal/testutil"
)

func newServer(t *testing.T, api *testutil.FakeAPI, sessions session.KeyedStore) (*httptest.Server, *http.Client) {
	t.Helper()
	t.Setenv("API_BASE_URL", api.URL())
	t.Setenv("SUMMARY_POLL_INTERVAL", "1s")
	gin.SetMode(gin.TestMode)

	if sessions == nil {
		sessions = session.NewMemoryStore()
	}
	srv := httptest.NewServer(NewApp(config.NewConfig(), sessions).Router())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		// Redirects are asserted, not followed.
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return srv, client
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func login(t *testing.T, srv *httptest.Server, client *http.Client, username, password string) *http.Response {
	t.Helper()
	resp, err := client.PostForm(srv.URL+"/login", url.Values{
		"username": {username},
		"password": {password},
	})
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, client *http.Client, url string) *http.Response {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	return resp
}

func TestGuardRedirectsAnonymousVisitors(t *testing.T) {
	api := testutil.NewFakeAPI("ana", "s3cret")
	defer api.Close()
	srv, client := newServer(t, api, nil)

	for _, path := range []string{"/", "/manual-entry"} {
		resp := get(t, client, srv.URL+path)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
		assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"), path)
	}
}

// brokenStore simulates an unreachable session backend.
type brokenStore struct{}

func (brokenStore) LoadKey(context.Context, string) (domain.Session, error) {
	return domain.Session{}, errors.New("store down")
}
func (brokenStore) SaveKey(context.Context, string, domain.Session) error {
	return errors.New("store down")
}
func (brokenStore) ClearKey(context.Context, string) error {
	return errors.New("store down")
}

func TestGuardServesNeutralPageWhenStoreUnavailable(t *testing.T) {
	api := testutil.NewFakeAPI("ana", "s3cret")
	defer api.Close()
	srv, client := newServer(t, api, brokenStore{})

	resp := get(t, client, srv.URL+"/")
	content := body(t, resp)

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.NotContains(t, resp.Header.Get("Location"), "/login", "unknown state must not bounce to login")
	assert.Contains(t, content, "Restaurando sessão")
}

func TestLoginFlow(t *testing.T) {
	api := testutil.NewFakeAPI("ana", "s3cret")
	defer api.Close()
	srv, client := newServer(t, api, nil)

	resp := login(t, srv, client, "ana", "s3cret")
	_ = resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp = get(t, client, srv.URL+"/")
	content := body(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, content, "ana")
	assert.Contains(t, content, "Resumo")
}

func TestLoginRejectedShowsError(t *testing.T) {
	api := testutil.NewFakeAPI("ana", "s3cret")
	defer api.Close()
	srv, client := newServer(t, api, nil)

	resp := login(t, srv, client, "ana", "wrong")
	content := body(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, content, "Usuário ou senha incorretos")

	// Still signed out.
	resp = get(t, client, srv.URL+"/")
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestLoginRequiresBothFields(t *testing.T) {
	api := testutil.NewFakeAPI("ana", "s3cret")
	defer api.Close()
	srv, client := newServer(t, api, nil)

	resp := login(t, srv, client, "ana", "")
	content := body(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, content, "preencha todos os campos")
	assert.Equal(t, 0, api.LoginCalls(), "empty form never reaches the backend")
}

func TestLogoutEndsTheSession(t *testing.T) {
	api := testutil.NewFakeAPI("ana", "s3cret")
	defer api.Close()
	srv, client := newServer(t, api, nil)

	resp := login(t, srv, client, "ana", "s3cret")
	_ = resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, err := client.PostForm(srv.URL+"/logout", nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp = get(t, client, srv.URL+"/")
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode, "guarded pages locked again")
}

func TestManualEntryLifecycleThroughForms(t *testing.T) {
	api := testutil.NewFakeAPI("ana", "s3cret")
	defer api.Close()
	srv, client := newServer(t, api, nil)

	resp := login(t, srv, client, "ana", "s3cret")
	_ = resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, err := client.PostForm(srv.URL+"/manual-entry", url.Values{
		"platform":     {"instagram"},
		"metric_name":  {"Seguidores"},
		"metric_value": {"15000"},
		"entered_by":   {"Ana"},
	})
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/manual-entry", resp.Header.Get("Location"))

	resp = get(t, client, srv.URL+"/manual-entry")
	content := body(t, resp)
	assert.Contains(t, content, "Seguidores")
	assert.Contains(t, content, "15000")
	assert.Contains(t, content, "Métrica registrada com sucesso", "flash survives the redirect")

	// The flash is gone on the next load.
	resp = get(t, client, srv.URL+"/manual-entry")
	content = body(t, resp)
	assert.NotContains(t, content, "Métrica registrada com sucesso")

	entries := api.Entries()
	require.Len(t, entries, 1)

	resp, err = client.PostForm(srv.URL+"/manual-entry/1/delete", nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp = get(t, client, srv.URL+"/manual-entry")
	content = body(t, resp)
	assert.Contains(t, content, "Nenhuma métrica registrada")
}

func TestManualEntryValidationRerendersForm(t *testing.T) {
	api := testutil.NewFakeAPI("ana", "s3cret")
	defer api.Close()
	srv, client := newServer(t, api, nil)

	resp := login(t, srv, client, "ana", "s3cret")
	_ = resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, err := client.PostForm(srv.URL+"/manual-entry", url.Values{
		"platform":     {"instagram"},
		"metric_name":  {""},
		"metric_value": {"not-a-number"},
		"entered_by":   {"Ana"},
	})
	require.NoError(t, err)
	content := body(t, resp)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, content, "Verifique os campos destacados")
	assert.Empty(t, api.Entries(), "invalid input never reaches the backend")
}

func TestHealthEndpoint(t *testing.T) {
	api := testutil.NewFakeAPI("ana", "s3cret")
	defer api.Close()
	srv, client := newServer(t, api, nil)

	resp := get(t, client, srv.URL+"/healthz")
	content := body(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, content, `"status":"ok"`)
}

func TestUnknownPathsLandOnDashboard(t *testing.T) {
	api := testutil.NewFakeAPI("ana", "s3cret")
	defer api.Close()
	srv, client := newServer(t, api, nil)

	resp := get(t, client, srv.URL+"/does-not-exist")
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestSummaryFeedPushesUpdates(t *testing.T) {
	api := testutil.NewFakeAPI("ana", "s3cret")
	defer api.Close()
	srv, client := newServer(t, api, nil)

	resp := login(t, srv, client, "ana", "s3cret")
	_ = resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	srvURL, err := url.Parse(srv.URL)
	require.NoError(t, err)

	header := http.Header{}
	for _, cookie := range client.Jar.Cookies(srvURL) {
		header.Add("Cookie", cookie.String())
	}

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/summary"
	conn, wsResp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	if wsResp != nil {
		_ = wsResp.Body.Close()
	}
	defer func() { _ = conn.Close() }()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var update summaryUpdate
	require.NoError(t, conn.ReadJSON(&update))
	require.NotNil(t, update.Summary)
	assert.Equal(t, domain.DefaultPeriod, update.Summary.Period)
	assert.False(t, update.SentAt.IsZero())
}
