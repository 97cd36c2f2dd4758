// Package testutil provides an in-memory fake of the COR metrics REST API
// for client, controller and handler tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/corops/cordash/internal/domain"
)

// FakeAPI is an httptest-backed stand-in for the Django metrics backend.
// It issues sequential tokens, lets tests expire them explicitly, and keeps
// manual entries in memory so CRUD flows can be exercised end to end.
type FakeAPI struct {
	Username string
	Password string

	// EnvelopeLists switches list endpoints to the paginated
	// {count, results} envelope instead of a bare array.
	EnvelopeLists bool

	mu           sync.Mutex
	validAccess  map[string]bool
	validRefresh map[string]bool
	tokenSeq     int
	refreshCalls int
	loginCalls   int

	entries map[int64]domain.ManualEntry
	nextID  int64

	Summary domain.DashboardSummary
	Social  []domain.SocialMetric

	server *httptest.Server
}

// NewFakeAPI starts a fake backend accepting the given credentials.
func NewFakeAPI(username, password string) *FakeAPI {
	f := &FakeAPI{
		Username:     username,
		Password:     password,
		validAccess:  make(map[string]bool),
		validRefresh: make(map[string]bool),
		entries:      make(map[int64]domain.ManualEntry),
		nextID:       1,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/", f.handleLogin)
	mux.HandleFunc("/api/token/refresh/", f.handleRefresh)
	mux.HandleFunc("/api/dashboard/summary/", f.authed(f.handleSummary))
	mux.HandleFunc("/api/social-metrics/", f.authed(f.handleSocialMetrics))
	mux.HandleFunc("/api/social-metrics/latest/", f.authed(f.handleSocialLatest))
	mux.HandleFunc("/api/social-metrics/comparison/", f.authed(f.handleSocialComparison))
	mux.HandleFunc("/api/app-downloads/", f.authed(f.handleAppDownloads))
	mux.HandleFunc("/api/app-downloads/total/", f.authed(f.handleDownloadTotals))
	mux.HandleFunc("/api/website-metrics/", f.authed(f.handleWebsiteMetrics))
	mux.HandleFunc("/api/website-metrics/summary/", f.authed(f.handleWebsiteSummary))
	mux.HandleFunc("/api/manual-entries/", f.authed(f.handleManualEntries))

	f.server = httptest.NewServer(mux)
	return f
}

// URL returns the fake backend's base URL.
func (f *FakeAPI) URL() string {
	return f.server.URL
}

// Close shuts the fake backend down.
func (f *FakeAPI) Close() {
	f.server.Close()
}

// IssueTokens mints a valid token pair without going through login.
func (f *FakeAPI) IssueTokens() (access, refresh string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mintLocked()
}

// ExpireAccess invalidates an access token, so the next request carrying it
// receives a 401.
func (f *FakeAPI) ExpireAccess(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.validAccess, token)
}

// RevokeRefresh invalidates a refresh token, so the next renewal fails.
func (f *FakeAPI) RevokeRefresh(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.validRefresh, token)
}

// RefreshCalls reports how many times the refresh endpoint was hit.
func (f *FakeAPI) RefreshCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshCalls
}

// LoginCalls reports how many times the login endpoint was hit.
func (f *FakeAPI) LoginCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginCalls
}

// Entries returns a snapshot of the stored manual entries.
func (f *FakeAPI) Entries() []domain.ManualEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.ManualEntry, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e)
	}
	return out
}

func (f *FakeAPI) mintLocked() (access, refresh string) {
	f.tokenSeq++
	access = fmt.Sprintf("access-%d", f.tokenSeq)
	refresh = fmt.Sprintf("refresh-%d", f.tokenSeq)
	f.validAccess[access] = true
	f.validRefresh[refresh] = true
	return access, refresh
}

func (f *FakeAPI) handleLogin(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.loginCalls++
	f.mu.Unlock()

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed body"})
		return
	}

	if creds.Username != f.Username || creds.Password != f.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "No active account found with the given credentials",
		})
		return
	}

	f.mu.Lock()
	access, refresh := f.mintLocked()
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"access": access, "refresh": refresh})
}

func (f *FakeAPI) handleRefresh(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.refreshCalls++
	f.mu.Unlock()

	var body struct {
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed body"})
		return
	}

	f.mu.Lock()
	valid := f.validRefresh[body.Refresh]
	var access string
	if valid {
		f.tokenSeq++
		access = fmt.Sprintf("access-%d", f.tokenSeq)
		f.validAccess[access] = true
	}
	f.mu.Unlock()

	if !valid {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "Token is invalid or expired",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"access": access})
}

// authed wraps a handler with the bearer token check.
func (f *FakeAPI) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		f.mu.Lock()
		valid := token != "" && f.validAccess[token]
		f.mu.Unlock()

		if !valid {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "Given token not valid for any token type",
			})
			return
		}
		next(w, r)
	}
}

func (f *FakeAPI) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary := f.Summary
	period, err := domain.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		period = domain.DefaultPeriod
	}
	summary.Period = period
	writeJSON(w, http.StatusOK, summary)
}

func (f *FakeAPI) handleSocialMetrics(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		metrics := f.Social
		if platform := r.URL.Query().Get("platform"); platform != "" {
			filtered := metrics[:0:0]
			for _, m := range metrics {
				if string(m.Platform) == platform {
					filtered = append(filtered, m)
				}
			}
			metrics = filtered
		}
		f.writeList(w, metrics)
	case http.MethodPost:
		var input domain.SocialMetricInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed body"})
			return
		}
		writeJSON(w, http.StatusCreated, domain.SocialMetric{
			ID:        99,
			Platform:  input.Platform,
			Followers: input.Followers,
		})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *FakeAPI) handleSocialLatest(w http.ResponseWriter, _ *http.Request) {
	f.writeList(w, f.Social)
}

func (f *FakeAPI) handleSocialComparison(w http.ResponseWriter, r *http.Request) {
	platform := r.URL.Query().Get("platform")
	if platform == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Platform parameter is required"})
		return
	}
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "week"
	}
	writeJSON(w, http.StatusOK, domain.SocialComparison{
		Platform: domain.SocialPlatform(platform),
		Period:   domain.Period(period),
		Current:  domain.FollowerWindow{AvgFollowers: 1200},
		Previous: domain.FollowerWindow{AvgFollowers: 1000},
		Growth:   20,
	})
}

func (f *FakeAPI) handleAppDownloads(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		f.writeList(w, []domain.AppDownload{
			{ID: 1, Platform: domain.AppAndroid, TotalDownloads: 50000},
			{ID: 2, Platform: domain.AppIOS, TotalDownloads: 30000},
		})
	case http.MethodPost:
		var input domain.AppDownloadInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed body"})
			return
		}
		writeJSON(w, http.StatusCreated, domain.AppDownload{
			ID:             99,
			Platform:       input.Platform,
			TotalDownloads: input.TotalDownloads,
		})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *FakeAPI) handleDownloadTotals(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.DownloadTotals{Android: 50000, IOS: 30000, Total: 80000})
}

func (f *FakeAPI) handleWebsiteMetrics(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		f.writeList(w, []domain.WebsiteMetric{
			{ID: 1, PageViews: 12000, UniqueVisitors: 8000, Sessions: 9500},
		})
	case http.MethodPost:
		var input domain.WebsiteMetricInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed body"})
			return
		}
		writeJSON(w, http.StatusCreated, domain.WebsiteMetric{ID: 99, PageViews: input.PageViews})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *FakeAPI) handleWebsiteSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.WebsiteSummary{
		TotalPageViews:      42000,
		TotalUniqueVisitors: 26000,
		TotalSessions:       31000,
	})
}

func (f *FakeAPI) handleManualEntries(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/manual-entries/")
	if rest == "" {
		f.handleManualCollection(w, r)
		return
	}

	id, err := strconv.ParseInt(strings.TrimSuffix(rest, "/"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	f.handleManualItem(w, r, id)
}

func (f *FakeAPI) handleManualCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		f.mu.Lock()
		entries := make([]domain.ManualEntry, 0, len(f.entries))
		for _, e := range f.entries {
			if platform := r.URL.Query().Get("platform"); platform != "" && string(e.Platform) != platform {
				continue
			}
			entries = append(entries, e)
		}
		f.mu.Unlock()
		f.writeList(w, entries)
	case http.MethodPost:
		var input domain.ManualEntryInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed body"})
			return
		}
		f.mu.Lock()
		entry := domain.ManualEntry{
			ID:              f.nextID,
			Platform:        input.Platform,
			PlatformDisplay: platformDisplay(input.Platform),
			MetricName:      input.MetricName,
			MetricValue:     input.MetricValue,
			Notes:           input.Notes,
			EnteredBy:       input.EnteredBy,
			CollectedAt:     time.Now().UTC(),
			CreatedAt:       time.Now().UTC(),
		}
		f.nextID++
		f.entries[entry.ID] = entry
		f.mu.Unlock()
		writeJSON(w, http.StatusCreated, entry)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *FakeAPI) handleManualItem(w http.ResponseWriter, r *http.Request, id int64) {
	f.mu.Lock()
	entry, exists := f.entries[id]
	f.mu.Unlock()

	if !exists {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, entry)
	case http.MethodPut:
		var input domain.ManualEntryInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed body"})
			return
		}
		// Full replacement of the mutable fields; id and collected_at stay.
		entry.Platform = input.Platform
		entry.PlatformDisplay = platformDisplay(input.Platform)
		entry.MetricName = input.MetricName
		entry.MetricValue = input.MetricValue
		entry.Notes = input.Notes
		entry.EnteredBy = input.EnteredBy
		f.mu.Lock()
		f.entries[id] = entry
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, entry)
	case http.MethodDelete:
		f.mu.Lock()
		delete(f.entries, id)
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *FakeAPI) writeList(w http.ResponseWriter, items interface{}) {
	if f.EnvelopeLists {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"count":   reflectLen(items),
			"results": items,
		})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func platformDisplay(p domain.Platform) string {
	switch p {
	case domain.PlatformFacebook:
		return "Facebook"
	case domain.PlatformInstagram:
		return "Instagram"
	case domain.PlatformThreads:
		return "Threads"
	default:
		return "Outro"
	}
}

func reflectLen(items interface{}) int {
	switch v := items.(type) {
	case []domain.ManualEntry:
		return len(v)
	case []domain.SocialMetric:
		return len(v)
	case []domain.AppDownload:
		return len(v)
	case []domain.WebsiteMetric:
		return len(v)
	}
	return 0
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
