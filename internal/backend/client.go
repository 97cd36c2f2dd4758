// Package backend is the typed client for the COR metrics REST API. It
// attaches the bearer token to every outbound request and transparently
// renews an expired access token on a 401, replaying the original request
// at most once.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/corops/cordash/internal/domain"
)

// Token endpoints of the backend. Refresh is a fixed endpoint; the exchange
// is a plain JSON body, not an OAuth2 grant.
const (
	loginEndpoint   = "/api/token/"
	refreshEndpoint = "/api/token/refresh/"
)

// TokenHooks lets the session owner observe the client's token lifecycle.
// RefreshToken supplies the current refresh token ("" when none is held),
// OnAccessToken persists a renewed access token, and OnSessionExpired tears
// the session down after a failed renewal.
type TokenHooks interface {
	RefreshToken(ctx context.Context) string
	OnAccessToken(ctx context.Context, access string)
	OnSessionExpired(ctx context.Context)
}

// Client communicates with the metrics backend.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu         sync.Mutex
	authHeader string

	hooks TokenHooks
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client; the web server shares one
// transport across per-session clients.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithTokenHooks registers the token lifecycle hooks at construction time.
func WithTokenHooks(h TokenHooks) Option {
	return func(c *Client) { c.hooks = h }
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTokenHooks registers the token lifecycle hooks. The session controller
// calls this after construction because the two reference each other.
func (c *Client) SetTokenHooks(h TokenHooks) {
	c.hooks = h
}

// SetAuthHeader installs token as the default bearer credential. The mutex
// orders the write before the header read of any request issued afterwards,
// so a replayed request never reinstates a stale token.
func (c *Client) SetAuthHeader(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token == "" {
		c.authHeader = ""
		return
	}
	c.authHeader = "Bearer " + token
}

// ClearAuthHeader removes the default bearer credential.
func (c *Client) ClearAuthHeader() {
	c.SetAuthHeader("")
}

// authorization returns the current default Authorization header value.
func (c *Client) authorization() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authHeader
}

// APIError represents an API error response
type APIError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("API error (%d): %s - %s", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// TokenPair is the response of the login endpoint.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login exchanges credentials for a token pair. The call carries no bearer
// header and never triggers the refresh path: a 401 here is a credential
// rejection for the caller to report.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}

	var pair TokenPair
	if err := c.do(ctx, http.MethodPost, loginEndpoint, body, &pair, true); err != nil {
		return nil, err
	}
	return &pair, nil
}

// RefreshAccess exchanges a refresh token for a new access token.
func (c *Client) RefreshAccess(ctx context.Context, refreshToken string) (string, error) {
	body := map[string]string{"refresh": refreshToken}

	var out struct {
		Access string `json:"access"`
	}
	if err := c.do(ctx, http.MethodPost, refreshEndpoint, body, &out, true); err != nil {
		return "", err
	}
	return out.Access, nil
}

// do performs one logical API request. bare requests skip the bearer header
// and the refresh path (the token endpoints themselves).
//
// On a 401 the client renews the access token once and replays the request;
// the caller only ever sees the replay's outcome. A 401 on the replay falls
// through as a regular API error, which bounds every logical request to a
// single retry.
func (c *Client) do(ctx context.Context, method, endpoint string, body, result interface{}, bare bool) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = data
	}

	status, data, err := c.send(ctx, method, endpoint, payload, bare)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && !bare && c.hooks != nil {
		refreshToken := c.hooks.RefreshToken(ctx)
		if refreshToken == "" {
			// No refresh token held: propagate the original failure.
			return apiErrorFrom(status, data)
		}

		access, refreshErr := c.RefreshAccess(ctx, refreshToken)
		if refreshErr != nil {
			// The session is not renewable; tear it down.
			c.ClearAuthHeader()
			c.hooks.OnSessionExpired(ctx)
			return domain.NewSessionExpiredError(refreshErr)
		}

		// Install the renewed token before the replay so no later request
		// can read the stale header.
		c.SetAuthHeader(access)
		c.hooks.OnAccessToken(ctx, access)

		status, data, err = c.send(ctx, method, endpoint, payload, false)
		if err != nil {
			return err
		}
	}

	return decodeResponse(status, data, result)
}

// send performs a single HTTP exchange and returns the status and body.
func (c *Client) send(ctx context.Context, method, endpoint string, payload []byte, bare bool) (int, []byte, error) {
	fullURL, err := url.JoinPath(c.baseURL, endpoint)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to join URL path: %w", err)
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !bare {
		if auth := c.authorization(); auth != "" {
			req.Header.Set("Authorization", auth)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, data, nil
}

// decodeResponse maps an HTTP outcome onto the caller's result value.
func decodeResponse(status int, data []byte, result interface{}) error {
	if status >= 400 {
		return apiErrorFrom(status, data)
	}

	if result != nil && len(data) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}

// apiErrorFrom builds an APIError from an error response body. The backend
// uses "detail" (DRF), "error" or "message" depending on the endpoint.
func apiErrorFrom(status int, data []byte) error {
	apiError := &APIError{StatusCode: status}

	var errorResp map[string]interface{}
	if json.Unmarshal(data, &errorResp) == nil {
		if msg, ok := errorResp["detail"].(string); ok {
			apiError.Message = msg
		} else if msg, ok := errorResp["error"].(string); ok {
			apiError.Message = msg
		} else if msg, ok := errorResp["message"].(string); ok {
			apiError.Message = msg
		}
		if details, ok := errorResp["details"].(string); ok {
			apiError.Details = details
		}
	}

	if apiError.Message == "" {
		apiError.Message = string(data)
	}
	return apiError
}
