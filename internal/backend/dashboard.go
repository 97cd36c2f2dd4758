package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/corops/cordash/internal/domain"
)

// listResponse decodes both a bare JSON array and the paginated
// {count, results} envelope the backend may serve for list endpoints.
type listResponse[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

func (l *listResponse[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &l.Results); err != nil {
			return err
		}
		l.Count = len(l.Results)
		return nil
	}

	type plain listResponse[T]
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	*l = listResponse[T](p)
	return nil
}

// SocialMetricFilter narrows a social metrics listing.
type SocialMetricFilter struct {
	Platform  domain.SocialPlatform
	Period    domain.Period
	StartDate time.Time
	EndDate   time.Time
}

func (f SocialMetricFilter) query() url.Values {
	params := url.Values{}
	if f.Platform != "" {
		params.Set("platform", string(f.Platform))
	}
	if f.Period != "" {
		params.Set("period", string(f.Period))
	}
	if !f.StartDate.IsZero() && !f.EndDate.IsZero() {
		params.Set("start_date", f.StartDate.Format(time.RFC3339))
		params.Set("end_date", f.EndDate.Format(time.RFC3339))
	}
	return params
}

// AppDownloadFilter narrows an app download listing.
type AppDownloadFilter struct {
	Platform domain.AppPlatform
	Period   domain.Period
}

func (f AppDownloadFilter) query() url.Values {
	params := url.Values{}
	if f.Platform != "" {
		params.Set("platform", string(f.Platform))
	}
	if f.Period != "" {
		params.Set("period", string(f.Period))
	}
	return params
}

// withQuery appends an encoded query string to an endpoint path.
func withQuery(endpoint string, params url.Values) string {
	if encoded := params.Encode(); encoded != "" {
		return endpoint + "?" + encoded
	}
	return endpoint
}

// periodQuery builds the single-parameter query used by the aggregate
// endpoints, defaulting to the backend's month window.
func periodQuery(period domain.Period) url.Values {
	if period == "" {
		period = domain.DefaultPeriod
	}
	params := url.Values{}
	params.Set("period", string(period))
	return params
}

// DashboardSummary fetches the consolidated dashboard payload for a period.
func (c *Client) DashboardSummary(ctx context.Context, period domain.Period) (*domain.DashboardSummary, error) {
	var summary domain.DashboardSummary
	endpoint := withQuery("/api/dashboard/summary/", periodQuery(period))
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &summary, false); err != nil {
		return nil, err
	}
	return &summary, nil
}

// SocialMetrics lists social metric snapshots matching the filter.
func (c *Client) SocialMetrics(ctx context.Context, filter SocialMetricFilter) ([]domain.SocialMetric, error) {
	var list listResponse[domain.SocialMetric]
	endpoint := withQuery("/api/social-metrics/", filter.query())
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &list, false); err != nil {
		return nil, err
	}
	return list.Results, nil
}

// LatestSocialMetrics fetches the most recent snapshot per platform.
func (c *Client) LatestSocialMetrics(ctx context.Context) ([]domain.SocialMetric, error) {
	var list listResponse[domain.SocialMetric]
	if err := c.do(ctx, http.MethodGet, "/api/social-metrics/latest/", nil, &list, false); err != nil {
		return nil, err
	}
	return list.Results, nil
}

// SocialComparison compares follower counts between the current and the
// previous window for one platform.
func (c *Client) SocialComparison(
	ctx context.Context,
	platform domain.SocialPlatform,
	period domain.Period,
) (*domain.SocialComparison, error) {
	params := periodQuery(period)
	params.Set("platform", string(platform))

	var comparison domain.SocialComparison
	endpoint := withQuery("/api/social-metrics/comparison/", params)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &comparison, false); err != nil {
		return nil, err
	}
	return &comparison, nil
}

// CreateSocialMetric records a social metric snapshot.
func (c *Client) CreateSocialMetric(ctx context.Context, input domain.SocialMetricInput) (*domain.SocialMetric, error) {
	var metric domain.SocialMetric
	if err := c.do(ctx, http.MethodPost, "/api/social-metrics/", input, &metric, false); err != nil {
		return nil, err
	}
	return &metric, nil
}

// AppDownloads lists app download snapshots matching the filter.
func (c *Client) AppDownloads(ctx context.Context, filter AppDownloadFilter) ([]domain.AppDownload, error) {
	var list listResponse[domain.AppDownload]
	endpoint := withQuery("/api/app-downloads/", filter.query())
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &list, false); err != nil {
		return nil, err
	}
	return list.Results, nil
}

// TotalDownloads fetches the aggregate download counts across stores.
func (c *Client) TotalDownloads(ctx context.Context) (*domain.DownloadTotals, error) {
	var totals domain.DownloadTotals
	if err := c.do(ctx, http.MethodGet, "/api/app-downloads/total/", nil, &totals, false); err != nil {
		return nil, err
	}
	return &totals, nil
}

// CreateAppDownload records an app download snapshot.
func (c *Client) CreateAppDownload(ctx context.Context, input domain.AppDownloadInput) (*domain.AppDownload, error) {
	var download domain.AppDownload
	if err := c.do(ctx, http.MethodPost, "/api/app-downloads/", input, &download, false); err != nil {
		return nil, err
	}
	return &download, nil
}

// WebsiteMetrics lists website traffic snapshots for a period.
func (c *Client) WebsiteMetrics(ctx context.Context, period domain.Period) ([]domain.WebsiteMetric, error) {
	params := url.Values{}
	if period != "" {
		params.Set("period", string(period))
	}

	var list listResponse[domain.WebsiteMetric]
	endpoint := withQuery("/api/website-metrics/", params)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &list, false); err != nil {
		return nil, err
	}
	return list.Results, nil
}

// WebsiteSummary fetches the aggregated website traffic for a period.
func (c *Client) WebsiteSummary(ctx context.Context, period domain.Period) (*domain.WebsiteSummary, error) {
	var summary domain.WebsiteSummary
	endpoint := withQuery("/api/website-metrics/summary/", periodQuery(period))
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &summary, false); err != nil {
		return nil, err
	}
	return &summary, nil
}

// CreateWebsiteMetric records a website traffic snapshot.
func (c *Client) CreateWebsiteMetric(ctx context.Context, input domain.WebsiteMetricInput) (*domain.WebsiteMetric, error) {
	var metric domain.WebsiteMetric
	if err := c.do(ctx, http.MethodPost, "/api/website-metrics/", input, &metric, false); err != nil {
		return nil, err
	}
	return &metric, nil
}

// ManualEntries lists manual entries, optionally filtered by platform.
func (c *Client) ManualEntries(ctx context.Context, platform domain.Platform) ([]domain.ManualEntry, error) {
	params := url.Values{}
	if platform != "" {
		params.Set("platform", string(platform))
	}

	var list listResponse[domain.ManualEntry]
	endpoint := withQuery("/api/manual-entries/", params)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &list, false); err != nil {
		return nil, err
	}
	return list.Results, nil
}

// CreateManualEntry submits a new manual entry. Validation runs before any
// network traffic.
func (c *Client) CreateManualEntry(ctx context.Context, input domain.ManualEntryInput) (*domain.ManualEntry, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var entry domain.ManualEntry
	if err := c.do(ctx, http.MethodPost, "/api/manual-entries/", input, &entry, false); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateManualEntry replaces every client-mutable field of an existing
// entry (PUT, not a partial patch).
func (c *Client) UpdateManualEntry(ctx context.Context, id int64, input domain.ManualEntryInput) (*domain.ManualEntry, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var entry domain.ManualEntry
	endpoint := fmt.Sprintf("/api/manual-entries/%d/", id)
	if err := c.do(ctx, http.MethodPut, endpoint, input, &entry, false); err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteManualEntry removes an entry.
func (c *Client) DeleteManualEntry(ctx context.Context, id int64) error {
	endpoint := fmt.Sprintf("/api/manual-entries/%d/", id)
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil, false)
}
