package domain

import (
	"fmt"
	"time"
)

// Period selects the aggregation window for dashboard queries.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// DefaultPeriod is what the backend assumes when no period is sent.
const DefaultPeriod = PeriodMonth

// ParsePeriod validates a period string, falling back to the default for
// an empty value.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return Period(s), nil
	case "":
		return DefaultPeriod, nil
	}
	return "", NewValidationError("INVALID_PERIOD",
		fmt.Sprintf("period must be one of day, week, month, year; got %q", s), nil)
}

// Platform identifies a manual entry platform.
type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformThreads   Platform = "threads"
	PlatformOther     Platform = "other"
)

// ManualEntryPlatforms lists the platforms a manual entry may target.
func ManualEntryPlatforms() []Platform {
	return []Platform{PlatformFacebook, PlatformInstagram, PlatformThreads, PlatformOther}
}

// Valid reports whether the platform is one of the manual entry choices.
func (p Platform) Valid() bool {
	switch p {
	case PlatformFacebook, PlatformInstagram, PlatformThreads, PlatformOther:
		return true
	}
	return false
}

// SocialPlatform identifies a social network with automated collection.
type SocialPlatform string

const (
	SocialTwitter   SocialPlatform = "twitter"
	SocialFacebook  SocialPlatform = "facebook"
	SocialInstagram SocialPlatform = "instagram"
	SocialYoutube   SocialPlatform = "youtube"
	SocialThreads   SocialPlatform = "threads"
)

// AppPlatform identifies an app store.
type AppPlatform string

const (
	AppAndroid AppPlatform = "android"
	AppIOS     AppPlatform = "ios"
)

// ManualEntry is a metric data point entered by a human for a platform
// without automated collection. ID, PlatformDisplay, CollectedAt and
// CreatedAt are assigned by the backend and never mutated client-side.
type ManualEntry struct {
	ID              int64     `json:"id"`
	Platform        Platform  `json:"platform"`
	PlatformDisplay string    `json:"platform_display,omitempty"`
	MetricName      string    `json:"metric_name"`
	MetricValue     int64     `json:"metric_value"`
	Notes           string    `json:"notes,omitempty"`
	EnteredBy       string    `json:"entered_by"`
	CollectedAt     time.Time `json:"collected_at,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
}

// ManualEntryInput carries the client-mutable fields of a manual entry.
// Updates are full replacements, so every required field must be present
// on every submission.
type ManualEntryInput struct {
	Platform    Platform `json:"platform"`
	MetricName  string   `json:"metric_name"`
	MetricValue int64    `json:"metric_value"`
	Notes       string   `json:"notes,omitempty"`
	EnteredBy   string   `json:"entered_by"`
}

// Validate enforces the required-field constraints before any network call.
func (in ManualEntryInput) Validate() error {
	details := map[string]interface{}{}
	if !in.Platform.Valid() {
		details["platform"] = "must be one of facebook, instagram, threads, other"
	}
	if in.MetricName == "" {
		details["metric_name"] = "required"
	}
	if in.MetricValue <= 0 {
		details["metric_value"] = "must be a positive number"
	}
	if in.EnteredBy == "" {
		details["entered_by"] = "required"
	}
	if len(details) > 0 {
		return NewValidationError("INVALID_MANUAL_ENTRY", "manual entry is missing required fields", details)
	}
	return nil
}

// SocialMetric is a read-only social network snapshot as served by the
// backend; the client never mutates these.
type SocialMetric struct {
	ID              int64          `json:"id"`
	Platform        SocialPlatform `json:"platform"`
	PlatformDisplay string         `json:"platform_display,omitempty"`
	Followers       int64          `json:"followers"`
	Following       int64          `json:"following,omitempty"`
	PostsCount      int64          `json:"posts_count,omitempty"`
	EngagementRate  float64        `json:"engagement_rate,omitempty"`
	Likes           int64          `json:"likes,omitempty"`
	Comments        int64          `json:"comments,omitempty"`
	Shares          int64          `json:"shares,omitempty"`
	Views           int64          `json:"views,omitempty"`
	CollectedAt     time.Time      `json:"collected_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at,omitempty"`
}

// SocialMetricInput carries the writable fields for a social metric snapshot.
type SocialMetricInput struct {
	Platform       SocialPlatform `json:"platform"`
	Followers      int64          `json:"followers"`
	Following      int64          `json:"following,omitempty"`
	PostsCount     int64          `json:"posts_count,omitempty"`
	EngagementRate float64        `json:"engagement_rate,omitempty"`
	Likes          int64          `json:"likes,omitempty"`
	Comments       int64          `json:"comments,omitempty"`
	Shares         int64          `json:"shares,omitempty"`
	Views          int64          `json:"views,omitempty"`
}

// AppDownload is a read-only app store metrics snapshot.
type AppDownload struct {
	ID               int64       `json:"id"`
	Platform         AppPlatform `json:"platform"`
	PlatformDisplay  string      `json:"platform_display,omitempty"`
	TotalDownloads   int64       `json:"total_downloads"`
	DailyDownloads   int64       `json:"daily_downloads,omitempty"`
	WeeklyDownloads  int64       `json:"weekly_downloads,omitempty"`
	MonthlyDownloads int64       `json:"monthly_downloads,omitempty"`
	ActiveUsers      int64       `json:"active_users,omitempty"`
	Rating           float64     `json:"rating,omitempty"`
	ReviewsCount     int64       `json:"reviews_count,omitempty"`
	CollectedAt      time.Time   `json:"collected_at,omitempty"`
	CreatedAt        time.Time   `json:"created_at,omitempty"`
}

// AppDownloadInput carries the writable fields for an app download snapshot.
type AppDownloadInput struct {
	Platform       AppPlatform `json:"platform"`
	TotalDownloads int64       `json:"total_downloads"`
	DailyDownloads int64       `json:"daily_downloads,omitempty"`
	ActiveUsers    int64       `json:"active_users,omitempty"`
	Rating         float64     `json:"rating,omitempty"`
	ReviewsCount   int64       `json:"reviews_count,omitempty"`
}

// WebsiteMetric is a read-only website traffic snapshot.
type WebsiteMetric struct {
	ID                 int64     `json:"id"`
	PageViews          int64     `json:"page_views"`
	UniqueVisitors     int64     `json:"unique_visitors"`
	Sessions           int64     `json:"sessions"`
	BounceRate         float64   `json:"bounce_rate,omitempty"`
	AvgSessionDuration int64     `json:"avg_session_duration,omitempty"`
	OrganicTraffic     int64     `json:"organic_traffic,omitempty"`
	DirectTraffic      int64     `json:"direct_traffic,omitempty"`
	ReferralTraffic    int64     `json:"referral_traffic,omitempty"`
	SocialTraffic      int64     `json:"social_traffic,omitempty"`
	CollectedAt        time.Time `json:"collected_at,omitempty"`
	CreatedAt          time.Time `json:"created_at,omitempty"`
}

// WebsiteMetricInput carries the writable fields for a website snapshot.
type WebsiteMetricInput struct {
	PageViews      int64   `json:"page_views"`
	UniqueVisitors int64   `json:"unique_visitors"`
	Sessions       int64   `json:"sessions"`
	BounceRate     float64 `json:"bounce_rate,omitempty"`
}

// DashboardSummary is the consolidated dashboard payload.
type DashboardSummary struct {
	SocialMetrics     []SocialMetric  `json:"social_metrics"`
	AppDownloads      []AppDownload   `json:"app_downloads"`
	WebsiteMetrics    []WebsiteMetric `json:"website_metrics"`
	TotalFollowers    int64           `json:"total_followers"`
	TotalAppDownloads int64           `json:"total_app_downloads"`
	TotalPageViews    int64           `json:"total_page_views"`
	Period            Period          `json:"period"`
}

// DownloadTotals is the aggregate served by /api/app-downloads/total/.
type DownloadTotals struct {
	Android int64 `json:"android"`
	IOS     int64 `json:"ios"`
	Total   int64 `json:"total"`
}

// WebsiteSummary is the aggregate served by /api/website-metrics/summary/.
type WebsiteSummary struct {
	TotalPageViews      int64 `json:"total_page_views"`
	TotalUniqueVisitors int64 `json:"total_unique_visitors"`
	TotalSessions       int64 `json:"total_sessions"`
}

// FollowerWindow is one side of a period comparison.
type FollowerWindow struct {
	AvgFollowers int64 `json:"avg_followers"`
}

// SocialComparison compares follower counts between the current and the
// previous period for one platform.
type SocialComparison struct {
	Platform SocialPlatform `json:"platform"`
	Period   Period         `json:"period"`
	Current  FollowerWindow `json:"current"`
	Previous FollowerWindow `json:"previous"`
	Growth   float64        `json:"growth"`
}
