package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/corops/cordash/internal/domain"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatYML  = "yml"
)

// render serializes v for the json and yaml formats; table rendering is
// per-type.
func render(v interface{}, format string) (bool, error) {
	switch strings.ToLower(format) {
	case formatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return true, encoder.Encode(v)
	case formatYAML, formatYML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return true, err
		}
		fmt.Print(string(data))
		return true, nil
	}
	return false, nil
}

func newTable(header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(header)
	return t
}

func formatDate(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Format("2006-01-02")
}

// RenderSummary renders the consolidated dashboard summary.
func RenderSummary(summary *domain.DashboardSummary, format string) error {
	if done, err := render(summary, format); done {
		return err
	}

	fmt.Printf("Period: %s\n", summary.Period)
	fmt.Printf("Total followers:     %d\n", summary.TotalFollowers)
	fmt.Printf("Total app downloads: %d\n", summary.TotalAppDownloads)
	fmt.Printf("Total page views:    %d\n\n", summary.TotalPageViews)

	if len(summary.SocialMetrics) > 0 {
		if err := RenderSocialMetrics(summary.SocialMetrics, format); err != nil {
			return err
		}
	}
	return nil
}

// RenderSocialMetrics renders social network snapshots.
func RenderSocialMetrics(metrics []domain.SocialMetric, format string) error {
	if done, err := render(metrics, format); done {
		return err
	}

	t := newTable(table.Row{"Platform", "Followers", "Engagement", "Likes", "Views", "Collected"})
	for _, m := range metrics {
		platform := string(m.Platform)
		if m.PlatformDisplay != "" {
			platform = m.PlatformDisplay
		}
		t.AppendRow(table.Row{platform, m.Followers, fmt.Sprintf("%.2f%%", m.EngagementRate), m.Likes, m.Views, formatDate(m.CollectedAt)})
	}
	t.Render()
	return nil
}

// RenderComparison renders a current-versus-previous follower comparison.
func RenderComparison(comparison *domain.SocialComparison, format string) error {
	if done, err := render(comparison, format); done {
		return err
	}

	t := newTable(table.Row{"Platform", "Period", "Current Avg", "Previous Avg", "Growth"})
	t.AppendRow(table.Row{
		comparison.Platform,
		comparison.Period,
		comparison.Current.AvgFollowers,
		comparison.Previous.AvgFollowers,
		fmt.Sprintf("%.1f%%", comparison.Growth),
	})
	t.Render()
	return nil
}

// RenderAppDownloads renders app download data points.
func RenderAppDownloads(downloads []domain.AppDownload, format string) error {
	if done, err := render(downloads, format); done {
		return err
	}

	t := newTable(table.Row{"Platform", "Total", "Daily", "Active Users", "Rating", "Collected"})
	for _, d := range downloads {
		platform := string(d.Platform)
		if d.PlatformDisplay != "" {
			platform = d.PlatformDisplay
		}
		t.AppendRow(table.Row{platform, d.TotalDownloads, d.DailyDownloads, d.ActiveUsers, d.Rating, formatDate(d.CollectedAt)})
	}
	t.Render()
	return nil
}

// RenderDownloadTotals renders the per-store aggregate.
func RenderDownloadTotals(totals *domain.DownloadTotals, format string) error {
	if done, err := render(totals, format); done {
		return err
	}

	t := newTable(table.Row{"Android", "iOS", "Total"})
	t.AppendRow(table.Row{totals.Android, totals.IOS, totals.Total})
	t.Render()
	return nil
}

// RenderWebsiteMetrics renders website traffic snapshots.
func RenderWebsiteMetrics(metrics []domain.WebsiteMetric, format string) error {
	if done, err := render(metrics, format); done {
		return err
	}

	t := newTable(table.Row{"Page Views", "Unique Visitors", "Sessions", "Bounce Rate", "Collected"})
	for _, m := range metrics {
		t.AppendRow(table.Row{m.PageViews, m.UniqueVisitors, m.Sessions, fmt.Sprintf("%.1f%%", m.BounceRate), formatDate(m.CollectedAt)})
	}
	t.Render()
	return nil
}

// RenderWebsiteSummary renders the aggregated website traffic.
func RenderWebsiteSummary(summary *domain.WebsiteSummary, format string) error {
	if done, err := render(summary, format); done {
		return err
	}

	t := newTable(table.Row{"Page Views", "Unique Visitors", "Sessions"})
	t.AppendRow(table.Row{summary.TotalPageViews, summary.TotalUniqueVisitors, summary.TotalSessions})
	t.Render()
	return nil
}

// RenderManualEntries renders manually collected metric entries.
func RenderManualEntries(entries []domain.ManualEntry, format string) error {
	if done, err := render(entries, format); done {
		return err
	}

	t := newTable(table.Row{"ID", "Platform", "Metric", "Value", "Entered By", "Collected"})
	for _, e := range entries {
		platform := string(e.Platform)
		if e.PlatformDisplay != "" {
			platform = e.PlatformDisplay
		}
		t.AppendRow(table.Row{e.ID, platform, e.MetricName, e.MetricValue, e.EnteredBy, formatDate(e.CollectedAt)})
	}
	t.Render()
	return nil
}
