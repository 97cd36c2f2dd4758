package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corops/cordash/internal/backend"
	"github.com/corops/cordash/internal/domain"
)

func init() {
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(socialCmd)
	rootCmd.AddCommand(downloadsCmd)
	rootCmd.AddCommand(websiteCmd)

	socialCmd.AddCommand(socialCompareCmd)

	summaryCmd.Flags().String("period", "", "period (day, week, month, year)")
	socialCmd.Flags().String("platform", "", "social platform (twitter, facebook, instagram, youtube, threads)")
	socialCmd.Flags().String("period", "", "period (day, week, month, year)")
	socialCmd.Flags().Bool("latest", false, "only the latest snapshot per platform")
	socialCompareCmd.Flags().String("platform", "", "social platform")
	socialCompareCmd.Flags().String("period", "", "period (day, week, month, year)")
	_ = socialCompareCmd.MarkFlagRequired("platform")
	downloadsCmd.Flags().String("platform", "", "app platform (android, ios)")
	downloadsCmd.Flags().String("period", "", "period (day, week, month, year)")
	downloadsCmd.Flags().Bool("total", false, "only the aggregated totals")
	websiteCmd.Flags().String("period", "", "period (day, week, month, year)")
	websiteCmd.Flags().Bool("summary", false, "only the aggregated summary")
}

func periodFlag(cmd *cobra.Command) (domain.Period, error) {
	raw, _ := cmd.Flags().GetString("period")
	return domain.ParsePeriod(raw)
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the consolidated dashboard summary",
	RunE: func(cmd *cobra.Command, _ []string) error {
		period, err := periodFlag(cmd)
		if err != nil {
			return err
		}

		_, client, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		summary, err := client.DashboardSummary(cmd.Context(), period)
		if err != nil {
			return fmt.Errorf("failed to fetch summary: %w", err)
		}
		return RenderSummary(summary, outputFormat)
	},
}

var socialCmd = &cobra.Command{
	Use:   "social",
	Short: "List social network metrics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		period, err := periodFlag(cmd)
		if err != nil {
			return err
		}
		platform, _ := cmd.Flags().GetString("platform")
		latest, _ := cmd.Flags().GetBool("latest")

		_, client, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		var metrics []domain.SocialMetric
		if latest {
			metrics, err = client.LatestSocialMetrics(cmd.Context())
		} else {
			metrics, err = client.SocialMetrics(cmd.Context(), backend.SocialMetricFilter{
				Platform: domain.SocialPlatform(platform),
				Period:   period,
			})
		}
		if err != nil {
			return fmt.Errorf("failed to fetch social metrics: %w", err)
		}
		return RenderSocialMetrics(metrics, outputFormat)
	},
}

var socialCompareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare followers against the previous period",
	RunE: func(cmd *cobra.Command, _ []string) error {
		period, err := periodFlag(cmd)
		if err != nil {
			return err
		}
		platform, _ := cmd.Flags().GetString("platform")

		_, client, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		comparison, err := client.SocialComparison(cmd.Context(), domain.SocialPlatform(platform), period)
		if err != nil {
			return fmt.Errorf("failed to fetch comparison: %w", err)
		}
		return RenderComparison(comparison, outputFormat)
	},
}

var downloadsCmd = &cobra.Command{
	Use:   "downloads",
	Short: "List app download metrics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		period, err := periodFlag(cmd)
		if err != nil {
			return err
		}
		platform, _ := cmd.Flags().GetString("platform")
		total, _ := cmd.Flags().GetBool("total")

		_, client, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		if total {
			totals, err := client.TotalDownloads(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to fetch totals: %w", err)
			}
			return RenderDownloadTotals(totals, outputFormat)
		}

		downloads, err := client.AppDownloads(cmd.Context(), backend.AppDownloadFilter{
			Platform: domain.AppPlatform(platform),
			Period:   period,
		})
		if err != nil {
			return fmt.Errorf("failed to fetch downloads: %w", err)
		}
		return RenderAppDownloads(downloads, outputFormat)
	},
}

var websiteCmd = &cobra.Command{
	Use:   "website",
	Short: "List website traffic metrics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		period, err := periodFlag(cmd)
		if err != nil {
			return err
		}
		summary, _ := cmd.Flags().GetBool("summary")

		_, client, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		if summary {
			totals, err := client.WebsiteSummary(cmd.Context(), period)
			if err != nil {
				return fmt.Errorf("failed to fetch website summary: %w", err)
			}
			return RenderWebsiteSummary(totals, outputFormat)
		}

		metrics, err := client.WebsiteMetrics(cmd.Context(), period)
		if err != nil {
			return fmt.Errorf("failed to fetch website metrics: %w", err)
		}
		return RenderWebsiteMetrics(metrics, outputFormat)
	},
}
