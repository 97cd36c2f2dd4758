package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/corops/cordash/internal/domain"
)

func init() {
	rootCmd.AddCommand(manualCmd)
	manualCmd.AddCommand(manualListCmd)
	manualCmd.AddCommand(manualAddCmd)
	manualCmd.AddCommand(manualUpdateCmd)
	manualCmd.AddCommand(manualDeleteCmd)

	manualListCmd.Flags().String("platform", "", "filter by platform (facebook, instagram, threads, other)")

	for _, cmd := range []*cobra.Command{manualAddCmd, manualUpdateCmd} {
		cmd.Flags().String("platform", "", "platform (facebook, instagram, threads, other)")
		cmd.Flags().String("name", "", "metric name")
		cmd.Flags().Int64("value", 0, "metric value")
		cmd.Flags().String("by", "", "who collected the value")
		cmd.Flags().String("notes", "", "free-form notes")
		_ = cmd.MarkFlagRequired("platform")
		_ = cmd.MarkFlagRequired("name")
		_ = cmd.MarkFlagRequired("value")
		_ = cmd.MarkFlagRequired("by")
	}
}

var manualCmd = &cobra.Command{
	Use:   "manual",
	Short: "Manage manually collected metrics",
	Long: `Manage the metric values entered by hand for platforms without
automated collection. Updates replace the whole entry, so every required
flag must be passed again.`,
}

func manualInput(cmd *cobra.Command) domain.ManualEntryInput {
	platform, _ := cmd.Flags().GetString("platform")
	name, _ := cmd.Flags().GetString("name")
	value, _ := cmd.Flags().GetInt64("value")
	by, _ := cmd.Flags().GetString("by")
	notes, _ := cmd.Flags().GetString("notes")

	return domain.ManualEntryInput{
		Platform:    domain.Platform(platform),
		MetricName:  name,
		MetricValue: value,
		Notes:       notes,
		EnteredBy:   by,
	}
}

func entryID(args []string) (int64, error) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid entry id %q", args[0])
	}
	return id, nil
}

var manualListCmd = &cobra.Command{
	Use:   "list",
	Short: "List manual entries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		platform, _ := cmd.Flags().GetString("platform")

		_, client, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		entries, err := client.ManualEntries(cmd.Context(), domain.Platform(platform))
		if err != nil {
			return fmt.Errorf("failed to fetch manual entries: %w", err)
		}
		return RenderManualEntries(entries, outputFormat)
	},
}

var manualAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new manual entry",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, client, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		entry, err := client.CreateManualEntry(cmd.Context(), manualInput(cmd))
		if err != nil {
			return fmt.Errorf("failed to create entry: %w", err)
		}

		fmt.Printf("✓ Entry %d created\n", entry.ID)
		return nil
	},
}

var manualUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace an existing manual entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := entryID(args)
		if err != nil {
			return err
		}

		_, client, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		entry, err := client.UpdateManualEntry(cmd.Context(), id, manualInput(cmd))
		if err != nil {
			return fmt.Errorf("failed to update entry: %w", err)
		}

		fmt.Printf("✓ Entry %d updated\n", entry.ID)
		return nil
	},
}

var manualDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a manual entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := entryID(args)
		if err != nil {
			return err
		}

		_, client, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		if err := client.DeleteManualEntry(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}

		fmt.Printf("✓ Entry %d deleted\n", id)
		return nil
	},
}
