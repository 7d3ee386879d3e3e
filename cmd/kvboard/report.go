package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/danghoang/kvboard/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Send the daily board digests to Telegram",
		Long: `Read the tracking board back and send the daily digests: orders without a
work-time estimate, orders due or past their promise date, and orders marked
"Phát sinh". Categories with no matching orders send nothing.`,
		RunE: runReport,
	}

	cmd.Flags().String("category", "all", "report category (all, unestimated, due, flagged)")
	cmd.Flags().String("day", "today", "intake day for the unestimated report (today, yesterday)")

	_ = viper.BindPFlag("report.category", cmd.Flags().Lookup("category"))
	_ = viper.BindPFlag("report.day", cmd.Flags().Lookup("day"))

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := slog.Default()

	day, dayLabel, err := reportDay(viper.GetString("report.day"))
	if err != nil {
		return err
	}

	sheetClient, err := newSheetClient(ctx, logger)
	if err != nil {
		return err
	}
	notifier, err := newNotifier(logger)
	if err != nil {
		return err
	}

	engine := report.NewEngine(sheetClient, notifier, reportConfig(), logger)

	category := viper.GetString("report.category")
	if category == "all" {
		return engine.RunAll(ctx, day, dayLabel)
	}

	rows, err := engine.LoadRows(ctx)
	if err != nil {
		return err
	}

	switch category {
	case "unestimated":
		return engine.RunUnestimated(ctx, rows, day, dayLabel)
	case "due":
		return engine.RunDueOverdue(ctx, rows, time.Now())
	case "flagged":
		return engine.RunFlagged(ctx, rows, time.Now())
	default:
		return fmt.Errorf("invalid report category: %s", category)
	}
}

// reportDay resolves the --day flag into the intake date plus the Vietnamese
// label used in the digest heading.
func reportDay(flag string) (time.Time, string, error) {
	switch flag {
	case "today":
		return time.Now(), "hôm nay", nil
	case "yesterday":
		return time.Now().AddDate(0, 0, -1), "hôm qua", nil
	default:
		return time.Time{}, "", fmt.Errorf("invalid report day: %s", flag)
	}
}
