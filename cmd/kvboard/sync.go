package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/danghoang/kvboard/internal/board"
	"github.com/danghoang/kvboard/internal/cli"
	"github.com/danghoang/kvboard/internal/kiotviet"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull new invoices onto the tracking board",
		Long: `Fetch invoices from KiotViet for the sync window, expand their notes into
work-item rows, and insert the ones not yet on the board. Runs once with
--once, otherwise loops on a fixed interval until interrupted.

Dedup is by invoice code: an invoice already on the board is skipped whole,
so repeating a sync never duplicates rows.`,
		RunE: runSync,
	}

	cmd.Flags().Bool("once", false, "Run a single sync pass and exit")
	cmd.Flags().Duration("interval", 5*time.Minute, "Loop interval")
	cmd.Flags().String("from", "", "window start (YYYY-MM-DD, overrides the lookback)")
	cmd.Flags().String("to", "", "window end (YYYY-MM-DD, overrides the lookback)")

	_ = viper.BindPFlag("sync.once", cmd.Flags().Lookup("once"))
	_ = viper.BindPFlag("sync.interval", cmd.Flags().Lookup("interval"))
	_ = viper.BindPFlag("sync.from", cmd.Flags().Lookup("from"))
	_ = viper.BindPFlag("sync.to", cmd.Flags().Lookup("to"))

	return cmd
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := slog.Default()

	apiClient, err := newKiotVietClient(ctx, logger)
	if err != nil {
		return err
	}
	sheetClient, err := newSheetClient(ctx, logger)
	if err != nil {
		return err
	}

	fetcher := kiotviet.NewFetcher(apiClient, viper.GetInt("sync.page_size"), logger)
	synchronizer := board.NewSynchronizer(sheetClient, boardConfig(), logger)

	pass := func() (board.Result, error) {
		from, to, err := resolveWindow(time.Now())
		if err != nil {
			return board.Result{}, err
		}
		invoices, err := fetcher.Fetch(ctx, from, to, syncStatuses())
		if err != nil {
			return board.Result{}, err
		}
		return synchronizer.Sync(ctx, invoices)
	}

	if viper.GetBool("sync.once") {
		result, err := pass()
		if err != nil {
			return err
		}
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("sync complete: %d inserted, %d skipped", result.Inserted, result.Skipped)))
		return nil
	}

	interval := viper.GetDuration("sync.interval")
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	logger.Info("starting sync loop", "interval", interval)

	// One pass up front, then the ticker. Runs never overlap: each pass
	// finishes before the next tick is consumed.
	if result, err := pass(); err != nil {
		logger.Error("sync pass failed", "error", err)
	} else {
		logger.Info("sync pass done", "inserted", result.Inserted, "skipped", result.Skipped)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("sync loop stopped")
			return nil
		case <-ticker.C:
			if result, err := pass(); err != nil {
				logger.Error("sync pass failed", "error", err)
			} else {
				logger.Info("sync pass done", "inserted", result.Inserted, "skipped", result.Skipped)
			}
		}
	}
}
