package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/danghoang/kvboard/internal/board"
	"github.com/danghoang/kvboard/internal/kiotviet"
	"github.com/danghoang/kvboard/internal/notify"
	"github.com/danghoang/kvboard/internal/report"
	"github.com/danghoang/kvboard/internal/sheets"
	"github.com/danghoang/kvboard/internal/storage"
	"github.com/spf13/viper"
)

// Wiring helpers: every collaborator is built from viper config here and
// injected through constructors; nothing below cmd/ touches globals.

func newSheetClient(ctx context.Context, logger *slog.Logger) (*sheets.Client, error) {
	cfg := sheets.DefaultConfig()
	cfg.ClientID = viper.GetString("sheets.client_id")
	cfg.ClientSecret = viper.GetString("sheets.client_secret")
	cfg.RefreshToken = viper.GetString("sheets.refresh_token")
	cfg.TokenFile = viper.GetString("sheets.token_file")
	cfg.ServiceAccountPath = viper.GetString("sheets.service_account_path")
	cfg.SpreadsheetID = viper.GetString("sheets.spreadsheet_id")
	if attempts := viper.GetInt("sheets.retry_attempts"); attempts > 0 {
		cfg.RetryAttempts = attempts
	}

	return sheets.NewClient(ctx, cfg, logger)
}

func newKiotVietClient(ctx context.Context, logger *slog.Logger) (*kiotviet.Client, error) {
	return kiotviet.NewClient(ctx, kiotviet.Config{
		ClientID:     viper.GetString("kiotviet.client_id"),
		ClientSecret: viper.GetString("kiotviet.client_secret"),
		Retailer:     viper.GetString("kiotviet.retailer"),
		BaseURL:      viper.GetString("kiotviet.base_url"),
		TokenURL:     viper.GetString("kiotviet.token_url"),
	}, logger)
}

func boardConfig() board.Config {
	cfg := board.DefaultConfig()
	if title := viper.GetString("board.title"); title != "" {
		cfg.Title = title
	}
	if assignees := viper.GetStringSlice("board.assignees"); len(assignees) > 0 {
		cfg.Assignees = assignees
	}
	if ceiling := viper.GetInt64("board.rule_row_ceiling"); ceiling > 0 {
		cfg.RuleRowCeiling = ceiling
	}
	return cfg
}

func reportConfig() report.Config {
	return report.Config{
		Title: viper.GetString("board.title"),
		Topics: report.Topics{
			Unestimated: viper.GetString("report.topics.unestimated"),
			Due:         viper.GetString("report.topics.due"),
			Flagged:     viper.GetString("report.topics.flagged"),
		},
	}
}

func newNotifier(logger *slog.Logger) (*notify.Telegram, error) {
	return notify.NewTelegram(notify.TelegramConfig{
		BotToken: viper.GetString("telegram.bot_token"),
	}, logger)
}

func newCatalogStore(ctx context.Context) (*storage.SQLiteCatalog, error) {
	path := viper.GetString("database.path")
	if path == "" {
		path = "kvboard.db"
	}

	store, err := storage.NewSQLiteCatalog(path)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// resolveWindow computes the fetch window: explicit --from/--to dates when
// given, otherwise today back through the configured lookback, so invoices
// edited a day or two late still get picked up.
func resolveWindow(now time.Time) (from, to time.Time, err error) {
	lookback := viper.GetInt("sync.lookback_days")
	if lookback <= 0 {
		lookback = 2
	}
	from = now.AddDate(0, 0, -lookback)
	to = now

	if raw := viper.GetString("sync.from"); raw != "" {
		if from, err = time.Parse("2006-01-02", raw); err != nil {
			return from, to, fmt.Errorf("invalid --from date %q: %w", raw, err)
		}
	}
	if raw := viper.GetString("sync.to"); raw != "" {
		if to, err = time.Parse("2006-01-02", raw); err != nil {
			return from, to, fmt.Errorf("invalid --to date %q: %w", raw, err)
		}
	}
	if to.Before(from) {
		return from, to, fmt.Errorf("window end %s is before window start %s", to.Format("2006-01-02"), from.Format("2006-01-02"))
	}
	return from, to, nil
}

func syncStatuses() []int {
	statuses := viper.GetIntSlice("sync.statuses")
	if len(statuses) == 0 {
		// Completed and in-progress invoices by default.
		statuses = []int{1, 3}
	}
	return statuses
}
