package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danghoang/kvboard/internal/board"
	"github.com/danghoang/kvboard/internal/service"
)

// Topics maps each report category to its chat destination.
type Topics struct {
	Unestimated string
	Due         string
	Flagged     string
}

// Config holds the report engine settings.
type Config struct {
	Title  string
	Topics Topics
}

// Engine reads the board back and dispatches the daily digests. The three
// report branches are independent: one failing is logged and must not
// suppress the others, and a branch with zero results sends nothing.
type Engine struct {
	sheet    service.SheetClient
	notifier service.Notifier
	logger   *slog.Logger
	cfg      Config
}

// NewEngine creates a report engine.
func NewEngine(sheet service.SheetClient, notifier service.Notifier, cfg Config, logger *slog.Logger) *Engine {
	if cfg.Title == "" {
		cfg.Title = board.DefaultTitle
	}
	return &Engine{
		sheet:    sheet,
		notifier: notifier,
		logger:   logger,
		cfg:      cfg,
	}
}

// LoadRows reads the full board once; the classification branches share
// the result.
func (e *Engine) LoadRows(ctx context.Context) ([]board.Row, error) {
	data, err := e.sheet.GetValues(ctx, fmt.Sprintf("%s!A2:L", e.cfg.Title))
	if err != nil {
		return nil, err
	}

	rows := make([]board.Row, 0, len(data))
	for _, cells := range data {
		rows = append(rows, board.RowFromValues(cells))
	}
	return rows, nil
}

// RunUnestimated reports intakes from the target day that still lack a
// work-time estimate. dayLabel names the day in the digest ("hôm nay",
// "hôm qua").
func (e *Engine) RunUnestimated(ctx context.Context, rows []board.Row, day time.Time, dayLabel string) error {
	codes := Unestimated(rows, day)
	if len(codes) == 0 {
		e.logger.Debug("no unestimated orders", "day", day.Format("2006-01-02"))
		return nil
	}
	return e.notifier.Send(ctx, e.cfg.Topics.Unestimated, UnestimatedDigest(codes, day, dayLabel))
}

// RunDueOverdue reports orders due today and orders past their promise
// date, as two separate messages.
func (e *Engine) RunDueOverdue(ctx context.Context, rows []board.Row, today time.Time) error {
	due, overdue := DueOverdue(rows, today)

	if len(due) > 0 {
		if err := e.notifier.Send(ctx, e.cfg.Topics.Due, DueDigest(due, today)); err != nil {
			return err
		}
	}
	if len(overdue) > 0 {
		if err := e.notifier.Send(ctx, e.cfg.Topics.Due, OverdueDigest(overdue, today)); err != nil {
			return err
		}
	}
	if len(due) == 0 && len(overdue) == 0 {
		e.logger.Debug("no due or overdue orders", "day", today.Format("2006-01-02"))
	}
	return nil
}

// RunFlagged reports rows marked "phát sinh".
func (e *Engine) RunFlagged(ctx context.Context, rows []board.Row, today time.Time) error {
	groups := Flagged(rows)
	if len(groups) == 0 {
		e.logger.Debug("no flagged orders")
		return nil
	}
	return e.notifier.Send(ctx, e.cfg.Topics.Flagged, FlaggedDigest(groups, today))
}

// RunAll executes every branch off one shared sheet read. Each branch's
// failure is logged and collected; the remaining branches still run.
func (e *Engine) RunAll(ctx context.Context, day time.Time, dayLabel string) error {
	rows, err := e.LoadRows(ctx)
	if err != nil {
		return err
	}

	var errs []error
	branches := []struct {
		name string
		run  func() error
	}{
		{"unestimated", func() error { return e.RunUnestimated(ctx, rows, day, dayLabel) }},
		{"due_overdue", func() error { return e.RunDueOverdue(ctx, rows, time.Now()) }},
		{"flagged", func() error { return e.RunFlagged(ctx, rows, time.Now()) }},
	}

	for _, branch := range branches {
		if err := branch.run(); err != nil {
			e.logger.Error("report branch failed", "branch", branch.name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", branch.name, err))
		}
	}

	return errors.Join(errs...)
}
