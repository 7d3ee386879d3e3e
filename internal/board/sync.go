package board

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/danghoang/kvboard/internal/model"
	"github.com/danghoang/kvboard/internal/service"
)

// Config holds the board settings.
type Config struct {
	Title     string
	Assignees []string
	// RuleRowCeiling is how far down dropdown validation and color rules
	// reach. Generous fixed ceiling; the board stays in the low thousands.
	RuleRowCeiling int64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Title:          DefaultTitle,
		Assignees:      []string{"Chưa nhận"},
		RuleRowCeiling: 2000,
	}
}

// Result summarizes one sync pass at invoice granularity.
type Result struct {
	Inserted int
	Skipped  int
}

// Synchronizer upserts invoices into the tracking sheet. The sheet itself
// is the system of record: the set of invoice codes already in column A is
// the entire dedup mechanism, so an invoice is either fully written or
// fully skipped. Correctness assumes sync runs do not overlap.
type Synchronizer struct {
	sheet  service.SheetClient
	logger *slog.Logger
	cfg    Config
}

// NewSynchronizer creates a synchronizer over a sheet transport.
func NewSynchronizer(sheet service.SheetClient, cfg Config, logger *slog.Logger) *Synchronizer {
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	if cfg.RuleRowCeiling <= 0 {
		cfg.RuleRowCeiling = 2000
	}
	if len(cfg.Assignees) == 0 {
		cfg.Assignees = DefaultConfig().Assignees
	}
	return &Synchronizer{
		sheet:  sheet,
		logger: logger,
		cfg:    cfg,
	}
}

// Sync writes the invoices that are not yet on the board. New rows go in a
// contiguous block directly under the header so recent orders float to the
// top. Any step failing aborts the pass; the steps are separate network
// calls without rollback, but re-running the formatting and rule passes is
// safe, so a crash mid-pass heals on the next tick.
func (s *Synchronizer) Sync(ctx context.Context, invoices []model.Invoice) (Result, error) {
	sheetID, err := s.sheet.EnsureSheet(ctx, s.cfg.Title, Header())
	if err != nil {
		return Result{}, err
	}

	existing, err := s.existingCodes(ctx)
	if err != nil {
		return Result{}, err
	}

	var fresh []model.Invoice
	for _, inv := range invoices {
		if _, seen := existing[inv.Code]; !seen {
			fresh = append(fresh, inv)
		}
	}

	result := Result{Inserted: len(fresh), Skipped: len(invoices) - len(fresh)}

	var rows []Row
	for _, inv := range fresh {
		rows = append(rows, ExpandInvoice(inv, s.cfg.Assignees[0])...)
	}

	if len(rows) > 0 {
		if err := s.insertRows(ctx, sheetID, rows); err != nil {
			return Result{}, err
		}
	}

	if err := s.EnsureBoardRules(ctx, sheetID); err != nil {
		return Result{}, err
	}

	s.logger.Info("board sync completed",
		"invoices", len(invoices),
		"inserted", result.Inserted,
		"skipped", result.Skipped,
		"rows", len(rows))

	return result, nil
}

// existingCodes reads column A fully and builds the dedup key set.
func (s *Synchronizer) existingCodes(ctx context.Context) (map[string]struct{}, error) {
	column, err := s.sheet.GetValues(ctx, fmt.Sprintf("%s!A:A", s.cfg.Title))
	if err != nil {
		return nil, err
	}

	codes := make(map[string]struct{}, len(column))
	for i, row := range column {
		if i == 0 || len(row) == 0 || row[0] == "" {
			continue
		}
		codes[row[0]] = struct{}{}
	}
	return codes, nil
}

// insertRows opens a block under the header, writes the cell text, and
// formats exactly the inserted range.
func (s *Synchronizer) insertRows(ctx context.Context, sheetID int64, rows []Row) error {
	n := int64(len(rows))
	if err := s.sheet.InsertRows(ctx, sheetID, 1, 1+n); err != nil {
		return err
	}

	values := make([][]string, len(rows))
	for i, row := range rows {
		values[i] = row.Values()
	}
	if err := s.sheet.UpdateValues(ctx, fmt.Sprintf("%s!A2", s.cfg.Title), values); err != nil {
		return err
	}

	return s.sheet.BatchFormat(ctx, insertedRangeFormats(sheetID, 1, 1+n))
}

// EnsureBoardRules re-asserts dropdown validation and color rules over the
// fixed row ceiling and backfills default enum values into empty cells on
// rows that carry data. Safe to repeat; also runs standalone as a repair
// pass.
func (s *Synchronizer) EnsureBoardRules(ctx context.Context, sheetID int64) error {
	if err := s.sheet.BatchFormat(ctx, boardRuleRequests(sheetID, s.cfg.RuleRowCeiling, s.cfg.Assignees)); err != nil {
		return err
	}
	return s.backfillDefaults(ctx)
}

// backfillDefaults re-scans the board and fills empty status/assignee/delay
// cells with their defaults. Humans sometimes clear a cell instead of
// picking a value; defaults keep the report classifiers total.
func (s *Synchronizer) backfillDefaults(ctx context.Context) error {
	data, err := s.sheet.GetValues(ctx, fmt.Sprintf("%s!A2:L", s.cfg.Title))
	if err != nil {
		return err
	}

	type fix struct {
		column string
		value  string
	}

	var fixes []fix
	fixRow := func(rowIdx int, col int, letter, value string, cells []string) {
		if len(cells) > col && cells[col] != "" {
			return
		}
		fixes = append(fixes, fix{column: fmt.Sprintf("%s!%s%d", s.cfg.Title, letter, rowIdx+2), value: value})
	}

	for i, cells := range data {
		if len(cells) == 0 || cells[ColCode] == "" {
			continue
		}
		fixRow(i, ColStatus, "F", string(model.StatusNotStarted), cells)
		fixRow(i, ColAssignee, "H", s.cfg.Assignees[0], cells)
		fixRow(i, ColDelay, "K", string(model.DelayNone), cells)
	}

	for _, f := range fixes {
		if err := s.sheet.UpdateValues(ctx, f.column, [][]string{{f.value}}); err != nil {
			return err
		}
	}

	if len(fixes) > 0 {
		s.logger.Debug("backfilled default enum values", "cells", len(fixes))
	}
	return nil
}
