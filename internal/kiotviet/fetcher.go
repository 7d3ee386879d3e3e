package kiotviet

import (
	"context"
	"log/slog"
	"time"

	"github.com/danghoang/kvboard/internal/model"
	"github.com/danghoang/kvboard/internal/parser"
)

// invoiceLister is the slice of the API client the fetcher needs.
type invoiceLister interface {
	ListInvoices(ctx context.Context, q InvoiceQuery) (*InvoicePage, error)
}

// Fetcher pulls raw invoices for a date window and normalizes them: each
// free-text description is run through the note parser, producing domain
// invoices ready for board synchronization.
type Fetcher struct {
	api      invoiceLister
	logger   *slog.Logger
	pageSize int
}

// NewFetcher creates a fetcher on top of an API client.
func NewFetcher(api invoiceLister, pageSize int, logger *slog.Logger) *Fetcher {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Fetcher{
		api:      api,
		logger:   logger,
		pageSize: pageSize,
	}
}

// Fetch returns normalized invoices for the inclusive purchase-date window.
// One page is pulled per call, newest first; the sync interval is short
// enough that a single page always covers the new arrivals. No retries:
// a failed pull is simply retried at the next scheduled tick.
func (f *Fetcher) Fetch(ctx context.Context, from, to time.Time, statuses []int) ([]model.Invoice, error) {
	page, err := f.api.ListInvoices(ctx, InvoiceQuery{
		From:           from,
		To:             to,
		Statuses:       statuses,
		PageSize:       f.pageSize,
		OrderBy:        "purchaseDate",
		OrderDirection: "Desc",
	})
	if err != nil {
		return nil, err
	}

	invoices := make([]model.Invoice, 0, len(page.Data))
	for _, raw := range page.Data {
		parsed := parser.Parse(raw.Description)
		invoices = append(invoices, model.Invoice{
			Code:         raw.Code,
			PurchaseDate: raw.PurchaseDate.Time,
			Items:        parsed.Items,
			Payment:      parsed.Payment,
			ReturnDate:   parsed.ReturnDate,
		})
	}

	f.logger.Debug("fetched invoices",
		"window_start", from.Format("2006-01-02"),
		"window_end", to.Format("2006-01-02"),
		"count", len(invoices),
		"total_upstream", page.Total)

	return invoices, nil
}
