// Package service defines the contracts between the core and its external
// collaborators: the upstream retail API, the spreadsheet transport, the
// chat notifier and the local catalog store.
package service

import (
	"context"
	"time"

	"github.com/danghoang/kvboard/internal/model"
	"google.golang.org/api/sheets/v4"
)

// InvoiceSource fetches normalized invoices for a purchase-date window.
// Implementations do not retry; the scheduling layer owns the next attempt.
type InvoiceSource interface {
	Fetch(ctx context.Context, from, to time.Time, statuses []int) ([]model.Invoice, error)
}

// SheetClient is the spreadsheet transport. Ranges use A1 notation; row and
// column spans in structural requests are zero-indexed.
type SheetClient interface {
	// EnsureSheet returns the grid ID of the named sheet, creating it with
	// the given header row when absent.
	EnsureSheet(ctx context.Context, title string, header []string) (int64, error)
	// GetValues reads a range as rendered text.
	GetValues(ctx context.Context, rng string) ([][]string, error)
	// UpdateValues writes literal cell text (no spreadsheet auto-conversion).
	UpdateValues(ctx context.Context, rng string, rows [][]string) error
	// InsertRows opens [start, end) empty rows in the given sheet.
	InsertRows(ctx context.Context, sheetID, start, end int64) error
	// BatchFormat applies structural requests (cell formats, validation,
	// conditional format rules) in one batch call.
	BatchFormat(ctx context.Context, requests []*sheets.Request) error
}

// Notifier dispatches a chat message to a destination topic. Fire-and-forget
// from the core's perspective: errors propagate, nothing retries.
type Notifier interface {
	Send(ctx context.Context, topic, text string) error
}

// Customer is one buyer record from the upstream system, kept in the local
// catalog for lookups.
type Customer struct {
	Code    string
	Name    string
	Phone   string
	Address string
}

// Product is one goods/service record from the upstream system.
type Product struct {
	Code       string
	Name       string
	CategoryID int64
	BasePrice  float64
	IsService  bool
}

// CatalogStore persists seed/lookup data for the secondary catalog job.
type CatalogStore interface {
	SeedCategories(ctx context.Context, names []string) (int, error)
	UpsertCustomers(ctx context.Context, customers []Customer) error
	UpsertProducts(ctx context.Context, products []Product) error
	CountCustomers(ctx context.Context) (int, error)
	CountProducts(ctx context.Context) (int, error)
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
