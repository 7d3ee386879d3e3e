// Package catalog mirrors upstream seed/lookup data into the local SQLite
// store: the fixed service-category list plus customers and goods.
package catalog

import (
	"context"
	"log/slog"

	"github.com/danghoang/kvboard/internal/kiotviet"
	"github.com/danghoang/kvboard/internal/service"
	"github.com/schollz/progressbar/v3"
)

// DefaultCategories is the service-category seed list. Idempotent: names
// already in the store are skipped on re-seed.
func DefaultCategories() []string {
	return []string{
		"Giặt ủi",
		"Giặt hấp",
		"Giặt khô",
		"Sửa đồ",
		"Nhuộm",
		"Giặt giày",
		"Khác",
	}
}

// pager is the slice of the API client the seeder needs.
type pager interface {
	ListCustomers(ctx context.Context, q kiotviet.PageQuery) (*kiotviet.CustomerPage, error)
	ListProducts(ctx context.Context, q kiotviet.PageQuery) (*kiotviet.ProductPage, error)
}

// Seeder runs the catalog jobs.
type Seeder struct {
	api          pager
	store        service.CatalogStore
	logger       *slog.Logger
	pageSize     int
	showProgress bool
}

// NewSeeder creates a seeder. With showProgress set, paginated pulls render
// a progress bar on stderr.
func NewSeeder(api pager, store service.CatalogStore, showProgress bool, logger *slog.Logger) *Seeder {
	return &Seeder{
		api:          api,
		store:        store,
		logger:       logger,
		pageSize:     100,
		showProgress: showProgress,
	}
}

// SeedCategories inserts the fixed category list.
func (s *Seeder) SeedCategories(ctx context.Context) (int, error) {
	inserted, err := s.store.SeedCategories(ctx, DefaultCategories())
	if err != nil {
		return 0, err
	}
	s.logger.Info("seeded categories", "inserted", inserted, "total", len(DefaultCategories()))
	return inserted, nil
}

// SyncCustomers pages through the upstream customer list and upserts every
// record into the local catalog.
func (s *Seeder) SyncCustomers(ctx context.Context) (int, error) {
	var bar *progressbar.ProgressBar
	synced := 0

	for offset := 0; ; offset += s.pageSize {
		page, err := s.api.ListCustomers(ctx, kiotviet.PageQuery{PageSize: s.pageSize, CurrentItem: offset})
		if err != nil {
			return synced, err
		}
		if len(page.Data) == 0 {
			break
		}

		if bar == nil {
			bar = s.newBar(page.Total, "customers")
		}

		customers := make([]service.Customer, 0, len(page.Data))
		for _, raw := range page.Data {
			customers = append(customers, service.Customer{
				Code:    raw.Code,
				Name:    raw.Name,
				Phone:   raw.ContactNumber,
				Address: raw.Address,
			})
		}

		if err := s.store.UpsertCustomers(ctx, customers); err != nil {
			return synced, err
		}
		synced += len(customers)
		_ = bar.Add(len(customers))

		if int64(offset+len(page.Data)) >= page.Total {
			break
		}
	}

	s.logger.Info("customer sync completed", "synced", synced)
	return synced, nil
}

// SyncProducts pages through the upstream goods/service list and upserts
// every record into the local catalog.
func (s *Seeder) SyncProducts(ctx context.Context) (int, error) {
	var bar *progressbar.ProgressBar
	synced := 0

	for offset := 0; ; offset += s.pageSize {
		page, err := s.api.ListProducts(ctx, kiotviet.PageQuery{PageSize: s.pageSize, CurrentItem: offset})
		if err != nil {
			return synced, err
		}
		if len(page.Data) == 0 {
			break
		}

		if bar == nil {
			bar = s.newBar(page.Total, "products")
		}

		products := make([]service.Product, 0, len(page.Data))
		for _, raw := range page.Data {
			products = append(products, service.Product{
				Code:       raw.Code,
				Name:       raw.Name,
				CategoryID: raw.CategoryID,
				BasePrice:  raw.BasePrice,
				IsService:  raw.IsService,
			})
		}

		if err := s.store.UpsertProducts(ctx, products); err != nil {
			return synced, err
		}
		synced += len(products)
		_ = bar.Add(len(products))

		if int64(offset+len(page.Data)) >= page.Total {
			break
		}
	}

	s.logger.Info("product sync completed", "synced", synced)
	return synced, nil
}

func (s *Seeder) newBar(total int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetVisibility(s.showProgress),
		progressbar.OptionShowCount(),
	)
}
