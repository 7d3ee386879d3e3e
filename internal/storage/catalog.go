// Package storage implements the local SQLite catalog used by the seed
// jobs: service categories plus customer and product lookups mirrored from
// the upstream retail system.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danghoang/kvboard/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteCatalog implements the service.CatalogStore interface using SQLite.
type SQLiteCatalog struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteCatalog creates a new SQLite catalog instance.
func NewSQLiteCatalog(dbPath string) (*SQLiteCatalog, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath cannot be empty")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteCatalog{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteCatalog) Close() error {
	return s.db.Close()
}

// SeedCategories inserts the fixed service-category list, skipping names
// already present. Returns how many rows were actually inserted, so
// repeated seeding reports zero.
func (s *SQLiteCatalog) SeedCategories(ctx context.Context, names []string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for _, name := range names {
		result, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO categories (name) VALUES (?)`, name)
		if err != nil {
			return 0, fmt.Errorf("failed to seed category %q: %w", name, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seed: %w", err)
	}
	return inserted, nil
}

// UpsertCustomers writes a batch of customer records keyed by code.
func (s *SQLiteCatalog) UpsertCustomers(ctx context.Context, customers []service.Customer) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO customers (code, name, phone, address)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			name = excluded.name,
			phone = excluded.phone,
			address = excluded.address,
			updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("failed to prepare customer upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range customers {
		if c.Code == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, c.Code, c.Name, c.Phone, c.Address); err != nil {
			return fmt.Errorf("failed to upsert customer %s: %w", c.Code, err)
		}
	}

	return tx.Commit()
}

// UpsertProducts writes a batch of goods/service records keyed by code.
func (s *SQLiteCatalog) UpsertProducts(ctx context.Context, products []service.Product) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO products (code, name, category_id, base_price, is_service)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			name = excluded.name,
			category_id = excluded.category_id,
			base_price = excluded.base_price,
			is_service = excluded.is_service,
			updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("failed to prepare product upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range products {
		if p.Code == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, p.Code, p.Name, p.CategoryID, p.BasePrice, p.IsService); err != nil {
			return fmt.Errorf("failed to upsert product %s: %w", p.Code, err)
		}
	}

	return tx.Commit()
}

// CountCustomers returns the number of customers in the catalog.
func (s *SQLiteCatalog) CountCustomers(ctx context.Context) (int, error) {
	return s.count(ctx, "customers")
}

// CountProducts returns the number of products in the catalog.
func (s *SQLiteCatalog) CountProducts(ctx context.Context) (int, error) {
	return s.count(ctx, "products")
}

func (s *SQLiteCatalog) count(ctx context.Context, table string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}
