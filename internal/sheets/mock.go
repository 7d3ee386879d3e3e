package sheets

import (
	"context"
	"sync"

	"google.golang.org/api/sheets/v4"
)

// MockClient is a mock implementation of service.SheetClient for testing.
// Canned values are served by range; every call is recorded.
type MockClient struct {
	Values          map[string][][]string
	EnsureSheetFunc func(ctx context.Context, title string, header []string) (int64, error)
	GetValuesErr    error
	UpdateValuesErr error
	InsertRowsErr   error
	BatchFormatErr  error
	SheetID         int64
	EnsuredTitles   []string
	EnsuredHeaders  [][]string
	Updates         []UpdateCall
	Inserts         []InsertCall
	FormatBatches   [][]*sheets.Request
	GetValuesCalls  []string
	mu              sync.Mutex
}

// UpdateCall records one UpdateValues invocation.
type UpdateCall struct {
	Range string
	Rows  [][]string
}

// InsertCall records one InsertRows invocation.
type InsertCall struct {
	SheetID int64
	Start   int64
	End     int64
}

// NewMockClient creates a mock with no canned data.
func NewMockClient() *MockClient {
	return &MockClient{Values: make(map[string][][]string)}
}

// EnsureSheet implements service.SheetClient.
func (m *MockClient) EnsureSheet(ctx context.Context, title string, header []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.EnsuredTitles = append(m.EnsuredTitles, title)
	m.EnsuredHeaders = append(m.EnsuredHeaders, header)

	if m.EnsureSheetFunc != nil {
		return m.EnsureSheetFunc(ctx, title, header)
	}
	return m.SheetID, nil
}

// GetValues implements service.SheetClient.
func (m *MockClient) GetValues(_ context.Context, rng string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetValuesCalls = append(m.GetValuesCalls, rng)
	if m.GetValuesErr != nil {
		return nil, m.GetValuesErr
	}
	return m.Values[rng], nil
}

// UpdateValues implements service.SheetClient.
func (m *MockClient) UpdateValues(_ context.Context, rng string, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateValuesErr != nil {
		return m.UpdateValuesErr
	}
	m.Updates = append(m.Updates, UpdateCall{Range: rng, Rows: rows})
	return nil
}

// InsertRows implements service.SheetClient.
func (m *MockClient) InsertRows(_ context.Context, sheetID, start, end int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.InsertRowsErr != nil {
		return m.InsertRowsErr
	}
	m.Inserts = append(m.Inserts, InsertCall{SheetID: sheetID, Start: start, End: end})
	return nil
}

// BatchFormat implements service.SheetClient.
func (m *MockClient) BatchFormat(_ context.Context, requests []*sheets.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.BatchFormatErr != nil {
		return m.BatchFormatErr
	}
	m.FormatBatches = append(m.FormatBatches, requests)
	return nil
}
