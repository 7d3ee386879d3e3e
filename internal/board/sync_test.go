package board

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/danghoang/kvboard/internal/common"
	"github.com/danghoang/kvboard/internal/model"
	"github.com/danghoang/kvboard/internal/sheets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSynchronizer(mock *sheets.MockClient) *Synchronizer {
	cfg := DefaultConfig()
	cfg.Assignees = []string{"Chưa nhận", "Chị Hoa"}
	return NewSynchronizer(mock, cfg, testLogger())
}

func invoice(code string, items ...model.WorkItem) model.Invoice {
	return model.Invoice{
		Code:         code,
		PurchaseDate: time.Date(2025, 3, 10, 9, 30, 0, 0, time.Local),
		Items:        items,
		ReturnDate:   "15/3",
	}
}

func TestSync_DedupByInvoiceCode(t *testing.T) {
	mock := sheets.NewMockClient()
	mock.Values[DefaultTitle+"!A:A"] = [][]string{
		{"Mã hóa đơn"},
		{"HD001"},
	}

	sync := testSynchronizer(mock)
	result, err := sync.Sync(context.Background(), []model.Invoice{
		invoice("HD001", model.WorkItem{ProductName: "Áo", Work: "ủi"}),
		invoice("HD002", model.WorkItem{ProductName: "Quần", Work: "giặt"}),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Skipped)

	require.NotEmpty(t, mock.Inserts)
	require.NotEmpty(t, mock.Updates)
	inserted := mock.Updates[0]
	assert.Equal(t, DefaultTitle+"!A2", inserted.Range)
	require.Len(t, inserted.Rows, 1)
	assert.Equal(t, "HD002", inserted.Rows[0][ColCode])
}

func TestSync_RowExpansion(t *testing.T) {
	mock := sheets.NewMockClient()
	sync := testSynchronizer(mock)

	result, err := sync.Sync(context.Background(), []model.Invoice{
		invoice("HD010",
			model.WorkItem{ProductName: "Áo sơ mi", Work: "giặt ủi"},
			model.WorkItem{ProductName: "Quần tây", Work: "ủi"},
		),
	})
	require.NoError(t, err)
	assert.Equal(t, Result{Inserted: 1, Skipped: 0}, result)

	require.Len(t, mock.Inserts, 1)
	assert.Equal(t, int64(1), mock.Inserts[0].Start)
	assert.Equal(t, int64(3), mock.Inserts[0].End)

	rows := mock.Updates[0].Rows
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, "HD010", row[ColCode])
		assert.Equal(t, "03/10/2025 09:30", row[ColReceiveDate])
		assert.Equal(t, "15/3", row[ColReturnDate])
		assert.Equal(t, string(model.StatusNotStarted), row[ColStatus])
		assert.Equal(t, "Chưa nhận", row[ColAssignee])
		assert.Equal(t, string(model.DelayNone), row[ColDelay])
	}
	assert.Equal(t, "Áo sơ mi", rows[0][ColProduct])
	assert.Equal(t, "giặt ủi", rows[0][ColWork])
	assert.Equal(t, "Quần tây", rows[1][ColProduct])
}

func TestSync_PlaceholderRowForEmptyInvoice(t *testing.T) {
	mock := sheets.NewMockClient()
	sync := testSynchronizer(mock)

	_, err := sync.Sync(context.Background(), []model.Invoice{invoice("HD020")})
	require.NoError(t, err)

	rows := mock.Updates[0].Rows
	require.Len(t, rows, 1)
	assert.Equal(t, "HD020", rows[0][ColCode])
	assert.Empty(t, rows[0][ColProduct])
	assert.Empty(t, rows[0][ColWork])
}

func TestSync_NothingNewSkipsInsertion(t *testing.T) {
	mock := sheets.NewMockClient()
	mock.Values[DefaultTitle+"!A:A"] = [][]string{
		{"Mã hóa đơn"},
		{"HD001"},
	}

	sync := testSynchronizer(mock)
	result, err := sync.Sync(context.Background(), []model.Invoice{invoice("HD001")})
	require.NoError(t, err)

	assert.Equal(t, Result{Inserted: 0, Skipped: 1}, result)
	assert.Empty(t, mock.Inserts)
	assert.Empty(t, mock.Updates)
	// Rule pass still runs.
	assert.NotEmpty(t, mock.FormatBatches)
}

func TestSync_EnsuresSheetWithHeader(t *testing.T) {
	mock := sheets.NewMockClient()
	sync := testSynchronizer(mock)

	_, err := sync.Sync(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, mock.EnsuredTitles, 1)
	assert.Equal(t, DefaultTitle, mock.EnsuredTitles[0])
	assert.Equal(t, Header(), mock.EnsuredHeaders[0])
}

func TestSync_AbortsOnSheetError(t *testing.T) {
	mock := sheets.NewMockClient()
	mock.GetValuesErr = common.ErrSheetAccess
	sync := testSynchronizer(mock)

	_, err := sync.Sync(context.Background(), []model.Invoice{invoice("HD001")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrSheetAccess))
	assert.Empty(t, mock.Inserts)
}

func TestBackfillDefaults(t *testing.T) {
	mock := sheets.NewMockClient()
	mock.Values[DefaultTitle+"!A2:L"] = [][]string{
		// Complete row: untouched.
		{"HD001", "03/10/2025 09:30", "15/3", "Áo", "ủi", "Đang làm", "", "Chị Hoa", "", "", "1", ""},
		// Status and delay cleared by a human: backfilled.
		{"HD002", "03/10/2025 09:31", "", "Quần", "giặt", "", "", "Chị Hoa", "", "", "", ""},
		// Short row from the API: all three enum cells missing.
		{"HD003", "03/10/2025 09:32"},
		// Blank spacer row: ignored.
		{},
	}

	sync := testSynchronizer(mock)
	err := sync.EnsureBoardRules(context.Background(), 0)
	require.NoError(t, err)

	got := make(map[string]string)
	for _, u := range mock.Updates {
		require.Len(t, u.Rows, 1)
		require.Len(t, u.Rows[0], 1)
		got[u.Range] = u.Rows[0][0]
	}

	assert.Equal(t, map[string]string{
		DefaultTitle + "!F3": "Chưa làm",
		DefaultTitle + "!K3": "0",
		DefaultTitle + "!F4": "Chưa làm",
		DefaultTitle + "!H4": "Chưa nhận",
		DefaultTitle + "!K4": "0",
	}, got)
}

func TestBoardRuleRequests(t *testing.T) {
	requests := boardRuleRequests(7, 2000, []string{"Chưa nhận", "Chị Hoa"})

	var validations, colorRules int
	for _, req := range requests {
		switch {
		case req.SetDataValidation != nil:
			validations++
			rng := req.SetDataValidation.Range
			assert.Equal(t, int64(7), rng.SheetId)
			assert.Equal(t, int64(1), rng.StartRowIndex)
			assert.Equal(t, int64(2000), rng.EndRowIndex)
		case req.AddConditionalFormatRule != nil:
			colorRules++
		default:
			t.Fatalf("unexpected request type: %+v", req)
		}
	}

	assert.Equal(t, 3, validations, "status, assignee and delay dropdowns")
	// One color rule per status, per delay value, per assignee.
	assert.Equal(t, len(model.AllStatuses())+len(model.AllDelays())+2, colorRules)
}

func TestInsertedRangeFormats_TargetsOnlyInsertedRows(t *testing.T) {
	requests := insertedRangeFormats(7, 1, 4)
	require.NotEmpty(t, requests)

	var sawForcedText int
	for _, req := range requests {
		require.NotNil(t, req.RepeatCell)
		rng := req.RepeatCell.Range
		assert.Equal(t, int64(1), rng.StartRowIndex)
		assert.Equal(t, int64(4), rng.EndRowIndex)

		format := req.RepeatCell.Cell.UserEnteredFormat
		if format.NumberFormat != nil && format.NumberFormat.Type == "TEXT" {
			sawForcedText++
		}
	}
	assert.Equal(t, 2, sawForcedText, "both return-date columns forced to text")
}
