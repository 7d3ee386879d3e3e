package report

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/danghoang/kvboard/internal/board"
	"github.com/danghoang/kvboard/internal/model"
	"github.com/danghoang/kvboard/internal/notify"
	"github.com/danghoang/kvboard/internal/sheets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine(mock *sheets.MockClient, notifier *notify.MockNotifier) *Engine {
	cfg := Config{
		Title: board.DefaultTitle,
		Topics: Topics{
			Unestimated: "chat:1",
			Due:         "chat:2",
			Flagged:     "chat:3",
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngine(mock, notifier, cfg, logger)
}

func TestEngine_LoadRows(t *testing.T) {
	mock := sheets.NewMockClient()
	mock.Values[board.DefaultTitle+"!A2:L"] = [][]string{
		{"HD001", "03/10/2025 09:30", "15/3", "Áo", "ủi", "Chưa làm"},
		{"HD002"},
	}

	engine := testEngine(mock, notify.NewMockNotifier())
	rows, err := engine.LoadRows(context.Background())
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "HD001", rows[0].Code)
	assert.Equal(t, "15/3", rows[0].ReturnDate)
	assert.Equal(t, "HD002", rows[1].Code)
	assert.Empty(t, rows[1].ReturnDate)
}

func TestEngine_ZeroResultsSuppressSend(t *testing.T) {
	notifier := notify.NewMockNotifier()
	engine := testEngine(sheets.NewMockClient(), notifier)
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)

	require.NoError(t, engine.RunUnestimated(context.Background(), nil, today, "hôm nay"))
	require.NoError(t, engine.RunDueOverdue(context.Background(), nil, today))
	require.NoError(t, engine.RunFlagged(context.Background(), nil, today))

	assert.Empty(t, notifier.Sent)
}

func TestEngine_DueAndOverdueAreSeparateMessages(t *testing.T) {
	notifier := notify.NewMockNotifier()
	engine := testEngine(sheets.NewMockClient(), notifier)
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)

	rows := []board.Row{
		row("HD001", func(r *board.Row) { r.ReturnDate = "10/3" }),
		row("HD002", func(r *board.Row) { r.ReturnDate = "7/3" }),
	}

	require.NoError(t, engine.RunDueOverdue(context.Background(), rows, today))

	sent := notifier.SentTo("chat:2")
	require.Len(t, sent, 2)
	assert.Contains(t, sent[0].Text, "hẹn trả hôm nay")
	assert.Contains(t, sent[0].Text, "HD001")
	assert.NotContains(t, sent[0].Text, "HD002")
	assert.Contains(t, sent[1].Text, "quá hẹn")
	assert.Contains(t, sent[1].Text, "HD002")
}

func TestEngine_RunAllBranchFailureDoesNotSuppressOthers(t *testing.T) {
	mock := sheets.NewMockClient()
	mock.Values[board.DefaultTitle+"!A2:L"] = [][]string{
		// Unestimated today and flagged rows both present.
		{"HD001", "03/10/2025 09:30", "", "Áo", "ủi", "Chưa làm", "", "Chưa nhận", "", "", "0", ""},
		{"HD002", "03/01/2025 09:30", "", "Quần", "vá", "Phát sinh", "", "Chưa nhận", "", "", "0", ""},
	}

	notifier := notify.NewMockNotifier()
	notifier.SendFunc = func(_ context.Context, topic, _ string) error {
		if topic == "chat:1" {
			return errors.New("chat unreachable")
		}
		return nil
	}

	engine := testEngine(mock, notifier)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)

	err := engine.RunAll(context.Background(), day, "hôm nay")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unestimated")

	// The flagged branch still delivered.
	require.Len(t, notifier.SentTo("chat:3"), 1)
	assert.Contains(t, notifier.SentTo("chat:3")[0].Text, "HD002")
}

func TestDigests(t *testing.T) {
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)

	unest := UnestimatedDigest([]string{"HD001", "HD002"}, today, "hôm nay")
	assert.Contains(t, unest, "(10/03)")
	assert.Contains(t, unest, "- HD001")
	assert.Contains(t, unest, "Tổng: 2 đơn")

	due := DueDigest([]DueItem{{Code: "HD001", DueText: "10/3"}}, today)
	assert.Contains(t, due, "HD001 (hẹn 10/3)")

	flagged := FlaggedDigest([]FlaggedGroup{{
		Code: "HD009",
		Items: []model.WorkItem{
			{ProductName: "Áo dài", Work: "sửa eo"},
			{Work: "thay khóa"},
		},
	}}, today)
	assert.Contains(t, flagged, "HD009")
	assert.Contains(t, flagged, "Áo dài: sửa eo")
	assert.Contains(t, flagged, "thay khóa")
	assert.Equal(t, 1, strings.Count(flagged, "HD009"))
}
