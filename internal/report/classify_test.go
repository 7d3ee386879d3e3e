package report

import (
	"testing"
	"time"

	"github.com/danghoang/kvboard/internal/board"
	"github.com/danghoang/kvboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(code string, mutate func(*board.Row)) board.Row {
	r := board.Row{
		Code:        code,
		ReceiveDate: "03/10/2025 09:30",
		Status:      model.StatusNotStarted,
		Assignee:    "Chưa nhận",
		Delay:       model.DelayNone,
	}
	if mutate != nil {
		mutate(&r)
	}
	return r
}

func TestUnestimated(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)

	rows := []board.Row{
		row("HD001", nil),
		// Second row of the same invoice: code counts once.
		row("HD001", nil),
		// Already estimated.
		row("HD002", func(r *board.Row) { r.Elapsed = "2h" }),
		// Different day.
		row("HD003", func(r *board.Row) { r.ReceiveDate = "03/09/2025 15:00" }),
		// Excluded statuses.
		row("HD004", func(r *board.Row) { r.Status = model.StatusFlagged }),
		row("HD005", func(r *board.Row) { r.Status = model.StatusCanceled }),
		// Day-first locale render still matches.
		row("HD006", func(r *board.Row) { r.ReceiveDate = "10/3/2025 09:30" }),
		// Blank spacer row.
		{},
	}

	assert.Equal(t, []string{"HD001", "HD006"}, Unestimated(rows, day))
}

func TestDueOverdue_Classification(t *testing.T) {
	// Today is March 10.
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)

	rows := []board.Row{
		// Prose around the date still parses; 7/3 is overdue.
		row("HD001", func(r *board.Row) { r.ReturnDate = "quá 7/3" }),
		// Due today.
		row("HD002", func(r *board.Row) { r.ReturnDate = "10/3" }),
		// Future: ignored.
		row("HD003", func(r *board.Row) { r.ReturnDate = "15/3" }),
		// Terminal status: ignored regardless of date.
		row("HD004", func(r *board.Row) { r.ReturnDate = "7/3"; r.Status = model.StatusClosed }),
		// No parseable date: skipped.
		row("HD005", func(r *board.Row) { r.ReturnDate = "thứ sáu" }),
		// Rescheduled date takes precedence over the original.
		row("HD006", func(r *board.Row) { r.ReturnDate = "7/3"; r.Rescheduled = "10/3" }),
		// Earlier month.
		row("HD007", func(r *board.Row) { r.ReturnDate = "28/2" }),
	}

	due, overdue := DueOverdue(rows, today)

	assert.Equal(t, []DueItem{
		{Code: "HD002", DueText: "10/3"},
		{Code: "HD006", DueText: "10/3"},
	}, due)
	assert.Equal(t, []DueItem{
		{Code: "HD001", DueText: "quá 7/3"},
		{Code: "HD007", DueText: "28/2"},
	}, overdue)
}

func TestDueOverdue_DueTodayWinsOverOverdue(t *testing.T) {
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)

	// Same invoice, one row overdue and one due today, in both orders.
	rows := []board.Row{
		row("HD001", func(r *board.Row) { r.ReturnDate = "7/3" }),
		row("HD001", func(r *board.Row) { r.ReturnDate = "10/3" }),
		row("HD002", func(r *board.Row) { r.ReturnDate = "10/3" }),
		row("HD002", func(r *board.Row) { r.ReturnDate = "7/3" }),
	}

	due, overdue := DueOverdue(rows, today)

	require.Len(t, due, 2)
	assert.Empty(t, overdue)
	assert.Equal(t, "HD001", due[0].Code)
	assert.Equal(t, "HD002", due[1].Code)
}

func TestDueOverdue_EmptyBoard(t *testing.T) {
	due, overdue := DueOverdue(nil, time.Now())
	assert.Empty(t, due)
	assert.Empty(t, overdue)
}

func TestFlagged(t *testing.T) {
	rows := []board.Row{
		row("HD001", func(r *board.Row) {
			r.Status = model.StatusFlagged
			r.Product = "Áo dài"
			r.Work = "sửa eo"
		}),
		row("HD001", func(r *board.Row) {
			r.Status = model.StatusFlagged
			r.Product = "Quần"
		}),
		// Both fields empty: dropped even though flagged.
		row("HD001", func(r *board.Row) { r.Status = model.StatusFlagged }),
		// Not flagged.
		row("HD002", nil),
		row("HD003", func(r *board.Row) {
			r.Status = model.StatusFlagged
			r.Work = "thay khóa"
		}),
	}

	got := Flagged(rows)

	require.Len(t, got, 2)
	assert.Equal(t, "HD001", got[0].Code)
	assert.Equal(t, []model.WorkItem{
		{ProductName: "Áo dài", Work: "sửa eo"},
		{ProductName: "Quần"},
	}, got[0].Items)
	assert.Equal(t, "HD003", got[1].Code)
}

func TestFirstDayMonth(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		day   int
		month int
		ok    bool
	}{
		{name: "bare pair", text: "15/3", day: 15, month: 3, ok: true},
		{name: "prose around", text: "khoảng 15/3 chiều", day: 15, month: 3, ok: true},
		{name: "full date uses first pair", text: "15/3/2025", day: 15, month: 3, ok: true},
		{name: "no digits", text: "tuần sau", ok: false},
		{name: "empty", text: "", ok: false},
		{name: "month out of range", text: "5/13", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, month, ok := firstDayMonth(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.day, day)
				assert.Equal(t, tt.month, month)
			}
		})
	}
}
