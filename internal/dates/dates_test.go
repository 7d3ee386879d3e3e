package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, 3, 7, 14, 30, 0, 0, time.Local)
	assert.Equal(t, "03/07/2025", FormatDate(d))
	assert.Equal(t, "03/07/2025 14:30", FormatDateTime(d))
}

func TestReconcileAmbiguous(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "day first gets swapped", in: "15/3/2025", want: "3/15/2025"},
		{name: "month first passes through", in: "3/15/2025", want: "3/15/2025"},
		{name: "ambiguous low day stays month first", in: "7/3/2025", want: "7/3/2025"},
		{name: "boundary 12 stays month first", in: "12/3/2025", want: "12/3/2025"},
		{name: "boundary 13 swaps", in: "13/3/2025", want: "3/13/2025"},
		{name: "not a triple passes through", in: "15/3", want: "15/3"},
		{name: "garbage passes through", in: "mai lấy", want: "mai lấy"},
		{name: "empty passes through", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReconcileAmbiguous(tt.in))
		})
	}
}

func TestSameDay(t *testing.T) {
	day := time.Date(2025, 3, 15, 0, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		cell string
		want bool
	}{
		{name: "exact canonical form", cell: "03/15/2025", want: true},
		{name: "unpadded render", cell: "3/15/2025", want: true},
		{name: "datetime cell", cell: "3/15/2025 09:45", want: true},
		{name: "day first render", cell: "15/3/2025", want: true},
		{name: "different day", cell: "3/16/2025", want: false},
		{name: "empty cell", cell: "", want: false},
		{name: "free text", cell: "chưa hẹn", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SameDay(tt.cell, day))
		})
	}
}
