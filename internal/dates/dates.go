// Package dates normalizes dates between Go time values and the text the
// tracking sheet carries.
package dates

import (
	"strconv"
	"strings"
	"time"
)

// Sheet date layouts. Every date this system writes uses month-first order
// regardless of the spreadsheet's display locale.
const (
	dateLayout     = "01/02/2006"
	dateTimeLayout = "01/02/2006 15:04"
)

// FormatDate renders a date as MM/DD/YYYY.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatDateTime renders a timestamp as MM/DD/YYYY HH:mm.
func FormatDateTime(t time.Time) string {
	return t.Format(dateTimeLayout)
}

// ReconcileAmbiguous normalizes a slash-separated date read back from the
// sheet, which may be rendered day-first depending on the spreadsheet
// locale. The triple is treated as day-first only when the first component
// exceeds 12 and cannot be a month, in which case the first two components
// are swapped. A first component of 12 or less is assumed month-first even
// when it was originally written day-first; that ambiguity is shared with
// every row already on the board, so resolving it differently here would
// break date-window matching against historical data.
func ReconcileAmbiguous(text string) string {
	parts := strings.Split(text, "/")
	if len(parts) != 3 {
		return text
	}

	first, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || first <= 12 {
		return text
	}

	parts[0], parts[1] = parts[1], parts[0]
	return strings.Join(parts, "/")
}

// SameDay reports whether a sheet cell refers to the given day. Datetime
// cells carry a trailing clock; only the leading date token is compared.
// Components are compared numerically because the spreadsheet drops leading
// zeros when it renders dates.
func SameDay(cell string, day time.Time) bool {
	token := strings.Fields(cell)
	if len(token) == 0 {
		return false
	}

	parts := strings.Split(ReconcileAmbiguous(token[0]), "/")
	if len(parts) != 3 {
		return false
	}

	month, errM := strconv.Atoi(strings.TrimSpace(parts[0]))
	d, errD := strconv.Atoi(strings.TrimSpace(parts[1]))
	year, errY := strconv.Atoi(strings.TrimSpace(parts[2]))
	if errM != nil || errD != nil || errY != nil {
		return false
	}

	return month == int(day.Month()) && d == day.Day() && year == day.Year()
}
