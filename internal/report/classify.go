// Package report reads the tracking board back and turns it into daily
// chat digests: unestimated intakes, orders due or overdue, and flagged
// ("phát sinh") extra work.
package report

import (
	"regexp"
	"strconv"
	"time"

	"github.com/danghoang/kvboard/internal/board"
	"github.com/danghoang/kvboard/internal/dates"
	"github.com/danghoang/kvboard/internal/model"
)

// dayMonth pulls the first day/month pair out of free text, tolerating
// surrounding prose ("quá 7/3 rồi" matches 7/3).
var dayMonth = regexp.MustCompile(`(\d{1,2})/(\d{1,2})`)

// DueItem is one invoice in the due/overdue buckets.
type DueItem struct {
	Code    string
	DueText string
}

// FlaggedGroup collects the flagged work items of one invoice.
type FlaggedGroup struct {
	Code  string
	Items []model.WorkItem
}

// Unestimated returns the codes of invoices received on the given day whose
// elapsed-time cell is still empty, skipping flagged and canceled rows. A
// code counts once no matter how many of its rows qualify; first-seen order
// is preserved.
func Unestimated(rows []board.Row, day time.Time) []string {
	var codes []string
	seen := make(map[string]struct{})

	for _, row := range rows {
		if row.Code == "" || row.Elapsed != "" {
			continue
		}
		if row.Status == model.StatusFlagged || row.Status == model.StatusCanceled {
			continue
		}
		if !dates.SameDay(row.ReceiveDate, day) {
			continue
		}
		if _, dup := seen[row.Code]; dup {
			continue
		}
		seen[row.Code] = struct{}{}
		codes = append(codes, row.Code)
	}

	return codes
}

// DueOverdue classifies every row by its effective due date: the
// rescheduled return date when the customer was given a new one, otherwise
// the original. Rows with no parseable day/month pair or in a terminal
// status are skipped. A date equal to today's day+month is due today;
// strictly earlier in month-then-day order is overdue; later is a future
// appointment and ignored (same-year assumption). Each code appears in at
// most one bucket, and due-today wins over overdue.
func DueOverdue(rows []board.Row, today time.Time) (due, overdue []DueItem) {
	type verdict struct {
		item     DueItem
		dueToday bool
	}

	var order []string
	verdicts := make(map[string]*verdict)

	for _, row := range rows {
		if row.Code == "" || row.Status.IsTerminal() {
			continue
		}

		text := row.Rescheduled
		if text == "" {
			text = row.ReturnDate
		}

		day, month, ok := firstDayMonth(text)
		if !ok {
			continue
		}

		isToday := day == today.Day() && month == int(today.Month())
		isOverdue := month < int(today.Month()) || (month == int(today.Month()) && day < today.Day())
		if !isToday && !isOverdue {
			continue
		}

		existing, found := verdicts[row.Code]
		if !found {
			verdicts[row.Code] = &verdict{
				item:     DueItem{Code: row.Code, DueText: text},
				dueToday: isToday,
			}
			order = append(order, row.Code)
			continue
		}

		// Priority upgrade: once any row says due today, the code stays there.
		if isToday && !existing.dueToday {
			existing.dueToday = true
			existing.item.DueText = text
		}
	}

	for _, code := range order {
		v := verdicts[code]
		if v.dueToday {
			due = append(due, v.item)
		} else {
			overdue = append(overdue, v.item)
		}
	}

	return due, overdue
}

// Flagged groups the work items of rows marked "phát sinh" by invoice
// code, dropping pairs where both fields are empty.
func Flagged(rows []board.Row) []FlaggedGroup {
	var order []string
	groups := make(map[string]*FlaggedGroup)

	for _, row := range rows {
		if row.Code == "" || row.Status != model.StatusFlagged {
			continue
		}
		if row.Product == "" && row.Work == "" {
			continue
		}

		group, found := groups[row.Code]
		if !found {
			group = &FlaggedGroup{Code: row.Code}
			groups[row.Code] = group
			order = append(order, row.Code)
		}
		group.Items = append(group.Items, model.WorkItem{ProductName: row.Product, Work: row.Work})
	}

	out := make([]FlaggedGroup, 0, len(order))
	for _, code := range order {
		out = append(out, *groups[code])
	}
	return out
}

func firstDayMonth(text string) (day, month int, ok bool) {
	match := dayMonth.FindStringSubmatch(text)
	if match == nil {
		return 0, 0, false
	}

	day, errD := strconv.Atoi(match[1])
	month, errM := strconv.Atoi(match[2])
	if errD != nil || errM != nil || day < 1 || day > 31 || month < 1 || month > 12 {
		return 0, 0, false
	}
	return day, month, true
}
