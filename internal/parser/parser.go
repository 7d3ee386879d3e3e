// Package parser turns free-text invoice notes into structured work items.
//
// Notes are written by shop staff in a loose convention: numbered lines for
// work items ("1. Áo sơ mi + giặt ủi"), a bare ĐTT/CTT marker for payment
// state, and a "Hẹn trả:" line for the promised return date. Everything
// else is prose and is ignored. Parsing never fails: a malformed note just
// yields fewer recognized fields, which beats dropping the invoice.
package parser

import (
	"regexp"
	"strings"

	"github.com/danghoang/kvboard/internal/model"
)

// Parsed is the structured content of one invoice note.
type Parsed struct {
	ReturnDate string
	Items      []model.WorkItem
	Payment    model.PaymentStatus
}

var (
	numberedLine = regexp.MustCompile(`^\d+\.`)
	returnMarker = regexp.MustCompile(`(?i)^hẹn trả:`)
)

// Payment marker tokens, matched exactly (case-sensitive) after trimming.
const (
	paidMarker   = "ĐTT"
	unpaidMarker = "CTT"
)

// Parse extracts work items, payment status and return date from a note.
// Item order equals line order. Later payment/return markers override
// earlier ones. Unrecognized lines are skipped silently.
func Parse(text string) Parsed {
	var out Parsed

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case numberedLine.MatchString(line):
			out.Items = append(out.Items, parseItem(line))
		case line == paidMarker:
			out.Payment = model.PaymentPaid
		case line == unpaidMarker:
			out.Payment = model.PaymentUnpaid
		case returnMarker.MatchString(line):
			marker := returnMarker.FindString(line)
			out.ReturnDate = strings.TrimSpace(line[len(marker):])
		}
	}

	return out
}

// parseItem splits a numbered line into product name and work description.
// Only the first two +-delimited segments are kept; staff occasionally
// write a third segment but historical boards never carried it, so the
// truncation is preserved for consistency with existing rows.
func parseItem(line string) model.WorkItem {
	parts := strings.Split(line, "+")

	name := numberedLine.ReplaceAllString(parts[0], "")
	item := model.WorkItem{ProductName: strings.TrimSpace(name)}

	if len(parts) > 1 {
		item.Work = strings.TrimSpace(parts[1])
	}

	return item
}
