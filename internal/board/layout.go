// Package board implements the work-tracking sheet: row layout, the
// idempotent invoice upsert, and the formatting/validation rules that turn
// a plain sheet into a usable board.
package board

import (
	"github.com/danghoang/kvboard/internal/dates"
	"github.com/danghoang/kvboard/internal/model"
)

// DefaultTitle is the board tab name inside the spreadsheet.
const DefaultTitle = "Theo dõi đơn"

// Column indexes, zero-based, fixed order. Data starts at row 2; new rows
// are always inserted directly below the header.
const (
	ColCode = iota
	ColReceiveDate
	ColReturnDate
	ColProduct
	ColWork
	ColStatus
	ColElapsed
	ColAssignee
	ColPayment
	ColNote
	ColDelay
	ColRescheduled

	ColumnCount
)

// Header returns the header row, one label per column.
func Header() []string {
	return []string{
		"Mã hóa đơn",
		"Ngày nhận",
		"Hẹn trả",
		"Tên hàng",
		"Nội dung",
		"Trạng thái",
		"Thời gian làm",
		"Người làm",
		"Thanh toán",
		"Ghi chú",
		"Số lần trễ",
		"Hẹn lại",
	}
}

// Row is the persisted projection of one work item: one sheet line.
type Row struct {
	Code        string
	ReceiveDate string
	ReturnDate  string
	Product     string
	Work        string
	Status      model.Status
	Elapsed     string
	Assignee    string
	Payment     model.PaymentStatus
	Note        string
	Delay       model.Delay
	Rescheduled string
}

// Values renders the row in column order.
func (r Row) Values() []string {
	return []string{
		r.Code,
		r.ReceiveDate,
		r.ReturnDate,
		r.Product,
		r.Work,
		string(r.Status),
		r.Elapsed,
		r.Assignee,
		string(r.Payment),
		r.Note,
		string(r.Delay),
		r.Rescheduled,
	}
}

// RowFromValues rebuilds a row from sheet cells, tolerating short rows
// (the API omits trailing empty cells).
func RowFromValues(cells []string) Row {
	padded := make([]string, ColumnCount)
	copy(padded, cells)

	return Row{
		Code:        padded[ColCode],
		ReceiveDate: padded[ColReceiveDate],
		ReturnDate:  padded[ColReturnDate],
		Product:     padded[ColProduct],
		Work:        padded[ColWork],
		Status:      model.Status(padded[ColStatus]),
		Elapsed:     padded[ColElapsed],
		Assignee:    padded[ColAssignee],
		Payment:     model.PaymentStatus(padded[ColPayment]),
		Note:        padded[ColNote],
		Delay:       model.Delay(padded[ColDelay]),
		Rescheduled: padded[ColRescheduled],
	}
}

// ExpandInvoice projects an invoice into sheet rows: one per work item, or
// a single placeholder row when the note produced no items so the invoice
// still shows up on the board. Item order is preserved.
func ExpandInvoice(inv model.Invoice, defaultAssignee string) []Row {
	base := Row{
		Code:        inv.Code,
		ReceiveDate: dates.FormatDateTime(inv.PurchaseDate),
		ReturnDate:  inv.ReturnDate,
		Status:      model.StatusNotStarted,
		Assignee:    defaultAssignee,
		Payment:     inv.Payment,
		Delay:       model.DelayNone,
	}

	if len(inv.Items) == 0 {
		return []Row{base}
	}

	rows := make([]Row, 0, len(inv.Items))
	for _, item := range inv.Items {
		row := base
		row.Product = item.ProductName
		row.Work = item.Work
		rows = append(rows, row)
	}
	return rows
}
