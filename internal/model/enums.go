package model

// PaymentStatus indicates whether an invoice was paid at intake.
type PaymentStatus string

// Payment status constants. Text values are what gets written to the sheet.
const (
	PaymentUnknown PaymentStatus = ""
	PaymentPaid    PaymentStatus = "Đã thanh toán"
	PaymentUnpaid  PaymentStatus = "Chưa thanh toán"
)

// Status is the work-tracking state of a board row. The set is closed:
// these are the only values the status dropdown offers, and humans pick
// from it rather than typing free text.
type Status string

// Status constants.
const (
	StatusNotStarted Status = "Chưa làm"
	StatusInProgress Status = "Đang làm"
	StatusDone       Status = "Đã xong"
	StatusFlagged    Status = "Phát sinh"
	StatusClosed     Status = "Đóng đơn"
	StatusCanceled   Status = "Hủy"
)

// AllStatuses lists every allowed status value, in dropdown order.
func AllStatuses() []Status {
	return []Status{
		StatusNotStarted,
		StatusInProgress,
		StatusDone,
		StatusFlagged,
		StatusClosed,
		StatusCanceled,
	}
}

// IsTerminal reports whether a row in this status is out of the due-date
// reporting flow (the order was handed back or abandoned).
func (s Status) IsTerminal() bool {
	return s == StatusClosed || s == StatusCanceled
}

// Delay counts how many times a return appointment was pushed back.
type Delay string

// Delay constants.
const (
	DelayNone    Delay = "0"
	DelayOnce    Delay = "1"
	DelayTwice   Delay = "2"
	DelayChronic Delay = "3+"
)

// AllDelays lists every allowed delay value, in dropdown order.
func AllDelays() []Delay {
	return []Delay{DelayNone, DelayOnce, DelayTwice, DelayChronic}
}
