// Package model defines the core domain models used throughout the application.
package model

import "time"

// WorkItem is one product+task pair extracted from an invoice note.
// Ordering mirrors the order items were listed in the source note.
type WorkItem struct {
	ProductName string
	Work        string
}

// Invoice is one purchase record pulled from the upstream retail system,
// with its free-text note already parsed into structured work items.
// Invoices are immutable after creation; the tracking sheet is the durable
// store, invoices live only for the duration of one sync cycle.
type Invoice struct {
	PurchaseDate time.Time
	Code         string
	ReturnDate   string
	Items        []WorkItem
	Payment      PaymentStatus
}
