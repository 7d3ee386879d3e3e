package kiotviet

import (
	"fmt"
	"strings"
	"time"
)

// Time handles the upstream API's zone-less timestamp rendering, which
// comes back with a varying number of fractional digits.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	"2006-01-02T15:04:05.0000000",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range timeLayouts {
		parsed, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}

	return fmt.Errorf("unrecognized timestamp %q", s)
}

// RawInvoice is one invoice as the upstream API returns it, before the
// description note is parsed into work items.
type RawInvoice struct {
	PurchaseDate Time    `json:"purchaseDate"`
	Code         string  `json:"code"`
	Description  string  `json:"description"`
	CustomerName string  `json:"customerName"`
	ID           int64   `json:"id"`
	Status       int     `json:"status"`
	Total        float64 `json:"total"`
}

// InvoicePage is one page of an invoice listing.
type InvoicePage struct {
	Data     []RawInvoice `json:"data"`
	Total    int64        `json:"total"`
	PageSize int          `json:"pageSize"`
}

// RawCustomer is one buyer record from the upstream system.
type RawCustomer struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	ContactNumber string `json:"contactNumber"`
	Address       string `json:"address"`
	ID            int64  `json:"id"`
}

// CustomerPage is one page of a customer listing.
type CustomerPage struct {
	Data     []RawCustomer `json:"data"`
	Total    int64         `json:"total"`
	PageSize int           `json:"pageSize"`
}

// RawProduct is one goods/service record from the upstream system.
type RawProduct struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	ID         int64   `json:"id"`
	CategoryID int64   `json:"categoryId"`
	BasePrice  float64 `json:"basePrice"`
	IsService  bool    `json:"isService"`
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Data     []RawProduct `json:"data"`
	Total    int64        `json:"total"`
	PageSize int          `json:"pageSize"`
}

// InvoiceQuery filters an invoice listing. From/To are an inclusive
// purchase-date window; equal values pull a single day.
type InvoiceQuery struct {
	From           time.Time
	To             time.Time
	OrderBy        string
	OrderDirection string
	Statuses       []int
	PageSize       int
	CurrentItem    int
}

// PageQuery is a plain offset/limit pair for catalog listings.
type PageQuery struct {
	PageSize    int
	CurrentItem int
}
