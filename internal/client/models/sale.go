// Package models holds the canonical client-side types for the Ventas POS
// backend. The gateway normalizes the server's polymorphic JSON shapes into
// these types; nothing above the gateway ever sees raw wire formats.
package models

import "time"

type SaleStatus string

const (
	SaleStatusActive    SaleStatus = "active"
	SaleStatusCancelled SaleStatus = "cancelled"
)

// SaleLine is one detail row of a sale. Quantity is always >= 1 once
// normalized.
type SaleLine struct {
	ProductID string
	Quantity  int
	Name      string
}

// SaleRecord is a sale as loaded from the server.
//
// CreatedAt is set by the server at creation and is never written by the
// client; a nil CreatedAt means the server sent nothing parseable, which the
// edit-window policy treats as already expired.
type SaleRecord struct {
	ID            string
	CreatedAt     *time.Time
	PaymentMethod string
	Details       []SaleLine
	Status        SaleStatus
	Total         float64
	Date          *time.Time
}

// FirstDetail returns the first line of the sale, or a zero line when the
// sale has none.
func (s *SaleRecord) FirstDetail() SaleLine {
	if len(s.Details) == 0 {
		return SaleLine{}
	}
	return s.Details[0]
}

// TotalQuantity sums the quantities across all detail lines.
func (s *SaleRecord) TotalQuantity() int {
	total := 0
	for _, d := range s.Details {
		total += d.Quantity
	}
	return total
}
