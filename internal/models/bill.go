package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem is a sellable item within one menu session. Items are loaded
// read-only from the session's menu file and discarded when the session
// changes.
type MenuItem struct {
	Name     string          `json:"name"`
	Category string          `json:"category,omitempty"`
	Price    decimal.Decimal `json:"price"`
}

// OrderLine is one item selection in an order. UnitPrice is copied from the
// MenuItem when the line is created; later catalog changes never alter it.
type OrderLine struct {
	ItemName  string          `json:"item_name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// LineTotal returns UnitPrice multiplied by Quantity.
func (l OrderLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// BillBreakdown is a finalized, immutable bill produced by the billing
// engine. All amounts are fixed-point decimals rounded to two places.
type BillBreakdown struct {
	CustomerName   string          `json:"customer_name"`
	Phone          string          `json:"phone_number,omitempty"`
	Session        string          `json:"session"`
	Timestamp      time.Time       `json:"timestamp"`
	Lines          []OrderLine     `json:"lines"`
	ItemCount      int             `json:"item_count"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountRate   decimal.Decimal `json:"discount_rate"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxableAmount  decimal.Decimal `json:"taxable_amount"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
}

// CustomerRecord is one customer's persisted order history, oldest bill
// first.
type CustomerRecord struct {
	CustomerName string          `json:"customer_name"`
	History      []BillBreakdown `json:"history"`
}

// LastVisit returns the most recent bill, or nil for an empty history.
func (r *CustomerRecord) LastVisit() *BillBreakdown {
	if r == nil || len(r.History) == 0 {
		return nil
	}
	return &r.History[len(r.History)-1]
}
