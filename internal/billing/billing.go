// Package billing turns an accumulated order into a finalized bill.
package billing

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"cafe-system/internal/config"
	"cafe-system/internal/models"
	"cafe-system/internal/order"
	"cafe-system/internal/session"
)

// ErrEmptyOrder is returned when finalizing an order with no lines.
var ErrEmptyOrder = errors.New("empty order")

// Engine computes bill breakdowns from orders and the cafe configuration.
type Engine struct {
	cfg config.CafeConfig
}

// NewEngine creates a billing engine bound to the given cafe settings.
func NewEngine(cfg config.CafeConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Finalize computes the full breakdown for ord at the given time. All money
// math runs on decimals; discount and tax are each rounded half-up to two
// places exactly once, and the grand total is taxable plus tax, so
// intermediate rounding never compounds.
func (e *Engine) Finalize(ord *order.Accumulator, customerName, phone string, now time.Time) (models.BillBreakdown, error) {
	lines := ord.Lines()
	if len(lines) == 0 {
		return models.BillBreakdown{}, fmt.Errorf("%w: nothing to bill for %q", ErrEmptyOrder, customerName)
	}

	subtotal := decimal.Zero
	itemCount := 0
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal())
		itemCount += line.Quantity
	}

	discountRate := e.discountRate(itemCount)
	discountAmount := subtotal.Mul(discountRate).Round(2)
	taxable := subtotal.Sub(discountAmount)
	tax := taxable.Mul(e.cfg.TaxRate).Round(2)
	grandTotal := taxable.Add(tax).Round(2)

	return models.BillBreakdown{
		CustomerName:   customerName,
		Phone:          phone,
		Session:        string(session.Resolve(now, e.cfg)),
		Timestamp:      now,
		Lines:          lines,
		ItemCount:      itemCount,
		Subtotal:       subtotal,
		DiscountRate:   discountRate,
		DiscountAmount: discountAmount,
		TaxableAmount:  taxable,
		TaxRate:        e.cfg.TaxRate,
		TaxAmount:      tax,
		GrandTotal:     grandTotal,
	}, nil
}

// discountRate selects the highest tier whose threshold the item count
// strictly exceeds. Exactly hitting a threshold does not clear it: with
// tiers 5/8/11, a count of 5 earns no discount and 6 earns the first rate.
func (e *Engine) discountRate(itemCount int) decimal.Decimal {
	rate := decimal.Zero
	for _, tier := range e.cfg.Tiers {
		if itemCount > tier.MinQuantity {
			rate = tier.Rate
		}
	}
	return rate
}
