package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"cafe-system/internal/config"
	"cafe-system/internal/models"
)

func sampleBill() models.BillBreakdown {
	return models.BillBreakdown{
		CustomerName: "Priya",
		Phone:        "9876543210",
		Session:      "Day",
		Timestamp:    time.Date(2026, 8, 28, 12, 30, 0, 0, time.UTC),
		Lines: []models.OrderLine{
			{ItemName: "Cappuccino", Quantity: 4, UnitPrice: decimal.RequireFromString("120.00")},
			{ItemName: "Veg Sandwich", Quantity: 2, UnitPrice: decimal.RequireFromString("90.00")},
		},
		ItemCount:      6,
		Subtotal:       decimal.RequireFromString("660.00"),
		DiscountRate:   decimal.RequireFromString("0.03"),
		DiscountAmount: decimal.RequireFromString("19.80"),
		TaxableAmount:  decimal.RequireFromString("640.20"),
		TaxRate:        decimal.RequireFromString("0.18"),
		TaxAmount:      decimal.RequireFromString("115.24"),
		GrandTotal:     decimal.RequireFromString("755.44"),
	}
}

func TestRenderProducesPDF(t *testing.T) {
	renderer := New(config.Defaults().Cafe)

	doc, err := renderer.Render(sampleBill())
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if len(doc) == 0 {
		t.Fatalf("Render returned an empty document")
	}
	if !bytes.HasPrefix(doc, []byte("%PDF")) {
		t.Errorf("document does not start with a PDF header")
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	renderer := New(config.Defaults().Cafe)
	bill := sampleBill()

	first, err := renderer.Render(bill)
	if err != nil {
		t.Fatalf("first Render returned error: %v", err)
	}
	second, err := renderer.Render(bill)
	if err != nil {
		t.Fatalf("second Render returned error: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("identical bills rendered different bytes")
	}
}

func TestRenderIgnoresWallClock(t *testing.T) {
	renderer := New(config.Defaults().Cafe)
	bill := sampleBill()

	first, err := renderer.Render(bill)
	if err != nil {
		t.Fatalf("first Render returned error: %v", err)
	}

	// Crossing a second boundary must not leak into the document; every
	// embedded date comes from bill.Timestamp.
	time.Sleep(1100 * time.Millisecond)

	second, err := renderer.Render(bill)
	if err != nil {
		t.Fatalf("second Render returned error: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("render output depends on wall-clock time")
	}
}

func TestRenderNoDiscountBill(t *testing.T) {
	renderer := New(config.Defaults().Cafe)

	bill := sampleBill()
	bill.Phone = ""
	bill.DiscountRate = decimal.Zero
	bill.DiscountAmount = decimal.Zero

	if _, err := renderer.Render(bill); err != nil {
		t.Errorf("Render returned error: %v", err)
	}
}
