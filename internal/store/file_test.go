package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"cafe-system/internal/models"
)

func sampleBill(total string, at time.Time) models.BillBreakdown {
	return models.BillBreakdown{
		CustomerName: "Priya",
		Phone:        "9876543210",
		Session:      "Day",
		Timestamp:    at,
		Lines: []models.OrderLine{
			{ItemName: "Cappuccino", Quantity: 2, UnitPrice: decimal.RequireFromString("120.00")},
		},
		ItemCount:      2,
		Subtotal:       decimal.RequireFromString("240.00"),
		DiscountRate:   decimal.Zero,
		DiscountAmount: decimal.Zero,
		TaxableAmount:  decimal.RequireFromString("240.00"),
		TaxRate:        decimal.RequireFromString("0.18"),
		TaxAmount:      decimal.RequireFromString("43.20"),
		GrandTotal:     decimal.RequireFromString(total),
	}
}

func billsEqual(a, b models.BillBreakdown) bool {
	if a.CustomerName != b.CustomerName || a.Phone != b.Phone || a.Session != b.Session {
		return false
	}
	if !a.Timestamp.Equal(b.Timestamp) || a.ItemCount != b.ItemCount {
		return false
	}
	if len(a.Lines) != len(b.Lines) {
		return false
	}
	for i := range a.Lines {
		if a.Lines[i].ItemName != b.Lines[i].ItemName ||
			a.Lines[i].Quantity != b.Lines[i].Quantity ||
			!a.Lines[i].UnitPrice.Equal(b.Lines[i].UnitPrice) {
			return false
		}
	}
	return a.Subtotal.Equal(b.Subtotal) &&
		a.DiscountRate.Equal(b.DiscountRate) &&
		a.DiscountAmount.Equal(b.DiscountAmount) &&
		a.TaxableAmount.Equal(b.TaxableAmount) &&
		a.TaxRate.Equal(b.TaxRate) &&
		a.TaxAmount.Equal(b.TaxAmount) &&
		a.GrandTotal.Equal(b.GrandTotal)
}

func TestAppendLookupRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "customer_data.json")

	s, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}

	bill := sampleBill("283.20", time.Date(2026, 8, 28, 12, 30, 0, 0, time.UTC))
	if err := s.Append(ctx, "Priya", bill); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}

	record, err := s.Lookup(ctx, "Priya")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if record == nil {
		t.Fatalf("Lookup returned nil after Append")
	}
	if last := record.LastVisit(); last == nil || !billsEqual(*last, bill) {
		t.Errorf("last history entry does not match the appended bill")
	}
}

func TestHistorySurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "customer_data.json")

	s, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}
	first := sampleBill("283.20", time.Date(2026, 8, 27, 11, 0, 0, 0, time.UTC))
	second := sampleBill("283.20", time.Date(2026, 8, 28, 18, 15, 0, 0, time.UTC))
	if err := s.Append(ctx, "Priya", first); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if err := s.Append(ctx, "Priya", second); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}

	reopened, err := OpenFile(path)
	if err != nil {
		t.Fatalf("reopening store returned error: %v", err)
	}
	record, err := reopened.Lookup(ctx, "Priya")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if record == nil || len(record.History) != 2 {
		t.Fatalf("expected 2 bills after reopen, got %+v", record)
	}
	if !billsEqual(record.History[0], first) || !billsEqual(record.History[1], second) {
		t.Errorf("history order or content changed across reopen")
	}
}

func TestLookupIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	s, err := OpenFile(filepath.Join(t.TempDir(), "customer_data.json"))
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}
	if err := s.Append(ctx, "Priya", sampleBill("283.20", time.Now().UTC())); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}

	record, err := s.Lookup(ctx, "priya")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if record != nil {
		t.Errorf("Lookup matched a differently-cased name")
	}
}

func TestOpenFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customer_data.json")
	if err := os.WriteFile(path, []byte(`{"Priya": [broken`), 0o644); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}

	_, err := OpenFile(path)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("OpenFile(corrupt) error = %v, want ErrUnavailable", err)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "customer_data.json")
	s, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}

	bill := sampleBill("283.20", time.Now().UTC())
	s.Append(ctx, "Priya", bill)
	s.Append(ctx, "Arjun", bill)

	if err := s.Clear(ctx, "Priya"); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if rec, _ := s.Lookup(ctx, "Priya"); rec != nil {
		t.Errorf("Priya still has history after Clear")
	}
	if rec, _ := s.Lookup(ctx, "Arjun"); rec == nil {
		t.Errorf("Clear removed another customer's history")
	}

	if err := s.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll returned error: %v", err)
	}
	if rec, _ := s.Lookup(ctx, "Arjun"); rec != nil {
		t.Errorf("Arjun still has history after ClearAll")
	}

	// Clearing an unknown customer is a no-op, not an error.
	if err := s.Clear(ctx, "Nobody"); err != nil {
		t.Errorf("Clear(unknown) returned error: %v", err)
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s, err := OpenFile(filepath.Join(t.TempDir(), "customer_data.json"))
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}
	s.Append(ctx, "Priya", sampleBill("283.20", time.Now().UTC()))

	record, _ := s.Lookup(ctx, "Priya")
	record.History[0].CustomerName = "Mallory"

	again, _ := s.Lookup(ctx, "Priya")
	if again.History[0].CustomerName != "Priya" {
		t.Errorf("mutating a looked-up record changed the store")
	}
}
