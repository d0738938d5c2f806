// Package render produces the printable bill document.
package render

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"cafe-system/internal/config"
	"cafe-system/internal/models"
)

// ErrRender is returned on document-infrastructure failure. Data problems
// (empty orders, bad quantities) are rejected before a bill ever reaches
// the renderer, so this never fires on values.
var ErrRender = errors.New("render failed")

// Renderer turns finalized bills into PDF documents. Output is a pure
// function of the bill: every embedded timestamp comes from bill.Timestamp,
// never from render time, so identical bills render identical bytes.
type Renderer struct {
	name     string
	contact  string
	currency string
}

// New creates a renderer carrying the cafe's brand and currency settings.
func New(cfg config.CafeConfig) *Renderer {
	return &Renderer{
		name:     cfg.Name,
		contact:  cfg.Contact,
		currency: cfg.Currency,
	}
}

const (
	colItem  = 80.0
	colQty   = 20.0
	colUnit  = 40.0
	colTotal = 40.0
	rowH     = 8.0
)

// Render lays out the bill: brand header, customer block, itemized table in
// finalized order, summary block, footer contact line.
func (r *Renderer) Render(bill models.BillBreakdown) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s - bill for %s", r.name, bill.CustomerName), false)
	// Both document dates come from the bill and object emission is sorted,
	// so the bytes depend only on the bill, never on wall-clock time or map
	// iteration order.
	pdf.SetCreationDate(bill.Timestamp)
	pdf.SetModificationDate(bill.Timestamp)
	pdf.SetCatalogSort(true)
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Header / brand block
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, r.name, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s Menu", bill.Session), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, bill.Timestamp.Format("Monday, 02/01/2006 15:04:05"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Customer block
	pdf.CellFormat(0, 6, "Customer: "+bill.CustomerName, "", 1, "L", false, 0, "")
	if bill.Phone != "" {
		pdf.CellFormat(0, 6, "Phone: "+bill.Phone, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	// Itemized table
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(colItem, rowH, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(colQty, rowH, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(colUnit, rowH, "Unit Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colTotal, rowH, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range bill.Lines {
		pdf.CellFormat(colItem, rowH, line.ItemName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colQty, rowH, fmt.Sprintf("%d", line.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colUnit, rowH, r.money(line.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colTotal, rowH, r.money(line.LineTotal()), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Summary block
	r.summaryRow(pdf, fmt.Sprintf("Subtotal (%d items)", bill.ItemCount), bill.Subtotal, false)
	r.summaryRow(pdf, fmt.Sprintf("Discount (%s%%)", percent(bill.DiscountRate)), bill.DiscountAmount.Neg(), false)
	r.summaryRow(pdf, "Taxable Amount", bill.TaxableAmount, false)
	r.summaryRow(pdf, fmt.Sprintf("GST (%s%%)", percent(bill.TaxRate)), bill.TaxAmount, false)
	r.summaryRow(pdf, "Total Payable", bill.GrandTotal, true)

	// Footer contact block
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 5, "Thank you for visiting!", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, r.contact, "", 1, "C", false, 0, "")

	if pdf.Err() {
		return nil, fmt.Errorf("%w: %v", ErrRender, pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) summaryRow(pdf *fpdf.Fpdf, label string, amount decimal.Decimal, emphasize bool) {
	if emphasize {
		pdf.SetFont("Helvetica", "B", 12)
	} else {
		pdf.SetFont("Helvetica", "", 11)
	}
	pdf.CellFormat(colItem+colQty, rowH, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(colUnit, rowH, label, "", 0, "R", false, 0, "")
	pdf.CellFormat(colTotal, rowH, r.money(amount), "", 1, "R", false, 0, "")
}

func (r *Renderer) money(d decimal.Decimal) string {
	return r.currency + " " + d.StringFixed(2)
}

// percent renders a fraction as a percentage without trailing zeros,
// e.g. 0.03 -> "3".
func percent(rate decimal.Decimal) string {
	return rate.Shift(2).String()
}
