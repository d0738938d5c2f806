package models

import "time"

// BillFinalizedEvent is the notification published after a bill has been
// finalized and stored, consumed by the presentation layer.
type BillFinalizedEvent struct {
	CustomerName string    `json:"customer_name"`
	Session      string    `json:"session"`
	ItemCount    int       `json:"item_count"`
	GrandTotal   string    `json:"grand_total"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewBillFinalizedEvent builds the event payload for a finalized bill.
func NewBillFinalizedEvent(bill *BillBreakdown) *BillFinalizedEvent {
	return &BillFinalizedEvent{
		CustomerName: bill.CustomerName,
		Session:      bill.Session,
		ItemCount:    bill.ItemCount,
		GrandTotal:   bill.GrandTotal.StringFixed(2),
		Timestamp:    bill.Timestamp,
	}
}
