// Package store persists per-customer bill history.
//
// The store is a flat customer_name -> record mapping with a single logical
// writer per process. Known limitation: two processes mutating the same
// backing medium without external locking lose updates last-writer-wins.
package store

import (
	"context"
	"errors"

	"cafe-system/internal/models"
)

// ErrUnavailable is returned when the backing medium cannot be read or
// written. A corrupt read fails loudly; existing history is never silently
// discarded.
var ErrUnavailable = errors.New("history store unavailable")

// Store is the customer history contract. Customer names are case-sensitive
// exact-match keys.
type Store interface {
	// Append adds a finalized bill to the customer's history, creating the
	// record if absent.
	Append(ctx context.Context, customer string, bill models.BillBreakdown) error
	// Lookup returns the customer's record, or nil when none exists.
	Lookup(ctx context.Context, customer string) (*models.CustomerRecord, error)
	// Clear deletes one customer's history.
	Clear(ctx context.Context, customer string) error
	// ClearAll deletes every customer's history.
	ClearAll(ctx context.Context) error
	// Close releases the backing medium.
	Close()
}
