// Package order accumulates a customer's selections for the current visit.
package order

import (
	"errors"
	"fmt"

	"cafe-system/internal/models"
)

// ErrInvalidQuantity is returned when an item is added with a quantity
// below one. Callers must re-prompt, never clamp.
var ErrInvalidQuantity = errors.New("invalid quantity")

// Accumulator holds the in-progress order. Lines keep insertion order for
// display; re-adding an item merges into the existing line, so no two lines
// ever share a name. Unit prices are snapshotted from the menu item at add
// time and never re-resolved.
type Accumulator struct {
	index map[string]int
	lines []models.OrderLine
}

// New creates an empty accumulator.
func New() *Accumulator {
	return &Accumulator{index: make(map[string]int)}
}

// Add inserts quantity units of item, merging with an existing line for the
// same name. The existing line's snapshotted price wins on merge.
func (a *Accumulator) Add(item models.MenuItem, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1, got %d", ErrInvalidQuantity, quantity)
	}
	if i, ok := a.index[item.Name]; ok {
		a.lines[i].Quantity += quantity
		return nil
	}
	a.index[item.Name] = len(a.lines)
	a.lines = append(a.lines, models.OrderLine{
		ItemName:  item.Name,
		Quantity:  quantity,
		UnitPrice: item.Price,
	})
	return nil
}

// Remove deletes the line for name, reporting whether it existed.
func (a *Accumulator) Remove(name string) bool {
	i, ok := a.index[name]
	if !ok {
		return false
	}
	a.lines = append(a.lines[:i], a.lines[i+1:]...)
	delete(a.index, name)
	for j := i; j < len(a.lines); j++ {
		a.index[a.lines[j].ItemName] = j
	}
	return true
}

// Clear empties the order.
func (a *Accumulator) Clear() {
	a.index = make(map[string]int)
	a.lines = nil
}

// Lines returns a copy of the order lines in insertion order.
func (a *Accumulator) Lines() []models.OrderLine {
	out := make([]models.OrderLine, len(a.lines))
	copy(out, a.lines)
	return out
}

// Len returns the number of distinct lines.
func (a *Accumulator) Len() int {
	return len(a.lines)
}
