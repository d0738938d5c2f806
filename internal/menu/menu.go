// Package menu loads the sellable items for a trading session.
package menu

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"cafe-system/internal/config"
	"cafe-system/internal/models"
	"cafe-system/internal/session"
)

// ErrUnavailable is returned when no menu can be served: the cafe is
// closed, the session's menu file is missing or unparsable, or the item
// list fails integrity checks.
var ErrUnavailable = errors.New("menu unavailable")

// Catalog resolves a session to its item list.
type Catalog struct {
	cfg config.MenuConfig
}

// NewCatalog creates a catalog over the configured menu files.
func NewCatalog(cfg config.MenuConfig) *Catalog {
	return &Catalog{cfg: cfg}
}

// Load reads and validates the menu for the given session. Duplicate item
// names within one session are a data-integrity error, not something to
// merge silently.
func (c *Catalog) Load(kind session.Kind) ([]models.MenuItem, error) {
	var path string
	switch kind {
	case session.Day:
		path = c.cfg.DayFile
	case session.Evening:
		path = c.cfg.EveningFile
	default:
		return nil, fmt.Errorf("%w: cafe is closed", ErrUnavailable)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s session menu: %v", ErrUnavailable, kind, err)
	}

	var items []models.MenuItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrUnavailable, path, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: %s has no items", ErrUnavailable, path)
	}

	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if item.Name == "" {
			return nil, fmt.Errorf("%w: %s contains an item without a name", ErrUnavailable, path)
		}
		if item.Price.IsNegative() {
			return nil, fmt.Errorf("%w: item %q has negative price", ErrUnavailable, item.Name)
		}
		if seen[item.Name] {
			return nil, fmt.Errorf("%w: duplicate item %q in %s", ErrUnavailable, item.Name, path)
		}
		seen[item.Name] = true
	}

	return items, nil
}

// Find looks up an item by name, case-insensitively, the way customers
// type it.
func Find(items []models.MenuItem, name string) (models.MenuItem, bool) {
	for _, item := range items {
		if strings.EqualFold(item.Name, name) {
			return item, true
		}
	}
	return models.MenuItem{}, false
}
