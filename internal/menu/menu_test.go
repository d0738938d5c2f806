package menu

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"cafe-system/internal/config"
	"cafe-system/internal/session"
)

func testConfig(day, evening string) config.MenuConfig {
	return config.MenuConfig{
		DayFile:     filepath.Join("testdata", day),
		EveningFile: filepath.Join("testdata", evening),
	}
}

func TestLoadDayMenu(t *testing.T) {
	catalog := NewCatalog(testConfig("day.json", "evening.json"))

	items, err := catalog.Load(session.Day)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}
	if items[0].Name != "Cappuccino" {
		t.Errorf("first item = %s, want Cappuccino", items[0].Name)
	}
	if !items[0].Price.Equal(decimal.RequireFromString("120.00")) {
		t.Errorf("Cappuccino price = %s, want 120.00", items[0].Price)
	}
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.MenuConfig
		session session.Kind
	}{
		{"closed session", testConfig("day.json", "evening.json"), session.Closed},
		{"missing file", testConfig("missing.json", "evening.json"), session.Day},
		{"corrupt file", testConfig("corrupt.json", "evening.json"), session.Day},
		{"duplicate names", testConfig("duplicate.json", "evening.json"), session.Day},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.cfg).Load(tt.session)
			if !errors.Is(err, ErrUnavailable) {
				t.Errorf("Load error = %v, want ErrUnavailable", err)
			}
		})
	}
}

func TestLoadEveningMenu(t *testing.T) {
	catalog := NewCatalog(testConfig("day.json", "evening.json"))

	items, err := catalog.Load(session.Evening)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
}

func TestFind(t *testing.T) {
	catalog := NewCatalog(testConfig("day.json", "evening.json"))
	items, err := catalog.Load(session.Day)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if _, ok := Find(items, "masala tea"); !ok {
		t.Errorf("Find is expected to match case-insensitively")
	}
	if _, ok := Find(items, "Biryani"); ok {
		t.Errorf("Find matched an item that is not on the menu")
	}
}
