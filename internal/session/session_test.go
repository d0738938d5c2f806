package session

import (
	"testing"
	"time"

	"cafe-system/internal/config"
)

func at(clock string) time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", "2026-08-28 "+clock)
	if err != nil {
		panic(err)
	}
	return t
}

func TestResolve(t *testing.T) {
	cfg := config.Defaults().Cafe

	tests := []struct {
		name  string
		clock string
		want  Kind
	}{
		{"before opening", "09:59:59", Closed},
		{"day start is inclusive", "10:00:00", Day},
		{"mid day", "12:30:00", Day},
		{"last second of day", "14:59:59", Day},
		{"day end is exclusive", "15:00:00", Closed},
		{"afternoon gap", "16:00:00", Closed},
		{"evening start is inclusive", "17:00:00", Evening},
		{"last second of evening", "21:59:59", Evening},
		{"evening end is exclusive", "22:00:00", Closed},
		{"late night", "23:30:00", Closed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(at(tt.clock), cfg); got != tt.want {
				t.Errorf("Resolve(%s) = %v, want %v", tt.clock, got, tt.want)
			}
		})
	}
}

func TestResolveIsPure(t *testing.T) {
	cfg := config.Defaults().Cafe
	ts := at("12:00:00")
	first := Resolve(ts, cfg)
	for i := 0; i < 5; i++ {
		if got := Resolve(ts, cfg); got != first {
			t.Fatalf("Resolve changed answer on repeat call: %v then %v", first, got)
		}
	}
}
