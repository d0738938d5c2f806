// Package session classifies a timestamp into the cafe's trading windows.
package session

import (
	"time"

	"cafe-system/internal/config"
)

// Kind is the menu session active at a point in time.
type Kind string

const (
	Day     Kind = "Day"
	Evening Kind = "Evening"
	Closed  Kind = "Closed"
)

// Resolve returns the session active at now. Windows are half-open: the
// start instant belongs to the window, the end instant does not, so a
// boundary time is never classified twice. Closed is a normal result the
// caller must handle by refusing orders.
func Resolve(now time.Time, cfg config.CafeConfig) Kind {
	tod := config.TimeOfDayOf(now)
	switch {
	case cfg.DayStart <= tod && tod < cfg.DayEnd:
		return Day
	case cfg.EveningStart <= tod && tod < cfg.EveningEnd:
		return Evening
	default:
		return Closed
	}
}
