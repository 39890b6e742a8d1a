// Package clock resolves the current instant into civil calendar fields of a time zone.
package clock

import (
	"time"

	"github.com/messageflow/backend/internal/models"
	"go.uber.org/zap"
)

// DefaultTimezone is used when a requested zone cannot be loaded
const DefaultTimezone = "UTC"

// Calendar converts wall-clock time into hour, minute and day fields for an IANA zone
//
// Conversion goes through time.Time.In, so DST gaps and overlaps are handled by the zone
// database: consecutive real minutes never map to the same (hour, minute) pair except when
// the zone itself repeats an hour.
type Calendar struct {
	now    func() time.Time
	logger *zap.Logger
}

// NewCalendar creates a calendar reading the system clock
func NewCalendar(logger *zap.Logger) *Calendar {
	return &Calendar{now: time.Now, logger: logger}
}

// NewCalendarWithClock creates a calendar reading time from now, used by tests and replays
func NewCalendarWithClock(now func() time.Time, logger *zap.Logger) *Calendar {
	return &Calendar{now: now, logger: logger}
}

// Now resolves the current time in the given zone
//
// An unknown zone falls back to DefaultTimezone and is logged; it never fails.
func (c *Calendar) Now(timezone string) models.CalendarInstant {
	return c.At(c.now(), timezone)
}

// At resolves t in the given zone
func (c *Calendar) At(t time.Time, timezone string) models.CalendarInstant {
	loc, name := c.location(timezone)
	local := t.In(loc)

	return models.CalendarInstant{
		Hour:       local.Hour(),
		Minute:     local.Minute(),
		DayOfWeek:  int(local.Weekday()),
		DayOfMonth: local.Day(),
		Timezone:   name,
		Time:       local,
	}
}

// Location loads timezone or returns the default zone
func (c *Calendar) Location(timezone string) *time.Location {
	loc, _ := c.location(timezone)
	return loc
}

func (c *Calendar) location(timezone string) (*time.Location, string) {
	if timezone == "" {
		return time.UTC, DefaultTimezone
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		c.logger.Warn("unknown timezone, falling back to default",
			zap.String("timezone", timezone),
			zap.String("default", DefaultTimezone),
			zap.Error(err),
		)
		return time.UTC, DefaultTimezone
	}
	return loc, timezone
}
