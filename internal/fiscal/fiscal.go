// Package fiscal converts calendar dates into fiscal year/week keys. It
// is the single source of truth for week-key generation; weekly
// aggregation must go through Key rather than re-deriving boundaries.
package fiscal

import (
	"fmt"
	"time"
)

// DefaultStartMonth is the calendar month the fiscal year begins in.
const DefaultStartMonth = time.February

// Calendar maps calendar dates onto a fiscal year that starts on the
// first day of StartMonth.
type Calendar struct {
	StartMonth time.Month
}

// NewCalendar builds a Calendar, clamping out-of-range months to the
// default so Key stays total.
func NewCalendar(startMonth time.Month) Calendar {
	if startMonth < time.January || startMonth > time.December {
		startMonth = DefaultStartMonth
	}
	return Calendar{StartMonth: startMonth}
}

// Key returns the fiscal year and 1-based fiscal week for t. Dates before
// the boundary month belong to the previous calendar year's cycle. The
// zero time maps to (0, 1) rather than failing; callers filter absent
// dates before bucketing.
func (c Calendar) Key(t time.Time) (year int, week int) {
	if t.IsZero() {
		return 0, 1
	}

	year = t.Year()
	if t.Month() < c.StartMonth {
		year--
	}

	start := time.Date(year, c.StartMonth, 1, 0, 0, 0, 0, t.Location())
	days := int(t.Sub(start).Hours() / 24)
	week = days/7 + 1
	if week < 1 {
		week = 1
	}
	return year, week
}

// WeekLabel formats a (year, week) pair as a sortable bucket label,
// e.g. "2025-W07".
func WeekLabel(year, week int) string {
	return fmt.Sprintf("%d-W%02d", year, week)
}
