// Package daykey maps UTC instants to calendar days in the viewer's time zone.
//
// Expense timestamps are stored in UTC by the backend, but every aggregate the
// UI shows (day buckets, the heatmap, the "today" range) is keyed by the local
// calendar day. This package is the single place that conversion happens.
package daykey

import (
	"fmt"
	"time"
)

const layout = "2006-01-02"

// Day is one calendar day in some time zone, e.g. 2024-05-02.
type Day struct {
	Year       int
	Month      time.Month
	DayOfMonth int
}

// FromTime returns the calendar day that t falls on in loc.
//
// The conversion uses the zone offset in effect at t. Two instants on either
// side of a daylight-saving transition may therefore land on days a fixed
// offset would not predict; that is inherent to keying by the viewer's clock
// and is not corrected for.
func FromTime(t time.Time, loc *time.Location) Day {
	lt := t.In(loc)
	return Day{Year: lt.Year(), Month: lt.Month(), DayOfMonth: lt.Day()}
}

// Today returns the current day in loc.
func Today(loc *time.Location) Day {
	return FromTime(time.Now(), loc)
}

// Parse parses a day in YYYY-MM-DD form.
func Parse(s string) (Day, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Day{}, fmt.Errorf("parsing day %q: %w", s, err)
	}
	return Day{Year: t.Year(), Month: t.Month(), DayOfMonth: t.Day()}, nil
}

func (d Day) String() string {
	return d.time(time.UTC).Format(layout)
}

// Range returns the UTC instants bounding d in loc: local midnight and local
// 23:59:59. The interval is closed on both ends; callers must not treat the
// end as exclusive.
func (d Day) Range(loc *time.Location) (start, end time.Time) {
	start = time.Date(d.Year, d.Month, d.DayOfMonth, 0, 0, 0, 0, loc).UTC()
	end = time.Date(d.Year, d.Month, d.DayOfMonth, 23, 59, 59, 0, loc).UTC()
	return start, end
}

// AddDays returns the day n days after d (negative n goes back).
func (d Day) AddDays(n int) Day {
	t := d.time(time.UTC).AddDate(0, 0, n)
	return Day{Year: t.Year(), Month: t.Month(), DayOfMonth: t.Day()}
}

// Weekday returns the day of the week, Sunday being 0.
func (d Day) Weekday() time.Weekday {
	return d.time(time.UTC).Weekday()
}

// Before reports whether d is earlier than other.
func (d Day) Before(other Day) bool {
	return d.time(time.UTC).Before(other.time(time.UTC))
}

func (d Day) time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.DayOfMonth, 0, 0, 0, 0, loc)
}
