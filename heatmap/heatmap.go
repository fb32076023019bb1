// Package heatmap builds the trailing-365-day spending calendar.
//
// Records are grouped into per-day buckets keyed by the viewer's local
// calendar day, then laid out oldest-first over a fixed window ending today.
// Days without records still get a cell so the grid is always complete.
package heatmap

import (
	"time"

	"github.com/aryapratama/duittui/daykey"
	"github.com/aryapratama/duittui/duit"
)

// WindowDays is the size of the trailing window, today included.
const WindowDays = 365

// fullIntensityCount is the same-day record count that saturates a cell.
const fullIntensityCount = 5

// baselineIntensity keeps empty days faintly visible instead of black.
const baselineIntensity = 0.1

// Cell is one day of the heatmap.
type Cell struct {
	Day       daykey.Day
	Total     int64
	Count     int
	Intensity float64
}

// Grid is the laid-out heatmap window.
type Grid struct {
	// Cells holds exactly WindowDays cells, oldest first.
	Cells []Cell
	// Pad is the number of leading placeholder cells needed so the first
	// real cell lands on its weekday row: weekday(firstDay), Sunday = 0.
	Pad int
}

// Intensity returns the display intensity for a bucket with count records:
// the baseline when empty, otherwise a linear scale saturating at
// fullIntensityCount.
func Intensity(count int) float64 {
	if count == 0 {
		return baselineIntensity
	}
	if count >= fullIntensityCount {
		return 1
	}
	return float64(count) / fullIntensityCount
}

// Build groups records by their local day in loc and lays out the trailing
// window ending at today. Records outside the window are ignored for the
// grid; callers keep the full set around for drill-down.
func Build(records []duit.Expense, today daykey.Day, loc *time.Location) Grid {
	totals := make(map[daykey.Day]int64)
	counts := make(map[daykey.Day]int)
	for _, r := range records {
		day := daykey.FromTime(r.CreatedAt, loc)
		totals[day] += r.Amount
		counts[day]++
	}

	first := today.AddDays(-(WindowDays - 1))

	cells := make([]Cell, 0, WindowDays)
	for i := range WindowDays {
		day := first.AddDays(i)
		count := counts[day]
		cells = append(cells, Cell{
			Day:       day,
			Total:     totals[day],
			Count:     count,
			Intensity: Intensity(count),
		})
	}

	return Grid{
		Cells: cells,
		Pad:   int(first.Weekday()),
	}
}

// RecordsForDay returns every record from records that falls on day in loc,
// preserving input order. This backs the drill-down view and deliberately
// takes the broad in-memory set, not just the windowed cells.
func RecordsForDay(records []duit.Expense, day daykey.Day, loc *time.Location) []duit.Expense {
	var matched []duit.Expense
	for _, r := range records {
		if daykey.FromTime(r.CreatedAt, loc) == day {
			matched = append(matched, r)
		}
	}
	return matched
}
