// Package summary reduces the backend's spending summary to the three cells
// the dashboard shows: total spent, average per day, and top category.
package summary

import (
	"github.com/aryapratama/duittui/duit"
)

// NoTopCategory is the sentinel shown when no category has any spending.
const NoTopCategory = "—"

// Stats is the aggregated view of a duit.SummaryReport.
type Stats struct {
	// TotalAll is the report's grand total, taken verbatim.
	TotalAll int64
	// AvgPerDay is TotalAll divided by the number of distinct record dates,
	// 0 when there are none.
	AvgPerDay float64
	// DistinctDays is how many unique dates appear across all categories.
	DistinctDays int
	// TopCategory is the name of the category with the largest total,
	// NoTopCategory when the report is empty. Ties go to the category that
	// appears first in the report.
	TopCategory string
}

// Compute aggregates report without mutating it. A nil report yields zeroed
// Stats so a malformed response never breaks the render path.
func Compute(report *duit.SummaryReport) Stats {
	stats := Stats{TopCategory: NoTopCategory}
	if report == nil {
		return stats
	}

	stats.TotalAll = report.TotalAll

	days := make(map[string]struct{})
	for _, cat := range report.Categories {
		for _, rec := range cat.Records {
			if rec.Date != "" {
				days[rec.Date] = struct{}{}
			}
		}
	}
	stats.DistinctDays = len(days)
	if stats.DistinctDays > 0 {
		stats.AvgPerDay = float64(stats.TotalAll) / float64(stats.DistinctDays)
	}

	var maxTotal int64 = -1
	for _, cat := range report.Categories {
		if cat.Total > maxTotal {
			maxTotal = cat.Total
			stats.TopCategory = cat.CategoryName
		}
	}

	return stats
}
