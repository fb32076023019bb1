// Package viewstate tracks which expense view is active so that mutations
// refresh the slice the user is actually looking at.
//
// Exactly one view is current at a time: the whole data set, today's
// expenses, or an explicit filter. Adding, editing, or deleting an expense
// must re-run whatever query produced the current view; it must never
// silently reset a filtered view back to "all".
package viewstate

import (
	"time"

	"github.com/aryapratama/duittui/daykey"
	"github.com/aryapratama/duittui/duit"
)

// Mode identifies the active view.
type Mode int

const (
	// ModeAll shows the whole data set, fetched through pagination.
	ModeAll Mode = iota
	// ModeToday shows the current local day.
	ModeToday
	// ModeFiltered shows the result of an explicit filter query.
	ModeFiltered
)

func (m Mode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeToday:
		return "today"
	case ModeFiltered:
		return "filtered"
	}
	return "unknown"
}

// State is the current view. The zero value is ModeAll with no filters.
type State struct {
	mode    Mode
	filters duit.ExpenseFilters
}

// Mode returns the active mode.
func (s *State) Mode() Mode {
	return s.mode
}

// Filters returns the query backing the current view. For ModeAll the
// returned filters are empty; the caller paginates the full set instead.
func (s *State) Filters() duit.ExpenseFilters {
	return s.filters
}

// SetFilters makes an explicit filter the current view. Filters with no
// field set fall back to ModeAll, matching a user who cleared every input.
func (s *State) SetFilters(f duit.ExpenseFilters) {
	if f.IsZero() {
		s.SetAll()
		return
	}

	f.SortBy = "created_at"
	f.Order = "desc"
	s.mode = ModeFiltered
	s.filters = f
}

// SetToday bounds the view to the current local day in loc. Any previous
// filter inputs are discarded.
func (s *State) SetToday(loc *time.Location) {
	start, end := daykey.Today(loc).Range(loc)
	s.mode = ModeToday
	s.filters = duit.ExpenseFilters{
		CreatedAfter:  start,
		CreatedBefore: end,
		SortBy:        "created_at",
		Order:         "desc",
	}
}

// SetAll clears all filters and shows the whole data set.
func (s *State) SetAll() {
	s.mode = ModeAll
	s.filters = duit.ExpenseFilters{}
}

// NeedsFullFetch reports whether refreshing the current view requires the
// paginated full-dataset fetch rather than a single filtered query.
func (s *State) NeedsFullFetch() bool {
	return s.mode == ModeAll
}
