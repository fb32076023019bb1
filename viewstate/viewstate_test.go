package viewstate

import (
	"testing"
	"time"

	"github.com/carlmjohnson/be"

	"github.com/aryapratama/duittui/duit"
)

func TestZeroValueIsAll(t *testing.T) {
	var s State
	be.Equal(t, ModeAll, s.Mode())
	be.True(t, s.NeedsFullFetch())
	be.True(t, s.Filters().IsZero())
}

func TestSetFilters(t *testing.T) {
	var s State
	s.SetFilters(duit.ExpenseFilters{CategoryID: 3, MinAmount: 1000})

	be.Equal(t, ModeFiltered, s.Mode())
	be.False(t, s.NeedsFullFetch())
	be.Equal(t, int64(3), s.Filters().CategoryID)
	be.Equal(t, "created_at", s.Filters().SortBy)
	be.Equal(t, "desc", s.Filters().Order)
}

func TestSetFiltersWithNoFieldsFallsBackToAll(t *testing.T) {
	var s State
	s.SetFilters(duit.ExpenseFilters{CategoryID: 3})
	s.SetFilters(duit.ExpenseFilters{})

	be.Equal(t, ModeAll, s.Mode())
	be.True(t, s.Filters().IsZero())
}

func TestSetTodayBoundsTheLocalDay(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)

	var s State
	s.SetFilters(duit.ExpenseFilters{Description: "coffee"})
	s.SetToday(jakarta)

	be.Equal(t, ModeToday, s.Mode())
	be.False(t, s.NeedsFullFetch())

	f := s.Filters()
	// previous filter inputs cleared
	be.Equal(t, "", f.Description)
	be.False(t, f.CreatedAfter.IsZero())
	be.False(t, f.CreatedBefore.IsZero())

	// closed range spanning exactly one day minus the final second
	be.Equal(t, 23*time.Hour+59*time.Minute+59*time.Second, f.CreatedBefore.Sub(f.CreatedAfter))
}

func TestSetAllClearsFilters(t *testing.T) {
	var s State
	s.SetFilters(duit.ExpenseFilters{CategoryID: 2})
	s.SetAll()

	be.Equal(t, ModeAll, s.Mode())
	be.True(t, s.NeedsFullFetch())
	be.True(t, s.Filters().IsZero())
}

func TestMutationKeepsFilteredMode(t *testing.T) {
	// the tracker itself never changes mode on a mutation; refreshing is
	// re-running the stored query
	var s State
	s.SetFilters(duit.ExpenseFilters{CategoryID: 7})

	first := s.Filters()
	second := s.Filters()

	be.Equal(t, ModeFiltered, s.Mode())
	be.Equal(t, first, second)
}

func TestModeString(t *testing.T) {
	be.Equal(t, "all", ModeAll.String())
	be.Equal(t, "today", ModeToday.String())
	be.Equal(t, "filtered", ModeFiltered.String())
}
