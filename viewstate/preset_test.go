package viewstate

import (
	"testing"
	"time"

	"github.com/carlmjohnson/be"

	"github.com/aryapratama/duittui/duit"
)

func TestPresetRoundTrip(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)

	var s State
	s.SetFilters(duit.ExpenseFilters{
		CategoryID:    4,
		MinAmount:     10000,
		Description:   "makan",
		CreatedAfter:  time.Date(2024, 5, 1, 17, 0, 0, 0, time.UTC),
		CreatedBefore: time.Date(2024, 5, 31, 16, 59, 59, 0, time.UTC),
	})

	p := NewPreset("bulanan", s.Filters(), jakarta)
	be.Equal(t, "bulanan", p.Name)
	be.Equal(t, "2024-05-02", p.After)
	be.Equal(t, "2024-05-31", p.Before)

	f, err := p.Filters(jakarta)
	be.NilErr(t, err)
	be.Equal(t, int64(4), f.CategoryID)
	be.Equal(t, int64(10000), f.MinAmount)
	be.Equal(t, "makan", f.Description)

	// bounds expand to the closed local-day range
	be.Equal(t, time.Date(2024, 5, 1, 17, 0, 0, 0, time.UTC), f.CreatedAfter)
	be.Equal(t, time.Date(2024, 5, 31, 16, 59, 59, 0, time.UTC), f.CreatedBefore)
}

func TestPresetWithoutDayBounds(t *testing.T) {
	p := NewPreset("murah", duit.ExpenseFilters{MaxAmount: 5000}, time.UTC)
	be.Equal(t, "", p.After)
	be.Equal(t, "", p.Before)

	f, err := p.Filters(time.UTC)
	be.NilErr(t, err)
	be.True(t, f.CreatedAfter.IsZero())
	be.True(t, f.CreatedBefore.IsZero())
	be.Equal(t, int64(5000), f.MaxAmount)
}

func TestPresetRejectsBadDay(t *testing.T) {
	p := Preset{Name: "rusak", After: "05/01/2024"}
	_, err := p.Filters(time.UTC)
	be.Nonzero(t, err)
}
