package dailycache

import (
	"testing"
	"time"

	"github.com/carlmjohnson/be"

	"github.com/aryapratama/duittui/daykey"
	"github.com/aryapratama/duittui/duit"
)

var jakarta = time.FixedZone("WIB", 7*60*60)

func expense(id, amount int64, createdAt time.Time) duit.Expense {
	return duit.Expense{ID: id, Amount: amount, CategoryID: 1, CreatedAt: createdAt}
}

func TestAddBucketsByLocalDay(t *testing.T) {
	c := New(jakarta)

	// 23:30 UTC on May 1st is 06:30 local on May 2nd
	c.Add(expense(1, 10000, time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC)))
	c.Add(expense(2, 20000, time.Date(2024, 5, 2, 0, 10, 0, 0, time.UTC)))
	c.Add(expense(3, 5000, time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)))

	day := daykey.Day{Year: 2024, Month: time.May, DayOfMonth: 2}
	be.Equal(t, 3, c.Count(day))
	be.Equal(t, int64(35000), c.Total(day))
	be.Equal(t, 1, len(c.Days()))
}

func TestBucketSumInvariant(t *testing.T) {
	c := New(jakarta)

	records := []duit.Expense{
		expense(1, 1000, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)),
		expense(2, 2500, time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC)),
		expense(3, 4000, time.Date(2024, 5, 3, 8, 0, 0, 0, time.UTC)),
		expense(4, 700, time.Date(2024, 4, 20, 8, 0, 0, 0, time.UTC)),
	}
	c.ReplaceAll(records)

	var wantTotal int64
	for _, r := range records {
		wantTotal += r.Amount
	}

	var gotTotal int64
	var gotCount int
	for _, day := range c.Days() {
		gotTotal += c.Total(day)
		gotCount += c.Count(day)
	}

	be.Equal(t, wantTotal, gotTotal)
	be.Equal(t, len(records), gotCount)
}

func TestEditMergesInPlace(t *testing.T) {
	c := New(jakarta)
	created := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	day := daykey.Day{Year: 2024, Month: time.May, DayOfMonth: 2}

	c.Add(expense(1, 1000, created))
	c.Add(expense(2, 2000, created))

	edited := expense(1, 9000, created)
	edited.Description = "edited"
	c.Edit(edited)

	bucket := c.Bucket(day)
	be.Equal(t, 2, len(bucket))
	// identity and position preserved
	be.Equal(t, int64(1), bucket[0].ID)
	be.Equal(t, int64(9000), bucket[0].Amount)
	be.Equal(t, "edited", bucket[0].Description)
	be.Equal(t, int64(11000), c.Total(day))
}

func TestEditMovesBucketWhenDayChanges(t *testing.T) {
	c := New(jakarta)
	oldDay := daykey.Day{Year: 2024, Month: time.May, DayOfMonth: 2}
	newDay := daykey.Day{Year: 2024, Month: time.May, DayOfMonth: 5}

	c.Add(expense(1, 1000, time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)))
	c.Edit(expense(1, 1000, time.Date(2024, 5, 5, 12, 0, 0, 0, time.UTC)))

	be.Equal(t, 0, c.Count(oldDay))
	be.Equal(t, 1, c.Count(newDay))
}

func TestEditUnknownExpenseIsNoOp(t *testing.T) {
	c := New(jakarta)
	c.Add(expense(1, 1000, time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)))

	c.Edit(expense(99, 5000, time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)))

	be.Equal(t, 1, len(c.All()))
}

func TestRemoveLastRecordZeroesDay(t *testing.T) {
	c := New(jakarta)
	day := daykey.Day{Year: 2024, Month: time.May, DayOfMonth: 2}

	c.Add(expense(1, 1000, time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)))
	c.Remove(1)

	be.Equal(t, int64(0), c.Total(day))
	be.Equal(t, 0, c.Count(day))
	be.Equal(t, 0, len(c.Days()))
}

func TestReplaceAllConverges(t *testing.T) {
	c := New(jakarta)

	// optimistic updates that never hit the store
	c.Add(expense(100, 99999, time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)))
	c.Remove(100)
	c.Add(expense(101, 12345, time.Date(2024, 5, 2, 13, 0, 0, 0, time.UTC)))

	authoritative := []duit.Expense{
		expense(1, 1000, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)),
		expense(2, 2000, time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)),
	}
	c.ReplaceAll(authoritative)

	be.Equal(t, 2, len(c.All()))
	be.Equal(t, int64(1000), c.Total(daykey.Day{Year: 2024, Month: time.May, DayOfMonth: 1}))
	be.Equal(t, int64(2000), c.Total(daykey.Day{Year: 2024, Month: time.May, DayOfMonth: 2}))
}

func TestBucketReturnsCopy(t *testing.T) {
	c := New(jakarta)
	day := daykey.Day{Year: 2024, Month: time.May, DayOfMonth: 2}

	c.Add(expense(1, 1000, time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)))

	bucket := c.Bucket(day)
	bucket[0].Amount = 777777

	be.Equal(t, int64(1000), c.Total(day))
}
