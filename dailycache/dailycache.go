// Package dailycache keeps a day-bucketed mirror of recently seen expenses.
//
// The cache exists so mutations can update the visible heatmap and day list
// immediately, before the authoritative re-fetch lands. It is display-only
// state: every mutation is followed by a reconciling fetch whose result
// replaces the cache wholesale via ReplaceAll, so the cache converges to the
// remote store no matter what the optimistic updates did in between.
package dailycache

import (
	"slices"
	"time"

	"github.com/aryapratama/duittui/daykey"
	"github.com/aryapratama/duittui/duit"
)

// Cache maps local calendar days to the expenses recorded on them. The zero
// value is not usable; call New.
type Cache struct {
	buckets map[daykey.Day][]duit.Expense
	loc     *time.Location
}

// New creates an empty cache bucketing by calendar days in loc.
func New(loc *time.Location) *Cache {
	return &Cache{
		buckets: make(map[daykey.Day][]duit.Expense),
		loc:     loc,
	}
}

func (c *Cache) dayOf(e duit.Expense) daykey.Day {
	return daykey.FromTime(e.CreatedAt, c.loc)
}

// Add appends an expense to its day bucket.
func (c *Cache) Add(e duit.Expense) {
	day := c.dayOf(e)
	c.buckets[day] = append(c.buckets[day], e)
}

// Edit replaces the cached copy of e, matched by ID, keeping its position in
// the bucket. When the edit moved the expense to a different day it is
// re-bucketed. Editing an expense the cache has never seen is a no-op; the
// reconciling fetch will bring it in.
func (c *Cache) Edit(e duit.Expense) {
	newDay := c.dayOf(e)

	for day, bucket := range c.buckets {
		idx := slices.IndexFunc(bucket, func(cached duit.Expense) bool {
			return cached.ID == e.ID
		})
		if idx < 0 {
			continue
		}

		if day == newDay {
			bucket[idx] = e
			return
		}

		c.removeFromBucket(day, idx)
		c.Add(e)
		return
	}
}

// Remove deletes the expense with the given id from its bucket. When the
// bucket empties it is dropped entirely, so the day's total reads zero
// immediately.
func (c *Cache) Remove(id int64) {
	for day, bucket := range c.buckets {
		idx := slices.IndexFunc(bucket, func(cached duit.Expense) bool {
			return cached.ID == id
		})
		if idx < 0 {
			continue
		}

		c.removeFromBucket(day, idx)
		return
	}
}

func (c *Cache) removeFromBucket(day daykey.Day, idx int) {
	bucket := slices.Delete(c.buckets[day], idx, idx+1)
	if len(bucket) == 0 {
		delete(c.buckets, day)
		return
	}
	c.buckets[day] = bucket
}

// ReplaceAll discards every bucket and rebuilds the cache from records. This
// is the reconciliation step: the fetched set wins any conflict with earlier
// optimistic updates.
func (c *Cache) ReplaceAll(records []duit.Expense) {
	c.buckets = make(map[daykey.Day][]duit.Expense, len(records)/4+1)
	for _, e := range records {
		c.Add(e)
	}
}

// Bucket returns the expenses recorded on day, in insertion order. The
// returned slice is a copy; mutating it does not affect the cache.
func (c *Cache) Bucket(day daykey.Day) []duit.Expense {
	return slices.Clone(c.buckets[day])
}

// Total returns the summed amount for day.
func (c *Cache) Total(day daykey.Day) int64 {
	var total int64
	for _, e := range c.buckets[day] {
		total += e.Amount
	}
	return total
}

// Count returns how many expenses are recorded on day.
func (c *Cache) Count(day daykey.Day) int {
	return len(c.buckets[day])
}

// Days returns every day that has at least one expense, in no particular
// order.
func (c *Cache) Days() []daykey.Day {
	days := make([]daykey.Day, 0, len(c.buckets))
	for day := range c.buckets {
		days = append(days, day)
	}
	return days
}

// All returns every cached expense across all buckets.
func (c *Cache) All() []duit.Expense {
	var all []duit.Expense
	for _, bucket := range c.buckets {
		all = append(all, bucket...)
	}
	return all
}
