package main

import (
	"testing"

	"github.com/carlmjohnson/be"
)

func TestNewLoadingState(t *testing.T) {
	ls := newLoadingState("categories", "summary", "expenses")

	be.Equal(t, 3, len(ls))
	for key, loaded := range ls {
		if loaded {
			t.Errorf("key %q should start unloaded", key)
		}
	}
}

func TestLoadingStateSetUnset(t *testing.T) {
	ls := newLoadingState("categories", "expenses")

	ls.set("categories")
	be.True(t, ls["categories"])
	be.False(t, ls["expenses"])

	ls.unset("categories")
	be.False(t, ls["categories"])
}

func TestLoadingStateAllLoaded(t *testing.T) {
	ls := newLoadingState("categories", "expenses")

	done, pending := ls.allLoaded()
	be.False(t, done)
	be.Nonzero(t, pending)

	ls.set("categories")
	ls.set("expenses")

	done, pending = ls.allLoaded()
	be.True(t, done)
	be.Zero(t, pending)
}
