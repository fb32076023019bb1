package quickadd

import (
	"errors"
	"testing"
	"time"

	"github.com/carlmjohnson/be"

	"github.com/aryapratama/duittui/duit"
)

func TestParse(t *testing.T) {
	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		raw      string
		expected int64
		wantErr  bool
	}{
		{name: "rp prefix with k suffix", raw: "Rp 25k", expected: 25000},
		{name: "rb suffix", raw: "bakso 25rb", expected: 25000},
		{name: "dot separated thousands", raw: "25.000", expected: 25000},
		{name: "comma separated thousands", raw: "25,000", expected: 25000},
		{name: "plain integer", raw: "30000", expected: 30000},
		{name: "amount embedded in text", raw: "kopi susu 15k enak", expected: 15000},
		{name: "space before suffix", raw: "ayam geprek 12 k", expected: 12000},
		{name: "no numeric token", raw: "abc", wantErr: true},
		{name: "empty input", raw: "", wantErr: true},
		{name: "whitespace only", raw: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft, err := Parse(tt.raw, now)

			if tt.wantErr {
				be.True(t, errors.Is(err, ErrNoAmount))
				return
			}

			be.NilErr(t, err)
			be.Equal(t, tt.expected, draft.Amount)
			be.Equal(t, tt.raw, draft.Description)
			be.Equal(t, now, draft.CreatedAt)
		})
	}
}

func TestDefaultCategory(t *testing.T) {
	categories := []duit.Category{
		{ID: 3, Name: "Makanan"},
		{ID: 5, Name: "Transport"},
	}

	cat, err := DefaultCategory(categories)
	be.NilErr(t, err)
	be.Equal(t, int64(3), cat.ID)

	_, err = DefaultCategory(nil)
	be.True(t, errors.Is(err, ErrNoCategories))
}
