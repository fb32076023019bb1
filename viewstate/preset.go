package viewstate

import (
	"fmt"
	"time"

	"github.com/aryapratama/duittui/daykey"
	"github.com/aryapratama/duittui/duit"
)

// Preset is a named filter saved in the config file so it can be
// reapplied later. Date bounds are stored as local days, not instants,
// so the file stays readable and zone-independent.
type Preset struct {
	Name        string `mapstructure:"name" json:"name"`
	CategoryID  int64  `mapstructure:"category" json:"category,omitempty"`
	MinAmount   int64  `mapstructure:"min_amount" json:"min_amount,omitempty"`
	MaxAmount   int64  `mapstructure:"max_amount" json:"max_amount,omitempty"`
	After       string `mapstructure:"after" json:"after,omitempty"`
	Before      string `mapstructure:"before" json:"before,omitempty"`
	Description string `mapstructure:"description" json:"description,omitempty"`
}

// NewPreset captures the filters of the current view under a name.
// Time bounds collapse to the local day they fall in.
func NewPreset(name string, f duit.ExpenseFilters, loc *time.Location) Preset {
	p := Preset{
		Name:        name,
		CategoryID:  f.CategoryID,
		MinAmount:   f.MinAmount,
		MaxAmount:   f.MaxAmount,
		Description: f.Description,
	}
	if !f.CreatedAfter.IsZero() {
		p.After = daykey.FromTime(f.CreatedAfter, loc).String()
	}
	if !f.CreatedBefore.IsZero() {
		p.Before = daykey.FromTime(f.CreatedBefore, loc).String()
	}

	return p
}

// Filters expands the preset back into a query, resolving the stored
// day bounds in loc.
func (p Preset) Filters(loc *time.Location) (duit.ExpenseFilters, error) {
	f := duit.ExpenseFilters{
		CategoryID:  p.CategoryID,
		MinAmount:   p.MinAmount,
		MaxAmount:   p.MaxAmount,
		Description: p.Description,
	}

	if p.After != "" {
		day, err := daykey.Parse(p.After)
		if err != nil {
			return f, fmt.Errorf("preset %q: bad after day: %w", p.Name, err)
		}
		f.CreatedAfter, _ = day.Range(loc)
	}
	if p.Before != "" {
		day, err := daykey.Parse(p.Before)
		if err != nil {
			return f, fmt.Errorf("preset %q: bad before day: %w", p.Name, err)
		}
		_, f.CreatedBefore = day.Range(loc)
	}

	return f, nil
}
