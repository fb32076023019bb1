package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"

	"github.com/aryapratama/duittui/daykey"
	"github.com/aryapratama/duittui/duit"
	"github.com/aryapratama/duittui/viewstate"
)

// newExpenseForm builds the add form, or the edit form when editing is
// not nil.
func (m model) newExpenseForm(editing *duit.Expense) *huh.Form {
	categories := make([]duit.Category, len(m.categories))
	copy(categories, m.categories)
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})

	categoryOpts := make([]huh.Option[int64], len(categories))
	for i, c := range categories {
		categoryOpts[i] = huh.NewOption(c.Name, c.ID)
	}

	description := ""
	amount := ""
	date := daykey.Today(m.loc).String()
	var categoryID int64
	if editing != nil {
		description = editing.Description
		amount = strconv.FormatInt(editing.Amount, 10)
		date = daykey.FromTime(editing.CreatedAt, m.loc).String()
		categoryID = editing.CategoryID
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Description").
				Key("description").
				Value(&description).
				Placeholder("What was this for?"),

			huh.NewInput().
				Title("Amount").
				Description("Amount in rupiah").
				Key("amount").
				Value(&amount).
				Placeholder("25000").
				Validate(func(s string) error {
					n, err := strconv.ParseInt(s, 10, 64)
					if err != nil {
						return fmt.Errorf("amount must be a whole number of rupiah")
					}
					if n <= 0 {
						return fmt.Errorf("amount must be positive")
					}
					return nil
				}),

			huh.NewInput().
				Title("Date").
				Description("Local day (YYYY-MM-DD)").
				Key("date").
				Value(&date).
				Placeholder("YYYY-MM-DD").
				Validate(func(s string) error {
					if _, err := daykey.Parse(s); err != nil {
						return fmt.Errorf("date must be in YYYY-MM-DD format")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[int64]().
				Title("Category").
				Options(categoryOpts...).
				Key("category").
				Value(&categoryID),
		),
	)
}

// submitExpenseForm turns the completed form into the optimistic cache
// change plus the remote create or update.
func (m model) submitExpenseForm() (tea.Model, tea.Cmd) {
	amount, err := strconv.ParseInt(m.expenseForm.GetString("amount"), 10, 64)
	if err != nil {
		log.Debug("amount not parseable after validation", "error", err)
		return m, nil
	}

	day, err := daykey.Parse(m.expenseForm.GetString("date"))
	if err != nil {
		log.Debug("date not parseable after validation", "error", err)
		return m, nil
	}

	categoryID, ok := m.expenseForm.Get("category").(int64)
	if !ok {
		log.Debug("category ID not found in form")
		return m, nil
	}

	description := m.expenseForm.GetString("description")

	// midday local keeps the instant inside the chosen day in any zone
	start, _ := day.Range(m.loc)
	createdAt := start.Add(12 * time.Hour)
	if day == daykey.Today(m.loc) {
		createdAt = time.Now().UTC()
	}

	editing := m.editing
	m.editing = nil
	m.expenseForm = nil
	m.sessionState = expensesState

	if editing == nil {
		tempID := m.nextTempID
		m.nextTempID--

		m.cache.Add(duit.Expense{
			ID:          tempID,
			Amount:      amount,
			Description: description,
			CategoryID:  categoryID,
			CreatedAt:   createdAt,
		})
		m.refreshHeatmap()

		return m, m.createExpense(duit.CreateExpenseRequest{
			Amount:      amount,
			Description: description,
			CategoryID:  categoryID,
			CreatedAt:   createdAt,
		}, tempID)
	}

	updated := *editing
	updated.Amount = amount
	updated.Description = description
	updated.CategoryID = categoryID
	if daykey.FromTime(editing.CreatedAt, m.loc) != day {
		updated.CreatedAt = createdAt
	}

	m.cache.Edit(updated)
	m.refreshHeatmap()

	update := duit.UpdateExpenseRequest{
		Amount:      ptr(amount),
		Description: ptr(description),
		CategoryID:  ptr(categoryID),
	}
	if updated.CreatedAt != editing.CreatedAt {
		update.CreatedAt = ptr(updated.CreatedAt)
	}

	return m, m.updateExpense(editing.ID, update)
}

// newFilterForm builds the filter form for the expense list. Saved
// presets, when any exist, can be applied instead of filling the
// fields; a name in "Save as preset" stores the result for next time.
func (m model) newFilterForm() *huh.Form {
	categoryOpts := make([]huh.Option[int64], 0, len(m.categories)+1)
	categoryOpts = append(categoryOpts, huh.NewOption("Any category", int64(0)))
	for _, c := range m.categories {
		categoryOpts = append(categoryOpts, huh.NewOption(c.Name, c.ID))
	}

	presetOpts := make([]huh.Option[int], 0, len(m.presets)+1)
	presetOpts = append(presetOpts, huh.NewOption("(none)", -1))
	for i, p := range m.presets {
		presetOpts = append(presetOpts, huh.NewOption(p.Name, i))
	}
	presetChoice := -1

	optionalInt := func(s string) error {
		if s == "" {
			return nil
		}
		if _, err := strconv.ParseInt(s, 10, 64); err != nil {
			return fmt.Errorf("must be a whole number of rupiah")
		}
		return nil
	}
	optionalDate := func(s string) error {
		if s == "" {
			return nil
		}
		if _, err := daykey.Parse(s); err != nil {
			return fmt.Errorf("must be YYYY-MM-DD")
		}
		return nil
	}

	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewSelect[int64]().
				Title("Category").
				Options(categoryOpts...).
				Key("category"),

			huh.NewInput().
				Title("Min amount").
				Key("min_amount").
				Placeholder("leave empty for no minimum").
				Validate(optionalInt),

			huh.NewInput().
				Title("Max amount").
				Key("max_amount").
				Placeholder("leave empty for no maximum").
				Validate(optionalInt),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("From day").
				Key("after").
				Placeholder("YYYY-MM-DD").
				Validate(optionalDate),

			huh.NewInput().
				Title("To day").
				Key("before").
				Placeholder("YYYY-MM-DD").
				Validate(optionalDate),

			huh.NewInput().
				Title("Description contains").
				Key("description"),

			huh.NewInput().
				Title("Save as preset").
				Key("save_as").
				Placeholder("leave empty to apply once"),
		),
	}

	if len(m.presets) > 0 {
		presetGroup := huh.NewGroup(
			huh.NewSelect[int]().
				Title("Apply saved preset").
				Description("Overrides the fields below when set").
				Options(presetOpts...).
				Key("preset").
				Value(&presetChoice),
		)
		groups = append([]*huh.Group{presetGroup}, groups...)
	}

	return huh.NewForm(groups...)
}

func updateFilterForm(msg tea.Msg, m model) (tea.Model, tea.Cmd) {
	form, formCmd := m.expenseForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.expenseForm = f
	} else {
		log.Debug("filter form did not return a form, returning nil")
		return m, nil
	}

	if m.expenseForm.State == huh.StateCompleted {
		filters := m.filtersFromForm()

		if name := strings.TrimSpace(m.expenseForm.GetString("save_as")); name != "" {
			m.savePreset(viewstate.NewPreset(name, filters, m.loc))
		}

		m.expenseForm = nil
		m.sessionState = expensesState
		m.view.SetFilters(filters)
		return m, m.refreshExpenses
	}

	return m, formCmd
}

func (m model) filtersFromForm() duit.ExpenseFilters {
	// an applied preset wins over whatever the fields hold
	if idx, ok := m.expenseForm.Get("preset").(int); ok && idx >= 0 && idx < len(m.presets) {
		filters, err := m.presets[idx].Filters(m.loc)
		if err == nil {
			return filters
		}
		log.Debug("saved preset could not be applied", "error", err)
	}

	var filters duit.ExpenseFilters

	if id, ok := m.expenseForm.Get("category").(int64); ok {
		filters.CategoryID = id
	}
	if s := m.expenseForm.GetString("min_amount"); s != "" {
		filters.MinAmount, _ = strconv.ParseInt(s, 10, 64)
	}
	if s := m.expenseForm.GetString("max_amount"); s != "" {
		filters.MaxAmount, _ = strconv.ParseInt(s, 10, 64)
	}
	if s := m.expenseForm.GetString("after"); s != "" {
		if day, err := daykey.Parse(s); err == nil {
			filters.CreatedAfter, _ = day.Range(m.loc)
		}
	}
	if s := m.expenseForm.GetString("before"); s != "" {
		if day, err := daykey.Parse(s); err == nil {
			_, filters.CreatedBefore = day.Range(m.loc)
		}
	}
	filters.Description = m.expenseForm.GetString("description")

	return filters
}
