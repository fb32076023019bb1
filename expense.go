package main

import (
	"fmt"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aryapratama/duittui/duit"
	"github.com/aryapratama/duittui/quickadd"
)

// expenseItem adapts a duit.Expense to the bubbles list.
type expenseItem struct {
	expense  duit.Expense
	category duit.Category
	loc      *time.Location
}

func (e expenseItem) Title() string {
	if e.expense.Description != "" {
		return e.expense.Description
	}
	return e.category.Name
}

func (e expenseItem) Description() string {
	category := e.category.Name
	if category == "" {
		category = fmt.Sprintf("category %d", e.expense.CategoryID)
	}

	return fmt.Sprintf("%s  %s  %s",
		e.expense.CreatedAt.In(e.loc).Format("2006-01-02 15:04"),
		category,
		money.New(e.expense.Amount, money.IDR).Display(),
	)
}

func (e expenseItem) FilterValue() string {
	return e.expense.Description + " " + e.category.Name
}

type expenseListKeyMap struct {
	addExpense key.Binding
	quickAdd   key.Binding
	filter     key.Binding
	today      key.Binding
	showAll    key.Binding
	edit       key.Binding
	delete     key.Binding
}

func newExpenseListKeyMap() *expenseListKeyMap {
	return &expenseListKeyMap{
		addExpense: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add expense"),
		),
		quickAdd: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "quick add"),
		),
		filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter expenses"),
		),
		today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),
		showAll: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "show all"),
		),
		edit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit"),
		),
		delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete"),
		),
	}
}

// newExpenseDelegate builds the list delegate with the per-item edit
// and delete actions. The delegate only emits request messages; the
// optimistic cache work happens in the main update loop.
func (m model) newExpenseDelegate(keys *expenseListKeyMap) list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.AdaptiveColor{Light: string(m.theme.Primary), Dark: string(m.theme.Primary)}).
		Foreground(lipgloss.AdaptiveColor{Light: string(m.theme.Primary), Dark: string(m.theme.Primary)}).
		Padding(0, 0, 0, 1)

	d.Styles.SelectedDesc = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: string(m.theme.Primary), Dark: string(m.theme.Primary)})

	d.UpdateFunc = func(msg tea.Msg, listModel *list.Model) tea.Cmd {
		keyMsg, ok := msg.(tea.KeyMsg)
		if !ok {
			return nil
		}

		item, isExpense := listModel.SelectedItem().(expenseItem)
		if !isExpense {
			return nil
		}

		switch {
		case key.Matches(keyMsg, keys.delete):
			return func() tea.Msg { return deleteExpenseRequestMsg{expense: item.expense} }
		case key.Matches(keyMsg, keys.edit):
			return func() tea.Msg { return editExpenseRequestMsg{expense: item.expense} }
		}

		return nil
	}

	help := []key.Binding{keys.edit, keys.delete}

	d.ShortHelpFunc = func() []key.Binding {
		return help
	}

	d.FullHelpFunc = func() [][]key.Binding {
		return [][]key.Binding{help}
	}

	return d
}

func updateExpenses(msg tea.Msg, m model) (tea.Model, tea.Cmd) {
	if m.quickActive {
		return updateQuickAdd(msg, m)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.expenses.FilterState() != list.Filtering {
		switch {
		case key.Matches(keyMsg, m.expenseKeys.addExpense):
			m.expenseForm = m.newExpenseForm(nil)
			m.previousSessionState = m.sessionState
			m.sessionState = addExpenseState
			return m, tea.Batch(m.expenseForm.Init(), tea.WindowSize())

		case key.Matches(keyMsg, m.expenseKeys.quickAdd):
			m.quickActive = true
			m.quickInput.Reset()
			return m, m.quickInput.Focus()

		case key.Matches(keyMsg, m.expenseKeys.filter):
			m.expenseForm = m.newFilterForm()
			m.previousSessionState = m.sessionState
			m.sessionState = filterState
			return m, tea.Batch(m.expenseForm.Init(), tea.WindowSize())
		}
	}

	var cmd tea.Cmd
	m.expenses, cmd = m.expenses.Update(msg)

	return m, cmd
}

// updateQuickAdd feeds input to the quick entry line until enter
// submits it or escape backs out.
func updateQuickAdd(msg tea.Msg, m model) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "enter" {
		raw := m.quickInput.Value()
		m.quickActive = false
		m.quickInput.Blur()
		m.quickInput.Reset()

		draft, err := quickadd.Parse(raw, time.Now().UTC())
		if err != nil {
			return m, m.expenses.NewStatusMessage(
				m.styles.warningStyle.Render(fmt.Sprintf("Could not find an amount in %q", raw)),
			)
		}

		return m.submitDraft(draft)
	}

	var cmd tea.Cmd
	m.quickInput, cmd = m.quickInput.Update(msg)
	return m, cmd
}

// submitDraft applies the optimistic insert for a quick-add draft and
// fires the remote create. Category 0 lets the create command pick a
// suggestion or the default category.
func (m model) submitDraft(draft quickadd.Draft) (tea.Model, tea.Cmd) {
	if len(m.categories) == 0 {
		return m, m.expenses.NewStatusMessage(
			m.styles.warningStyle.Render("No categories exist yet; create one first"),
		)
	}

	tempID := m.nextTempID
	m.nextTempID--

	def, _ := quickadd.DefaultCategory(m.categories)
	m.cache.Add(duit.Expense{
		ID:          tempID,
		Amount:      draft.Amount,
		Description: draft.Description,
		CategoryID:  def.ID,
		CreatedAt:   draft.CreatedAt,
	})
	m.refreshHeatmap()

	create := duit.CreateExpenseRequest{
		Amount:      draft.Amount,
		Description: draft.Description,
		CreatedAt:   draft.CreatedAt,
	}

	return m, m.createExpense(create, tempID)
}

func expensesView(m model) string {
	if m.quickActive {
		entry := m.styles.quickAddStyle.Render(
			m.styles.titleStyle.Render("Quick add") + "  " + m.quickInput.View(),
		)
		return lipgloss.JoinVertical(
			lipgloss.Left,
			entry,
			"",
			m.expenses.View(),
		)
	}

	return m.expenses.View()
}
