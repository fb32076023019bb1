package main

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
)

type keyMap struct {
	dashboard key.Binding
	expenses  key.Binding
	today     key.Binding
	showAll   key.Binding
	escape    key.Binding
	fullHelp  key.Binding
	quit      key.Binding
}

func (km keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		km.dashboard,
		km.expenses,
		km.quit,
		km.fullHelp,
	}
}

func (km keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{
			km.dashboard,
			km.expenses,
			km.quit,
			km.fullHelp,
		},
		{
			km.today,
			km.showAll,
			km.escape,
		},
	}
}

func initializeKeyMap() keyMap {
	return keyMap{
		dashboard: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "dashboard"),
		),
		expenses: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "expenses"),
		),
		today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today's expenses"),
		),
		showAll: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "all expenses"),
		),
		escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "escape"),
		),
		fullHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func handleKeyPress(msg tea.KeyMsg, m *model) (tea.Model, tea.Cmd) {
	k := msg.String()
	log.Debug("key pressed", "key", k)

	// Handle special keys first
	if model, cmd := handleSpecialKeys(msg, m); cmd != nil {
		return model, cmd
	}

	// Check if input is blocked by active forms
	if isInputBlocked(m) {
		return m, nil
	}

	// Handle session state changes
	if model, cmd := handleSessionStateKeys(msg, m); cmd != nil {
		return model, cmd
	}

	return m, nil
}

func handleSpecialKeys(msg tea.KeyMsg, m *model) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) && !m.quickActive {
		return m, tea.Quit
	}

	if key.Matches(msg, m.keys.escape) {
		return handleEscape(msg, m)
	}

	return m, nil
}

func isInputBlocked(m *model) bool {
	if m.expenses.FilterState() == list.Filtering {
		return true
	}

	if m.expenseForm != nil && m.expenseForm.State == huh.StateNormal {
		return true
	}

	if m.quickActive {
		return true
	}

	if m.sessionState == loading {
		return true
	}

	return false
}

func handleSessionStateKeys(msg tea.KeyMsg, m *model) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.expenses):
		if m.sessionState != expensesState {
			m.previousSessionState = m.sessionState
			m.sessionState = expensesState
			return m, m.refreshExpenses
		}

	case key.Matches(msg, m.keys.dashboard):
		if m.sessionState != dashboardState {
			m.previousSessionState = m.sessionState
			m.sessionState = dashboardState
			m.heatmap.SetFocus(true)
			return m, tea.Batch(m.getSummary, m.reconcileNow())
		}

	case key.Matches(msg, m.keys.today):
		if m.sessionState == expensesState {
			m.view.SetToday(m.loc)
			return m, m.refreshExpenses
		}

	case key.Matches(msg, m.keys.showAll):
		if m.sessionState == expensesState {
			m.view.SetAll()
			return m, m.refreshExpenses
		}

	case key.Matches(msg, m.keys.fullHelp):
		if m.sessionState != expensesState {
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	return m, nil
}

// handleEscape backs out of forms and detail views, landing on the
// dashboard as the final fallback.
func handleEscape(msg tea.KeyMsg, m *model) (tea.Model, tea.Cmd) {
	if m.quickActive {
		m.quickActive = false
		m.quickInput.Blur()
		m.quickInput.Reset()
		return m, m.refreshExpenses
	}

	if m.sessionState == addExpenseState || m.sessionState == editExpenseState || m.sessionState == filterState {
		log.Debug("handling escape in form state", "state", m.sessionState.String())
		if m.expenseForm != nil {
			m.expenseForm.State = huh.StateAborted
		}
		m.editing = nil
		m.sessionState = m.previousSessionState
		return m, m.refreshExpenses
	}

	// handle if user is filtering the expense list and presses escape
	if m.sessionState == expensesState && m.expenses.FilterState() == list.Filtering {
		log.Debug("handling escape in expense list filtering")
		var cmd tea.Cmd
		m.expenses, cmd = m.expenses.Update(msg)
		return m, cmd
	}

	if m.sessionState == dayDetailState {
		m.sessionState = dashboardState
		m.heatmap.SetFocus(true)
		return m, m.reconcileNow()
	}

	m.previousSessionState = m.sessionState
	m.sessionState = dashboardState
	m.heatmap.SetFocus(true)
	return m, m.reconcileNow()
}
