package main

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"

	"github.com/aryapratama/duittui/heatmap"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// always check for quit key first
	if msg, ok := msg.(tea.KeyMsg); ok {
		if model, cmd := handleKeyPress(msg, &m); cmd != nil {
			log.Debug("key press handled, cmd returned")
			return model, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case spinner.TickMsg:
		return m.handleSpinnerTick(msg)

	case initialLoadMsg:
		return m.handleInitialLoad(msg)

	case getSummaryMsg:
		return m.handleGetSummary(msg)

	case getExpensesMsg:
		return m.handleGetExpenses(msg)

	case reconcileExpensesMsg:
		return m.handleReconcileExpenses(msg)

	case expenseCreatedMsg:
		return m.handleExpenseCreated(msg)

	case expenseUpdatedMsg:
		return m.handleExpenseUpdated(msg)

	case expenseDeletedMsg:
		return m.handleExpenseDeleted(msg)

	case deleteExpenseRequestMsg:
		return m.handleDeleteRequest(msg)

	case editExpenseRequestMsg:
		return m.handleEditRequest(msg)

	case heatmap.DaySelectedMsg:
		return m.handleDaySelected(msg)

	case dayExpensesMsg:
		return m.handleDayExpenses(msg)

	case authErrorMsg:
		m.sessionState = errorState
		m.errorMsg = "Check your API token and base URL: " + msg.err.Error()
		return m, nil
	}

	var cmd tea.Cmd
	switch m.sessionState {
	case dashboardState:
		return updateDashboard(msg, m)

	case expensesState:
		return updateExpenses(msg, m)

	case dayDetailState:
		m.dayList, cmd = m.dayList.Update(msg)
		return m, cmd

	case addExpenseState, editExpenseState:
		return updateExpenseForm(msg, m)

	case filterState:
		return updateFilterForm(msg, m)

	case loading:
		m.loadingSpinner, cmd = m.loadingSpinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// updateDashboard routes input between the heatmap and the summary
// viewport that share the dashboard. Key events go to the heatmap
// cursor; everything else reaches both widgets.
func updateDashboard(msg tea.Msg, m model) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		var cmd tea.Cmd
		m.heatmap, cmd = m.heatmap.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd

	var heatmapCmd tea.Cmd
	m.heatmap, heatmapCmd = m.heatmap.Update(msg)
	cmds = append(cmds, heatmapCmd)

	var overviewCmd tea.Cmd
	m.overview, overviewCmd = m.overview.Update(msg)
	cmds = append(cmds, overviewCmd)

	return m, tea.Batch(cmds...)
}

func updateExpenseForm(msg tea.Msg, m model) (tea.Model, tea.Cmd) {
	form, formCmd := m.expenseForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.expenseForm = f
	} else {
		log.Debug("expense form did not return a form, returning nil")
		return m, nil
	}

	if m.expenseForm.State == huh.StateCompleted {
		return m.submitExpenseForm()
	}

	return m, formCmd
}

func ptr[T any](v T) *T { return &v }
