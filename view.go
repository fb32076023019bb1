package main

import (
	"fmt"
	"strings"
)

func (m model) View() string {
	var b strings.Builder

	b.WriteString(m.renderTitle())
	b.WriteString("\n\n")

	switch m.sessionState {
	case dashboardState:
		b.WriteString(m.overview.View())
		b.WriteString("\n")
		b.WriteString(m.heatmap.View())
	case expensesState:
		b.WriteString(expensesView(m))
	case dayDetailState:
		b.WriteString(m.dayList.View())
	case addExpenseState, editExpenseState, filterState:
		b.WriteString(m.expenseForm.View())
	case loading:
		b.WriteString(fmt.Sprintf("%s Loading data...", m.loadingSpinner.View()))
	case errorState:
		b.WriteString(m.styles.errorStyle.Render(fmt.Sprintf("%s - 'q' to quit", m.errorMsg)))
		return m.styles.docStyle.Render(b.String())
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return m.styles.docStyle.Render(b.String())
}

func (m model) renderTitle() string {
	title := fmt.Sprintf("duittui | %s", m.sessionState.String())

	if m.sessionState == expensesState {
		title = fmt.Sprintf("%s | %s", title, m.view.Mode().String())
	}
	if m.sessionState == dayDetailState {
		title = fmt.Sprintf("duittui | %s", m.selectedDay.String())
	}

	return m.styles.titleStyle.Render(title)
}
