package main

const standardMargin = 2

// Session states
type sessionState int

const (
	dashboardState sessionState = iota
	expensesState
	dayDetailState
	addExpenseState
	editExpenseState
	filterState
	loading
	errorState
)

func (ss sessionState) String() string {
	switch ss {
	case dashboardState:
		return "dashboard"
	case expensesState:
		return "expenses"
	case dayDetailState:
		return "day details"
	case addExpenseState:
		return "add expense"
	case editExpenseState:
		return "edit expense"
	case filterState:
		return "filter expenses"
	case loading:
		return "loading"
	case errorState:
		return "error"
	}

	return "unknown"
}
