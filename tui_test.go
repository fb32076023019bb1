package main

import (
	"errors"
	"testing"
	"time"

	"github.com/carlmjohnson/be"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/aryapratama/duittui/dailycache"
	"github.com/aryapratama/duittui/daykey"
	"github.com/aryapratama/duittui/duit"
	"github.com/aryapratama/duittui/heatmap"
	"github.com/aryapratama/duittui/overview"
	"github.com/aryapratama/duittui/viewstate"
)

var errTest = errors.New("server unavailable")

func newTestModel() model {
	theme := newTheme(Colors{})
	m := model{
		keys:         initializeKeyMap(),
		theme:        theme,
		styles:       newStyles(theme),
		loadingState: newLoadingState("categories", "summary", "expenses"),
		sessionState: dashboardState,
		loc:          time.UTC,
		cache:        dailycache.New(time.UTC),
		view:         &viewstate.State{},
		overview:     overview.New(),
		heatmap: heatmap.New(heatmap.Colors{
			Primary: string(theme.Primary),
			Muted:   string(theme.Muted),
		}),
		nextTempID: -1,
	}

	m.expenseKeys = newExpenseListKeyMap()
	delegate := m.newExpenseDelegate(m.expenseKeys)
	m.expenses = list.New([]list.Item{}, delegate, 0, 0)
	m.dayList = list.New([]list.Item{}, delegate, 0, 0)

	return m
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestExpensesNavigation(t *testing.T) {
	m := newTestModel()

	resultModel, cmd := handleKeyPress(keyPress('e'), &m)
	result := resultModel.(*model)

	be.Equal(t, expensesState, result.sessionState)
	be.Equal(t, dashboardState, result.previousSessionState)
	be.Nonzero(t, cmd)
}

func TestDashboardNavigation(t *testing.T) {
	m := newTestModel()
	m.sessionState = expensesState

	resultModel, cmd := handleKeyPress(keyPress('o'), &m)
	result := resultModel.(*model)

	be.Equal(t, dashboardState, result.sessionState)
	be.Nonzero(t, cmd)
}

func TestTodayAndShowAllSwitchViewState(t *testing.T) {
	m := newTestModel()
	m.sessionState = expensesState

	resultModel, cmd := handleKeyPress(keyPress('t'), &m)
	result := resultModel.(*model)
	be.Equal(t, viewstate.ModeToday, result.view.Mode())
	be.Nonzero(t, cmd)

	resultModel, cmd = handleKeyPress(keyPress('A'), result)
	result = resultModel.(*model)
	be.Equal(t, viewstate.ModeAll, result.view.Mode())
	be.Nonzero(t, cmd)
}

func TestHandleEscape(t *testing.T) {
	tests := []struct {
		name          string
		initialState  sessionState
		expectedState sessionState
		expenseForm   *huh.Form
		expectedForm  huh.FormState
		previousState sessionState
	}{
		{
			name:          "from add expense state",
			initialState:  addExpenseState,
			expectedState: expensesState,
			expenseForm:   &huh.Form{State: huh.StateNormal},
			expectedForm:  huh.StateAborted,
			previousState: expensesState,
		},
		{
			name:          "from filter state",
			initialState:  filterState,
			expectedState: expensesState,
			expenseForm:   &huh.Form{State: huh.StateNormal},
			expectedForm:  huh.StateAborted,
			previousState: expensesState,
		},
		{
			name:          "from expenses state",
			initialState:  expensesState,
			expectedState: dashboardState,
			previousState: expensesState,
		},
		{
			name:          "from day detail state",
			initialState:  dayDetailState,
			expectedState: dashboardState,
			previousState: dashboardState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel()
			m.sessionState = tt.initialState
			m.previousSessionState = tt.previousState
			m.expenseForm = tt.expenseForm

			resultModel, _ := handleEscape(tea.KeyMsg{Type: tea.KeyEsc}, &m)
			result := resultModel.(*model)

			be.Equal(t, tt.expectedState, result.sessionState)
			if tt.expenseForm != nil {
				be.Equal(t, tt.expectedForm, result.expenseForm.State)
			}
		})
	}
}

func TestEscapeClosesQuickAdd(t *testing.T) {
	m := newTestModel()
	m.sessionState = expensesState
	m.quickActive = true

	resultModel, _ := handleEscape(tea.KeyMsg{Type: tea.KeyEsc}, &m)
	result := resultModel.(*model)

	be.False(t, result.quickActive)
	be.Equal(t, expensesState, result.sessionState)
}

func TestStaleReconcileResponseDropped(t *testing.T) {
	m := newTestModel()
	m.fetchSeq = 2
	m.cache.ReplaceAll([]duit.Expense{
		{ID: 1, Amount: 15000, CategoryID: 1, CreatedAt: time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)},
	})

	// a response from fetch #1 arrives after fetch #2 was issued
	m.handleReconcileExpenses(reconcileExpensesMsg{records: nil, seq: 1})

	be.Equal(t, 1, len(m.cache.All()))
}

func TestCurrentReconcileResponseApplied(t *testing.T) {
	m := newTestModel()
	m.fetchSeq = 3

	records := []duit.Expense{
		{ID: 1, Amount: 15000, CategoryID: 1, CreatedAt: time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)},
		{ID: 2, Amount: 20000, CategoryID: 1, CreatedAt: time.Date(2024, 5, 2, 13, 0, 0, 0, time.UTC)},
	}
	m.handleReconcileExpenses(reconcileExpensesMsg{records: records, seq: 3})

	be.Equal(t, 2, len(m.cache.All()))
}

func TestDeleteRequestRemovesOptimistically(t *testing.T) {
	m := newTestModel()
	e := duit.Expense{ID: 7, Amount: 30000, CategoryID: 1, CreatedAt: time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)}
	m.cache.Add(e)

	_, cmd := m.handleDeleteRequest(deleteExpenseRequestMsg{expense: e})

	be.Equal(t, 0, len(m.cache.All()))
	be.Nonzero(t, cmd)
}

func TestCreateErrorRollsBackPlaceholder(t *testing.T) {
	m := newTestModel()
	m.cache.Add(duit.Expense{ID: -1, Amount: 25000, CreatedAt: time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)})

	resultModel, cmd := m.handleExpenseCreated(expenseCreatedMsg{tempID: -1, err: errTest})
	result := resultModel.(model)

	be.Equal(t, 0, len(result.cache.All()))
	be.Nonzero(t, cmd)
}

func TestCreateSwapsPlaceholderForServerRecord(t *testing.T) {
	m := newTestModel()
	created := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	m.cache.Add(duit.Expense{ID: -1, Amount: 25000, CreatedAt: created})

	expense := &duit.Expense{ID: 42, Amount: 25000, CategoryID: 1, CreatedAt: created}
	resultModel, _ := m.handleExpenseCreated(expenseCreatedMsg{expense: expense, tempID: -1})
	result := resultModel.(model)

	all := result.cache.All()
	be.Equal(t, 1, len(all))
	be.Equal(t, int64(42), all[0].ID)
}

func TestDaySelectionIssuesDayFetch(t *testing.T) {
	// the cache only mirrors the bounded reconcile window, so opening a
	// day must also query that day directly
	m := newTestModel()
	day := daykey.FromTime(time.Date(2023, 1, 15, 12, 0, 0, 0, time.UTC), time.UTC)

	resultModel, cmd := m.handleDaySelected(heatmap.DaySelectedMsg{Day: day})
	result := resultModel.(model)

	be.Equal(t, dayDetailState, result.sessionState)
	be.Equal(t, day, result.selectedDay)
	be.Nonzero(t, cmd)
}

func TestDayExpensesOutsideReconcileWindowShown(t *testing.T) {
	m := newTestModel()
	created := time.Date(2023, 1, 15, 12, 0, 0, 0, time.UTC)
	day := daykey.FromTime(created, time.UTC)
	m.selectedDay = day
	m.sessionState = dayDetailState
	m.rebuildDayList()
	be.Equal(t, 0, len(m.dayList.Items()))

	// the record is absent from the cache but comes back from the
	// per-day query
	resultModel, _ := m.handleDayExpenses(dayExpensesMsg{
		day:     day,
		records: []duit.Expense{{ID: 9, Amount: 40000, CategoryID: 1, CreatedAt: created}},
	})
	result := resultModel.(model)

	be.Equal(t, 1, len(result.dayList.Items()))
}

func TestDayExpensesForAnotherDayDropped(t *testing.T) {
	m := newTestModel()
	created := time.Date(2023, 1, 15, 12, 0, 0, 0, time.UTC)
	m.selectedDay = daykey.FromTime(created, time.UTC)
	m.sessionState = dayDetailState

	resultModel, _ := m.handleDayExpenses(dayExpensesMsg{
		day:     m.selectedDay.AddDays(-1),
		records: []duit.Expense{{ID: 9, Amount: 40000, CreatedAt: created.AddDate(0, 0, -1)}},
	})
	result := resultModel.(model)

	be.Equal(t, 0, len(result.dayList.Items()))
}

func TestDayExpensesKeepOptimisticPlaceholders(t *testing.T) {
	m := newTestModel()
	created := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	day := daykey.FromTime(created, time.UTC)
	m.selectedDay = day
	m.sessionState = dayDetailState
	m.cache.Add(duit.Expense{ID: -1, Amount: 25000, CreatedAt: created})

	resultModel, _ := m.handleDayExpenses(dayExpensesMsg{
		day:     day,
		records: []duit.Expense{{ID: 9, Amount: 40000, CategoryID: 1, CreatedAt: created}},
	})
	result := resultModel.(model)

	be.Equal(t, 2, len(result.dayList.Items()))
}

func TestSavePresetReplacesByName(t *testing.T) {
	m := newTestModel()

	m.savePreset(viewstate.NewPreset("bulanan", duit.ExpenseFilters{CategoryID: 1}, m.loc))
	m.savePreset(viewstate.NewPreset("murah", duit.ExpenseFilters{MaxAmount: 5000}, m.loc))
	be.Equal(t, 2, len(m.presets))

	m.savePreset(viewstate.NewPreset("bulanan", duit.ExpenseFilters{CategoryID: 3}, m.loc))

	be.Equal(t, 2, len(m.presets))
	be.Equal(t, int64(3), m.presets[0].CategoryID)
}

func TestMutationBumpsFetchSequence(t *testing.T) {
	m := newTestModel()
	before := m.fetchSeq

	resultModel, cmd := m.handleExpenseDeleted(expenseDeletedMsg{id: 7})
	result := resultModel.(model)

	be.True(t, result.fetchSeq > before)
	be.Nonzero(t, cmd)
}

func TestSessionStateString(t *testing.T) {
	tests := []struct {
		state sessionState
		want  string
	}{
		{dashboardState, "dashboard"},
		{expensesState, "expenses"},
		{dayDetailState, "day details"},
		{addExpenseState, "add expense"},
		{editExpenseState, "edit expense"},
		{filterState, "filter expenses"},
		{loading, "loading"},
		{errorState, "error"},
		{sessionState(99), "unknown"},
	}

	for _, tt := range tests {
		be.Equal(t, tt.want, tt.state.String())
	}
}

func TestExpenseItem(t *testing.T) {
	e := expenseItem{
		expense: duit.Expense{
			ID:          1,
			Amount:      25000,
			Description: "nasi goreng",
			CategoryID:  2,
			CreatedAt:   time.Date(2024, 5, 2, 5, 0, 0, 0, time.UTC),
		},
		category: duit.Category{ID: 2, Name: "makanan"},
		loc:      time.FixedZone("WIB", 7*60*60),
	}

	be.Equal(t, "nasi goreng", e.Title())
	be.In(t, "2024-05-02 12:00", e.Description())
	be.In(t, "makanan", e.Description())
	be.In(t, "nasi goreng", e.FilterValue())
}

func TestExpenseItemFallsBackToCategoryTitle(t *testing.T) {
	e := expenseItem{
		expense:  duit.Expense{ID: 1, Amount: 25000, CategoryID: 2},
		category: duit.Category{ID: 2, Name: "makanan"},
		loc:      time.UTC,
	}

	be.Equal(t, "makanan", e.Title())
}
