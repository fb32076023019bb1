package main

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/aryapratama/duittui/daykey"
	"github.com/aryapratama/duittui/duit"
	"github.com/aryapratama/duittui/heatmap"
	"github.com/aryapratama/duittui/quickadd"
)

const apiTimeout = 10 * time.Second

// Message types for different API responses.
type (
	getSummaryMsg struct {
		report *duit.SummaryReport
		err    error
	}

	// getExpensesMsg refreshes the expense list according to the
	// current view state.
	getExpensesMsg struct {
		expenses []duit.Expense
		err      error
	}

	// reconcileExpensesMsg carries the broad record window that feeds
	// the heatmap and day buckets. seq identifies which reconciling
	// fetch produced it.
	reconcileExpensesMsg struct {
		records []duit.Expense
		seq     int
		err     error
	}

	expenseCreatedMsg struct {
		expense *duit.Expense
		tempID  int64
		err     error
	}

	expenseUpdatedMsg struct {
		expense *duit.Expense
		err     error
	}

	expenseDeletedMsg struct {
		id  int64
		err error
	}

	// deleteExpenseRequestMsg and editExpenseRequestMsg bubble up from
	// the list delegate so the optimistic cache update happens in the
	// main update loop.
	deleteExpenseRequestMsg struct {
		expense duit.Expense
	}

	editExpenseRequestMsg struct {
		expense duit.Expense
	}

	// dayExpensesMsg carries the complete record set of one local day,
	// fetched when that day is opened from the heatmap. The cache only
	// mirrors the bounded reconcile window, so older days need their
	// own query.
	dayExpensesMsg struct {
		day     daykey.Day
		records []duit.Expense
		err     error
	}

	authErrorMsg struct {
		err error
	}
)

// Message handlers.
func (m model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width, m.height = msg.Width, msg.Height
	h, v := m.styles.docStyle.GetFrameSize()

	takenHeight := 5
	m.overview.SetSize(msg.Width-h, msg.Height-v-takenHeight)
	m.overview.Viewport.Width = msg.Width
	m.overview.Viewport.Height = msg.Height - takenHeight

	m.heatmap.SetSize(msg.Width-h, msg.Height-v-takenHeight)
	m.expenses.SetSize(msg.Width-h, msg.Height-v-takenHeight)
	m.dayList.SetSize(msg.Width-h, msg.Height-v-takenHeight)

	m.help.Width = msg.Width

	if m.expenseForm != nil {
		m.expenseForm = m.expenseForm.WithHeight(msg.Height - 5).WithWidth(msg.Width)
	}

	return m, nil
}

func (m model) handleSpinnerTick(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	if m.sessionState != loading {
		return m, nil
	}

	var cmd tea.Cmd
	m.loadingSpinner, cmd = m.loadingSpinner.Update(msg)
	return m, cmd
}

func (m model) handleGetSummary(msg getSummaryMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.Debug("summary fetch failed", "error", msg.err)
		m.loadingState.set("summary")
		m.sessionState = m.checkIfLoading()
		return m, nil
	}

	m.overview.SetReport(msg.report)
	m.loadingState.set("summary")
	m.sessionState = m.checkIfLoading()

	return m, nil
}

func (m model) handleGetExpenses(msg getExpensesMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.expenses.NewStatusMessage("Error loading expenses: " + msg.err.Error())
	}

	items := make([]list.Item, len(msg.expenses))
	for i, e := range msg.expenses {
		items[i] = expenseItem{
			expense:  e,
			category: m.idToCategory[e.CategoryID],
			loc:      m.loc,
		}
	}

	return m, m.expenses.SetItems(items)
}

func (m model) handleReconcileExpenses(msg reconcileExpensesMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.fetchSeq {
		// a newer fetch is already in flight or has landed
		log.Debug("dropping stale reconcile response", "seq", msg.seq, "current", m.fetchSeq)
		return m, nil
	}

	if msg.err != nil {
		log.Debug("reconcile fetch failed", "error", msg.err)
		m.loadingState.set("expenses")
		m.sessionState = m.checkIfLoading()
		return m, nil
	}

	m.cache.ReplaceAll(msg.records)
	m.refreshHeatmap()

	if m.sessionState == dayDetailState {
		m.rebuildDayList()
	}

	m.loadingState.set("expenses")
	m.sessionState = m.checkIfLoading()

	return m, nil
}

func (m model) handleExpenseCreated(msg expenseCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// roll the optimistic insert back and let the reconcile
		// restore whatever the server actually holds
		m.cache.Remove(msg.tempID)
		m.refreshHeatmap()
		return m, tea.Batch(
			m.afterMutation(),
			m.expenses.NewStatusMessage("Error recording expense: "+msg.err.Error()),
		)
	}

	// swap the placeholder for the server-assigned record
	m.cache.Remove(msg.tempID)
	m.cache.Add(*msg.expense)
	m.refreshHeatmap()

	return m, tea.Batch(
		m.afterMutation(),
		m.expenses.NewStatusMessage(m.styles.successStyle.Render("Expense recorded")),
	)
}

func (m model) handleExpenseUpdated(msg expenseUpdatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, tea.Batch(
			m.afterMutation(),
			m.expenses.NewStatusMessage("Error updating expense: "+msg.err.Error()),
		)
	}

	m.cache.Edit(*msg.expense)
	m.refreshHeatmap()

	return m, tea.Batch(
		m.afterMutation(),
		m.expenses.NewStatusMessage(m.styles.successStyle.Render("Expense updated")),
	)
}

func (m model) handleExpenseDeleted(msg expenseDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, tea.Batch(
			m.afterMutation(),
			m.expenses.NewStatusMessage("Error deleting expense: "+msg.err.Error()),
		)
	}

	return m, tea.Batch(
		m.afterMutation(),
		m.expenses.NewStatusMessage(m.styles.successStyle.Render("Expense deleted")),
	)
}

func (m model) handleDeleteRequest(msg deleteExpenseRequestMsg) (tea.Model, tea.Cmd) {
	// optimistic removal keeps the heatmap and day buckets honest
	// before the server answers
	m.cache.Remove(msg.expense.ID)
	m.refreshHeatmap()
	if m.sessionState == dayDetailState {
		m.rebuildDayList()
	}

	return m, m.deleteExpense(msg.expense.ID)
}

func (m model) handleEditRequest(msg editExpenseRequestMsg) (tea.Model, tea.Cmd) {
	expense := msg.expense
	m.editing = &expense
	m.expenseForm = m.newExpenseForm(&expense)
	m.previousSessionState = m.sessionState
	m.sessionState = editExpenseState

	return m, tea.Batch(m.expenseForm.Init(), tea.WindowSize())
}

func (m model) handleDaySelected(msg heatmap.DaySelectedMsg) (tea.Model, tea.Cmd) {
	m.selectedDay = msg.Day
	m.previousSessionState = m.sessionState
	m.sessionState = dayDetailState

	// the cache bucket renders immediately; the day query fills in
	// anything that fell outside the reconcile window
	m.rebuildDayList()

	return m, tea.Batch(m.fetchDayExpenses(msg.Day), tea.WindowSize())
}

func (m model) handleDayExpenses(msg dayExpensesMsg) (tea.Model, tea.Cmd) {
	if msg.day != m.selectedDay || m.sessionState != dayDetailState {
		log.Debug("dropping day fetch for a day no longer shown", "day", msg.day)
		return m, nil
	}

	if msg.err != nil {
		log.Debug("day fetch failed, keeping the cache bucket", "day", msg.day, "error", msg.err)
		return m, nil
	}

	// optimistic inserts the server has not confirmed yet still carry
	// placeholder IDs; keep them alongside the fetched records
	records := msg.records
	for _, e := range m.cache.Bucket(msg.day) {
		if e.ID < 0 {
			records = append(records, e)
		}
	}

	m.setDayItems(records)

	return m, nil
}

// rebuildDayList reloads the day drill-down from the cache bucket of
// the selected day.
func (m *model) rebuildDayList() {
	m.setDayItems(m.cache.Bucket(m.selectedDay))
}

func (m *model) setDayItems(records []duit.Expense) {
	items := make([]list.Item, len(records))
	for i, e := range records {
		items[i] = expenseItem{
			expense:  e,
			category: m.idToCategory[e.CategoryID],
			loc:      m.loc,
		}
	}

	m.dayList.Title = m.selectedDay.String()
	m.dayList.SetItems(items)
}

// API call functions.
func (m model) getSummary() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
	defer cancel()

	report, err := m.client.GetSummary(ctx)
	if err != nil {
		return getSummaryMsg{err: err}
	}

	return getSummaryMsg{report: report}
}

// refreshExpenses reloads the expense list the way the current view
// state asks for: every page when showing all, one filtered query
// otherwise.
func (m model) refreshExpenses() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
	defer cancel()

	var (
		expenses []duit.Expense
		err      error
	)
	if m.view.NeedsFullFetch() {
		expenses, err = m.client.FetchAllExpenses(ctx, duit.ExpenseFilters{})
	} else {
		expenses, err = m.client.GetExpenses(ctx, m.view.Filters())
	}
	if err != nil {
		return getExpensesMsg{err: err}
	}

	return getExpensesMsg{expenses: expenses}
}

func (m model) reconcileExpenses(seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()

		records, err := m.client.GetExpenses(ctx, duit.ExpenseFilters{
			SortBy: "created_at",
			Order:  "desc",
			Limit:  reconcileFetchLimit,
		})
		if err != nil {
			return reconcileExpensesMsg{seq: seq, err: err}
		}

		return reconcileExpensesMsg{records: records, seq: seq}
	}
}

// fetchDayExpenses queries every record of one local day, bounded by
// the day's closed range in the viewing zone.
func (m model) fetchDayExpenses(day daykey.Day) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()

		start, end := day.Range(m.loc)
		records, err := m.client.GetExpenses(ctx, duit.ExpenseFilters{
			CreatedAfter:  start,
			CreatedBefore: end,
			SortBy:        "created_at",
			Order:         "asc",
		})
		if err != nil {
			return dayExpensesMsg{day: day, err: err}
		}

		return dayExpensesMsg{day: day, records: records}
	}
}

func (m model) createExpense(create duit.CreateExpenseRequest, tempID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()

		if create.CategoryID == 0 && m.suggester != nil {
			if id, err := m.suggester.SuggestCategory(ctx, create.Description, m.categories); err == nil {
				create.CategoryID = id
			} else {
				log.Debug("category suggestion failed", "error", err)
			}
		}
		if create.CategoryID == 0 {
			def, err := quickadd.DefaultCategory(m.categories)
			if err != nil {
				return expenseCreatedMsg{tempID: tempID, err: err}
			}
			create.CategoryID = def.ID
		}

		expense, err := m.client.CreateExpense(ctx, create)
		if err != nil {
			return expenseCreatedMsg{tempID: tempID, err: err}
		}

		return expenseCreatedMsg{expense: expense, tempID: tempID}
	}
}

func (m model) updateExpense(id int64, update duit.UpdateExpenseRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()

		expense, err := m.client.UpdateExpense(ctx, id, update)
		if err != nil {
			return expenseUpdatedMsg{err: err}
		}

		return expenseUpdatedMsg{expense: expense}
	}
}

func (m model) deleteExpense(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()

		if err := m.client.DeleteExpense(ctx, id); err != nil {
			return expenseDeletedMsg{id: id, err: err}
		}

		return expenseDeletedMsg{id: id}
	}
}

type initialLoadMsg struct {
	categories []duit.Category
	report     *duit.SummaryReport
}

// initialLoad fetches categories and the summary together before the
// first render. A failure here usually means a bad token or URL, so it
// surfaces as an auth error rather than a status message.
func (m model) initialLoad() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
	defer cancel()

	var (
		errGroup   errgroup.Group
		categories []duit.Category
		report     *duit.SummaryReport
	)

	errGroup.Go(func() error {
		cs, err := m.client.GetCategories(ctx)
		if err != nil {
			return err
		}
		categories = cs
		return nil
	})

	errGroup.Go(func() error {
		r, err := m.client.GetSummary(ctx)
		if err != nil {
			return err
		}
		report = r
		return nil
	})

	if err := errGroup.Wait(); err != nil {
		return authErrorMsg{err: err}
	}

	return initialLoadMsg{categories: categories, report: report}
}

func (m model) handleInitialLoad(msg initialLoadMsg) (tea.Model, tea.Cmd) {
	m.categories = msg.categories
	m.idToCategory = make(map[int64]duit.Category, len(msg.categories))
	for _, c := range msg.categories {
		m.idToCategory[c.ID] = c
	}
	m.loadingState.set("categories")

	m.overview.SetReport(msg.report)
	m.loadingState.set("summary")

	m.sessionState = m.checkIfLoading()
	return m, tea.WindowSize()
}
