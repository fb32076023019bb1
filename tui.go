package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/aryapratama/duittui/dailycache"
	"github.com/aryapratama/duittui/daykey"
	"github.com/aryapratama/duittui/duit"
	"github.com/aryapratama/duittui/heatmap"
	"github.com/aryapratama/duittui/overview"
	"github.com/aryapratama/duittui/viewstate"
)

// reconcileFetchLimit bounds the broad fetch that feeds the heatmap and
// day buckets. Recent activity dominates the dashboard, so one bounded
// page is enough; the expense list can still page through everything.
const reconcileFetchLimit = 500

type model struct {
	keys   keyMap
	help   help.Model
	theme  Theme
	styles styles

	loadingSpinner spinner.Model
	loadingState   loadingState

	// sessionState is the current state of the session
	sessionState         sessionState
	previousSessionState sessionState
	errorMsg             string

	client *duit.Client
	// loc is the timezone all day bucketing happens in
	loc *time.Location

	overview overview.Model
	heatmap  heatmap.Model

	// expenses is a bubbletea list model of recorded expenses
	expenses    list.Model
	expenseKeys *expenseListKeyMap
	// dayList shows the expenses of the day selected on the heatmap
	dayList list.Model

	categories   []duit.Category
	idToCategory map[int64]duit.Category

	// cache holds the day-bucketed records behind the heatmap
	cache *dailycache.Cache
	// view decides how the expense list is refreshed after a mutation
	view *viewstate.State
	// presets are the named filters saved in the config file
	presets []viewstate.Preset

	selectedDay daykey.Day

	expenseForm *huh.Form
	// editing is the expense the edit form was opened for
	editing *duit.Expense

	quickInput  textinput.Model
	quickActive bool

	suggester categorySuggester

	width, height int

	// fetchSeq tags reconciling fetches so a stale response cannot
	// overwrite the cache after a newer fetch was issued
	fetchSeq int
	// nextTempID hands out placeholder IDs for optimistic inserts
	nextTempID int64
}

func rootAction(ctx context.Context, config Config, client *duit.Client) error {
	m := newModel(config, client)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("duittui ran into an error: %w", err)
	}

	return nil
}

func newModel(config Config, client *duit.Client) model {
	theme := newTheme(config.Colors)
	loc := appLocation()

	quickInput := textinput.New()
	quickInput.Placeholder = `nasi goreng 15k`
	quickInput.CharLimit = 120

	m := model{
		keys:         initializeKeyMap(),
		help:         newHelpModel(theme),
		theme:        theme,
		styles:       newStyles(theme),
		sessionState: loading,
		loadingState: newLoadingState("categories", "summary", "expenses"),
		client:       client,
		loc:          loc,
		overview:     overview.New(),
		heatmap: heatmap.New(heatmap.Colors{
			Primary: string(theme.Primary),
			Muted:   string(theme.Muted),
		}),
		cache:      dailycache.New(loc),
		view:       &viewstate.State{},
		presets:    config.Presets,
		quickInput: quickInput,
		suggester:  newSuggesterFromEnv(),
		nextTempID: -1,
		loadingSpinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
		),
	}

	// key events only reach the heatmap while the dashboard is showing
	m.heatmap.SetFocus(true)

	m.expenseKeys = newExpenseListKeyMap()
	delegate := m.newExpenseDelegate(m.expenseKeys)

	expenseList := list.New([]list.Item{}, delegate, 0, 0)
	expenseList.SetShowTitle(false)
	expenseList.StatusMessageLifetime = 3 * time.Second
	expenseList.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{
			m.expenseKeys.addExpense,
			m.expenseKeys.quickAdd,
			m.expenseKeys.filter,
			m.expenseKeys.today,
			m.expenseKeys.showAll,
		}
	}
	m.expenses = expenseList

	dayList := list.New([]list.Item{}, delegate, 0, 0)
	dayList.SetShowTitle(true)
	dayList.SetFilteringEnabled(false)
	dayList.StatusMessageLifetime = 3 * time.Second
	m.dayList = dayList

	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.initialLoad,
		m.reconcileExpenses(m.fetchSeq),
		m.refreshExpenses,
		m.loadingSpinner.Tick,
	)
}

func (m model) checkIfLoading() sessionState {
	if m.sessionState != loading {
		return m.sessionState
	}

	if done, _ := m.loadingState.allLoaded(); !done {
		return loading
	}

	return dashboardState
}

// refreshHeatmap re-renders the heatmap from whatever the cache holds
// right now, keeping optimistic updates visible before the reconciling
// fetch lands.
func (m *model) refreshHeatmap() {
	m.heatmap.SetRecords(m.cache.All(), daykey.Today(m.loc), m.loc)
}

// reconcileNow bumps the fetch sequence and starts a reconciling fetch.
// Any response still in flight from an earlier sequence gets dropped.
func (m *model) reconcileNow() tea.Cmd {
	m.fetchSeq++
	return m.reconcileExpenses(m.fetchSeq)
}

// afterMutation is the tail of every mutation: a reconciling fetch plus
// the view and summary refreshes.
func (m *model) afterMutation() tea.Cmd {
	return tea.Batch(
		m.reconcileNow(),
		m.refreshExpenses,
		m.getSummary,
	)
}

// savePreset stores a named filter, replacing any preset that already
// carries the same name, and writes the set back to the config file.
func (m *model) savePreset(p viewstate.Preset) {
	replaced := false
	for i, existing := range m.presets {
		if existing.Name == p.Name {
			m.presets[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		m.presets = append(m.presets, p)
	}

	m.persistPresets()
}

func (m *model) persistPresets() {
	// viper writes field names verbatim, so hand it plain maps keyed
	// the way the config file reads them back
	out := make([]map[string]any, len(m.presets))
	for i, p := range m.presets {
		out[i] = map[string]any{
			"name":        p.Name,
			"category":    p.CategoryID,
			"min_amount":  p.MinAmount,
			"max_amount":  p.MaxAmount,
			"after":       p.After,
			"before":      p.Before,
			"description": p.Description,
		}
	}

	viper.Set("presets", out)
	if err := viper.WriteConfig(); err != nil {
		log.Debug("could not write filter presets to the config file", "error", err)
	}
}
