package heatmap

import (
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aryapratama/duittui/daykey"
	"github.com/aryapratama/duittui/duit"
)

// DaySelectedMsg is emitted when the user drills into a day.
type DaySelectedMsg struct {
	Day daykey.Day
}

// Colors configures the widget's accent colors.
type Colors struct {
	Primary string
	Muted   string
}

type keyMap struct {
	prevDay  key.Binding
	nextDay  key.Binding
	prevWeek key.Binding
	nextWeek key.Binding
	enter    key.Binding
}

// Model is the bubbletea widget rendering a Grid with a movable cursor.
type Model struct {
	grid    Grid
	cursor  int
	focused bool
	width   int

	keys        keyMap
	cursorStyle lipgloss.Style
	labelStyle  lipgloss.Style
}

// New creates an empty heatmap widget.
func New(colors Colors) Model {
	return Model{
		cursor: WindowDays - 1,
		keys: keyMap{
			prevDay: key.NewBinding(
				key.WithKeys("up", "k"),
				key.WithHelp("↑/k", "previous day"),
			),
			nextDay: key.NewBinding(
				key.WithKeys("down", "j"),
				key.WithHelp("↓/j", "next day"),
			),
			prevWeek: key.NewBinding(
				key.WithKeys("left", "h"),
				key.WithHelp("←/h", "previous week"),
			),
			nextWeek: key.NewBinding(
				key.WithKeys("right", "l"),
				key.WithHelp("→/l", "next week"),
			),
			enter: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "show day"),
			),
		},
		cursorStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Primary)).Bold(true),
		labelStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Muted)),
	}
}

// SetRecords rebuilds the grid from records, keeping the cursor on the same
// day when it still exists in the new window.
func (m *Model) SetRecords(records []duit.Expense, today daykey.Day, loc *time.Location) {
	var cursorDay daykey.Day
	hadCursor := len(m.grid.Cells) > 0
	if hadCursor {
		cursorDay = m.grid.Cells[m.cursor].Day
	}

	m.grid = Build(records, today, loc)

	m.cursor = len(m.grid.Cells) - 1
	if hadCursor {
		for i, c := range m.grid.Cells {
			if c.Day == cursorDay {
				m.cursor = i
				break
			}
		}
	}
}

// Grid exposes the laid-out window, mainly for the dashboard's summary line.
func (m *Model) Grid() Grid {
	return m.grid
}

// SelectedCell returns the cell under the cursor.
func (m *Model) SelectedCell() Cell {
	if len(m.grid.Cells) == 0 {
		return Cell{}
	}
	return m.grid.Cells[m.cursor]
}

// SetFocus controls whether the widget consumes key events.
func (m *Model) SetFocus(focus bool) {
	m.focused = focus
}

// SetSize sets the available width in terminal cells.
func (m *Model) SetSize(width, _ int) {
	m.width = width
}

func (m *Model) moveCursor(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.grid.Cells) {
		return
	}
	m.cursor = next
}

// Update handles cursor movement and day selection.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused || len(m.grid.Cells) == 0 {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.prevDay):
			m.moveCursor(-1)
		case key.Matches(msg, m.keys.nextDay):
			m.moveCursor(1)
		case key.Matches(msg, m.keys.prevWeek):
			m.moveCursor(-daysPerWeek)
		case key.Matches(msg, m.keys.nextWeek):
			m.moveCursor(daysPerWeek)
		case key.Matches(msg, m.keys.enter):
			day := m.grid.Cells[m.cursor].Day
			return m, func() tea.Msg {
				return DaySelectedMsg{Day: day}
			}
		}
	}

	return m, nil
}

const daysPerWeek = 7

// intensityColor maps a cell's intensity onto a red ANSI ramp; empty days
// stay a dim gray so the grid keeps its shape.
func intensityColor(intensity float64) lipgloss.Color {
	switch {
	case intensity <= baselineIntensity:
		return lipgloss.Color("236")
	case intensity <= 0.2:
		return lipgloss.Color("52")
	case intensity <= 0.4:
		return lipgloss.Color("88")
	case intensity <= 0.6:
		return lipgloss.Color("124")
	case intensity <= 0.8:
		return lipgloss.Color("160")
	default:
		return lipgloss.Color("196")
	}
}

// View renders the grid as weekday rows by week columns, oldest week on the
// left, plus a caption for the cell under the cursor.
func (m Model) View() string {
	if len(m.grid.Cells) == 0 {
		return m.labelStyle.Render("No data yet")
	}

	slots := m.grid.Pad + len(m.grid.Cells)
	weeks := (slots + daysPerWeek - 1) / daysPerWeek

	// drop the oldest weeks when the terminal is too narrow
	visibleWeeks := weeks
	if m.width > 0 && weeks*2 > m.width-weekdayLabelWidth {
		visibleWeeks = (m.width - weekdayLabelWidth) / 2
		if visibleWeeks < 1 {
			visibleWeeks = 1
		}
	}
	firstWeek := weeks - visibleWeeks

	var b strings.Builder
	for row := range daysPerWeek {
		b.WriteString(m.labelStyle.Render(weekdayLabel(row)))
		for week := firstWeek; week < weeks; week++ {
			idx := week*daysPerWeek + row - m.grid.Pad
			if idx < 0 || idx >= len(m.grid.Cells) {
				b.WriteString("  ")
				continue
			}

			cell := m.grid.Cells[idx]
			glyph := "■ "
			style := lipgloss.NewStyle().Foreground(intensityColor(cell.Intensity))
			if m.focused && idx == m.cursor {
				glyph = "◆ "
				style = m.cursorStyle
			}
			b.WriteString(style.Render(glyph))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.caption())

	return b.String()
}

const weekdayLabelWidth = 4

func weekdayLabel(row int) string {
	switch time.Weekday(row) {
	case time.Monday:
		return "Mon "
	case time.Wednesday:
		return "Wed "
	case time.Friday:
		return "Fri "
	default:
		return "    "
	}
}

func (m Model) caption() string {
	cell := m.SelectedCell()
	amount := money.New(cell.Total, money.IDR)
	return m.labelStyle.Render(fmt.Sprintf("%s  %s  %d expense(s)", cell.Day, amount.Display(), cell.Count))
}

// Init implements tea.Model; the widget has no initial command.
func (m Model) Init() tea.Cmd {
	return nil
}
