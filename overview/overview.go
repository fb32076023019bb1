// Package overview renders the dashboard summary: the three headline cells
// (total spent, average per day, top category) and a per-category spending
// breakdown.
package overview

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/aryapratama/duittui/duit"
	"github.com/aryapratama/duittui/summary"
)

var titleCaser = cases.Title(language.Indonesian)

// Styles configures the overview's appearance.
type Styles struct {
	CellStyle  lipgloss.Style
	LabelStyle lipgloss.Style
	ValueStyle lipgloss.Style
}

func defaultStyles() Styles {
	return Styles{
		CellStyle:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2),
		LabelStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#7f7d78")),
		ValueStyle: lipgloss.NewStyle().Bold(true),
	}
}

// Model is the overview widget.
type Model struct {
	Styles   Styles
	Viewport viewport.Model

	stats     summary.Stats
	report    *duit.SummaryReport
	breakdown table.Model
}

// New creates an empty overview.
func New() Model {
	breakdown := table.New(
		table.WithColumns([]table.Column{
			{Title: "Category", Width: 24},
			{Title: "Total", Width: 18},
			{Title: "Share", Width: 8},
		}),
	)

	m := Model{
		Styles:    defaultStyles(),
		Viewport:  viewport.New(0, 20),
		breakdown: breakdown,
	}
	m.UpdateViewport()

	return m
}

// SetReport replaces the summary report and recomputes the headline stats.
func (m *Model) SetReport(report *duit.SummaryReport) {
	m.report = report
	m.stats = summary.Compute(report)
	m.updateBreakdown()
	m.UpdateViewport()
}

// Stats returns the aggregated headline values currently displayed.
func (m *Model) Stats() summary.Stats {
	return m.stats
}

// SetSize resizes the viewport.
func (m *Model) SetSize(width, height int) {
	m.Viewport.Width = width
	m.Viewport.Height = height
}

func (m *Model) updateBreakdown() {
	if m.report == nil {
		m.breakdown.SetRows(nil)
		return
	}

	rows := make([]table.Row, 0, len(m.report.Categories))
	for _, cat := range m.report.Categories {
		share := "0.00%"
		if m.stats.TotalAll > 0 {
			share = fmt.Sprintf("%.2f%%", float64(cat.Total)/float64(m.stats.TotalAll)*100)
		}
		rows = append(rows, table.Row{
			titleCaser.String(cat.CategoryName),
			money.New(cat.Total, money.IDR).Display(),
			share,
		})
	}

	m.breakdown.SetRows(rows)
	m.breakdown.SetHeight(len(rows) + 1)
}

func (m *Model) headlineCells() string {
	avg := money.New(int64(m.stats.AvgPerDay), money.IDR)

	cells := []struct {
		label string
		value string
	}{
		{label: "Total Spent", value: money.New(m.stats.TotalAll, money.IDR).Display()},
		{label: "Average / Day", value: avg.Display()},
		{label: "Top Category", value: titleCaser.String(m.stats.TopCategory)},
	}

	rendered := make([]string, 0, len(cells))
	for _, cell := range cells {
		content := lipgloss.JoinVertical(
			lipgloss.Left,
			m.Styles.LabelStyle.Render(cell.label),
			m.Styles.ValueStyle.Render(cell.value),
		)
		rendered = append(rendered, m.Styles.CellStyle.Render(content))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// UpdateViewport re-renders the widget content into the viewport.
func (m *Model) UpdateViewport() {
	var b strings.Builder

	b.WriteString(m.headlineCells())
	b.WriteString("\n\n")

	if len(m.breakdown.Rows()) > 0 {
		b.WriteString(m.Styles.LabelStyle.Render("Spending by category"))
		b.WriteString("\n")
		b.WriteString(m.breakdown.View())
	} else {
		b.WriteString(m.Styles.LabelStyle.Render("No spending recorded yet"))
	}

	m.Viewport.SetContent(b.String())
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update scrolls the viewport.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

// View renders the overview.
func (m Model) View() string {
	return m.Viewport.View()
}
