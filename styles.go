package main

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// styles holds the handful of ad-hoc styles that no widget owns. The
// list, heatmap, and forms carry their own styling.
type styles struct {
	docStyle   lipgloss.Style
	titleStyle lipgloss.Style

	// status message styles
	errorStyle   lipgloss.Style
	successStyle lipgloss.Style
	warningStyle lipgloss.Style

	// quickAddStyle frames the quick entry line above the expense list
	quickAddStyle lipgloss.Style
}

func newStyles(theme Theme) styles {
	s := styles{
		docStyle:     lipgloss.NewStyle().Margin(1, standardMargin),
		errorStyle:   lipgloss.NewStyle().Foreground(theme.Error).Bold(true),
		successStyle: lipgloss.NewStyle().Foreground(theme.Success),
		warningStyle: lipgloss.NewStyle().Foreground(theme.Warning),
	}

	s.titleStyle = lipgloss.NewStyle().Bold(true).Foreground(
		lipgloss.AdaptiveColor{Light: "#000000", Dark: string(theme.Primary)},
	)

	s.quickAddStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	return s
}

func newHelpModel(theme Theme) help.Model {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.Text)
	sepStyle := lipgloss.NewStyle().Foreground(theme.SecondaryText)

	helpModel := help.New()
	helpModel.ShortSeparator = " + "
	helpModel.Styles = help.Styles{
		Ellipsis:       sepStyle,
		ShortKey:       keyStyle,
		ShortDesc:      descStyle,
		ShortSeparator: sepStyle,
		FullKey:        keyStyle,
		FullDesc:       descStyle,
		FullSeparator:  sepStyle,
	}

	return helpModel
}
