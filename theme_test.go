package main

import (
	"testing"

	"github.com/carlmjohnson/be"
	"github.com/charmbracelet/lipgloss"
)

func TestNewThemeDefaults(t *testing.T) {
	theme := newTheme(Colors{})

	be.Equal(t, lipgloss.Color("#ffd644"), theme.Primary)
	be.Equal(t, lipgloss.Color("#ff0000"), theme.Error)
	be.Equal(t, lipgloss.Color("#888888"), theme.SecondaryText)
}

func TestNewThemeOverrides(t *testing.T) {
	theme := newTheme(Colors{
		Primary: "#00ff00",
		Muted:   "240",
	})

	be.Equal(t, lipgloss.Color("#00ff00"), theme.Primary)
	be.Equal(t, lipgloss.Color("240"), theme.Muted)
	// untouched colors keep their defaults
	be.Equal(t, lipgloss.Color("#ff0000"), theme.Error)
}
