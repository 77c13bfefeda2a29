package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/sqlclass/internal/cli/output"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#1D4ED8")).
			Padding(0, 1)

	editorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(output.ColorPrimary).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(output.ColorError).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(output.ColorMuted)

	appStyle = lipgloss.NewStyle().Padding(1, 2)
)
