package logging

import "github.com/charmbracelet/lipgloss"

// Styles for console log levels.
var (
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("40")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)
