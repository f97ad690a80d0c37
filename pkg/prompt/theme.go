package prompt

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Theme returns the custom theme for interactive forms.
func Theme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = t.Focused.Title.Foreground(lipgloss.Color("39"))
	t.Focused.Description = t.Focused.Description.Foreground(lipgloss.Color("8"))
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(lipgloss.Color("40")).Bold(true)

	return t
}
