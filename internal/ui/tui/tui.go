// Package tui provides interactive terminal UI components using BubbleTea.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles shared by the pickers.
var Styles = struct {
	// Title heads the picker view.
	Title lipgloss.Style
	// Decision highlights the currently assigned decision.
	Decision lipgloss.Style
	// Help renders the key binding hint line.
	Help lipgloss.Style
}{
	Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
	Decision: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
	Help:     lipgloss.NewStyle().Faint(true),
}

// Run starts a BubbleTea program with the given model and returns the
// final model state.
func Run(model tea.Model) (tea.Model, error) {
	return tea.NewProgram(model).Run()
}
