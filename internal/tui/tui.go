package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"tracker-cli/internal/api"
)

// Run starts the full-screen interface and blocks until the user quits.
func Run(client *api.Client, log zerolog.Logger, theme string) error {
	applyColorProfilePreference()
	applyThemePreference(theme)

	m := newAppModel(client, log)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
