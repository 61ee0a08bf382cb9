package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the wizard and blocks until the user quits.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Session == nil || cfg.Catalog == nil || cfg.Router == nil {
		return errors.New("tui: missing wizard dependencies")
	}

	p := tea.NewProgram(New(cfg),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}
	return nil
}
