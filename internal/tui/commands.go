package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// loadProject loads the bound project into the session.
func (m Model) loadProject(id int) tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := sess.Load(ctx, id); err != nil {
			return projectLoadedMsg{err: err}
		}
		return projectLoadedMsg{project: sess.Project()}
	}
}

// saveProject writes the session's inputs.
func (m Model) saveProject() tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := sess.Save(ctx); err != nil {
			return projectSavedMsg{err: err}
		}
		return projectSavedMsg{id: sess.ProjectID()}
	}
}
