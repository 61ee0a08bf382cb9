package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/tdm-calculator/internal/cli"
	"github.com/Veraticus/tdm-calculator/internal/format"
	"github.com/Veraticus/tdm-calculator/internal/model"
	"github.com/Veraticus/tdm-calculator/internal/wizard"
)

// View renders the wizard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderHeader()}
	switch {
	case m.signInRequired, m.loading:
	case m.controller.Page() == wizard.PageSummary:
		sections = append(sections, cli.RenderSummary(m.session.Summary(m.resultCodes)))
	default:
		sections = append(sections, m.renderRules())
	}

	if m.editing {
		sections = append(sections, m.theme.Box.Render(m.input.View()))
	}
	if status := m.renderStatus(); status != "" {
		sections = append(sections, status)
	}
	sections = append(sections, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	page := m.controller.ContentPage()
	title := m.theme.Title.Render(fmt.Sprintf("%s %s", cli.CalcIcon, page.Title()))

	step, total := m.controller.ProgressStep(), m.controller.TotalSteps()
	percent := 0.0
	if total > 0 {
		percent = float64(step) / float64(total)
	}
	progressLine := lipgloss.JoinHorizontal(lipgloss.Center,
		m.progress.ViewAs(percent),
		m.theme.Subtitle.Render(fmt.Sprintf("  Step %d of %d", step, total)),
	)

	lines := []string{title, progressLine}
	if m.session.ReadOnly() {
		lines = append(lines, m.theme.StatusWarning.Render(MsgReadOnly))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

func (m Model) renderRules() string {
	rules := m.pageRules()
	if len(rules) == 0 {
		return m.theme.Disabled.Render("Nothing to enter on this page.")
	}

	var b strings.Builder
	for i, r := range rules {
		line := m.renderRule(r)
		switch {
		case i == m.cursor:
			line = m.theme.Selected.Render("> " + line)
		case !m.editable(r):
			line = m.theme.Disabled.Render("  " + line)
		default:
			line = m.theme.Normal.Render("  " + line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
		for _, e := range r.ValidationErrors {
			b.WriteString(m.theme.StatusError.Render("    " + e.Message))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m Model) renderRule(r model.Rule) string {
	name := r.Name
	if r.Required {
		name += " *"
	}

	value := format.WithUnits(format.Value(r), r.Units)
	switch {
	case r.DataType == model.DataTypeBoolean:
		box := "[ ]"
		if r.Value.Truthy() {
			box = "[x]"
		}
		value = box
	case r.Value.IsAbsent():
		value = "-"
	}

	line := fmt.Sprintf("%-40s %s", name, value)
	if calc := format.WithUnits(format.CalcValue(r), r.CalcUnits); calc != "" {
		line += "  " + m.theme.Bold.Render(calc)
	}
	return line
}

func (m Model) renderStatus() string {
	if m.message == "" {
		return ""
	}
	switch m.status {
	case statusError:
		return m.theme.StatusError.Render(m.message)
	case statusWarning:
		return m.theme.StatusWarning.Render(m.message)
	case statusSuccess:
		return m.theme.StatusSuccess.Render(m.message)
	default:
		return m.theme.StatusInfo.Render(m.message)
	}
}
