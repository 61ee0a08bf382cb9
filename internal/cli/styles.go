// Package cli renders calculator output for the terminal and hosts the
// small interactive helpers the commands share.
package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Palette. Navy and lime follow the LADOT calculator branding.
var (
	NavyColor   = lipgloss.Color("#0F2940")
	LimeColor   = lipgloss.Color("#A7C539")
	TealColor   = lipgloss.Color("#4ECDC4")
	AmberColor  = lipgloss.Color("#FFE66D")
	CoralColor  = lipgloss.Color("#E46247")
	MistColor   = lipgloss.Color("#95E1D3")
	SlateColor  = lipgloss.Color("#666666")
	BorderColor = lipgloss.Color("#333")
)

var (
	// TitleStyle heads a project or FAQ listing.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(LimeColor).MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().Foreground(TealColor)
	WarningStyle = lipgloss.NewStyle().Foreground(AmberColor)
	InfoStyle    = lipgloss.NewStyle().Foreground(MistColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SlateColor)
	BoldStyle    = lipgloss.NewStyle().Bold(true)

	// PanelStyle frames one summary section.
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 2)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(NavyColor).
				Background(LimeColor).
				PaddingRight(2)
	TableCellStyle = lipgloss.NewStyle().PaddingRight(2)

	PromptStyle = lipgloss.NewStyle().Bold(true).Foreground(LimeColor)

	// ValidationStyle marks a rule validation message.
	ValidationStyle = lipgloss.NewStyle().Foreground(CoralColor).Italic(true)
)

// Icons.
const (
	SuccessIcon = "✓"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	CalcIcon    = "🚦"
)

// FormatSuccess prefixes a message with the success icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatWarning prefixes a message with the warning icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo prefixes a message with the info icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle renders a heading with the calculator icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(CalcIcon + " " + title)
}

// FormatPrompt renders a question awaiting input.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// FormatPoints renders earned against target points, coloured by whether
// the target is met.
func FormatPoints(earned, target int, reached bool) string {
	points := fmt.Sprintf("Earned %d / Target %d", earned, target)
	if reached {
		return FormatSuccess(points)
	}
	return FormatWarning(points)
}

// RenderPanel renders content under a title inside a rounded border.
func RenderPanel(title, content string) string {
	heading := TitleStyle.UnsetMargins().Render(title)
	return PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, heading, content))
}
