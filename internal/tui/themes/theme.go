// Package themes holds the color schemes of the terminal wizard.
package themes

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colors a theme is built from.
type Palette struct {
	Brand   lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color
	Success lipgloss.Color
	Info    lipgloss.Color
}

// Theme is the set of styles the wizard renders with.
type Theme struct {
	Palette Palette

	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	Disabled      lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusInfo    lipgloss.Style
	Box           lipgloss.Style
}

// New derives every style from p.
func New(p Palette) Theme {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	return Theme{
		Palette:       p,
		Title:         fg(p.Accent).Bold(true).MarginBottom(1),
		Subtitle:      fg(p.Muted),
		Normal:        lipgloss.NewStyle(),
		Bold:          lipgloss.NewStyle().Bold(true),
		Selected:      fg(p.Text).Background(p.Brand).Bold(true),
		Disabled:      fg(p.Muted),
		StatusError:   fg(p.Error),
		StatusWarning: fg(p.Warning),
		StatusSuccess: fg(p.Success),
		StatusInfo:    fg(p.Info),
		Box:           lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Border).Padding(0, 1),
	}
}

// Default is navy and lime, matching the CLI output.
var Default = New(Palette{
	Brand:   "#0F2940",
	Accent:  "#A7C539",
	Text:    "#FAFAFA",
	Muted:   "#8A8A8A",
	Border:  "#404040",
	Error:   "#E46247",
	Warning: "#F59E0B",
	Success: "#10B981",
	Info:    "#3B82F6",
})

// Contrast uses the terminal's basic colors for low-color or light terminals.
var Contrast = New(Palette{
	Brand:   "4",
	Accent:  "11",
	Text:    "15",
	Muted:   "7",
	Border:  "15",
	Error:   "9",
	Warning: "11",
	Success: "10",
	Info:    "14",
})

var registry = map[string]Theme{
	"default":  Default,
	"contrast": Contrast,
}

// Names lists the registered themes.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the theme registered under name.
func Lookup(name string) (Theme, error) {
	t, ok := registry[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (available: %v)", name, Names())
	}
	return t, nil
}
