package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/tdm-calculator/internal/faq"
	"github.com/Veraticus/tdm-calculator/internal/format"
	"github.com/Veraticus/tdm-calculator/internal/model"
	"github.com/Veraticus/tdm-calculator/internal/summary"
)

// RenderTable lays out rows under a header with padded columns.
func RenderTable(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := range widths {
			if i < len(row) {
				widths[i] = max(widths[i], lipgloss.Width(row[i]))
			}
		}
	}

	cells := func(values []string, style lipgloss.Style) string {
		out := make([]string, len(widths))
		for i, w := range widths {
			v := ""
			if i < len(values) {
				v = values[i]
			}
			out[i] = TableCellStyle.Width(w + 2).Render(v)
		}
		return style.Render(lipgloss.JoinHorizontal(lipgloss.Top, out...))
	}

	lines := []string{cells(header, TableHeaderStyle)}
	for _, row := range rows {
		lines = append(lines, cells(row, lipgloss.NewStyle()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderRules lists rules with their value, computed value and any
// validation messages.
func RenderRules(rules []model.Rule) string {
	rows := make([][]string, 0, len(rules))
	for _, r := range rules {
		value := format.WithUnits(format.Value(r), r.Units)
		if r.Value.IsAbsent() && r.DataType != model.DataTypeBoolean {
			value = ""
		}
		row := []string{string(r.Code), r.Name, value, format.WithUnits(format.CalcValue(r), r.CalcUnits)}
		if len(r.ValidationErrors) > 0 {
			msgs := make([]string, len(r.ValidationErrors))
			for i, e := range r.ValidationErrors {
				msgs[i] = e.Message
			}
			row = append(row, ValidationStyle.Render(strings.Join(msgs, "; ")))
		} else {
			row = append(row, "")
		}
		rows = append(rows, row)
	}
	return RenderTable([]string{"Code", "Name", "Value", "Calculated", ""}, rows)
}

// RenderSummary renders the calculation summary.
func RenderSummary(s summary.Summary) string {
	if s.Loading {
		return SubtleStyle.Render("Loading...")
	}

	var b strings.Builder
	b.WriteString(FormatTitle(orDash(s.Info.Name)) + "\n")
	info := [][2]string{
		{"Address", s.Info.Address},
		{"AIN/APN", s.Info.ParcelNumber},
		{"Building Permit", s.Info.BuildingPermit},
		{"Version", s.Info.VersionNumber},
		{"Planning Case", s.Info.CasePlanning},
		{"LADOT Case", s.Info.CaseLADOT},
		{"Land Uses", s.LandUses},
		{"Project Level", s.Level},
	}
	for _, kv := range info {
		if kv[1] == "" {
			continue
		}
		fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render(kv[0]+":"), kv[1])
	}
	if s.Description != "" {
		b.WriteString("\n" + s.Description + "\n")
	}

	message := WarningStyle.Render(s.PointsMessage())
	if s.TargetReached {
		message = SuccessStyle.Render(s.PointsMessage())
	}
	b.WriteString("\n" + FormatPoints(s.EarnedPoints, s.TargetPoints, s.TargetReached) + "\n" + message + "\n")

	if len(s.Results) > 0 {
		b.WriteString("\n" + RenderPanel("Results", renderLines(s.Results)) + "\n")
	}
	if len(s.Measures) > 0 {
		b.WriteString("\n" + RenderPanel("TDM Measures Selected", renderLines(s.Measures)) + "\n")
	}
	if s.UserDefinedStrategy != "" {
		b.WriteString("\n" + RenderPanel("User-Defined Strategy Details", s.UserDefinedStrategy) + "\n")
	}
	if len(s.Specifications) > 0 {
		b.WriteString("\n" + RenderPanel("Specifications", renderLines(s.Specifications)) + "\n")
	}

	parking := [][]string{
		{"Parking Provided", s.ParkingProvided},
		{"Parking Required", s.ParkingRequired},
		{"Parking Ratio", format.WithUnits(s.ParkingRatio, "%")},
	}
	b.WriteString("\n" + RenderTable([]string{"Parking", ""}, parking) + "\n")
	return b.String()
}

func renderLines(lines []summary.Line) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = fmt.Sprintf("%s  %s", l.Name, BoldStyle.Render(format.WithUnits(l.Value, l.Units)))
	}
	return strings.Join(out, "\n")
}

// RenderBoard renders FAQ content. Expanded questions show their answer;
// admin mode adds ids so items can be addressed by commands.
func RenderBoard(b faq.Board, admin bool) string {
	var out strings.Builder
	for _, c := range b.Categories() {
		title := c.Name
		if admin {
			title = fmt.Sprintf("[%d] %s", c.ID, c.Name)
		}
		out.WriteString(TitleStyle.UnsetMargins().Render(title) + "\n")
		for i, f := range c.Faqs {
			marker := "▸"
			if f.Expanded {
				marker = "▾"
			}
			q := f.Question
			if admin {
				q = fmt.Sprintf("%d. [%d] %s", i, f.ID, f.Question)
			}
			fmt.Fprintf(&out, "  %s %s\n", marker, q)
			if f.Expanded && f.Answer != "" {
				out.WriteString(SubtleStyle.Render("    "+f.Answer) + "\n")
			}
		}
		out.WriteString("\n")
	}
	return out.String()
}

// RenderProjects lists saved projects.
func RenderProjects(projects []model.Project) string {
	rows := make([][]string, len(projects))
	for i, p := range projects {
		rows[i] = []string{
			fmt.Sprintf("%d", p.ID),
			p.Name,
			p.Address,
			p.DateModified.Local().Format("2006-01-02 15:04"),
		}
	}
	return RenderTable([]string{"ID", "Name", "Address", "Last Saved"}, rows)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
