// Package tui renders evaluation results for the terminal.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/formgate/formgate/internal/domain/scoring"
)

var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(56)

	recommendationColors = map[scoring.Recommendation]lipgloss.Color{
		scoring.RecommendProceed:     success,
		scoring.RecommendAlternative: warning,
		scoring.RecommendClose:       danger,
	}

	dimStyle   = lipgloss.NewStyle().Foreground(dim)
	faintStyle = lipgloss.NewStyle().Foreground(faint)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(fg)
	failStyle  = lipgloss.NewStyle().Foreground(danger)
	warnStyle  = lipgloss.NewStyle().Foreground(warning)
	passStyle  = lipgloss.NewStyle().Foreground(success)

	separatorLine = faintStyle.Render(strings.Repeat("─", 52))
)

// RenderScoreCard renders the derived score block as a boxed summary.
func RenderScoreCard(d scoring.Derived) string {
	recColor, ok := recommendationColors[d.Recommendation]
	if !ok {
		recColor = warning
	}
	recStyle := lipgloss.NewStyle().Bold(true).Foreground(recColor)

	var b strings.Builder
	b.WriteString(headerStyle.Render("Evaluation Scores"))
	b.WriteString("\n\n")

	rows := []struct {
		label string
		value float64
	}{
		{"Impact", d.ImpactScore},
		{"Value", d.ValueScore},
		{"Market", d.MarketScore},
		{"Overall", d.OverallScore},
	}
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%s %s\n",
			titleStyle.Render(fmt.Sprintf("%-8s", r.label)),
			scoreBar(r.value)))
	}

	b.WriteString("\n")
	b.WriteString(recStyle.Render(string(d.Recommendation)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(d.RecommendationText))

	return boxStyle.Render(b.String()) + "\n"
}

// scoreBar renders a 0-3 score as a filled bar plus the number.
func scoreBar(score float64) string {
	const width = 12
	filled := int(score / 3 * width)
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	bar := passStyle.Render(strings.Repeat("█", filled)) +
		faintStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %s", bar, dimStyle.Render(fmt.Sprintf("%.2f", score)))
}

// RenderValidationReport renders the per-field error map and any
// loader warnings. A clean report gets a single pass line.
func RenderValidationReport(errors map[string]string, warnings []string) string {
	var b strings.Builder

	if len(errors) == 0 {
		b.WriteString(passStyle.Render("✓ All fields valid"))
		b.WriteString("\n")
	} else {
		b.WriteString(failStyle.Render(fmt.Sprintf("✗ %d field(s) failed validation", len(errors))))
		b.WriteString("\n")
		b.WriteString(separatorLine)
		b.WriteString("\n")

		codes := make([]string, 0, len(errors))
		for code := range errors {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			b.WriteString(fmt.Sprintf("  %s  %s\n",
				titleStyle.Render(code), failStyle.Render(errors[code])))
		}
	}

	if len(warnings) > 0 {
		b.WriteString(separatorLine)
		b.WriteString("\n")
		for _, w := range warnings {
			b.WriteString(warnStyle.Render("  ⚠ " + w))
			b.WriteString("\n")
		}
	}

	return b.String()
}
