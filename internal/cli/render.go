package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/compoundverse/internal/constants"
	"github.com/julianstephens/compoundverse/internal/models"
)

var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	DoneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	MutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	WarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	BoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

const barWidth = 20

// Bar draws a 0-100 score as a fixed-width bar.
func Bar(score int) string {
	score = min(max(score, 0), 100)
	filled := score * barWidth / 100
	return DoneStyle.Render(strings.Repeat("█", filled)) + MutedStyle.Render(strings.Repeat("░", barWidth-filled))
}

// DayScore renders a daily score as a bar plus "done/total domains".
func DayScore(done, total int) string {
	pct := 0
	if total > 0 {
		pct = done * 100 / total
	}
	return fmt.Sprintf("%s %d/%d domains", Bar(pct), done, total)
}

func TrendArrow(t constants.Trend) string {
	switch t {
	case constants.TrendRising:
		return DoneStyle.Render("↑ rising")
	case constants.TrendFalling:
		return WarnStyle.Render("↓ falling")
	default:
		return MutedStyle.Render("→ stable")
	}
}

// RenderMomentum formats a momentum result as a bordered block.
func RenderMomentum(m models.MomentumResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %3d%%  %s\n", Bar(m.Score), m.Score, TrendArrow(m.Trend))
	fmt.Fprintf(&b, "Active days: %d/%d", m.ActiveDays, m.TotalDays)
	if m.ProtectedDays > 0 {
		fmt.Fprintf(&b, "  Protected: %d", m.ProtectedDays)
	}
	fmt.Fprintf(&b, "  Previous: %d%%", m.PreviousScore)
	if m.Message != "" {
		b.WriteString("\n" + MutedStyle.Render(m.Message))
	}
	return BoxStyle.Render(TitleStyle.Render("Momentum") + "\n" + b.String())
}

// DomainLabel renders "icon name" for a domain.
func DomainLabel(d models.Domain) string {
	if d.Icon == "" {
		return d.Name
	}
	return d.Icon + " " + d.Name
}
