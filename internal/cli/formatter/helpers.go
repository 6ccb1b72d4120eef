package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/haven/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
// The border takes the color of borderColor.
func RenderBox(title string, content string, borderColor lipgloss.TerminalColor) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// BorderFor picks the box border color for a risk level.
func BorderFor(level domain.RiskLevel) lipgloss.TerminalColor {
	switch {
	case level.RequiresImmediateAction():
		return ColorRed
	case level == domain.RiskModerate:
		return ColorOrange
	default:
		return ColorDim
	}
}

// FormatDuration converts seconds into "4m", "1h 5m" or "45s".
func FormatDuration(sec int) string {
	if sec <= 0 {
		return "--"
	}
	if sec < 60 {
		return fmt.Sprintf("%ds", sec)
	}
	mins := (sec + 30) / 60
	h, m := mins/60, mins%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

// HumanTimestampFrom returns "Just now", "5m ago", "3h ago" or a date,
// relative to now.
func HumanTimestampFrom(t, now time.Time) string {
	if t.IsZero() {
		return "--"
	}
	diff := now.Sub(t)
	switch {
	case diff < 0:
		return t.Format("Jan 2, 2006")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// ApproachBadge returns a capitalized, purple-styled approach label.
func ApproachBadge(a domain.Approach) string {
	if a == "" {
		return StyleDim.Render("--")
	}
	s := string(a)
	return StylePurple.Render(strings.ToUpper(s[:1]) + s[1:])
}
