package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderMeter renders a bar like [████░░░░] 45%, colored by styleFor(frac).
func RenderMeter(frac float64, width int, styleFor func(float64) lipgloss.Style) string {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	if width < 2 {
		width = 2
	}

	filled := int(frac * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	return fmt.Sprintf("[%s] %3.0f%%", styleFor(frac).Render(bar), frac*100)
}

// HigherIsBetter colors a full bar green and an empty one red.
func HigherIsBetter(frac float64) lipgloss.Style {
	switch {
	case frac < 0.33:
		return StyleRed
	case frac < 0.66:
		return StyleYellow
	default:
		return StyleGreen
	}
}

// HigherIsWorse is the inverse of HigherIsBetter.
func HigherIsWorse(frac float64) lipgloss.Style {
	return HigherIsBetter(1 - frac)
}
