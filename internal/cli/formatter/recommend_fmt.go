package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/haven/internal/app"
	"github.com/alexanderramin/haven/internal/domain"
)

// FormatRecommendations renders ranked recommendations together with the
// detection result that set their crisis level.
func FormatRecommendations(resp *app.RecommendResponse) string {
	rec := resp.Recommendation
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s", Dim("Crisis level:"), RiskIndicator(rec.CrisisLevel))
	if resp.Detection.Degraded {
		b.WriteString("  " + StyleYellow.Render("(degraded)"))
	}
	b.WriteString("\n")
	if len(rec.FocusAreas) > 0 {
		fmt.Fprintf(&b, "%s  %s\n", Dim("Focus:"), StylePurple.Render(strings.Join(rec.FocusAreas, ", ")))
	}
	if rec.ImmediateAction {
		b.WriteString(StyleAlert.Render("Reach out to a crisis resource now.") + "\n")
	}
	b.WriteString("\n")

	if len(rec.Items) == 0 {
		b.WriteString(Dim("No recommendations available.") + "\n")
	}
	for i, item := range rec.Items {
		b.WriteString(formatItem(i+1, item))
		if i < len(rec.Items)-1 {
			b.WriteString("\n")
		}
	}

	if rec.Rationale != "" {
		b.WriteString("\n" + Dim(rec.Rationale) + "\n")
	}
	if rec.FallbackUsed {
		b.WriteString(StyleYellow.Render("Showing built-in suggestions; the catalog was unavailable.") + "\n")
	}

	return RenderBox("Recommendations", strings.TrimRight(b.String(), "\n"), BorderFor(rec.CrisisLevel)) + "\n"
}

func formatItem(n int, item domain.RecommendationItem) string {
	var b strings.Builder

	title := StyleFg.Render(item.Title)
	if item.Source == domain.SourceCrisis {
		title = StyleAlert.Render(item.Title)
	}
	line := fmt.Sprintf("%s %s  %s", Bold(fmt.Sprintf("%d.", n)), title, priorityBadge(item.Priority))
	if item.DurationSeconds != nil {
		line += "  " + StyleBlue.Render("("+FormatDuration(*item.DurationSeconds)+")")
	}
	b.WriteString(line + "\n")

	meta := []string{string(item.Type), string(item.Source)}
	if item.ImmediateRelief {
		meta = append(meta, "immediate relief")
	}
	b.WriteString("   " + Dim(strings.Join(meta, " · ")) + "\n")
	if item.Reason != "" {
		fmt.Fprintf(&b, "   %s %s\n", StyleYellow.Render("WHY:"), Dim(item.Reason))
	}
	return b.String()
}

func priorityBadge(p int) string {
	label := fmt.Sprintf("P%d", p)
	switch {
	case p >= 9:
		return StyleRed.Render(label)
	case p >= 7:
		return StyleOrange.Render(label)
	default:
		return StyleDim.Render(label)
	}
}
