package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/haven/internal/app"
	"github.com/alexanderramin/haven/internal/domain"
)

const wellnessBarWidth = 10

func FormatProfile(p *domain.UserProfile, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Dim("User:"), StyleFg.Render(p.UserID))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Approach:"), ApproachBadge(p.Approach))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Wellness:"), RenderMeter(p.WellnessScore/100, wellnessBarWidth, HigherIsBetter))
	mood := p.RecentMood
	if mood == "" {
		mood = "--"
	}
	fmt.Fprintf(&b, "%s  %s\n", Dim("Recent mood:"), mood)
	fmt.Fprintf(&b, "%s  %s", Dim("Updated:"), HumanTimestampFrom(p.UpdatedAt, now))
	return RenderBox("Profile", b.String(), ColorDim) + "\n"
}

// FormatImportResult renders the counts written by a catalog import.
func FormatImportResult(path string, r *app.CatalogImportResult) string {
	rows := [][]string{
		{"content", fmt.Sprint(r.ContentCount)},
		{"practices", fmt.Sprint(r.PracticeCount)},
	}
	return StyleGreen.Render("Imported "+path) + "\n\n" + RenderTable([]string{"KIND", "ITEMS"}, rows)
}

// FormatValidationErrors renders import validation failures as a list.
func FormatValidationErrors(errs []error) string {
	var b strings.Builder
	b.WriteString(StyleRed.Render(fmt.Sprintf("Validation failed (%d errors):", len(errs))) + "\n")
	for _, e := range errs {
		b.WriteString(StyleRed.Render("  - ") + e.Error() + "\n")
	}
	return b.String()
}
