package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/haven/internal/app"
	"github.com/alexanderramin/haven/internal/domain"
)

const confidenceBarWidth = 10

// FormatDetection renders a crisis detection result as a boxed summary.
func FormatDetection(userID string, r domain.CrisisDetectionResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", Dim("User:"), StyleFg.Render(userID))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Risk:"), RiskIndicator(r.Level))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Confidence:"), RenderMeter(r.Confidence, confidenceBarWidth, HigherIsWorse))

	if r.ImmediateAction {
		b.WriteString("\n" + StyleAlert.Render("IMMEDIATE ACTION REQUIRED") + "\n")
	}
	if r.Degraded {
		b.WriteString("\n" + StyleYellow.Render("WARNING: detection degraded, result may be incomplete") + "\n")
	}

	if len(r.Indicators) > 0 {
		b.WriteString("\n" + Header("Indicators") + "\n")
		for _, ind := range r.Indicators {
			b.WriteString("  " + StyleYellow.Render("•") + " " + ind + "\n")
		}
	}
	if len(r.Recommendations) > 0 {
		b.WriteString("\n" + Header("Guidance") + "\n")
		for _, rec := range r.Recommendations {
			b.WriteString("  " + StyleBlue.Render("→") + " " + rec + "\n")
		}
	}

	return RenderBox("Crisis Detection", strings.TrimRight(b.String(), "\n"), BorderFor(r.Level))
}

// FormatCheck renders the result of screening a single message.
func FormatCheck(r app.CheckResult) string {
	if !r.CrisisLanguage {
		return StyleGreen.Render("✔ No crisis language detected.") + "\n"
	}

	var b strings.Builder
	b.WriteString(StyleAlert.Render("▲ Crisis language detected") + "\n\n")
	b.WriteString(StyleFg.Render(r.Reply) + "\n")
	if len(r.Support) > 0 {
		b.WriteString("\n")
		for _, s := range r.Support {
			b.WriteString("  " + StyleBlue.Render("→") + " " + s + "\n")
		}
	}
	return RenderBox("Safety Check", strings.TrimRight(b.String(), "\n"), ColorRed) + "\n"
}
