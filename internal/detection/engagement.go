package detection

import (
	"fmt"
	"time"

	"github.com/alexanderramin/haven/internal/domain"
)

// AnalyzeEngagement is the weakest signal: low completion and low
// self-reported effectiveness over recent content engagements.
func (d *Detector) AnalyzeEngagement(records []domain.Engagement) domain.AnalyzerResult {
	rules := d.rules.Engagement
	if len(records) < rules.MinRecords {
		return domain.NoRisk()
	}
	window := headN(newestFirst(records, func(e domain.Engagement) time.Time { return e.EngagedAt }), rules.Window)

	var f finding

	completed := 0
	for _, r := range window {
		if r.Completed {
			completed++
		}
	}
	rate := float64(completed) / float64(len(window))
	if rate < rules.CompletionRateBelow {
		f.raise(domain.RiskLow, rules.DisengagementConfidence,
			fmt.Sprintf("Disengagement: only %.0f%% of recent content completed", rate*100))
	}

	var rated, total int
	for _, r := range window {
		if r.Effectiveness != nil {
			rated++
			total += *r.Effectiveness
		}
	}
	if rated >= rules.MinRated {
		mean := float64(total) / float64(rated)
		if mean < rules.EffectivenessBelow {
			f.raise(domain.RiskLow, rules.LowEffectivenessConfidence,
				fmt.Sprintf("Low reported effectiveness: average %.1f/10", mean))
		}
	}

	return f.result()
}
