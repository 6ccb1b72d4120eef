package detection

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/haven/internal/domain"
)

// AnalyzeAssessments applies per-category cut points to the most recent
// assessments and flags rapid deterioration between the two latest
// assessments of the same type.
func (d *Detector) AnalyzeAssessments(assessments []domain.Assessment) domain.AnalyzerResult {
	if len(assessments) == 0 {
		return domain.NoRisk()
	}
	rules := d.rules.Assessment
	ordered := newestFirst(assessments, func(a domain.Assessment) time.Time { return a.CompletedAt })

	var f finding
	for _, a := range headN(ordered, rules.Recent) {
		cat, ok := rules.categoryFor(a.Type)
		if !ok {
			continue
		}
		for _, cut := range sortedCuts(cat.CutPoints) {
			if a.Score >= cut.MinScore {
				f.raise(cut.Level, cut.Confidence,
					fmt.Sprintf("%s assessment score %.0f is at or above %.0f", cat.Name, a.Score, cut.MinScore))
				break
			}
		}
	}

	latest := make(map[string]domain.Assessment)
	compared := make(map[string]bool)
	for _, a := range ordered {
		key := strings.ToLower(strings.TrimSpace(a.Type))
		newest, seen := latest[key]
		if !seen {
			latest[key] = a
			continue
		}
		if compared[key] {
			continue
		}
		compared[key] = true
		if delta := newest.Score - a.Score; delta >= rules.DeteriorationDelta {
			f.raise(rules.DeteriorationLevel, rules.DeteriorationConfidence,
				fmt.Sprintf("Rapid deterioration: %s score rose %.0f points (%.0f to %.0f)", a.Type, delta, a.Score, newest.Score))
		}
	}

	return f.result()
}

func (r AssessmentRules) categoryFor(assessmentType string) (AssessmentCategory, bool) {
	label := strings.ToLower(assessmentType)
	for _, c := range r.Categories {
		for _, m := range c.Match {
			if m != "" && strings.Contains(label, strings.ToLower(m)) {
				return c, true
			}
		}
	}
	return AssessmentCategory{}, false
}

// sortedCuts orders cut points from the highest threshold down so the
// first satisfied cut is the most severe one.
func sortedCuts(cuts []CutPoint) []CutPoint {
	out := make([]CutPoint, len(cuts))
	copy(out, cuts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].MinScore > out[j].MinScore })
	return out
}
