package detection

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/haven/internal/domain"
)

// AnalyzeMood looks at negative-mood frequency over the trailing window
// and at a sudden positive-to-negative transition in the latest entry.
func (d *Detector) AnalyzeMood(entries []domain.MoodEntry) domain.AnalyzerResult {
	rules := d.rules.Mood
	window := headN(newestFirst(entries, func(e domain.MoodEntry) time.Time { return e.Timestamp }), rules.Window)
	if len(window) == 0 {
		return domain.NoRisk()
	}

	negative := 0
	for _, e := range window {
		if containsAny(e.Mood, rules.Negative) {
			negative++
		}
	}

	var f finding
	switch {
	case negative >= rules.ModerateCount:
		f.raise(domain.RiskModerate, rules.ModerateConfidence,
			fmt.Sprintf("Persistent negative mood: %d of last %d entries", negative, len(window)))
	case negative >= rules.LowCount:
		f.raise(domain.RiskLow, rules.LowConfidence,
			fmt.Sprintf("Frequent negative mood: %d of last %d entries", negative, len(window)))
	}

	if len(window) >= 2 && containsAny(window[1].Mood, rules.Positive) && containsAny(window[0].Mood, rules.DropNegative) {
		f.raise(rules.DropLevel, rules.DropConfidence,
			fmt.Sprintf("Sudden mood drop from %q to %q", window[1].Mood, window[0].Mood))
	}

	return f.result()
}

func containsAny(s string, terms []string) bool {
	s = strings.ToLower(s)
	for _, t := range terms {
		if t != "" && strings.Contains(s, strings.ToLower(t)) {
			return true
		}
	}
	return false
}
