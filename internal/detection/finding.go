package detection

import (
	"math"
	"sort"
	"time"

	"github.com/alexanderramin/haven/internal/domain"
)

// finding accumulates checks inside one analyzer: the highest level wins,
// and its confidence is the max among checks that reached that level.
type finding struct {
	level      domain.RiskLevel
	confidence float64
	indicators []string
}

func (f *finding) raise(level domain.RiskLevel, confidence float64, indicator string) {
	switch domain.CompareRisk(level, f.level) {
	case 1:
		f.level = level
		f.confidence = confidence
	case 0:
		f.confidence = math.Max(f.confidence, confidence)
	}
	f.indicators = appendUnique(f.indicators, indicator)
}

func (f *finding) result() domain.AnalyzerResult {
	if f.level == domain.RiskNone {
		return domain.NoRisk()
	}
	return domain.AnalyzerResult{
		Level:      f.level,
		Confidence: clampUnit(f.confidence),
		Indicators: f.indicators,
	}
}

func appendUnique(list []string, s string) []string {
	if s == "" {
		return list
	}
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// newestFirst returns a copy of items ordered most recent first when every
// item carries a timestamp; otherwise the caller's order is kept.
func newestFirst[T any](items []T, at func(T) time.Time) []T {
	out := make([]T, len(items))
	copy(out, items)
	for _, it := range out {
		if at(it).IsZero() {
			return out
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return at(out[i]).After(at(out[j]))
	})
	return out
}

func headN[T any](items []T, n int) []T {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}
