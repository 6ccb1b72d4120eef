package detection

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/alexanderramin/haven/internal/domain"
)

type compiledBucket struct {
	level      domain.RiskLevel
	confidence float64
	indicator  string
	matchers   []*regexp.Regexp
}

// PatternLibrary is the compiled, severity-ordered set of chat patterns.
// It is immutable after construction and safe for concurrent use.
type PatternLibrary struct {
	buckets []compiledBucket
}

// NewPatternLibrary compiles buckets case-insensitively and orders them
// from the highest severity down.
func NewPatternLibrary(buckets []PatternBucket) (*PatternLibrary, error) {
	lib := &PatternLibrary{buckets: make([]compiledBucket, 0, len(buckets))}
	for _, b := range buckets {
		cb := compiledBucket{
			level:      b.Level,
			confidence: b.Confidence,
			indicator:  b.Indicator,
		}
		for _, p := range b.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("compiling %s pattern %q: %w", b.Level, p, err)
			}
			cb.matchers = append(cb.matchers, re)
		}
		lib.buckets = append(lib.buckets, cb)
	}
	sort.SliceStable(lib.buckets, func(i, j int) bool {
		return domain.CompareRisk(lib.buckets[i].level, lib.buckets[j].level) > 0
	})
	return lib, nil
}

// Match returns the highest-severity bucket with any matching pattern.
// Lower buckets are never consulted once a higher one matches.
func (l *PatternLibrary) Match(text string) (compiledBucket, bool) {
	for _, b := range l.buckets {
		for _, re := range b.matchers {
			if re.MatchString(text) {
				return b, true
			}
		}
	}
	return compiledBucket{}, false
}
