package detection

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/haven/internal/domain"
)

// Detector runs the four signal analyzers against a fixed rule set.
// All methods are pure functions of their input.
type Detector struct {
	rules    Rules
	patterns *PatternLibrary
}

func NewDetector(rules Rules) (*Detector, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("validating detection rules: %w", err)
	}
	lib, err := NewPatternLibrary(rules.Chat.Buckets)
	if err != nil {
		return nil, err
	}
	return &Detector{rules: rules, patterns: lib}, nil
}

// MustDefaultDetector builds a detector from DefaultRules.
func MustDefaultDetector() *Detector {
	d, err := NewDetector(DefaultRules())
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Detector) Rules() Rules { return d.rules }

// AnalyzeChat scans the recent message window, concatenated, against the
// pattern library.
func (d *Detector) AnalyzeChat(messages []domain.UserMessage) domain.AnalyzerResult {
	window := headN(newestFirst(messages, func(m domain.UserMessage) time.Time { return m.Timestamp }), d.rules.Chat.Window)
	if len(window) == 0 {
		return domain.NoRisk()
	}
	texts := make([]string, 0, len(window))
	for _, m := range window {
		texts = append(texts, m.Text)
	}
	bucket, ok := d.patterns.Match(strings.Join(texts, "\n"))
	if !ok {
		return domain.NoRisk()
	}
	return domain.AnalyzerResult{
		Level:      bucket.level,
		Confidence: bucket.confidence,
		Indicators: []string{bucket.indicator},
	}
}

// ContainsCrisisLanguage reports whether a single message matches any
// bucket of the pattern library.
func (d *Detector) ContainsCrisisLanguage(text string) bool {
	_, ok := d.patterns.Match(text)
	return ok
}

// SafetyReply is the fixed response used when ContainsCrisisLanguage fires.
func (d *Detector) SafetyReply() string { return d.rules.SafetyReply }
