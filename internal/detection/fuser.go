package detection

import (
	"math"

	"github.com/alexanderramin/haven/internal/domain"
)

// FusionInput carries one result per analyzer. Missing or failed analyzers
// are represented by domain.NoRisk().
type FusionInput struct {
	Chat       domain.AnalyzerResult
	Assessment domain.AnalyzerResult
	Mood       domain.AnalyzerResult
	Engagement domain.AnalyzerResult
}

// Fuse merges analyzer results in the fixed order chat, assessment, mood,
// engagement. A level is adopted only when strictly higher than the running
// level; confidence is the running max of each damped confidence.
func Fuse(in FusionInput, weights FusionWeights, guidance Guidance) domain.CrisisDetectionResult {
	steps := []struct {
		result  domain.AnalyzerResult
		damping float64
	}{
		{in.Chat, weights.Chat},
		{in.Assessment, weights.Assessment},
		{in.Mood, weights.Mood},
		{in.Engagement, weights.Engagement},
	}

	level := domain.RiskNone
	confidence := 0.0
	indicators := []string{}
	for _, s := range steps {
		if s.result.Level.Above(level) {
			level = s.result.Level
		}
		confidence = math.Max(confidence, clampUnit(s.result.Confidence)*s.damping)
		for _, ind := range s.result.Indicators {
			indicators = appendUnique(indicators, ind)
		}
	}

	return NewDetectionResult(level, confidence, indicators, guidance)
}

// NewDetectionResult assembles a result whose ImmediateAction and
// Recommendations are derived from level alone.
func NewDetectionResult(level domain.RiskLevel, confidence float64, indicators []string, guidance Guidance) domain.CrisisDetectionResult {
	if indicators == nil {
		indicators = []string{}
	}
	return domain.CrisisDetectionResult{
		Level:           level,
		Confidence:      clampUnit(confidence),
		Indicators:      indicators,
		Recommendations: guidance.For(level),
		ImmediateAction: level.RequiresImmediateAction(),
	}
}

// Fuse runs the package-level Fuse with the detector's weights and guidance.
func (d *Detector) Fuse(in FusionInput) domain.CrisisDetectionResult {
	return Fuse(in, d.rules.Weights, d.rules.Guidance)
}

// Detect runs all analyzers sequentially over a snapshot and fuses them.
// Request-path callers use the concurrent variant in the service layer.
func (d *Detector) Detect(snapshot domain.SignalSnapshot) domain.CrisisDetectionResult {
	return d.Fuse(FusionInput{
		Chat:       d.AnalyzeChat(snapshot.RecentUserMessages),
		Assessment: d.AnalyzeAssessments(snapshot.RecentAssessments),
		Mood:       d.AnalyzeMood(snapshot.RecentMoodEntries),
		Engagement: d.AnalyzeEngagement(snapshot.RecentEngagements),
	})
}

// ShouldReport reports whether a result warrants a crisis event.
func (d *Detector) ShouldReport(r domain.CrisisDetectionResult) bool {
	return r.Level.Above(d.rules.ReportAbove)
}
