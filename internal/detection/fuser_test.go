package detection

import (
	"math/rand"
	"testing"

	"github.com/alexanderramin/haven/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuse_AssessmentAndMood(t *testing.T) {
	result := Fuse(FusionInput{
		Chat:       domain.NoRisk(),
		Assessment: domain.AnalyzerResult{Level: domain.RiskModerate, Confidence: 0.7, Indicators: []string{"a"}},
		Mood:       domain.AnalyzerResult{Level: domain.RiskLow, Confidence: 0.6, Indicators: []string{"m"}},
		Engagement: domain.NoRisk(),
	}, DefaultWeights(), DefaultGuidance())

	assert.Equal(t, domain.RiskModerate, result.Level)
	assert.InDelta(t, 0.56, result.Confidence, 1e-9)
	assert.Equal(t, []string{"a", "m"}, result.Indicators)
	assert.False(t, result.ImmediateAction)
	assert.Equal(t, DefaultGuidance()["MODERATE"], result.Recommendations)
}

func TestFuse_AllNone(t *testing.T) {
	result := MustDefaultDetector().Fuse(FusionInput{
		Chat: domain.NoRisk(), Assessment: domain.NoRisk(), Mood: domain.NoRisk(), Engagement: domain.NoRisk(),
	})

	assert.Equal(t, domain.RiskNone, result.Level)
	assert.Zero(t, result.Confidence)
	assert.NotNil(t, result.Indicators)
	assert.Empty(t, result.Indicators)
	assert.NotEmpty(t, result.Recommendations)
}

func TestFuse_IndicatorsDedupedInFirstSeenOrder(t *testing.T) {
	result := Fuse(FusionInput{
		Chat:       domain.AnalyzerResult{Level: domain.RiskLow, Confidence: 0.5, Indicators: []string{"x", "y"}},
		Assessment: domain.AnalyzerResult{Level: domain.RiskLow, Confidence: 0.5, Indicators: []string{"y", "z"}},
		Mood:       domain.NoRisk(),
		Engagement: domain.AnalyzerResult{Level: domain.RiskLow, Confidence: 0.5, Indicators: []string{"x"}},
	}, DefaultWeights(), DefaultGuidance())

	assert.Equal(t, []string{"x", "y", "z"}, result.Indicators)
}

func TestFuse_HighRequiresImmediateAction(t *testing.T) {
	result := Fuse(FusionInput{
		Chat: domain.AnalyzerResult{Level: domain.RiskHigh, Confidence: 0.85, Indicators: []string{"h"}},
	}, DefaultWeights(), DefaultGuidance())

	assert.Equal(t, domain.RiskHigh, result.Level)
	assert.True(t, result.ImmediateAction)
	assert.Equal(t, domain.ActionImmediateIntervention, result.ActionTaken())
	require.NotEmpty(t, result.Recommendations)
	assert.Contains(t, result.Recommendations[0], "988")
}

func TestFuse_RecommendationsAreCopies(t *testing.T) {
	guidance := DefaultGuidance()
	result := Fuse(FusionInput{
		Chat: domain.AnalyzerResult{Level: domain.RiskLow, Confidence: 0.5},
	}, DefaultWeights(), guidance)

	result.Recommendations[0] = "mutated"
	assert.NotEqual(t, "mutated", guidance["LOW"][0])
}

func TestFuse_ClampsConfidence(t *testing.T) {
	result := Fuse(FusionInput{
		Chat: domain.AnalyzerResult{Level: domain.RiskModerate, Confidence: 1.7},
	}, DefaultWeights(), DefaultGuidance())

	assert.InDelta(t, 1.0, result.Confidence, 1e-9)
}

func randomResult(rng *rand.Rand) domain.AnalyzerResult {
	level := domain.AllRiskLevels[rng.Intn(len(domain.AllRiskLevels))]
	if level == domain.RiskNone {
		return domain.NoRisk()
	}
	return domain.AnalyzerResult{Level: level, Confidence: rng.Float64(), Indicators: []string{level.String()}}
}

// Fused level is the max analyzer level and confidence is at least every
// damped analyzer confidence, for arbitrary inputs.
func TestFuse_Property_DominatesInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	weights := DefaultWeights()

	for i := 0; i < 500; i++ {
		in := FusionInput{
			Chat:       randomResult(rng),
			Assessment: randomResult(rng),
			Mood:       randomResult(rng),
			Engagement: randomResult(rng),
		}
		result := Fuse(in, weights, DefaultGuidance())

		want := domain.MaxRisk(domain.MaxRisk(in.Chat.Level, in.Assessment.Level), domain.MaxRisk(in.Mood.Level, in.Engagement.Level))
		require.Equal(t, want, result.Level, "iteration %d", i)
		require.Equal(t, want.RequiresImmediateAction(), result.ImmediateAction)

		damped := []float64{
			in.Chat.Confidence * weights.Chat,
			in.Assessment.Confidence * weights.Assessment,
			in.Mood.Confidence * weights.Mood,
			in.Engagement.Confidence * weights.Engagement,
		}
		for _, c := range damped {
			require.GreaterOrEqual(t, result.Confidence+1e-12, c)
		}
		require.LessOrEqual(t, result.Confidence, 1.0)
	}
}

func TestDetect_SnapshotEndToEnd(t *testing.T) {
	d := MustDefaultDetector()

	result := d.Detect(domain.SignalSnapshot{
		UserID:             "u1",
		RecentUserMessages: messages("I feel like giving up, nothing matters"),
		RecentMoodEntries:  moodsNewestFirst("anxious", "good"),
	})

	assert.Equal(t, domain.RiskHigh, result.Level)
	assert.InDelta(t, 0.85, result.Confidence, 1e-9)
	assert.Len(t, result.Indicators, 2)
	assert.True(t, d.ShouldReport(result))
}

func TestShouldReport_OnlyAboveLow(t *testing.T) {
	d := MustDefaultDetector()

	assert.False(t, d.ShouldReport(domain.CrisisDetectionResult{Level: domain.RiskNone}))
	assert.False(t, d.ShouldReport(domain.CrisisDetectionResult{Level: domain.RiskLow}))
	assert.True(t, d.ShouldReport(domain.CrisisDetectionResult{Level: domain.RiskModerate}))
	assert.True(t, d.ShouldReport(domain.CrisisDetectionResult{Level: domain.RiskCritical}))
}
