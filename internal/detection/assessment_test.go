package detection

import (
	"testing"
	"time"

	"github.com/alexanderramin/haven/internal/domain"
	"github.com/stretchr/testify/assert"
)

func assessment(kind string, score float64, daysAgo int) domain.Assessment {
	return domain.Assessment{Type: kind, Score: score, CompletedAt: baseTime.AddDate(0, 0, -daysAgo)}
}

func TestAnalyzeAssessments_Empty(t *testing.T) {
	d := MustDefaultDetector()
	result := d.AnalyzeAssessments(nil)
	assert.Equal(t, domain.RiskNone, result.Level)
	assert.Zero(t, result.Confidence)
	assert.Empty(t, result.Indicators)
}

func TestAnalyzeAssessments_RapidDeterioration(t *testing.T) {
	d := MustDefaultDetector()

	result := d.AnalyzeAssessments([]domain.Assessment{
		assessment("anxiety", 40, 14),
		assessment("anxiety", 65, 1),
	})

	assert.Equal(t, domain.RiskModerate, result.Level)
	assert.GreaterOrEqual(t, result.Confidence, 0.7)
	if assert.Len(t, result.Indicators, 1) {
		assert.Contains(t, result.Indicators[0], "Rapid deterioration")
	}
}

func TestAnalyzeAssessments_ImprovementNotFlagged(t *testing.T) {
	d := MustDefaultDetector()
	result := d.AnalyzeAssessments([]domain.Assessment{
		assessment("anxiety", 65, 14),
		assessment("anxiety", 40, 1),
	})
	assert.Equal(t, domain.RiskNone, result.Level)
}

func TestAnalyzeAssessments_DepressionCutPoints(t *testing.T) {
	d := MustDefaultDetector()

	high := d.AnalyzeAssessments([]domain.Assessment{assessment("Depression (PHQ-9)", 85, 1)})
	assert.Equal(t, domain.RiskHigh, high.Level)
	assert.InDelta(t, 0.9, high.Confidence, 1e-9)

	moderate := d.AnalyzeAssessments([]domain.Assessment{assessment("depression", 60, 1)})
	assert.Equal(t, domain.RiskModerate, moderate.Level)
	assert.InDelta(t, 0.75, moderate.Confidence, 1e-9)

	none := d.AnalyzeAssessments([]domain.Assessment{assessment("depression", 59, 1)})
	assert.Equal(t, domain.RiskNone, none.Level)
}

func TestAnalyzeAssessments_MaxConfidenceAtWinningLevel(t *testing.T) {
	d := MustDefaultDetector()

	result := d.AnalyzeAssessments([]domain.Assessment{
		assessment("depression", 65, 2), // MODERATE / 0.75
		assessment("Anxiety GAD-7", 80, 1), // MODERATE / 0.8
	})

	assert.Equal(t, domain.RiskModerate, result.Level)
	assert.InDelta(t, 0.8, result.Confidence, 1e-9)
	assert.Len(t, result.Indicators, 2)
}

func TestAnalyzeAssessments_HigherLevelKeepsItsConfidence(t *testing.T) {
	d := MustDefaultDetector()

	result := d.AnalyzeAssessments([]domain.Assessment{
		assessment("trauma", 90, 3),     // MODERATE / 0.8
		assessment("depression", 55, 2), // below cut
		assessment("depression", 85, 1), // HIGH / 0.9, plus deterioration MODERATE / 0.7
	})

	assert.Equal(t, domain.RiskHigh, result.Level)
	assert.InDelta(t, 0.9, result.Confidence, 1e-9)
}

func TestAnalyzeAssessments_OnlyThreeMostRecentForCutPoints(t *testing.T) {
	d := MustDefaultDetector()

	result := d.AnalyzeAssessments([]domain.Assessment{
		assessment("depression", 95, 30),
		assessment("wellbeing", 10, 3),
		assessment("wellbeing", 10, 2),
		assessment("wellbeing", 10, 1),
	})

	assert.Equal(t, domain.RiskNone, result.Level)
}

func TestAnalyzeAssessments_DeteriorationComparesTwoLatestOfType(t *testing.T) {
	d := MustDefaultDetector()

	// 20 -> 50 is old history; the latest pair (50 -> 55) is stable.
	result := d.AnalyzeAssessments([]domain.Assessment{
		assessment("stress", 20, 30),
		assessment("stress", 50, 10),
		assessment("stress", 55, 1),
	})
	assert.Equal(t, domain.RiskNone, result.Level)
}

func TestAnalyzeAssessments_UnorderedInput(t *testing.T) {
	d := MustDefaultDetector()
	result := d.AnalyzeAssessments([]domain.Assessment{
		{Type: "anxiety", Score: 70, CompletedAt: baseTime},
		{Type: "anxiety", Score: 45, CompletedAt: baseTime.Add(-72 * time.Hour)},
	})
	assert.Equal(t, domain.RiskModerate, result.Level)
}
