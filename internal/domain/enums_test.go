package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareRisk_TotalOrder(t *testing.T) {
	for i, a := range AllRiskLevels {
		for j, b := range AllRiskLevels {
			got := CompareRisk(a, b)
			switch {
			case i < j:
				assert.Equal(t, -1, got, "%s vs %s", a, b)
			case i > j:
				assert.Equal(t, 1, got, "%s vs %s", a, b)
			default:
				assert.Equal(t, 0, got, "%s vs %s", a, b)
			}
		}
	}
}

func TestCompareRisk_NotLexical(t *testing.T) {
	// "MODERATE" < "LOW" lexically; the ranked order must say otherwise.
	assert.True(t, RiskModerate.Above(RiskLow))
	assert.True(t, RiskCritical.Above(RiskHigh))
}

func TestMaxRisk(t *testing.T) {
	assert.Equal(t, RiskHigh, MaxRisk(RiskLow, RiskHigh))
	assert.Equal(t, RiskHigh, MaxRisk(RiskHigh, RiskLow))
	assert.Equal(t, RiskNone, MaxRisk(RiskNone, RiskNone))
}

func TestRequiresImmediateAction(t *testing.T) {
	assert.False(t, RiskNone.RequiresImmediateAction())
	assert.False(t, RiskLow.RequiresImmediateAction())
	assert.False(t, RiskModerate.RequiresImmediateAction())
	assert.True(t, RiskHigh.RequiresImmediateAction())
	assert.True(t, RiskCritical.RequiresImmediateAction())
}

func TestParseRiskLevel(t *testing.T) {
	lvl, err := ParseRiskLevel(" moderate ")
	require.NoError(t, err)
	assert.Equal(t, RiskModerate, lvl)

	_, err = ParseRiskLevel("severe")
	assert.Error(t, err)
}

func TestRiskLevel_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(map[string]RiskLevel{"level": RiskHigh})
	require.NoError(t, err)
	assert.JSONEq(t, `{"level":"HIGH"}`, string(data))

	var out struct {
		Level RiskLevel `json:"level"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"level":"critical"}`), &out))
	assert.Equal(t, RiskCritical, out.Level)
}

func TestApproach_Matches(t *testing.T) {
	assert.True(t, ApproachHybrid.Matches(ApproachEastern))
	assert.True(t, ApproachWestern.Matches(ApproachHybrid))
	assert.True(t, ApproachEastern.Matches(ApproachEastern))
	assert.False(t, ApproachWestern.Matches(ApproachEastern))
	assert.Equal(t, ApproachHybrid, ParseApproach("unknown"))
}

func TestRecommendationItem_DedupKey(t *testing.T) {
	a := RecommendationItem{Title: "Box Breathing"}
	b := RecommendationItem{Title: "  box breathing"}
	c := RecommendationItem{ID: "c1", Title: "Box Breathing"}
	assert.Equal(t, a.DedupKey(), b.DedupKey())
	assert.NotEqual(t, a.DedupKey(), c.DedupKey())
}

func TestEngagement_HighlyRated(t *testing.T) {
	four, six, seven := 4, 6, 7
	assert.True(t, Engagement{Rating: &four}.HighlyRated())
	assert.True(t, Engagement{Effectiveness: &seven}.HighlyRated())
	assert.False(t, Engagement{Effectiveness: &six}.HighlyRated())
	assert.False(t, Engagement{}.HighlyRated())
}

func TestCatalogFilter_MatchesContent(t *testing.T) {
	item := ContentItem{
		ID:                 "c1",
		Type:               ItemContent,
		Approach:           ApproachEastern,
		DurationSec:        300,
		Tags:               []string{"Anxiety", "sleep"},
		ImmediateRelief:    true,
		EffectivenessScore: 8,
	}

	assert.True(t, CatalogFilter{}.MatchesContent(item))
	assert.True(t, CatalogFilter{Approach: ApproachHybrid}.MatchesContent(item))
	assert.False(t, CatalogFilter{Approach: ApproachWestern}.MatchesContent(item))
	assert.True(t, CatalogFilter{MaxDurationSec: 300}.MatchesContent(item))
	assert.False(t, CatalogFilter{MaxDurationSec: 299}.MatchesContent(item))
	assert.True(t, CatalogFilter{Tags: []string{"anxiety", "grief"}}.MatchesContent(item))
	assert.False(t, CatalogFilter{Tags: []string{"grief"}}.MatchesContent(item))
	assert.False(t, CatalogFilter{ExcludeIDs: []string{"c1"}}.MatchesContent(item))
	assert.False(t, CatalogFilter{MinEffectiveness: 9}.MatchesContent(item))
	assert.False(t, CatalogFilter{Types: []ItemType{ItemCrisisResource}}.MatchesContent(item))

	item.ImmediateRelief = false
	assert.False(t, CatalogFilter{ImmediateRelief: true}.MatchesContent(item))
}
