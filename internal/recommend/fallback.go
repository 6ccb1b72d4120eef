package recommend

import "github.com/alexanderramin/haven/internal/domain"

// FallbackItems is the catalog-independent set used when generation yields
// too little. HIGH and CRITICAL get a single crisis line entry.
func FallbackItems(level domain.RiskLevel) []domain.RecommendationItem {
	if level.RequiresImmediateAction() {
		return []domain.RecommendationItem{{
			ID:              "fallback-crisis-line",
			Title:           "Call or text 988 Suicide & Crisis Lifeline",
			Type:            domain.ItemCrisisResource,
			Reason:          "Trained counselors are available 24/7. If you are in immediate danger, call your local emergency number.",
			Source:          domain.SourceFallback,
			Priority:        PriorityCrisis,
			ImmediateRelief: true,
		}}
	}
	return []domain.RecommendationItem{
		{
			ID:              "fallback-grounding-54321",
			Title:           "5-4-3-2-1 grounding exercise",
			Type:            domain.ItemSuggestion,
			DurationSeconds: positive(300),
			Reason:          "Name 5 things you see, 4 you can touch, 3 you hear, 2 you smell and 1 you taste.",
			Source:          domain.SourceFallback,
			Priority:        PriorityFallback,
			ImmediateRelief: true,
		},
		{
			ID:              "fallback-box-breathing",
			Title:           "Box breathing",
			Type:            domain.ItemSuggestion,
			DurationSeconds: positive(240),
			Reason:          "Breathe in for 4, hold for 4, out for 4, hold for 4. Repeat a few rounds.",
			Source:          domain.SourceFallback,
			Priority:        PriorityFallback,
			ImmediateRelief: true,
		},
		{
			ID:              "fallback-self-compassion",
			Title:           "Self-compassion pause",
			Type:            domain.ItemSuggestion,
			DurationSeconds: positive(180),
			Reason:          "Notice that this is a hard moment and offer yourself the kindness you would offer a friend.",
			Source:          domain.SourceFallback,
			Priority:        PriorityFallback,
			ImmediateRelief: true,
		},
	}
}
