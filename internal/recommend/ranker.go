package recommend

import (
	"sort"

	"github.com/alexanderramin/haven/internal/domain"
)

// Dedup keeps the first occurrence of every item identity.
func Dedup(items []domain.RecommendationItem) []domain.RecommendationItem {
	seen := make(map[string]bool, len(items))
	out := make([]domain.RecommendationItem, 0, len(items))
	for _, it := range items {
		key := it.DedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, it)
	}
	return out
}

// Rank de-duplicates, orders and truncates to maxItems. Ordering rules:
// 1. Priority: higher first
// 2. Crisis resources before anything else at the same priority
// 3. Effectiveness score: higher first (nil counts as 0)
// Remaining ties keep generator order.
func Rank(items []domain.RecommendationItem, maxItems int) []domain.RecommendationItem {
	ranked := Dedup(items)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]

		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}

		crisisA, crisisB := a.Type == domain.ItemCrisisResource, b.Type == domain.ItemCrisisResource
		if crisisA != crisisB {
			return crisisA
		}

		effA := domain.Float64FromPtrWithDefault(0, a.EffectivenessScore)
		effB := domain.Float64FromPtrWithDefault(0, b.EffectivenessScore)
		return effA > effB
	})
	if maxItems >= 0 && len(ranked) > maxItems {
		ranked = ranked[:maxItems]
	}
	return ranked
}
