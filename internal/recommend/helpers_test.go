package recommend

import (
	"context"
	"sort"
	"sync/atomic"

	"github.com/alexanderramin/haven/internal/domain"
)

// memCatalog is an in-memory Catalog honoring the full filter semantics.
type memCatalog struct {
	content     []domain.ContentItem
	practices   []domain.PracticeItem
	contentErr  error
	practiceErr error
	calls       atomic.Int32
}

func (c *memCatalog) FindContent(_ context.Context, f domain.CatalogFilter) ([]domain.ContentItem, error) {
	c.calls.Add(1)
	if c.contentErr != nil {
		return nil, c.contentErr
	}
	var out []domain.ContentItem
	for _, it := range c.content {
		if f.MatchesContent(it) {
			out = append(out, it)
		}
	}
	if f.ByPopularity {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Popularity > out[j].Popularity })
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (c *memCatalog) FindPractices(_ context.Context, f domain.CatalogFilter) ([]domain.PracticeItem, error) {
	c.calls.Add(1)
	if c.practiceErr != nil {
		return nil, c.practiceErr
	}
	var out []domain.PracticeItem
	for _, it := range c.practices {
		if f.MatchesPractice(it) {
			out = append(out, it)
		}
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// stubGenerator is a Generator driven by a function.
type stubGenerator struct {
	kind  Kind
	topUp bool
	fn    func(ctx context.Context, in Input) ([]domain.RecommendationItem, error)
}

func (s stubGenerator) Kind() Kind         { return s.kind }
func (s stubGenerator) TopUp() bool        { return s.topUp }
func (s stubGenerator) Applies(Input) bool { return true }
func (s stubGenerator) Generate(ctx context.Context, in Input) ([]domain.RecommendationItem, error) {
	return s.fn(ctx, in)
}

func sampleCatalog() *memCatalog {
	return &memCatalog{
		content: []domain.ContentItem{
			{ID: "crisis-988", Title: "988 Suicide & Crisis Lifeline", Type: domain.ItemCrisisResource, Approach: domain.ApproachHybrid, ImmediateRelief: true, EffectivenessScore: 9},
			{ID: "crisis-text", Title: "Crisis Text Line", Type: domain.ItemCrisisResource, Approach: domain.ApproachHybrid, ImmediateRelief: true, EffectivenessScore: 8},
			{ID: "c-breath", Title: "Two-minute breathing reset", Type: domain.ItemContent, Approach: domain.ApproachHybrid, DurationSec: 120, Tags: []string{"anxiety"}, ImmediateRelief: true, EffectivenessScore: 8.5, Popularity: 40},
			{ID: "c-body", Title: "Body scan for sleep", Type: domain.ItemContent, Approach: domain.ApproachEastern, DurationSec: 900, Tags: []string{"sleep", "stress-relief"}, EffectivenessScore: 7, Popularity: 90},
			{ID: "c-cbt", Title: "Reframing anxious thoughts", Type: domain.ItemContent, Approach: domain.ApproachWestern, DurationSec: 600, Tags: []string{"anxiety"}, EffectivenessScore: 7.5, Popularity: 70},
			{ID: "c-journal", Title: "Gratitude journaling", Type: domain.ItemContent, Approach: domain.ApproachHybrid, DurationSec: 300, Tags: []string{"depression", "mood-support"}, EffectivenessScore: 6, Popularity: 55},
		},
		practices: []domain.PracticeItem{
			{ID: "p-walk", Title: "Mindful walk", Approach: domain.ApproachHybrid, DurationSec: 900, Tags: []string{"stress-relief"}, EffectivenessScore: 7},
			{ID: "p-pmr", Title: "Progressive muscle relaxation", Approach: domain.ApproachWestern, DurationSec: 600, Tags: []string{"anxiety"}, EffectivenessScore: 8},
		},
	}
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
