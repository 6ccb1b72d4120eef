package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/haven/internal/domain"
)

// Catalog is the read-only content and practice provider.
type Catalog interface {
	FindContent(ctx context.Context, filter domain.CatalogFilter) ([]domain.ContentItem, error)
	FindPractices(ctx context.Context, filter domain.CatalogFilter) ([]domain.PracticeItem, error)
}

// Kind tags a generator variant.
type Kind string

const (
	KindCrisis               Kind = "crisis"
	KindImmediateRelief      Kind = "immediate-relief"
	KindEngagementSimilarity Kind = "engagement-similarity"
	KindPractices            Kind = "practices"
	KindPopular              Kind = "popular"
)

const (
	PriorityCrisis          = 10
	PriorityImmediateRelief = 9
	PrioritySimilar         = 7
	PriorityPractice        = 6
	PriorityPopular         = 5
	PriorityFallback        = 4

	defaultReliefMinutes   = 10
	reliefMinEffectiveness = 7
	perGeneratorLimit      = 3

	// focusCandidateLimit is how many candidates a focus-biased generator
	// reads before moving focus-tagged matches ahead and truncating.
	focusCandidateLimit = 4 * perGeneratorLimit
)

// Input is what every generator sees. Accumulated is only meaningful to
// top-up generators, which run after the others have finished.
type Input struct {
	Context     domain.RecommendationContext
	FocusAreas  []string
	MaxItems    int
	Accumulated int
}

// Generator produces candidate items from one source of evidence.
type Generator interface {
	Kind() Kind
	// TopUp generators run after the concurrent stage and see the
	// accumulated item count.
	TopUp() bool
	Applies(in Input) bool
	Generate(ctx context.Context, in Input) ([]domain.RecommendationItem, error)
}

// DefaultGenerators returns the five generators in their fixed order.
func DefaultGenerators(catalog Catalog) []Generator {
	return []Generator{
		crisisGenerator{catalog: catalog},
		reliefGenerator{catalog: catalog},
		similarityGenerator{catalog: catalog},
		practiceGenerator{catalog: catalog},
		popularGenerator{catalog: catalog},
	}
}

// --- crisis resources ---

type crisisGenerator struct{ catalog Catalog }

func (crisisGenerator) Kind() Kind  { return KindCrisis }
func (crisisGenerator) TopUp() bool { return false }

func (crisisGenerator) Applies(in Input) bool {
	return in.Context.Situation.CrisisLevel.Above(domain.RiskNone)
}

func (g crisisGenerator) Generate(ctx context.Context, in Input) ([]domain.RecommendationItem, error) {
	content, err := g.catalog.FindContent(ctx, domain.CatalogFilter{
		Types: []domain.ItemType{domain.ItemCrisisResource},
		Limit: perGeneratorLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("finding crisis resources: %w", err)
	}
	items := make([]domain.RecommendationItem, 0, len(content))
	for _, c := range content {
		item := contentItem(c, PriorityCrisis, domain.SourceCrisis, "Immediate support is available right now")
		item.Type = domain.ItemCrisisResource
		item.ImmediateRelief = true
		items = append(items, item)
	}
	return items, nil
}

// --- immediate relief ---

type reliefGenerator struct{ catalog Catalog }

func (reliefGenerator) Kind() Kind  { return KindImmediateRelief }
func (reliefGenerator) TopUp() bool { return false }

func (reliefGenerator) Applies(in Input) bool {
	s := in.Context.Situation
	return s.ImmediateNeed || s.CrisisLevel == domain.RiskModerate
}

func (g reliefGenerator) Generate(ctx context.Context, in Input) ([]domain.RecommendationItem, error) {
	minutes := reliefMinutes(in.Context.Situation)
	content, err := g.catalog.FindContent(ctx, domain.CatalogFilter{
		Approach:         in.Context.User.Approach,
		MaxDurationSec:   minutes * 60,
		ImmediateRelief:  true,
		Types:            []domain.ItemType{domain.ItemContent},
		MinEffectiveness: reliefMinEffectiveness,
		Limit:            perGeneratorLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("finding immediate relief content: %w", err)
	}
	items := make([]domain.RecommendationItem, 0, len(content))
	for _, c := range content {
		item := contentItem(c, PriorityImmediateRelief, domain.SourceLibrary,
			fmt.Sprintf("Quick relief you can try in under %d minutes", minutes))
		item.ImmediateRelief = true
		items = append(items, item)
	}
	return items, nil
}

// --- engagement similarity ---

type similarityGenerator struct{ catalog Catalog }

func (similarityGenerator) Kind() Kind  { return KindEngagementSimilarity }
func (similarityGenerator) TopUp() bool { return false }

func (similarityGenerator) Applies(in Input) bool {
	for _, e := range in.Context.User.EngagementHistory {
		if e.HighlyRated() {
			return true
		}
	}
	return false
}

func (g similarityGenerator) Generate(ctx context.Context, in Input) ([]domain.RecommendationItem, error) {
	content, err := g.catalog.FindContent(ctx, domain.CatalogFilter{
		Approach:   in.Context.User.Approach,
		Types:      []domain.ItemType{domain.ItemContent},
		ExcludeIDs: seenIDs(in.Context.User),
		Limit:      candidateLimit(in.FocusAreas),
	})
	if err != nil {
		return nil, fmt.Errorf("finding similar content: %w", err)
	}
	content = preferFocused(content, func(c domain.ContentItem) []string { return c.Tags }, in.FocusAreas)
	items := make([]domain.RecommendationItem, 0, len(content))
	for _, c := range content {
		items = append(items, contentItem(c, PrioritySimilar, domain.SourceInsight, "Similar to content you found helpful"))
	}
	return items, nil
}

// --- contextual practices ---

type practiceGenerator struct{ catalog Catalog }

func (practiceGenerator) Kind() Kind         { return KindPractices }
func (practiceGenerator) TopUp() bool        { return false }
func (practiceGenerator) Applies(Input) bool { return true }

func (g practiceGenerator) Generate(ctx context.Context, in Input) ([]domain.RecommendationItem, error) {
	filter := domain.CatalogFilter{
		Approach: in.Context.User.Approach,
		Limit:    candidateLimit(in.FocusAreas),
	}
	if m := in.Context.Situation.AvailableMinutes; m != nil && *m > 0 {
		filter.MaxDurationSec = *m * 60
	}
	practices, err := g.catalog.FindPractices(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("finding practices: %w", err)
	}
	practices = preferFocused(practices, func(p domain.PracticeItem) []string { return p.Tags }, in.FocusAreas)

	items := make([]domain.RecommendationItem, 0, len(practices))
	for _, p := range practices {
		reason := "A practice suited to your approach"
		if area := focusMatch(p.Tags, in.FocusAreas); area != "" {
			reason = "Supports your focus on " + area
		}
		items = append(items, domain.RecommendationItem{
			ID:                 p.ID,
			Title:              p.Title,
			Type:               domain.ItemPractice,
			DurationSeconds:    positive(p.DurationSec),
			Reason:             reason,
			Source:             domain.SourcePractice,
			Priority:           PriorityPractice,
			EffectivenessScore: score(p.EffectivenessScore),
		})
	}
	return items, nil
}

// --- popular content ---

type popularGenerator struct{ catalog Catalog }

func (popularGenerator) Kind() Kind  { return KindPopular }
func (popularGenerator) TopUp() bool { return true }

func (popularGenerator) Applies(in Input) bool { return in.Accumulated < in.MaxItems }

func (g popularGenerator) Generate(ctx context.Context, in Input) ([]domain.RecommendationItem, error) {
	content, err := g.catalog.FindContent(ctx, domain.CatalogFilter{
		Approach:     in.Context.User.Approach,
		Types:        []domain.ItemType{domain.ItemContent},
		ExcludeIDs:   in.Context.User.CompletedContentIDs,
		ByPopularity: true,
		Limit:        in.MaxItems,
	})
	if err != nil {
		return nil, fmt.Errorf("finding popular content: %w", err)
	}
	reason := "Popular with others"
	if a := in.Context.User.Approach; a != "" && a != domain.ApproachHybrid {
		reason = fmt.Sprintf("Popular with others who prefer a %s approach", strings.ToLower(string(a)))
	}
	items := make([]domain.RecommendationItem, 0, len(content))
	for _, c := range content {
		items = append(items, contentItem(c, PriorityPopular, domain.SourceLibrary, reason))
	}
	return items, nil
}

// --- helpers ---

func contentItem(c domain.ContentItem, priority int, source domain.Source, reason string) domain.RecommendationItem {
	itemType := c.Type
	if itemType == "" {
		itemType = domain.ItemContent
	}
	return domain.RecommendationItem{
		ID:                 c.ID,
		Title:              c.Title,
		Type:               itemType,
		DurationSeconds:    positive(c.DurationSec),
		Reason:             reason,
		Source:             source,
		Priority:           priority,
		ImmediateRelief:    c.ImmediateRelief,
		EffectivenessScore: score(c.EffectivenessScore),
	}
}

// reliefMinutes is the caller's time budget, or the default when it is
// unset or not positive.
func reliefMinutes(s domain.Situation) int {
	if m := s.AvailableMinutes; m != nil && *m > 0 {
		return *m
	}
	return defaultReliefMinutes
}

func candidateLimit(focus []string) int {
	if len(focus) == 0 {
		return perGeneratorLimit
	}
	return focusCandidateLimit
}

// preferFocused moves items tagged with a focus area ahead of the rest,
// keeping catalog order within each group, and keeps the first
// perGeneratorLimit. Focus biases the selection; it never excludes.
func preferFocused[T any](items []T, tags func(T) []string, focus []string) []T {
	if len(focus) > 0 {
		matched := make([]T, 0, len(items))
		var rest []T
		for _, it := range items {
			if focusMatch(tags(it), focus) != "" {
				matched = append(matched, it)
			} else {
				rest = append(rest, it)
			}
		}
		items = append(matched, rest...)
	}
	if len(items) > perGeneratorLimit {
		items = items[:perGeneratorLimit]
	}
	return items
}

// focusMatch returns the first focus area present in tags, or "".
func focusMatch(tags, focus []string) string {
	for _, area := range focus {
		for _, t := range tags {
			if strings.EqualFold(area, t) {
				return area
			}
		}
	}
	return ""
}

// seenIDs is completed content plus anything the user has engaged with.
func seenIDs(user domain.UserContext) []string {
	ids := append([]string{}, user.CompletedContentIDs...)
	for _, e := range user.EngagementHistory {
		if e.ContentID != "" {
			ids = append(ids, e.ContentID)
		}
	}
	return ids
}

func positive(v int) *int {
	if v <= 0 {
		return nil
	}
	return &v
}

func score(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return &v
}
