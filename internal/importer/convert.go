package importer

import (
	"strings"

	"github.com/alexanderramin/haven/internal/domain"
	"github.com/google/uuid"
)

// catalogNamespace seeds title-derived ids.
var catalogNamespace = uuid.MustParse("6f1c1d5e-3a4b-4c57-9e0b-8a7d2f4c9b10")

// GeneratedCatalog holds the converted items ready for persistence.
type GeneratedCatalog struct {
	Content   []domain.ContentItem
	Practices []domain.PracticeItem
}

// Convert transforms a validated CatalogSchema into catalog items.
// Call ValidateCatalogSchema first; Convert assumes the schema is valid.
func Convert(schema *CatalogSchema) *GeneratedCatalog {
	defaults := DefaultsImport{}
	if schema.Defaults != nil {
		defaults = *schema.Defaults
	}

	out := &GeneratedCatalog{
		Content:   make([]domain.ContentItem, 0, len(schema.Content)),
		Practices: make([]domain.PracticeItem, 0, len(schema.Practices)),
	}
	for _, c := range schema.Content {
		itemType := domain.ItemContent
		if strings.EqualFold(c.Type, string(domain.ItemCrisisResource)) {
			itemType = domain.ItemCrisisResource
		}
		out.Content = append(out.Content, domain.ContentItem{
			ID:                 itemID(c.ID, c.Title),
			Title:              strings.TrimSpace(c.Title),
			Type:               itemType,
			Approach:           domain.ParseApproach(domain.CoalesceStr(c.Approach, defaults.Approach)),
			DurationSec:        domain.IntFromPtrWithDefault(0, c.DurationSec, defaults.DurationSec),
			Tags:               normalizeTags(c.Tags),
			ImmediateRelief:    c.ImmediateRelief,
			EffectivenessScore: domain.Float64FromPtrWithDefault(0, c.Effectiveness),
			Popularity:         c.Popularity,
			Description:        c.Description,
		})
	}
	for _, p := range schema.Practices {
		out.Practices = append(out.Practices, domain.PracticeItem{
			ID:                 itemID(p.ID, p.Title),
			Title:              strings.TrimSpace(p.Title),
			Approach:           domain.ParseApproach(domain.CoalesceStr(p.Approach, defaults.Approach)),
			DurationSec:        domain.IntFromPtrWithDefault(0, p.DurationSec, defaults.DurationSec),
			Tags:               normalizeTags(p.Tags),
			EffectivenessScore: domain.Float64FromPtrWithDefault(0, p.Effectiveness),
			Instructions:       p.Instructions,
		})
	}
	return out
}

func itemID(id, title string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	key := strings.ToLower(strings.TrimSpace(title))
	return uuid.NewSHA1(catalogNamespace, []byte(key)).String()
}

// normalizeTags lower-cases and de-duplicates tags, keeping first-seen order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
