package domain

import "strings"

// ContentItem is a library entry: articles, audio, videos and crisis resources.
type ContentItem struct {
	ID                 string   `yaml:"id"`
	Title              string   `yaml:"title"`
	Type               ItemType `yaml:"type"`
	Approach           Approach `yaml:"approach"`
	DurationSec        int      `yaml:"duration_sec"`
	Tags               []string `yaml:"tags"`
	ImmediateRelief    bool     `yaml:"immediate_relief"`
	EffectivenessScore float64  `yaml:"effectiveness_score"` // 0-10
	Popularity         int      `yaml:"popularity"`
	Description        string   `yaml:"description"`
}

type PracticeItem struct {
	ID                 string   `yaml:"id"`
	Title              string   `yaml:"title"`
	Approach           Approach `yaml:"approach"`
	DurationSec        int      `yaml:"duration_sec"`
	Tags               []string `yaml:"tags"`
	EffectivenessScore float64  `yaml:"effectiveness_score"`
	Instructions       string   `yaml:"instructions"`
}

// CatalogFilter narrows a catalog query. Zero values mean "no constraint".
type CatalogFilter struct {
	Approach         Approach
	MaxDurationSec   int
	ImmediateRelief  bool
	Types            []ItemType
	Tags             []string // any-of
	ExcludeIDs       []string
	MinEffectiveness float64
	ByPopularity     bool
	Limit            int
}

// MatchesContent reports whether c satisfies every constraint in f
// except Limit and ByPopularity.
func (f CatalogFilter) MatchesContent(c ContentItem) bool {
	if len(f.Types) > 0 && !containsType(f.Types, c.Type) {
		return false
	}
	if f.ImmediateRelief && !c.ImmediateRelief {
		return false
	}
	return f.matches(c.ID, c.Approach, c.DurationSec, c.Tags, c.EffectivenessScore)
}

// MatchesPractice is MatchesContent for practices; Types and
// ImmediateRelief do not apply.
func (f CatalogFilter) MatchesPractice(p PracticeItem) bool {
	return f.matches(p.ID, p.Approach, p.DurationSec, p.Tags, p.EffectivenessScore)
}

func (f CatalogFilter) matches(id string, approach Approach, durationSec int, tags []string, effectiveness float64) bool {
	if !f.Approach.Matches(approach) {
		return false
	}
	if f.MaxDurationSec > 0 && durationSec > f.MaxDurationSec {
		return false
	}
	if f.MinEffectiveness > 0 && effectiveness < f.MinEffectiveness {
		return false
	}
	for _, ex := range f.ExcludeIDs {
		if ex == id {
			return false
		}
	}
	if len(f.Tags) == 0 {
		return true
	}
	for _, want := range f.Tags {
		for _, t := range tags {
			if strings.EqualFold(want, t) {
				return true
			}
		}
	}
	return false
}

func containsType(types []ItemType, t ItemType) bool {
	for _, want := range types {
		if want == t {
			return true
		}
	}
	return false
}
