package testutil

import (
	"time"

	"github.com/alexanderramin/haven/internal/domain"
	"github.com/google/uuid"
)

// Content options
type ContentOption func(*domain.ContentItem)

func WithContentType(t domain.ItemType) ContentOption {
	return func(c *domain.ContentItem) {
		c.Type = t
	}
}

func WithApproach(a domain.Approach) ContentOption {
	return func(c *domain.ContentItem) {
		c.Approach = a
	}
}

func WithDurationSec(sec int) ContentOption {
	return func(c *domain.ContentItem) {
		c.DurationSec = sec
	}
}

func WithTags(tags ...string) ContentOption {
	return func(c *domain.ContentItem) {
		c.Tags = tags
	}
}

func WithImmediateRelief() ContentOption {
	return func(c *domain.ContentItem) {
		c.ImmediateRelief = true
	}
}

func WithEffectiveness(score float64) ContentOption {
	return func(c *domain.ContentItem) {
		c.EffectivenessScore = score
	}
}

func WithPopularity(p int) ContentOption {
	return func(c *domain.ContentItem) {
		c.Popularity = p
	}
}

func NewTestContentItem(title string, opts ...ContentOption) domain.ContentItem {
	c := domain.ContentItem{
		ID:                 uuid.New().String(),
		Title:              title,
		Type:               domain.ItemContent,
		Approach:           domain.ApproachHybrid,
		DurationSec:        300,
		Tags:               []string{},
		EffectivenessScore: 5,
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// NewTestCrisisResource is an immediate-relief crisis resource.
func NewTestCrisisResource(title string) domain.ContentItem {
	return NewTestContentItem(title,
		WithContentType(domain.ItemCrisisResource),
		WithImmediateRelief(),
		WithEffectiveness(9),
		WithDurationSec(0),
	)
}

// Practice options
type PracticeOption func(*domain.PracticeItem)

func WithPracticeApproach(a domain.Approach) PracticeOption {
	return func(p *domain.PracticeItem) {
		p.Approach = a
	}
}

func WithPracticeTags(tags ...string) PracticeOption {
	return func(p *domain.PracticeItem) {
		p.Tags = tags
	}
}

func WithPracticeDurationSec(sec int) PracticeOption {
	return func(p *domain.PracticeItem) {
		p.DurationSec = sec
	}
}

func NewTestPractice(title string, opts ...PracticeOption) domain.PracticeItem {
	p := domain.PracticeItem{
		ID:                 uuid.New().String(),
		Title:              title,
		Approach:           domain.ApproachHybrid,
		DurationSec:        600,
		Tags:               []string{},
		EffectivenessScore: 6,
		Instructions:       "Follow along at your own pace.",
	}
	for _, o := range opts {
		o(&p)
	}
	return p
}

// NewTestUserID returns a unique user id.
func NewTestUserID() string {
	return "user-" + uuid.New().String()
}

func NewTestProfile(userID string, approach domain.Approach, wellness float64) *domain.UserProfile {
	return &domain.UserProfile{
		UserID:        userID,
		Approach:      approach,
		WellnessScore: wellness,
		UpdatedAt:     time.Now().UTC(),
	}
}

// MoodSeries builds mood entries one hour apart, newest first, ending at now.
func MoodSeries(now time.Time, moods ...string) []domain.MoodEntry {
	out := make([]domain.MoodEntry, len(moods))
	for i, m := range moods {
		out[i] = domain.MoodEntry{Mood: m, Timestamp: now.Add(-time.Duration(i) * time.Hour)}
	}
	return out
}
