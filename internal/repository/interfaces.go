package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/haven/internal/domain"
)

var ErrNotFound = errors.New("not found")

// HistoryRepo stores and serves the signal history used by detection.
// List methods return the most recent n records, newest first, and an
// empty slice when the user has none.
type HistoryRepo interface {
	AddMessage(ctx context.Context, userID string, m domain.UserMessage) error
	AddAssessment(ctx context.Context, userID string, a domain.Assessment) error
	AddMoodEntry(ctx context.Context, userID string, m domain.MoodEntry) error
	AddEngagement(ctx context.Context, userID string, e domain.Engagement) error

	ListRecentMessages(ctx context.Context, userID string, n int) ([]domain.UserMessage, error)
	ListRecentAssessments(ctx context.Context, userID string, n int) ([]domain.Assessment, error)
	ListRecentMoodEntries(ctx context.Context, userID string, n int) ([]domain.MoodEntry, error)
	ListRecentEngagements(ctx context.Context, userID string, n int) ([]domain.Engagement, error)
	ListCompletedContentIDs(ctx context.Context, userID string) ([]string, error)
}

type CatalogRepo interface {
	UpsertContent(ctx context.Context, c domain.ContentItem) error
	UpsertPractice(ctx context.Context, p domain.PracticeItem) error
	FindContent(ctx context.Context, filter domain.CatalogFilter) ([]domain.ContentItem, error)
	FindPractices(ctx context.Context, filter domain.CatalogFilter) ([]domain.PracticeItem, error)
}

type UserProfileRepo interface {
	Get(ctx context.Context, userID string) (*domain.UserProfile, error)
	Upsert(ctx context.Context, p *domain.UserProfile) error
}

type CrisisEventRepo interface {
	Record(ctx context.Context, e domain.CrisisEvent) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.CrisisEvent, error)
}
