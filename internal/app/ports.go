package app

import (
	"context"

	"github.com/alexanderramin/haven/internal/domain"
)

// CrisisDetectionUseCase is the detection half of the engine. DetectCrisis
// never fails; DetectForUser only fails on invalid input.
type CrisisDetectionUseCase interface {
	DetectCrisis(ctx context.Context, userID string, snapshot domain.SignalSnapshot) domain.CrisisDetectionResult
	DetectForUser(ctx context.Context, userID string) (domain.CrisisDetectionResult, error)
	CheckMessage(ctx context.Context, text string) CheckResult
}

// RecommendationUseCase is the recommendation half of the engine.
type RecommendationUseCase interface {
	GetRecommendations(ctx context.Context, rc domain.RecommendationContext, maxItems int) domain.RecommendationResult
	RecommendForUser(ctx context.Context, req RecommendRequest) (*RecommendResponse, error)
}

// SignalLogUseCase records user history consumed by detection.
type SignalLogUseCase interface {
	RecordMessage(ctx context.Context, userID string, m domain.UserMessage) error
	RecordMood(ctx context.Context, userID string, m domain.MoodEntry) error
	RecordAssessment(ctx context.Context, userID string, a domain.Assessment) error
	RecordEngagement(ctx context.Context, userID string, e domain.Engagement) error
}

type ProfileUseCase interface {
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
	SetProfile(ctx context.Context, p *domain.UserProfile) error
}

type CatalogImportResult struct {
	ContentCount  int `json:"contentCount"`
	PracticeCount int `json:"practiceCount"`
}

type CatalogImportUseCase interface {
	ImportCatalog(ctx context.Context, filePath string) (*CatalogImportResult, error)
}
