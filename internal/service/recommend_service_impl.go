package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/alexanderramin/haven/internal/app"
	"github.com/alexanderramin/haven/internal/domain"
	"github.com/alexanderramin/haven/internal/recommend"
	"github.com/alexanderramin/haven/internal/repository"
)

// RecommendOptions tunes the recommendation service. Zero values select
// defaults.
type RecommendOptions struct {
	DefaultMaxItems int
	Logger          *slog.Logger
	Metrics         *Metrics
}

type recommendService struct {
	pipeline        *recommend.Pipeline
	crisis          app.CrisisDetectionUseCase
	loader          *SnapshotLoader
	profiles        repository.UserProfileRepo
	defaultMaxItems int
	logger          *slog.Logger
	metrics         *Metrics
	observer        UseCaseObserver
}

func NewRecommendService(
	pipeline *recommend.Pipeline,
	crisis app.CrisisDetectionUseCase,
	loader *SnapshotLoader,
	profiles repository.UserProfileRepo,
	opts RecommendOptions,
	observers ...UseCaseObserver,
) app.RecommendationUseCase {
	if opts.DefaultMaxItems <= 0 {
		opts.DefaultMaxItems = recommend.DefaultMaxItems
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &recommendService{
		pipeline:        pipeline,
		crisis:          crisis,
		loader:          loader,
		profiles:        profiles,
		defaultMaxItems: opts.DefaultMaxItems,
		logger:          opts.Logger,
		metrics:         opts.Metrics,
		observer:        useCaseObserverOrNoop(observers),
	}
}

// GetRecommendations runs the pipeline over a caller-built context. It
// never fails; maxItems is clamped.
func (s *recommendService) GetRecommendations(ctx context.Context, rc domain.RecommendationContext, maxItems int) domain.RecommendationResult {
	start := time.Now()
	if maxItems <= 0 {
		maxItems = s.defaultMaxItems
	}
	result, trace := s.pipeline.Recommend(ctx, rc, maxItems)
	s.metrics.observeRecommendation(result, trace)

	failed := make([]string, len(trace.Failed))
	for i, k := range trace.Failed {
		failed[i] = string(k)
	}
	observe(ctx, s.observer, "recommend.get", start, nil, map[string]any{
		"crisis_level":      result.CrisisLevel.String(),
		"items":             len(result.Items),
		"fallback_used":     result.FallbackUsed,
		"failed_generators": failed,
	})
	return result
}

// RecommendForUser builds the context from stored history and profile.
// The crisis level always comes from a fresh detection over the same
// snapshot.
func (s *recommendService) RecommendForUser(ctx context.Context, req app.RecommendRequest) (*app.RecommendResponse, error) {
	if err := app.ValidateUserID(req.UserID); err != nil {
		return nil, err
	}

	snapshot := s.loader.Load(ctx, req.UserID)
	detected := s.crisis.DetectCrisis(ctx, req.UserID, snapshot)
	profile := s.loadProfile(ctx, req.UserID)
	completed := s.loader.CompletedContentIDs(ctx, req.UserID)

	rc := BuildRecommendationContext(profile, snapshot, completed, req, detected.Level)
	return &app.RecommendResponse{
		Detection:      detected,
		Recommendation: s.GetRecommendations(ctx, rc, req.MaxItems),
	}, nil
}

// loadProfile falls back to the default profile when none is stored or the
// store is unavailable.
func (s *recommendService) loadProfile(ctx context.Context, userID string) *domain.UserProfile {
	p, err := s.profiles.Get(ctx, userID)
	if err == nil {
		return p
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.logger.WarnContext(ctx, "profile unavailable, using default", "user_id", userID, "error", err)
	}
	return domain.DefaultUserProfile(userID)
}

// BuildRecommendationContext projects stored state into the pipeline input.
// When the profile has no recent mood the newest mood entry is used.
func BuildRecommendationContext(
	profile *domain.UserProfile,
	snapshot domain.SignalSnapshot,
	completedIDs []string,
	req app.RecommendRequest,
	level domain.RiskLevel,
) domain.RecommendationContext {
	mood := profile.RecentMood
	if mood == "" && len(snapshot.RecentMoodEntries) > 0 {
		mood = newestMood(snapshot.RecentMoodEntries)
	}
	if completedIDs == nil {
		completedIDs = []string{}
	}
	return domain.RecommendationContext{
		UserID: profile.UserID,
		User: domain.UserContext{
			Approach:            domain.ParseApproach(string(profile.Approach)),
			WellnessScore:       profile.WellnessScore,
			RecentMood:          mood,
			AssessmentResults:   snapshot.RecentAssessments,
			CompletedContentIDs: completedIDs,
			EngagementHistory:   snapshot.RecentEngagements,
		},
		Situation: domain.Situation{
			TimeOfDay:        req.TimeOfDay,
			AvailableMinutes: req.AvailableMinutes,
			Environment:      req.Environment,
			CrisisLevel:      level,
			ImmediateNeed:    req.ImmediateNeed,
		},
	}
}

func newestMood(entries []domain.MoodEntry) string {
	newest := entries[0]
	for _, e := range entries[1:] {
		if e.Timestamp.After(newest.Timestamp) {
			newest = e
		}
	}
	return newest.Mood
}
