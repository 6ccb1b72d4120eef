package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/haven/internal/app"
	"github.com/alexanderramin/haven/internal/db"
	"github.com/alexanderramin/haven/internal/domain"
	"github.com/alexanderramin/haven/internal/repository"
)

type signalLogService struct {
	history  repository.HistoryRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
	now      func() time.Time
}

func NewSignalLogService(history repository.HistoryRepo, uow db.UnitOfWork, observers ...UseCaseObserver) app.SignalLogUseCase {
	return &signalLogService{
		history:  history,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
	}
}

func (s *signalLogService) RecordMessage(ctx context.Context, userID string, m domain.UserMessage) (err error) {
	start := time.Now()
	defer func() { observe(ctx, s.observer, "log.message", start, err, map[string]any{"user_id": userID}) }()

	if err := app.ValidateUserID(userID); err != nil {
		return err
	}
	if strings.TrimSpace(m.Text) == "" {
		return invalidInput("message text must not be empty")
	}
	m.Timestamp = s.stamp(m.Timestamp)
	return s.history.AddMessage(ctx, userID, m)
}

// RecordMood stores the entry and, in the same transaction, updates the
// stored profile's recent mood when a profile exists.
func (s *signalLogService) RecordMood(ctx context.Context, userID string, m domain.MoodEntry) (err error) {
	start := time.Now()
	defer func() { observe(ctx, s.observer, "log.mood", start, err, map[string]any{"user_id": userID}) }()

	if err := app.ValidateUserID(userID); err != nil {
		return err
	}
	m.Mood = strings.ToLower(strings.TrimSpace(m.Mood))
	if m.Mood == "" {
		return invalidInput("mood must not be empty")
	}
	m.Timestamp = s.stamp(m.Timestamp)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteHistoryRepo(tx).AddMoodEntry(ctx, userID, m); err != nil {
			return err
		}
		profiles := repository.NewSQLiteUserProfileRepo(tx)
		p, err := profiles.Get(ctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		p.RecentMood = m.Mood
		p.UpdatedAt = s.now().UTC()
		return profiles.Upsert(ctx, p)
	})
}

func (s *signalLogService) RecordAssessment(ctx context.Context, userID string, a domain.Assessment) (err error) {
	start := time.Now()
	defer func() { observe(ctx, s.observer, "log.assessment", start, err, map[string]any{"user_id": userID}) }()

	if err := app.ValidateUserID(userID); err != nil {
		return err
	}
	if strings.TrimSpace(a.Type) == "" {
		return invalidInput("assessment type must not be empty")
	}
	if a.Score < 0 || a.Score > 100 {
		return invalidInput(fmt.Sprintf("assessment score %.1f must be between 0 and 100", a.Score))
	}
	a.CompletedAt = s.stamp(a.CompletedAt)
	return s.history.AddAssessment(ctx, userID, a)
}

func (s *signalLogService) RecordEngagement(ctx context.Context, userID string, e domain.Engagement) (err error) {
	start := time.Now()
	defer func() { observe(ctx, s.observer, "log.engagement", start, err, map[string]any{"user_id": userID}) }()

	if err := app.ValidateUserID(userID); err != nil {
		return err
	}
	if e.Effectiveness != nil && (*e.Effectiveness < 1 || *e.Effectiveness > 10) {
		return invalidInput("effectiveness must be between 1 and 10")
	}
	if e.Rating != nil && (*e.Rating < 1 || *e.Rating > 5) {
		return invalidInput("rating must be between 1 and 5")
	}
	if e.TimeSpentSec != nil && *e.TimeSpentSec < 0 {
		return invalidInput("time spent must not be negative")
	}
	e.EngagedAt = s.stamp(e.EngagedAt)
	return s.history.AddEngagement(ctx, userID, e)
}

func (s *signalLogService) stamp(t time.Time) time.Time {
	if t.IsZero() {
		return s.now().UTC()
	}
	return t
}

func invalidInput(msg string) error {
	return &app.EngineError{Code: app.ErrInvalidInput, Message: msg}
}
