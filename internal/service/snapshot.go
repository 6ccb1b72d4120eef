package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/haven/internal/domain"
	"github.com/alexanderramin/haven/internal/repository"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultSourceTimeout = 500 * time.Millisecond
	DefaultHistoryLimit  = 10
)

// SnapshotLoader reads a user's recent history from the four sources
// concurrently. A source that fails or times out contributes an empty list.
type SnapshotLoader struct {
	history repository.HistoryRepo
	limit   int
	timeout time.Duration
	logger  *slog.Logger
}

func NewSnapshotLoader(history repository.HistoryRepo, limit int, timeout time.Duration, logger *slog.Logger) *SnapshotLoader {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if timeout <= 0 {
		timeout = DefaultSourceTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SnapshotLoader{history: history, limit: limit, timeout: timeout, logger: logger}
}

// Load never fails; the returned lists are never nil.
func (l *SnapshotLoader) Load(ctx context.Context, userID string) domain.SignalSnapshot {
	snap := domain.SignalSnapshot{UserID: userID}

	var g errgroup.Group
	g.Go(func() error {
		snap.RecentUserMessages = fetch(ctx, l, "messages", userID, l.history.ListRecentMessages)
		return nil
	})
	g.Go(func() error {
		snap.RecentAssessments = fetch(ctx, l, "assessments", userID, l.history.ListRecentAssessments)
		return nil
	})
	g.Go(func() error {
		snap.RecentMoodEntries = fetch(ctx, l, "mood_entries", userID, l.history.ListRecentMoodEntries)
		return nil
	})
	g.Go(func() error {
		snap.RecentEngagements = fetch(ctx, l, "engagements", userID, l.history.ListRecentEngagements)
		return nil
	})
	_ = g.Wait()

	return snap
}

// CompletedContentIDs is loaded under the same timeout and failure policy.
func (l *SnapshotLoader) CompletedContentIDs(ctx context.Context, userID string) []string {
	return fetch(ctx, l, "completed_content", userID, func(ctx context.Context, userID string, _ int) ([]string, error) {
		return l.history.ListCompletedContentIDs(ctx, userID)
	})
}

func fetch[T any](ctx context.Context, l *SnapshotLoader, source, userID string, list func(context.Context, string, int) ([]T, error)) []T {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	type outcome struct {
		items []T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		items, err := list(ctx, userID, l.limit)
		done <- outcome{items: items, err: err}
	}()

	var o outcome
	select {
	case o = <-done:
	case <-ctx.Done():
		o.err = ctx.Err()
	}
	if o.err != nil {
		l.logger.WarnContext(ctx, "history source unavailable, treating as empty",
			"source", source, "user_id", userID, "error", o.err)
		return []T{}
	}
	if o.items == nil {
		return []T{}
	}
	return o.items
}
