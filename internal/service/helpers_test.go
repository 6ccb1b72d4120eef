package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/haven/internal/db"
	"github.com/alexanderramin/haven/internal/detection"
	"github.com/alexanderramin/haven/internal/domain"
	"github.com/alexanderramin/haven/internal/recommend"
	"github.com/alexanderramin/haven/internal/repository"
	"github.com/alexanderramin/haven/internal/testutil"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

// fakeHistory serves a fixed snapshot. Individual sources can be made to
// fail or stall.
type fakeHistory struct {
	snapshot  domain.SignalSnapshot
	completed []string
	failOn    map[string]error
	stallOn   map[string]bool
}

var _ repository.HistoryRepo = (*fakeHistory)(nil)

func (f *fakeHistory) source(ctx context.Context, name string) error {
	if f.stallOn[name] {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.failOn[name]
}

func (f *fakeHistory) AddMessage(context.Context, string, domain.UserMessage) error   { return nil }
func (f *fakeHistory) AddAssessment(context.Context, string, domain.Assessment) error { return nil }
func (f *fakeHistory) AddMoodEntry(context.Context, string, domain.MoodEntry) error   { return nil }
func (f *fakeHistory) AddEngagement(context.Context, string, domain.Engagement) error { return nil }

func (f *fakeHistory) ListRecentMessages(ctx context.Context, _ string, _ int) ([]domain.UserMessage, error) {
	return f.snapshot.RecentUserMessages, f.source(ctx, "messages")
}

func (f *fakeHistory) ListRecentAssessments(ctx context.Context, _ string, _ int) ([]domain.Assessment, error) {
	return f.snapshot.RecentAssessments, f.source(ctx, "assessments")
}

func (f *fakeHistory) ListRecentMoodEntries(ctx context.Context, _ string, _ int) ([]domain.MoodEntry, error) {
	return f.snapshot.RecentMoodEntries, f.source(ctx, "mood_entries")
}

func (f *fakeHistory) ListRecentEngagements(ctx context.Context, _ string, _ int) ([]domain.Engagement, error) {
	return f.snapshot.RecentEngagements, f.source(ctx, "engagements")
}

func (f *fakeHistory) ListCompletedContentIDs(ctx context.Context, _ string) ([]string, error) {
	return f.completed, f.source(ctx, "completed_content")
}

// recordingSink collects delivered events.
type recordingSink struct {
	mu     sync.Mutex
	events []domain.CrisisEvent
	ctxErr []error
	err    error
}

func (s *recordingSink) RecordCrisisEvent(ctx context.Context, e domain.CrisisEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	s.ctxErr = append(s.ctxErr, ctx.Err())
	return s.err
}

func (s *recordingSink) Events() []domain.CrisisEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CrisisEvent(nil), s.events...)
}

// failingProfiles returns err from every call.
type failingProfiles struct{ err error }

func (f failingProfiles) Get(context.Context, string) (*domain.UserProfile, error) { return nil, f.err }
func (f failingProfiles) Upsert(context.Context, *domain.UserProfile) error        { return f.err }

var errSourceDown = errors.New("source down")

// bufferLogger returns a JSON logger writing into the returned buffer.
func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

// crisisFixture bundles a crisis service over a fake history.
type crisisFixture struct {
	svc     *crisisService
	history *fakeHistory
	sink    *recordingSink
	emitter *EventEmitter
	metrics *Metrics
	logs    *bytes.Buffer
}

func newCrisisFixture(t *testing.T) *crisisFixture {
	t.Helper()
	logger, logs := bufferLogger()
	metrics := NewMetrics()
	history := &fakeHistory{}
	sink := &recordingSink{}
	emitter := NewEventEmitter(sink, time.Second, logger, metrics)
	loader := NewSnapshotLoader(history, 10, 50*time.Millisecond, logger)
	svc := newCrisisService(detection.MustDefaultDetector(), loader, emitter, CrisisOptions{
		AnalyzerTimeout: 50 * time.Millisecond,
		Logger:          logger,
		Metrics:         metrics,
	})
	return &crisisFixture{svc: svc, history: history, sink: sink, emitter: emitter, metrics: metrics, logs: logs}
}

// sqliteStack wires the real repositories over an in-memory database.
type sqliteStack struct {
	db        *sql.DB
	uow       db.UnitOfWork
	history   *repository.SQLiteHistoryRepo
	catalog   *repository.SQLiteCatalogRepo
	profiles  *repository.SQLiteUserProfileRepo
	events    *repository.SQLiteCrisisEventRepo
	emitter   *EventEmitter
	crisis    *crisisService
	recommend *recommendService
}

func newSQLiteStack(t *testing.T) *sqliteStack {
	t.Helper()
	database := testutil.NewTestDB(t)
	st := &sqliteStack{
		db:       database,
		uow:      testutil.NewTestUoW(database),
		history:  repository.NewSQLiteHistoryRepo(database),
		catalog:  repository.NewSQLiteCatalogRepo(database),
		profiles: repository.NewSQLiteUserProfileRepo(database),
		events:   repository.NewSQLiteCrisisEventRepo(database),
	}
	loader := NewSnapshotLoader(st.history, 10, time.Second, nil)
	st.emitter = NewEventEmitter(NewRepoEventSink(st.events), time.Second, nil, nil)
	st.crisis = newCrisisService(detection.MustDefaultDetector(), loader, st.emitter, CrisisOptions{AnalyzerTimeout: time.Second})
	pipeline := recommend.NewDefaultPipeline(st.catalog, time.Second, nil)
	st.recommend = NewRecommendService(pipeline, st.crisis, loader, st.profiles, RecommendOptions{}).(*recommendService)
	return st
}

func (st *sqliteStack) seedCatalog(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	items := []domain.ContentItem{
		{ID: "crisis-988", Title: "988 Suicide & Crisis Lifeline", Type: domain.ItemCrisisResource, Approach: domain.ApproachHybrid, ImmediateRelief: true, EffectivenessScore: 9, Tags: []string{"crisis"}},
		{ID: "c-breath", Title: "Box breathing", Type: domain.ItemContent, Approach: domain.ApproachHybrid, DurationSec: 240, ImmediateRelief: true, EffectivenessScore: 8, Popularity: 40, Tags: []string{"anxiety"}},
		{ID: "c-journal", Title: "Evening journal", Type: domain.ItemContent, Approach: domain.ApproachWestern, DurationSec: 900, EffectivenessScore: 6, Popularity: 30, Tags: []string{"depression"}},
	}
	for _, c := range items {
		require.NoError(t, st.catalog.UpsertContent(ctx, c))
	}
	require.NoError(t, st.catalog.UpsertPractice(ctx, domain.PracticeItem{
		ID: "p-walk", Title: "Mindful walk", Approach: domain.ApproachHybrid, DurationSec: 900, EffectivenessScore: 7, Tags: []string{"stress-relief"},
	}))
}
