package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/haven/internal/app"
	"github.com/alexanderramin/haven/internal/detection"
	"github.com/alexanderramin/haven/internal/domain"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moderateSnapshot(userID string) domain.SignalSnapshot {
	return domain.SignalSnapshot{
		UserID: userID,
		RecentAssessments: []domain.Assessment{
			{Type: "PHQ-9 depression", Score: 65, CompletedAt: baseTime},
			{Type: "PHQ-9 depression", Score: 40, CompletedAt: baseTime.Add(-7 * 24 * time.Hour)},
		},
		RecentMoodEntries: []domain.MoodEntry{
			{Mood: "low", Timestamp: baseTime},
			{Mood: "anxious", Timestamp: baseTime.Add(-time.Hour)},
			{Mood: "struggling", Timestamp: baseTime.Add(-2 * time.Hour)},
			{Mood: "okay", Timestamp: baseTime.Add(-3 * time.Hour)},
		},
	}
}

func TestDetectCrisis_MatchesSequentialDetector(t *testing.T) {
	f := newCrisisFixture(t)
	snap := moderateSnapshot("u1")

	got := f.svc.DetectCrisis(context.Background(), "u1", snap)
	f.emitter.Wait()

	want := detection.MustDefaultDetector().Detect(snap)
	assert.Equal(t, want, got)
	assert.Equal(t, domain.RiskModerate, got.Level)
	assert.False(t, got.Degraded)
}

func TestDetectCrisis_EmptySnapshotIsNone(t *testing.T) {
	f := newCrisisFixture(t)

	got := f.svc.DetectCrisis(context.Background(), "u1", domain.SignalSnapshot{})
	f.emitter.Wait()

	assert.Equal(t, domain.RiskNone, got.Level)
	assert.Zero(t, got.Confidence)
	assert.Empty(t, got.Indicators)
	assert.False(t, got.Degraded)
	assert.Empty(t, f.sink.Events())
}

func TestDetectCrisis_SlowAnalyzerTreatedAsNoRisk(t *testing.T) {
	f := newCrisisFixture(t)
	release := make(chan struct{})
	defer close(release)
	f.svc.analyzers[1].run = func(domain.SignalSnapshot) domain.AnalyzerResult {
		<-release
		return domain.AnalyzerResult{Level: domain.RiskCritical, Confidence: 1}
	}

	start := time.Now()
	got := f.svc.DetectCrisis(context.Background(), "u1", moderateSnapshot("u1"))
	f.emitter.Wait()

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, domain.RiskLow, got.Level, "mood alone remains")
	assert.False(t, got.Degraded)
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.AnalyzerFailures.WithLabelValues("assessment")))
	assert.Contains(t, f.logs.String(), "analyzer failed")
}

func TestDetectCrisis_PanickingAnalyzerIsIsolated(t *testing.T) {
	f := newCrisisFixture(t)
	f.svc.analyzers[2].run = func(domain.SignalSnapshot) domain.AnalyzerResult { panic("boom") }

	got := f.svc.DetectCrisis(context.Background(), "u1", moderateSnapshot("u1"))
	f.emitter.Wait()

	assert.Equal(t, domain.RiskModerate, got.Level)
	assert.NotContains(t, strings.Join(got.Indicators, "|"), "mood")
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.AnalyzerFailures.WithLabelValues("mood")))
}

func TestDetectCrisis_NoAnalyzerCompletedIsDegraded(t *testing.T) {
	f := newCrisisFixture(t)
	for i := range f.svc.analyzers {
		f.svc.analyzers[i].run = func(domain.SignalSnapshot) domain.AnalyzerResult { panic("down") }
	}

	got := f.svc.DetectCrisis(context.Background(), "u1", moderateSnapshot("u1"))
	f.emitter.Wait()

	assert.Equal(t, domain.RiskNone, got.Level)
	assert.True(t, got.Degraded)
	assert.False(t, got.ImmediateAction)
	assert.Contains(t, f.logs.String(), `"degraded":true`)
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.Detections.WithLabelValues("NONE", "true")))
}

func TestDetectCrisis_FusionFailureKeepsPartialLevel(t *testing.T) {
	f := newCrisisFixture(t)
	f.svc.fuse = func(detection.FusionInput) domain.CrisisDetectionResult { panic("fuser exploded") }

	got := f.svc.DetectCrisis(context.Background(), "u1", moderateSnapshot("u1"))
	f.emitter.Wait()

	assert.Equal(t, domain.RiskModerate, got.Level)
	assert.True(t, got.Degraded)
	assert.NotEmpty(t, got.Recommendations)
	assert.Contains(t, f.logs.String(), "fuser exploded")
}

func TestDetectCrisis_EmitsEventAboveThreshold(t *testing.T) {
	f := newCrisisFixture(t)
	snap := domain.SignalSnapshot{RecentUserMessages: []domain.UserMessage{
		{Text: "I feel hopeless and I am giving up", Timestamp: baseTime},
	}}

	got := f.svc.DetectCrisis(context.Background(), "u1", snap)
	f.emitter.Wait()

	assert.Equal(t, domain.RiskHigh, got.Level)
	events := f.sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "u1", events[0].UserID)
	assert.Equal(t, domain.RiskHigh, events[0].Level)
	assert.Equal(t, domain.ActionImmediateIntervention, events[0].ActionTaken)
	assert.Equal(t, got.Indicators, events[0].Indicators)
}

func TestDetectCrisis_LowIsNotReported(t *testing.T) {
	f := newCrisisFixture(t)
	snap := domain.SignalSnapshot{RecentUserMessages: []domain.UserMessage{{Text: "bit stressed today", Timestamp: baseTime}}}

	got := f.svc.DetectCrisis(context.Background(), "u1", snap)
	f.emitter.Wait()

	assert.Equal(t, domain.RiskLow, got.Level)
	assert.Empty(t, f.sink.Events())
}

func TestDetectCrisis_EventSurvivesCancelledRequest(t *testing.T) {
	f := newCrisisFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	snap := domain.SignalSnapshot{RecentUserMessages: []domain.UserMessage{{Text: "I want to die", Timestamp: baseTime}}}

	got := f.svc.DetectCrisis(ctx, "u1", snap)
	cancel()
	f.emitter.Wait()

	assert.Equal(t, domain.RiskCritical, got.Level)
	require.Len(t, f.sink.Events(), 1)
	assert.NoError(t, f.sink.ctxErr[0])
}

func TestDetectCrisis_SinkFailureIsSwallowed(t *testing.T) {
	f := newCrisisFixture(t)
	f.sink.err = errors.New("analytics offline")
	snap := domain.SignalSnapshot{RecentUserMessages: []domain.UserMessage{{Text: "I want to die", Timestamp: baseTime}}}

	got := f.svc.DetectCrisis(context.Background(), "u1", snap)
	f.emitter.Wait()

	assert.Equal(t, domain.RiskCritical, got.Level)
	assert.Contains(t, f.logs.String(), "analytics offline")
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.EventSinkFailures))
}

func TestDetectForUser_InvalidUserID(t *testing.T) {
	f := newCrisisFixture(t)

	_, err := f.svc.DetectForUser(context.Background(), "  ")
	require.Error(t, err)
	var engineErr *app.EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, app.ErrInvalidUserID, engineErr.Code)
}

func TestDetectForUser_FailingSourceCountsAsEmpty(t *testing.T) {
	f := newCrisisFixture(t)
	f.history.snapshot = moderateSnapshot("u1")
	f.history.failOn = map[string]error{"assessments": errSourceDown}
	f.history.stallOn = map[string]bool{"messages": true}

	got, err := f.svc.DetectForUser(context.Background(), "u1")
	f.emitter.Wait()

	require.NoError(t, err)
	assert.Equal(t, domain.RiskLow, got.Level, "only the mood signal is available")
	assert.Contains(t, f.logs.String(), "history source unavailable")
}

func TestDetectForUser_ReadsStoredHistory(t *testing.T) {
	st := newSQLiteStack(t)
	ctx := context.Background()
	for _, a := range moderateSnapshot("u1").RecentAssessments {
		require.NoError(t, st.history.AddAssessment(ctx, "u1", a))
	}

	got, err := st.crisis.DetectForUser(ctx, "u1")
	st.emitter.Wait()

	require.NoError(t, err)
	assert.Equal(t, domain.RiskModerate, got.Level)

	events, err := st.events.ListByUser(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.ActionMonitoring, events[0].ActionTaken)
}

func TestCheckMessage(t *testing.T) {
	f := newCrisisFixture(t)

	hit := f.svc.CheckMessage(context.Background(), "sometimes I think about ending it, I want to die")
	assert.True(t, hit.CrisisLanguage)
	assert.Equal(t, detection.DefaultRules().SafetyReply, hit.Reply)
	assert.Equal(t, detection.DefaultGuidance().For(domain.RiskCritical), hit.Support)

	miss := f.svc.CheckMessage(context.Background(), "had a nice walk")
	assert.False(t, miss.CrisisLanguage)
	assert.Empty(t, miss.Reply)
	assert.NotNil(t, miss.Support)
}
