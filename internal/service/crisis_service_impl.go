package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/alexanderramin/haven/internal/app"
	"github.com/alexanderramin/haven/internal/detection"
	"github.com/alexanderramin/haven/internal/domain"
	"golang.org/x/sync/errgroup"
)

const DefaultAnalyzerTimeout = 300 * time.Millisecond

type analyzer struct {
	name string
	run  func(domain.SignalSnapshot) domain.AnalyzerResult
}

// CrisisOptions tunes the crisis service. Zero values select defaults.
type CrisisOptions struct {
	AnalyzerTimeout time.Duration
	Logger          *slog.Logger
	Metrics         *Metrics
}

type crisisService struct {
	detector  *detection.Detector
	loader    *SnapshotLoader
	emitter   *EventEmitter
	analyzers []analyzer
	fuse      func(detection.FusionInput) domain.CrisisDetectionResult
	timeout   time.Duration
	logger    *slog.Logger
	metrics   *Metrics
	observer  UseCaseObserver
	now       func() time.Time
}

func NewCrisisService(
	detector *detection.Detector,
	loader *SnapshotLoader,
	emitter *EventEmitter,
	opts CrisisOptions,
	observers ...UseCaseObserver,
) app.CrisisDetectionUseCase {
	return newCrisisService(detector, loader, emitter, opts, observers...)
}

func newCrisisService(
	detector *detection.Detector,
	loader *SnapshotLoader,
	emitter *EventEmitter,
	opts CrisisOptions,
	observers ...UseCaseObserver,
) *crisisService {
	if opts.AnalyzerTimeout <= 0 {
		opts.AnalyzerTimeout = DefaultAnalyzerTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &crisisService{
		detector: detector,
		loader:   loader,
		emitter:  emitter,
		analyzers: []analyzer{
			{"chat", func(s domain.SignalSnapshot) domain.AnalyzerResult { return detector.AnalyzeChat(s.RecentUserMessages) }},
			{"assessment", func(s domain.SignalSnapshot) domain.AnalyzerResult { return detector.AnalyzeAssessments(s.RecentAssessments) }},
			{"mood", func(s domain.SignalSnapshot) domain.AnalyzerResult { return detector.AnalyzeMood(s.RecentMoodEntries) }},
			{"engagement", func(s domain.SignalSnapshot) domain.AnalyzerResult { return detector.AnalyzeEngagement(s.RecentEngagements) }},
		},
		fuse:     detector.Fuse,
		timeout:  opts.AnalyzerTimeout,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
	}
}

// DetectCrisis runs the analyzers concurrently and fuses their results.
// It never fails: a failed analyzer counts as no risk, and a failure of
// the whole run returns the highest level already computed with Degraded
// set.
func (s *crisisService) DetectCrisis(ctx context.Context, userID string, snapshot domain.SignalSnapshot) (result domain.CrisisDetectionResult) {
	start := s.now()
	var results []domain.AnalyzerResult
	var completed []bool

	defer func() {
		if r := recover(); r != nil {
			result = s.partialResult(results, completed)
			s.logger.ErrorContext(ctx, "crisis detection failed, returning partial result",
				"user_id", userID, "panic", fmt.Sprint(r), "risk_level", result.Level.String(), "degraded", true)
		}
		s.metrics.observeDetection(result, time.Since(start).Seconds())
		observe(ctx, s.observer, "crisis.detect", start, nil, map[string]any{
			"risk_level": result.Level.String(),
			"degraded":   result.Degraded,
		})
		s.report(ctx, userID, result)
	}()

	results, completed = s.runAnalyzers(ctx, userID, snapshot)

	ran := 0
	for _, ok := range completed {
		if ok {
			ran++
		}
	}

	result = s.fuse(detection.FusionInput{
		Chat:       results[0],
		Assessment: results[1],
		Mood:       results[2],
		Engagement: results[3],
	})
	if ran == 0 {
		result.Degraded = true
		s.logger.ErrorContext(ctx, "no analyzer completed, detection degraded",
			"user_id", userID, "degraded", true)
	}
	return result
}

// runAnalyzers returns one result per analyzer, in analyzer order, and
// whether each completed. Failed slots hold domain.NoRisk().
func (s *crisisService) runAnalyzers(ctx context.Context, userID string, snapshot domain.SignalSnapshot) ([]domain.AnalyzerResult, []bool) {
	results := make([]domain.AnalyzerResult, len(s.analyzers))
	completed := make([]bool, len(s.analyzers))

	var g errgroup.Group
	for i, a := range s.analyzers {
		g.Go(func() error {
			res, err := s.runAnalyzer(ctx, a, snapshot)
			if err != nil {
				s.metrics.analyzerFailed(a.name)
				s.logger.WarnContext(ctx, "analyzer failed, treating as no risk",
					"analyzer", a.name, "user_id", userID, "error", err)
				results[i] = domain.NoRisk()
				return nil
			}
			results[i] = res
			completed[i] = true
			return nil
		})
	}
	_ = g.Wait()
	return results, completed
}

// runAnalyzer bounds one analyzer by the per-analyzer timeout. An analyzer
// still running when the timeout fires is abandoned.
func (s *crisisService) runAnalyzer(ctx context.Context, a analyzer, snapshot domain.SignalSnapshot) (domain.AnalyzerResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type outcome struct {
		result domain.AnalyzerResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("analyzer %s panicked: %v", a.name, r)}
			}
		}()
		done <- outcome{result: a.run(snapshot)}
	}()

	select {
	case o := <-done:
		return o.result, o.err
	case <-ctx.Done():
		return domain.NoRisk(), fmt.Errorf("analyzer %s: %w", a.name, ctx.Err())
	}
}

// partialResult keeps the highest level and confidence among the analyzers
// that completed before the run failed.
func (s *crisisService) partialResult(results []domain.AnalyzerResult, completed []bool) domain.CrisisDetectionResult {
	level := domain.RiskNone
	confidence := 0.0
	var indicators []string
	for i, ok := range completed {
		if !ok {
			continue
		}
		level = domain.MaxRisk(level, results[i].Level)
		confidence = math.Max(confidence, results[i].Confidence)
		indicators = append(indicators, results[i].Indicators...)
	}
	rules := s.detector.Rules()
	r := detection.NewDetectionResult(level, confidence, indicators, rules.Guidance)
	r.Degraded = true
	return r
}

func (s *crisisService) report(ctx context.Context, userID string, r domain.CrisisDetectionResult) {
	if !s.detector.ShouldReport(r) {
		return
	}
	s.emitter.Emit(ctx, domain.CrisisEvent{
		UserID:      userID,
		Level:       r.Level,
		Confidence:  r.Confidence,
		Indicators:  r.Indicators,
		ActionTaken: r.ActionTaken(),
		OccurredAt:  s.now().UTC(),
	})
}

// DetectForUser loads the user's history and runs DetectCrisis over it.
func (s *crisisService) DetectForUser(ctx context.Context, userID string) (domain.CrisisDetectionResult, error) {
	if err := app.ValidateUserID(userID); err != nil {
		return domain.CrisisDetectionResult{}, err
	}
	return s.DetectCrisis(ctx, userID, s.loader.Load(ctx, userID)), nil
}

// CheckMessage screens one message. On a match it returns the fixed safety
// reply with the emergency guidance.
func (s *crisisService) CheckMessage(ctx context.Context, text string) app.CheckResult {
	start := s.now()
	hit := s.detector.ContainsCrisisLanguage(text)
	observe(ctx, s.observer, "crisis.check", start, nil, map[string]any{"crisis_language": hit})
	if !hit {
		return app.CheckResult{Support: []string{}}
	}
	rules := s.detector.Rules()
	return app.CheckResult{
		CrisisLanguage: true,
		Reply:          rules.SafetyReply,
		Support:        rules.Guidance.For(domain.RiskCritical),
	}
}
