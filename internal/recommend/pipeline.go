package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/haven/internal/domain"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultMaxItems = 5
	MaxItemsCeiling = 20

	DefaultGeneratorTimeout = 500 * time.Millisecond

	// fallbackBelow is the accumulated count under which fallback items join.
	fallbackBelow = 3
)

// ClampMaxItems maps non-positive values to the default and caps the rest.
func ClampMaxItems(n int) int {
	switch {
	case n <= 0:
		return DefaultMaxItems
	case n > MaxItemsCeiling:
		return MaxItemsCeiling
	default:
		return n
	}
}

// Trace records what happened inside one pipeline run.
type Trace struct {
	Generated map[Kind]int
	Failed    []Kind
	Errors    []error
	Panicked  bool
}

// Pipeline runs generators, merges the fallback set when needed and ranks.
// It never returns an error: failures degrade to fallback items.
type Pipeline struct {
	generators []Generator
	timeout    time.Duration
	logger     *slog.Logger
}

func NewPipeline(generators []Generator, timeout time.Duration, logger *slog.Logger) *Pipeline {
	if timeout <= 0 {
		timeout = DefaultGeneratorTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{generators: generators, timeout: timeout, logger: logger}
}

// NewDefaultPipeline wires the five standard generators over catalog.
func NewDefaultPipeline(catalog Catalog, timeout time.Duration, logger *slog.Logger) *Pipeline {
	return NewPipeline(DefaultGenerators(catalog), timeout, logger)
}

// Recommend builds the ranked list for rc. Results are deterministic for
// identical context and catalog state regardless of generator timing.
func (p *Pipeline) Recommend(ctx context.Context, rc domain.RecommendationContext, maxItems int) (result domain.RecommendationResult, trace Trace) {
	maxItems = ClampMaxItems(maxItems)
	level := rc.Situation.CrisisLevel
	trace.Generated = make(map[Kind]int)

	defer func() {
		if r := recover(); r != nil {
			p.logger.ErrorContext(ctx, "recommendation pipeline failed, serving fallback",
				"user_id", rc.UserID, "panic", fmt.Sprint(r), "degraded", true)
			trace.Panicked = true
			result = FallbackResult(level, maxItems)
		}
	}()

	focus := FocusAreas(rc.User)
	in := Input{Context: rc, FocusAreas: focus, MaxItems: maxItems}

	var candidates, topUp []Generator
	for _, g := range p.generators {
		if g.TopUp() {
			topUp = append(topUp, g)
		} else {
			candidates = append(candidates, g)
		}
	}

	batches := make([][]domain.RecommendationItem, len(candidates))
	errs := make([]error, len(candidates))
	applied := make([]bool, len(candidates))
	var eg errgroup.Group
	for i, g := range candidates {
		if !g.Applies(in) {
			continue
		}
		applied[i] = true
		eg.Go(func() error {
			batches[i], errs[i] = p.generate(ctx, g, in)
			return nil
		})
	}
	_ = eg.Wait()

	var items []domain.RecommendationItem
	for i, g := range candidates {
		if !applied[i] {
			continue
		}
		items = p.collect(ctx, &trace, items, g, batches[i], errs[i])
	}

	for _, g := range topUp {
		in.Accumulated = len(Dedup(items))
		if !g.Applies(in) {
			continue
		}
		batch, err := p.generate(ctx, g, in)
		items = p.collect(ctx, &trace, items, g, batch, err)
	}

	fallbackUsed := false
	if len(Dedup(items)) < fallbackBelow {
		items = append(items, FallbackItems(level)...)
		fallbackUsed = true
	}

	return domain.RecommendationResult{
		Items:           Rank(items, maxItems),
		FocusAreas:      focus,
		Rationale:       Rationale(level, focus),
		CrisisLevel:     level,
		ImmediateAction: level.RequiresImmediateAction(),
		FallbackUsed:    fallbackUsed,
	}, trace
}

func (p *Pipeline) collect(ctx context.Context, trace *Trace, items []domain.RecommendationItem, g Generator, batch []domain.RecommendationItem, err error) []domain.RecommendationItem {
	if err != nil {
		p.logger.WarnContext(ctx, "recommendation generator failed", "generator", string(g.Kind()), "error", err)
		trace.Failed = append(trace.Failed, g.Kind())
		trace.Errors = append(trace.Errors, err)
		return items
	}
	trace.Generated[g.Kind()] += len(batch)
	return append(items, batch...)
}

// generate runs one generator under the per-generator timeout. A generator
// that ignores its context is abandoned once the timeout fires.
func (p *Pipeline) generate(ctx context.Context, g Generator, in Input) ([]domain.RecommendationItem, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	type outcome struct {
		items []domain.RecommendationItem
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("generator %s panicked: %v", g.Kind(), r)}
			}
		}()
		items, err := g.Generate(ctx, in)
		done <- outcome{items: items, err: err}
	}()

	select {
	case o := <-done:
		return o.items, o.err
	case <-ctx.Done():
		return nil, fmt.Errorf("generator %s: %w", g.Kind(), ctx.Err())
	}
}

// FallbackResult is served when the pipeline cannot run at all.
func FallbackResult(level domain.RiskLevel, maxItems int) domain.RecommendationResult {
	return domain.RecommendationResult{
		Items:           Rank(FallbackItems(level), ClampMaxItems(maxItems)),
		FocusAreas:      []string{},
		Rationale:       Rationale(level, nil),
		CrisisLevel:     level,
		ImmediateAction: level.RequiresImmediateAction(),
		FallbackUsed:    true,
	}
}
