package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/haven/internal/domain"
	"github.com/alexanderramin/haven/internal/repository"
)

const DefaultEventTimeout = 2 * time.Second

// NewRepoEventSink persists events through a CrisisEventRepo.
func NewRepoEventSink(repo repository.CrisisEventRepo) EventSink {
	return EventSinkFunc(repo.Record)
}

// NewLogEventSink writes one structured line per event.
func NewLogEventSink(logger *slog.Logger) EventSink {
	return EventSinkFunc(func(ctx context.Context, e domain.CrisisEvent) error {
		logger.WarnContext(ctx, "crisis_event",
			"user_id", e.UserID,
			"risk_level", e.Level.String(),
			"confidence", e.Confidence,
			"action_taken", string(e.ActionTaken),
			"indicators", e.Indicators,
		)
		return nil
	})
}

type multiSink []EventSink

// NewMultiSink records to every sink and joins their errors. One failing
// sink does not stop the others.
func NewMultiSink(sinks ...EventSink) EventSink {
	var out multiSink
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (m multiSink) RecordCrisisEvent(ctx context.Context, e domain.CrisisEvent) error {
	var errs []error
	for _, s := range m {
		if err := s.RecordCrisisEvent(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// EventEmitter delivers crisis events in the background. Emit returns
// immediately; delivery survives cancellation of the request context but
// is bounded by the emitter timeout. Sink errors are logged and dropped.
type EventEmitter struct {
	sink    EventSink
	timeout time.Duration
	logger  *slog.Logger
	metrics *Metrics
	wg      sync.WaitGroup
}

func NewEventEmitter(sink EventSink, timeout time.Duration, logger *slog.Logger, metrics *Metrics) *EventEmitter {
	if timeout <= 0 {
		timeout = DefaultEventTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &EventEmitter{sink: sink, timeout: timeout, logger: logger, metrics: metrics}
}

func (e *EventEmitter) Emit(ctx context.Context, event domain.CrisisEvent) {
	if e == nil || e.sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				e.metrics.sinkFailed()
				e.logger.WarnContext(ctx, "crisis event sink panicked", "user_id", event.UserID, "panic", r)
			}
		}()
		if err := e.sink.RecordCrisisEvent(ctx, event); err != nil {
			e.metrics.sinkFailed()
			e.logger.WarnContext(ctx, "recording crisis event failed", "user_id", event.UserID, "error", err)
		}
	}()
}

// Wait blocks until every emitted event has been delivered or dropped.
func (e *EventEmitter) Wait() {
	if e == nil {
		return
	}
	e.wg.Wait()
}
