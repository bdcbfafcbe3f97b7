package workspace

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// MetricsRecorder observes store operations issued by the executor.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) Observe(context.Context, string, bool, time.Duration) {}

// Executor turns a Command into at most one store call and a Result.
type Executor struct {
	store   Store
	metrics MetricsRecorder
	now     func() time.Time
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithMetrics installs a recorder for store call latency and success.
func WithMetrics(m MetricsRecorder) ExecutorOption {
	return func(e *Executor) {
		if m != nil {
			e.metrics = m
		}
	}
}

// NewExecutor constructs an executor over store.
func NewExecutor(store Store, opts ...ExecutorOption) *Executor {
	e := &Executor{store: store, metrics: noopMetrics{}, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs cmd. Store failures are reported inside the Result, never as a
// returned error, and are not retried.
func (e *Executor) Execute(ctx context.Context, cmd Command) Result {
	switch cmd.Kind {
	case KindRead:
		return e.read(ctx, cmd.Key())
	case KindWrite:
		return e.write(ctx, cmd.Key(), cmd.Status)
	default:
		return Result{Outcome: OutcomeNoAction}
	}
}

func (e *Executor) read(ctx context.Context, key Key) Result {
	if !key.Complete() {
		return Result{Outcome: OutcomeStoreError, Err: ErrIncompleteKey}
	}
	start := e.now()
	rec, found, err := e.store.Get(ctx, key, ReadFields)
	e.metrics.Observe(ctx, "get", err == nil, e.now().Sub(start))
	switch {
	case err != nil:
		return Result{Outcome: OutcomeStoreError, Err: fmt.Errorf("get workspace %s/%s: %w", key.Username, key.Email, err)}
	case !found:
		return Result{Outcome: OutcomeNotFound}
	default:
		return Result{Outcome: OutcomeFound, Record: rec}
	}
}

func (e *Executor) write(ctx context.Context, key Key, status *string) Result {
	if !key.Complete() {
		return Result{Outcome: OutcomeUpdateFailed, Err: ErrIncompleteKey}
	}
	var assign *Assignment
	if status != nil {
		assign = &Assignment{Field: FieldStatus, Value: *status}
	}
	start := e.now()
	err := e.store.Update(ctx, key, assign)
	// An absent record is an expected outcome for an update, not a store fault.
	e.metrics.Observe(ctx, "update", err == nil || errors.Is(err, ErrNotFound), e.now().Sub(start))
	if err != nil {
		return Result{Outcome: OutcomeUpdateFailed, Err: fmt.Errorf("update workspace %s/%s: %w", key.Username, key.Email, err)}
	}
	return Result{Outcome: OutcomeUpdated}
}
