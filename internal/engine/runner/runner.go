// Package runner invokes registered tasks and their prerequisites.
package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.trai.ch/chore/internal/core/domain"
	"go.trai.ch/chore/internal/core/ports"
	"go.trai.ch/zerr"
)

// Runner executes tasks from a registry, one at a time.
// It owns the set of tasks already executed in the current run.
type Runner struct {
	registry *domain.Registry
	tracer   ports.Tracer

	executed map[domain.TaskID]struct{}
	stack    []domain.TaskID
}

// New creates a Runner over registry. Each invocation opens a span on tracer.
func New(registry *domain.Registry, tracer ports.Tracer) *Runner {
	return &Runner{
		registry: registry,
		tracer:   tracer,
		executed: make(map[domain.TaskID]struct{}),
	}
}

// Invoke runs the task id after its prerequisites and returns the resulting
// environment. A task that already executed in this run is skipped and env is
// returned unchanged.
//
// Prerequisites run in declared order and each sees the environment produced
// by the one before it. A scoped task returns the environment it received.
func (r *Runner) Invoke(ctx context.Context, id domain.TaskID, env domain.Env) (domain.Env, error) {
	task, err := r.registry.Lookup(id)
	if err != nil {
		return env, err
	}

	if r.Executed(id) {
		return env, nil
	}

	if idx := r.indexInStack(id); idx >= 0 {
		return env, r.buildCycleError(idx, id)
	}

	if err := ctx.Err(); err != nil {
		return env, err
	}

	in := env
	r.stack = append(r.stack, id)
	defer func() { r.stack = r.stack[:len(r.stack)-1] }()

	ctx, span := r.tracer.Start(ctx, id.String())
	defer span.End()
	ctx = ports.ContextWithSpan(ctx, span)

	for _, pre := range task.Prerequisites {
		env, err = r.Invoke(ctx, pre, env)
		if err != nil {
			span.RecordError(err)
			return env, err
		}
	}

	// Marked before the actions run so a failed task is not retried within the run.
	r.executed[id] = struct{}{}

	for i, action := range task.Actions {
		next, err := action.Run(ctx, env)
		if err != nil {
			err = r.executionError(id, i, err)
			span.RecordError(err)
			return env, err
		}
		env = next
	}

	if task.Scoped {
		return in, nil
	}
	return env, nil
}

// Reenable clears the executed mark of id so the next Invoke runs it again.
// Prerequisites keep their marks.
func (r *Runner) Reenable(id domain.TaskID) {
	delete(r.executed, id)
}

// Executed reports whether id already ran in this run.
func (r *Runner) Executed(id domain.TaskID) bool {
	_, ok := r.executed[id]
	return ok
}

// Has reports whether id is registered.
func (r *Runner) Has(id domain.TaskID) bool {
	return r.registry.Has(id)
}

func (r *Runner) indexInStack(id domain.TaskID) int {
	for i, s := range r.stack {
		if s == id {
			return i
		}
	}
	return -1
}

// buildCycleError constructs an error with cycle path metadata.
func (r *Runner) buildCycleError(start int, id domain.TaskID) error {
	parts := make([]string, 0, len(r.stack)-start+1)
	for _, s := range r.stack[start:] {
		parts = append(parts, s.String())
	}
	parts = append(parts, id.String())
	cycle := strings.Join(parts, " -> ")
	return zerr.With(zerr.Wrap(domain.ErrCycleDetected, cycle), "cycle", cycle)
}

// executionError wraps an action failure. Failures of nested invocations
// already carry the failing task and pass through untouched.
func (r *Runner) executionError(id domain.TaskID, action int, err error) error {
	if errors.Is(err, domain.ErrTaskExecutionFailed) || errors.Is(err, domain.ErrUnknownTask) ||
		errors.Is(err, domain.ErrCycleDetected) {
		return err
	}
	wrapped := zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrTaskExecutionFailed, err), id.String())
	return zerr.With(zerr.With(wrapped, "task", id.String()), "action", action)
}
