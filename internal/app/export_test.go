package app

import "go.trai.ch/chore/internal/core/ports"

// NewRunTracer exposes the run-tagging tracer for tests.
func NewRunTracer(tracer ports.Tracer, runID string) ports.Tracer {
	return &runTracer{Tracer: tracer, runID: runID}
}
