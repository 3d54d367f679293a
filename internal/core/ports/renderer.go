package ports

import "time"

// Renderer is the abstraction for output rendering.
// Task lifecycle events arrive from the tracing bridge; phase banners and
// outcomes come from the CI task.
//
//go:generate go run go.uber.org/mock/mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// OnTaskStart is called when a task invocation begins.
	// spanID: unique identifier for this invocation
	// parentID: spanID of the invoking task (empty for targets)
	OnTaskStart(spanID, parentID, name string, startTime time.Time)

	// OnTaskLog is called when a task emits output.
	// data may contain partial lines.
	OnTaskLog(spanID string, data []byte)

	// OnTaskComplete is called when a task invocation finishes.
	// err is nil if the task succeeded.
	OnTaskComplete(spanID string, endTime time.Time, err error)

	// OnPhase announces the start of a named phase of a run.
	OnPhase(title string)

	// OnOutcome reports whether a phase passed.
	OnOutcome(name string, passed bool)

	// Flush writes out any buffered output.
	Flush() error
}
