package domain

import (
	"context"
	"strings"
)

// Action is a unit of executable logic attached to a task.
// It receives the environment produced so far and returns the environment
// handed to the next action or task.
type Action interface {
	Run(ctx context.Context, env Env) (Env, error)
}

// ActionFunc adapts a function to the Action interface.
type ActionFunc func(ctx context.Context, env Env) (Env, error)

// Run calls f(ctx, env).
func (f ActionFunc) Run(ctx context.Context, env Env) (Env, error) {
	return f(ctx, env)
}

// Task is a named, invocable unit of automation.
type Task struct {
	ID            TaskID
	Description   string
	Prerequisites []TaskID
	Actions       []Action
	// Scoped tasks hand their caller the environment they were invoked with.
	// Changes made by their prerequisites and actions stay inside the task.
	Scoped bool
}

// Command describes a subprocess invocation.
type Command struct {
	// Args is the argv of the process; Args[0] is looked up in PATH.
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env holds per-command overrides applied on top of the task environment.
	Env map[string]string
}

// String renders the command line for logs.
func (c Command) String() string {
	return strings.Join(c.Args, " ")
}
