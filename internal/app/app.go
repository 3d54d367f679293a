// Package app implements the application layer for chore.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/oklog/ulid/v2"
	"go.trai.ch/chore/internal/adapters/linear"
	"go.trai.ch/chore/internal/adapters/telemetry"
	"go.trai.ch/chore/internal/core/domain"
	"go.trai.ch/chore/internal/core/ports"
	"go.trai.ch/chore/internal/engine/catalog"
	"go.trai.ch/chore/internal/engine/runner"
	"go.trai.ch/chore/internal/ui/output"
	"go.trai.ch/zerr"
)

// RunIDAttribute is the span attribute carrying the identifier of a run.
const RunIDAttribute = "run.id"

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	executor     ports.Executor
	git          ports.Git
	logger       ports.Logger

	stdout     io.Writer
	stderr     io.Writer
	environ    func() []string
	executable string
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	executor ports.Executor,
	git ports.Git,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		executor:     executor,
		git:          git,
		logger:       log,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		environ:      os.Environ,
	}
}

// WithOutput sets the streams the renderer and task output write to.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithEnviron replaces os.Environ as the source of the initial environment.
// This is primarily used for testing.
func (a *App) WithEnviron(fn func() []string) *App {
	a.environ = fn
	return a
}

// WithExecutable sets the binary the CI task re-invokes for the sudo phase.
// It defaults to the running executable.
func (a *App) WithExecutable(path string) *App {
	a.executable = path
	return a
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	// ConfigPath is the project file. It defaults to chore.yaml.
	ConfigPath string
	// Env holds KEY=VALUE entries applied on top of the process environment.
	Env   []string
	Color output.ColorMode
}

// Run invokes the named tasks in order, threading one environment through
// all of them. With no names the "default" task runs.
func (a *App) Run(ctx context.Context, targetNames []string, opts RunOptions) error {
	configPath := configPathOrDefault(opts.ConfigPath)

	// 1. Load the project
	project, err := a.configLoader.Load(configPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	env, err := a.initialEnv(opts.Env)
	if err != nil {
		return err
	}

	// 2. Initialize rendering and tracing
	runID := ulid.Make().String()
	renderer := linear.NewRenderer(a.stdout, a.stderr, opts.Color)
	tracer := telemetry.NewOTelTracer("chore", renderer)
	defer func() {
		_ = tracer.Shutdown(context.WithoutCancel(ctx))
	}()

	// 3. Register tasks
	registry := domain.NewRegistry()
	run := runner.New(registry, &runTracer{Tracer: tracer, runID: runID})
	cat := catalog.New(registry, run, a.executor, a.git, a.logger, renderer).
		WithSelf(a.self(configPath)...).
		WithOutput(a.stdout)
	if err := cat.Register(project); err != nil {
		return zerr.Wrap(err, "failed to register tasks")
	}

	// 4. Resolve targets
	targets, err := resolveTargets(registry, targetNames)
	if err != nil {
		return err
	}

	names := make([]string, len(targets))
	for i, id := range targets {
		names[i] = id.String()
	}
	a.logger.Info(fmt.Sprintf("run %s: %s", runID, strings.Join(names, " ")))

	// 5. Invoke
	for _, id := range targets {
		env, err = run.Invoke(ctx, id, env)
		if err != nil {
			if errors.Is(err, domain.ErrTaskExecutionFailed) {
				return errors.Join(domain.ErrRunFailed, err)
			}
			return err
		}
	}
	return nil
}

// ListOptions configuration for the List method.
type ListOptions struct {
	ConfigPath string
	// All includes tasks without a description.
	All bool
}

// List prints the project's tasks with their descriptions.
func (a *App) List(_ context.Context, opts ListOptions) error {
	project, err := a.configLoader.Load(configPathOrDefault(opts.ConfigPath))
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	registry := domain.NewRegistry()
	run := runner.New(registry, telemetry.NewNoOpTracer())
	renderer := linear.NewRenderer(a.stdout, a.stderr, output.ColorNever)
	if err := catalog.New(registry, run, a.executor, a.git, a.logger, renderer).Register(project); err != nil {
		return zerr.Wrap(err, "failed to register tasks")
	}

	var tasks []domain.Task
	if opts.All {
		for _, id := range registry.IDs() {
			t, _ := registry.Lookup(id)
			tasks = append(tasks, *t)
		}
	} else {
		tasks = registry.Described()
	}

	width := 0
	for _, t := range tasks {
		width = max(width, len(t.ID.String()))
	}
	for _, t := range tasks {
		line := "chore " + t.ID.String()
		if t.Description != "" {
			line = fmt.Sprintf("chore %-*s  # %s", width, t.ID.String(), t.Description)
		}
		if _, err := fmt.Fprintln(a.stdout, line); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) initialEnv(entries []string) (domain.Env, error) {
	env := domain.EnvFromSlice(a.environ())
	for _, entry := range entries {
		k, v, ok := strings.Cut(entry, "=")
		if !ok || k == "" {
			return env, zerr.With(zerr.Wrap(domain.ErrInvalidEnvEntry, entry), "entry", entry)
		}
		env = env.With(k, v)
	}
	return env, nil
}

// self returns the command line that re-invokes chore on the same project.
func (a *App) self(configPath string) []string {
	exe := a.executable
	if exe == "" {
		var err error
		if exe, err = os.Executable(); err != nil {
			exe = os.Args[0]
		}
	}
	return []string{exe, "--config", configPath}
}

func resolveTargets(registry *domain.Registry, names []string) ([]domain.TaskID, error) {
	if len(names) == 0 {
		id := domain.NewTaskID(domain.DefaultTask)
		if !registry.Has(id) {
			return nil, domain.ErrNoTargetsSpecified
		}
		return []domain.TaskID{id}, nil
	}

	ids := make([]domain.TaskID, 0, len(names))
	for _, name := range names {
		id, err := domain.ParseTaskID(name)
		if err != nil {
			// A malformed name can never be registered.
			unknown := zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrUnknownTask, err), name)
			return nil, zerr.With(unknown, "task", name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func configPathOrDefault(path string) string {
	if path == "" {
		return domain.DefaultConfigFile
	}
	return path
}

// runTracer tags every span with the run identifier.
type runTracer struct {
	ports.Tracer
	runID string
}

func (t *runTracer) Start(ctx context.Context, name string) (context.Context, ports.Span) {
	ctx, span := t.Tracer.Start(ctx, name)
	span.SetAttribute(RunIDAttribute, t.runID)
	return ctx, span
}
