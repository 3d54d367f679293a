// Package catalog turns a project configuration into registered tasks.
package catalog

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.trai.ch/chore/internal/core/domain"
	"go.trai.ch/chore/internal/core/ports"
	"go.trai.ch/zerr"
)

// Invoker runs registered tasks. Actions that orchestrate other tasks, such
// as the CI task, call back into it. runner.Runner implements it.
type Invoker interface {
	Invoke(ctx context.Context, id domain.TaskID, env domain.Env) (domain.Env, error)
	Reenable(id domain.TaskID)
	Has(id domain.TaskID) bool
}

// Catalog registers the tasks of a project.
type Catalog struct {
	registry *domain.Registry
	invoker  Invoker
	executor ports.Executor
	git      ports.Git
	logger   ports.Logger
	renderer ports.Renderer

	self    []string
	workDir string
	stdout  io.Writer
}

// New creates a Catalog that registers into registry.
func New(
	registry *domain.Registry,
	invoker Invoker,
	executor ports.Executor,
	git ports.Git,
	logger ports.Logger,
	renderer ports.Renderer,
) *Catalog {
	return &Catalog{
		registry: registry,
		invoker:  invoker,
		executor: executor,
		git:      git,
		logger:   logger,
		renderer: renderer,
		self:     []string{os.Args[0]},
		stdout:   os.Stdout,
	}
}

// WithSelf sets the command line that re-invokes chore, used by the CI task
// to run the sudo phase in a privileged subprocess.
func (c *Catalog) WithSelf(argv ...string) *Catalog {
	c.self = argv
	return c
}

// WithWorkDir sets the directory checkouts are considered local to.
// It defaults to the process working directory.
func (c *Catalog) WithWorkDir(dir string) *Catalog {
	c.workDir = dir
	return c
}

// WithOutput sets where command output goes when no span is active.
func (c *Catalog) WithOutput(w io.Writer) *Catalog {
	c.stdout = w
	return c
}

// Register adds every task described by project to the registry.
//
// Generated tasks are registered first so that configured tasks with the
// same identifier extend them. A "default" task depending on the suite is
// added unless the project declares one.
func (c *Catalog) Register(project *domain.Project) error {
	if project.Suite != nil {
		c.registerSuite(project.Suite)
	}
	if project.Matrix != nil {
		c.registerMatrix(project.Suite, project.Matrix)
	}
	if project.CI != nil {
		c.registerCI(project.Matrix, project.CI)
	}

	for _, def := range project.Tasks {
		c.registerTaskDef(def)
	}

	defaultID := domain.NewTaskID(domain.DefaultTask)
	if project.Suite != nil && !c.registry.Has(defaultID) {
		c.registry.Register(domain.Task{
			ID:            defaultID,
			Prerequisites: []domain.TaskID{project.Suite.Namespace},
		})
	}

	return c.validate()
}

// validate reports the first prerequisite that names no registered task.
func (c *Catalog) validate() error {
	for _, id := range c.registry.IDs() {
		task, err := c.registry.Lookup(id)
		if err != nil {
			return err
		}
		for _, pre := range task.Prerequisites {
			if _, err := c.registry.Lookup(pre); err != nil {
				return zerr.With(err, "required_by", id.String())
			}
		}
	}
	return nil
}

// output returns the writer for subprocess output: the active span when
// there is one.
func (c *Catalog) output(ctx context.Context) io.Writer {
	if span := ports.SpanFromContext(ctx); span != nil {
		return span
	}
	return c.stdout
}

// run echoes cmd and executes it with env.
func (c *Catalog) run(ctx context.Context, env domain.Env, cmd domain.Command) error {
	w := c.output(ctx)
	_, _ = fmt.Fprintf(w, "$ %s\n", cmd)
	return c.executor.Execute(ctx, cmd, env.Slice(), w, w)
}

// commandAction runs args, expanded against the environment at run time.
func (c *Catalog) commandAction(args []string) domain.Action {
	return domain.ActionFunc(func(ctx context.Context, env domain.Env) (domain.Env, error) {
		return env, c.run(ctx, env, domain.Command{Args: env.ExpandAll(args)})
	})
}

// setAction sets key to value in the environment.
func setAction(key, value string) domain.Action {
	return domain.ActionFunc(func(_ context.Context, env domain.Env) (domain.Env, error) {
		return env.With(key, value), nil
	})
}
