package catalog

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"

	"go.trai.ch/chore/internal/core/domain"
	"go.trai.ch/zerr"
)

// registerTaskDef registers a task declared in the tasks section.
// Definitions without removals, exports or a command only add prerequisites.
func (c *Catalog) registerTaskDef(def domain.TaskDef) {
	task := domain.Task{
		ID:            def.ID,
		Description:   def.Description,
		Prerequisites: def.Prerequisites,
	}
	if len(def.Remove) > 0 || len(def.Set) > 0 || len(def.Command) > 0 || def.Shell != "" {
		task.Actions = []domain.Action{c.taskDefAction(def)}
	}
	c.registry.Register(task)
}

func (c *Catalog) taskDefAction(def domain.TaskDef) domain.Action {
	return domain.ActionFunc(func(ctx context.Context, env domain.Env) (domain.Env, error) {
		if def.WhenEnv != "" && !env.Enabled(def.WhenEnv) {
			c.logger.Info(fmt.Sprintf("skipping %s, %s is not set", def.ID, def.WhenEnv))
			return env, nil
		}

		for _, p := range def.Remove {
			if err := remove(env.Expand(p)); err != nil {
				return env, err
			}
		}

		for _, k := range slices.Sorted(maps.Keys(def.Set)) {
			env = env.With(k, env.Expand(def.Set[k]))
		}

		args := env.ExpandAll(def.Command)
		if def.Shell != "" {
			// sh expands variables itself from the environment it is given.
			args = []string{"sh", "-c", def.Shell}
		}
		if len(args) == 0 {
			return env, nil
		}

		cmd := domain.Command{Args: args, Dir: env.Expand(def.Dir)}
		if len(def.Env) > 0 {
			cmd.Env = make(map[string]string, len(def.Env))
			for k, v := range def.Env {
				cmd.Env[k] = env.Expand(v)
			}
		}
		return env, c.run(ctx, env, cmd)
	})
}

// remove deletes path recursively. A missing path is not an error.
func remove(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return zerr.With(zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrRemoveFailed, err), path), "path", path)
	}
	return nil
}
