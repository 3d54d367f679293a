package catalog

import (
	"context"
	"fmt"
	"slices"

	"go.trai.ch/chore/internal/core/domain"
	"go.trai.ch/chore/internal/engine/runner"
	"go.trai.ch/zerr"
)

// phase outcome names, in reporting order.
const (
	phaseSpecs     = "specs"
	phaseSudo      = "sudo"
	phaseRealWorld = "realworld"
)

func (c *Catalog) registerCI(m *domain.Matrix, ci *domain.CI) {
	c.registry.Register(domain.Task{
		ID:          ci.ID,
		Description: fmt.Sprintf("Run every CI phase against the %s version in %s", m.Dependency, domain.EnvDepVersion),
		Actions:     []domain.Action{c.ciAction(m, ci)},
	})
}

// ciAction runs every CI phase for one version.
// A failing phase does not stop the ones after it; the task fails once all
// of them have run and reported.
func (c *Catalog) ciAction(m *domain.Matrix, ci *domain.CI) domain.Action {
	return domain.ActionFunc(func(ctx context.Context, env domain.Env) (domain.Env, error) {
		version := env.Get(domain.EnvDepVersion)
		if version == "" {
			return env, domain.ErrMissingDependencyVersion
		}

		ids := newMatrixIDs(m.Namespace, version)
		if !c.invoker.Has(ids.run) {
			return env, zerr.With(zerr.With(zerr.Wrap(domain.ErrUnknownTask, ids.run.String()),
				"task", ids.run.String()), "version", version)
		}

		if !ci.Lint.IsZero() && (ci.LintWhenEnv == "" || env.Enabled(ci.LintWhenEnv)) {
			c.renderer.OnPhase("Running " + ci.Lint.String())
			if _, err := c.invoker.Invoke(ctx, ci.Lint, env); err != nil {
				return env, err
			}
		}

		// Every phase shares one checkout.
		phaseEnv, err := c.invoker.Invoke(ctx, ids.checkout, env)
		if err != nil {
			return env, err
		}

		target := fmt.Sprintf("%s %s", m.Dependency, version)

		c.renderer.OnPhase("Running specs against " + target)
		specs := runner.Guard(func() error {
			return c.logged(c.invoke(ctx, ids.run, phaseEnv))
		})
		c.invoker.Reenable(ids.run)

		c.renderer.OnPhase("Running sudo specs against " + target)
		sudo := runner.Guard(func() error {
			return c.logged(c.runSudo(ctx, ci, ids, phaseEnv))
		})
		if len(ci.AfterSudo) > 0 {
			cmd := domain.Command{Args: phaseEnv.ExpandAll(ci.AfterSudo)}
			if err := c.run(ctx, phaseEnv, cmd); err != nil {
				c.logger.Warn(fmt.Sprintf("after_sudo command failed: %v", err))
			}
		}
		c.invoker.Reenable(ids.run)

		c.renderer.OnPhase("Running real-world specs against " + target)
		realWorld := runner.Guard(func() error {
			return c.logged(c.invoke(ctx, ids.realWorld, phaseEnv))
		})

		outcomes := []bool{specs, sudo, realWorld}
		for i, name := range []string{phaseSpecs, phaseSudo, phaseRealWorld} {
			c.renderer.OnOutcome(name, outcomes[i])
		}

		if slices.Contains(outcomes, false) {
			return env, domain.ErrCIRunFailed
		}
		return env, nil
	})
}

// runSudo runs the version's sudo task. With a sudo prefix it re-invokes
// chore as a privileged subprocess; otherwise it runs in this process.
func (c *Catalog) runSudo(ctx context.Context, ci *domain.CI, ids matrixIDs, env domain.Env) error {
	if len(ci.SudoPrefix) == 0 {
		return c.invoke(ctx, ids.sudo, env)
	}

	args := slices.Concat(ci.SudoPrefix, c.self, []string{"run", ids.sudo.String()})
	return c.run(ctx, env, domain.Command{Args: args})
}

func (c *Catalog) invoke(ctx context.Context, id domain.TaskID, env domain.Env) error {
	_, err := c.invoker.Invoke(ctx, id, env)
	return err
}

// logged reports err before a guard absorbs it.
func (c *Catalog) logged(err error) error {
	if err != nil {
		c.logger.Error(err)
	}
	return err
}
