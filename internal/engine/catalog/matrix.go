package catalog

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"go.trai.ch/chore/internal/core/domain"
	"go.trai.ch/zerr"
)

// matrixIDs names the tasks registered for one version of a matrix.
type matrixIDs struct {
	run       domain.TaskID
	sudo      domain.TaskID
	realWorld domain.TaskID
	checkout  domain.TaskID
}

func newMatrixIDs(ns domain.TaskID, version string) matrixIDs {
	run := ns.Child(version)
	return matrixIDs{
		run:       run,
		sudo:      run.Child("sudo"),
		realWorld: run.Child("realworld"),
		checkout:  ns.Child(domain.CheckoutTaskPrefix + version),
	}
}

// registerMatrix generates the per-version tasks, the aggregate "all" task
// and the tasks running against a local checkout.
func (c *Catalog) registerMatrix(suite *domain.Suite, m *domain.Matrix) {
	suiteIDs := newSuiteIDs(suite.Namespace)
	reg := c.registry

	var all []domain.TaskID
	for _, version := range m.Versions() {
		ids := newMatrixIDs(m.Namespace, version)
		all = append(all, ids.run)

		reg.Register(domain.Task{
			ID:            ids.run,
			Description:   fmt.Sprintf("Run specs with %s %s", m.Dependency, version),
			Prerequisites: append(slices.Clone(suite.Prerequisites), ids.checkout),
			Actions:       []domain.Action{c.commandAction(suite.Command)},
			Scoped:        true,
		})
		reg.Register(domain.Task{
			ID:            ids.sudo,
			Description:   fmt.Sprintf("Run sudo specs with %s %s", m.Dependency, version),
			Prerequisites: []domain.TaskID{suiteIDs.setSudo, ids.run, suiteIDs.cleanSudo},
		})
		reg.Register(domain.Task{
			ID:            ids.realWorld,
			Description:   fmt.Sprintf("Run real-world specs with %s %s", m.Dependency, version),
			Prerequisites: []domain.TaskID{suiteIDs.setRealWorld, ids.run},
		})
		reg.Register(domain.Task{
			ID:      ids.checkout,
			Actions: []domain.Action{c.checkoutAction(m, version)},
		})
	}

	reg.Register(domain.Task{
		ID:            m.Namespace.Child("all"),
		Description:   fmt.Sprintf("Run specs against every %s version", m.Dependency),
		Prerequisites: all,
	})

	setupCo := m.Namespace.Child("setup_co")
	reg.Register(domain.Task{
		ID:      setupCo,
		Actions: []domain.Action{c.setupCheckoutAction(m)},
	})
	coDesc := fmt.Sprintf("Run specs under a %s checkout (set %s=path)", m.Dependency, domain.EnvDepCheckout)
	reg.Register(domain.Task{
		ID:            m.Namespace.Child("co"),
		Description:   coDesc,
		Prerequisites: append(slices.Clone(suite.Prerequisites), setupCo),
		Actions:       []domain.Action{c.commandAction(suite.Command)},
		Scoped:        true,
	})
}

// setupCheckoutAction points the environment at the checkout named by
// CHORE_DEP_CHECKOUT.
func (c *Catalog) setupCheckoutAction(m *domain.Matrix) domain.Action {
	return domain.ActionFunc(func(_ context.Context, env domain.Env) (domain.Env, error) {
		path := env.Get(domain.EnvDepCheckout)
		if path == "" {
			return env, domain.ErrMissingCheckoutPath
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return env, zerr.With(zerr.Wrap(err, "failed to resolve checkout path"), "path", path)
		}

		c.logger.Info(fmt.Sprintf("using %s checkout at %s", m.Dependency, abs))
		return applyExports(env.With(domain.EnvDepPath, abs), m.Export), nil
	})
}

// applyExports expands each template against env and sets the result.
// Templates are applied in key order and see the values set before them.
func applyExports(env domain.Env, exports map[string]string) domain.Env {
	for _, k := range slices.Sorted(maps.Keys(exports)) {
		env = env.With(k, env.Expand(exports[k]))
	}
	return env
}
