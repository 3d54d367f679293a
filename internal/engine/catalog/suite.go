package catalog

import (
	"context"
	"fmt"

	"go.trai.ch/chore/internal/core/domain"
	"go.trai.ch/chore/internal/engine/runner"
)

// suiteIDs names the tasks registered for a suite namespace.
type suiteIDs struct {
	run            domain.TaskID
	clean          domain.TaskID
	deps           domain.TaskID
	setSudo        domain.TaskID
	cleanSudo      domain.TaskID
	sudo           domain.TaskID
	setRealWorld   domain.TaskID
	realWorld      domain.TaskID
	setRecord      domain.TaskID
	record         domain.TaskID
	setPreRecorded domain.TaskID
	preRecorded    domain.TaskID
}

func newSuiteIDs(ns domain.TaskID) suiteIDs {
	return suiteIDs{
		run:            ns,
		clean:          ns.Child("clean"),
		deps:           ns.Child("deps"),
		setSudo:        ns.Child("set_sudo"),
		cleanSudo:      ns.Child("clean_sudo"),
		sudo:           ns.Child("sudo"),
		setRealWorld:   ns.Child("set_realworld"),
		realWorld:      ns.Child("realworld"),
		setRecord:      ns.Child("set_record"),
		record:         ns.Child("record"),
		setPreRecorded: ns.Child("set_prerecorded"),
		preRecorded:    ns.Child("prerecorded"),
	}
}

func (c *Catalog) registerSuite(suite *domain.Suite) {
	ids := newSuiteIDs(suite.Namespace)
	reg := c.registry

	reg.Register(domain.Task{
		ID:            ids.run,
		Description:   "Run specs",
		Prerequisites: suite.Prerequisites,
		Actions:       []domain.Action{c.commandAction(suite.Command)},
	})

	reg.Register(domain.Task{
		ID:          ids.clean,
		Description: "Remove the spec scratch directory",
		Actions: []domain.Action{domain.ActionFunc(func(_ context.Context, env domain.Env) (domain.Env, error) {
			return env, remove(env.Expand(suite.ScratchDir))
		})},
	})

	reg.Register(domain.Task{
		ID:          ids.deps,
		Description: "Ensure spec dependencies are installed",
		Actions:     []domain.Action{c.depsAction(suite)},
	})

	reg.Register(domain.Task{ID: ids.setSudo, Actions: []domain.Action{setAction(domain.EnvSudo, domain.FlagOn)}})
	cleanSudo := []domain.Action{domain.ActionFunc(func(_ context.Context, env domain.Env) (domain.Env, error) {
		return env.Without(domain.EnvSudo), nil
	})}
	if len(suite.SudoCleanup) > 0 {
		cleanSudo = append([]domain.Action{c.commandAction(suite.SudoCleanup)}, cleanSudo...)
	}
	reg.Register(domain.Task{ID: ids.cleanSudo, Actions: cleanSudo})
	reg.Register(domain.Task{
		ID:            ids.sudo,
		Description:   "Run the spec suite with the sudo tests",
		Prerequisites: []domain.TaskID{ids.setSudo, ids.run, ids.cleanSudo},
	})

	reg.Register(domain.Task{ID: ids.setRealWorld, Actions: []domain.Action{setAction(domain.EnvRealWorld, domain.FlagOn)}})
	reg.Register(domain.Task{
		ID:            ids.realWorld,
		Description:   "Run the real-world spec suite (requires internet)",
		Prerequisites: []domain.TaskID{ids.setRealWorld, ids.run},
	})

	reg.Register(domain.Task{ID: ids.setRecord, Actions: []domain.Action{setAction(domain.EnvRecord, domain.FlagOn)}})
	reg.Register(domain.Task{
		ID:            ids.record,
		Description:   "Run the real-world spec suite, re-recording its fixtures",
		Prerequisites: []domain.TaskID{ids.setRecord, ids.realWorld},
	})

	reg.Register(domain.Task{ID: ids.setPreRecorded, Actions: []domain.Action{setAction(domain.EnvPreRecorded, domain.FlagOn)}})
	reg.Register(domain.Task{
		ID:            ids.preRecorded,
		Description:   "Run the spec suite against recorded fixtures only",
		Prerequisites: []domain.TaskID{ids.setPreRecorded, ids.run},
	})
}

// depsAction checks each dependency and installs the ones the check rejects.
func (c *Catalog) depsAction(suite *domain.Suite) domain.Action {
	return domain.ActionFunc(func(ctx context.Context, env domain.Env) (domain.Env, error) {
		for _, dep := range suite.Dependencies {
			local := env.With("NAME", dep.Name).With("VERSION", dep.Version)

			installed := runner.Guard(func() error {
				return c.run(ctx, env, domain.Command{Args: local.ExpandAll(suite.DepCheck)})
			})
			if installed {
				continue
			}

			c.logger.Info(fmt.Sprintf("installing %s %s", dep.Name, dep.Version))
			if err := c.run(ctx, env, domain.Command{Args: local.ExpandAll(suite.DepInstall)}); err != nil {
				return env, err
			}
		}
		return env, nil
	})
}
