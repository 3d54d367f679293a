package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/chore/internal/core/domain"
	"go.trai.ch/zerr"
)

// checkoutAction brings the dependency checkout to version.
//
// A missing directory is cloned and left at the default branch. An existing
// checkout inside the working directory is fetched and switched to the
// version. A checkout outside the working directory belongs to the user and
// is used as it is, which only makes sense for branches.
//
// An environment that already carries a checkout of this directory at version
// is returned unchanged. This is how the sudo subprocess of a CI run reuses
// the commit its parent checked out.
func (c *Catalog) checkoutAction(m *domain.Matrix, version string) domain.Action {
	return domain.ActionFunc(func(ctx context.Context, env domain.Env) (domain.Env, error) {
		dir, err := filepath.Abs(env.Expand(m.Dir))
		if err != nil {
			return env, zerr.With(zerr.Wrap(err, "failed to resolve checkout dir"), "dir", m.Dir)
		}

		if env.Get(domain.EnvDepPath) == dir && env.Get(domain.EnvDepRef) == version &&
			env.Get(domain.EnvDepCommit) != "" {
			return env, nil
		}

		exists, err := isDir(dir)
		if err != nil {
			return env, err
		}

		cloned := false
		switch {
		case !exists:
			if err := os.MkdirAll(filepath.Dir(dir), domain.DirPerm); err != nil {
				return env, zerr.With(zerr.Wrap(err, "failed to create checkout parent"), "dir", dir)
			}
			if err := c.git.Clone(ctx, m.Repository, dir); err != nil {
				return env, err
			}
			cloned = true
		case c.inWorkDir(dir):
			if err := c.git.RemoteUpdate(ctx, dir); err != nil {
				return env, err
			}
			ref := version
			if m.IsBranch(version) {
				ref = "origin/" + version
			}
			if err := c.git.Checkout(ctx, dir, ref); err != nil {
				return env, err
			}
		case !m.IsBranch(version):
			return env, zerr.With(zerr.With(zerr.Wrap(domain.ErrCheckoutOutsideTree, dir), "dir", dir), "ref", version)
		}

		hash, err := c.git.RevParse(ctx, dir, "HEAD")
		if err != nil {
			return env, err
		}

		if cloned {
			c.logger.Info(fmt.Sprintf("cloned %s into %s, on the default branch at %s (requested '%s')",
				m.Dependency, dir, hash, version))
		} else {
			c.logger.Info(fmt.Sprintf("checked out %s '%s' at %s", m.Dependency, version, hash))
		}

		env = env.
			With(domain.EnvDepPath, dir).
			With(domain.EnvDepRef, version).
			With(domain.EnvDepCommit, hash)
		return applyExports(env, m.Export), nil
	})
}

// inWorkDir reports whether dir lies under the working directory.
func (c *Catalog) inWorkDir(dir string) bool {
	root := c.workDir
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return false
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return false
	}

	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

func isDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to inspect checkout dir"), "dir", path)
	}
	return info.IsDir(), nil
}
