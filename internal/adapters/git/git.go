// Package git implements ports.Git by invoking the git binary.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.trai.ch/chore/internal/core/domain"
	"go.trai.ch/zerr"
)

// Client runs git subcommands.
type Client struct {
	binary string
}

// New creates a Client that runs the git found on PATH.
func New() *Client {
	return &Client{binary: "git"}
}

// Clone clones url into dir.
func (c *Client) Clone(ctx context.Context, url, dir string) error {
	if _, err := c.run(ctx, "", "clone", url, dir); err != nil {
		return zerr.With(zerr.Wrap(joinKind(domain.ErrCloneFailed, err), url), "dir", dir)
	}
	return nil
}

// RemoteUpdate fetches the refs of every remote of the repository in dir.
func (c *Client) RemoteUpdate(ctx context.Context, dir string) error {
	if _, err := c.run(ctx, dir, "remote", "update"); err != nil {
		return zerr.With(zerr.Wrap(joinKind(domain.ErrRemoteUpdateFailed, err), dir), "dir", dir)
	}
	return nil
}

// Checkout checks out ref in dir, detaching HEAD when ref is not a local branch.
func (c *Client) Checkout(ctx context.Context, dir, ref string) error {
	if _, err := c.run(ctx, dir, "checkout", "--quiet", ref); err != nil {
		return zerr.With(zerr.Wrap(joinKind(domain.ErrUnknownRef, err), ref), "ref", ref)
	}
	return nil
}

// RevParse resolves rev to a full commit hash.
func (c *Client) RevParse(ctx context.Context, dir, rev string) (string, error) {
	out, err := c.run(ctx, dir, "rev-parse", "--verify", rev+"^{commit}")
	if err != nil {
		return "", zerr.With(zerr.Wrap(joinKind(domain.ErrRevParseFailed, err), rev), "rev", rev)
	}
	return strings.TrimSpace(out), nil
}

func (c *Client) run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, c.binary, args...) //nolint:gosec // arguments come from the project config
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && msg != "" {
			err = errors.New(msg)
		}
		return "", zerr.With(err, "args", strings.Join(args, " "))
	}

	return stdout.String(), nil
}

func joinKind(kind, cause error) error {
	return fmt.Errorf("%w: %w", kind, cause)
}
