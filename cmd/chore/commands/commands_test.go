package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/chore/cmd/chore/commands"
	"go.trai.ch/chore/internal/app"
	"go.trai.ch/chore/internal/build"
	"go.trai.ch/chore/internal/core/domain"
	"go.trai.ch/chore/internal/ui/output"
)

type mockApp struct {
	runFunc  func(ctx context.Context, targetNames []string, opts app.RunOptions) error
	listFunc func(ctx context.Context, opts app.ListOptions) error
}

func (m *mockApp) Run(ctx context.Context, targetNames []string, opts app.RunOptions) error {
	if m.runFunc != nil {
		return m.runFunc(ctx, targetNames, opts)
	}
	return nil
}

func (m *mockApp) List(ctx context.Context, opts app.ListOptions) error {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return nil
}

func TestCommands_Run(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var capturedOpts app.RunOptions
		var capturedTargets []string

		mock := &mockApp{
			runFunc: func(_ context.Context, targetNames []string, opts app.RunOptions) error {
				capturedOpts = opts
				capturedTargets = targetNames
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{
			"--config", "ci/chore.yaml",
			"-e", "RUBYGEMS_VERSION=v2.4.5",
			"--env", "LINT=1",
			"--color", "always",
			"run", "spec:ci", "spec:clean",
		})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"spec:ci", "spec:clean"}, capturedTargets)
		assert.Equal(t, "ci/chore.yaml", capturedOpts.ConfigPath)
		assert.Equal(t, []string{"RUBYGEMS_VERSION=v2.4.5", "LINT=1"}, capturedOpts.Env)
		assert.Equal(t, output.ColorAlways, capturedOpts.Color)
	})

	t.Run("defaults config path", func(t *testing.T) {
		var capturedOpts app.RunOptions
		mock := &mockApp{
			runFunc: func(_ context.Context, _ []string, opts app.RunOptions) error {
				capturedOpts = opts
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"run", "spec"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, domain.DefaultConfigFile, capturedOpts.ConfigPath)
	})

	t.Run("returns error on run failure", func(t *testing.T) {
		mock := &mockApp{
			runFunc: func(_ context.Context, _ []string, _ app.RunOptions) error {
				return errors.New("simulated error")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"run", "spec"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})

	t.Run("shows usage when nothing to run", func(t *testing.T) {
		called := false
		mock := &mockApp{
			runFunc: func(_ context.Context, targetNames []string, _ app.RunOptions) error {
				called = true
				assert.Empty(t, targetNames)
				return domain.ErrNoTargetsSpecified
			},
		}

		cli := commands.New(mock)
		buf := new(bytes.Buffer)
		cli.SetOutput(buf, buf)
		cli.SetArgs([]string{"run"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.True(t, called)
		assert.Contains(t, buf.String(), "Usage:")
	})

	t.Run("rejects unknown color mode", func(t *testing.T) {
		mock := &mockApp{
			runFunc: func(_ context.Context, _ []string, _ app.RunOptions) error {
				panic("should not be called")
			},
		}

		cli := commands.New(mock)
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
		cli.SetArgs([]string{"--color", "sometimes", "run", "spec"})

		err := cli.Execute(context.Background())
		require.ErrorIs(t, err, commands.ErrInvalidColor)
	})
}

func TestCommands_List(t *testing.T) {
	var captured app.ListOptions
	mock := &mockApp{
		listFunc: func(_ context.Context, opts app.ListOptions) error {
			captured = opts
			return nil
		},
	}

	cli := commands.New(mock)
	cli.SetArgs([]string{"-c", "other.yaml", "list", "--all"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, app.ListOptions{ConfigPath: "other.yaml", All: true}, captured)
}

func TestCommands_Version(t *testing.T) {
	mock := &mockApp{}
	cli := commands.New(mock)

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	err := cli.Execute(context.Background())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), build.Version)
}
