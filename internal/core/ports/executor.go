// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/chore/internal/core/domain"
)

// Executor defines the interface for running subprocesses.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs cmd with env as its complete environment, in "KEY=VALUE"
	// form. cmd.Env entries override env.
	//
	// It returns an error wrapping domain.ErrCommandFailed with the exit code
	// as metadata if the process cannot start or exits non-zero.
	Execute(ctx context.Context, cmd domain.Command, env []string, stdout, stderr io.Writer) error
}
