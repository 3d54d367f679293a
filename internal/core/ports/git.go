package ports

import "context"

// Git defines the repository operations needed by the checkout step.
//
//go:generate go run go.uber.org/mock/mockgen -source=git.go -destination=mocks/mock_git.go -package=mocks
type Git interface {
	// Clone clones url into dir.
	Clone(ctx context.Context, url, dir string) error

	// RemoteUpdate fetches the refs of every remote of the repository in dir.
	RemoteUpdate(ctx context.Context, dir string) error

	// Checkout checks out ref in dir. It returns domain.ErrUnknownRef when
	// the ref does not exist.
	Checkout(ctx context.Context, dir, ref string) error

	// RevParse resolves rev to a full commit hash.
	RevParse(ctx context.Context, dir, rev string) (string, error)
}
