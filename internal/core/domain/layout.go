package domain

const (
	// DefaultConfigFile is the name of the project configuration file.
	DefaultConfigFile = "chore.yaml"

	// DefaultSuiteNamespace is the namespace of the suite tasks when none is configured.
	DefaultSuiteNamespace = "spec"

	// DefaultScratchDir is removed by the suite's clean task.
	DefaultScratchDir = "tmp"

	// DefaultTask runs when no task is named on the command line.
	DefaultTask = "default"

	// CheckoutTaskPrefix prefixes the per-version checkout tasks of a matrix.
	CheckoutTaskPrefix = "checkout_"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750
)
