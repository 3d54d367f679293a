package domain

import "go.trai.ch/zerr"

// Sentinel errors are wrapped with zerr.Wrap at the failure site so that
// errors.Is keeps matching them while metadata is attached with zerr.With.
var (
	// ErrUnknownTask is returned when a task identifier is not registered.
	ErrUnknownTask = zerr.New("unknown task")

	// ErrInvalidTaskName is returned when a task name has empty or malformed segments.
	ErrInvalidTaskName = zerr.New("invalid task name")

	// ErrInvalidTaskDefinition is returned when a configured task mixes incompatible fields.
	ErrInvalidTaskDefinition = zerr.New("invalid task definition")

	// ErrTaskExecutionFailed is returned when a task action or its subprocess fails.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrCycleDetected is returned when a prerequisite chain leads back to a task in progress.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrNoTargetsSpecified is returned when no task was named and no default task exists.
	ErrNoTargetsSpecified = zerr.New("no targets specified")

	// ErrInvalidEnvEntry is returned when an --env value is not of the form KEY=VALUE.
	ErrInvalidEnvEntry = zerr.New("invalid environment entry, expected KEY=VALUE")

	// ErrRunFailed marks failures that were already reported by the renderer.
	ErrRunFailed = zerr.New("run failed")

	// ErrCommandFailed is returned when a subprocess exits non-zero or cannot start.
	ErrCommandFailed = zerr.New("command failed")

	// ErrEmptyCommand is returned when a command has no arguments.
	ErrEmptyCommand = zerr.New("empty command")

	// ErrRemoveFailed is returned when a path cannot be removed.
	ErrRemoveFailed = zerr.New("failed to remove path")

	// ErrCloneFailed is returned when the dependency repository cannot be cloned.
	ErrCloneFailed = zerr.New("failed to clone repository")

	// ErrRemoteUpdateFailed is returned when fetching remote refs fails.
	ErrRemoteUpdateFailed = zerr.New("failed to update remote refs")

	// ErrUnknownRef is returned when the requested branch or tag does not exist.
	ErrUnknownRef = zerr.New("unknown ref")

	// ErrRevParseFailed is returned when a revision cannot be resolved to a commit.
	ErrRevParseFailed = zerr.New("failed to resolve revision")

	// ErrCheckoutOutsideTree is returned when a non-branch ref is requested for a checkout
	// that lives outside the working directory.
	ErrCheckoutOutsideTree = zerr.New("checkout is outside the working tree, only branches can be used")

	// ErrMissingDependencyVersion is returned when the CI task runs without a dependency version.
	ErrMissingDependencyVersion = zerr.New("dependency version is required, set " + EnvDepVersion)

	// ErrMissingCheckoutPath is returned when running against a local checkout without a path.
	ErrMissingCheckoutPath = zerr.New("checkout path is required, set " + EnvDepCheckout)

	// ErrCIRunFailed is returned when any phase of the CI task failed.
	ErrCIRunFailed = zerr.New("spec run failed, please review the log for more information")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrUnsupportedConfigVersion is returned when the config file declares an unknown version.
	ErrUnsupportedConfigVersion = zerr.New("unsupported config version")
)
