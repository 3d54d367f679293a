package domain

import "slices"

// Project is the parsed form of a chore.yaml file.
type Project struct {
	// Tasks are the plain tasks declared by the user, in name order.
	Tasks []TaskDef
	// Suite describes the test suite; nil when the project declares none.
	Suite *Suite
	// Matrix describes the dependency version matrix; nil when absent.
	Matrix *Matrix
	// CI describes the aggregate CI task; nil when absent.
	CI *CI
}

// TaskDef is a user-declared task.
type TaskDef struct {
	ID            TaskID
	Description   string
	Prerequisites []TaskID
	// Command is run directly when set.
	Command []string
	// Shell is run through "sh -c" when set. Only one of Command and Shell may be set.
	Shell string
	Dir   string
	Env   map[string]string
	// Set holds values exported into the environment seen by later tasks.
	Set map[string]string
	// Remove lists paths deleted before any command runs.
	Remove []string
	// WhenEnv gates the task's actions on a non-empty environment variable.
	WhenEnv string
}

// Dependency is a development dependency the suite needs installed.
type Dependency struct {
	Name    string
	Version string
}

// Suite describes the project's test suite.
type Suite struct {
	Namespace     TaskID
	Command       []string
	Prerequisites []TaskID
	// ScratchDir is removed by the "clean" task.
	ScratchDir string
	// SudoCleanup runs after the sudo specs.
	SudoCleanup []string
	// Dependencies are checked with DepCheck and installed with DepInstall.
	Dependencies []Dependency
	DepCheck     []string
	DepInstall   []string
}

// Matrix describes the versions of an external dependency the suite runs against.
type Matrix struct {
	Namespace  TaskID
	Dependency string
	Repository string
	Dir        string
	Branches   []string
	Releases   []string
	// Export holds environment templates applied after a checkout is selected.
	Export map[string]string
}

// Versions returns branches followed by releases.
func (m *Matrix) Versions() []string {
	out := make([]string, 0, len(m.Branches)+len(m.Releases))
	out = append(out, m.Branches...)
	return append(out, m.Releases...)
}

// IsBranch reports whether version names a branch rather than a release tag.
func (m *Matrix) IsBranch(version string) bool {
	return slices.Contains(m.Branches, version)
}

// CI describes the aggregate CI task.
type CI struct {
	ID TaskID
	// Lint is invoked before the phases when set.
	Lint TaskID
	// LintWhenEnv gates the lint step on a non-empty environment variable.
	LintWhenEnv string
	// SudoPrefix is prepended to the re-invocation of chore for the sudo phase.
	// When empty the sudo phase runs in-process.
	SudoPrefix []string
	// AfterSudo runs after the sudo phase; its failure is logged and ignored.
	AfterSudo []string
}
