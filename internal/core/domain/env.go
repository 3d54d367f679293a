package domain

import (
	"maps"
	"os"
	"slices"
	"strings"
)

// Well-known environment keys. Mode flags are set to "1" and read by the
// external test runner.
const (
	// EnvSudo enables the test suite's sudo specs.
	EnvSudo = "CHORE_SUDO_TESTS"
	// EnvRealWorld enables specs that hit live network services.
	EnvRealWorld = "CHORE_REALWORLD_TESTS"
	// EnvRecord makes the test runner re-record its fixtures.
	EnvRecord = "CHORE_RECORD"
	// EnvPreRecorded makes the test runner replay recorded fixtures only.
	EnvPreRecorded = "CHORE_PRERECORDED"

	// EnvDepVersion selects the dependency version the CI task runs against.
	EnvDepVersion = "CHORE_DEP_VERSION"
	// EnvDepCheckout points at a local dependency checkout to run against.
	EnvDepCheckout = "CHORE_DEP_CHECKOUT"

	// EnvDepPath is set to the absolute path of the dependency checkout in use.
	EnvDepPath = "CHORE_DEP_PATH"
	// EnvDepRef is set to the branch or tag that was checked out.
	EnvDepRef = "CHORE_DEP_REF"
	// EnvDepCommit is set to the commit hash of the checkout's HEAD.
	EnvDepCommit = "CHORE_DEP_COMMIT"

	// FlagOn is the value written for enabled mode flags.
	FlagOn = "1"
)

// Env is an immutable set of environment variables threaded through task
// invocations. Every mutation returns a new Env.
type Env struct {
	vars map[string]string
}

// NewEnv creates an Env holding a copy of vars.
func NewEnv(vars map[string]string) Env {
	return Env{vars: maps.Clone(vars)}
}

// EnvFromSlice parses "KEY=VALUE" entries such as os.Environ().
// Entries without '=' are ignored; later entries win.
func EnvFromSlice(entries []string) Env {
	vars := make(map[string]string, len(entries))
	for _, entry := range entries {
		k, v, ok := strings.Cut(entry, "=")
		if ok && k != "" {
			vars[k] = v
		}
	}
	return Env{vars: vars}
}

// Get returns the value of key, or "" when unset.
func (e Env) Get(key string) string {
	return e.vars[key]
}

// Lookup returns the value of key and whether it is set.
func (e Env) Lookup(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

// Enabled reports whether key is set to a non-empty value.
func (e Env) Enabled(key string) bool {
	return e.vars[key] != ""
}

// With returns a copy of e with key set to value.
func (e Env) With(key, value string) Env {
	vars := make(map[string]string, len(e.vars)+1)
	maps.Copy(vars, e.vars)
	vars[key] = value
	return Env{vars: vars}
}

// Without returns a copy of e with key removed.
func (e Env) Without(key string) Env {
	if _, ok := e.vars[key]; !ok {
		return e
	}
	vars := maps.Clone(e.vars)
	delete(vars, key)
	return Env{vars: vars}
}

// Merge returns a copy of e overlaid with vars.
func (e Env) Merge(vars map[string]string) Env {
	if len(vars) == 0 {
		return e
	}
	merged := make(map[string]string, len(e.vars)+len(vars))
	maps.Copy(merged, e.vars)
	maps.Copy(merged, vars)
	return Env{vars: merged}
}

// Len returns the number of variables.
func (e Env) Len() int {
	return len(e.vars)
}

// Keys returns the variable names in sorted order.
func (e Env) Keys() []string {
	return slices.Sorted(maps.Keys(e.vars))
}

// Slice returns the variables as sorted "KEY=VALUE" entries, the form
// expected by exec.Cmd.Env.
func (e Env) Slice() []string {
	out := make([]string, 0, len(e.vars))
	for _, k := range e.Keys() {
		out = append(out, k+"="+e.vars[k])
	}
	return out
}

// Expand replaces ${var} and $var in s with values from e.
// Unset variables expand to the empty string.
func (e Env) Expand(s string) string {
	return os.Expand(s, e.Get)
}

// ExpandAll expands every element of args.
func (e Env) ExpandAll(args []string) []string {
	if args == nil {
		return nil
	}
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = e.Expand(a)
	}
	return out
}
