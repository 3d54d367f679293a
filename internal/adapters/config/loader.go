// Package config provides the configuration loader for chore.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"go.trai.ch/chore/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the only config schema version understood by the loader.
const SupportedVersion = "1"

// DefaultSudoPrefix is used when the ci section does not set sudo_prefix.
var DefaultSudoPrefix = []string{"sudo", "-E"}

// Loader implements ports.ConfigLoader for chore.yaml files.
type Loader struct{}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the configuration file at path.
func (l *Loader) Load(path string) (*domain.Project, error) {
	return Load(path)
}

// Load reads a configuration file from the given path and returns a domain.Project.
func Load(path string) (*domain.Project, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(joinKind(domain.ErrConfigReadFailed, err), path), "path", path)
	}

	project, err := Parse(data)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, path), "path", path)
	}
	return project, nil
}

// Parse decodes and validates a chore.yaml document. Unknown fields are rejected.
func Parse(data []byte) (*domain.Project, error) {
	var file Chorefile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, joinKind(domain.ErrConfigParseFailed, err)
	}

	if file.Version != "" && file.Version != SupportedVersion {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedConfigVersion, file.Version), "version", file.Version)
	}

	return toProject(&file)
}

func toProject(file *Chorefile) (*domain.Project, error) {
	project := &domain.Project{}

	for _, name := range slices.Sorted(maps.Keys(file.Tasks)) {
		def, err := toTaskDef(name, file.Tasks[name])
		if err != nil {
			return nil, err
		}
		project.Tasks = append(project.Tasks, def)
	}

	if file.Suite == nil && (file.Matrix != nil || file.CI != nil) {
		return nil, invalid("suite", "the matrix and ci sections require a suite section")
	}

	if file.Suite != nil {
		suite, err := toSuite(file.Suite)
		if err != nil {
			return nil, err
		}
		project.Suite = suite
	}

	if file.Matrix != nil {
		matrix, err := toMatrix(file.Matrix, project.Suite.Namespace)
		if err != nil {
			return nil, err
		}
		project.Matrix = matrix
	}

	if file.CI != nil {
		if project.Matrix == nil {
			return nil, invalid("ci", "the ci section requires a matrix section")
		}
		ci, err := toCI(file.CI, project.Suite.Namespace)
		if err != nil {
			return nil, err
		}
		project.CI = ci
	}

	return project, nil
}

func toTaskDef(name string, dto TaskDTO) (domain.TaskDef, error) {
	id, err := domain.ParseTaskID(name)
	if err != nil {
		return domain.TaskDef{}, err
	}

	if len(dto.Cmd) > 0 && dto.Shell != "" {
		return domain.TaskDef{}, invalid(name, "cmd and shell are mutually exclusive")
	}

	deps, err := domain.TaskIDs(dto.Deps)
	if err != nil {
		return domain.TaskDef{}, zerr.With(err, "task", name)
	}

	return domain.TaskDef{
		ID:            id,
		Description:   dto.Desc,
		Prerequisites: deps,
		Command:       dto.Cmd,
		Shell:         dto.Shell,
		Dir:           dto.Dir,
		Env:           dto.Env,
		Set:           dto.Set,
		Remove:        dto.Remove,
		WhenEnv:       dto.WhenEnv,
	}, nil
}

func toSuite(dto *SuiteDTO) (*domain.Suite, error) {
	ns := dto.Namespace
	if ns == "" {
		ns = domain.DefaultSuiteNamespace
	}
	namespace, err := domain.ParseTaskID(ns)
	if err != nil {
		return nil, err
	}

	if len(dto.Cmd) == 0 {
		return nil, invalid("suite", "cmd is required")
	}

	deps, err := domain.TaskIDs(dto.Deps)
	if err != nil {
		return nil, zerr.With(err, "task", ns)
	}

	if len(dto.Dependencies) > 0 && (len(dto.DepCheck) == 0 || len(dto.DepInstall) == 0) {
		return nil, invalid("suite", "dependencies require dep_check and dep_install")
	}

	scratch := dto.ScratchDir
	if scratch == "" {
		scratch = domain.DefaultScratchDir
	}

	suite := &domain.Suite{
		Namespace:     namespace,
		Command:       dto.Cmd,
		Prerequisites: deps,
		ScratchDir:    scratch,
		SudoCleanup:   dto.SudoCleanup,
		DepCheck:      dto.DepCheck,
		DepInstall:    dto.DepInstall,
	}
	for _, name := range slices.Sorted(maps.Keys(dto.Dependencies)) {
		suite.Dependencies = append(suite.Dependencies, domain.Dependency{
			Name:    name,
			Version: dto.Dependencies[name],
		})
	}

	return suite, nil
}

func toMatrix(dto *MatrixDTO, suiteNS domain.TaskID) (*domain.Matrix, error) {
	if dto.Dependency == "" || dto.Repository == "" || dto.Dir == "" {
		return nil, invalid("matrix", "dependency, repository and dir are required")
	}

	namespace := suiteNS.Child(dto.Dependency)
	if dto.Namespace != "" {
		parsed, err := domain.ParseTaskID(dto.Namespace)
		if err != nil {
			return nil, err
		}
		namespace = parsed
	}

	matrix := &domain.Matrix{
		Namespace:  namespace,
		Dependency: dto.Dependency,
		Repository: dto.Repository,
		Dir:        dto.Dir,
		Branches:   dto.Branches,
		Releases:   dto.Releases,
		Export:     dto.Export,
	}

	seen := make(map[string]struct{})
	for _, v := range matrix.Versions() {
		if _, err := domain.ParseTaskID(v); err != nil {
			return nil, zerr.With(err, "version", v)
		}
		if _, dup := seen[v]; dup {
			return nil, zerr.With(invalid("matrix", "duplicate version"), "version", v)
		}
		seen[v] = struct{}{}
	}

	return matrix, nil
}

func toCI(dto *CIDTO, suiteNS domain.TaskID) (*domain.CI, error) {
	ci := &domain.CI{
		ID:          suiteNS.Child("ci"),
		LintWhenEnv: dto.LintWhenEnv,
		SudoPrefix:  dto.SudoPrefix,
		AfterSudo:   dto.AfterSudo,
	}
	if ci.SudoPrefix == nil {
		ci.SudoPrefix = slices.Clone(DefaultSudoPrefix)
	}

	if dto.Task != "" {
		id, err := domain.ParseTaskID(dto.Task)
		if err != nil {
			return nil, err
		}
		ci.ID = id
	}

	if dto.Lint != "" {
		id, err := domain.ParseTaskID(dto.Lint)
		if err != nil {
			return nil, err
		}
		ci.Lint = id
	}

	return ci, nil
}

func invalid(section, reason string) error {
	return zerr.With(zerr.Wrap(domain.ErrInvalidTaskDefinition, reason), "section", section)
}

func joinKind(kind, cause error) error {
	return fmt.Errorf("%w: %w", kind, cause)
}
