package config

// Chorefile represents the structure of the chore.yaml configuration file.
type Chorefile struct {
	Version string             `yaml:"version"`
	Tasks   map[string]TaskDTO `yaml:"tasks"`
	Suite   *SuiteDTO          `yaml:"suite"`
	Matrix  *MatrixDTO         `yaml:"matrix"`
	CI      *CIDTO             `yaml:"ci"`
}

// TaskDTO represents a task definition in the configuration.
type TaskDTO struct {
	Desc    string            `yaml:"desc"`
	Deps    []string          `yaml:"deps"`
	Cmd     []string          `yaml:"cmd"`
	Shell   string            `yaml:"shell"`
	Dir     string            `yaml:"dir"`
	Env     map[string]string `yaml:"env"`
	Set     map[string]string `yaml:"set"`
	Remove  []string          `yaml:"remove"`
	WhenEnv string            `yaml:"when_env"`
}

// SuiteDTO represents the test suite section.
type SuiteDTO struct {
	Namespace    string            `yaml:"namespace"`
	Cmd          []string          `yaml:"cmd"`
	Deps         []string          `yaml:"deps"`
	ScratchDir   string            `yaml:"scratch_dir"`
	SudoCleanup  []string          `yaml:"sudo_cleanup"`
	Dependencies map[string]string `yaml:"dependencies"`
	DepCheck     []string          `yaml:"dep_check"`
	DepInstall   []string          `yaml:"dep_install"`
}

// MatrixDTO represents the dependency version matrix section.
type MatrixDTO struct {
	Namespace  string            `yaml:"namespace"`
	Dependency string            `yaml:"dependency"`
	Repository string            `yaml:"repository"`
	Dir        string            `yaml:"dir"`
	Branches   []string          `yaml:"branches"`
	Releases   []string          `yaml:"releases"`
	Export     map[string]string `yaml:"export"`
}

// CIDTO represents the aggregate CI task section.
type CIDTO struct {
	Task        string   `yaml:"task"`
	Lint        string   `yaml:"lint"`
	LintWhenEnv string   `yaml:"lint_when_env"`
	SudoPrefix  []string `yaml:"sudo_prefix"`
	AfterSudo   []string `yaml:"after_sudo"`
}
