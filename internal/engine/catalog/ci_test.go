package catalog_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/chore/internal/core/domain"
	"go.uber.org/mock/gomock"
)

const sudoCommand = "sudo -E chore --config chore.yaml run spec:rubygems:v2.4.5:sudo"

func ciProject(dir string) *domain.Project {
	p := matrixProject(dir)
	p.CI = &domain.CI{
		ID:         id("spec:travis"),
		SudoPrefix: []string{"sudo", "-E"},
	}
	return p
}

func ciEnv() domain.Env {
	return domain.NewEnv(map[string]string{domain.EnvDepVersion: "v2.4.5"})
}

func expectCheckout(f *fixture, dir string) {
	f.git.EXPECT().Clone(gomock.Any(), gomock.Any(), dir).Return(nil)
	f.git.EXPECT().RevParse(gomock.Any(), dir, "HEAD").Return(commit, nil)
}

func expectPhases(f *fixture, specs, sudo, realWorld bool) {
	gomock.InOrder(
		f.renderer.EXPECT().OnPhase("Running specs against rubygems v2.4.5"),
		f.renderer.EXPECT().OnPhase("Running sudo specs against rubygems v2.4.5"),
		f.renderer.EXPECT().OnPhase("Running real-world specs against rubygems v2.4.5"),
		f.renderer.EXPECT().OnOutcome("specs", specs),
		f.renderer.EXPECT().OnOutcome("sudo", sudo),
		f.renderer.EXPECT().OnOutcome("realworld", realWorld),
	)
}

func TestCI_AllPhasesPass(t *testing.T) {
	f := newFixture(t)
	f.quietLogger()
	dir := filepath.Join(f.workDir, "rubygems")
	require.NoError(t, f.catalog.Register(ciProject(dir)))

	expectCheckout(f, dir)
	expectPhases(f, true, true, true)

	_, err := f.invoke(t, "spec:travis", ciEnv())
	require.NoError(t, err)

	assert.Equal(t, []string{"rspec", sudoCommand, "rspec"}, f.commands())

	specs, sudo, realWorld := f.calls[0].Env, f.calls[1].Env, f.calls[2].Env
	assert.Equal(t, dir, specs.Get(domain.EnvDepPath))
	assert.False(t, specs.Enabled(domain.EnvRealWorld))
	assert.Equal(t, dir, sudo.Get(domain.EnvDepPath), "the sudo subprocess inherits the checkout")
	assert.Equal(t, domain.FlagOn, realWorld.Get(domain.EnvRealWorld))
	assert.Equal(t, dir, realWorld.Get(domain.EnvDepPath))
}

func TestCI_SudoSubprocessReusesParentCheckout(t *testing.T) {
	parent := newFixture(t)
	parent.quietLogger()
	dir := filepath.Join(parent.workDir, "rubygems")
	require.NoError(t, parent.catalog.Register(ciProject(dir)))

	expectCheckout(parent, dir)
	expectPhases(parent, true, true, true)

	_, err := parent.invoke(t, "spec:travis", ciEnv())
	require.NoError(t, err)
	require.Equal(t, sudoCommand, parent.calls[1].Command)
	childEnv := parent.calls[1].Env

	// The sudo subprocess starts with a fresh runner and the parent's environment.
	child := newFixture(t)
	child.quietLogger()
	require.NoError(t, child.catalog.Register(ciProject(dir)))

	_, err = child.invoke(t, "spec:rubygems:v2.4.5:sudo", childEnv)
	require.NoError(t, err)

	require.Equal(t, []string{"rspec"}, child.commands(), "no second checkout runs in the subprocess")
	sudo := child.calls[0].Env
	assert.Equal(t, commit, sudo.Get(domain.EnvDepCommit))
	assert.Equal(t, "v2.4.5", sudo.Get(domain.EnvDepRef))
	assert.Equal(t, childEnv.Get("RUBYOPT"), sudo.Get("RUBYOPT"))
	assert.Equal(t, 1, strings.Count(sudo.Get("RUBYOPT"), "-I"))
	assert.Equal(t, domain.FlagOn, sudo.Get(domain.EnvSudo))
}

func TestCI_FailedPhaseDoesNotStopTheOthers(t *testing.T) {
	f := newFixture(t)
	dir := filepath.Join(f.workDir, "rubygems")
	require.NoError(t, f.catalog.Register(ciProject(dir)))

	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Error(gomock.Any()).Times(1)
	expectCheckout(f, dir)
	expectPhases(f, true, false, true)
	f.fail[sudoCommand] = domain.ErrCommandFailed

	_, err := f.invoke(t, "spec:travis", ciEnv())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCIRunFailed)
	assert.ErrorIs(t, err, domain.ErrTaskExecutionFailed)

	assert.Equal(t, []string{"rspec", sudoCommand, "rspec"}, f.commands())
}

func TestCI_InProcessSudo(t *testing.T) {
	f := newFixture(t)
	f.quietLogger()
	dir := filepath.Join(f.workDir, "rubygems")
	p := ciProject(dir)
	p.CI.SudoPrefix = nil
	p.CI.AfterSudo = []string{"chown", "-R", "ci", "${CHORE_DEP_PATH}"}
	require.NoError(t, f.catalog.Register(p))

	expectCheckout(f, dir)
	expectPhases(f, true, true, true)

	_, err := f.invoke(t, "spec:travis", ciEnv())
	require.NoError(t, err)

	assert.Equal(t, []string{"rspec", "rspec", "chown -R ci " + dir, "rspec"}, f.commands())
	assert.Equal(t, domain.FlagOn, f.calls[1].Env.Get(domain.EnvSudo))
	assert.False(t, f.calls[3].Env.Enabled(domain.EnvSudo))
}

func TestCI_AfterSudoFailureIsIgnored(t *testing.T) {
	f := newFixture(t)
	dir := filepath.Join(f.workDir, "rubygems")
	p := ciProject(dir)
	p.CI.AfterSudo = []string{"cleanup"}
	require.NoError(t, f.catalog.Register(p))

	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Warn(gomock.Any()).Times(1)
	expectCheckout(f, dir)
	expectPhases(f, true, true, true)
	f.fail["cleanup"] = domain.ErrCommandFailed

	_, err := f.invoke(t, "spec:travis", ciEnv())
	require.NoError(t, err)
}

func TestCI_Lint(t *testing.T) {
	t.Run("runs before the phases", func(t *testing.T) {
		f := newFixture(t)
		f.quietLogger()
		dir := filepath.Join(f.workDir, "rubygems")
		p := ciProject(dir)
		p.CI.Lint = id("rubocop")
		p.Tasks = []domain.TaskDef{{ID: id("rubocop"), Command: []string{"rubocop"}}}
		require.NoError(t, f.catalog.Register(p))

		f.renderer.EXPECT().OnPhase("Running rubocop")
		expectCheckout(f, dir)
		expectPhases(f, true, true, true)

		_, err := f.invoke(t, "spec:travis", ciEnv())
		require.NoError(t, err)
		assert.Equal(t, "rubocop", f.commands()[0])
	})

	t.Run("failure is fatal", func(t *testing.T) {
		f := newFixture(t)
		dir := filepath.Join(f.workDir, "rubygems")
		p := ciProject(dir)
		p.CI.Lint = id("rubocop")
		p.Tasks = []domain.TaskDef{{ID: id("rubocop"), Command: []string{"rubocop"}}}
		require.NoError(t, f.catalog.Register(p))

		f.renderer.EXPECT().OnPhase("Running rubocop")
		f.fail["rubocop"] = domain.ErrCommandFailed

		_, err := f.invoke(t, "spec:travis", ciEnv())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrCommandFailed)
		assert.Equal(t, []string{"rubocop"}, f.commands())
	})

	t.Run("gated by environment", func(t *testing.T) {
		f := newFixture(t)
		f.quietLogger()
		dir := filepath.Join(f.workDir, "rubygems")
		p := ciProject(dir)
		p.CI.Lint = id("rubocop")
		p.CI.LintWhenEnv = "LINT"
		p.Tasks = []domain.TaskDef{{ID: id("rubocop"), Command: []string{"rubocop"}}}
		require.NoError(t, f.catalog.Register(p))

		expectCheckout(f, dir)
		expectPhases(f, true, true, true)

		_, err := f.invoke(t, "spec:travis", ciEnv())
		require.NoError(t, err)
		assert.NotContains(t, f.commands(), "rubocop")
	})
}

func TestCI_RequiresVersion(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.catalog.Register(ciProject(filepath.Join(f.workDir, "rubygems"))))

	_, err := f.invoke(t, "spec:travis", domain.Env{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingDependencyVersion)
}

func TestCI_UnknownVersion(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.catalog.Register(ciProject(filepath.Join(f.workDir, "rubygems"))))

	_, err := f.invoke(t, "spec:travis", domain.NewEnv(map[string]string{domain.EnvDepVersion: "v9"}))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownTask)
}
