package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/chore/internal/core/domain"
)

func TestEnv_Immutable(t *testing.T) {
	base := domain.NewEnv(map[string]string{"A": "1"})

	withB := base.With("B", "2")
	withoutA := withB.Without("A")
	merged := base.Merge(map[string]string{"A": "override", "C": "3"})

	assert.Equal(t, []string{"A=1"}, base.Slice())
	assert.Equal(t, []string{"A=1", "B=2"}, withB.Slice())
	assert.Equal(t, []string{"B=2"}, withoutA.Slice())
	assert.Equal(t, []string{"A=override", "C=3"}, merged.Slice())
}

func TestEnv_NewEnvCopies(t *testing.T) {
	vars := map[string]string{"A": "1"}
	env := domain.NewEnv(vars)
	vars["A"] = "changed"

	assert.Equal(t, "1", env.Get("A"))
}

func TestEnv_Lookup(t *testing.T) {
	env := domain.NewEnv(map[string]string{"EMPTY": "", domain.EnvSudo: domain.FlagOn})

	v, ok := env.Lookup("EMPTY")
	assert.True(t, ok)
	assert.Empty(t, v)

	_, ok = env.Lookup("MISSING")
	assert.False(t, ok)

	assert.True(t, env.Enabled(domain.EnvSudo))
	assert.False(t, env.Enabled("EMPTY"))
	assert.False(t, env.Enabled("MISSING"))
}

func TestEnvFromSlice(t *testing.T) {
	env := domain.EnvFromSlice([]string{"A=1", "B=x=y", "MALFORMED", "=skip", "A=2"})

	assert.Equal(t, 2, env.Len())
	assert.Equal(t, []string{"A", "B"}, env.Keys())
	assert.Equal(t, "2", env.Get("A"))
	assert.Equal(t, "x=y", env.Get("B"))
}

func TestEnv_Expand(t *testing.T) {
	env := domain.NewEnv(map[string]string{
		domain.EnvDepPath: "/tmp/rubygems",
		"RUBYOPT":         "-w",
	})

	assert.Equal(t, "-I/tmp/rubygems/lib -w", env.Expand("-I${CHORE_DEP_PATH}/lib ${RUBYOPT}"))
	assert.Equal(t, "[]", env.Expand("[$UNSET]"))
	assert.Equal(t, []string{"ls", "/tmp/rubygems"}, env.ExpandAll([]string{"ls", "$CHORE_DEP_PATH"}))
	assert.Nil(t, env.ExpandAll(nil))
}

func TestEnv_ZeroValue(t *testing.T) {
	var env domain.Env

	assert.Equal(t, 0, env.Len())
	assert.Empty(t, env.Slice())
	assert.Equal(t, "1", env.With("A", "1").Get("A"))
	assert.Equal(t, 0, env.Without("A").Len())
}
