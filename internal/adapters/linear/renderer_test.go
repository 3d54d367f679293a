package linear_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/chore/internal/adapters/linear"
	"go.trai.ch/chore/internal/ui/output"
)

func newRenderer() (*linear.Renderer, *bytes.Buffer, *bytes.Buffer) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	return linear.NewRenderer(stdout, stderr, output.ColorNever), stdout, stderr
}

func TestRenderer_TaskLifecycle(t *testing.T) {
	r, stdout, stderr := newRenderer()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	r.OnTaskStart("span-1", "", "spec", start)
	r.OnTaskLog("span-1", []byte("line1\nline2\n"))
	r.OnTaskComplete("span-1", start.Add(1500*time.Millisecond), nil)

	assert.Equal(t, "[spec] line1\n[spec] line2\n", stdout.String())
	assert.Contains(t, stderr.String(), "[spec] Starting...")
	assert.Contains(t, stderr.String(), "[spec] ✓ Completed in 1.5s")
}

func TestRenderer_PartialLines(t *testing.T) {
	r, stdout, _ := newRenderer()
	start := time.Now()

	r.OnTaskStart("span-1", "", "spec", start)
	r.OnTaskLog("span-1", []byte("part1"))
	assert.Empty(t, stdout.String(), "partial line must be buffered")

	r.OnTaskLog("span-1", []byte("part2\ntail"))
	assert.Equal(t, "[spec] part1part2\n", stdout.String())

	r.OnTaskComplete("span-1", start, nil)
	assert.Equal(t, "[spec] part1part2\n[spec] tail\n", stdout.String())
}

func TestRenderer_Flush(t *testing.T) {
	r, stdout, _ := newRenderer()

	r.OnTaskStart("span-1", "", "lint", time.Now())
	r.OnTaskLog("span-1", []byte("no newline"))
	require.NoError(t, r.Flush())

	assert.Equal(t, "[lint] no newline\n", stdout.String())
}

func TestRenderer_Failure(t *testing.T) {
	r, _, stderr := newRenderer()
	start := time.Now()

	r.OnTaskStart("span-1", "", "spec:sudo", start)
	r.OnTaskComplete("span-1", start, errors.New("exit status 1"))

	assert.Contains(t, stderr.String(), "[spec:sudo] ✗ Failed after 0s: exit status 1")
}

func TestRenderer_UnknownSpan(t *testing.T) {
	r, stdout, stderr := newRenderer()

	r.OnTaskLog("missing", []byte("dropped\n"))
	r.OnTaskComplete("missing", time.Now(), nil)

	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRenderer_PhaseAndOutcome(t *testing.T) {
	r, stdout, _ := newRenderer()

	r.OnPhase("Running specs against rubygems v2.4.5")
	r.OnOutcome("specs", true)
	r.OnOutcome("sudo", false)

	want := strings.Join([]string{
		"",
		"[CI] Running specs against rubygems v2.4.5",
		"",
		"[CI] specs passed",
		"[CI] sudo failed",
		"",
	}, "\n")
	assert.Equal(t, want, stdout.String())
}

func TestRenderer_ColoredOutcome(t *testing.T) {
	stdout := new(bytes.Buffer)
	r := linear.NewRenderer(stdout, new(bytes.Buffer), output.ColorAlways)

	r.OnOutcome("realworld", true)
	r.OnOutcome("realworld", false)

	assert.Contains(t, stdout.String(), "\x1b[32m[CI] realworld passed")
	assert.Contains(t, stdout.String(), "\x1b[31m[CI] realworld failed")
}
