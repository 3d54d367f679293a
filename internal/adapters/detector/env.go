// Package detector inspects the process environment to pick output defaults.
package detector

import (
	"os"

	"go.trai.ch/chore/internal/ui/output"
	"golang.org/x/term"
)

// IsCI reports whether the CI environment variable is set to a truthy value.
func IsCI() bool {
	ci := os.Getenv("CI")
	return ci == "true" || ci == "1"
}

// DetectColorMode returns the color mode for f when the user did not choose
// one. Terminals and CI logs are colored; pipes and files are not.
func DetectColorMode(f *os.File) output.ColorMode {
	if IsCI() {
		return output.ColorAuto
	}
	if f != nil && term.IsTerminal(int(f.Fd())) {
		return output.ColorAuto
	}
	return output.ColorNever
}

// ResolveColorMode applies the --color flag to the detected mode.
// flag should be one of "auto", "always", "never" or empty.
func ResolveColorMode(detected output.ColorMode, flag string) output.ColorMode {
	switch flag {
	case "always", "never":
		return output.ParseColorMode(flag)
	default:
		return detected
	}
}
