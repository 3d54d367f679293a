// Package output builds termenv outputs with a consistent color profile.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// ColorMode selects how output is colored.
type ColorMode int

const (
	// ColorAuto colors output when NO_COLOR is unset.
	ColorAuto ColorMode = iota
	// ColorAlways forces ANSI colors.
	ColorAlways
	// ColorNever disables colors.
	ColorNever
)

// ParseColorMode maps a --color flag value to a ColorMode.
// Unknown values fall back to ColorAuto.
func ParseColorMode(s string) ColorMode {
	switch s {
	case "always":
		return ColorAlways
	case "never":
		return ColorNever
	default:
		return ColorAuto
	}
}

// Profile returns the termenv profile for mode.
// In auto mode NO_COLOR disables colors and CI logs get plain ANSI.
func Profile(mode ColorMode) termenv.Profile {
	switch mode {
	case ColorAlways:
		return termenv.ANSI
	case ColorNever:
		return termenv.Ascii
	default:
		if os.Getenv("NO_COLOR") != "" {
			return termenv.Ascii
		}
		return termenv.ANSI
	}
}

// New creates a termenv.Output on w using the profile for mode.
func New(w io.Writer, mode ColorMode) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	return termenv.NewOutput(w, termenv.WithProfile(Profile(mode)), termenv.WithTTY(true))
}
