// Package style holds the colors and symbols shared by the logger and the
// renderer.
package style

import "github.com/charmbracelet/lipgloss"

// Log level colors.
var (
	Slate  = lipgloss.Color("#667085")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Status symbols.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
)

// CIPrefix tags the banners and outcome lines printed by the CI task.
const CIPrefix = "[CI]"
