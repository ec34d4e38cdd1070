// Package style provides shared UI styling primitives including brand colors
// and icons for consistent visual presentation across the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Component colors.
var (
	Orange = lipgloss.Color("#F97316")
	Blue   = lipgloss.Color("#3B82F6")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
)

// ComponentColor returns the color for a decoration color tag.
// Client components are orange and server components blue; unknown tags fall back to Slate.
func ComponentColor(tag string) lipgloss.Color {
	switch tag {
	case "client":
		return Orange
	case "server":
		return Blue
	default:
		return Slate
	}
}
