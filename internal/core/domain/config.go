package domain

import "time"

// DefaultDebounceWindow is the default time window for coalescing file events.
const DefaultDebounceWindow = 50 * time.Millisecond

// Config is the resolved application configuration.
type Config struct {
	// Folders are the absolute workspace folders to search for anchors.
	Folders []string
	// Debounce is the window used to coalesce rapid file writes.
	Debounce time.Duration
	// JSONLogs switches the logger to JSON output.
	JSONLogs bool
	// Color is the color mode for program output: auto, always or never.
	Color string
	// TraceSpans prints the duration of every traced operation to stderr.
	TraceSpans bool
	// Source is the config file the values were read from, empty for defaults.
	Source string
}
