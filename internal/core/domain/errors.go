package domain

import "go.trai.ch/zerr"

var (
	// ErrDiscoveryFailed is returned when a full refresh cannot rebuild the discovered set.
	// The previous set and cache are left untouched.
	ErrDiscoveryFailed = zerr.New("discovery failed")

	// ErrAnchorSearchFailed is returned when searching a workspace folder for anchors fails.
	ErrAnchorSearchFailed = zerr.New("failed to search for project anchors")

	// ErrSourceStatFailed is returned when a src directory exists but cannot be inspected.
	ErrSourceStatFailed = zerr.New("failed to stat source directory")

	// ErrSourceScanFailed is returned when walking a src directory fails.
	ErrSourceScanFailed = zerr.New("failed to scan source directory")

	// ErrFileReadFailed is returned when a discovered file cannot be read.
	ErrFileReadFailed = zerr.New("failed to read file")

	// ErrUnknownEvent is returned when the orchestrator receives an event it does not handle.
	ErrUnknownEvent = zerr.New("unknown event kind")

	// ErrWatcherStartFailed is returned when the file system watcher cannot be started.
	ErrWatcherStartFailed = zerr.New("failed to start file watcher")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidDebounceWindow is returned when the configured debounce window is negative.
	ErrInvalidDebounceWindow = zerr.New("debounce window must not be negative")

	// ErrFailedToGetRoot is returned when a workspace folder cannot be made absolute.
	ErrFailedToGetRoot = zerr.New("failed to get absolute path of workspace folder")

	// ErrInvalidColorMode is returned when the color mode is not auto, always or never.
	ErrInvalidColorMode = zerr.New("invalid color mode")
)
