// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/rscd/internal/adapters/config"
	_ "go.trai.ch/rscd/internal/adapters/fs"
	_ "go.trai.ch/rscd/internal/adapters/linear"
	_ "go.trai.ch/rscd/internal/adapters/logger"
	_ "go.trai.ch/rscd/internal/adapters/notify"
	_ "go.trai.ch/rscd/internal/adapters/telemetry"
	_ "go.trai.ch/rscd/internal/adapters/watcher"
	_ "go.trai.ch/rscd/internal/adapters/workspace"
	// Register app and engine nodes.
	_ "go.trai.ch/rscd/internal/app"
	_ "go.trai.ch/rscd/internal/engine/cache"
	_ "go.trai.ch/rscd/internal/engine/discovery"
	_ "go.trai.ch/rscd/internal/engine/orchestrator"
)
