package app

import (
	"context"
	"time"

	"github.com/grindlemire/graft"
	"go.trai.ch/rscd/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/rscd/internal/adapters/linear"    //nolint:depguard // Wired in app layer
	"go.trai.ch/rscd/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/rscd/internal/adapters/notify"    //nolint:depguard // Wired in app layer
	"go.trai.ch/rscd/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/rscd/internal/adapters/workspace" //nolint:depguard // Wired in app layer
	"go.trai.ch/rscd/internal/core/ports"
	"go.trai.ch/rscd/internal/engine/orchestrator"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			workspace.NodeID,
			orchestrator.NodeID,
			notify.NodeID,
			linear.NodeID,
			logger.ControllerNodeID,
			watcher.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	folders, err := graft.Dep[*workspace.Folders](ctx)
	if err != nil {
		return nil, err
	}

	orch, err := graft.Dep[*orchestrator.Orchestrator](ctx)
	if err != nil {
		return nil, err
	}

	bus, err := graft.Dep[*notify.Bus](ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := graft.Dep[*linear.Renderer](ctx)
	if err != nil {
		return nil, err
	}

	logs, err := graft.Dep[*logger.Logger](ctx)
	if err != nil {
		return nil, err
	}

	newWatcher, err := graft.Dep[watcher.Factory](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, folders, orch, bus, renderer, logs, func(window time.Duration) (ports.Watcher, error) {
		return newWatcher(window)
	}), nil
}
