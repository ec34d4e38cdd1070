package orchestrator

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rscd/internal/adapters/fs"
	"go.trai.ch/rscd/internal/adapters/logger"
	"go.trai.ch/rscd/internal/adapters/notify"
	"go.trai.ch/rscd/internal/adapters/telemetry"
	"go.trai.ch/rscd/internal/core/ports"
	"go.trai.ch/rscd/internal/engine/cache"
	"go.trai.ch/rscd/internal/engine/discovery"
)

// NodeID is the unique identifier for the orchestrator Graft node.
const NodeID graft.ID = "engine.orchestrator"

func init() {
	graft.Register(graft.Node[*Orchestrator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			discovery.NodeID,
			cache.NodeID,
			fs.NodeID,
			notify.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Orchestrator, error) {
			d, err := graft.Dep[*discovery.Discoverer](ctx)
			if err != nil {
				return nil, err
			}

			c, err := graft.Dep[*cache.Cache](ctx)
			if err != nil {
				return nil, err
			}

			fsys, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}

			bus, err := graft.Dep[*notify.Bus](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return New(d, c, fsys, bus, log, tracer), nil
		},
	})
}
