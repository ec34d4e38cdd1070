package discovery

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rscd/internal/adapters/fs"
	"go.trai.ch/rscd/internal/adapters/telemetry"
	"go.trai.ch/rscd/internal/adapters/workspace"
	"go.trai.ch/rscd/internal/core/ports"
)

// NodeID is the unique identifier for the discovery Graft node.
const NodeID graft.ID = "engine.discovery"

func init() {
	graft.Register(graft.Node[*Discoverer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.NodeID,
			workspace.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Discoverer, error) {
			fsys, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}

			folders, err := graft.Dep[*workspace.Folders](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return New(fsys, folders, tracer), nil
		},
	})
}
