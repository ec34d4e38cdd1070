package logger

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rscd/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

// ControllerNodeID is the unique identifier for the Graft node exposing the concrete logger,
// used by the CLI to apply output flags.
const ControllerNodeID graft.ID = "adapter.logger.controller"

func init() {
	graft.Register(graft.Node[*Logger]{
		ID:        ControllerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Logger, error) {
			return New(), nil
		},
	})

	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{ControllerNodeID},
		Run: func(ctx context.Context) (ports.Logger, error) {
			l, err := graft.Dep[*Logger](ctx)
			if err != nil {
				return nil, err
			}
			return l, nil
		},
	})
}
