package notify

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rscd/internal/adapters/logger"
	"go.trai.ch/rscd/internal/core/ports"
)

// NodeID is the unique identifier for the notification bus Graft node.
const NodeID graft.ID = "adapter.notify"

func init() {
	graft.Register(graft.Node[*Bus]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Bus, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewBus(log), nil
		},
	})
}
