package linear

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rscd/internal/ui/output"
)

// NodeID is the unique identifier for the linear renderer Graft node.
const NodeID graft.ID = "adapter.linear"

func init() {
	graft.Register(graft.Node[*Renderer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Renderer, error) {
			return NewRenderer(nil, nil, output.ColorAuto), nil
		},
	})
}
