package workspace

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the workspace folders Graft node.
const NodeID graft.ID = "adapter.workspace"

func init() {
	graft.Register(graft.Node[*Folders]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Folders, error) {
			return New(), nil
		},
	})
}
