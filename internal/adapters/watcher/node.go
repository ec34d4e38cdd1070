package watcher

import (
	"context"
	"time"

	"github.com/grindlemire/graft"
	"go.trai.ch/rscd/internal/adapters/logger"
	"go.trai.ch/rscd/internal/core/domain"
	"go.trai.ch/rscd/internal/core/ports"
)

// NodeID is the unique identifier for the file watcher Graft node.
const NodeID graft.ID = "adapter.watcher"

// Factory creates a watcher once the debounce window is known from configuration.
type Factory func(window time.Duration) (ports.Watcher, error)

func init() {
	graft.Register(graft.Node[Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (Factory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return func(window time.Duration) (ports.Watcher, error) {
				if window < 0 {
					return nil, domain.ErrInvalidDebounceWindow
				}
				return NewWatcher(window, log)
			}, nil
		},
	})
}
