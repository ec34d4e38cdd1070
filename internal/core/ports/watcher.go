package ports

import (
	"context"
	"iter"

	"go.trai.ch/rscd/internal/core/domain"
)

// Watcher turns file system activity under a set of roots into orchestrator events.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start begins watching the given root directories recursively.
	// It returns an error if the watcher fails to start.
	Start(ctx context.Context, roots []string) error
	// AddRoots extends a started watcher with more root directories.
	AddRoots(roots []string) error
	// Stop stops the watcher and releases all resources.
	Stop() error
	// Events returns an iterator of translated events.
	// The iterator ends when the watcher stops or its context is canceled.
	Events() iter.Seq[domain.Event]
}
