package ports

import "go.trai.ch/rscd/internal/core/domain"

// Notifier receives change notifications from the orchestrator.
// Implementations must not call back into the orchestrator synchronously
// while holding their own locks.
//
//go:generate mockgen -source=notifier.go -destination=mocks/mock_notifier.go -package=mocks
type Notifier interface {
	// NotifyChanged reports that the decorations described by change may be stale.
	NotifyChanged(change domain.Change)
}
