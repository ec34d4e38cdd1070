// Package notify delivers decoration change notifications to subscribers.
package notify

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"go.trai.ch/rscd/internal/core/domain"
	"go.trai.ch/rscd/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Notifier = (*Bus)(nil)

// Handler receives a change notification.
type Handler func(domain.Change)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus is a synchronous fan-out of change notifications.
// Handlers run on the notifying goroutine in subscription order. A panicking
// handler is logged and does not prevent delivery to the others.
type Bus struct {
	logger ports.Logger

	mu   sync.RWMutex
	subs []subscription
	next atomic.Uint64
}

// NewBus creates a Bus that reports handler panics to logger.
func NewBus(logger ports.Logger) *Bus {
	return &Bus{logger: logger}
}

// Subscribe registers handler and returns an id for Unsubscribe.
func (b *Bus) Subscribe(handler Handler) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next.Add(1)
	b.subs = append(b.subs, subscription{id: id, handler: handler})
	return id
}

// Unsubscribe removes a subscription. It reports whether the id was registered.
func (b *Bus) Unsubscribe(id uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := slices.IndexFunc(b.subs, func(s subscription) bool { return s.id == id })
	if i < 0 {
		return false
	}
	b.subs = slices.Delete(b.subs, i, i+1)
	return true
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// NotifyChanged delivers change to every subscriber.
func (b *Bus) NotifyChanged(change domain.Change) {
	b.mu.RLock()
	subs := slices.Clone(b.subs)
	b.mu.RUnlock()

	for _, sub := range subs {
		b.safeCall(sub, change)
	}
}

func (b *Bus) safeCall(sub subscription, change domain.Change) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error(zerr.With(zerr.New(fmt.Sprintf("change handler panicked: %v", r)), "subscription", sub.id))
		}
	}()
	sub.handler(change)
}
