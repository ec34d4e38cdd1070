// Package orchestrator keeps the discovered set and the classification cache consistent
// with the file system and answers decoration queries.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.trai.ch/rscd/internal/core/domain"
	"go.trai.ch/rscd/internal/core/ports"
	"go.trai.ch/rscd/internal/engine/cache"
	"go.trai.ch/rscd/internal/engine/classifier"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// Discoverer produces a fresh discovered set on every call.
type Discoverer interface {
	Discover(ctx context.Context) (*domain.DiscoveredSet, error)
}

// QueryStatus describes the outcome of a Query.
type QueryStatus uint8

const (
	// StatusNotApplicable means the file is not part of the discovered set and gets no decoration.
	StatusNotApplicable QueryStatus = iota
	// StatusReady means a classification is available.
	StatusReady
	// StatusUnavailable means the file is in the discovered set but could not be read.
	StatusUnavailable
)

// String returns the status name.
func (s QueryStatus) String() string {
	switch s {
	case StatusNotApplicable:
		return "not-applicable"
	case StatusReady:
		return "ready"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Result is the answer to a Query.
type Result struct {
	Status         QueryStatus
	Classification domain.Classification
}

// Decoration returns the decoration to show, if any.
func (r Result) Decoration() (domain.Decoration, bool) {
	if r.Status != StatusReady {
		return domain.Decoration{}, false
	}
	return r.Classification.Decoration(), true
}

// Orchestrator owns the discovered set and the classification cache.
//
// Full refreshes hold the refresh gate exclusively. Queries hold it shared only while
// resolving the path and checking the cache, never while reading a file, so a query
// that starts after a refresh began observes the refreshed state and a hung read
// stalls only its own query. Saves and other single-file invalidations do not take
// the gate.
type Orchestrator struct {
	discoverer Discoverer
	cache      *cache.Cache
	fs         ports.FileSystem
	notifier   ports.Notifier
	logger     ports.Logger
	tracer     ports.Tracer

	gate  sync.RWMutex
	set   atomic.Pointer[domain.DiscoveredSet]
	reads singleflight.Group
}

// New creates an Orchestrator with an empty discovered set.
func New(
	discoverer Discoverer,
	c *cache.Cache,
	fsys ports.FileSystem,
	notifier ports.Notifier,
	logger ports.Logger,
	tracer ports.Tracer,
) *Orchestrator {
	o := &Orchestrator{
		discoverer: discoverer,
		cache:      c,
		fs:         fsys,
		notifier:   notifier,
		logger:     logger,
		tracer:     tracer,
	}
	o.set.Store(domain.EmptyDiscoveredSet())
	return o
}

// Discovered returns the current discovered set.
func (o *Orchestrator) Discovered() *domain.DiscoveredSet {
	return o.set.Load()
}

// FullRefresh rediscovers the workspace, drops every cached classification and
// notifies that all decorations may have changed.
//
// On failure the previous set and cache are kept and the error wraps domain.ErrDiscoveryFailed.
func (o *Orchestrator) FullRefresh(ctx context.Context) error {
	ctx, span := o.tracer.Start(ctx, "orchestrator.full_refresh")
	defer span.End()

	o.gate.Lock()
	set, err := o.discoverer.Discover(ctx)
	if err != nil {
		o.gate.Unlock()
		err = errors.Join(domain.ErrDiscoveryFailed, err)
		span.RecordError(err)
		return err
	}
	previous := o.set.Load()
	o.cache.Clear()
	o.set.Store(set)
	o.gate.Unlock()

	span.SetAttribute("files", set.Len())
	span.SetAttribute("fingerprint", set.Fingerprint())

	if previous.Fingerprint() == set.Fingerprint() {
		o.logger.Info(fmt.Sprintf("discovered %d file(s), unchanged", set.Len()))
	} else {
		o.logger.Info(fmt.Sprintf("discovered %d file(s)", set.Len()))
	}

	o.notifier.NotifyChanged(domain.ChangedAll())
	return nil
}

// Query returns the classification of path.
//
// Files outside the discovered set are not applicable. A cache miss reads and
// classifies the file; concurrent misses for the same file share one read. Read
// failures are logged, reported as unavailable and never cached.
func (o *Orchestrator) Query(ctx context.Context, path string) Result {
	_, span := o.tracer.Start(ctx, "orchestrator.query", ports.WithAttribute("path", path))
	defer span.End()

	res := o.query(path)
	span.SetAttribute("status", res.Status.String())
	return res
}

// lookup resolves id against the current set and cache under the gate.
// On a miss it returns the path to read and a ticket for storing the result.
func (o *Orchestrator) lookup(id domain.FileIdentity) (string, cache.Ticket, Result, bool) {
	o.gate.RLock()
	defer o.gate.RUnlock()

	readPath, ok := o.set.Load().Path(id)
	if !ok {
		return "", cache.Ticket{}, Result{Status: StatusNotApplicable}, true
	}
	if cl, ok := o.cache.Get(id); ok {
		return "", cache.Ticket{}, Result{Status: StatusReady, Classification: cl}, true
	}
	return readPath, o.cache.Begin(id), Result{}, false
}

func (o *Orchestrator) query(path string) Result {
	id := domain.NewFileIdentity(path)

	readPath, ticket, res, done := o.lookup(id)
	if done {
		return res
	}

	// The read runs outside the gate. A refresh or invalidation that lands meanwhile
	// moves the cache past ticket, so PutIfCurrent drops the stale result. Keyed by
	// ticket so a read started before an invalidation is never shared with a query
	// that arrived after it.
	v, err, _ := o.reads.Do(id.String()+"@"+ticket.String(), func() (any, error) {
		content, err := o.fs.ReadFile(readPath)
		if err != nil {
			return nil, err
		}
		cl := classifier.ClassifyBytes(content)
		o.cache.PutIfCurrent(id, cl, ticket)
		return cl, nil
	})
	if err != nil {
		o.logger.Error(zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", readPath))
		return Result{Status: StatusUnavailable}
	}

	cl, _ := v.(domain.Classification)
	return Result{Status: StatusReady, Classification: cl}
}
