package orchestrator

import (
	"context"
	"iter"

	"go.trai.ch/rscd/internal/core/domain"
	"go.trai.ch/zerr"
)

// OnSave drops the cached classification of path and notifies a single-file change.
// Saves of files outside the discovered set are ignored.
func (o *Orchestrator) OnSave(path string) {
	id := domain.NewFileIdentity(path)
	if !o.set.Load().Contains(id) {
		return
	}

	o.cache.Invalidate(id)
	o.notifier.NotifyChanged(domain.ChangedFile(id))
}

// OnCreate drops cached classifications for the created paths. Creating an anchor
// can add a project, so it triggers a full refresh.
func (o *Orchestrator) OnCreate(ctx context.Context, paths []string) error {
	return o.onFilesChanged(ctx, paths)
}

// OnDelete drops cached classifications for the deleted paths. Deleting an anchor
// can remove a project, so it triggers a full refresh.
func (o *Orchestrator) OnDelete(ctx context.Context, paths []string) error {
	return o.onFilesChanged(ctx, paths)
}

func (o *Orchestrator) onFilesChanged(ctx context.Context, paths []string) error {
	set := o.set.Load()
	anchorTouched := false
	for _, path := range paths {
		// Identities outside the set are never cached.
		if id := domain.NewFileIdentity(path); set.Contains(id) {
			o.cache.Invalidate(id)
		}
		if domain.IsAnchor(path) {
			anchorTouched = true
		}
	}

	if !anchorTouched {
		return nil
	}
	return o.FullRefresh(ctx)
}

// OnWorkspaceFoldersChanged rediscovers after the workspace folders were replaced.
func (o *Orchestrator) OnWorkspaceFoldersChanged(ctx context.Context) error {
	return o.FullRefresh(ctx)
}

// Refresh performs a user-requested full refresh and reports its completion.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	if err := o.FullRefresh(ctx); err != nil {
		return err
	}
	o.logger.Info("scan complete")
	return nil
}

// Handle dispatches a single event to the matching handler.
func (o *Orchestrator) Handle(ctx context.Context, ev domain.Event) error {
	switch ev.Kind {
	case domain.EventDocumentSaved:
		for _, path := range ev.Paths {
			o.OnSave(path)
		}
		return nil
	case domain.EventFilesCreated:
		return o.OnCreate(ctx, ev.Paths)
	case domain.EventFilesDeleted:
		return o.OnDelete(ctx, ev.Paths)
	case domain.EventWorkspaceFoldersChanged:
		return o.OnWorkspaceFoldersChanged(ctx)
	case domain.EventRefreshRequested:
		return o.Refresh(ctx)
	default:
		return zerr.With(domain.ErrUnknownEvent, "kind", ev.Kind.String())
	}
}

// Run handles events in arrival order until the feed ends or ctx is canceled.
// Each event is handled to completion before the next one is taken. Handler
// failures are logged and do not stop the loop.
func (o *Orchestrator) Run(ctx context.Context, events iter.Seq[domain.Event]) error {
	for ev := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := o.Handle(ctx, ev); err != nil {
			o.logger.Error(err)
		}
	}
	return ctx.Err()
}
