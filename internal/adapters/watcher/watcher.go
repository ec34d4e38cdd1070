package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/rscd/internal/core/domain"
	"go.trai.ch/rscd/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// shouldSkipDirectories are directories that should not be watched.
var shouldSkipDirectories = map[string]bool{
	".git":               true,
	".jj":                true,
	domain.VendorDirName: true,
}

const eventChannelBuffer = 100

// Watcher implements ports.Watcher using fsnotify.
//
// Writes are debounced into DocumentSaved events. Creations and removals are
// reported immediately. A created directory reports every file inside it, and a
// removed directory reports the anchors that were known below it.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	logger    ports.Logger

	events chan domain.Event
	done   chan struct{}

	mu      sync.Mutex
	closed  bool
	dirs    map[string]struct{}
	anchors map[string]struct{}
}

// NewWatcher creates a new file system watcher. Writes to the same file within
// window are reported once.
func NewWatcher(window time.Duration, logger ports.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrWatcherStartFailed.Error())
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		logger:    logger,
		events:    make(chan domain.Event, eventChannelBuffer),
		done:      make(chan struct{}),
		dirs:      make(map[string]struct{}),
		anchors:   make(map[string]struct{}),
	}
	w.debouncer = NewDebouncer(window, func(paths []string) {
		for _, path := range paths {
			if !w.emit(domain.DocumentSaved(path)) {
				return
			}
		}
	})
	return w, nil
}

// Start begins watching the given root directories recursively.
func (w *Watcher) Start(ctx context.Context, roots []string) error {
	if err := w.AddRoots(roots); err != nil {
		return err
	}

	go w.processEvents(ctx)
	return nil
}

// AddRoots watches additional root directories recursively.
func (w *Watcher) AddRoots(roots []string) error {
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrWatcherStartFailed.Error()), "root", root)
		}
		if !info.IsDir() {
			return zerr.With(domain.ErrWatcherStartFailed, "root", root)
		}

		for path, isDir := range w.walk(root) {
			if !isDir {
				w.track(path)
				continue
			}
			if err := w.addDir(path); err != nil {
				return zerr.With(zerr.Wrap(err, domain.ErrWatcherStartFailed.Error()), "dir", path)
			}
		}
	}
	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	w.debouncer.Stop()
	return w.fsWatcher.Close()
}

// Events returns an iterator of translated events.
func (w *Watcher) Events() iter.Seq[domain.Event] {
	return func(yield func(domain.Event) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// walk yields every entry below root, skipping ignored directories.
// The boolean reports whether the entry is a directory.
func (w *Watcher) walk(root string) iter.Seq2[string, bool] {
	return func(yield func(string, bool) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable entries are skipped
			}
			if d.IsDir() && path != root && shouldSkipDirectories[d.Name()] {
				return fs.SkipDir
			}
			if !yield(path, d.IsDir()) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Watcher) addDir(dir string) error {
	if err := w.fsWatcher.Add(dir); err != nil {
		return err
	}
	w.mu.Lock()
	w.dirs[dir] = struct{}{}
	w.mu.Unlock()
	return nil
}

// track remembers anchor files so their removal can be reported with their directory.
func (w *Watcher) track(path string) {
	if !domain.IsAnchor(path) {
		return
	}
	w.mu.Lock()
	w.anchors[path] = struct{}{}
	w.mu.Unlock()
}

// forget drops path and everything tracked below it. It returns the paths to report as deleted.
func (w *Watcher) forget(path string) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	removed := []string{path}
	delete(w.anchors, path)

	if _, ok := w.dirs[path]; !ok {
		return removed
	}

	prefix := path + string(filepath.Separator)
	for dir := range w.dirs {
		if dir == path || strings.HasPrefix(dir, prefix) {
			delete(w.dirs, dir)
		}
	}
	for anchor := range w.anchors {
		if strings.HasPrefix(anchor, prefix) {
			delete(w.anchors, anchor)
			removed = append(removed, anchor)
		}
	}
	return removed
}

// emit delivers ev unless the watcher has shut down. It reports whether ev was delivered.
func (w *Watcher) emit(ev domain.Event) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return false
	}
	select {
	case w.events <- ev:
		return true
	case <-w.done:
		return false
	}
}

func (w *Watcher) shutdown() {
	close(w.done)
	w.debouncer.Stop()

	w.mu.Lock()
	w.closed = true
	close(w.events)
	w.mu.Unlock()
}

// processEvents converts raw fsnotify events until ctx is canceled or the watcher is stopped.
func (w *Watcher) processEvents(ctx context.Context) {
	defer w.shutdown()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error(zerr.Wrap(err, "file watcher error"))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	path := event.Name
	if w.ignored(path) {
		return
	}

	switch {
	case event.Has(fsnotify.Create):
		w.emit(domain.FilesCreated(w.created(path)...))
	case event.Has(fsnotify.Write):
		w.debouncer.Add(path)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.emit(domain.FilesDeleted(w.forget(path)...))
	}
}

// created starts watching a new directory and returns the paths to report as created.
func (w *Watcher) created(path string) []string {
	info, err := os.Lstat(path)
	if err != nil || !info.IsDir() {
		w.track(path)
		return []string{path}
	}

	var paths []string
	for p, isDir := range w.walk(path) {
		if isDir {
			if err := w.addDir(p); err != nil {
				w.logger.Warn("cannot watch " + p + ": " + err.Error())
			}
			continue
		}
		w.track(p)
		paths = append(paths, p)
	}
	return append([]string{path}, paths...)
}

// ignored reports whether path is a skipped directory or lies inside one.
func (w *Watcher) ignored(path string) bool {
	for part := range strings.SplitSeq(filepath.ToSlash(path), "/") {
		if shouldSkipDirectories[part] {
			return true
		}
	}
	return false
}
