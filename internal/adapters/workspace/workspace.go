// Package workspace holds the set of folders discovery searches.
package workspace

import (
	"path/filepath"
	"slices"
	"sync"

	"go.trai.ch/rscd/internal/core/domain"
	"go.trai.ch/rscd/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Workspace = (*Folders)(nil)

// Folders is a mutable, concurrency-safe list of absolute workspace folders.
type Folders struct {
	mu      sync.RWMutex
	folders []string
}

// New creates an empty folder list.
func New() *Folders {
	return &Folders{}
}

// Folders returns a copy of the current folders.
func (f *Folders) Folders() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return slices.Clone(f.folders)
}

// Set replaces the folders. Paths are made absolute and duplicates removed.
// It reports whether the resulting list differs from the previous one.
func (f *Folders) Set(folders []string) (bool, error) {
	resolved := make([]string, 0, len(folders))
	for _, folder := range folders {
		abs, err := filepath.Abs(folder)
		if err != nil {
			return false, zerr.With(zerr.Wrap(err, domain.ErrFailedToGetRoot.Error()), "folder", folder)
		}
		if !slices.Contains(resolved, abs) {
			resolved = append(resolved, abs)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	changed := !slices.Equal(f.folders, resolved)
	f.folders = resolved
	return changed, nil
}
