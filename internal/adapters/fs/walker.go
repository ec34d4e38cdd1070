// Package fs provides the file system adapter used for discovery and classification.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// Walker provides file walking functionality over an afero file system.
type Walker struct {
	fs afero.Fs
}

// NewWalker creates a new Walker.
func NewWalker(fsys afero.Fs) *Walker {
	return &Walker{fs: fsys}
}

// WalkFiles yields every file below root together with its root-relative, slash-separated path.
// Directories whose relative path matches exclude are not entered, nor are .git and .jj.
// An error reading root itself is yielded once and ends the walk; unreadable
// subdirectories are skipped.
func (w *Walker) WalkFiles(root, exclude string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stopped := false
		err := afero.Walk(w.fs, root, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				if path == root {
					return err
				}
				if info != nil && info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)

			if info.IsDir() {
				if rel != "." && w.shouldSkipDir(info.Name(), rel, exclude) {
					return filepath.SkipDir
				}
				return nil
			}

			if !yield(rel, nil) {
				stopped = true
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil && !stopped {
			yield("", err)
		}
	}
}

// shouldSkipDir reports whether a directory should not be entered.
func (w *Walker) shouldSkipDir(name, rel, exclude string) bool {
	// Always skip .git and .jj
	if name == ".git" || name == ".jj" {
		return true
	}
	if exclude == "" {
		return false
	}
	matched, err := doublestar.Match(exclude, rel)
	return err == nil && matched
}
