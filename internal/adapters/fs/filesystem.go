package fs

import (
	"errors"
	iofs "io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"go.trai.ch/rscd/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSystem = (*FileSystem)(nil)

// FileSystem implements ports.FileSystem on top of afero.
// Production code uses the OS file system; tests use an in-memory one.
type FileSystem struct {
	fs     afero.Fs
	walker *Walker
}

// NewFileSystem creates a FileSystem backed by fsys.
func NewFileSystem(fsys afero.Fs) *FileSystem {
	return &FileSystem{
		fs:     fsys,
		walker: NewWalker(fsys),
	}
}

// NewOSFileSystem creates a FileSystem backed by the operating system.
func NewOSFileSystem() *FileSystem {
	return NewFileSystem(afero.NewOsFs())
}

// Glob returns the files below root matching pattern, skipping directories matching exclude.
// Returned paths are joined onto root.
func (f *FileSystem) Glob(root, pattern, exclude string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, zerr.With(zerr.Wrap(doublestar.ErrBadPattern, "invalid glob pattern"), "pattern", pattern)
	}
	if exclude != "" && !doublestar.ValidatePattern(exclude) {
		return nil, zerr.With(zerr.Wrap(doublestar.ErrBadPattern, "invalid exclude pattern"), "pattern", exclude)
	}

	var matches []string
	for rel, err := range f.walker.WalkFiles(root, exclude) {
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to walk directory"), "root", root)
		}
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to match path"), "path", rel)
		}
		if matched {
			matches = append(matches, filepath.Join(root, filepath.FromSlash(rel)))
		}
	}
	return matches, nil
}

// IsDir reports whether path exists and is a directory.
func (f *FileSystem) IsDir(path string) (bool, error) {
	info, err := f.fs.Stat(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, "failed to stat path"), "path", path)
	}
	return info.IsDir(), nil
}

// ReadFile reads the entire file at path.
func (f *FileSystem) ReadFile(path string) ([]byte, error) {
	content, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read file"), "path", path)
	}
	return content, nil
}
