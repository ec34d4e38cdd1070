package domain

import (
	"path/filepath"
	"strings"
	"unique"
)

// FileIdentity identifies a file independently of the spelling of its path.
// Two identities are equal iff their cleaned, absolute, lower-cased paths match,
// so FileIdentity values can be compared with == and used as map keys.
type FileIdentity struct {
	h unique.Handle[string]
}

// NewFileIdentity creates the identity for path.
// Relative paths are resolved against the working directory.
func NewFileIdentity(path string) FileIdentity {
	return FileIdentity{h: unique.Make(NormalizePath(path))}
}

// NormalizePath returns the canonical, case-folded form of path.
func NormalizePath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return strings.ToLower(filepath.Clean(path))
}

// String returns the normalized path.
func (id FileIdentity) String() string {
	return id.h.Value()
}

// IsZero reports whether id was never assigned.
func (id FileIdentity) IsZero() bool {
	return id == FileIdentity{}
}
