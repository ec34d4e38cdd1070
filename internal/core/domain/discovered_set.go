package domain

import (
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// DiscoveredSet is the collection of files the classifier is responsible for.
// It is rebuilt wholesale on every discovery and never modified afterwards.
type DiscoveredSet struct {
	files map[FileIdentity]string
}

// NewDiscoveredSet builds a set from paths. Paths sharing an identity are kept once;
// the first spelling wins.
func NewDiscoveredSet(paths ...string) *DiscoveredSet {
	s := &DiscoveredSet{files: make(map[FileIdentity]string, len(paths))}
	for _, p := range paths {
		id := NewFileIdentity(p)
		if _, ok := s.files[id]; !ok {
			s.files[id] = p
		}
	}
	return s
}

// EmptyDiscoveredSet returns a set with no files.
func EmptyDiscoveredSet() *DiscoveredSet {
	return NewDiscoveredSet()
}

// Contains reports whether id belongs to the set.
func (s *DiscoveredSet) Contains(id FileIdentity) bool {
	if s == nil {
		return false
	}
	_, ok := s.files[id]
	return ok
}

// Path returns the path id was discovered under.
func (s *DiscoveredSet) Path(id FileIdentity) (string, bool) {
	if s == nil {
		return "", false
	}
	p, ok := s.files[id]
	return p, ok
}

// Len returns the number of files.
func (s *DiscoveredSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.files)
}

// Paths returns the discovered paths sorted lexically.
func (s *DiscoveredSet) Paths() []string {
	if s == nil {
		return nil
	}
	paths := make([]string, 0, len(s.files))
	for _, p := range s.files {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// Identities returns the identities in the set sorted by normalized path.
func (s *DiscoveredSet) Identities() []FileIdentity {
	if s == nil {
		return nil
	}
	ids := make([]FileIdentity, 0, len(s.files))
	for id := range s.files {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b FileIdentity) int {
		return strings.Compare(a.String(), b.String())
	})
	return ids
}

// Fingerprint returns a digest of the member identities.
// Equal sets have equal fingerprints regardless of discovery order.
func (s *DiscoveredSet) Fingerprint() uint64 {
	d := xxhash.New()
	for _, id := range s.Identities() {
		_, _ = d.WriteString(id.String())
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}
