package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rscd/internal/core/domain"
)

func TestFileIdentity(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name  string
		a, b  string
		equal bool
	}{
		{name: "same path", a: "/w/src/page.tsx", b: "/w/src/page.tsx", equal: true},
		{name: "case differs", a: "/W/Src/Page.tsx", b: "/w/src/page.tsx", equal: true},
		{name: "unclean path", a: "/w/src/../src/./page.tsx", b: "/w/src/page.tsx", equal: true},
		{name: "different file", a: "/w/src/page.tsx", b: "/w/src/layout.tsx", equal: false},
		{name: "case differs under temp dir", a: filepath.Join(root, "x.ts"), b: filepath.Join(root, "X.TS"), equal: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := domain.NewFileIdentity(tt.a)
			b := domain.NewFileIdentity(tt.b)
			assert.Equal(t, tt.equal, a == b)
		})
	}
}

func TestFileIdentity_Zero(t *testing.T) {
	var zero domain.FileIdentity
	assert.True(t, zero.IsZero())
	assert.False(t, domain.NewFileIdentity("/w/a.ts").IsZero())
	assert.Equal(t, "/w/a.ts", domain.NewFileIdentity("/W/A.ts").String())
}

func TestClassification_Decoration(t *testing.T) {
	assert.Equal(t, domain.Decoration{Badge: "C", Tooltip: "Client Side Component", ColorTag: "client"},
		domain.Client.Decoration())
	assert.Equal(t, domain.Decoration{Badge: "S", Tooltip: "Server Side Component", ColorTag: "server"},
		domain.Server.Decoration())
	assert.Equal(t, "client", domain.Client.String())
	assert.Equal(t, "server", domain.Server.String())
}

func TestIsAnchor(t *testing.T) {
	assert.True(t, domain.IsAnchor("/w/next.config.js"))
	assert.True(t, domain.IsAnchor("next.config.mjs"))
	assert.False(t, domain.IsAnchor("/w/next.config.ts"))
	assert.False(t, domain.IsAnchor("/w/my-next.config.js.bak"))
	assert.False(t, domain.IsAnchor("/w/my-next.config.js"), "a name ending in an anchor name is not an anchor")
	assert.False(t, domain.IsAnchor("/w/backup.next.config.mjs"))
	assert.True(t, domain.IsAnchor("/w/next.config.mjs/next.config.js"))
	assert.False(t, domain.IsAnchor("/w/src/page.tsx"))

	names := domain.AnchorNames()
	names[0] = "mutated"
	assert.Equal(t, []string{"next.config.js", "next.config.mjs"}, domain.AnchorNames())
}

func TestDiscoveredSet(t *testing.T) {
	s := domain.NewDiscoveredSet("/w/src/b.tsx", "/w/src/a.tsx", "/W/SRC/A.TSX")

	require.Equal(t, 2, s.Len())
	assert.True(t, s.Contains(domain.NewFileIdentity("/w/src/A.tsx")))
	assert.False(t, s.Contains(domain.NewFileIdentity("/w/src/c.tsx")))

	path, ok := s.Path(domain.NewFileIdentity("/W/SRC/A.TSX"))
	require.True(t, ok)
	assert.Equal(t, "/w/src/a.tsx", path, "first spelling wins")

	assert.Equal(t, []string{"/w/src/a.tsx", "/w/src/b.tsx"}, s.Paths())
}

func TestDiscoveredSet_Nil(t *testing.T) {
	var s *domain.DiscoveredSet
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Contains(domain.NewFileIdentity("/a")))
	assert.Nil(t, s.Paths())
	assert.Equal(t, domain.EmptyDiscoveredSet().Fingerprint(), s.Fingerprint())
}

func TestDiscoveredSet_Fingerprint(t *testing.T) {
	a := domain.NewDiscoveredSet("/w/src/a.tsx", "/w/src/b.tsx")
	b := domain.NewDiscoveredSet("/W/SRC/B.tsx", "/w/src/a.tsx")
	c := domain.NewDiscoveredSet("/w/src/a.tsx")

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.NotEqual(t, c.Fingerprint(), domain.EmptyDiscoveredSet().Fingerprint())
}

func TestEvents(t *testing.T) {
	assert.Equal(t, domain.Event{Kind: domain.EventDocumentSaved, Paths: []string{"/a"}}, domain.DocumentSaved("/a"))
	assert.Equal(t, []string{"/a", "/b"}, domain.FilesCreated("/a", "/b").Paths)
	assert.Equal(t, domain.EventFilesDeleted, domain.FilesDeleted("/a").Kind)
	assert.Empty(t, domain.WorkspaceFoldersChanged().Paths)
	assert.Equal(t, "manual-refresh-requested", domain.RefreshRequested().Kind.String())
	assert.Equal(t, "unknown", domain.EventKind(200).String())

	assert.True(t, domain.ChangedAll().All)
	id := domain.NewFileIdentity("/a")
	assert.Equal(t, domain.Change{Files: []domain.FileIdentity{id}}, domain.ChangedFile(id))
}
