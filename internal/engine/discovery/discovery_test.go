package discovery_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rscd/internal/adapters/fs"
	"go.trai.ch/rscd/internal/adapters/telemetry"
	"go.trai.ch/rscd/internal/adapters/workspace"
	"go.trai.ch/rscd/internal/core/domain"
	"go.trai.ch/rscd/internal/core/ports/mocks"
	"go.trai.ch/rscd/internal/engine/discovery"
	"go.uber.org/mock/gomock"
)

func writeFile(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
}

func newDiscoverer(t *testing.T, fsys afero.Fs, folders ...string) *discovery.Discoverer {
	t.Helper()
	ws := workspace.New()
	_, err := ws.Set(folders)
	require.NoError(t, err)
	return discovery.New(fs.NewFileSystem(fsys), ws, telemetry.NewNoOpTracer())
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/ws/next.config.js", "")
	writeFile(t, fsys, "/ws/src/app/page.tsx", "'use client'")
	writeFile(t, fsys, "/ws/src/lib/util.ts", "")
	writeFile(t, fsys, "/ws/src/legacy.jsx", "")
	writeFile(t, fsys, "/ws/src/index.js", "")
	writeFile(t, fsys, "/ws/src/styles.css", "")
	writeFile(t, fsys, "/ws/src/node_modules/dep/index.js", "")
	writeFile(t, fsys, "/ws/lib/outside.ts", "")

	set, err := newDiscoverer(t, fsys, "/ws").Discover(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/ws/src/app/page.tsx",
		"/ws/src/index.js",
		"/ws/src/legacy.jsx",
		"/ws/src/lib/util.ts",
	}, set.Paths())
}

func TestDiscover_AnchorWithoutSource(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/ws/next.config.mjs", "")
	writeFile(t, fsys, "/ws/app/page.tsx", "")

	set, err := newDiscoverer(t, fsys, "/ws").Discover(context.Background())
	require.NoError(t, err)
	assert.Zero(t, set.Len())
}

func TestDiscover_SourceIsAFile(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/ws/next.config.js", "")
	writeFile(t, fsys, "/ws/src", "not a directory")

	set, err := newDiscoverer(t, fsys, "/ws").Discover(context.Background())
	require.NoError(t, err)
	assert.Zero(t, set.Len())
}

func TestDiscover_IgnoresVendoredAnchors(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/ws/node_modules/next-app/next.config.js", "")
	writeFile(t, fsys, "/ws/node_modules/next-app/src/page.tsx", "")
	writeFile(t, fsys, "/ws/packages/ui/node_modules/x/next.config.js", "")
	writeFile(t, fsys, "/ws/packages/ui/node_modules/x/src/a.ts", "")

	set, err := newDiscoverer(t, fsys, "/ws").Discover(context.Background())
	require.NoError(t, err)
	assert.Zero(t, set.Len())
}

func TestDiscover_NestedProjects(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/ws/apps/web/next.config.js", "")
	writeFile(t, fsys, "/ws/apps/web/src/page.tsx", "")
	writeFile(t, fsys, "/ws/apps/docs/next.config.mjs", "")
	writeFile(t, fsys, "/ws/apps/docs/src/page.tsx", "")
	writeFile(t, fsys, "/ws/apps/api/src/handler.ts", "")

	set, err := newDiscoverer(t, fsys, "/ws").Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/ws/apps/docs/src/page.tsx",
		"/ws/apps/web/src/page.tsx",
	}, set.Paths())
}

func TestDiscover_Deduplicates(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	// Both anchor spellings share one src folder.
	writeFile(t, fsys, "/ws/next.config.js", "")
	writeFile(t, fsys, "/ws/next.config.mjs", "")
	writeFile(t, fsys, "/ws/app/next.config.js", "")
	writeFile(t, fsys, "/ws/src/page.tsx", "")
	writeFile(t, fsys, "/ws/app/src/page.tsx", "")

	// Overlapping workspace folders report the nested project twice.
	set, err := newDiscoverer(t, fsys, "/ws", "/ws/app").Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/ws/app/src/page.tsx",
		"/ws/src/page.tsx",
	}, set.Paths())
}

func TestDiscover_MultipleFolders(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/one/next.config.js", "")
	writeFile(t, fsys, "/one/src/a.ts", "")
	writeFile(t, fsys, "/two/next.config.js", "")
	writeFile(t, fsys, "/two/src/b.ts", "")
	writeFile(t, fsys, "/three/src/c.ts", "")

	set, err := newDiscoverer(t, fsys, "/one", "/two", "/three").Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"/one/src/a.ts", "/two/src/b.ts"}, set.Paths())
}

func TestDiscover_NoFolders(t *testing.T) {
	t.Parallel()

	set, err := newDiscoverer(t, afero.NewMemMapFs()).Discover(context.Background())
	require.NoError(t, err)
	assert.Zero(t, set.Len())
}

func TestDiscover_Idempotent(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/ws/next.config.js", "")
	writeFile(t, fsys, "/ws/src/a.ts", "")
	writeFile(t, fsys, "/ws/src/b.tsx", "")

	d := newDiscoverer(t, fsys, "/ws")

	first, err := d.Discover(context.Background())
	require.NoError(t, err)
	second, err := d.Discover(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Fingerprint(), second.Fingerprint())
	assert.Equal(t, first.Paths(), second.Paths())
}

func TestDiscover_Canceled(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/ws/next.config.js", "")
	writeFile(t, fsys, "/ws/src/a.ts", "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newDiscoverer(t, fsys, "/ws").Discover(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_Failures(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")

	tests := []struct {
		name    string
		setup   func(fsys *mocks.MockFileSystem)
		wantErr error
	}{
		{
			name: "anchor search",
			setup: func(fsys *mocks.MockFileSystem) {
				fsys.EXPECT().Glob("/ws", domain.AnchorPattern, domain.VendorPattern).Return(nil, errBoom)
			},
			wantErr: domain.ErrAnchorSearchFailed,
		},
		{
			name: "source stat",
			setup: func(fsys *mocks.MockFileSystem) {
				fsys.EXPECT().Glob("/ws", domain.AnchorPattern, domain.VendorPattern).
					Return([]string{"/ws/next.config.js"}, nil)
				fsys.EXPECT().IsDir("/ws/src").Return(false, errBoom)
			},
			wantErr: domain.ErrSourceStatFailed,
		},
		{
			name: "source scan",
			setup: func(fsys *mocks.MockFileSystem) {
				fsys.EXPECT().Glob("/ws", domain.AnchorPattern, domain.VendorPattern).
					Return([]string{"/ws/next.config.js"}, nil)
				fsys.EXPECT().IsDir("/ws/src").Return(true, nil)
				fsys.EXPECT().Glob("/ws/src", domain.SourcePattern, domain.VendorPattern).Return(nil, errBoom)
			},
			wantErr: domain.ErrSourceScanFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			fsys := mocks.NewMockFileSystem(ctrl)
			ws := mocks.NewMockWorkspace(ctrl)
			ws.EXPECT().Folders().Return([]string{"/ws"})
			tt.setup(fsys)

			set, err := discovery.New(fsys, ws, telemetry.NewNoOpTracer()).Discover(context.Background())
			require.ErrorIs(t, err, tt.wantErr)
			require.ErrorContains(t, err, "boom")
			assert.Nil(t, set)
		})
	}
}
