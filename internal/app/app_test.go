package app_test

import (
	"bytes"
	"context"
	"iter"
	"os"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rscd/internal/adapters/config"
	"go.trai.ch/rscd/internal/adapters/fs"
	"go.trai.ch/rscd/internal/adapters/linear"
	"go.trai.ch/rscd/internal/adapters/logger"
	"go.trai.ch/rscd/internal/adapters/notify"
	"go.trai.ch/rscd/internal/adapters/telemetry"
	"go.trai.ch/rscd/internal/adapters/workspace"
	"go.trai.ch/rscd/internal/app"
	"go.trai.ch/rscd/internal/core/domain"
	"go.trai.ch/rscd/internal/core/ports"
	"go.trai.ch/rscd/internal/core/ports/mocks"
	"go.trai.ch/rscd/internal/engine/cache"
	"go.trai.ch/rscd/internal/engine/discovery"
	"go.trai.ch/rscd/internal/engine/orchestrator"
	"go.trai.ch/rscd/internal/ui/output"
	"go.uber.org/mock/gomock"
)

const (
	clientSource = "'use client'\n\nexport default function Page() {}\n"
	serverSource = "export default function Layout() {}\n"
)

type testApp struct {
	*app.App
	root   string
	bus    *notify.Bus
	stdout *bytes.Buffer
	logs   *bytes.Buffer
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

// newProject lays out a single Next.js project under root/web.
func newProject(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "web", "next.config.js"), "module.exports = {}\n")
	writeFile(t, filepath.Join(root, "web", "src", "app", "page.tsx"), clientSource)
	writeFile(t, filepath.Join(root, "web", "src", "app", "layout.tsx"), serverSource)
	writeFile(t, filepath.Join(root, "README.md"), "# web\n")
	return root
}

func newTestApp(t *testing.T, root string, w ports.Watcher) *testApp {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	var stdout, logs bytes.Buffer
	log := logger.New()
	log.SetOutput(&logs)

	osfs := afero.NewOsFs()
	fsys := fs.NewFileSystem(osfs)
	folders := workspace.New()
	tracer := telemetry.NewNoOpTracer()
	bus := notify.NewBus(log)
	orch := orchestrator.New(discovery.New(fsys, folders, tracer), cache.New(), fsys, bus, log, tracer)
	renderer := linear.NewRenderer(&stdout, &logs, output.ColorNever)

	a := app.New(config.NewLoader(osfs, log), folders, orch, bus, renderer, log,
		func(time.Duration) (ports.Watcher, error) {
			require.NotNil(t, w, "watcher not expected")
			return w, nil
		},
	).WithWorkingDir(root)

	return &testApp{App: a, root: root, bus: bus, stdout: &stdout, logs: &logs}
}

func seq(events ...domain.Event) iter.Seq[domain.Event] {
	return func(yield func(domain.Event) bool) {
		for _, ev := range events {
			if !yield(ev) {
				return
			}
		}
	}
}

func TestApp_Scan(t *testing.T) {
	ta := newTestApp(t, newProject(t), nil)

	err := ta.Scan(t.Context(), app.Options{})
	require.NoError(t, err)

	assert.Equal(t,
		"S web/src/app/layout.tsx\nC web/src/app/page.tsx\n1 client, 1 server\n",
		ta.stdout.String())
	assert.Contains(t, ta.logs.String(), "discovered 2 file(s)")
	assert.Contains(t, ta.logs.String(), "scan complete")
}

func TestApp_Scan_Dirs(t *testing.T) {
	root := newProject(t)
	writeFile(t, filepath.Join(root, "other", "next.config.mjs"), "export default {}\n")
	writeFile(t, filepath.Join(root, "other", "src", "index.ts"), serverSource)
	ta := newTestApp(t, root, nil)

	err := ta.Scan(t.Context(), app.Options{Dirs: []string{"other"}})
	require.NoError(t, err)

	assert.Equal(t, "S other/src/index.ts\n0 client, 1 server\n", ta.stdout.String())
}

func TestApp_Scan_ConfigWorkspace(t *testing.T) {
	root := newProject(t)
	writeFile(t, filepath.Join(root, "other", "next.config.js"), "")
	writeFile(t, filepath.Join(root, "other", "src", "index.ts"), clientSource)
	writeFile(t, filepath.Join(root, domain.ConfigFileName), "workspace: [other]\n")
	ta := newTestApp(t, root, nil)

	err := ta.Scan(t.Context(), app.Options{})
	require.NoError(t, err)

	assert.Equal(t, "C other/src/index.ts\n1 client, 0 server\n", ta.stdout.String())
}

func TestApp_Scan_NoProjects(t *testing.T) {
	ta := newTestApp(t, t.TempDir(), nil)

	err := ta.Scan(t.Context(), app.Options{})
	require.NoError(t, err)

	assert.Equal(t, "0 client, 0 server\n", ta.stdout.String())
}

func TestApp_Scan_ConfigParseError(t *testing.T) {
	root := newProject(t)
	writeFile(t, filepath.Join(root, domain.ConfigFileName), "workspace: [unterminated\n")
	ta := newTestApp(t, root, nil)

	err := ta.Scan(t.Context(), app.Options{})
	require.ErrorIs(t, err, domain.ErrConfigParseFailed)
	assert.Empty(t, ta.stdout.String())
}

func TestApp_Scan_InvalidColor(t *testing.T) {
	ta := newTestApp(t, newProject(t), nil)

	err := ta.Scan(t.Context(), app.Options{Color: "sometimes"})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidColorMode.Error())
}

func TestApp_Scan_JSONLogs(t *testing.T) {
	ta := newTestApp(t, newProject(t), nil)

	err := ta.Scan(t.Context(), app.Options{JSONLogs: true})
	require.NoError(t, err)

	assert.Contains(t, ta.logs.String(), `"msg":"scan complete"`)
}

func TestApp_Classify(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "client component",
			path: "web/src/app/page.tsx",
			want: "C web/src/app/page.tsx  Client Side Component\n",
		},
		{
			name: "server component",
			path: "web/src/app/layout.tsx",
			want: "S web/src/app/layout.tsx  Server Side Component\n",
		},
		{
			name: "case-insensitive identity",
			path: "WEB/SRC/APP/PAGE.TSX",
			want: "C WEB/SRC/APP/PAGE.TSX  Client Side Component\n",
		},
		{
			name: "outside every source directory",
			path: "README.md",
			want: "- README.md  not applicable\n",
		},
	}

	root := newProject(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t, root, nil)

			err := ta.Classify(t.Context(), tt.path, app.Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ta.stdout.String())
		})
	}
}

func TestApp_Classify_Unreadable(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}

	root := newProject(t)
	page := filepath.Join(root, "web", "src", "app", "page.tsx")
	require.NoError(t, os.Chmod(page, 0o000))
	t.Cleanup(func() { _ = os.Chmod(page, domain.FilePerm) })
	ta := newTestApp(t, root, nil)

	err := ta.Classify(t.Context(), page, app.Options{})
	require.NoError(t, err)

	assert.Equal(t, "! web/src/app/page.tsx  unavailable\n", ta.stdout.String())
	assert.Contains(t, ta.logs.String(), domain.ErrFileReadFailed.Error())
}

func TestApp_Watch_PrintsSavedFile(t *testing.T) {
	root := newProject(t)
	layout := filepath.Join(root, "web", "src", "app", "layout.tsx")

	ctrl := gomock.NewController(t)
	w := mocks.NewMockWatcher(ctrl)
	ta := newTestApp(t, root, w)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	w.EXPECT().Start(gomock.Any(), []string{root}).Return(nil)
	w.EXPECT().Events().DoAndReturn(func() iter.Seq[domain.Event] {
		writeFile(t, layout, clientSource)
		return seq(domain.DocumentSaved(layout))
	})
	w.EXPECT().Stop().Return(nil)

	ta.bus.Subscribe(func(change domain.Change) {
		if !change.All {
			cancel()
		}
	})

	err := ta.Watch(ctx, app.WatchOptions{})
	require.NoError(t, err)

	assert.Equal(t,
		"S web/src/app/layout.tsx\nC web/src/app/page.tsx\n1 client, 1 server\n"+
			"C web/src/app/layout.tsx\n",
		ta.stdout.String())
}

func TestApp_Watch_AnchorCreatedRefreshes(t *testing.T) {
	root := newProject(t)
	anchor := filepath.Join(root, "docs", "next.config.mjs")

	ctrl := gomock.NewController(t)
	w := mocks.NewMockWatcher(ctrl)
	ta := newTestApp(t, root, w)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	w.EXPECT().Start(gomock.Any(), gomock.Any()).Return(nil)
	w.EXPECT().Events().DoAndReturn(func() iter.Seq[domain.Event] {
		writeFile(t, filepath.Join(root, "docs", "src", "index.ts"), serverSource)
		writeFile(t, anchor, "")
		return seq(domain.FilesCreated(anchor))
	})
	w.EXPECT().Stop().Return(nil)

	var refreshes atomic.Int32
	ta.bus.Subscribe(func(change domain.Change) {
		if change.All && refreshes.Add(1) == 2 {
			cancel()
		}
	})

	err := ta.Watch(ctx, app.WatchOptions{})
	require.NoError(t, err)

	assert.Contains(t, ta.stdout.String(), "S docs/src/index.ts\n")
	assert.Contains(t, ta.stdout.String(), "1 client, 2 server\n")
}

func TestApp_Watch_ReloadRequestsRefresh(t *testing.T) {
	root := newProject(t)

	ctrl := gomock.NewController(t)
	w := mocks.NewMockWatcher(ctrl)
	ta := newTestApp(t, root, w)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	w.EXPECT().Start(gomock.Any(), gomock.Any()).Return(nil)
	w.EXPECT().Events().Return(seq())
	w.EXPECT().Stop().Return(nil)

	var refreshes atomic.Int32
	ta.bus.Subscribe(func(change domain.Change) {
		if change.All && refreshes.Add(1) == 2 {
			cancel()
		}
	})

	reload := make(chan os.Signal, 1)
	reload <- syscall.SIGHUP

	err := ta.Watch(ctx, app.WatchOptions{Reload: reload})
	require.NoError(t, err)

	assert.Equal(t, int32(2), refreshes.Load())
	assert.Contains(t, ta.logs.String(), "scan complete")
}

func TestApp_Watch_ReloadAppliesWorkspaceChange(t *testing.T) {
	root := newProject(t)
	other := filepath.Join(root, "other")
	writeFile(t, filepath.Join(other, "next.config.js"), "")
	writeFile(t, filepath.Join(other, "src", "index.ts"), clientSource)

	ctrl := gomock.NewController(t)
	w := mocks.NewMockWatcher(ctrl)
	ta := newTestApp(t, root, w)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	w.EXPECT().Start(gomock.Any(), []string{root}).Return(nil)
	w.EXPECT().Events().Return(seq())
	w.EXPECT().AddRoots([]string{other}).Return(nil)
	w.EXPECT().Stop().Return(nil)

	var refreshes atomic.Int32
	ta.bus.Subscribe(func(change domain.Change) {
		if change.All && refreshes.Add(1) == 2 {
			cancel()
		}
	})

	reload := make(chan os.Signal, 1)
	ta.bus.Subscribe(func(change domain.Change) {
		if change.All && refreshes.Load() == 1 {
			writeFile(t, filepath.Join(root, domain.ConfigFileName), "workspace: [other]\n")
			reload <- syscall.SIGHUP
		}
	})

	err := ta.Watch(ctx, app.WatchOptions{Reload: reload})
	require.NoError(t, err)

	assert.Contains(t, ta.stdout.String(), "C other/src/index.ts\n1 client, 0 server\n")
}

func TestApp_Watch_WatcherStartFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := mocks.NewMockWatcher(ctrl)
	ta := newTestApp(t, newProject(t), w)

	w.EXPECT().Start(gomock.Any(), gomock.Any()).Return(domain.ErrWatcherStartFailed)
	w.EXPECT().Stop().Return(nil)

	err := ta.Watch(t.Context(), app.WatchOptions{})
	require.ErrorIs(t, err, domain.ErrWatcherStartFailed)
}
