// Package app implements the application layer for rscd.
package app

import (
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/rscd/internal/adapters/linear"
	"go.trai.ch/rscd/internal/adapters/logger"
	"go.trai.ch/rscd/internal/adapters/notify"
	"go.trai.ch/rscd/internal/adapters/telemetry"
	"go.trai.ch/rscd/internal/adapters/workspace"
	"go.trai.ch/rscd/internal/core/domain"
	"go.trai.ch/rscd/internal/core/ports"
	"go.trai.ch/rscd/internal/engine/orchestrator"
	"go.trai.ch/rscd/internal/ui/output"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// WatcherFactory creates a file watcher for the configured debounce window.
type WatcherFactory func(window time.Duration) (ports.Watcher, error)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	folders      *workspace.Folders
	orchestrator *orchestrator.Orchestrator
	bus          *notify.Bus
	renderer     *linear.Renderer
	logs         *logger.Logger
	logger       ports.Logger
	newWatcher   WatcherFactory
	getwd        func() (string, error)
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	folders *workspace.Folders,
	orch *orchestrator.Orchestrator,
	bus *notify.Bus,
	renderer *linear.Renderer,
	logs *logger.Logger,
	newWatcher WatcherFactory,
) *App {
	return &App{
		configLoader: loader,
		folders:      folders,
		orchestrator: orch,
		bus:          bus,
		renderer:     renderer,
		logs:         logs,
		logger:       logs,
		newWatcher:   newWatcher,
		getwd:        os.Getwd,
	}
}

// WithWorkingDir pins the directory configuration and relative paths are resolved against.
// This is primarily used for testing.
func (a *App) WithWorkingDir(dir string) *App {
	a.getwd = func() (string, error) { return dir, nil }
	return a
}

// Options are the settings shared by every command. Flags override the config file.
type Options struct {
	// Dirs replaces the configured workspace folders when not empty.
	Dirs []string
	// JSONLogs switches the logger to JSON output.
	JSONLogs bool
	// Color is the color mode for program output. Empty keeps the configured mode.
	Color string
	// Trace prints the duration of every traced operation.
	Trace bool
}

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	Options
	// Reload receives a value whenever the user asks for the configuration to be reread.
	Reload <-chan os.Signal
}

// session is the resolved state of a single command invocation.
type session struct {
	cwd      string
	cfg      *domain.Config
	shutdown func(context.Context) error
}

func (s *session) close(ctx context.Context) {
	if s.shutdown != nil {
		_ = s.shutdown(ctx)
	}
}

// Scan discovers every project once and prints the classification of each file.
func (a *App) Scan(ctx context.Context, opts Options) error {
	s, err := a.setup(opts)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	if err := a.orchestrator.FullRefresh(ctx); err != nil {
		return err
	}

	a.printAll(ctx, s.cwd)
	a.logger.Info("scan complete")
	return nil
}

// Classify discovers every project and prints the classification of a single file.
func (a *App) Classify(ctx context.Context, path string, opts Options) error {
	s, err := a.setup(opts)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	if err := a.orchestrator.FullRefresh(ctx); err != nil {
		return err
	}

	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(s.cwd, abs)
	}

	display := displayPath(s.cwd, abs)
	res := a.orchestrator.Query(ctx, abs)
	switch res.Status {
	case orchestrator.StatusReady:
		dec, _ := res.Decoration()
		a.renderer.PrintDetail(display, dec)
	case orchestrator.StatusUnavailable:
		a.renderer.PrintUnavailable(display)
	default:
		a.renderer.PrintNotApplicable(display)
	}
	return nil
}

// Watch performs an initial refresh and then keeps classifications current from
// file system events until ctx is canceled. Every change notification is printed.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	s, err := a.setup(opts.Options)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	w, err := a.newWatcher(s.cfg.Debounce)
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	g, ctx := errgroup.WithContext(ctx)

	// Started before the initial refresh so nothing created in between is missed.
	if err := w.Start(ctx, a.folders.Folders()); err != nil {
		return err
	}

	sub := a.bus.Subscribe(func(change domain.Change) {
		a.printChange(ctx, s.cwd, change)
	})
	defer a.bus.Unsubscribe(sub)

	if err := a.orchestrator.FullRefresh(ctx); err != nil {
		// Later events may repair the workspace, keep watching.
		a.logger.Error(err)
	}

	events := make(chan domain.Event)

	g.Go(func() error {
		for ev := range w.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return nil
			}
		}
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case _, ok := <-opts.Reload:
				if !ok {
					return nil
				}
				ev, err := a.reload(w, s.cwd, opts.Dirs)
				if err != nil {
					a.logger.Error(err)
					continue
				}
				select {
				case events <- ev:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})

	g.Go(func() error {
		return a.orchestrator.Run(ctx, channelSeq(ctx, events))
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// reload rereads the configuration. A changed folder list is applied to the
// workspace and the watcher; otherwise a plain refresh is requested.
func (a *App) reload(w ports.Watcher, cwd string, dirs []string) (domain.Event, error) {
	if len(dirs) > 0 {
		return domain.RefreshRequested(), nil
	}

	cfg, err := a.configLoader.Load(cwd)
	if err != nil {
		return domain.Event{}, err
	}

	previous := a.folders.Folders()
	changed, err := a.folders.Set(cfg.Folders)
	if err != nil {
		return domain.Event{}, err
	}
	if !changed {
		return domain.RefreshRequested(), nil
	}

	var added []string
	for _, folder := range a.folders.Folders() {
		if !slices.Contains(previous, folder) {
			added = append(added, folder)
		}
	}
	if err := w.AddRoots(added); err != nil {
		return domain.Event{}, err
	}
	return domain.WorkspaceFoldersChanged(), nil
}

// setup loads the configuration, applies the command options and points the
// workspace at the resulting folders.
func (a *App) setup(opts Options) (*session, error) {
	cwd, err := a.getwd()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
	}

	cfg, err := a.configLoader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if len(opts.Dirs) > 0 {
		cfg.Folders = make([]string, 0, len(opts.Dirs))
		for _, dir := range opts.Dirs {
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(cwd, dir)
			}
			cfg.Folders = append(cfg.Folders, dir)
		}
	}

	a.logs.SetJSON(cfg.JSONLogs || opts.JSONLogs)

	colorFlag := cfg.Color
	if opts.Color != "" {
		colorFlag = opts.Color
	}
	mode, err := output.ParseColorMode(colorFlag)
	if err != nil {
		return nil, err
	}
	a.renderer.SetColorMode(mode)

	if _, err := a.folders.Set(cfg.Folders); err != nil {
		return nil, err
	}

	s := &session{cwd: cwd, cfg: cfg}
	if cfg.TraceSpans || opts.Trace {
		s.shutdown = telemetry.Install(a.renderer)
	}
	return s, nil
}

// printChange prints the decorations a change notification refers to.
func (a *App) printChange(ctx context.Context, cwd string, change domain.Change) {
	if change.All {
		a.printAll(ctx, cwd)
		return
	}

	set := a.orchestrator.Discovered()
	for _, id := range change.Files {
		path, ok := set.Path(id)
		if !ok {
			continue
		}
		a.printResult(cwd, path, a.orchestrator.Query(ctx, path))
	}
}

// printAll prints every discovered file followed by a summary.
func (a *App) printAll(ctx context.Context, cwd string) {
	var client, server, unavailable int
	for _, path := range a.orchestrator.Discovered().Paths() {
		res := a.orchestrator.Query(ctx, path)
		switch {
		case res.Status == orchestrator.StatusUnavailable:
			unavailable++
		case res.Classification == domain.Client:
			client++
		default:
			server++
		}
		a.printResult(cwd, path, res)
	}
	a.renderer.PrintSummary(client, server, unavailable)
}

func (a *App) printResult(cwd, path string, res orchestrator.Result) {
	display := displayPath(cwd, path)
	if dec, ok := res.Decoration(); ok {
		a.renderer.PrintDecoration(display, dec)
		return
	}
	if res.Status == orchestrator.StatusUnavailable {
		a.renderer.PrintUnavailable(display)
	}
}

// displayPath shortens path relative to cwd when it lies below it.
func displayPath(cwd, path string) string {
	rel, err := filepath.Rel(cwd, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// channelSeq yields values received on ch until it is closed or ctx is canceled.
func channelSeq(ctx context.Context, ch <-chan domain.Event) iter.Seq[domain.Event] {
	return func(yield func(domain.Event) bool) {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-ch:
				if !ok || !yield(ev) {
					return
				}
			}
		}
	}
}
