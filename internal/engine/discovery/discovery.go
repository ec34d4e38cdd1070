// Package discovery locates project anchors and derives the files the classifier is responsible for.
package discovery

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"slices"

	"go.trai.ch/rscd/internal/core/domain"
	"go.trai.ch/rscd/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Discoverer walks the workspace on every call; it keeps no state between calls.
type Discoverer struct {
	fs        ports.FileSystem
	workspace ports.Workspace
	tracer    ports.Tracer
}

// New creates a new Discoverer.
func New(fsys ports.FileSystem, workspace ports.Workspace, tracer ports.Tracer) *Discoverer {
	return &Discoverer{
		fs:        fsys,
		workspace: workspace,
		tracer:    tracer,
	}
}

// Discover rebuilds the set of files of interest:
//  1. search every workspace folder for anchors, skipping dependency directories;
//  2. keep the sibling src directory of each anchor if it is a directory;
//  3. collect the source files below each src directory;
//  4. union the results.
//
// A missing src directory is not an error. Any other file system failure aborts discovery.
func (d *Discoverer) Discover(ctx context.Context) (*domain.DiscoveredSet, error) {
	ctx, span := d.tracer.Start(ctx, "discovery.discover")
	defer span.End()

	anchors, err := d.findAnchors(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttribute("anchors", len(anchors))

	srcDirs, err := d.sourceDirs(ctx, anchors)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttribute("source_dirs", len(srcDirs))

	files, err := d.scanSources(ctx, srcDirs)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	set := domain.NewDiscoveredSet(files...)
	span.SetAttribute("files", set.Len())
	return set, nil
}

// findAnchors returns the anchor files of every workspace folder.
func (d *Discoverer) findAnchors(ctx context.Context) ([]string, error) {
	var anchors []string
	seen := make(map[domain.FileIdentity]struct{})

	for _, folder := range d.workspace.Folders() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		matches, err := d.fs.Glob(folder, domain.AnchorPattern, domain.VendorPattern)
		if err != nil {
			return nil, errors.Join(domain.ErrAnchorSearchFailed, zerr.With(err, "folder", folder))
		}

		for _, anchor := range matches {
			id := domain.NewFileIdentity(anchor)
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			anchors = append(anchors, anchor)
		}
	}

	slices.Sort(anchors)
	return anchors, nil
}

// sourceDirs returns the distinct src directories that sit next to an anchor.
func (d *Discoverer) sourceDirs(ctx context.Context, anchors []string) ([]string, error) {
	var dirs []string
	seen := make(map[domain.FileIdentity]struct{})

	for _, anchor := range anchors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dir := filepath.Join(filepath.Dir(anchor), domain.SourceDirName)
		id := domain.NewFileIdentity(dir)
		if _, ok := seen[id]; ok {
			continue
		}

		isDir, err := d.fs.IsDir(dir)
		if err != nil {
			return nil, errors.Join(domain.ErrSourceStatFailed, zerr.With(err, "dir", dir))
		}
		if !isDir {
			continue
		}

		seen[id] = struct{}{}
		dirs = append(dirs, dir)
	}

	return dirs, nil
}

// scanSources globs every src directory concurrently and concatenates the matches.
func (d *Discoverer) scanSources(ctx context.Context, dirs []string) ([]string, error) {
	results := make([][]string, len(dirs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, dir := range dirs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			matches, err := d.fs.Glob(dir, domain.SourcePattern, domain.VendorPattern)
			if err != nil {
				return errors.Join(domain.ErrSourceScanFailed, zerr.With(err, "dir", dir))
			}
			results[i] = matches
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var files []string
	for _, matches := range results {
		files = append(files, matches...)
	}
	return files, nil
}
