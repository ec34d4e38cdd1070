// Package config provides the configuration loader for rscd.
package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"go.trai.ch/rscd/internal/core/domain"
	"go.trai.ch/rscd/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	fs     afero.Fs
	logger ports.Logger
}

// NewLoader creates a new Loader reading from fsys.
func NewLoader(fsys afero.Fs, logger ports.Logger) *Loader {
	return &Loader{fs: fsys, logger: logger}
}

// Load searches cwd and its parents for rscd.yaml and resolves it.
// Without a config file the workspace is cwd and every other setting has its default.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	cwd, err := filepath.Abs(cwd)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFailedToGetRoot.Error()), "cwd", cwd)
	}

	configPath, found, err := l.findConfiguration(cwd)
	if err != nil {
		return nil, err
	}
	if !found {
		return &domain.Config{
			Folders:  []string{cwd},
			Debounce: domain.DefaultDebounceWindow,
		}, nil
	}

	return l.loadConfigfile(configPath)
}

func (l *Loader) findConfiguration(cwd string) (string, bool, error) {
	currentDir := cwd
	for {
		configPath := filepath.Join(currentDir, domain.ConfigFileName)
		_, err := l.fs.Stat(configPath)
		if err == nil {
			return configPath, true, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", false, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", configPath)
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false, nil
		}
		currentDir = parentDir
	}
}

func (l *Loader) loadConfigfile(configPath string) (*domain.Config, error) {
	data, err := afero.ReadFile(l.fs, configPath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", configPath)
	}

	var file Configfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Join(domain.ErrConfigParseFailed, zerr.With(err, "path", configPath))
	}

	root := filepath.Dir(configPath)
	cfg := &domain.Config{
		Folders:    resolveFolders(root, file.Workspace),
		Debounce:   domain.DefaultDebounceWindow,
		JSONLogs:   file.Logging.JSON,
		Color:      file.Logging.Color,
		TraceSpans: file.Logging.Spans,
		Source:     configPath,
	}

	if file.Watch.Debounce != "" {
		d, err := time.ParseDuration(file.Watch.Debounce)
		if err != nil {
			return nil, errors.Join(domain.ErrConfigParseFailed, zerr.With(err, "path", configPath))
		}
		if d < 0 {
			return nil, zerr.With(domain.ErrInvalidDebounceWindow, "debounce", file.Watch.Debounce)
		}
		cfg.Debounce = d
	}

	if l.logger != nil && len(file.Workspace) == 0 {
		l.logger.Warn("no workspace folders in " + configPath + ", using its directory")
	}

	return cfg, nil
}

// resolveFolders makes folders absolute relative to root. An empty list means root itself.
func resolveFolders(root string, folders []string) []string {
	if len(folders) == 0 {
		return []string{root}
	}

	resolved := make([]string, 0, len(folders))
	for _, folder := range folders {
		if !filepath.IsAbs(folder) {
			folder = filepath.Join(root, folder)
		}
		resolved = append(resolved, filepath.Clean(folder))
	}
	return resolved
}
