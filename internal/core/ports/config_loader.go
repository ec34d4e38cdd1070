package ports

import "go.trai.ch/rscd/internal/core/domain"

// ConfigLoader defines the interface for loading the application configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration relevant to cwd.
	// A missing config file yields the defaults.
	Load(cwd string) (*domain.Config, error)
}
