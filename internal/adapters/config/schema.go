package config

// Configfile represents the structure of the rscd.yaml configuration file.
type Configfile struct {
	Workspace []string   `yaml:"workspace"`
	Watch     WatchDTO   `yaml:"watch"`
	Logging   LoggingDTO `yaml:"logging"`
}

// WatchDTO configures watch mode.
type WatchDTO struct {
	Debounce string `yaml:"debounce"`
}

// LoggingDTO configures log and program output.
type LoggingDTO struct {
	JSON  bool   `yaml:"json"`
	Color string `yaml:"color"`
	Spans bool   `yaml:"spans"`
}
