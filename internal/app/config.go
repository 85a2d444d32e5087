package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PlanPath string // plan file or directory of plan files

	DryRun bool
	Check  bool
	Strict bool
	Backup bool

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.PlanPath == "" {
		return nil, errors.New("PlanPath is a required configuration field and cannot be empty")
	}
	if cfg.DryRun && cfg.Check {
		return nil, errors.New("dry-run and check cannot be combined")
	}
	return &cfg, nil
}
