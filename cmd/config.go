package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/slackard/slackard/internal/config"
	"github.com/slackard/slackard/internal/logutil"
)

// loadConfig reads and validates the file at path and installs the
// configured logger as the slog default.
func loadConfig(path string, verbose bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger, err := logutil.New(os.Stderr, level, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s:\n%w", path, err)
	}
	return cfg, nil
}
