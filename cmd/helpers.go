package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/jotunheim-mc/website/internal/audit"
	"github.com/jotunheim-mc/website/internal/config"
	"github.com/jotunheim-mc/website/internal/content"
	"github.com/jotunheim-mc/website/internal/db"
	"github.com/jotunheim-mc/website/internal/logging"
	"github.com/jotunheim-mc/website/internal/pages"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `jotunheim init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the process logger; --verbose forces debug level.
func newLogger(cfg *config.Config) zerolog.Logger {
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	return logging.New(level, string(cfg.Log.Format), os.Stderr)
}

func newRenderer(cfg *config.Config) (*pages.Renderer, error) {
	site, err := content.Load()
	if err != nil {
		return nil, fmt.Errorf("loading site content: %w", err)
	}
	renderer, err := pages.NewRenderer(cfg, site)
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return renderer, nil
}

// openAudit opens the audit database under cfg.DataDir, creating it if
// needed. The caller closes the returned DB.
func openAudit(cfg *config.Config) (*db.DB, *audit.Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating data dir: %w", err)
	}
	database, err := db.Open(filepath.Join(cfg.DataDir, "jotunheim.db"))
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return database, audit.NewStore(database), nil
}
