package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nhle/crm-planner/internal/app"
	"github.com/nhle/crm-planner/internal/directory"
	"github.com/nhle/crm-planner/internal/model"
	"github.com/nhle/crm-planner/internal/source/export"
	"github.com/nhle/crm-planner/internal/store"
	appsync "github.com/nhle/crm-planner/internal/sync"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the config file")
	exportDir := flag.String("export-dir", "", "export directory to watch (overrides config)")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if *exportDir != "" {
		cfg.Storage.ExportDir = *exportDir
	}

	logger, err := buildLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Error setting up logging: %v", err)
	}
	defer logger.Sync()

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0o755); err != nil {
		log.Fatalf("Error creating data directory: %v", err)
	}

	s, err := store.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer s.Close()

	loader := export.NewLoader(cfg.Storage.ExportDir, logger)
	watcher := appsync.New(s, loader, cfg.Storage.ExportDir, logger)
	resolver := directory.New(s, time.Duration(cfg.Directory.CacheTTLSec)*time.Second)

	root := app.New(app.Options{
		Store:     s,
		Watcher:   watcher,
		Directory: resolver,
		WeekStart: weekStart(cfg.Display.WeekStartsOn),
		Log:       logger,
	})

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildLogger creates the diagnostic logger. With no log path
// configured, diagnostics are discarded; a TUI cannot share stderr.
func buildLogger(cfg model.LogConfig) (*zap.Logger, error) {
	if cfg.Path == "" {
		return zap.NewNop(), nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	level := zapcore.WarnLevel
	if err := level.Set(cfg.Level); err != nil && cfg.Level != "" {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{cfg.Path}
	zc.ErrorOutputPaths = []string{cfg.Path}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// weekStart maps the configured first-of-week name onto a weekday.
func weekStart(name string) time.Weekday {
	if name == "sunday" {
		return time.Sunday
	}
	return time.Monday
}
