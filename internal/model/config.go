package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// StorageConfig holds local persistence settings.
type StorageConfig struct {
	// DatabasePath is the SQLite database file location.
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`

	// ExportDir is the directory watched for JSON exports of the
	// upstream document store.
	ExportDir string `mapstructure:"export_dir" yaml:"export_dir"`
}

// DirectoryConfig holds user-directory cache settings.
type DirectoryConfig struct {
	// CacheTTLSec is how long resolved user names stay cached.
	CacheTTLSec int `mapstructure:"cache_ttl_sec" yaml:"cache_ttl_sec"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`

	// WeekStartsOn is the first day of the calendar week
	// ("monday" or "sunday").
	WeekStartsOn string `mapstructure:"week_starts_on" yaml:"week_starts_on"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	// Path is the log file location; empty disables file logging.
	Path string `mapstructure:"path" yaml:"path"`

	// Level is the minimum level written ("debug", "info", "warn").
	Level string `mapstructure:"level" yaml:"level"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage   StorageConfig   `mapstructure:"storage" yaml:"storage"`
	Directory DirectoryConfig `mapstructure:"directory" yaml:"directory"`
	Display   DisplayConfig   `mapstructure:"display" yaml:"display"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/crmplanner/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "crmplanner", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dataDir := "."
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".local", "share", "crmplanner")
	}
	return &AppConfig{
		Storage: StorageConfig{
			DatabasePath: filepath.Join(dataDir, "planner.db"),
			ExportDir:    filepath.Join(dataDir, "exports"),
		},
		Directory: DirectoryConfig{CacheTTLSec: 300},
		Display: DisplayConfig{
			Theme:        "default",
			WeekStartsOn: "monday",
		},
		Log: LogConfig{Level: "warn"},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	defaults := defaultAppConfig()

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("storage.database_path", defaults.Storage.DatabasePath)
	v.SetDefault("storage.export_dir", defaults.Storage.ExportDir)
	v.SetDefault("directory.cache_ttl_sec", defaults.Directory.CacheTTLSec)
	v.SetDefault("display.theme", defaults.Display.Theme)
	v.SetDefault("display.week_starts_on", defaults.Display.WeekStartsOn)
	v.SetDefault("log.level", defaults.Log.Level)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaults, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage", cfg.Storage)
	v.Set("directory", cfg.Directory)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
