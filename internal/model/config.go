package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DatabaseConfig locates the SQLite database file.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// StorageConfig controls where attachment blobs live and how large they may be.
type StorageConfig struct {
	Root          string `mapstructure:"root" yaml:"root"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb" yaml:"max_file_size_mb"`
}

// MaxFileSizeBytes returns the blob size cap in bytes.
func (s StorageConfig) MaxFileSizeBytes() int64 {
	return s.MaxFileSizeMB * 1024 * 1024
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DashboardConfig tunes dashboard aggregation.
type DashboardConfig struct {
	// WindowDays is how far ahead upcoming tasks and expiring warranties look.
	WindowDays int `mapstructure:"window_days" yaml:"window_days"`

	// RecentLimit caps the number of recent maintenance records shown.
	RecentLimit int `mapstructure:"recent_limit" yaml:"recent_limit"`
}

// WorkersConfig sizes the background loader pool.
type WorkersConfig struct {
	Size int `mapstructure:"size" yaml:"size"`
}

// SeedCategory is a default category created on first run.
type SeedCategory struct {
	Name string `mapstructure:"name" yaml:"name"`
	Icon string `mapstructure:"icon" yaml:"icon"`
}

// SeedLocation is a default location created on first run.
type SeedLocation struct {
	Name  string `mapstructure:"name" yaml:"name"`
	Floor *int64 `mapstructure:"floor" yaml:"floor"`
}

// SeedConfig describes the rows inserted when no home exists yet.
type SeedConfig struct {
	HomeName   string         `mapstructure:"home_name" yaml:"home_name"`
	Categories []SeedCategory `mapstructure:"categories" yaml:"categories"`
	Locations  []SeedLocation `mapstructure:"locations" yaml:"locations"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Storage   StorageConfig   `mapstructure:"storage" yaml:"storage"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Dashboard DashboardConfig `mapstructure:"dashboard" yaml:"dashboard"`
	Workers   WorkersConfig   `mapstructure:"workers" yaml:"workers"`
	Seed      SeedConfig      `mapstructure:"seed" yaml:"seed"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/homekeeper/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(dataDir(), "config.yaml")
}

// dataDir is ~/.config/homekeeper, or the working directory when the
// home directory cannot be resolved.
func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "homekeeper")
}

func floor(n int64) *int64 { return &n }

// DefaultSeed returns the categories and locations created on first run.
func DefaultSeed() SeedConfig {
	return SeedConfig{
		HomeName: "My Home",
		Categories: []SeedCategory{
			{Name: "HVAC", Icon: "fan"},
			{Name: "Plumbing", Icon: "drop"},
			{Name: "Electrical", Icon: "bolt"},
			{Name: "Appliances", Icon: "refrigerator"},
			{Name: "Exterior", Icon: "house"},
			{Name: "Interior", Icon: "sofa"},
			{Name: "Safety", Icon: "shield"},
			{Name: "Landscaping", Icon: "leaf"},
		},
		Locations: []SeedLocation{
			{Name: "Kitchen", Floor: floor(1)},
			{Name: "Living Room", Floor: floor(1)},
			{Name: "Bedroom", Floor: floor(2)},
			{Name: "Bathroom", Floor: floor(2)},
			{Name: "Basement", Floor: floor(0)},
			{Name: "Garage", Floor: floor(1)},
			{Name: "Attic", Floor: floor(3)},
			{Name: "Yard"},
		},
	}
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dir := dataDir()
	return &AppConfig{
		Database: DatabaseConfig{Path: filepath.Join(dir, "homekeeper.db")},
		Storage: StorageConfig{
			Root:          filepath.Join(dir, "attachments"),
			MaxFileSizeMB: 25,
		},
		Log:       LogConfig{Level: "info", Format: "text"},
		Dashboard: DashboardConfig{WindowDays: 30, RecentLimit: 5},
		Workers:   WorkersConfig{Size: 2},
		Seed:      DefaultSeed(),
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
// HOMEKEEPER_* environment variables override file values
// (e.g. HOMEKEEPER_DATABASE_PATH).
func LoadConfig(path string) (*AppConfig, error) {
	def := defaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("homekeeper")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("database.path", def.Database.Path)
	v.SetDefault("storage.root", def.Storage.Root)
	v.SetDefault("storage.max_file_size_mb", def.Storage.MaxFileSizeMB)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("dashboard.window_days", def.Dashboard.WindowDays)
	v.SetDefault("dashboard.recent_limit", def.Dashboard.RecentLimit)
	v.SetDefault("workers.size", def.Workers.Size)
	v.SetDefault("seed.home_name", def.Seed.HomeName)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	// Seed lists come only from the file; defaults are filled in below.
	cfg := def
	cfg.Seed.Categories = nil
	cfg.Seed.Locations = nil
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Dashboard.WindowDays <= 0 {
		cfg.Dashboard.WindowDays = 30
	}
	if cfg.Dashboard.RecentLimit <= 0 {
		cfg.Dashboard.RecentLimit = 5
	}
	if cfg.Workers.Size <= 0 {
		cfg.Workers.Size = 1
	}
	if cfg.Storage.MaxFileSizeMB <= 0 {
		cfg.Storage.MaxFileSizeMB = def.Storage.MaxFileSizeMB
	}
	if len(cfg.Seed.Categories) == 0 {
		cfg.Seed.Categories = DefaultSeed().Categories
	}
	if len(cfg.Seed.Locations) == 0 {
		cfg.Seed.Locations = DefaultSeed().Locations
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

	v.Set("database", cfg.Database)
	v.Set("storage", cfg.Storage)
	v.Set("log", cfg.Log)
	v.Set("dashboard", cfg.Dashboard)
	v.Set("workers", cfg.Workers)
	v.Set("seed", cfg.Seed)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
