package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 30, cfg.Dashboard.WindowDays)
	assert.Equal(t, 5, cfg.Dashboard.RecentLimit)
	assert.Equal(t, int64(25), cfg.Storage.MaxFileSizeMB)
	assert.Equal(t, "My Home", cfg.Seed.HomeName)
	assert.Len(t, cfg.Seed.Categories, 8)
	assert.Len(t, cfg.Seed.Locations, 8)
	assert.Equal(t, "homekeeper.db", filepath.Base(cfg.Database.Path))
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  path: /tmp/house.db
log:
  level: debug
  format: json
dashboard:
  window_days: 14
workers:
  size: 0
seed:
  home_name: Cabin
  categories:
    - name: Roof
      icon: house
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/house.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 14, cfg.Dashboard.WindowDays)
	assert.Equal(t, 5, cfg.Dashboard.RecentLimit)
	assert.Equal(t, 1, cfg.Workers.Size, "non-positive sizes are clamped")
	assert.Equal(t, "Cabin", cfg.Seed.HomeName)
	require.Len(t, cfg.Seed.Categories, 1)
	assert.Equal(t, "Roof", cfg.Seed.Categories[0].Name)
	assert.Len(t, cfg.Seed.Locations, 8, "locations fall back to defaults independently")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("HOMEKEEPER_DATABASE_PATH", "/var/lib/hk.db")
	t.Setenv("HOMEKEEPER_LOG_LEVEL", "warn")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/hk.db", cfg.Database.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadConfig_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: [unclosed"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	cfg.Database.Path = "/data/home.db"
	cfg.Dashboard.RecentLimit = 9

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/home.db", loaded.Database.Path)
	assert.Equal(t, 9, loaded.Dashboard.RecentLimit)
	assert.Len(t, loaded.Seed.Categories, 8)
}

func TestStorageConfig_MaxFileSizeBytes(t *testing.T) {
	assert.Equal(t, int64(2*1024*1024), StorageConfig{MaxFileSizeMB: 2}.MaxFileSizeBytes())
}
