package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/bim2city/pkg/convert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "abort", cfg.Conversion.OnGeometryError)
	assert.True(t, cfg.Conversion.PostProcessing)
	assert.False(t, cfg.Conversion.PruneEmptyRooms)
	assert.Equal(t, 64, cfg.Engine.MeshCells)
	assert.Equal(t, 5*time.Second, cfg.Engine.ParseTimeout)
	assert.Equal(t, "  ", cfg.Output.Indent)
	assert.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "valid default config", modify: func(c *Config) {}},
		{name: "skip policy", modify: func(c *Config) { c.Conversion.OnGeometryError = "skip" }},
		{name: "empty policy means abort", modify: func(c *Config) { c.Conversion.OnGeometryError = "" }},
		{name: "unknown policy", modify: func(c *Config) { c.Conversion.OnGeometryError = "retry" }, wantErr: true},
		{name: "mesh cells too low", modify: func(c *Config) { c.Engine.MeshCells = 4 }, wantErr: true},
		{name: "zero timeout", modify: func(c *Config) { c.Engine.ParseTimeout = 0 }, wantErr: true},
		{name: "tab indent", modify: func(c *Config) { c.Output.Indent = "\t" }},
		{name: "no indent", modify: func(c *Config) { c.Output.Indent = "" }},
		{name: "non-blank indent", modify: func(c *Config) { c.Output.Indent = "--" }, wantErr: true},
		{name: "upper-case level", modify: func(c *Config) { c.Log.Level = "DEBUG" }},
		{name: "unknown level", modify: func(c *Config) { c.Log.Level = "trace" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGeometryErrorPolicy(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, convert.AbortOnGeometryError, cfg.GeometryErrorPolicy())

	cfg.Conversion.OnGeometryError = "skip"
	assert.Equal(t, convert.SkipOnGeometryError, cfg.GeometryErrorPolicy())

	cfg.Conversion.OnGeometryError = "bogus"
	assert.Equal(t, convert.AbortOnGeometryError, cfg.GeometryErrorPolicy())
}

func TestLoadFromFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bim2city.yaml")
	content := `
conversion:
  on_geometry_error: skip
engine:
  parse_timeout: 250ms
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "skip", cfg.Conversion.OnGeometryError)
	assert.Equal(t, 250*time.Millisecond, cfg.Engine.ParseTimeout)
	// Untouched sections keep their defaults.
	assert.True(t, cfg.Conversion.PostProcessing)
	assert.Equal(t, 64, cfg.Engine.MeshCells)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: [unclosed"), 0644))
	_, err = LoadFromFile(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "bim2city.yaml")

	cfg := DefaultConfig()
	cfg.Conversion.PruneEmptyRooms = true
	cfg.Engine.MeshCells = 96
	cfg.Output.SrsName = "EPSG:25832"
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad(t *testing.T) {
	t.Run("defaults when nothing found", func(t *testing.T) {
		cfg, err := Load("", t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("project file in directory", func(t *testing.T) {
		dir := t.TempDir()
		content := "log:\n  level: debug\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigFile), []byte(content), 0644))

		cfg, err := Load("", dir)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("explicit path wins", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigFile), []byte("log:\n  level: debug\n"), 0644))
		explicit := filepath.Join(t.TempDir(), "other.yaml")
		require.NoError(t, os.WriteFile(explicit, []byte("log:\n  level: error\n"), 0644))

		cfg, err := Load(explicit, dir)
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.Log.Level)
	})

	t.Run("explicit path must exist", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
		assert.Error(t, err)
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("conversion:\n  on_geometry_error: retry\n"), 0644))
		_, err := Load(path, "")
		assert.ErrorContains(t, err, "invalid config")
	})
}
