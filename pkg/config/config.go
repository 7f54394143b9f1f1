// Package config provides configuration for the bim2city converter.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chazu/bim2city/pkg/convert"
	"github.com/chazu/bim2city/pkg/engine"
	"github.com/chazu/bim2city/pkg/kernel/sdfx"
)

// ProjectConfigFile is the file looked up next to the model when no
// explicit config path is given.
const ProjectConfigFile = "bim2city.yaml"

// Config holds all configuration for a conversion run.
type Config struct {
	Conversion ConversionConfig `yaml:"conversion"`
	Engine     EngineConfig     `yaml:"engine"`
	Output     OutputConfig     `yaml:"output"`
	Log        LogConfig        `yaml:"log"`
}

// ConversionConfig controls the walker and converter.
type ConversionConfig struct {
	// OnGeometryError is "abort" or "skip".
	OnGeometryError string `yaml:"on_geometry_error"`

	// PostProcessing asks the engine to weld vertices and drop
	// degenerate triangles.
	PostProcessing bool `yaml:"post_processing"`

	// PruneEmptyRooms removes synthetic rooms left without content.
	PruneEmptyRooms bool `yaml:"prune_empty_rooms"`
}

// EngineConfig holds geometry engine settings.
type EngineConfig struct {
	// MeshCells is the marching cubes resolution along the longest axis.
	MeshCells int `yaml:"mesh_cells"`

	// ParseTimeout bounds evaluation of one exchange document.
	ParseTimeout time.Duration `yaml:"parse_timeout"`
}

// OutputConfig holds document encoding settings.
type OutputConfig struct {
	Indent  string `yaml:"indent"`
	SrsName string `yaml:"srs_name,omitempty"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Conversion: ConversionConfig{
			OnGeometryError: "abort",
			PostProcessing:  true,
			PruneEmptyRooms: false,
		},
		Engine: EngineConfig{
			MeshCells:    sdfx.DefaultMeshCells,
			ParseTimeout: engine.DefaultParseTimeout,
		},
		Output: OutputConfig{
			Indent: "  ",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := convert.ParseGeometryErrorPolicy(c.Conversion.OnGeometryError); err != nil {
		return fmt.Errorf("conversion.on_geometry_error: %w", err)
	}
	if c.Engine.MeshCells < 8 {
		return fmt.Errorf("engine.mesh_cells must be at least 8, got %d", c.Engine.MeshCells)
	}
	if c.Engine.ParseTimeout <= 0 {
		return fmt.Errorf("engine.parse_timeout must be positive")
	}
	if strings.TrimSpace(c.Output.Indent) != "" {
		return fmt.Errorf("output.indent must contain only whitespace")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	return nil
}

// GeometryErrorPolicy returns the parsed conversion.on_geometry_error value.
// Call Validate first; an invalid value falls back to abort.
func (c *Config) GeometryErrorPolicy() convert.GeometryErrorPolicy {
	p, err := convert.ParseGeometryErrorPolicy(c.Conversion.OnGeometryError)
	if err != nil {
		return convert.AbortOnGeometryError
	}
	return p
}

// LoadFromFile loads configuration from a YAML file. Fields absent from
// the file keep their default values.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Load resolves the configuration for a run. An explicit path must exist.
// Without one, a bim2city.yaml in dir is used when present, otherwise the
// defaults.
func Load(explicit, dir string) (*Config, error) {
	path := explicit
	if path == "" {
		candidate := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}

	config := DefaultConfig()
	if path != "" {
		loaded, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// SaveToFile saves the configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
