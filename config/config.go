// Package config manages stepview configuration: tessellation fidelity,
// decode parallelism, and viewer colors, loaded from an optional TOML file
// and overlaid on the defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const ConfigFile = "stepview.toml"

// Config holds every user-tunable knob. The zero value is not usable;
// start from Default.
type Config struct {
	Tessellation Tessellation `toml:"tessellation"`
	Decode       Decode       `toml:"decode"`
	Viewer       Viewer       `toml:"viewer"`
}

// Tessellation controls mesh fidelity.
type Tessellation struct {
	// CircleSegmentScale multiplies a curve's radius when choosing its
	// segment count.
	CircleSegmentScale float64 `toml:"circle_segment_scale"`
	// MaxCircleSegments caps the segment count of any single curve.
	MaxCircleSegments int `toml:"max_circle_segments"`
}

// Decode controls the parallel decode pass.
type Decode struct {
	// Workers is the decode goroutine count; 0 means one per CPU.
	Workers int `toml:"workers"`
}

// Viewer holds the interactive viewer's appearance.
type Viewer struct {
	TreeColor     string `toml:"tree_color"`
	SelectedColor string `toml:"selected_color"`
	PropertyColor string `toml:"property_color"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Tessellation: Tessellation{
			CircleSegmentScale: 8.0,
			MaxCircleSegments:  64,
		},
		Decode: Decode{
			Workers: 0,
		},
		Viewer: Viewer{
			TreeColor:     "205",
			SelectedColor: "86",
			PropertyColor: "241",
		},
	}
}

// Load reads the configuration at path and overlays it on the defaults.
// A missing file is not an error: the defaults come back unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, cfg.validate()
}

// Discover looks for a config file next to the input file, then in the
// working directory, and falls back to the defaults.
func Discover(inputPath string) (*Config, error) {
	if inputPath != "" {
		candidate := filepath.Join(filepath.Dir(inputPath), ConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return Load(candidate)
		}
	}
	return Load(ConfigFile)
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) validate() error {
	if c.Tessellation.CircleSegmentScale < 0 {
		return fmt.Errorf("tessellation.circle_segment_scale must not be negative")
	}
	if c.Tessellation.MaxCircleSegments < 0 {
		return fmt.Errorf("tessellation.max_circle_segments must not be negative")
	}
	if c.Decode.Workers < 0 {
		return fmt.Errorf("decode.workers must not be negative")
	}
	return nil
}
