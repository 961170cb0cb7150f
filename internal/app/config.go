// Package app provides application-level wiring: configuration, theming
// and the developer reload watcher.
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the tunable parameters of the application. A single record
// is loaded at startup and passed into the components that need it; there
// are no package-level mutable settings.
type Config struct {
	// MinCropSize is the smallest selectable width/height in display pixels.
	MinCropSize int `yaml:"minCropSize"`

	// HandleSize is the hit size of a resize handle, centered on its midpoint.
	HandleSize int `yaml:"handleSize"`

	// MaxHistory bounds the undo snapshot stack.
	MaxHistory int `yaml:"maxHistory"`

	// OverlayAlpha is the opacity (0-255) of the dimmed region outside the selection.
	OverlayAlpha int `yaml:"overlayAlpha"`

	ThumbWidth  int `yaml:"thumbWidth"`
	ThumbHeight int `yaml:"thumbHeight"`

	RightPanelWidth int `yaml:"rightPanelWidth"`
	WindowWidth     int `yaml:"windowWidth"`
	WindowHeight    int `yaml:"windowHeight"`

	// WheelScaleStep is the window scale change per wheel notch.
	WheelScaleStep float64 `yaml:"wheelScaleStep"`

	// JPEGQuality is the fallback encoder quality when the source quality
	// cannot be estimated.
	JPEGQuality int `yaml:"jpegQuality"`

	// ImportDir overrides the directory for pasted/captured images.
	// Empty means ~/Pictures/Batch-Cropper.
	ImportDir string `yaml:"importDir"`

	Debug bool `yaml:"debug"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		MinCropSize:     4,
		HandleSize:      10,
		MaxHistory:      10,
		OverlayAlpha:    100,
		ThumbWidth:      100,
		ThumbHeight:     100,
		RightPanelWidth: 250,
		WindowWidth:     1120,
		WindowHeight:    800,
		WheelScaleStep:  0.1,
		JPEGQuality:     80,
	}
}

// ConfigPath returns the default config file location.
func ConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config dir: %w", err)
	}
	return filepath.Join(dir, "batch-cropper", "config.yaml"), nil
}

// LoadConfig loads configuration from a YAML file. A missing file returns
// the default configuration.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
