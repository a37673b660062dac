// Package app hosts the emulator application: configuration, console
// wiring, the presentation backend and the instruction tracer.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds all application configuration.
type Config struct {
	Window WindowConfig `json:"window"`
	Video  VideoConfig  `json:"video"`
	Debug  DebugConfig  `json:"debug"`
}

// WindowConfig contains window-related configuration.
type WindowConfig struct {
	Title string `json:"title"`
	Scale int    `json:"scale"` // NES resolution multiplier
}

// VideoConfig contains video rendering configuration.
type VideoConfig struct {
	Backend string `json:"backend"` // "ebitengine", "headless"
	Frames  int    `json:"frames"`  // headless frame budget, 0 = unlimited
}

// DebugConfig contains debugging and development options.
type DebugConfig struct {
	TraceFile  string `json:"trace_file"`  // nestest-format log destination, "" = off
	TraceLimit int    `json:"trace_limit"` // stop logging after N instructions, 0 = unlimited
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title: "famicore",
			Scale: 3,
		},
		Video: VideoConfig{
			Backend: "ebitengine",
		},
	}
}

// DefaultConfigPath returns the per-user config file location.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "famicore.json"
	}
	return filepath.Join(dir, "famicore", "config.json")
}

// LoadConfig reads a config file, filling unset fields with defaults. A
// missing file is not an error; the defaults are returned.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if config.Window.Scale < 1 {
		config.Window.Scale = DefaultConfig().Window.Scale
	}
	if config.Video.Backend == "" {
		config.Video.Backend = DefaultConfig().Video.Backend
	}
	return config, nil
}

// Save writes the config as indented JSON, creating the directory if
// needed.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
