// Package config handles demoreel run configuration from flags and
// optional YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Providers the target app understands for client-side provider scoping.
var Providers = []string{"claude", "codex", "gemini"}

// Config is the top-level run configuration.
type Config struct {
	// BaseURL is the origin of the running target app.
	BaseURL string `yaml:"base_url"`

	// OutDir is the output root for all generated assets.
	OutDir string `yaml:"out_dir"`

	// Provider is preloaded into the captured browser's persisted
	// client-side state before first load.
	Provider string `yaml:"provider"`

	// GifMS is the per-frame display duration in milliseconds.
	GifMS int `yaml:"gif_ms"`

	// TargetSeconds is the desired per-scenario animation length.
	TargetSeconds float64 `yaml:"target_seconds"`

	// GifScale shrinks GIF frames relative to the capture viewport.
	GifScale float64 `yaml:"gif_scale"`

	// Scenarios restricts the run to the named scenario keys.
	// Empty means all.
	Scenarios []string `yaml:"scenarios"`

	// KeepTemp retains the transient _frames and _raw-video directories.
	KeepTemp bool `yaml:"keep_temp"`

	Browser BrowserConfig `yaml:"browser"`
	Preview PreviewConfig `yaml:"preview"`
}

// BrowserConfig controls the Chrome instance driving the capture.
type BrowserConfig struct {
	// Remote is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local one.
	Remote string `yaml:"remote"`

	// Stealth creates pages with bot-detection evasion applied, for
	// capturing instances that sit behind bot protection.
	Stealth bool `yaml:"stealth"`

	// NavTimeout bounds navigation plus required element waits.
	NavTimeout time.Duration `yaml:"nav_timeout"`

	ViewportWidth  int `yaml:"viewport_width"`
	ViewportHeight int `yaml:"viewport_height"`
}

// PreviewConfig controls the optional post-run asset preview server.
type PreviewConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills unset fields with the standard run parameters.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://127.0.0.1:3000"
	}
	if c.OutDir == "" {
		c.OutDir = "docs/assets/demo"
	}
	if c.Provider == "" {
		c.Provider = "claude"
	}
	if c.GifMS <= 0 {
		c.GifMS = 150
	}
	if c.TargetSeconds <= 0 {
		c.TargetSeconds = 12.0
	}
	if c.GifScale <= 0 {
		c.GifScale = 1.0
	}
	if c.Browser.NavTimeout <= 0 {
		c.Browser.NavTimeout = 18 * time.Second
	}
	if c.Browser.ViewportWidth <= 0 {
		c.Browser.ViewportWidth = 1600
	}
	if c.Browser.ViewportHeight <= 0 {
		c.Browser.ViewportHeight = 900
	}
	if c.Preview.Addr == "" {
		c.Preview.Addr = ":8099"
	}
}

// Validate rejects values the capture pipeline cannot work with.
func (c *Config) Validate() error {
	valid := false
	for _, p := range Providers {
		if c.Provider == p {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("config: unknown provider %q (want one of %v)", c.Provider, Providers)
	}
	if c.GifScale > 1.0 {
		return fmt.Errorf("config: gif_scale %v exceeds 1.0 (upscaling screenshots is lossy)", c.GifScale)
	}
	return nil
}
