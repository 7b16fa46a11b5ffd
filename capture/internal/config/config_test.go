package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFile_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demoreel.yaml")
	data := []byte("base_url: http://demo.local:4000\nbrowser:\n  stealth: true\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.BaseURL != "http://demo.local:4000" {
		t.Fatalf("got base url %q", cfg.BaseURL)
	}
	if !cfg.Browser.Stealth {
		t.Fatal("stealth not read")
	}
	if cfg.Provider != "claude" {
		t.Fatalf("got provider %q, want default", cfg.Provider)
	}
	if cfg.GifMS != 150 || cfg.TargetSeconds != 12.0 {
		t.Fatalf("animation defaults not applied: %d / %v", cfg.GifMS, cfg.TargetSeconds)
	}
	if cfg.Browser.NavTimeout != 18*time.Second {
		t.Fatalf("got nav timeout %v", cfg.Browser.NavTimeout)
	}
	if cfg.Browser.ViewportWidth != 1600 || cfg.Browser.ViewportHeight != 900 {
		t.Fatalf("viewport defaults not applied: %dx%d", cfg.Browser.ViewportWidth, cfg.Browser.ViewportHeight)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}

	cfg.Provider = "netscape"
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown provider must be rejected")
	}

	cfg.Provider = "codex"
	cfg.GifScale = 2.0
	if err := cfg.Validate(); err == nil {
		t.Fatal("upscaling must be rejected")
	}
}
