// Command demoreel captures deterministic product demos from a running
// Velocity instance as GIF, WebM, and MP4 assets, plus stitched
// multi-scenario reels.
//
// Usage:
//
//	demoreel                                  # capture the full suite
//	demoreel -scenarios routing-demo          # capture a subset
//	demoreel -config demoreel.yaml -preview   # config file + preview server
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/velocityhq/demoreel/capture"
	"github.com/velocityhq/demoreel/preview"
)

func main() {
	configPath := flag.String("config", "", "path to demoreel.yaml config file")
	baseURL := flag.String("base-url", "", "base URL of a running Velocity instance")
	outDir := flag.String("out-dir", "", "directory to write generated assets")
	provider := flag.String("provider", "", fmt.Sprintf("provider scope to preload (%s)", strings.Join(capture.Providers, ", ")))
	gifMS := flag.Int("gif-ms", 0, "milliseconds per GIF frame")
	targetSeconds := flag.Float64("target-seconds", 0, "target per-scenario GIF length in seconds")
	scenarios := flag.String("scenarios", "", "comma-separated scenario keys (default: all)")
	keepTemp := flag.Bool("keep-temp", false, "keep transient frame and raw video spools")
	previewFlag := flag.Bool("preview", false, "serve generated assets over HTTP after the run")
	previewAddr := flag.String("preview-addr", "", "preview server listen address")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, flags{
		baseURL:       *baseURL,
		outDir:        *outDir,
		provider:      *provider,
		gifMS:         *gifMS,
		targetSeconds: *targetSeconds,
		scenarios:     *scenarios,
		keepTemp:      *keepTemp,
		preview:       *previewFlag,
		previewAddr:   *previewAddr,
	}); err != nil {
		logger.Error("demoreel: fatal", "error", err)
		os.Exit(1)
	}
}

// flags carries command-line overrides; set values win over the config
// file.
type flags struct {
	baseURL       string
	outDir        string
	provider      string
	gifMS         int
	targetSeconds float64
	scenarios     string
	keepTemp      bool
	preview       bool
	previewAddr   string
}

func run(ctx context.Context, logger *slog.Logger, configPath string, f flags) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(cfg, f)
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	capturer, err := capture.New(cfg, logger)
	if err != nil {
		return err
	}
	if err := capturer.Run(ctx); err != nil {
		return err
	}

	if cfg.Preview.Enabled {
		srv := preview.New(cfg.Preview.Addr, cfg.OutDir, logger)
		return srv.Serve(ctx)
	}
	return nil
}

func loadConfig(path string) (*capture.Config, error) {
	if path == "" {
		return &capture.Config{}, nil
	}
	return capture.LoadConfigFile(path)
}

func applyFlags(cfg *capture.Config, f flags) {
	if f.baseURL != "" {
		cfg.BaseURL = f.baseURL
	}
	if f.outDir != "" {
		cfg.OutDir = f.outDir
	}
	if f.provider != "" {
		cfg.Provider = f.provider
	}
	if f.gifMS > 0 {
		cfg.GifMS = f.gifMS
	}
	if f.targetSeconds > 0 {
		cfg.TargetSeconds = f.targetSeconds
	}
	if f.scenarios != "" {
		cfg.Scenarios = strings.Split(f.scenarios, ",")
	}
	if f.keepTemp {
		cfg.KeepTemp = true
	}
	if f.preview {
		cfg.Preview.Enabled = true
	}
	if f.previewAddr != "" {
		cfg.Preview.Addr = f.previewAddr
	}
}
