// Package capture drives a headless browser through scripted product
// scenarios and renders the results into publishable demo assets: one
// GIF (and WebM/MP4 when ffmpeg is present) per scenario, plus stitched
// multi-scenario reels.
package capture

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/velocityhq/demoreel/capture/internal/browser"
	"github.com/velocityhq/demoreel/capture/internal/discovery"
	"github.com/velocityhq/demoreel/capture/internal/ffmpeg"
	"github.com/velocityhq/demoreel/capture/internal/frames"
	"github.com/velocityhq/demoreel/capture/internal/gifenc"
	"github.com/velocityhq/demoreel/capture/internal/preflight"
	"github.com/velocityhq/demoreel/capture/internal/reel"
	"github.com/velocityhq/demoreel/capture/internal/script"
)

const (
	// sessionIDCount is how many recent session IDs discovery resolves;
	// the journeys use the first, compare needs two, the rest is slack
	// for sessions that disappear mid-run.
	sessionIDCount = 4

	// separatorHoldFrames pads the stitched reel between chapters.
	separatorHoldFrames = 6
)

// Reel asset names. The back-to-back variant runs chapters with no gap;
// the stitched variant holds the last frame between them.
const (
	reelBackToBackGIF  = "demo-back-to-back.gif"
	reelStitchedGIF    = "demo-stitched.gif"
	reelBackToBackWebM = "demo-back-to-back.webm"
	reelBackToBackMP4  = "demo-back-to-back.mp4"
)

// Capturer runs the demo suite against one live target app instance.
type Capturer struct {
	cfg       *Config
	logger    *slog.Logger
	scenarios []Scenario
}

// New creates a Capturer. cfg must have had ApplyDefaults and Validate
// called; nil logger means slog.Default.
func New(cfg *Config, logger *slog.Logger) (*Capturer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	scenarios, err := SelectScenarios(DefaultScenarios(), cfg.Scenarios)
	if err != nil {
		return nil, err
	}
	return &Capturer{cfg: cfg, logger: logger, scenarios: scenarios}, nil
}

// Run executes every selected scenario in order, then builds the
// combined reels and removes the transient spool directories. Any
// scenario failure aborts the run with a ScenarioError.
func (c *Capturer) Run(ctx context.Context) error {
	cfg := c.cfg
	log := c.logger

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("capture: output dir: %w", err)
	}
	preflight.Check(log, cfg.OutDir)

	disc := discovery.New(cfg.BaseURL, discovery.WithLogger(log))
	if err := disc.EnsureReachable(ctx); err != nil {
		return err
	}
	routes := disc.Resolve(ctx, sessionIDCount)
	log.Info("capture: routes resolved",
		"workflow", routes.WorkflowRoute,
		"sessions", len(routes.SessionIDs))

	tc := ffmpeg.Find(log)

	mgr := browser.NewManager(browser.Config{
		RemoteURL:      cfg.Browser.Remote,
		Stealth:        cfg.Browser.Stealth,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		Logger:         log,
	})
	if err := mgr.Start(); err != nil {
		return err
	}
	defer mgr.Close()

	for _, sc := range c.scenarios {
		log.Info("capture: scenario start", "key", sc.Key, "title", sc.Title)
		if err := c.runScenario(ctx, mgr, tc, routes, sc); err != nil {
			return &ScenarioError{Key: sc.Key, Err: err}
		}
		log.Info("capture: scenario done", "key", sc.Key)
	}

	if err := c.buildReels(ctx, tc); err != nil {
		return err
	}

	if !cfg.KeepTemp {
		for _, sub := range []string{"_frames", "_raw-video"} {
			if err := os.RemoveAll(filepath.Join(cfg.OutDir, sub)); err != nil {
				log.Warn("capture: temp cleanup", "dir", sub, "error", err)
			}
		}
	}

	log.Info("capture: wrote assets", "dir", cfg.OutDir)
	return nil
}

// runScenario captures one scenario end to end: isolated session,
// opening beat, scripted interactions, closing beat, then resample and
// encode.
func (c *Capturer) runScenario(ctx context.Context, mgr *browser.Manager, tc *ffmpeg.Transcoder, routes discovery.Routes, sc Scenario) error {
	cfg := c.cfg
	origin := strings.TrimRight(cfg.BaseURL, "/")
	framesDir := filepath.Join(cfg.OutDir, "_frames", sc.Key)
	rawDir := filepath.Join(cfg.OutDir, "_raw-video", sc.Key)

	session, err := mgr.OpenSession(ctx, browser.SessionOptions{
		Provider:  cfg.Provider,
		RecordDir: rawDir,
	})
	if err != nil {
		return err
	}
	defer session.Close()

	sink, err := frames.NewSink(framesDir, session)
	if err != nil {
		return err
	}

	navCtx, cancel := context.WithTimeout(ctx, cfg.Browser.NavTimeout)
	err = session.Navigate(navCtx, origin+sc.Route)
	cancel()
	if err != nil {
		return err
	}

	// Opening beat: let the route settle, park the pointer, hold.
	run := script.NewCtx(session.Page, sink.Capture, routes, origin,
		cfg.Browser.ViewportWidth, cfg.Browser.ViewportHeight, cfg.Browser.NavTimeout)
	run.Settle(850)
	run.MouseMove(140, 120, 1)
	run.Settle(60)
	run.Hold(6)
	if err := run.Err(); err != nil {
		return err
	}

	if err := sc.Runner(run); err != nil {
		return err
	}

	// Closing beat.
	run.Settle(300)
	run.Hold(5)
	if err := run.Err(); err != nil {
		return err
	}

	spool := session.Drain()
	session.Close()

	target := frames.TargetCount(cfg.TargetSeconds, cfg.GifMS)
	seq, err := frames.Resample(sink.Sequence(), target)
	if err != nil {
		return err
	}
	paths := make([]string, len(seq))
	for i, f := range seq {
		paths[i] = f.Path
	}

	gifPath := filepath.Join(cfg.OutDir, sc.Key+".gif")
	if err := gifenc.EncodeFiles(gifPath, paths, gifenc.Options{
		DelayMS: cfg.GifMS,
		Scale:   cfg.GifScale,
	}); err != nil {
		return err
	}

	c.encodeVideo(ctx, tc, spool, sc.Key)
	return nil
}

// encodeVideo turns a screencast spool into <key>.webm and <key>.mp4.
// Video output is best-effort: the GIF is the primary asset.
func (c *Capturer) encodeVideo(ctx context.Context, tc *ffmpeg.Transcoder, spool *browser.Spool, key string) {
	if spool == nil || spool.Frames == 0 || !tc.Available() {
		return
	}

	webmPath := filepath.Join(c.cfg.OutDir, key+".webm")
	if err := tc.EncodeFrameDir(ctx, spool.Dir, spool.FPS, webmPath); err != nil {
		c.logger.Warn("capture: webm encode failed", "key", key, "error", err)
		return
	}
	mp4Path := filepath.Join(c.cfg.OutDir, key+".mp4")
	if err := tc.ToMP4(ctx, webmPath, mp4Path); err != nil {
		c.logger.Warn("capture: mp4 derivation failed", "key", key, "error", err)
	}
}

// buildReels stitches per-scenario assets into the combined reels.
func (c *Capturer) buildReels(ctx context.Context, tc *ffmpeg.Transcoder) error {
	cfg := c.cfg
	log := c.logger

	gifSources := make([]string, len(c.scenarios))
	webmSources := make([]string, len(c.scenarios))
	for i, sc := range c.scenarios {
		gifSources[i] = filepath.Join(cfg.OutDir, sc.Key+".gif")
		webmSources[i] = filepath.Join(cfg.OutDir, sc.Key+".webm")
	}

	backToBack := filepath.Join(cfg.OutDir, reelBackToBackGIF)
	if err := reel.StitchGIFs(backToBack, gifSources, cfg.GifMS, 0); err != nil {
		return fmt.Errorf("capture: reel %s: %w", reelBackToBackGIF, err)
	}
	stitched := filepath.Join(cfg.OutDir, reelStitchedGIF)
	if err := reel.StitchGIFs(stitched, gifSources, cfg.GifMS, separatorHoldFrames); err != nil {
		return fmt.Errorf("capture: reel %s: %w", reelStitchedGIF, err)
	}

	err := reel.StitchVideos(ctx,
		tc,
		filepath.Join(cfg.OutDir, reelBackToBackWebM),
		filepath.Join(cfg.OutDir, reelBackToBackMP4),
		webmSources,
		log)
	if err != nil {
		// Video reels degrade, never abort: ffmpeg may be absent or
		// the per-scenario clips may have been skipped.
		log.Warn("capture: video reel skipped", "error", err)
	}
	return nil
}
