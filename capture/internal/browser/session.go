package browser

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

//go:embed cursor.js
var cursorJS string

// Session is one scenario's isolated browsing context: fresh incognito
// context, fixed viewport, deterministic overlays injected before the
// first navigation, and an optional raw screencast recording.
type Session struct {
	Page *rod.Page

	incognito *rod.Browser
	recorder  *Recorder
	logger    interface {
		Warn(msg string, args ...any)
	}
}

// SessionOptions configure one capture session.
type SessionOptions struct {
	// Provider is seeded into the app's persisted client-side state so
	// the UI opens pre-scoped without a visible settings dance.
	Provider string

	// RecordDir enables the screencast recorder, spooling raw frames
	// under this directory. Empty disables recording.
	RecordDir string
}

// OpenSession creates an isolated context with the capture viewport,
// injects the deterministic overlays, and starts the recorder. The page
// has not navigated anywhere yet; overlays are therefore present from the
// first frame of any route the scenario visits.
func (m *Manager) OpenSession(ctx context.Context, opts SessionOptions) (*Session, error) {
	if m.browser == nil {
		return nil, fmt.Errorf("browser: manager not started")
	}

	incog, err := m.browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("browser: incognito context: %w", err)
	}

	var page *rod.Page
	if m.cfg.Stealth {
		page, err = stealth.Page(incog)
	} else {
		page, err = incog.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		return nil, fmt.Errorf("browser: create page: %w", err)
	}

	s := &Session{Page: page, incognito: incog, logger: m.cfg.Logger}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             m.cfg.ViewportWidth,
		Height:            m.cfg.ViewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		s.Close()
		return nil, fmt.Errorf("browser: set viewport: %w", err)
	}

	for _, script := range []string{providerScript(opts.Provider), cursorJS} {
		if script == "" {
			continue
		}
		if _, err := (proto.PageAddScriptToEvaluateOnNewDocument{Source: script}).Call(page); err != nil {
			s.Close()
			return nil, fmt.Errorf("browser: init script: %w", err)
		}
	}

	if opts.RecordDir != "" {
		rec, err := StartRecorder(page, opts.RecordDir)
		if err != nil {
			// Recording is best-effort; captures still produce GIFs.
			m.cfg.Logger.Warn("browser: screencast recorder failed", "error", err)
		} else {
			s.recorder = rec
		}
	}

	return s, nil
}

// Navigate loads the URL and blocks until the page settles or ctx
// expires. Callers bound ctx with the scenario's navigation timeout.
func (s *Session) Navigate(ctx context.Context, url string) error {
	page := s.Page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("browser: wait load %s: %w", url, err)
	}
	return nil
}

// Screenshot captures the current viewport into a PNG file. Satisfies the
// frame sink's Shooter contract.
func (s *Session) Screenshot(path string) error {
	data, err := s.Page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return fmt.Errorf("browser: screenshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("browser: write screenshot: %w", err)
	}
	return nil
}

// Drain stops the recorder and returns the raw video spool, if any.
// Must be called before Close: teardown discards the live screencast.
func (s *Session) Drain() *Spool {
	if s.recorder == nil {
		return nil
	}
	spool := s.recorder.Stop()
	s.recorder = nil
	return spool
}

// Close tears down the page and its incognito context. Always safe to
// call, including after a scenario failure.
func (s *Session) Close() {
	if s.recorder != nil {
		s.recorder.Stop()
		s.recorder = nil
	}
	if s.Page != nil {
		if err := s.Page.Close(); err != nil && s.logger != nil {
			s.logger.Warn("browser: page close", "error", err)
		}
		s.Page = nil
	}
	if s.incognito != nil && s.incognito.BrowserContextID != "" {
		err := proto.TargetDisposeBrowserContext{
			BrowserContextID: s.incognito.BrowserContextID,
		}.Call(s.incognito)
		if err != nil && s.logger != nil {
			s.logger.Warn("browser: dispose context", "error", err)
		}
		s.incognito = nil
	}
}

// providerScript seeds the provider scope into localStorage before the
// app's first script runs.
func providerScript(provider string) string {
	if provider == "" {
		return ""
	}
	payload := fmt.Sprintf(`{ "state": { "providerScope": %q }, "version": 1 }`, provider)
	return fmt.Sprintf(`window.localStorage.setItem('provider-scope', %q);`, payload)
}
