package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// fallbackFPS is assumed when a spool is too short to estimate a rate
// from screencast timestamps.
const fallbackFPS = 10.0

// Spool describes a completed raw-video frame spool.
type Spool struct {
	Dir    string
	Frames int
	FPS    float64
}

// Recorder drains CDP screencast frames into numbered PNG files. Chrome
// only emits screencast frames while the page visually changes, so the
// spool's effective frame rate is estimated from frame metadata
// timestamps rather than assumed.
type Recorder struct {
	page   *rod.Page
	dir    string
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	count   int
	firstTS float64
	lastTS  float64
}

// StartRecorder begins a screencast on page, spooling frames to dir.
func StartRecorder(page *rod.Page, dir string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("browser: recorder dir: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Recorder{
		page:   page,
		dir:    dir,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	eventPage := page.Context(ctx)
	go func() {
		defer close(r.done)
		eventPage.EachEvent(func(e *proto.PageScreencastFrame) {
			r.onFrame(eventPage, e)
		})()
	}()

	if err := screencastRequest().Call(page); err != nil {
		cancel()
		<-r.done
		return nil, fmt.Errorf("browser: start screencast: %w", err)
	}

	return r, nil
}

// screencastRequest asks for every frame as PNG. EveryNthFrame is an
// optional CDP field, hence the pointer.
func screencastRequest() *proto.PageStartScreencast {
	nth := 1
	return &proto.PageStartScreencast{
		Format:        proto.PageStartScreencastFormatPng,
		EveryNthFrame: &nth,
	}
}

func (r *Recorder) onFrame(page *rod.Page, e *proto.PageScreencastFrame) {
	// Ack immediately or Chrome stops sending frames.
	_ = proto.PageScreencastFrameAck{SessionID: e.SessionID}.Call(page)

	r.mu.Lock()
	defer r.mu.Unlock()

	path := filepath.Join(r.dir, fmt.Sprintf("%06d.png", r.count))
	if err := os.WriteFile(path, e.Data, 0o644); err != nil {
		return
	}
	if e.Metadata != nil {
		ts := float64(e.Metadata.Timestamp)
		if r.count == 0 {
			r.firstTS = ts
		}
		r.lastTS = ts
	}
	r.count++
}

// Stop ends the screencast and returns the spool summary.
func (r *Recorder) Stop() *Spool {
	_ = proto.PageStopScreencast{}.Call(r.page)
	r.cancel()
	<-r.done

	r.mu.Lock()
	defer r.mu.Unlock()

	return &Spool{Dir: r.dir, Frames: r.count, FPS: estimateFPS(r.count, r.firstTS, r.lastTS)}
}

// estimateFPS derives the spool's effective frame rate from the first and
// last screencast timestamps. Spools too short to measure get fallbackFPS.
func estimateFPS(count int, firstTS, lastTS float64) float64 {
	if count > 1 && lastTS > firstTS {
		return float64(count-1) / (lastTS - firstTS)
	}
	return fallbackFPS
}
