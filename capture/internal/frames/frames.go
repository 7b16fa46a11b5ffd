// Package frames accumulates ordered screenshot frames for one scenario
// capture and resamples the sequence to a fixed target length.
package frames

import (
	"fmt"
	"os"
	"path/filepath"
)

// Frame is one still image on disk, tagged with its capture sequence index.
// The same Frame may appear multiple times in a sequence; repeated entries
// hold a visual state across several animation ticks.
type Frame struct {
	Path  string
	Index int
}

// Shooter captures the current visual state into an image file.
type Shooter interface {
	Screenshot(path string) error
}

// Sink collects ordered frames for a single scenario run. One image file is
// written per unique capture regardless of the duplication count.
type Sink struct {
	dir     string
	shooter Shooter
	seq     []Frame
	next    int
}

// NewSink creates a Sink writing numbered PNG files under dir.
func NewSink(dir string, shooter Shooter) (*Sink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("frames: create dir: %w", err)
	}
	return &Sink{dir: dir, shooter: shooter}, nil
}

// Capture screenshots the current state as one new frame and appends dup
// references to it. The sequence index advances by exactly 1 per call.
// dup values below 1 are treated as 1.
func (s *Sink) Capture(dup int) error {
	path := filepath.Join(s.dir, fmt.Sprintf("%04d.png", s.next))
	if err := s.shooter.Screenshot(path); err != nil {
		return fmt.Errorf("frames: capture %d: %w", s.next, err)
	}
	f := Frame{Path: path, Index: s.next}
	if dup < 1 {
		dup = 1
	}
	for i := 0; i < dup; i++ {
		s.seq = append(s.seq, f)
	}
	s.next++
	return nil
}

// Sequence returns the ordered frame sequence captured so far. The returned
// slice is owned by the Sink; callers hand it to Resample, not mutate it.
func (s *Sink) Sequence() []Frame {
	return s.seq
}

// Len reports the current sequence length including duplicates.
func (s *Sink) Len() int { return len(s.seq) }
