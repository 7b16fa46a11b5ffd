package frames

import (
	"errors"
	"math"
)

// ErrNoFrames is returned when resampling is invoked on an empty sequence.
// An animation needs at least one frame; hitting this signals an orchestrator
// defect, not environmental flakiness.
var ErrNoFrames = errors.New("frames: no frames captured")

// Resample converts seq to exactly target frames.
//
// Shrinking selects frames by nearest-index mapping so the first and last
// captured frames survive exactly and the rest are distributed
// proportionally. Growing pads by repeating the last frame (freeze-frame);
// no synthetic intermediate visual state exists to interpolate.
func Resample(seq []Frame, target int) ([]Frame, error) {
	if len(seq) == 0 {
		return nil, ErrNoFrames
	}
	if target < 1 {
		target = 1
	}
	n := len(seq)

	switch {
	case n > target:
		if target == 1 {
			return []Frame{seq[n-1]}, nil
		}
		out := make([]Frame, 0, target)
		last := float64(n - 1)
		for i := 0; i < target; i++ {
			idx := int(math.Round(float64(i) * last / float64(target-1)))
			out = append(out, seq[idx])
		}
		return out, nil
	case n < target:
		out := make([]Frame, 0, target)
		out = append(out, seq...)
		for len(out) < target {
			out = append(out, seq[n-1])
		}
		return out, nil
	default:
		return seq, nil
	}
}

// TargetCount derives the frame budget for a clip: targetSeconds of playback
// at frameIntervalMS per frame, rounded up, never below 1.
func TargetCount(targetSeconds float64, frameIntervalMS int) int {
	if frameIntervalMS <= 0 {
		return 1
	}
	t := int(math.Ceil(targetSeconds * 1000 / float64(frameIntervalMS)))
	if t < 1 {
		t = 1
	}
	return t
}
