// Package reel stitches per-scenario demo assets into combined reels: a
// multi-scenario GIF with optional separator holds, and a concatenated
// video via ffmpeg.
package reel

import (
	"context"
	"fmt"
	"image/gif"
	"log/slog"
	"os"

	"github.com/velocityhq/demoreel/capture/internal/ffmpeg"
	"github.com/velocityhq/demoreel/capture/internal/gifenc"
)

// ErrNoSources means none of the requested clips exist on disk.
var ErrNoSources = fmt.Errorf("reel: no source clips found")

// StitchGIFs concatenates the GIF animations at sources into one looping
// animation at outPath. Per-frame delays from each source are preserved,
// so clips of different pacing keep their pacing in the reel.
//
// separatorFrames > 0 repeats each clip's last frame that many times
// before the next clip starts, as a visual breather. No separator is
// appended after the final clip. Missing sources are skipped; if none
// exist, ErrNoSources is returned and no file is written.
func StitchGIFs(outPath string, sources []string, defaultDelayMS, separatorFrames int) error {
	defaultDelay := gifenc.Centiseconds(defaultDelayMS)

	out := &gif.GIF{LoopCount: 0}
	present := 0
	for _, src := range sources {
		if _, err := os.Stat(src); err != nil {
			continue
		}
		present++
	}
	if present == 0 {
		return ErrNoSources
	}

	remaining := present
	for _, src := range sources {
		if _, err := os.Stat(src); err != nil {
			continue
		}
		g, err := gifenc.Decode(src)
		if err != nil {
			return err
		}
		for i, frame := range g.Image {
			delay := defaultDelay
			if i < len(g.Delay) && g.Delay[i] > 0 {
				delay = g.Delay[i]
			}
			out.Image = append(out.Image, frame)
			out.Delay = append(out.Delay, delay)
		}
		remaining--
		if separatorFrames > 0 && remaining > 0 && len(out.Image) > 0 {
			last := out.Image[len(out.Image)-1]
			for i := 0; i < separatorFrames; i++ {
				out.Image = append(out.Image, last)
				out.Delay = append(out.Delay, defaultDelay)
			}
		}
	}

	return gifenc.Encode(outPath, out)
}

// StitchVideos concatenates the video clips at sources into outPath via
// ffmpeg, then derives an MP4 sibling at mp4Path. Missing clips are
// skipped. Returns ErrNoSources when no clip exists, and
// ffmpeg.ErrUnavailable when the binary is absent; both are non-fatal to
// a capture run.
func StitchVideos(ctx context.Context, tc *ffmpeg.Transcoder, outPath, mp4Path string, sources []string, logger *slog.Logger) error {
	available := sources[:0:0]
	for _, src := range sources {
		if _, err := os.Stat(src); err == nil {
			available = append(available, src)
		}
	}
	if len(available) == 0 {
		return ErrNoSources
	}

	if err := tc.Concat(ctx, available, outPath); err != nil {
		return err
	}
	if err := tc.ToMP4(ctx, outPath, mp4Path); err != nil {
		logger.Warn("reel: mp4 derivation failed", "output", mp4Path, "error", err)
	}
	return nil
}
