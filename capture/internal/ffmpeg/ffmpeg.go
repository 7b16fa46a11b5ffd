// Package ffmpeg shells out to the external ffmpeg binary for video
// encoding, transcoding, and concatenation. ffmpeg is optional: a missing
// binary degrades the run (video assets skipped) without failing it, so
// callers must check Available before invoking the other methods.
package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strconv"
)

// ErrUnavailable is returned when a method is called without an ffmpeg
// binary on PATH.
var ErrUnavailable = errors.New("ffmpeg: binary not found")

// Transcoder wraps one resolved ffmpeg binary.
type Transcoder struct {
	bin    string
	logger *slog.Logger
}

// Find locates ffmpeg on PATH. The returned Transcoder is usable either
// way; Available reports whether the binary was found.
func Find(logger *slog.Logger) *Transcoder {
	if logger == nil {
		logger = slog.Default()
	}
	bin, err := exec.LookPath("ffmpeg")
	if err != nil {
		logger.Info("ffmpeg: not found, video assets will be skipped")
		return &Transcoder{logger: logger}
	}
	return &Transcoder{bin: bin, logger: logger}
}

// Available reports whether ffmpeg can be invoked.
func (t *Transcoder) Available() bool { return t.bin != "" }

// EncodeFrameDir encodes a spool of numbered PNG frames
// (<dir>/000000.png, 000001.png, ...) into a VP9 WebM at fps.
func (t *Transcoder) EncodeFrameDir(ctx context.Context, dir string, fps float64, outPath string) error {
	if !t.Available() {
		return ErrUnavailable
	}
	args := []string{
		"-y",
		"-framerate", strconv.FormatFloat(fps, 'f', 3, 64),
		"-i", filepath.Join(dir, "%06d.png"),
		"-c:v", "libvpx-vp9",
		"-b:v", "0",
		"-crf", "32",
		"-pix_fmt", "yuv420p",
		outPath,
	}
	return t.run(ctx, args)
}

// ToMP4 transcodes a video into a web-compatible MP4.
func (t *Transcoder) ToMP4(ctx context.Context, inPath, outPath string) error {
	if !t.Available() {
		return ErrUnavailable
	}
	args := []string{
		"-y",
		"-i", inPath,
		"-movflags", "+faststart",
		"-pix_fmt", "yuv420p",
		outPath,
	}
	return t.run(ctx, args)
}

// Concat joins the input videos end-to-end via the concat filter graph,
// re-encoding the video stream. Inputs must share a resolution.
func (t *Transcoder) Concat(ctx context.Context, inputs []string, outPath string) error {
	if !t.Available() {
		return ErrUnavailable
	}
	if len(inputs) == 0 {
		return fmt.Errorf("ffmpeg: concat: no inputs")
	}
	return t.run(ctx, concatArgs(inputs, outPath))
}

// concatArgs builds the N-way concat invocation:
// [0:v][1:v]...concat=n=N:v=1:a=0[v] mapped to the output.
func concatArgs(inputs []string, outPath string) []string {
	args := []string{"-y"}
	for _, in := range inputs {
		args = append(args, "-i", in)
	}

	graph := ""
	for i := range inputs {
		graph += fmt.Sprintf("[%d:v]", i)
	}
	graph += fmt.Sprintf("concat=n=%d:v=1:a=0[v]", len(inputs))

	args = append(args,
		"-filter_complex", graph,
		"-map", "[v]",
		"-pix_fmt", "yuv420p",
		outPath,
	)
	return args
}

func (t *Transcoder) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, t.bin, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, string(out))
	}
	t.logger.Debug("ffmpeg: done", "args", args)
	return nil
}
