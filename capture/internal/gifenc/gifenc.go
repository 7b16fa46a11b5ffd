// Package gifenc writes looping multi-frame GIF animations from captured
// PNG frames and reads them back for stitching.
package gifenc

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"os"
	"runtime"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// Options controls encoding.
type Options struct {
	// DelayMS is the display duration of every frame in milliseconds.
	DelayMS int

	// Scale shrinks frames before palettization (1.0 = source size).
	// Screenshot-sized GIFs get heavy fast; 0 means 1.0.
	Scale float64

	// Workers bounds parallel palettization. 0 means GOMAXPROCS.
	Workers int
}

// EncodeFiles assembles the PNG files at framePaths into one infinitely
// looping GIF at outPath. Repeated entries in framePaths are valid and
// cheap: each unique file is decoded and palettized exactly once.
func EncodeFiles(outPath string, framePaths []string, opts Options) error {
	if len(framePaths) == 0 {
		return fmt.Errorf("gifenc: no frames for %s", outPath)
	}
	if opts.Scale <= 0 {
		opts.Scale = 1.0
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	// Unique paths in first-seen order.
	uniq := make([]string, 0, len(framePaths))
	seen := make(map[string]int, len(framePaths))
	for _, p := range framePaths {
		if _, ok := seen[p]; !ok {
			seen[p] = len(uniq)
			uniq = append(uniq, p)
		}
	}

	palettized := make([]*image.Paletted, len(uniq))
	var eg errgroup.Group
	eg.SetLimit(opts.Workers)
	for i, p := range uniq {
		i, p := i, p // per-iteration copies for Go <1.22 loop semantics
		eg.Go(func() error {
			img, err := loadPNG(p)
			if err != nil {
				return err
			}
			palettized[i] = palettize(img, opts.Scale)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	delay := Centiseconds(opts.DelayMS)
	out := &gif.GIF{LoopCount: 0}
	for _, p := range framePaths {
		out.Image = append(out.Image, palettized[seen[p]])
		out.Delay = append(out.Delay, delay)
	}

	return Encode(outPath, out)
}

// Encode writes g to outPath.
func Encode(outPath string, g *gif.GIF) error {
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("gifenc: create %s: %w", outPath, err)
	}
	if err := gif.EncodeAll(f, g); err != nil {
		f.Close()
		return fmt.Errorf("gifenc: encode %s: %w", outPath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("gifenc: close %s: %w", outPath, err)
	}
	return nil
}

// Decode reads a full GIF animation. Frames produced by this package are
// full-canvas; decoding preserves each frame's delay for stitching.
func Decode(path string) (*gif.GIF, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gifenc: open %s: %w", path, err)
	}
	defer f.Close()

	g, err := gif.DecodeAll(f)
	if err != nil {
		return nil, fmt.Errorf("gifenc: decode %s: %w", path, err)
	}
	return g, nil
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gifenc: open frame %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("gifenc: decode frame %s: %w", path, err)
	}
	return img, nil
}

// palettize optionally downscales img and dithers it onto the 8-bit
// Plan9 palette.
func palettize(img image.Image, scale float64) *image.Paletted {
	b := img.Bounds()
	if scale != 1.0 {
		w := int(float64(b.Dx()) * scale)
		h := int(float64(b.Dy()) * scale)
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		scaled := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, b, xdraw.Src, nil)
		img = scaled
		b = scaled.Bounds()
	}

	p := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette.Plan9)
	draw.FloydSteinberg.Draw(p, p.Bounds(), img, b.Min)
	return p
}

// Centiseconds converts a millisecond delay to GIF delay units, with a
// floor of 1 (a zero GIF delay means "as fast as possible" in most
// viewers). Exposed for callers that splice extra frames into an
// existing animation.
func Centiseconds(ms int) int {
	cs := ms / 10
	if cs < 1 {
		cs = 1
	}
	return cs
}
