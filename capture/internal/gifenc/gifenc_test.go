package gifenc

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, dir, name string, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, c)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create png: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return path
}

func TestEncodeFiles_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	a := writeTestPNG(t, dir, "a.png", color.RGBA{R: 250, A: 255})
	b := writeTestPNG(t, dir, "b.png", color.RGBA{B: 250, A: 255})

	out := filepath.Join(dir, "out.gif")
	// a held twice, then b: three ticks, two unique images.
	if err := EncodeFiles(out, []string{a, a, b}, Options{DelayMS: 150}); err != nil {
		t.Fatalf("encode: %v", err)
	}

	g, err := Decode(out)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(g.Image) != 3 {
		t.Fatalf("got %d frames, want 3", len(g.Image))
	}
	if g.LoopCount != 0 {
		t.Fatalf("got loop count %d, want 0 (infinite)", g.LoopCount)
	}
	for i, d := range g.Delay {
		if d != 15 {
			t.Fatalf("frame %d delay = %d, want 15 (150ms)", i, d)
		}
	}
}

func TestEncodeFiles_Scale(t *testing.T) {
	dir := t.TempDir()
	a := writeTestPNG(t, dir, "a.png", color.RGBA{G: 200, A: 255})

	out := filepath.Join(dir, "scaled.gif")
	if err := EncodeFiles(out, []string{a}, Options{DelayMS: 100, Scale: 0.5}); err != nil {
		t.Fatalf("encode: %v", err)
	}

	g, err := Decode(out)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	bounds := g.Image[0].Bounds()
	if bounds.Dx() != 8 || bounds.Dy() != 5 {
		t.Fatalf("got %dx%d, want 8x5", bounds.Dx(), bounds.Dy())
	}
}

func TestEncodeFiles_Empty(t *testing.T) {
	if err := EncodeFiles(filepath.Join(t.TempDir(), "x.gif"), nil, Options{}); err == nil {
		t.Fatal("expected error for empty frame list")
	}
}

func TestCentiseconds(t *testing.T) {
	if got := Centiseconds(150); got != 15 {
		t.Fatalf("got %d, want 15", got)
	}
	if got := Centiseconds(5); got != 1 {
		t.Fatalf("got %d, want floor of 1", got)
	}
}
