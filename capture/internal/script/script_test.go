package script

import (
	"errors"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/velocityhq/demoreel/capture/internal/discovery"
)

func TestQuadBounds(t *testing.T) {
	quads := []proto.DOMQuad{
		{10, 20, 110, 20, 110, 60, 10, 60},
	}
	b := quadBounds(quads)
	if b.X != 10 || b.Y != 20 || b.W != 100 || b.H != 40 {
		t.Fatalf("bounds = %+v", b)
	}
}

func TestQuadBoundsMultipleQuads(t *testing.T) {
	// A wrapped inline element reports one quad per line box; the
	// bounding box must cover all of them.
	quads := []proto.DOMQuad{
		{100, 10, 200, 10, 200, 30, 100, 30},
		{20, 30, 80, 30, 80, 50, 20, 50},
	}
	b := quadBounds(quads)
	if b.X != 20 || b.Y != 10 {
		t.Fatalf("origin = (%v, %v), want (20, 10)", b.X, b.Y)
	}
	if b.W != 180 || b.H != 40 {
		t.Fatalf("size = (%v, %v), want (180, 40)", b.W, b.H)
	}
}

func TestClickPoint(t *testing.T) {
	pt := clickPoint(box{X: 100, Y: 40, W: 60, H: 20})
	if pt.X != 130 || pt.Y != 50 {
		t.Fatalf("clickPoint = (%v, %v), want box center (130, 50)", pt.X, pt.Y)
	}
}

func TestQuadBoundsEmpty(t *testing.T) {
	// An element with no content quads (display:none) yields a zero box;
	// click primitives treat that as "no layout" and skip without
	// synthesizing any pointer input.
	b := quadBounds(nil)
	if b != (box{}) {
		t.Fatalf("bounds of no quads = %+v, want zero box", b)
	}
}

func TestInViewport(t *testing.T) {
	tests := []struct {
		name string
		b    box
		want bool
	}{
		{"fully inside", box{X: 100, Y: 100, W: 50, H: 50}, true},
		{"overlapping left edge", box{X: -20, Y: 100, W: 50, H: 50}, true},
		{"overlapping bottom edge", box{X: 100, Y: 880, W: 50, H: 50}, true},
		{"entirely left of viewport", box{X: -200, Y: 100, W: 50, H: 50}, false},
		{"entirely above viewport", box{X: 100, Y: -200, W: 50, H: 50}, false},
		{"beyond right edge", box{X: 1700, Y: 100, W: 50, H: 50}, false},
		{"beyond bottom edge", box{X: 100, Y: 950, W: 50, H: 50}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := inViewport(tc.b, 1600, 900); got != tc.want {
				t.Fatalf("inViewport(%+v) = %v, want %v", tc.b, got, tc.want)
			}
		})
	}
}

func TestCtxStickyError(t *testing.T) {
	holdErr := errors.New("sink full")
	calls := 0
	hold := func(n int) error {
		calls++
		return holdErr
	}
	c := NewCtx(nil, hold, discovery.Routes{}, "http://127.0.0.1:3000", 1600, 900, time.Second)

	c.Hold(3)
	if !errors.Is(c.Err(), holdErr) {
		t.Fatalf("Err() = %v, want %v", c.Err(), holdErr)
	}

	// After the first failure every primitive is a no-op.
	c.Hold(2)
	if calls != 1 {
		t.Fatalf("hold called %d times after failure, want 1", calls)
	}
	if el := c.Find("button"); el != nil {
		t.Fatal("Find returned element after failure")
	}
	if ok := c.HumanClick(nil, 1); ok {
		t.Fatal("HumanClick reported success after failure")
	}
}

func TestCtxFailf(t *testing.T) {
	c := NewCtx(nil, func(int) error { return nil }, discovery.Routes{}, "", 1600, 900, time.Second)
	c.Failf("script: surface %q never appeared", "console")
	if c.Err() == nil {
		t.Fatal("Failf did not record an error")
	}

	// First error wins.
	c.Failf("second")
	if got := c.Err().Error(); got != `script: surface "console" never appeared` {
		t.Fatalf("Err() = %q", got)
	}
}

func TestHumanClickNilElement(t *testing.T) {
	c := NewCtx(nil, func(int) error { return nil }, discovery.Routes{}, "", 1600, 900, time.Second)
	if c.HumanClick(nil, 2) {
		t.Fatal("HumanClick(nil) reported success")
	}
	if c.Err() != nil {
		t.Fatalf("nil element must be skipped silently, got %v", c.Err())
	}
}

func TestViewport(t *testing.T) {
	c := NewCtx(nil, func(int) error { return nil }, discovery.Routes{}, "", 1280, 720, time.Second)
	w, h := c.Viewport()
	if w != 1280 || h != 720 {
		t.Fatalf("Viewport() = (%d, %d)", w, h)
	}
}
