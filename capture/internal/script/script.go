// Package script provides the step primitives scenario runners are built
// from, and the runners themselves. Primitives are defensive: optional
// elements that are missing or out of view are skipped silently, so a
// scenario degrades to a shorter narrative instead of failing when the UI
// under capture shifts.
package script

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"github.com/velocityhq/demoreel/capture/internal/discovery"
)

// Runner is one scenario's scripted interaction sequence.
type Runner func(*Ctx) error

// Ctx is the execution context handed to a Runner: the live page, the
// frame-sink hold callback, the resolved route table, and the step
// primitives. Errors are sticky: after the first failure every primitive
// becomes a no-op and Err returns the cause, so runners read as straight
// narrative without per-step error plumbing.
type Ctx struct {
	page    *rod.Page
	hold    func(int) error
	routes  discovery.Routes
	origin  string
	vw, vh  int
	timeout time.Duration
	err     error
}

// NewCtx builds a runner context. origin is the target app's
// scheme://host, used for same-origin route jumps mid-scenario.
func NewCtx(page *rod.Page, hold func(int) error, routes discovery.Routes, origin string, vw, vh int, timeout time.Duration) *Ctx {
	return &Ctx{
		page:    page,
		hold:    hold,
		routes:  routes,
		origin:  origin,
		vw:      vw,
		vh:      vh,
		timeout: timeout,
	}
}

// Err returns the first failure, if any.
func (c *Ctx) Err() error { return c.err }

// Routes exposes the resolved route table.
func (c *Ctx) Routes() discovery.Routes { return c.routes }

func (c *Ctx) fail(err error) {
	if c.err == nil && err != nil {
		c.err = err
	}
}

// Hold captures the current frame n times, pausing the narrative on the
// current visual state.
func (c *Ctx) Hold(n int) {
	if c.err != nil {
		return
	}
	c.fail(c.hold(n))
}

// Settle pauses for a fixed duration so in-flight UI animation lands
// before the next beat.
func (c *Ctx) Settle(ms int) {
	if c.err != nil {
		return
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// WaitFor blocks until the selector appears. This is the required-element
// form: expiry of the wait budget fails the scenario.
func (c *Ctx) WaitFor(selector string) {
	if c.err != nil {
		return
	}
	_, err := c.page.Timeout(c.timeout).Element(selector)
	c.fail(err)
}

// WaitForText is WaitFor matching visible text (regex) inside selector.
func (c *Ctx) WaitForText(selector, text string) {
	if c.err != nil {
		return
	}
	_, err := c.page.Timeout(c.timeout).ElementR(selector, text)
	c.fail(err)
}

// TryWaitFor waits up to timeout for the selector and reports whether it
// appeared. Expiry is tolerated: optional UI elements are allowed to be
// absent.
func (c *Ctx) TryWaitFor(selector string, timeout time.Duration) bool {
	if c.err != nil {
		return false
	}
	_, err := c.page.Timeout(timeout).Element(selector)
	return err == nil
}

// TryWaitForText is TryWaitFor matching visible text inside selector.
func (c *Ctx) TryWaitForText(selector, text string, timeout time.Duration) bool {
	if c.err != nil {
		return false
	}
	_, err := c.page.Timeout(timeout).ElementR(selector, text)
	return err == nil
}

// Failf marks the scenario failed. Runners use it when a surface they
// cannot script without never appeared.
func (c *Ctx) Failf(format string, args ...any) {
	c.fail(fmt.Errorf(format, args...))
}

// Find returns the first match without waiting, or nil when absent.
func (c *Ctx) Find(selector string) *rod.Element {
	if c.err != nil {
		return nil
	}
	has, el, err := c.page.Has(selector)
	if err != nil || !has {
		return nil
	}
	return el
}

// FindText returns the first selector match whose text matches the regex,
// without waiting, or nil when absent.
func (c *Ctx) FindText(selector, regex string) *rod.Element {
	if c.err != nil {
		return nil
	}
	has, el, err := c.page.HasR(selector, regex)
	if err != nil || !has {
		return nil
	}
	return el
}

// FindAll returns all current matches without waiting.
func (c *Ctx) FindAll(selector string) rod.Elements {
	if c.err != nil {
		return nil
	}
	els, err := c.page.Elements(selector)
	if err != nil {
		return nil
	}
	return els
}

// FindAllX returns all current XPath matches without waiting. Used where
// a list must be filtered by visible text, which CSS cannot express.
func (c *Ctx) FindAllX(xpath string) rod.Elements {
	if c.err != nil {
		return nil
	}
	els, err := c.page.ElementsX(xpath)
	if err != nil {
		return nil
	}
	return els
}

// HumanClick moves the pointer to el's center in multiple steps, pauses,
// clicks, pauses again, then holds the resulting state. The staged motion
// keeps the recorded cursor continuous instead of teleporting. Skips
// silently (returning false) when el is nil or has no layout box:
// clicking at the previous pointer position could activate an unrelated
// control mid-scene.
func (c *Ctx) HumanClick(el *rod.Element, after int) bool {
	if c.err != nil || el == nil {
		return false
	}
	b, ok := c.elementBox(el)
	if !ok {
		return false
	}
	if err := c.page.Mouse.MoveLinear(clickPoint(b), 16); err != nil {
		c.fail(err)
		return false
	}
	c.Settle(80)
	if err := c.page.Mouse.Click(proto.InputMouseButtonLeft, 1); err != nil {
		c.fail(err)
		return false
	}
	c.Settle(130)
	c.Hold(after)
	return c.err == nil
}

// ClickIfInView clicks el only when its bounding box falls at least
// partially inside the viewport; off-screen elements are skipped
// silently.
func (c *Ctx) ClickIfInView(el *rod.Element, after int) bool {
	if c.err != nil || el == nil {
		return false
	}
	box, ok := c.elementBox(el)
	if !ok || !inViewport(box, c.vw, c.vh) {
		return false
	}
	return c.HumanClick(el, after)
}

// Fill replaces el's current value with text.
func (c *Ctx) Fill(el *rod.Element, text string) {
	if c.err != nil || el == nil {
		return
	}
	if err := el.SelectAllText(); err != nil {
		c.fail(err)
		return
	}
	c.fail(el.Input(text))
}

// TypeSlow types text rune by rune with a small delay, so keystrokes are
// visible across frames.
func (c *Ctx) TypeSlow(text string, delayMS int) {
	if c.err != nil {
		return
	}
	for _, r := range text {
		if err := c.page.InsertText(string(r)); err != nil {
			c.fail(err)
			return
		}
		time.Sleep(time.Duration(delayMS) * time.Millisecond)
	}
}

// PressEnd moves the caret to the end of the focused editor.
func (c *Ctx) PressEnd() {
	if c.err != nil {
		return
	}
	c.fail(c.page.Keyboard.Press(input.End))
}

// MouseMove glides the pointer to (x, y) in steps.
func (c *Ctx) MouseMove(x, y float64, steps int) {
	if c.err != nil {
		return
	}
	c.fail(c.page.Mouse.MoveLinear(proto.Point{X: x, Y: y}, steps))
}

// Wheel scrolls the wheel by (dx, dy) in a few increments.
func (c *Ctx) Wheel(dx, dy float64) {
	if c.err != nil {
		return
	}
	c.fail(c.page.Mouse.Scroll(dx, dy, 8))
}

// Drag performs an explicit press / move-in-steps / release so the
// recorded drag reads as continuous motion. Atomic drag primitives
// teleport the pointer, which looks broken on video.
func (c *Ctx) Drag(fromX, fromY, toX, toY float64, steps int) {
	if c.err != nil {
		return
	}
	m := c.page.Mouse
	if err := m.MoveLinear(proto.Point{X: fromX, Y: fromY}, steps); err != nil {
		c.fail(err)
		return
	}
	if err := m.Down(proto.InputMouseButtonLeft, 1); err != nil {
		c.fail(err)
		return
	}
	if err := m.MoveLinear(proto.Point{X: toX, Y: toY}, steps); err != nil {
		c.fail(err)
		return
	}
	c.fail(m.Up(proto.InputMouseButtonLeft, 1))
}

// DragFromElement starts a drag at the (ax, ay) anchor fraction of el's
// bounding box and releases after moving by (dx, dy) pixels. Skipped
// silently when el is nil or has no box.
func (c *Ctx) DragFromElement(el *rod.Element, ax, ay, dx, dy float64, steps int) bool {
	if c.err != nil || el == nil {
		return false
	}
	b, ok := c.elementBox(el)
	if !ok {
		return false
	}
	sx := b.X + b.W*ax
	sy := b.Y + b.H*ay
	c.Drag(sx, sy, sx+dx, sy+dy, steps)
	return c.err == nil
}

// Viewport returns the capture viewport size.
func (c *Ctx) Viewport() (w, h int) { return c.vw, c.vh }

// Goto navigates to a route on the target app's origin and waits for the
// page to settle, within the scenario wait budget.
func (c *Ctx) Goto(route string) {
	if c.err != nil {
		return
	}
	page := c.page.Timeout(c.timeout)
	if err := page.Navigate(c.origin + route); err != nil {
		c.fail(err)
		return
	}
	c.fail(page.WaitLoad())
}

// box is an axis-aligned bounding box in viewport coordinates.
type box struct {
	X, Y, W, H float64
}

// clickPoint is the pointer target for an element: its box center.
func clickPoint(b box) proto.Point {
	return proto.Point{X: b.X + b.W*0.5, Y: b.Y + b.H*0.5}
}

// elementBox reads el's content quads and returns their bounding box.
// Elements with no layout (display:none, zero quads) report ok=false.
func (c *Ctx) elementBox(el *rod.Element) (box, bool) {
	shape, err := el.Shape()
	if err != nil || len(shape.Quads) == 0 {
		return box{}, false
	}
	return quadBounds(shape.Quads), true
}

// quadBounds folds content quads ([x1,y1,...,x4,y4] per quad) into one
// bounding box.
func quadBounds(quads []proto.DOMQuad) box {
	first := true
	var minX, minY, maxX, maxY float64
	for _, q := range quads {
		for i := 0; i+1 < len(q); i += 2 {
			x, y := q[i], q[i+1]
			if first {
				minX, maxX, minY, maxY = x, x, y, y
				first = false
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	return box{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// inViewport reports whether b overlaps the viewport at all.
func inViewport(b box, vw, vh int) bool {
	if b.X+b.W < 0 || b.Y+b.H < 0 {
		return false
	}
	if b.X > float64(vw) || b.Y > float64(vh) {
		return false
	}
	return true
}
