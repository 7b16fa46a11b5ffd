package script

import (
	"fmt"
	"strings"
	"time"
)

// surfaceWait bounds the initial probe for a page's primary surface.
// Shorter than the scenario budget so fallback probes still fit in it.
const surfaceWait = 7 * time.Second

// WorkflowBuilder walks the AI-assist workflow creation form, then jumps
// to a finished workflow and inspects and edits it on the graph canvas.
func WorkflowBuilder(c *Ctx) error {
	c.WaitForText("button", "New Workflow")
	c.Settle(240)
	c.Hold(3)

	c.HumanClick(c.FindText("button", "New Workflow"), 3)
	c.WaitFor("[aria-label='AI Assist mode']")
	c.HumanClick(c.Find("[aria-label='AI Assist mode']"), 3)

	if prompt := c.Find("textarea[placeholder*='Review all PRs'], textarea[placeholder*='workflow do']"); prompt != nil {
		c.HumanClick(prompt, 2)
		c.Fill(prompt, "Plan and execute a release workflow with task planning, implementation, verification, and deployment notes.")
		c.Settle(220)
		c.Hold(3)
	}

	if name := c.Find("input[placeholder*='Auto-derived from prompt']"); name != nil {
		c.HumanClick(name, 2)
		c.Fill(name, "Release Train AI Workflow")
		c.Settle(160)
		c.Hold(2)
	}

	c.HumanClick(c.Find("[aria-label='Detailed planning depth']"), 2)

	if generate := c.FindText("button", "Generate In Background"); generate != nil {
		c.HumanClick(generate, 3)
		c.Settle(700)
		c.Hold(5)
	}

	// Jump to the finished workflow and inspect the generated graph.
	c.Goto(c.Routes().WorkflowRoute)
	c.WaitFor(".react-flow")
	c.TryWaitFor(".react-flow__node", 6*time.Second)
	c.Settle(250)
	c.Hold(4)

	c.HumanClick(c.FindText("button", "^Fullscreen$"), 4)
	c.HumanClick(c.Find("button[title='Fit view'], button[title='Fit View']"), 3)

	for _, title := range []string{"Collapse inventory panel", "Collapse details panel"} {
		c.HumanClick(c.Find(fmt.Sprintf("button[title='%s']", title)), 2)
	}

	for i := 0; i < 2; i++ {
		c.HumanClick(c.Find("button[title='Zoom in'], button[title='Zoom In']"), 2)
	}

	node := c.FindText(".react-flow__node", "Implement")
	if node == nil {
		node = c.Find(".react-flow__node")
	}
	if c.ClickIfInView(node, 4) {
		// Nudge the selected node so the reader sees the graph is editable.
		if c.DragFromElement(node, 0.55, 0.5, 95, 42, 18) {
			c.Settle(220)
			c.Hold(4)
		}
	}

	c.HumanClick(c.FindText("button", "AI Prompt"), 3)
	if c.HumanClick(c.Find("button[title='Collapse AI prompt']"), 2) {
		c.HumanClick(c.FindText("button", "AI Prompt"), 3)
	}

	// Step through a few more nodes; react-flow rerenders on selection,
	// so the node list is requeried every pass.
	total := len(c.FindAll(".react-flow__node"))
	for _, idx := range []int{1, 2, 3} {
		if total <= idx {
			continue
		}
		nodes := c.FindAll(".react-flow__node")
		if idx >= len(nodes) {
			continue
		}
		if c.ClickIfInView(nodes[idx], 2) {
			c.Settle(150)
			c.Hold(1)
		}
	}

	c.HumanClick(c.Find("button[title='Expand details panel']"), 3)
	if c.HumanClick(c.FindText("button", "Edit"), 3) {
		if editor := c.Find("textarea[placeholder='System prompt for the agent...']"); editor != nil {
			c.HumanClick(editor, 2)
			c.PressEnd()
			c.TypeSlow("\n- Add a concise release summary and rollout checklist in the final response.", 10)
			c.Settle(220)
			c.Hold(4)
		}
		c.HumanClick(c.FindText("button", "Cancel"), 2)
	}

	c.HumanClick(c.FindText("button", "Exit Fullscreen"), 3)
	c.Hold(7)
	return c.Err()
}

// Routing tours the routing graph: fullscreen, fit, zoom, a hand pan,
// then a click-through of visible nodes and the knowledge files panel.
func Routing(c *Ctx) error {
	c.WaitForText("body", "Routing Graph")
	c.Settle(420)
	c.Hold(4)

	c.HumanClick(c.Find("button:has(svg.lucide-maximize-2)"), 4)
	c.HumanClick(c.Find("button[title='Fit view'], button[title='Fit View']"), 3)
	for i := 0; i < 2; i++ {
		c.HumanClick(c.Find("button[title='Zoom in'], button[title='Zoom In']"), 2)
	}

	if canvas := c.Find(".react-flow__pane"); canvas != nil {
		if c.DragFromElement(canvas, 0.55, 0.55, -180, -80, 28) {
			c.Settle(220)
			c.Hold(3)
		}
	}

	// Click through up to 10 visible nodes so each label gets read time.
	total := len(c.FindAll(".react-flow__node"))
	clicked := 0
	for idx := 0; idx < total && clicked < 10; idx++ {
		nodes := c.FindAll(".react-flow__node")
		if idx >= len(nodes) {
			break
		}
		if c.ClickIfInView(nodes[idx], 2) {
			clicked++
			c.Settle(120)
		}
	}
	c.Hold(8)

	if c.HumanClick(c.FindText("button", "Files"), 3) {
		c.HumanClick(c.Find("button[aria-label='Close knowledge files panel']"), 2)
	}

	c.HumanClick(c.Find("button:has(svg.lucide-minimize-2)"), 3)
	c.Hold(6)
	return c.Err()
}

// Console exercises the terminal workspace: pane splits, layout modes,
// the session list, and fullscreen focus.
func Console(c *Ctx) error {
	if !c.TryWaitFor("button[title='Add terminal session']", surfaceWait) &&
		!c.TryWaitForText("button", "New Workspace", surfaceWait) &&
		!c.TryWaitForText("body", "Open a terminal", surfaceWait) {
		c.Failf("script: console surface never appeared")
	}
	c.Settle(520)
	c.Hold(5)

	if add := c.Find("button[title='Add terminal session']"); add != nil {
		c.HumanClick(add, 3)
		c.Settle(550)
		c.Hold(3)
	} else if create := c.FindText("button", "New Workspace|New"); create != nil {
		c.HumanClick(create, 3)
		c.Settle(700)
		c.Hold(3)
	}

	if open := c.FindText("button", "Open a terminal"); open != nil {
		c.HumanClick(open, 3)
		c.Settle(600)
		c.Hold(3)
	}

	if c.HumanClick(c.Find("button[title^='Split right']"), 3) {
		c.Settle(600)
		c.Hold(3)
		if c.HumanClick(c.Find("button[title^='Split down']"), 3) {
			c.Settle(500)
			c.Hold(3)
		}
	}

	tabbed := c.Find("button[title='Tabbed View']")
	tiling := c.Find("button[title^='Tiling View']")
	if tabbed != nil && tiling != nil {
		c.HumanClick(tiling, 2)
		c.Settle(250)
		c.Hold(2)
		c.HumanClick(tabbed, 2)
		c.Settle(250)
		c.Hold(2)
	}

	if c.HumanClick(c.Find("button[title='Show sessions']"), 2) {
		c.Settle(300)
		c.Hold(2)
	}
	if c.HumanClick(c.Find("[class*='group/session']"), 2) {
		c.Settle(300)
		c.Hold(2)
	}

	if c.HumanClick(c.Find("button[title='Fullscreen']"), 3) {
		c.Settle(300)
		c.Hold(3)
	}
	if c.HumanClick(c.Find("button[title='Exit fullscreen']"), 3) {
		c.Settle(350)
	}
	c.Hold(8)
	return c.Err()
}

// SessionsJourney starts on the console, moves to the sessions list,
// opens a resolved session detail, and walks the transcript filters and
// tool payload toggles.
func SessionsJourney(c *Ctx) error {
	if !c.TryWaitFor("button[title='Add terminal session']", surfaceWait) &&
		!c.TryWaitForText("body", "Open a terminal", surfaceWait) {
		c.Failf("script: console surface never appeared")
	}
	c.Settle(380)
	c.Hold(3)

	if link := c.FindText("a", "^Sessions$"); link != nil {
		c.HumanClick(link, 4)
	} else {
		c.Goto("/sessions")
		c.Settle(250)
		c.Hold(3)
	}

	c.WaitForText("body", "Sessions")
	c.Settle(260)
	c.Hold(3)

	opened := false
	if ids := c.Routes().SessionIDs; len(ids) > 0 {
		detailRoute := "/sessions/" + ids[0]
		opened = c.HumanClick(c.Find(fmt.Sprintf("a[href='%s']", detailRoute)), 4)
		if !opened {
			c.Goto(detailRoute)
			c.Settle(260)
			c.Hold(3)
			opened = true
		}
	}
	if !opened {
		c.HumanClick(c.Find("a[href^='/sessions/']"), 4)
	}

	c.WaitForText("button", "Review Session")
	c.Settle(280)
	c.Hold(4)

	vw, vh := c.Viewport()
	c.MouseMove(float64(vw)*0.62, float64(vh)*0.72, 18)
	c.Wheel(0, 560)
	c.Settle(220)
	c.Hold(3)
	c.Wheel(0, -420)
	c.Settle(180)
	c.Hold(2)

	for _, label := range []string{"My Prompts", "Thinking", "Text Only", "All"} {
		c.HumanClick(c.FindText("button", label), 2)
	}
	if c.HumanClick(c.FindText("button", "Tools"), 2) {
		c.HumanClick(c.FindText("button", "All tools"), 2)
	}

	c.MouseMove(float64(vw)*0.65, float64(vh)*0.72, 18)
	c.Wheel(0, 760)
	c.Settle(220)
	c.Hold(3)

	hadInput := c.HumanClick(c.FindText("div[role='button']", "Input"), 3)
	c.HumanClick(c.FindText("div[role='button']", "Result"), 3)

	// Close and re-open the input payload, like a user double-checking.
	if hadInput {
		c.HumanClick(c.FindText("div[role='button']", "Input"), 2)
		c.HumanClick(c.FindText("div[role='button']", "Input"), 2)
	}

	c.MouseMove(float64(vw)*0.76, float64(vh)*0.48, 16)
	c.Settle(180)
	c.Hold(7)
	return c.Err()
}

// ReviewCompare opens the compare workspace pre-loaded with two resolved
// sessions and walks its presets, scope toggles, and chat entry.
func ReviewCompare(c *Ctx) error {
	if ids := c.Routes().SessionIDs; len(ids) >= 2 {
		c.Goto(fmt.Sprintf("/analyze?ids=%s&scope=metrics,summaries", strings.Join(ids[:2], ",")))
	} else {
		c.Goto("/analyze")
	}

	c.WaitForText("body", "Review")
	c.Settle(320)
	c.Hold(4)

	// Session cards carry a message count suffix; CSS cannot match on
	// text, so the card list comes from XPath.
	cards := c.FindAllX("//button[contains(., 'msgs')]")
	if len(cards) > 1 {
		c.HumanClick(cards[1], 3)
		if again := c.FindAllX("//button[contains(., 'msgs')]"); len(again) > 1 {
			c.HumanClick(again[1], 2)
		}
	} else if len(cards) > 0 {
		c.HumanClick(cards[0], 2)
	}

	for _, label := range []string{"Balanced", "Deep", "Lean"} {
		c.HumanClick(c.FindText("button", label), 2)
	}
	for _, label := range []string{"User prompts", "Responses", "Tool details"} {
		c.HumanClick(c.FindText("label", label), 2)
	}

	if c.HumanClick(c.Find("button[role='combobox']"), 2) {
		c.HumanClick(c.FindText("div[role='option']", "100 messages"), 2)
	}

	if input := c.Find("textarea[placeholder='Ask a follow-up question...']"); input != nil {
		c.HumanClick(input, 2)
		c.Fill(input, "Compare these two sessions and highlight the better execution strategy.")
		c.Settle(200)
		c.Hold(3)
	}

	c.Hold(6)
	return c.Err()
}
