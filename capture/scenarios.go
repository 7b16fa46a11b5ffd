package capture

import (
	"fmt"
	"strings"

	"github.com/velocityhq/demoreel/capture/internal/script"
)

// Scenario is one scripted product story: a starting route plus the
// interaction sequence that tells it.
type Scenario struct {
	// Key names the scenario's output assets (<key>.gif, <key>.webm).
	Key string

	// Title is the human-readable story description, for logs.
	Title string

	// Route is the path the scenario starts on.
	Route string

	Runner script.Runner
}

// DefaultScenarios returns the full demo suite in reel order.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{
			Key:    "workflows-demo",
			Title:  "Workflow AI assist to editable workflow",
			Route:  "/workflows",
			Runner: script.WorkflowBuilder,
		},
		{
			Key:    "routing-demo",
			Title:  "Routing graph analysis",
			Route:  "/routing",
			Runner: script.Routing,
		},
		{
			Key:    "console-demo",
			Title:  "Terminal workspace splits and layouts",
			Route:  "/",
			Runner: script.Console,
		},
		{
			Key:    "sessions-demo",
			Title:  "Console to sessions detail journey",
			Route:  "/",
			Runner: script.SessionsJourney,
		},
		{
			Key:    "review-compare-demo",
			Title:  "Review compare workspace",
			Route:  "/analyze",
			Runner: script.ReviewCompare,
		},
	}
}

// SelectScenarios filters the suite down to the named keys, preserving
// reel order. An empty keys list selects everything; an unknown key is
// an error so typos do not silently shrink the reel.
func SelectScenarios(all []Scenario, keys []string) ([]Scenario, error) {
	if len(keys) == 0 {
		return all, nil
	}

	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[strings.TrimSpace(k)] = true
	}

	out := make([]Scenario, 0, len(keys))
	for _, sc := range all {
		if want[sc.Key] {
			out = append(out, sc)
			delete(want, sc.Key)
		}
	}
	if len(want) > 0 {
		unknown := make([]string, 0, len(want))
		for k := range want {
			unknown = append(unknown, k)
		}
		return nil, fmt.Errorf("capture: unknown scenario keys: %s", strings.Join(unknown, ", "))
	}
	return out, nil
}
