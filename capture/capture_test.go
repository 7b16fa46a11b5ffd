package capture

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestSelectScenariosAll(t *testing.T) {
	all := DefaultScenarios()
	got, err := SelectScenarios(all, nil)
	if err != nil {
		t.Fatalf("SelectScenarios: %v", err)
	}
	if len(got) != len(all) {
		t.Fatalf("selected %d scenarios, want %d", len(got), len(all))
	}
}

func TestDefaultScenariosTable(t *testing.T) {
	want := []string{"workflows-demo", "routing-demo", "console-demo", "sessions-demo", "review-compare-demo"}
	all := DefaultScenarios()
	if len(all) != len(want) {
		t.Fatalf("suite has %d scenarios, want %d", len(all), len(want))
	}
	seen := make(map[string]bool, len(all))
	for i, sc := range all {
		if sc.Key != want[i] {
			t.Fatalf("scenario %d is %q, want %q", i, sc.Key, want[i])
		}
		if sc.Runner == nil {
			t.Fatalf("scenario %q has no runner", sc.Key)
		}
		if sc.Route == "" {
			t.Fatalf("scenario %q has no route", sc.Key)
		}
		if seen[sc.Key] {
			t.Fatalf("duplicate scenario key %q", sc.Key)
		}
		seen[sc.Key] = true
	}
}

func TestSelectScenariosSubsetKeepsReelOrder(t *testing.T) {
	got, err := SelectScenarios(DefaultScenarios(), []string{"sessions-demo", "workflows-demo"})
	if err != nil {
		t.Fatalf("SelectScenarios: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("selected %d scenarios, want 2", len(got))
	}
	// Suite order wins over request order.
	if got[0].Key != "workflows-demo" || got[1].Key != "sessions-demo" {
		t.Fatalf("order = [%s, %s]", got[0].Key, got[1].Key)
	}
}

func TestSelectScenariosUnknownKey(t *testing.T) {
	_, err := SelectScenarios(DefaultScenarios(), []string{"workflows-demo", "no-such-demo"})
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "no-such-demo") {
		t.Fatalf("error %q does not name the unknown key", err)
	}
}

func TestScenarioErrorUnwrap(t *testing.T) {
	cause := context.DeadlineExceeded
	err := &ScenarioError{Key: "routing-demo", Err: cause}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatal("ScenarioError must unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "routing-demo") {
		t.Fatalf("error %q does not name the scenario", err)
	}
}

func TestNewRejectsUnknownScenario(t *testing.T) {
	cfg := &Config{Scenarios: []string{"bogus"}}
	cfg.ApplyDefaults()
	if _, err := New(cfg, nil); err == nil {
		t.Fatal("expected error for unknown scenario key")
	}
}
