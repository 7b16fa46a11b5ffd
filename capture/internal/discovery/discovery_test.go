package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWorkflowRoute_PlanBeatsNodeCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/workflows" {
			http.NotFound(w, r)
			return
		}
		// wf_big has more nodes but no plan; wf_planned has a plan.
		w.Write([]byte(`[
			{"id": "wf_big", "nodes": [{}, {}, {}, {}, {}], "generatedPlan": "  "},
			{"id": "wf_planned", "nodes": [{}, {}], "generatedPlan": "1. do things"},
			{"id": "wf_small", "nodes": [{}]}
		]`))
	}))
	defer srv.Close()

	d := New(srv.URL)
	if got := d.WorkflowRoute(context.Background()); got != "/workflows/wf_planned" {
		t.Fatalf("got %q, want the planned workflow", got)
	}
}

func TestWorkflowRoute_NodeCountBreaksTies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": "wf_a", "nodes": [{}]},
			{"id": "wf_b", "nodes": [{}, {}, {}]}
		]`))
	}))
	defer srv.Close()

	d := New(srv.URL)
	if got := d.WorkflowRoute(context.Background()); got != "/workflows/wf_b" {
		t.Fatalf("got %q, want the larger workflow", got)
	}
}

func TestWorkflowRoute_FallbackPaths(t *testing.T) {
	// Empty list.
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer empty.Close()
	if got := New(empty.URL).WorkflowRoute(context.Background()); got != FallbackWorkflowRoute {
		t.Fatalf("empty list: got %q, want fallback", got)
	}

	// Server error.
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer broken.Close()
	if got := New(broken.URL).WorkflowRoute(context.Background()); got != FallbackWorkflowRoute {
		t.Fatalf("server error: got %q, want fallback", got)
	}

	// Unreachable endpoint: no panic, no escape, just the fallback.
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()
	if got := New(dead.URL).WorkflowRoute(context.Background()); got != FallbackWorkflowRoute {
		t.Fatalf("unreachable: got %q, want fallback", got)
	}
}

func TestSessionIDs(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"sessions": [
			{"id": "s1"}, {"id": ""}, {"id": "s2"}, {"id": "s3"}, {"id": "s4"}
		]}`))
	}))
	defer srv.Close()

	ids := New(srv.URL).SessionIDs(context.Background(), 3)
	if len(ids) != 3 {
		t.Fatalf("got %d ids, want 3", len(ids))
	}
	if ids[0] != "s1" || ids[1] != "s2" || ids[2] != "s3" {
		t.Fatalf("got %v, want blank id skipped and order kept", ids)
	}

	for _, part := range []string{"sortBy=modified_at", "sortDir=DESC", "limit=80", "minMessages=1"} {
		if !strings.Contains(gotQuery, part) {
			t.Fatalf("query %q missing %q", gotQuery, part)
		}
	}
}

func TestSessionIDs_EmptyOnFailure(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	if ids := New(dead.URL).SessionIDs(context.Background(), 4); len(ids) != 0 {
		t.Fatalf("got %v, want empty on unreachable endpoint", ids)
	}

	malformed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"sessions": "oops"`))
	}))
	defer malformed.Close()
	if ids := New(malformed.URL).SessionIDs(context.Background(), 4); len(ids) != 0 {
		t.Fatalf("got %v, want empty on malformed payload", ids)
	}
}

func TestEnsureReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	d := New(srv.URL)
	if err := d.EnsureReachable(context.Background()); err != nil {
		t.Fatalf("reachable app reported unreachable: %v", err)
	}
	srv.Close()
	if err := d.EnsureReachable(context.Background()); err == nil {
		t.Fatal("expected error for closed server")
	}
}

func TestEnsureReachable_ErrorStatusIsFatal(t *testing.T) {
	// An app that answers but cannot serve pages has nothing to capture.
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boot loop", http.StatusInternalServerError)
	}))
	defer broken.Close()

	err := New(broken.URL).EnsureReachable(context.Background())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Fatalf("error %q does not name the status", err)
	}

	quiet := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer quiet.Close()
	if err := New(quiet.URL).EnsureReachable(context.Background()); err != nil {
		t.Fatalf("non-error status must count as reachable: %v", err)
	}
}

