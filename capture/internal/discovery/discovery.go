// Package discovery resolves concrete target-app routes for scenario
// scripts by querying the app's read-only JSON API. Scenario scripts name
// semantic needs ("the most demo-worthy workflow", "recent non-empty
// sessions"); discovery maps them to real IDs once per run.
//
// Discovery never fails a run: API trouble falls back to hardcoded demo
// routes or empty ID lists.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// FallbackWorkflowRoute is used when the workflow list cannot be fetched
// or holds nothing usable.
const FallbackWorkflowRoute = "/workflows/wf_demo_claude_release"

// Routes is the resolved route table, built once per run and handed
// read-only to every scenario runner.
type Routes struct {
	WorkflowRoute string
	SessionIDs    []string
}

// Client queries the target application's JSON API.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(d *Client) { d.client = c }
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Client) { d.logger = l }
}

// New creates a Client for the target app at baseURL.
func New(baseURL string, opts ...Option) *Client {
	d := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 8 * time.Second},
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// EnsureReachable GETs the app root. A failure here is fatal to the run:
// there is nothing to capture.
func (d *Client) EnsureReachable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL, nil)
	if err != nil {
		return fmt.Errorf("discovery: reachability request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("discovery: target app unreachable at %s: %w", d.baseURL, err)
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("discovery: target app unhealthy at %s: status %d", d.baseURL, resp.StatusCode)
	}
	return nil
}

type workflow struct {
	ID            string            `json:"id"`
	Nodes         []json.RawMessage `json:"nodes"`
	GeneratedPlan string            `json:"generatedPlan"`
}

// WorkflowRoute picks the most demo-worthy workflow: entries with a
// non-empty generated plan beat entries without one, node count breaks
// ties. Falls back to FallbackWorkflowRoute on any failure.
func (d *Client) WorkflowRoute(ctx context.Context) string {
	var list []workflow
	if err := d.getJSON(ctx, "/api/workflows", nil, &list); err != nil {
		d.logger.Warn("discovery: workflow list failed, using fallback", "error", err)
		return FallbackWorkflowRoute
	}
	if len(list) == 0 {
		return FallbackWorkflowRoute
	}

	best := list[0]
	for _, w := range list[1:] {
		if workflowLess(best, w) {
			best = w
		}
	}
	if best.ID == "" {
		return FallbackWorkflowRoute
	}
	return "/workflows/" + best.ID
}

// workflowLess reports whether b outranks a: plan presence first, node
// count second. Plans matter more than size.
func workflowLess(a, b workflow) bool {
	ap, bp := planScore(a), planScore(b)
	if ap != bp {
		return ap < bp
	}
	return len(a.Nodes) < len(b.Nodes)
}

func planScore(w workflow) int {
	if strings.TrimSpace(w.GeneratedPlan) != "" {
		return 1
	}
	return 0
}

// SessionIDs returns up to count IDs of the most recently modified sessions
// that carry at least one message. Any failure yields an empty slice;
// callers treat that as "no concrete session, use a generic route."
func (d *Client) SessionIDs(ctx context.Context, count int) []string {
	params := url.Values{
		"sortBy":      {"modified_at"},
		"sortDir":     {"DESC"},
		"limit":       {"80"},
		"minMessages": {"1"},
	}

	var payload struct {
		Sessions []struct {
			ID string `json:"id"`
		} `json:"sessions"`
	}
	if err := d.getJSON(ctx, "/api/sessions", params, &payload); err != nil {
		d.logger.Warn("discovery: session list failed", "error", err)
		return nil
	}

	ids := make([]string, 0, count)
	for _, s := range payload.Sessions {
		if s.ID == "" {
			continue
		}
		ids = append(ids, s.ID)
		if len(ids) >= count {
			break
		}
	}
	return ids
}

// Resolve builds the full route table for a run.
func (d *Client) Resolve(ctx context.Context, sessionCount int) Routes {
	return Routes{
		WorkflowRoute: d.WorkflowRoute(ctx),
		SessionIDs:    d.SessionIDs(ctx, sessionCount),
	}
}

func (d *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	u := d.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("discovery: new request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("discovery: get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("discovery: get %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("discovery: decode %s: %w", path, err)
	}
	return nil
}
