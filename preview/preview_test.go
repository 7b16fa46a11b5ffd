package preview

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	return New(":0", dir, nil), dir
}

func TestIndexListsAssets(t *testing.T) {
	s, dir := newTestServer(t)
	for _, name := range []string{"workflows-demo.gif", "demo-stitched.gif", "workflows-demo.webm", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	page := string(body)

	for _, want := range []string{"workflows-demo.gif", "demo-stitched.gif", "workflows-demo.webm"} {
		if !strings.Contains(page, want) {
			t.Errorf("index missing %s", want)
		}
	}
	if strings.Contains(page, "notes.txt") {
		t.Error("index lists non-asset file")
	}
	// Reels sort before per-scenario clips.
	if strings.Index(page, "demo-stitched.gif") > strings.Index(page, "workflows-demo.gif") {
		t.Error("reel not listed first")
	}
}

func TestAssetServing(t *testing.T) {
	s, dir := newTestServer(t)
	if err := os.WriteFile(filepath.Join(dir, "routing-demo.gif"), []byte("GIF89a"), 0o644); err != nil {
		t.Fatal(err)
	}

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/assets/routing-demo.gif")
	if err != nil {
		t.Fatalf("GET asset: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "GIF89a" {
		t.Fatalf("body = %q", body)
	}
}

func TestIndexEmptyDir(t *testing.T) {
	s, _ := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "No assets found") {
		t.Error("empty dir should render the empty-state message")
	}
}
