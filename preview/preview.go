// Package preview serves generated demo assets over HTTP for a quick
// visual check after a capture run, without committing anything or
// opening the docs build.
package preview

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

var indexTmpl = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head><title>demoreel preview</title>
<style>
  body { font-family: system-ui, sans-serif; margin: 2rem; background: #0f172a; color: #e2e8f0; }
  h1 { font-size: 1.2rem; }
  section { margin-bottom: 2.5rem; }
  img, video { max-width: 100%; border-radius: 6px; border: 1px solid #334155; }
  a { color: #7dd3fc; }
</style>
</head>
<body>
<h1>demoreel preview — {{.Dir}}</h1>
{{range .Assets}}
<section>
  <h2>{{.Name}}</h2>
  {{if .IsVideo}}<video controls loop src="/assets/{{.Name}}"></video>
  {{else}}<img src="/assets/{{.Name}}" alt="{{.Name}}">{{end}}
  <p><a href="/assets/{{.Name}}">{{.Name}}</a> ({{.SizeKB}} KB)</p>
</section>
{{else}}
<p>No assets found. Run a capture first.</p>
{{end}}
</body>
</html>
`))

type asset struct {
	Name    string
	SizeKB  int64
	IsVideo bool
}

// Server serves the asset directory with a generated index page.
type Server struct {
	addr   string
	dir    string
	logger *slog.Logger
}

// New creates a preview Server for the assets under dir.
func New(addr, dir string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{addr: addr, dir: dir, logger: logger}
}

// Handler builds the preview router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		assets, err := s.scan()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTmpl.Execute(w, map[string]any{"Dir": s.dir, "Assets": assets}); err != nil {
			s.logger.Warn("preview: render index", "error", err)
		}
	})
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(s.dir))))

	return r
}

// Serve blocks until ctx is cancelled, then shuts the listener down.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview: serving assets", "addr", s.addr, "dir", s.dir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			return fmt.Errorf("preview: shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("preview: serve: %w", err)
	}
}

// scan lists displayable assets, reels first.
func (s *Server) scan() ([]asset, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("preview: read dir: %w", err)
	}

	var assets []asset
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".gif" && ext != ".webm" && ext != ".mp4" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		assets = append(assets, asset{
			Name:    e.Name(),
			SizeKB:  info.Size() >> 10,
			IsVideo: ext != ".gif",
		})
	}

	sort.Slice(assets, func(i, j int) bool {
		ri := strings.HasPrefix(assets[i].Name, "demo-")
		rj := strings.HasPrefix(assets[j].Name, "demo-")
		if ri != rj {
			return ri
		}
		return assets[i].Name < assets[j].Name
	})
	return assets, nil
}
