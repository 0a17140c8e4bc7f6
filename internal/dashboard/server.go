// internal/dashboard/server.go
// Package dashboard serves the benchmark charts, the pull-request status
// matrix, and the badge strip. Every page is rebuilt from freshly fetched
// data on each request; nothing is cached between renders.
package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/solverlab/benchdash/internal/appconfig"
	"github.com/solverlab/benchdash/internal/bench"
	"github.com/solverlab/benchdash/internal/chart"
	"github.com/solverlab/benchdash/internal/fetchx"
	"github.com/solverlab/benchdash/internal/ghstatus"
	"github.com/solverlab/benchdash/internal/logging"
	"github.com/solverlab/benchdash/internal/manifest"
)

// Server builds and serves the dashboard pages.
type Server struct {
	cfg    *appconfig.Config
	client *fetchx.Client
	gh     *ghstatus.Client
}

// New wires a Server from configuration.
func New(cfg *appconfig.Config) *Server {
	return &Server{
		cfg:    cfg,
		client: fetchx.New(cfg.RequestTimeout(), ""),
		gh:     ghstatus.NewClient(cfg.GitHub.APIBase, cfg.GitHub.Token, cfg.RequestTimeout()),
	}
}

// Router returns the HTTP handler tree with combined-format request logging.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleCharts).Methods(http.MethodGet)
	r.HandleFunc("/pulls", s.handlePulls).Methods(http.MethodGet)
	r.HandleFunc("/badges", s.handleBadges).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.PathPrefix("/data/").Handler(
		http.StripPrefix("/data/", http.FileServer(http.Dir(s.cfg.DataDirPath()))))
	return handlers.CombinedLoggingHandler(os.Stdout, r)
}

// ListenAndServe runs the dashboard until the listener fails.
func (s *Server) ListenAndServe() error {
	addr := s.cfg.ListenAddr()
	logging.LogEvent("dashboard listening on %s", addr)
	return http.ListenAndServe(addr, s.Router())
}

// LoadSeries fetches every configured manifest, fetches and groups the
// result files each names, and aggregates them into daily series. Empty
// manifests and failed fetches shrink the result; they never error.
func (s *Server) LoadSeries(ctx context.Context) []bench.DailySeries {
	groups := make(map[string][]*bench.Record)
	for _, ref := range s.cfg.Manifests {
		files := manifest.Load(ctx, s.client, ref.URL)
		paths := manifest.Resolve(ref.URL, files)
		records := bench.FetchAll(ctx, s.client, paths)
		bench.Group(groups, ref.Class, records)
	}
	bench.SortGroups(groups)
	return bench.AggregateAll(groups)
}

// CommitBaseURL returns the commit-page prefix for bar click-throughs, or
// empty when no repository is configured.
func (s *Server) CommitBaseURL() string {
	gh := s.cfg.GitHub
	if gh.Owner == "" || gh.Repo == "" {
		return ""
	}
	return fmt.Sprintf("https://github.com/%s/%s/commit/", gh.Owner, gh.Repo)
}

// viewportScript reports the browser width back as the w query parameter,
// reloading once so the server can pick the column count.
const viewportScript = `<script>(function () {
  var params = new URLSearchParams(window.location.search);
  if (!params.has("w")) {
    params.set("w", window.innerWidth);
    window.location.replace(window.location.pathname + "?" + params.toString());
  }
})();</script>`

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	viewportWidth, _ := strconv.Atoi(r.URL.Query().Get("w"))

	series := s.LoadSeries(r.Context())
	if len(series) == 0 {
		writeInlineMessage(w, "No benchmark data available.")
		return
	}

	palette := bench.Palette(bench.AllRegions(series))
	model := chart.Build(series, palette, chart.Options{
		ViewportWidth: viewportWidth,
		CommitBaseURL: s.CommitBaseURL(),
	})

	var buf bytes.Buffer
	if err := chart.Page(model).Render(&buf); err != nil {
		logging.LogEvent("chart render: %v", err)
		writeInlineMessage(w, "Chart rendering failed.")
		return
	}
	page := bytes.Replace(buf.Bytes(), []byte("</body>"),
		[]byte(viewportScript+"\n</body>"), 1)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handlePulls(w http.ResponseWriter, r *http.Request) {
	gh := s.cfg.GitHub
	matrix, err := ghstatus.BuildMatrix(r.Context(), s.gh, gh.Owner, gh.Repo,
		gh.StatusDelay(), gh.DocsColumnPattern())
	if err != nil {
		// The page degrades to an inline message instead of failing.
		writeInlineMessage(w, fmt.Sprintf("Pull request data unavailable: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := ghstatus.RenderHTML(w, matrix); err != nil {
		logging.LogEvent("matrix render: %v", err)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeInlineMessage(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!DOCTYPE html><html><body><p>%s</p></body></html>\n", html.EscapeString(msg))
}
