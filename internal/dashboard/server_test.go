// internal/dashboard/server_test.go
package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/solverlab/benchdash/internal/appconfig"
)

const (
	recordA = `{"metadata":{"benchmark_name":"poisson_solve","timestamp":"2026-03-14T09:00:00","total_execution_time":6.5,"git_commit":{"hash":"aaaa1111"}},"regions":[{"region":"assembly","time":2.0},{"region":"solve","time":4.0}]}`
	recordB = `{"metadata":{"benchmark_name":"poisson_solve","timestamp":"2026-03-14T17:00:00","total_execution_time":8.0,"git_commit":{"hash":"bbbb2222"}},"regions":[{"region":"assembly","time":4.0}]}`
)

func fixtureConfig(t *testing.T) *appconfig.Config {
	t.Helper()

	dataDir := t.TempDir()
	cpuDir := filepath.Join(dataDir, "cpu")
	if err := os.MkdirAll(cpuDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	files := map[string]string{
		"run_a.json":    recordA,
		"run_b.json":    recordB,
		"manifest.json": `{"files":["run_a.json","run_b.json"],"updated":"2026-08-25T03:17:00Z"}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(cpuDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	return &appconfig.Config{
		DataDir: dataDir,
		Manifests: []appconfig.ManifestRef{
			{Class: "cpu", URL: filepath.Join(cpuDir, "manifest.json")},
		},
	}
}

func TestHandleChartsRendersPage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(New(fixtureConfig(t)).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()
	body := readAll(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, want := range []string{"bench00", "Poisson Solve", "assembly"} {
		if !strings.Contains(body, want) {
			t.Fatalf("charts page missing %q", want)
		}
	}
	// Desktop layout: two-column subplot width.
	if !strings.Contains(body, "620px") {
		t.Fatal("charts page missing desktop width")
	}
	if !strings.Contains(body, "URLSearchParams") {
		t.Fatal("charts page missing viewport-width script")
	}
}

func TestHandleChartsMobileWidth(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(New(fixtureConfig(t)).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/?w=480")
	if err != nil {
		t.Fatalf("GET /?w=480: %v", err)
	}
	defer resp.Body.Close()
	if body := readAll(t, resp); !strings.Contains(body, "960px") {
		t.Fatal("mobile viewport should render single-column width")
	}
}

func TestHandleChartsEmptyState(t *testing.T) {
	t.Parallel()

	cfg := &appconfig.Config{DataDir: t.TempDir()}
	srv := httptest.NewServer(New(cfg).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()
	if body := readAll(t, resp); !strings.Contains(body, "No benchmark data available") {
		t.Fatalf("missing empty state: %s", body)
	}
}

func TestHandlePullsAgainstFakeGitHub(t *testing.T) {
	t.Parallel()

	ghMux := http.NewServeMux()
	ghMux.HandleFunc("/repos/solverlab/solver/pulls", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"number":5,"title":"Tune assembly","html_url":"https://example.test/5","head":{"sha":"s5"}}]`))
	})
	ghMux.HandleFunc("/repos/solverlab/solver/commits/s5/check-runs", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"total_count":1,"check_runs":[{"name":"lint","status":"completed","conclusion":"success"}]}`))
	})
	ghMux.HandleFunc("/repos/solverlab/solver/commits/s5/status", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"state":"success","statuses":[]}`))
	})
	ghSrv := httptest.NewServer(ghMux)
	defer ghSrv.Close()

	cfg := fixtureConfig(t)
	cfg.GitHub = appconfig.GitHub{Owner: "solverlab", Repo: "solver", APIBase: ghSrv.URL, DelayMillis: 1}
	srv := httptest.NewServer(New(cfg).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/pulls")
	if err != nil {
		t.Fatalf("GET /pulls: %v", err)
	}
	defer resp.Body.Close()
	body := readAll(t, resp)
	for _, want := range []string{"#5", "Tune assembly", "lint"} {
		if !strings.Contains(body, want) {
			t.Fatalf("pulls page missing %q:\n%s", want, body)
		}
	}
}

func TestHandleBadges(t *testing.T) {
	t.Parallel()

	cfg := fixtureConfig(t)

	setPath := filepath.Join(t.TempDir(), "badges.yaml")
	set := "badges:\n  - name: devel\n    label: devel build\n    url: https://example.test/devel\n    file: badges/devel.svg\n"
	if err := os.WriteFile(setPath, []byte(set), 0o644); err != nil {
		t.Fatalf("write badge set: %v", err)
	}
	cfg.Badges = appconfig.Badges{SetFile: setPath}
	// No last_sync.json exists: every badge renders the unknown placeholder.

	srv := httptest.NewServer(New(cfg).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/badges")
	if err != nil {
		t.Fatalf("GET /badges: %v", err)
	}
	defer resp.Body.Close()
	if body := readAll(t, resp); !strings.Contains(body, "status unknown") {
		t.Fatalf("badges page missing unknown placeholder:\n%s", body)
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(New(&appconfig.Config{DataDir: t.TempDir()}).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestDataFileServer(t *testing.T) {
	t.Parallel()

	cfg := fixtureConfig(t)
	srv := httptest.NewServer(New(cfg).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/data/cpu/run_a.json")
	if err != nil {
		t.Fatalf("GET data file: %v", err)
	}
	defer resp.Body.Close()
	if body := readAll(t, resp); !strings.Contains(body, "poisson_solve") {
		t.Fatalf("static data not served: %s", body)
	}
}

func TestRenderStatic(t *testing.T) {
	t.Parallel()

	cfg := fixtureConfig(t)
	outDir := t.TempDir()

	if err := New(cfg).RenderStatic(context.Background(), outDir); err != nil {
		t.Fatalf("RenderStatic error: %v", err)
	}

	for _, name := range []string{"index.html", "pulls.html", "badges.html"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}

	index, err := os.ReadFile(filepath.Join(outDir, "index.html"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	if !strings.Contains(string(index), "Poisson Solve") {
		t.Fatal("static index missing chart content")
	}
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	var sb strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		sb.Write(buf[:n])
		if err != nil {
			break
		}
	}
	return sb.String()
}
