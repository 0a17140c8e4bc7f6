// internal/ghstatus/matrix_test.go
package ghstatus

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"
)

func newFakeGitHub(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/solverlab/solver/pulls", func(w http.ResponseWriter, r *http.Request) {
		if page := r.URL.Query().Get("page"); page != "" && page != "1" {
			_, _ = w.Write([]byte("[]"))
			return
		}
		_, _ = w.Write([]byte(`[
			{"number":11,"title":"Faster assembly","html_url":"https://example.test/11","head":{"sha":"sha1","ref":"faster"}},
			{"number":12,"title":"Fix docs","html_url":"https://example.test/12","head":{"sha":"sha2","ref":"docsfix"}}
		]`))
	})
	mux.HandleFunc("/repos/solverlab/solver/commits/sha1/check-runs", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"total_count":3,"check_runs":[
			{"name":"lint","status":"completed","conclusion":"success"},
			{"name":"build","status":"completed","conclusion":"failure"},
			{"name":"deploy","status":"in_progress","conclusion":""}
		]}`))
	})
	mux.HandleFunc("/repos/solverlab/solver/commits/sha1/status", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"state":"pending","statuses":[
			{"context":"docs/readthedocs.org:solver","state":"success"},
			{"context":"ci/nightly","state":"pending"}
		]}`))
	})
	// PR 12's check-run feed is broken; its row must simply stay sparse.
	mux.HandleFunc("/repos/solverlab/solver/commits/sha2/check-runs", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/repos/solverlab/solver/commits/sha2/status", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"state":"error","statuses":[
			{"context":"ci/nightly","state":"error"}
		]}`))
	})
	return httptest.NewServer(mux)
}

func TestBuildMatrix(t *testing.T) {
	t.Parallel()

	srv := newFakeGitHub(t)
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second)
	m, err := BuildMatrix(context.Background(), c, "solverlab", "solver", 0, "readthedocs")
	if err != nil {
		t.Fatalf("BuildMatrix error: %v", err)
	}

	// Column union over both PRs: native first (alphabetical), then
	// external, with the documentation column pinned last.
	wantCols := []Column{
		{Name: "build", Origin: OriginNative},
		{Name: "deploy", Origin: OriginNative},
		{Name: "lint", Origin: OriginNative},
		{Name: "ci/nightly", Origin: OriginExternal},
		{Name: "docs/readthedocs.org:solver", Origin: OriginExternal},
	}
	if len(m.Columns) != len(wantCols) {
		t.Fatalf("columns = %v", m.Columns)
	}
	for i := range wantCols {
		if m.Columns[i] != wantCols[i] {
			t.Fatalf("column %d = %v, want %v", i, m.Columns[i], wantCols[i])
		}
	}

	if len(m.Rows) != 2 {
		t.Fatalf("got %d rows", len(m.Rows))
	}
	first, second := m.Rows[0], m.Rows[1]

	if got := first.State(Column{Name: "lint", Origin: OriginNative}); got != StateSuccess {
		t.Fatalf("pr11 lint = %v", got)
	}
	if got := first.State(Column{Name: "build", Origin: OriginNative}); got != StateFailure {
		t.Fatalf("pr11 build = %v", got)
	}
	if got := first.State(Column{Name: "deploy", Origin: OriginNative}); got != StatePending {
		t.Fatalf("pr11 deploy = %v", got)
	}

	// PR 12 has no check-runs at all (feed failed): not-run, which is
	// distinct from pending.
	if got := second.State(Column{Name: "lint", Origin: OriginNative}); got != StateNotRun {
		t.Fatalf("pr12 lint = %v, want not-run", got)
	}
	if got := second.State(Column{Name: "ci/nightly", Origin: OriginExternal}); got != StateError {
		t.Fatalf("pr12 ci/nightly = %v", got)
	}
}

func TestBuildMatrixPullListFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second)
	if _, err := BuildMatrix(context.Background(), c, "solverlab", "solver", 0, ""); err == nil {
		t.Fatal("expected error when the pull list itself is unavailable")
	}
}

func TestOpenPullRequestsPaginates(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/solverlab/solver/pulls", func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		var prs []PullRequest
		switch page {
		case 1:
			for i := 0; i < 100; i++ {
				var pr PullRequest
				pr.Number = i + 1
				prs = append(prs, pr)
			}
		case 2:
			for i := 0; i < 3; i++ {
				var pr PullRequest
				pr.Number = 100 + i + 1
				prs = append(prs, pr)
			}
		}
		_ = json.NewEncoder(w).Encode(prs)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second)
	prs, err := c.OpenPullRequests(context.Background(), "solverlab", "solver")
	if err != nil {
		t.Fatalf("OpenPullRequests error: %v", err)
	}
	if len(prs) != 103 {
		t.Fatalf("got %d pull requests, want 103", len(prs))
	}
}

func TestClientSendsBearerToken(t *testing.T) {
	t.Parallel()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "gh_token", 5*time.Second)
	if _, err := c.OpenPullRequests(context.Background(), "solverlab", "solver"); err != nil {
		t.Fatalf("OpenPullRequests error: %v", err)
	}
	if gotAuth != "Bearer gh_token" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
}

func TestStateMapping(t *testing.T) {
	t.Parallel()

	runs := []struct {
		run  CheckRun
		want State
	}{
		{CheckRun{Status: "completed", Conclusion: "success"}, StateSuccess},
		{CheckRun{Status: "completed", Conclusion: "failure"}, StateFailure},
		{CheckRun{Status: "completed", Conclusion: "timed_out"}, StateError},
		{CheckRun{Status: "completed", Conclusion: "neutral"}, StateUnknown},
		{CheckRun{Status: "queued"}, StatePending},
	}
	for _, tt := range runs {
		if got := stateFromCheckRun(tt.run); got != tt.want {
			t.Fatalf("stateFromCheckRun(%+v) = %v, want %v", tt.run, got, tt.want)
		}
	}

	statuses := []struct {
		st   CommitStatus
		want State
	}{
		{CommitStatus{State: "success"}, StateSuccess},
		{CommitStatus{State: "failure"}, StateFailure},
		{CommitStatus{State: "error"}, StateError},
		{CommitStatus{State: "pending"}, StatePending},
		{CommitStatus{State: "weird"}, StateUnknown},
	}
	for _, tt := range statuses {
		if got := stateFromStatus(tt.st); got != tt.want {
			t.Fatalf("stateFromStatus(%+v) = %v, want %v", tt.st, got, tt.want)
		}
	}
}

func TestRenderHTML(t *testing.T) {
	t.Parallel()

	col := Column{Name: "lint", Origin: OriginNative}
	m := Matrix{
		Columns:     []Column{col},
		GeneratedAt: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		Rows: []Row{{
			PR:    PullRequest{Number: 7, Title: "Speed up solve", HTMLURL: "https://example.test/7"},
			Cells: map[Column]State{col: StateSuccess},
		}},
	}

	var buf bytes.Buffer
	if err := RenderHTML(&buf, m); err != nil {
		t.Fatalf("RenderHTML error: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"#7", "Speed up solve", "state-success", "lint"} {
		if !strings.Contains(html, want) {
			t.Fatalf("rendered matrix missing %q:\n%s", want, html)
		}
	}
}

func TestRenderHTMLEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := RenderHTML(&buf, Matrix{GeneratedAt: time.Now()}); err != nil {
		t.Fatalf("RenderHTML error: %v", err)
	}
	if !strings.Contains(buf.String(), "No open pull requests") {
		t.Fatal("empty matrix missing empty-state message")
	}
}
