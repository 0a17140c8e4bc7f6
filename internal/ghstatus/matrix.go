// internal/ghstatus/matrix.go
package ghstatus

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/solverlab/benchdash/internal/logging"
)

// Origin distinguishes the two GitHub mechanisms a check result can arrive by.
type Origin string

const (
	// OriginNative marks first-party check-runs.
	OriginNative Origin = "native"
	// OriginExternal marks externally posted commit statuses.
	OriginExternal Origin = "external"
)

// State is the closed status vocabulary a matrix cell can hold.
type State string

const (
	StateSuccess State = "success"
	StateFailure State = "failure"
	StateError   State = "error"
	StatePending State = "pending"
	StateUnknown State = "unknown"

	// StateNotRun marks a pull request with no recorded entry for a column.
	// It is distinct from pending: the check never ran at all.
	StateNotRun State = "not-run"
)

// Column identifies one check across all pull requests.
type Column struct {
	Name   string
	Origin Origin
}

// Row is one pull request's cells.
type Row struct {
	PR    PullRequest
	Cells map[Column]State
}

// State returns the row's cell for a column, or StateNotRun when absent.
func (r Row) State(col Column) State {
	if s, ok := r.Cells[col]; ok {
		return s
	}
	return StateNotRun
}

// Matrix is the pull request × check-identifier table.
type Matrix struct {
	Columns     []Column
	Rows        []Row
	GeneratedAt time.Time
}

// BuildMatrix fetches all open pull requests and, per pull request, its
// check-runs and commit statuses. The per-PR fetches run sequentially with a
// fixed delay between iterations purely as a rate-limit courtesy. One PR's
// fetch failure leaves its row sparse; it never aborts the batch.
func BuildMatrix(ctx context.Context, c *Client, owner, repo string, delay time.Duration, docsPattern string) (Matrix, error) {
	prs, err := c.OpenPullRequests(ctx, owner, repo)
	if err != nil {
		return Matrix{}, err
	}

	m := Matrix{GeneratedAt: time.Now().UTC()}
	for i, pr := range prs {
		if i > 0 && delay > 0 {
			if err := sleep(ctx, delay); err != nil {
				return Matrix{}, err
			}
		}

		row := Row{PR: pr, Cells: make(map[Column]State)}

		runs, err := c.CheckRuns(ctx, owner, repo, pr.Head.SHA)
		if err != nil {
			logging.LogEvent("pr #%d: check-runs unavailable: %v", pr.Number, err)
		}
		for _, run := range runs {
			row.Cells[Column{Name: run.Name, Origin: OriginNative}] = stateFromCheckRun(run)
		}

		statuses, err := c.CombinedStatus(ctx, owner, repo, pr.Head.SHA)
		if err != nil {
			logging.LogEvent("pr #%d: statuses unavailable: %v", pr.Number, err)
		}
		for _, st := range statuses {
			row.Cells[Column{Name: st.Context, Origin: OriginExternal}] = stateFromStatus(st)
		}

		m.Rows = append(m.Rows, row)
	}

	m.Columns = unionColumns(m.Rows, docsPattern)
	return m, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// unionColumns collects every distinct (name, origin) pair across all rows
// and orders them: native columns first, then external, with external
// columns matching the documentation-service pattern pinned last;
// alphabetical within a band.
func unionColumns(rows []Row, docsPattern string) []Column {
	set := make(map[Column]bool)
	for _, row := range rows {
		for col := range row.Cells {
			set[col] = true
		}
	}

	cols := make([]Column, 0, len(set))
	for col := range set {
		cols = append(cols, col)
	}
	sort.Slice(cols, func(i, j int) bool {
		bi, bj := columnBand(cols[i], docsPattern), columnBand(cols[j], docsPattern)
		if bi != bj {
			return bi < bj
		}
		return cols[i].Name < cols[j].Name
	})
	return cols
}

func columnBand(col Column, docsPattern string) int {
	if col.Origin == OriginNative {
		return 0
	}
	if docsPattern != "" && strings.Contains(strings.ToLower(col.Name), docsPattern) {
		return 2
	}
	return 1
}

// stateFromCheckRun maps a check-run onto the closed cell vocabulary.
func stateFromCheckRun(run CheckRun) State {
	if run.Status != "completed" {
		return StatePending
	}
	switch run.Conclusion {
	case "success":
		return StateSuccess
	case "failure":
		return StateFailure
	case "timed_out", "cancelled", "action_required":
		return StateError
	default:
		return StateUnknown
	}
}

// stateFromStatus maps a commit status onto the closed cell vocabulary.
func stateFromStatus(st CommitStatus) State {
	switch st.State {
	case "success":
		return StateSuccess
	case "failure":
		return StateFailure
	case "error":
		return StateError
	case "pending":
		return StatePending
	default:
		return StateUnknown
	}
}
