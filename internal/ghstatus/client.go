// internal/ghstatus/client.go
// Package ghstatus fetches pull-request CI outcomes from the GitHub REST API
// and assembles them into the dashboard's status matrix.
package ghstatus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/solverlab/benchdash/internal/logging"
)

// DefaultAPIBase is the public GitHub REST endpoint.
const DefaultAPIBase = "https://api.github.com"

// perPage is the page size used for every paginated listing.
const perPage = 100

// Client is a minimal paginated GitHub REST consumer. A token, when set,
// is attached as a bearer header for elevated rate limits.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// NewClient returns a Client against apiBase (DefaultAPIBase when empty).
func NewClient(apiBase, token string, timeout time.Duration) *Client {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	return &Client{
		BaseURL: apiBase,
		Token:   token,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// PullRequest is the subset of the GitHub pull-request payload the matrix needs.
type PullRequest struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	HTMLURL string `json:"html_url"`
	Draft   bool   `json:"draft"`
	User    struct {
		Login string `json:"login"`
	} `json:"user"`
	Head struct {
		SHA string `json:"sha"`
		Ref string `json:"ref"`
	} `json:"head"`
}

// CheckRun is one native check-run reported on a commit.
type CheckRun struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	Conclusion string `json:"conclusion"`
}

// CommitStatus is one externally posted commit status.
type CommitStatus struct {
	Context string `json:"context"`
	State   string `json:"state"`
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, v any) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		logging.LogFetch(u, 0, err)
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()
	logging.LogFetch(u, resp.StatusCode, nil)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// OpenPullRequests lists every open pull request of the repository,
// following pagination until a short page.
func (c *Client) OpenPullRequests(ctx context.Context, owner, repo string) ([]PullRequest, error) {
	var all []PullRequest
	for page := 1; ; page++ {
		query := url.Values{
			"state":    {"open"},
			"per_page": {strconv.Itoa(perPage)},
			"page":     {strconv.Itoa(page)},
		}
		var batch []PullRequest
		path := fmt.Sprintf("/repos/%s/%s/pulls", owner, repo)
		if err := c.getJSON(ctx, path, query, &batch); err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < perPage {
			return all, nil
		}
	}
}

// CheckRuns lists the native check-runs recorded on a commit.
func (c *Client) CheckRuns(ctx context.Context, owner, repo, sha string) ([]CheckRun, error) {
	var all []CheckRun
	for page := 1; ; page++ {
		query := url.Values{
			"per_page": {strconv.Itoa(perPage)},
			"page":     {strconv.Itoa(page)},
		}
		var payload struct {
			TotalCount int        `json:"total_count"`
			CheckRuns  []CheckRun `json:"check_runs"`
		}
		path := fmt.Sprintf("/repos/%s/%s/commits/%s/check-runs", owner, repo, sha)
		if err := c.getJSON(ctx, path, query, &payload); err != nil {
			return nil, err
		}
		all = append(all, payload.CheckRuns...)
		if len(payload.CheckRuns) < perPage || len(all) >= payload.TotalCount {
			return all, nil
		}
	}
}

// CombinedStatus lists the externally posted statuses on a commit.
func (c *Client) CombinedStatus(ctx context.Context, owner, repo, sha string) ([]CommitStatus, error) {
	query := url.Values{"per_page": {strconv.Itoa(perPage)}}
	var payload struct {
		State    string         `json:"state"`
		Statuses []CommitStatus `json:"statuses"`
	}
	path := fmt.Sprintf("/repos/%s/%s/commits/%s/status", owner, repo, sha)
	if err := c.getJSON(ctx, path, query, &payload); err != nil {
		return nil, err
	}
	return payload.Statuses, nil
}
