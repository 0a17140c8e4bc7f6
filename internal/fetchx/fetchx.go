// internal/fetchx/fetchx.go
// Package fetchx provides tolerant JSON fetching for dashboard data sources.
//
// Every fetch outcome is surfaced as a value rather than a propagated error,
// so batch callers decide per item whether a failure matters. Sources may be
// http(s) URLs or local file paths; both go through the same entry points.
package fetchx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/solverlab/benchdash/internal/logging"
)

// Client performs JSON fetches with an optional bearer token.
type Client struct {
	HTTP  *http.Client
	Token string
}

// New returns a Client with the given request timeout. The token, when
// non-empty, is attached as a bearer Authorization header to HTTP requests.
func New(timeout time.Duration, token string) *Client {
	return &Client{
		HTTP:  &http.Client{Timeout: timeout},
		Token: token,
	}
}

// Result is the outcome of fetching and decoding one source.
type Result[T any] struct {
	Source string
	Value  T
	Err    error
}

// OK reports whether the fetch produced a usable value.
func (r Result[T]) OK() bool { return r.Err == nil }

// JSON fetches source and decodes the body into v. A source without an
// http(s) scheme is read from the local filesystem. Transport failures,
// non-2xx statuses, and undecodable bodies all return an error.
func (c *Client) JSON(ctx context.Context, source string, v any) error {
	if !isHTTP(source) {
		data, err := os.ReadFile(source)
		if err != nil {
			return fmt.Errorf("read %s: %w", source, err)
		}
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("decode %s: %w", source, err)
		}
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", source, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		logging.LogFetch(source, 0, err)
		return fmt.Errorf("fetch %s: %w", source, err)
	}
	defer resp.Body.Close()
	logging.LogFetch(source, resp.StatusCode, nil)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("fetch %s: unexpected status %d", source, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", source, err)
	}
	return nil
}

// JSONAll fetches every source concurrently and waits for the whole batch.
// Each element fails independently; the returned slice preserves input order.
func JSONAll[T any](ctx context.Context, c *Client, sources []string) []Result[T] {
	results := make([]Result[T], len(sources))

	var wg sync.WaitGroup
	for i, source := range sources {
		wg.Add(1)
		go func(i int, source string) {
			defer wg.Done()
			var v T
			err := c.JSON(ctx, source, &v)
			results[i] = Result[T]{Source: source, Value: v, Err: err}
		}(i, source)
	}
	wg.Wait()

	return results
}

func isHTTP(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
