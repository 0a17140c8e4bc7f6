// internal/bench/record.go
// Package bench models nightly benchmark measurements and aggregates them
// into the per-day series the dashboard charts are built from.
package bench

import (
	"fmt"
	"strings"
	"time"
)

// Record is one benchmark measurement run as stored on disk.
type Record struct {
	Metadata *Metadata           `json:"metadata"`
	Regions  []RegionMeasurement `json:"regions"`
}

// Metadata describes the run: which benchmark, when, and on what.
type Metadata struct {
	BenchmarkName      string    `json:"benchmark_name"`
	Timestamp          string    `json:"timestamp"`
	TotalExecutionTime float64   `json:"total_execution_time"`
	Hardware           *Hardware `json:"hardware,omitempty"`
	GitCommit          *Commit   `json:"git_commit,omitempty"`
}

// RegionMeasurement is the elapsed time of one named phase of the computation.
type RegionMeasurement struct {
	Region string  `json:"region"`
	Time   float64 `json:"time"`
}

// Hardware describes the machine a run executed on.
type Hardware struct {
	Architecture string  `json:"architecture,omitempty"`
	CPUModel     string  `json:"cpu_model,omitempty"`
	CPUMaxMHz    float64 `json:"cpu_max_mhz,omitempty"`
}

// Commit identifies the source revision a run was built from.
type Commit struct {
	Hash    string `json:"hash"`
	Message string `json:"message,omitempty"`
}

// Valid reports whether the record carries the metadata block required for
// grouping. Records without it are dropped before any aggregation.
func (r *Record) Valid() bool {
	return r != nil && r.Metadata != nil
}

// Time parses the record timestamp. Timezone-naive timestamps are
// interpreted as UTC, never shifted into the local zone.
func (m *Metadata) Time() (time.Time, error) {
	return ParseTimestamp(m.Timestamp)
}

// timestampLayouts are the timezone-naive shapes accepted for record
// timestamps; all parse in UTC.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp. A string without a timezone
// indicator parses identically to the same string with a trailing UTC
// designator.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// Summary returns a short hardware description for hover text and titles.
func (h *Hardware) Summary() string {
	if h == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	if h.CPUModel != "" {
		parts = append(parts, h.CPUModel)
	}
	if h.Architecture != "" {
		parts = append(parts, h.Architecture)
	}
	return strings.Join(parts, " · ")
}

// ShortHash returns the abbreviated commit hash, or empty when absent.
func (c *Commit) ShortHash() string {
	if c == nil || c.Hash == "" {
		return ""
	}
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}
