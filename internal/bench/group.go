// internal/bench/group.go
package bench

import (
	"context"
	"sort"

	"github.com/solverlab/benchdash/internal/fetchx"
	"github.com/solverlab/benchdash/internal/logging"
)

// FetchAll fetches every result file concurrently and returns the records
// that parsed and carry metadata. Individual fetch failures and structurally
// incomplete records are dropped; the batch always completes.
func FetchAll(ctx context.Context, c *fetchx.Client, sources []string) []*Record {
	results := fetchx.JSONAll[Record](ctx, c, sources)

	records := make([]*Record, 0, len(results))
	for i := range results {
		if !results[i].OK() {
			logging.LogEvent("skipping result %s: %v", results[i].Source, results[i].Err)
			continue
		}
		rec := results[i].Value
		if !rec.Valid() {
			logging.LogEvent("skipping result %s: missing metadata", results[i].Source)
			continue
		}
		records = append(records, &rec)
	}
	return records
}

// GroupKey returns the key a record groups under. A non-empty hardware class
// prefixes the benchmark name so identical names under different classes
// stay distinct.
func GroupKey(class, name string) string {
	if class == "" {
		return name
	}
	return class + "/" + name
}

// SplitKey is the inverse of GroupKey.
func SplitKey(key string) (class, name string) {
	for i := 0; i < len(key); i++ {
		if key[i] == '/' {
			return key[:i], key[i+1:]
		}
	}
	return "", key
}

// Group partitions records into groups keyed by GroupKey(class, name),
// merging into dst so several manifests (e.g. CPU and GPU) can feed one
// grouping. Records without metadata never enter a group.
func Group(dst map[string][]*Record, class string, records []*Record) {
	for _, r := range records {
		if !r.Valid() {
			continue
		}
		key := GroupKey(class, r.Metadata.BenchmarkName)
		dst[key] = append(dst[key], r)
	}
}

// SortGroups orders every group's records ascending by timestamp. Records
// whose timestamp fails to parse sort first on the zero time.
func SortGroups(groups map[string][]*Record) {
	for _, records := range groups {
		sort.SliceStable(records, func(i, j int) bool {
			ti, _ := records[i].Metadata.Time()
			tj, _ := records[j].Metadata.Time()
			return ti.Before(tj)
		})
	}
}
