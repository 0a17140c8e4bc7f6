// internal/badge/badge.go
// Package badge classifies synced status badges as fresh or stale and
// generates placeholder images for everything else.
package badge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/solverlab/benchdash/internal/bench"
	"github.com/solverlab/benchdash/internal/fetchx"
	"github.com/solverlab/benchdash/internal/logging"
)

// Category is a badge freshness class with its own staleness threshold,
// measured from the last sync to now.
type Category struct {
	Name      string
	Threshold time.Duration
}

// The three badge categories. A badge's category is inferred from its
// filename; anything unrecognized falls into the slow-moving release class.
var (
	CategoryDevel   = Category{Name: "devel", Threshold: 24 * time.Hour}
	CategoryDocs    = Category{Name: "docs", Threshold: 48 * time.Hour}
	CategoryRelease = Category{Name: "release", Threshold: 7 * 24 * time.Hour}
)

// CategoryFor infers a badge's category from its filename.
func CategoryFor(filename string) Category {
	base := strings.ToLower(filepath.Base(filename))
	switch {
	case strings.Contains(base, "devel"):
		return CategoryDevel
	case strings.Contains(base, "docs"):
		return CategoryDocs
	default:
		return CategoryRelease
	}
}

// LastSync is the timestamp artifact the sync job leaves behind.
type LastSync struct {
	LastSync      string `json:"last_sync"`
	UnixTimestamp int64  `json:"unix_timestamp"`
}

// LoadLastSync fetches the last-sync artifact. The boolean is false when the
// artifact is missing or unusable; callers then treat every badge as unknown.
func LoadLastSync(ctx context.Context, c *fetchx.Client, source string) (time.Time, bool) {
	var ls LastSync
	if err := c.JSON(ctx, source, &ls); err != nil {
		logging.LogEvent("last-sync %s unavailable: %v", source, err)
		return time.Time{}, false
	}
	if ls.UnixTimestamp > 0 {
		return time.Unix(ls.UnixTimestamp, 0).UTC(), true
	}
	if t, err := bench.ParseTimestamp(ls.LastSync); err == nil {
		return t, true
	}
	logging.LogEvent("last-sync %s carries no usable timestamp", source)
	return time.Time{}, false
}

// Badge is one monitored status badge from the badge-set definition.
type Badge struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
	File  string `yaml:"file"`
}

type badgeSet struct {
	Badges []Badge `yaml:"badges"`
}

// LoadSet reads the YAML badge-set definition.
func LoadSet(path string) ([]Badge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read badge set %s: %w", path, err)
	}
	var set badgeSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse badge set %s: %w", path, err)
	}
	return set.Badges, nil
}

// Freshness is the display decision for one badge.
type Freshness string

const (
	Fresh   Freshness = "fresh"
	Stale   Freshness = "stale"
	Unknown Freshness = "unknown"
)

// Resolved is a badge with its display decision applied.
type Resolved struct {
	Badge
	Freshness Freshness

	// Src is the image source for fresh badges: the original file,
	// cache-busted with the sync timestamp.
	Src string

	// SVG is the generated placeholder for stale/unknown badges.
	SVG []byte
}

// Classify reports whether a badge synced at lastSync is stale at now:
// stale iff the elapsed time exceeds the badge category's threshold.
func Classify(filename string, lastSync, now time.Time) Freshness {
	if now.Sub(lastSync) > CategoryFor(filename).Threshold {
		return Stale
	}
	return Fresh
}

// CacheBusted appends the sync timestamp as a query parameter so browsers
// refetch the image after every sync.
func CacheBusted(src string, lastSync time.Time) string {
	sep := "?"
	if strings.Contains(src, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%st=%d", src, sep, lastSync.Unix())
}

// Overlay applies the staleness decision to every monitored badge. With no
// usable sync timestamp (known == false) every badge maps to the generic
// unknown placeholder.
func Overlay(badges []Badge, lastSync time.Time, known bool, now time.Time) []Resolved {
	resolved := make([]Resolved, 0, len(badges))
	for _, b := range badges {
		r := Resolved{Badge: b}
		switch {
		case !known:
			r.Freshness = Unknown
			r.SVG = UnknownSVG(b.Label)
		case Classify(b.File, lastSync, now) == Stale:
			r.Freshness = Stale
			r.SVG = OutOfSyncSVG(b.Label)
		default:
			r.Freshness = Fresh
			r.Src = CacheBusted(b.File, lastSync)
		}
		resolved = append(resolved, r)
	}
	return resolved
}
