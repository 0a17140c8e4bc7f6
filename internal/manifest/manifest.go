// internal/manifest/manifest.go
// Package manifest discovers which benchmark result files exist.
package manifest

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/solverlab/benchdash/internal/fetchx"
	"github.com/solverlab/benchdash/internal/logging"
)

// Manifest is the on-disk index of benchmark result files.
type Manifest struct {
	Files   []string `json:"files"`
	Updated string   `json:"updated"`
}

// Load returns the file list named by the manifest at source. Every failure
// mode (missing resource, transport error, malformed JSON, a document
// without a files array) degrades to an empty list. Downstream code treats
// an empty list as a legitimate "nothing to chart" condition, not an error.
func Load(ctx context.Context, c *fetchx.Client, source string) []string {
	var m Manifest
	if err := c.JSON(ctx, source, &m); err != nil {
		logging.LogEvent("manifest %s unavailable: %v", source, err)
		return nil
	}
	if m.Files == nil {
		logging.LogEvent("manifest %s has no files array", source)
		return nil
	}
	return m.Files
}

// Resolve interprets each manifest entry relative to the manifest's own
// location, so a manifest can name sibling files without absolute paths.
func Resolve(manifestSource string, files []string) []string {
	resolved := make([]string, 0, len(files))
	for _, f := range files {
		resolved = append(resolved, resolveOne(manifestSource, f))
	}
	return resolved
}

func resolveOne(base, file string) string {
	if strings.HasPrefix(file, "http://") || strings.HasPrefix(file, "https://") {
		return file
	}
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		u, err := url.Parse(base)
		if err != nil {
			return file
		}
		ref, err := url.Parse(file)
		if err != nil {
			return file
		}
		return u.ResolveReference(ref).String()
	}
	if path.IsAbs(file) {
		return file
	}
	return path.Join(path.Dir(base), file)
}
