// internal/syncjob/syncjob.go
// Package syncjob mirrors benchmark result files into the web-servable data
// directory, regenerates the manifests, refreshes the badge set, and stamps
// the last-sync artifact. It is the out-of-band provisioning process the
// dashboard reads from; it runs as a fixed daily batch job.
package syncjob

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/solverlab/benchdash/internal/appconfig"
	"github.com/solverlab/benchdash/internal/badge"
	"github.com/solverlab/benchdash/internal/bench"
	"github.com/solverlab/benchdash/internal/logging"
	"github.com/solverlab/benchdash/internal/manifest"
	"github.com/solverlab/benchdash/internal/util"
)

// Report summarizes one sync run.
type Report struct {
	FilesCopied       int
	FilesInvalid      int
	ManifestsWritten  int
	BadgesFetched     int
	BadgesPlaceholder int
}

// Run executes the full sync: mirror result files per source, write one
// manifest per source, refresh badges, write last_sync.json. Per-item
// failures are logged and skipped; there is no rollback, so an interrupted
// run can leave partial progress in place.
func Run(ctx context.Context, cfg *appconfig.Config, now time.Time) (*Report, error) {
	report := &Report{}
	dataDir := cfg.DataDirPath()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	for _, src := range cfg.Sync.Sources {
		if err := mirrorSource(src, dataDir, now, report); err != nil {
			return report, err
		}
	}

	syncBadges(ctx, cfg, dataDir, report)

	if err := writeLastSync(dataDir, now); err != nil {
		return report, err
	}

	logging.LogEvent("sync complete: %d files (%d invalid), %d manifests, %d badges (%d placeholders)",
		report.FilesCopied, report.FilesInvalid, report.ManifestsWritten,
		report.BadgesFetched, report.BadgesPlaceholder)
	return report, nil
}

func mirrorSource(src appconfig.SyncSource, dataDir string, now time.Time, report *Report) error {
	destDir := filepath.Join(dataDir, src.Class)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", destDir, err)
	}

	entries, err := os.ReadDir(src.Dir)
	if err != nil {
		// A missing source tree is not fatal: the manifest is still
		// regenerated from whatever is already mirrored.
		logging.LogEvent("source %s unavailable: %v", src.Dir, err)
		entries = nil
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(src.Dir, e.Name()))
		if err != nil {
			logging.LogEvent("read %s: %v", e.Name(), err)
			continue
		}
		if err := bench.ValidateRecord(data); err != nil {
			// Invalid files are counted and still mirrored; render-time
			// parsing drops what it cannot use.
			logging.LogEvent("record %s: %v", e.Name(), err)
			report.FilesInvalid++
		}
		if err := util.WriteFile(filepath.Join(destDir, e.Name()), data); err != nil {
			logging.LogEvent("write %s: %v", e.Name(), err)
			continue
		}
		report.FilesCopied++
	}

	if err := writeManifest(destDir, now); err != nil {
		return err
	}
	report.ManifestsWritten++
	return nil
}

// writeManifest enumerates the mirrored result files and rewrites the
// directory's manifest.
func writeManifest(dir string, now time.Time) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("enumerate %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || name == "manifest.json" || name == "last_sync.json" {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	if files == nil {
		files = []string{}
	}

	m := manifest.Manifest{Files: files, Updated: now.UTC().Format(time.RFC3339)}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return util.WriteFile(filepath.Join(dir, "manifest.json"), data)
}

func syncBadges(ctx context.Context, cfg *appconfig.Config, dataDir string, report *Report) {
	badges, err := badge.LoadSet(cfg.Badges.BadgeSetFile())
	if err != nil {
		logging.LogEvent("badge set unavailable: %v", err)
		return
	}

	badgeDir := cfg.Sync.BadgeDir
	if badgeDir == "" {
		badgeDir = filepath.Join(dataDir, "badges")
	}
	if err := os.MkdirAll(badgeDir, 0o755); err != nil {
		logging.LogEvent("create badge dir: %v", err)
		return
	}

	client := &http.Client{Timeout: cfg.RequestTimeout()}
	for _, b := range badges {
		dest := filepath.Join(badgeDir, filepath.Base(b.File))
		data, err := download(ctx, client, b.URL)
		if err != nil {
			logging.LogEvent("badge %s: %v, writing placeholder", b.Name, err)
			data = badge.UnknownSVG(b.Label)
			report.BadgesPlaceholder++
		} else {
			report.BadgesFetched++
		}
		if err := util.WriteFile(dest, data); err != nil {
			logging.LogEvent("badge %s: write: %v", b.Name, err)
		}
	}
}

func download(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func writeLastSync(dataDir string, now time.Time) error {
	ls := badge.LastSync{
		LastSync:      now.UTC().Format(time.RFC3339),
		UnixTimestamp: now.Unix(),
	}
	data, err := json.MarshalIndent(ls, "", "  ")
	if err != nil {
		return fmt.Errorf("encode last-sync: %w", err)
	}
	return util.WriteFile(filepath.Join(dataDir, "last_sync.json"), data)
}
