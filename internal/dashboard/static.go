// internal/dashboard/static.go
package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"time"

	"github.com/solverlab/benchdash/internal/badge"
	"github.com/solverlab/benchdash/internal/bench"
	"github.com/solverlab/benchdash/internal/chart"
	"github.com/solverlab/benchdash/internal/ghstatus"
	"github.com/solverlab/benchdash/internal/logging"
	"github.com/solverlab/benchdash/internal/util"
)

// RenderStatic writes the three dashboard pages into outDir as plain files:
// index.html (charts, desktop layout), pulls.html, badges.html. Failures on
// one page degrade that page to its inline message, mirroring the server.
func (s *Server) RenderStatic(ctx context.Context, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := util.WriteFile(filepath.Join(outDir, "index.html"), s.chartsHTML(ctx)); err != nil {
		return err
	}
	if err := util.WriteFile(filepath.Join(outDir, "pulls.html"), s.pullsHTML(ctx)); err != nil {
		return err
	}
	if err := util.WriteFile(filepath.Join(outDir, "badges.html"), s.badgesHTML(ctx)); err != nil {
		return err
	}
	logging.LogEvent("static dashboard rendered to %s", outDir)
	return nil
}

func (s *Server) chartsHTML(ctx context.Context) []byte {
	series := s.LoadSeries(ctx)
	if len(series) == 0 {
		return inlineMessage("No benchmark data available.")
	}

	palette := bench.Palette(bench.AllRegions(series))
	model := chart.Build(series, palette, chart.Options{CommitBaseURL: s.CommitBaseURL()})

	var buf bytes.Buffer
	if err := chart.Page(model).Render(&buf); err != nil {
		logging.LogEvent("chart render: %v", err)
		return inlineMessage("Chart rendering failed.")
	}
	return buf.Bytes()
}

func (s *Server) pullsHTML(ctx context.Context) []byte {
	gh := s.cfg.GitHub
	matrix, err := ghstatus.BuildMatrix(ctx, s.gh, gh.Owner, gh.Repo,
		gh.StatusDelay(), gh.DocsColumnPattern())
	if err != nil {
		return inlineMessage(fmt.Sprintf("Pull request data unavailable: %v", err))
	}

	var buf bytes.Buffer
	if err := ghstatus.RenderHTML(&buf, matrix); err != nil {
		logging.LogEvent("matrix render: %v", err)
		return inlineMessage("Matrix rendering failed.")
	}
	return buf.Bytes()
}

func (s *Server) badgesHTML(ctx context.Context) []byte {
	set, err := badge.LoadSet(s.cfg.Badges.BadgeSetFile())
	if err != nil {
		return inlineMessage("No badges configured.")
	}

	source := s.cfg.Badges.LastSyncURL
	if source == "" {
		source = filepath.Join(s.cfg.DataDirPath(), "last_sync.json")
	}
	lastSync, known := badge.LoadLastSync(ctx, s.client, source)

	var buf bytes.Buffer
	views := badgeViews(badge.Overlay(set, lastSync, known, time.Now().UTC()))
	if err := badgesTemplate.Execute(&buf, views); err != nil {
		logging.LogEvent("badge render: %v", err)
		return inlineMessage("Badge rendering failed.")
	}
	return buf.Bytes()
}

func inlineMessage(msg string) []byte {
	return []byte(fmt.Sprintf("<!DOCTYPE html><html><body><p>%s</p></body></html>\n", html.EscapeString(msg)))
}
