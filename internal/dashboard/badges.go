// internal/dashboard/badges.go
package dashboard

import (
	"html/template"
	"net/http"
	"path/filepath"
	"time"

	"github.com/solverlab/benchdash/internal/badge"
	"github.com/solverlab/benchdash/internal/logging"
)

var badgesTemplate = template.Must(template.New("badges").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Status badges</title>
<style>
body { font-family: sans-serif; margin: 1.5rem; }
div.badge { display: inline-block; margin-right: 0.8rem; }
</style>
</head>
<body>
<h1>Status badges</h1>
{{range .}}
<div class="badge" title="{{.Name}}: {{.Freshness}}">
{{if .Src}}<img src="{{.Src}}" alt="{{.Label}}">{{else}}{{.Inline}}{{end}}
</div>
{{end}}
</body>
</html>
`))

// badgeView is one badge prepared for the template: either an image source
// or an inline placeholder SVG.
type badgeView struct {
	Name      string
	Label     string
	Freshness badge.Freshness
	Src       string
	Inline    template.HTML
}

func (s *Server) handleBadges(w http.ResponseWriter, r *http.Request) {
	set, err := badge.LoadSet(s.cfg.Badges.BadgeSetFile())
	if err != nil {
		writeInlineMessage(w, "No badges configured.")
		return
	}

	source := s.cfg.Badges.LastSyncURL
	if source == "" {
		source = filepath.Join(s.cfg.DataDirPath(), "last_sync.json")
	}
	lastSync, known := badge.LoadLastSync(r.Context(), s.client, source)

	views := badgeViews(badge.Overlay(set, lastSync, known, time.Now().UTC()))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := badgesTemplate.Execute(w, views); err != nil {
		logging.LogEvent("badge render: %v", err)
	}
}

func badgeViews(resolved []badge.Resolved) []badgeView {
	views := make([]badgeView, 0, len(resolved))
	for _, r := range resolved {
		v := badgeView{
			Name:      r.Name,
			Label:     r.Label,
			Freshness: r.Freshness,
		}
		if r.Src != "" {
			v.Src = "/data/" + r.Src
		} else {
			v.Inline = template.HTML(r.SVG)
		}
		views = append(views, v)
	}
	return views
}
