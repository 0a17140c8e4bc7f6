// internal/ghstatus/render.go
package ghstatus

import (
	"html/template"
	"io"
)

// Label returns the short cell text shown in the matrix table.
func (s State) Label() string {
	switch s {
	case StateSuccess:
		return "✓"
	case StateFailure:
		return "✗"
	case StateError:
		return "!"
	case StatePending:
		return "…"
	case StateNotRun:
		return "—"
	default:
		return "?"
	}
}

// CSSClass returns the table-cell class for a state.
func (s State) CSSClass() string {
	return "state-" + string(s)
}

var matrixTemplate = template.Must(template.New("matrix").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Pull request status</title>
<style>
body { font-family: sans-serif; margin: 1.5rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; text-align: center; }
th.check { writing-mode: vertical-rl; transform: rotate(180deg); max-height: 12rem; }
td.pr { text-align: left; white-space: nowrap; }
td.state-success { background: #d7f5d7; }
td.state-failure { background: #f8d0d0; }
td.state-error { background: #f3b8b8; }
td.state-pending { background: #fdf3c7; }
td.state-unknown { background: #e8e8e8; }
td.state-not-run { color: #999; }
p.empty { color: #666; }
</style>
</head>
<body>
<h1>Open pull requests</h1>
{{if .Rows}}
<table>
<tr>
<th>PR</th>
{{range .Columns}}<th class="check" title="{{.Origin}}">{{.Name}}</th>{{end}}
</tr>
{{range $row := .Rows}}
<tr>
<td class="pr"><a href="{{$row.PR.HTMLURL}}">#{{$row.PR.Number}}</a> {{$row.PR.Title}}</td>
{{range $col := $.Columns}}{{$s := $row.State $col}}<td class="{{$s.CSSClass}}" title="{{$s}}">{{$s.Label}}</td>{{end}}
</tr>
{{end}}
</table>
{{else}}
<p class="empty">No open pull requests.</p>
{{end}}
<p>Generated {{.GeneratedAt.Format "2006-01-02 15:04 MST"}}</p>
</body>
</html>
`))

// RenderHTML writes the matrix as a standalone HTML page.
func RenderHTML(w io.Writer, m Matrix) error {
	return matrixTemplate.Execute(w, m)
}
