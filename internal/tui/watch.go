// internal/tui/watch.go
// Package tui provides the terminal watch view for the pull-request
// status matrix.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/solverlab/benchdash/internal/appconfig"
	"github.com/solverlab/benchdash/internal/ghstatus"
	"github.com/solverlab/benchdash/internal/util"
)

// refreshInterval is how long the watch view waits between matrix refreshes.
const refreshInterval = 60 * time.Second

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	columnStyle  = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// matrixMsg carries a freshly built status matrix into the model.
type matrixMsg struct{ matrix ghstatus.Matrix }

// matrixErrMsg carries a matrix build failure into the model.
type matrixErrMsg struct{ error }

// refreshMsg asks the model to fetch the matrix again.
type refreshMsg time.Time

// model is the Bubble Tea model for the watch view.
type model struct {
	ctx     context.Context
	cfg     *appconfig.Config
	client  *ghstatus.Client
	spinner spinner.Model

	matrix    ghstatus.Matrix
	fetched   bool
	loading   bool
	err       error
	updatedAt time.Time
	width     int
}

// initialModel creates the watch model in its loading state.
func initialModel(ctx context.Context, cfg *appconfig.Config, client *ghstatus.Client) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &model{
		ctx:     ctx,
		cfg:     cfg,
		client:  client,
		spinner: s,
		loading: true,
	}
}

// Init starts the spinner and kicks off the first matrix fetch.
func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchMatrix())
}

// fetchMatrix builds the matrix off the UI loop and reports the result.
func (m *model) fetchMatrix() tea.Cmd {
	return func() tea.Msg {
		gh := m.cfg.GitHub
		matrix, err := ghstatus.BuildMatrix(m.ctx, m.client, gh.Owner, gh.Repo,
			gh.StatusDelay(), gh.DocsColumnPattern())
		if err != nil {
			return matrixErrMsg{err}
		}
		return matrixMsg{matrix}
	}
}

// scheduleRefresh arms the next automatic refresh.
func scheduleRefresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

// Update handles key presses, window resizes, and fetch results.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			if !m.loading {
				m.loading = true
				return m, tea.Batch(m.spinner.Tick, m.fetchMatrix())
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case matrixMsg:
		m.matrix = msg.matrix
		m.fetched = true
		m.loading = false
		m.err = nil
		m.updatedAt = time.Now()
		return m, scheduleRefresh()

	case matrixErrMsg:
		m.loading = false
		m.err = msg.error
		return m, scheduleRefresh()

	case refreshMsg:
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.fetchMatrix())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the matrix as a plain-text table with one row per open
// pull request and one column per check.
func (m *model) View() string {
	var b strings.Builder

	title := fmt.Sprintf("%s/%s pull request status", m.cfg.GitHub.Owner, m.cfg.GitHub.Repo)
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n\n")

	switch {
	case m.loading && !m.fetched:
		b.WriteString(m.spinner.View())
		b.WriteString(" Fetching pull request checks...\n")
	case m.err != nil:
		b.WriteString(errStyle.Render(fmt.Sprintf("fetch failed: %v", m.err)))
		b.WriteString("\n")
	case len(m.matrix.Rows) == 0:
		b.WriteString(mutedStyle.Render("No open pull requests."))
		b.WriteString("\n")
	default:
		b.WriteString(m.renderTable())
	}

	b.WriteString("\n")
	if m.fetched {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("updated %s", m.updatedAt.Format("15:04:05"))))
		if m.loading {
			b.WriteString(" ")
			b.WriteString(m.spinner.View())
		}
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render("r refresh  q quit"))
	b.WriteString("\n")
	return b.String()
}

// titleWidth is how many runes of a pull-request title the table keeps.
const titleWidth = 40

func (m *model) renderTable() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%-6s %-*s", "PR", titleWidth, "Title"))
	for _, col := range m.matrix.Columns {
		b.WriteString(" ")
		b.WriteString(columnStyle.Render(shortColumn(col.Name)))
	}
	b.WriteString("\n")

	for _, row := range m.matrix.Rows {
		b.WriteString(fmt.Sprintf("#%-5d %-*s", row.PR.Number, titleWidth,
			util.TruncateRunes(row.PR.Title, titleWidth)))
		for _, col := range m.matrix.Columns {
			state := row.State(col)
			cell := fmt.Sprintf("%*s", len([]rune(shortColumn(col.Name)))+1, state.Label())
			b.WriteString(stateStyle(state).Render(cell))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// shortColumn keeps column headers narrow enough for a terminal table.
func shortColumn(name string) string {
	return util.TruncateRunes(name, 14)
}

func stateStyle(s ghstatus.State) lipgloss.Style {
	switch s {
	case ghstatus.StateSuccess:
		return successStyle
	case ghstatus.StateFailure, ghstatus.StateError:
		return failureStyle
	case ghstatus.StatePending:
		return pendingStyle
	default:
		return mutedStyle
	}
}

// Watch runs the interactive watch view until the user quits.
func Watch(ctx context.Context, cfg *appconfig.Config) error {
	client := ghstatus.NewClient(cfg.GitHub.APIBase, cfg.GitHub.Token, cfg.RequestTimeout())
	p := tea.NewProgram(initialModel(ctx, cfg, client))
	_, err := p.Run()
	return err
}
