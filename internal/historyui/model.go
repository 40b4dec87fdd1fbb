// Package historyui provides the Bubble Tea browser over stored break runs.
package historyui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/subcrack/internal/model"
	"github.com/verte-zerg/subcrack/internal/report"
)

// RestartLister loads the restarts recorded for a run.
type RestartLister interface {
	ListRestarts(ctx context.Context, breakID int64) ([]model.RestartRecord, error)
}

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A")).
			Padding(0, 1)
)

// Model implements the history browser.
type Model struct {
	lister  RestartLister
	records []model.BreakRecord

	runs       table.Model
	detail     viewport.Model
	showDetail bool
	errMsg     string

	width  int
	height int
}

// NewModel constructs a browser over records, newest at the bottom.
func NewModel(lister RestartLister, records []model.BreakRecord) *Model {
	m := &Model{
		lister:  lister,
		records: records,
		detail:  viewport.New(0, 0),
	}
	m.runs = table.New(
		table.WithColumns(runColumns()),
		table.WithRows(runRows(records)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	m.runs.SetStyles(tableStyles())
	if len(records) > 0 {
		m.runs.GotoBottom()
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		if m.showDetail {
			switch msg.String() {
			case "esc", "backspace", "enter":
				m.showDetail = false
				return m, nil
			}
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
		if msg.String() == "enter" {
			m.openDetail()
			return m, nil
		}
		var cmd tea.Cmd
		m.runs, cmd = m.runs.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	header := headerStyle.Render(fmt.Sprintf("subcrack history · %d runs", len(m.records)))
	var body string
	switch {
	case len(m.records) == 0:
		body = "No runs recorded yet."
	case m.showDetail:
		body = detailStyle.Render(m.detail.View())
	default:
		body = m.runs.View()
	}
	parts := []string{header, body}
	if m.errMsg != "" {
		parts = append(parts, errorStyle.Render(m.errMsg))
	}
	parts = append(parts, footerStyle.Render(m.footer()))
	return strings.Join(parts, "\n")
}

func (m *Model) footer() string {
	if m.showDetail {
		return "↑/↓ scroll · enter/esc back · q quit"
	}
	return "↑/↓ select · enter details · q quit"
}

func (m *Model) openDetail() {
	idx := m.runs.Cursor()
	if idx < 0 || idx >= len(m.records) {
		return
	}
	rec := m.records[idx]
	var restarts []model.RestartRecord
	if rec.Cipher == model.CipherMono && m.lister != nil {
		var err error
		restarts, err = m.lister.ListRestarts(context.Background(), rec.ID)
		if err != nil {
			m.errMsg = fmt.Sprintf("failed to load restarts: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := report.RenderRunDetail(&buf, rec, restarts); err != nil {
		m.errMsg = fmt.Sprintf("failed to render run: %v", err)
		return
	}
	m.detail.SetContent(strings.TrimRight(buf.String(), "\n"))
	m.detail.GotoTop()
	m.showDetail = true
}

func (m *Model) updateLayout() {
	// header + footer + optional error line
	body := max(3, m.height-3)
	m.runs.SetHeight(body - 1)
	m.runs.SetWidth(m.width)
	frameW, frameH := detailStyle.GetFrameSize()
	m.detail.Width = max(10, m.width-frameW)
	m.detail.Height = max(1, body-frameH)
}

func runColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Finished", Width: 16},
		{Title: "Cipher", Width: 8},
		{Title: "Letters", Width: 7},
		{Title: "Score", Width: 10},
		{Title: "Time", Width: 8},
		{Title: "Key", Width: 26},
	}
}

func runRows(records []model.BreakRecord) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", r.ID),
			r.EndedAt.Local().Format("2006-01-02 15:04"),
			string(r.Cipher),
			fmt.Sprintf("%d", r.TextLength),
			fmt.Sprintf("%d", r.Score),
			(time.Duration(r.DurationMs) * time.Millisecond).Round(time.Millisecond).String(),
			r.Key,
		})
	}
	return rows
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.Color("#3A3A3A")).
		Bold(true)
	return styles
}
