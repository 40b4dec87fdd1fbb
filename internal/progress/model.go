// Package progress provides the Bubble Tea view of a running monoalphabetic break.
package progress

import (
	"context"
	"fmt"
	"strings"
	"time"

	pbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/subcrack/internal/mono"
	"github.com/verte-zerg/subcrack/internal/subst"
)

// TrialMsg carries a sampled trial of one restart.
type TrialMsg mono.Trial

// DoneMsg reports the end of the break.
type DoneMsg struct {
	Result mono.Result
	Err    error
}

type restartView struct {
	trials   int
	best     int64
	stall    int
	accepted int
	done     bool
}

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	previewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

const previewLetters = 240

// Model implements the live restart view.
type Model struct {
	ciphertext string
	stall      int
	restarts   []restartView

	bestKey   subst.Key
	bestScore int64
	hasBest   bool

	spinner spinner.Model
	bar     pbar.Model
	started time.Time
	now     time.Time
	width   int

	cancel    context.CancelFunc
	cancelled bool
	done      bool
	err       error
}

// NewModel constructs a view for restarts walks over ciphertext. cancel is
// called when the user interrupts.
func NewModel(ciphertext string, restarts, stall int, cancel context.CancelFunc) *Model {
	now := time.Now()
	return &Model{
		ciphertext: ciphertext,
		stall:      stall,
		restarts:   make([]restartView, restarts),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(titleStyle)),
		bar:        pbar.New(pbar.WithDefaultGradient(), pbar.WithoutPercentage(), pbar.WithWidth(30)),
		started:    now,
		now:        now,
		cancel:     cancel,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = max(10, min(40, msg.Width/3))
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			if !m.cancelled && m.cancel != nil {
				m.cancel()
			}
			m.cancelled = true
		}
		return m, nil
	case TrialMsg:
		m.applyTrial(mono.Trial(msg))
		return m, nil
	case DoneMsg:
		m.finish(msg)
		return m, tea.Quit
	case spinner.TickMsg:
		m.now = time.Now()
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) applyTrial(tr mono.Trial) {
	if tr.Restart < 0 || tr.Restart >= len(m.restarts) {
		return
	}
	r := &m.restarts[tr.Restart]
	r.trials = tr.Index
	r.best = tr.Best
	r.stall = tr.Stall
	if !m.hasBest || tr.Best > m.bestScore {
		m.bestKey = tr.Key
		m.bestScore = tr.Best
		m.hasBest = true
	}
}

func (m *Model) finish(msg DoneMsg) {
	m.done = true
	m.err = msg.Err
	m.now = time.Now()
	if msg.Err != nil {
		return
	}
	for _, c := range msg.Result.Restarts {
		if c.Restart < 0 || c.Restart >= len(m.restarts) {
			continue
		}
		m.restarts[c.Restart] = restartView{
			trials:   c.Trials,
			best:     c.Score,
			accepted: c.Accepted,
			done:     true,
		}
	}
	m.bestKey = msg.Result.Best.Key
	m.bestScore = msg.Result.Best.Score
	m.hasBest = true
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	for i := range m.restarts {
		b.WriteString(m.renderRestart(i))
		b.WriteByte('\n')
	}
	if m.hasBest {
		b.WriteByte('\n')
		b.WriteString(labelStyle.Render("best ") + valueStyle.Render(fmt.Sprintf("%d", m.bestScore)))
		b.WriteString(labelStyle.Render("  key ") + valueStyle.Render(m.bestKey.String()))
		b.WriteByte('\n')
		b.WriteString(previewStyle.Render(m.preview()))
		b.WriteByte('\n')
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteByte('\n')
	}
	if !m.done {
		b.WriteString(footerStyle.Render(m.renderFooter()))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m *Model) renderHeader() string {
	elapsed := m.now.Sub(m.started).Round(100 * time.Millisecond)
	status := "Breaking"
	switch {
	case m.done && m.err != nil:
		status = "Failed"
	case m.done:
		status = "Done"
	case m.cancelled:
		status = "Cancelling"
	}
	line := fmt.Sprintf("%s %d letters · %d restarts · %s", status, len(m.ciphertext), len(m.restarts), elapsed)
	if m.done {
		return titleStyle.Render(line)
	}
	return m.spinner.View() + " " + titleStyle.Render(line)
}

func (m *Model) renderRestart(i int) string {
	r := m.restarts[i]
	fraction := 1.0
	if !r.done && m.stall > 0 {
		fraction = float64(r.stall) / float64(m.stall)
	}
	stats := fmt.Sprintf("best %d  trials %d", r.best, r.trials)
	if r.done {
		stats += fmt.Sprintf("  accepted %d", r.accepted)
	} else {
		stats += fmt.Sprintf("  stall %d/%d", r.stall, m.stall)
	}
	return fmt.Sprintf("%s %s  %s",
		labelStyle.Render(fmt.Sprintf("restart %2d", i)),
		m.bar.ViewAs(fraction),
		valueStyle.Render(stats),
	)
}

func (m *Model) renderFooter() string {
	if m.cancelled {
		return "waiting for restarts to stop..."
	}
	return "bars fill as a restart stalls · ctrl+c cancel"
}

// preview decrypts the start of the ciphertext with the best key so far.
func (m *Model) preview() string {
	text := m.ciphertext
	if len(text) > previewLetters {
		text = text[:previewLetters]
	}
	plain := subst.DecryptMono(text, m.bestKey)
	width := m.width
	if width <= 0 {
		width = 80
	}
	return runewidth.Wrap(plain, width)
}
