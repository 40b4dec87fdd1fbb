package progress

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/subcrack/internal/freq"
	"github.com/verte-zerg/subcrack/internal/mono"
)

// SampleInterval is the minimum time between trials forwarded for one restart.
const SampleInterval = 50 * time.Millisecond

// Observer returns a mono.Observer that forwards at most one trial per
// interval for each restart to send.
func Observer(send func(tea.Msg), restarts int, interval time.Duration) mono.Observer {
	// Each restart only touches its own slot.
	last := make([]time.Time, restarts)
	return func(tr mono.Trial) {
		if tr.Restart < 0 || tr.Restart >= len(last) {
			return
		}
		now := time.Now()
		if now.Sub(last[tr.Restart]) < interval {
			return
		}
		last[tr.Restart] = now
		send(TrialMsg(tr))
	}
}

// Run breaks ciphertext while rendering the restarts on stderr. Interrupting
// the view cancels the break.
func Run(ctx context.Context, ciphertext string, table *freq.Table, opts mono.Options) (mono.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewModel(ciphertext, opts.Restarts, opts.StallThreshold, cancel)
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))

	sample := Observer(p.Send, opts.Restarts, SampleInterval)
	if prev := opts.Observer; prev != nil {
		opts.Observer = func(tr mono.Trial) {
			prev(tr)
			sample(tr)
		}
	} else {
		opts.Observer = sample
	}

	done := make(chan DoneMsg, 1)
	go func() {
		res, err := mono.Break(ctx, ciphertext, table, opts)
		msg := DoneMsg{Result: res, Err: err}
		done <- msg
		p.Send(msg)
	}()

	if _, err := p.Run(); err != nil {
		logErrf("progress view failed: %v\n", err)
	}
	out := <-done
	return out.Result, out.Err
}
