package progress

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/subcrack/internal/mono"
	"github.com/verte-zerg/subcrack/internal/subst"
)

func TestTrialUpdatesRestartAndBest(t *testing.T) {
	m := NewModel("uryyb", 2, 100, nil)
	key := subst.IdentityKey()
	m.Update(TrialMsg{Restart: 1, Index: 40, Best: 900, Stall: 25, Key: key})
	m.Update(TrialMsg{Restart: 0, Index: 30, Best: 500, Stall: 3, Key: key.Swap(0, 1)})

	if m.restarts[1].trials != 40 || m.restarts[1].stall != 25 {
		t.Fatalf("unexpected restart state: %+v", m.restarts[1])
	}
	if m.bestScore != 900 || m.bestKey != key {
		t.Fatalf("expected best from restart 1, got %d %s", m.bestScore, m.bestKey)
	}
	out := m.View()
	for _, want := range []string{"Breaking 5 letters", "restart  1", "stall 25/100", "best 900", "uryyb"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}

	// Out-of-range restarts are ignored.
	m.Update(TrialMsg{Restart: 5, Best: 10000})
	if m.bestScore != 900 {
		t.Fatalf("out-of-range trial changed best score")
	}
}

func TestDoneQuitsAndShowsResult(t *testing.T) {
	m := NewModel("uryyb", 1, 100, nil)
	key := subst.IdentityKey()
	res := mono.Result{
		Best:     mono.Candidate{Restart: 0, Key: key, Score: 1234, Trials: 150, Accepted: 7},
		Restarts: []mono.Candidate{{Restart: 0, Key: key, Score: 1234, Trials: 150, Accepted: 7}},
	}
	_, cmd := m.Update(DoneMsg{Result: res})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	out := m.View()
	for _, want := range []string{"Done", "accepted 7", "best 1234"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
	if strings.Contains(out, "ctrl+c") {
		t.Fatalf("footer should be hidden once done")
	}
}

func TestDoneWithError(t *testing.T) {
	m := NewModel("abc", 1, 10, nil)
	m.Update(DoneMsg{Err: errors.New("restart 0 failed: boom")})
	out := m.View()
	if !strings.Contains(out, "Failed") || !strings.Contains(out, "boom") {
		t.Fatalf("expected failure in view:\n%s", out)
	}
}

func TestCtrlCCancelsOnce(t *testing.T) {
	calls := 0
	m := NewModel("abc", 1, 10, func() { calls++ })
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if calls != 1 {
		t.Fatalf("expected cancel once, got %d", calls)
	}
	if !strings.Contains(m.View(), "Cancelling") {
		t.Fatalf("expected cancelling status")
	}
}

func TestObserverSamplesPerRestart(t *testing.T) {
	var mu sync.Mutex
	var got []TrialMsg
	send := func(msg tea.Msg) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, msg.(TrialMsg))
	}
	obs := Observer(send, 2, time.Hour)
	obs(mono.Trial{Restart: 0, Index: 1})
	obs(mono.Trial{Restart: 0, Index: 2})
	obs(mono.Trial{Restart: 1, Index: 1})
	obs(mono.Trial{Restart: 3, Index: 1})

	if len(got) != 2 {
		t.Fatalf("expected 2 forwarded trials, got %d", len(got))
	}
	if got[0].Restart != 0 || got[0].Index != 1 || got[1].Restart != 1 {
		t.Fatalf("unexpected forwarded trials: %+v", got)
	}
}
