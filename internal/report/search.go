package report

import (
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/subcrack/internal/model"
	"github.com/verte-zerg/subcrack/internal/mono"
	"github.com/verte-zerg/subcrack/internal/vigenere"
)

// RenderRestarts prints one row per restart and marks the winner.
func RenderRestarts(w io.Writer, res mono.Result) error {
	if len(res.Restarts) == 0 {
		_, err := fmt.Fprintln(w, "No restarts recorded.")
		return err
	}
	t := table{
		headers:    []string{"Restart", "Score", "Trials", "Accepted", "Key", ""},
		rightAlign: map[int]bool{0: true, 1: true, 2: true, 3: true},
	}
	for _, c := range res.Restarts {
		mark := ""
		if c.Restart == res.Best.Restart {
			mark = "*"
		}
		t.add(
			fmt.Sprintf("%d", c.Restart),
			fmt.Sprintf("%d", c.Score),
			fmt.Sprintf("%d", c.Trials),
			fmt.Sprintf("%d", c.Accepted),
			c.Key.String(),
			mark,
		)
	}
	title := fmt.Sprintf("Restarts (seed %s, score %d)", res.Seed.String(), res.SeedScore)
	return t.write(w, title)
}

// RenderBoundaries prints the winning segment of every key boundary.
func RenderBoundaries(w io.Writer, res vigenere.Result) error {
	if len(res.Boundaries) == 0 {
		_, err := fmt.Fprintln(w, "No boundaries recorded.")
		return err
	}
	t := table{
		headers:    []string{"Pos", "Next", "Segment", "Fitness", "Chosen"},
		rightAlign: map[int]bool{0: true, 1: true, 3: true},
	}
	n := len(res.Boundaries)
	for _, b := range res.Boundaries {
		t.add(
			fmt.Sprintf("%d", b.Position),
			fmt.Sprintf("%d", (b.Position+1)%n),
			string([]byte{b.Lead, b.Trail}),
			fmt.Sprintf("%d", b.Fitness),
			string(res.Key[b.Position]),
		)
	}
	return t.write(w, "Boundaries")
}

// RenderHistory prints stored break runs, oldest first.
func RenderHistory(w io.Writer, records []model.BreakRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No runs found.")
		return err
	}
	t := table{
		headers:    []string{"ID", "Finished", "Cipher", "Letters", "Key", "Score", "Duration"},
		rightAlign: map[int]bool{0: true, 3: true, 5: true, 6: true},
	}
	for _, r := range records {
		t.add(
			fmt.Sprintf("%d", r.ID),
			r.EndedAt.Local().Format("2006-01-02 15:04"),
			string(r.Cipher),
			fmt.Sprintf("%d", r.TextLength),
			r.Key,
			fmt.Sprintf("%d", r.Score),
			(time.Duration(r.DurationMs) * time.Millisecond).String(),
		)
	}
	return t.write(w, fmt.Sprintf("Runs (%d)", len(records)))
}

// RenderRunDetail prints a stored run and its recorded restarts.
func RenderRunDetail(w io.Writer, rec model.BreakRecord, restarts []model.RestartRecord) error {
	lines := []string{
		fmt.Sprintf("Run %d (%s)", rec.ID, rec.Cipher),
		fmt.Sprintf("Input: %s", rec.Input),
		fmt.Sprintf("Started: %s", rec.StartedAt.Local().Format(time.DateTime)),
		fmt.Sprintf("Duration: %s", time.Duration(rec.DurationMs)*time.Millisecond),
		fmt.Sprintf("Letters: %d", rec.TextLength),
		fmt.Sprintf("Key: %s", rec.Key),
		fmt.Sprintf("Score: %d", rec.Score),
	}
	if rec.Cipher == model.CipherMono {
		lines = append(lines, fmt.Sprintf("Restarts: %d, stall threshold %d", rec.Restarts, rec.Stall))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if len(restarts) == 0 {
		return nil
	}
	t := table{
		headers:    []string{"Restart", "Score", "Trials", "Accepted", "Key"},
		rightAlign: map[int]bool{0: true, 1: true, 2: true, 3: true},
	}
	for _, r := range restarts {
		t.add(
			fmt.Sprintf("%d", r.Restart),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d", r.Trials),
			fmt.Sprintf("%d", r.Accepted),
			r.Key,
		)
	}
	return t.write(w, "Restarts")
}
