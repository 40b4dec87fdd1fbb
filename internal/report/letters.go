package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/subcrack/internal/mono"
)

const sparkChars = " .:-=+*#%@"

// IndexOfCoincidence returns the probability that two letters drawn from
// counts without replacement are equal. English text is near 0.066, uniform
// random text near 0.038.
func IndexOfCoincidence(counts [26]int) float64 {
	var total, pairs int
	for _, c := range counts {
		total += c
		pairs += c * (c - 1)
	}
	if total < 2 {
		return 0
	}
	return float64(pairs) / float64(total*(total-1))
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	top := len(sparkChars) - 1
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(top)))
		b.WriteByte(sparkChars[max(0, min(idx, top))])
	}
	return b.String()
}

// RenderLetterTable prints ciphertext letter counts, most frequent first.
// When rank is non-nil the Guess column shows the reference letter of the
// same frequency rank, which is the mapping the search seeds from.
func RenderLetterTable(w io.Writer, text string, rank *[26]byte) error {
	counts := mono.LetterCounts(text)
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		_, err := fmt.Fprintln(w, "No letters found.")
		return err
	}

	order := mono.FrequencyOrder(counts)
	t := table{
		headers:    []string{"#", "Letter", "Count", "Percent"},
		rightAlign: map[int]bool{0: true, 2: true, 3: true},
	}
	if rank != nil {
		t.headers = append(t.headers, "Guess")
	}
	for i, letter := range order {
		c := counts[letter-'a']
		row := []string{
			fmt.Sprintf("%d", i+1),
			string(letter),
			fmt.Sprintf("%d", c),
			fmt.Sprintf("%.2f%%", float64(c)/float64(total)*100),
		}
		if rank != nil {
			row = append(row, string(rank[i]))
		}
		t.add(row...)
	}
	if err := t.write(w, "Letter Frequencies"); err != nil {
		return err
	}

	hist := make([]float64, len(counts))
	for i, c := range counts {
		hist[i] = float64(c)
	}
	if _, err := fmt.Fprintf(w, "Letters: %d\n", total); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Histogram: |%s|\n", Sparkline(hist)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "           abcdefghijklmnopqrstuvwxyz"); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Index of coincidence: %.4f\n", IndexOfCoincidence(counts))
	return err
}
