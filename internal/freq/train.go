package freq

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Train counts the overlapping n-grams of text. Windows holding anything but
// 'a'..'z' are skipped. The result is ordered by descending count, then token.
func Train(text string, n int) []Count {
	if n <= 0 || len(text) < n {
		return nil
	}
	seen := map[string]int{}
	for i := 0; i+n <= len(text); i++ {
		gram := text[i : i+n]
		if !lettersOnly(gram) {
			continue
		}
		seen[gram]++
	}
	counts := make([]Count, 0, len(seen))
	for token, c := range seen {
		counts = append(counts, Count{Token: token, Count: c})
	}
	sortCounts(counts)
	return counts
}

// TableFromCorpus trains monogram and n-gram counts on text and builds a Table.
func TableFromCorpus(text string, n int) (*Table, error) {
	return TableFromCounts(Train(text, 1), Train(text, n))
}

// BigramGridFromCorpus trains bigram counts on text and builds a BigramGrid.
func BigramGridFromCorpus(text string) (*BigramGrid, error) {
	return BigramGridFromCounts(Train(text, 2))
}

// WriteCounts writes counts as "<token> <count>" lines.
func WriteCounts(w io.Writer, counts []Count) error {
	writer := bufio.NewWriter(w)
	for _, c := range counts {
		if _, err := fmt.Fprintf(writer, "%s %d\n", c.Token, c.Count); err != nil {
			return err
		}
	}
	return writer.Flush()
}

// WriteCountsFile writes counts to path through a temp file and rename.
func WriteCountsFile(path string, counts []Count) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "freq-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create temp frequency file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := WriteCounts(tmpFile, counts); err != nil {
		return fmt.Errorf("failed to write frequency file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close frequency file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write frequency file: %w", err)
	}
	return nil
}

func sortCounts(counts []Count) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count == counts[j].Count {
			return counts[i].Token < counts[j].Token
		}
		return counts[i].Count > counts[j].Count
	})
}
