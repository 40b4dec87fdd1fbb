package freq

import (
	"fmt"
	"os"
)

// LoadTable reads the monogram and n-gram files into a Table.
func LoadTable(monogramPath, ngramPath string) (*Table, error) {
	monoCounts, err := parseFile(monogramPath)
	if err != nil {
		return nil, err
	}
	ngramCounts, err := parseFile(ngramPath)
	if err != nil {
		return nil, err
	}
	return TableFromCounts(monoCounts, ngramCounts)
}

// LoadRank reads a monogram file and returns its letter rank.
func LoadRank(monogramPath string) ([26]byte, error) {
	counts, err := parseFile(monogramPath)
	if err != nil {
		return [26]byte{}, err
	}
	return rankLetters(counts)
}

// LoadBigramGrid reads a bigram file into a BigramGrid.
func LoadBigramGrid(path string) (*BigramGrid, error) {
	counts, err := parseFile(path)
	if err != nil {
		return nil, err
	}
	return BigramGridFromCounts(counts)
}

func parseFile(path string) ([]Count, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open frequency file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only data.
			_ = cerr
		}
	}()
	return ParseCounts(file, path)
}
