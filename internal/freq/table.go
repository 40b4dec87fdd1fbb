// Package freq builds the letter, n-gram and bigram score tables used to rate
// candidate plaintexts.
//
// Counts are turned into scores by taking the natural log and rescaling so the
// largest observed log-count maps to MaxScore. N-gram tables are not smoothed:
// an n-gram missing from the source scores 0. The bigram grid is Laplace
// smoothed: every one of the 676 cells starts at count 1 before the source is
// overlaid. Built tables are immutable and safe for concurrent readers.
package freq

import (
	"fmt"
	"io"
	"math"
	"sort"
)

// MaxScore is the score assigned to the most frequent entry of a table.
const MaxScore = 1000000

// MaxNgramLen bounds the dense n-gram index (26^4 cells).
const MaxNgramLen = 4

// Table bundles the monogram rank and the n-gram scores.
type Table struct {
	rank   [26]byte
	ngrams *NgramTable
}

// Rank returns the letters ordered by descending corpus frequency.
func (t *Table) Rank() [26]byte {
	return t.rank
}

// Ngrams returns the n-gram score table.
func (t *Table) Ngrams() *NgramTable {
	return t.ngrams
}

// NgramTable scores fixed-length lowercase strings.
type NgramTable struct {
	n      int
	scores []int32
}

// N returns the n-gram length.
func (g *NgramTable) N() int {
	return g.n
}

// Score returns the score of gram, or 0 when gram is absent or malformed.
func (g *NgramTable) Score(gram string) int32 {
	if len(gram) != g.n {
		return 0
	}
	idx := 0
	for i := 0; i < len(gram); i++ {
		ch := gram[i]
		if ch < 'a' || ch > 'z' {
			return 0
		}
		idx = idx*26 + int(ch-'a')
	}
	return g.scores[idx]
}

// ScoreIndex returns the score for a base-26 n-gram index.
func (g *NgramTable) ScoreIndex(idx int) int32 {
	return g.scores[idx]
}

// BigramGrid holds a dense 26x26 score grid indexed by letter offsets.
type BigramGrid [26][26]int32

// Score returns the score of the bigram (a, b), both in 'a'..'z'.
func (g *BigramGrid) Score(a, b byte) int32 {
	return g[a-'a'][b-'a']
}

// BuildTable parses a monogram source and an n-gram source.
func BuildTable(monograms, ngrams io.Reader) (*Table, error) {
	monoCounts, err := ParseCounts(monograms, "monograms")
	if err != nil {
		return nil, err
	}
	ngramCounts, err := ParseCounts(ngrams, "ngrams")
	if err != nil {
		return nil, err
	}
	return TableFromCounts(monoCounts, ngramCounts)
}

// TableFromCounts builds a Table from already parsed counts.
func TableFromCounts(monograms, ngrams []Count) (*Table, error) {
	rank, err := rankLetters(monograms)
	if err != nil {
		return nil, err
	}
	table, err := ngramTable(ngrams)
	if err != nil {
		return nil, err
	}
	return &Table{rank: rank, ngrams: table}, nil
}

// BuildBigramGrid parses a bigram source into a smoothed, normalized grid.
func BuildBigramGrid(r io.Reader) (*BigramGrid, error) {
	counts, err := ParseCounts(r, "bigrams")
	if err != nil {
		return nil, err
	}
	return BigramGridFromCounts(counts)
}

// BigramGridFromCounts builds a BigramGrid from already parsed counts.
func BigramGridFromCounts(counts []Count) (*BigramGrid, error) {
	var raw [26][26]int
	for row := range raw {
		for col := range raw[row] {
			raw[row][col] = 1
		}
	}
	for _, c := range counts {
		if len(c.Token) != 2 || !lettersOnly(c.Token) {
			return nil, &DataFormatError{Source: "bigrams", Text: c.Token, Reason: "bigram token must have 2 letters"}
		}
		raw[c.Token[0]-'a'][c.Token[1]-'a'] = c.Count
	}

	var logs [26][26]float64
	maxLog := 0.0
	for row := range raw {
		for col := range raw[row] {
			logs[row][col] = math.Log(float64(raw[row][col]))
			maxLog = math.Max(maxLog, logs[row][col])
		}
	}
	grid := &BigramGrid{}
	if maxLog == 0 {
		return grid, nil
	}
	factor := MaxScore / maxLog
	for row := range logs {
		for col := range logs[row] {
			grid[row][col] = int32(logs[row][col] * factor)
		}
	}
	return grid, nil
}

// rankLetters orders letters by descending count. Equal counts keep source
// order, and letters absent from the source follow in alphabetical order.
func rankLetters(counts []Count) ([26]byte, error) {
	type item struct {
		letter byte
		count  int
	}
	var rank [26]byte
	items := make([]item, 0, 26)
	pos := map[byte]int{}
	for _, c := range counts {
		if len(c.Token) != 1 || !lettersOnly(c.Token) {
			return rank, &DataFormatError{Source: "monograms", Text: c.Token, Reason: "monogram token must be one letter"}
		}
		letter := c.Token[0]
		if i, ok := pos[letter]; ok {
			items[i].count = c.Count
			continue
		}
		pos[letter] = len(items)
		items = append(items, item{letter: letter, count: c.Count})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].count > items[j].count
	})
	n := 0
	for _, it := range items {
		rank[n] = it.letter
		n++
	}
	for letter := byte('a'); letter <= 'z'; letter++ {
		if _, ok := pos[letter]; !ok {
			rank[n] = letter
			n++
		}
	}
	return rank, nil
}

func ngramTable(counts []Count) (*NgramTable, error) {
	if len(counts) == 0 {
		return nil, &DataFormatError{Source: "ngrams", Reason: "no entries"}
	}
	n := len(counts[0].Token)
	if n == 0 || n > MaxNgramLen {
		return nil, &DataFormatError{Source: "ngrams", Text: counts[0].Token, Reason: fmt.Sprintf("n-gram length must be 1-%d", MaxNgramLen)}
	}
	size := 1
	for i := 0; i < n; i++ {
		size *= 26
	}
	table := &NgramTable{n: n, scores: make([]int32, size)}

	maxCount := 0
	for _, c := range counts {
		if len(c.Token) != n || !lettersOnly(c.Token) {
			return nil, &DataFormatError{Source: "ngrams", Text: c.Token, Reason: fmt.Sprintf("token length %d, want %d", len(c.Token), n)}
		}
		maxCount = max(maxCount, c.Count)
	}
	if maxCount <= 1 {
		return table, nil
	}
	factor := MaxScore / math.Log(float64(maxCount))
	for _, c := range counts {
		idx := 0
		for i := 0; i < n; i++ {
			idx = idx*26 + int(c.Token[i]-'a')
		}
		table.scores[idx] = int32(math.Log(float64(c.Count)) * factor)
	}
	return table, nil
}
