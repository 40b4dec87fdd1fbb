package freq

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestBuildTableRankAndScores(t *testing.T) {
	monograms := "e 100\nt 90\na 90\no 50\n"
	ngrams := "tion 1000\nthat 100\nther 10\n"
	table, err := BuildTable(strings.NewReader(monograms), strings.NewReader(ngrams))
	if err != nil {
		t.Fatalf("BuildTable failed: %v", err)
	}
	rank := table.Rank()
	if got := string(rank[:4]); got != "etao" {
		t.Fatalf("expected ties to keep source order, got %q", got)
	}
	if got := string(rank[4:7]); got != "bcd" {
		t.Fatalf("expected missing letters in alphabetical order, got %q", got)
	}

	ng := table.Ngrams()
	if ng.N() != 4 {
		t.Fatalf("expected n=4, got %d", ng.N())
	}
	top := ng.Score("tion")
	if top < MaxScore-1 || top > MaxScore {
		t.Fatalf("expected top score near %d, got %d", MaxScore, top)
	}
	want := int32(math.Log(100) * (MaxScore / math.Log(1000)))
	if got := ng.Score("that"); got != want {
		t.Fatalf("expected %d for that, got %d", want, got)
	}
	if got := ng.Score("zzzz"); got != 0 {
		t.Fatalf("expected absent n-gram to score 0, got %d", got)
	}
	if got := ng.Score("tio"); got != 0 {
		t.Fatalf("expected wrong-length n-gram to score 0, got %d", got)
	}
}

func TestBuildTableIsDeterministic(t *testing.T) {
	source := "abcd 12\nbcde 7\ncdef 3\nabce 1\n"
	first, err := BuildTable(strings.NewReader("a 1\n"), strings.NewReader(source))
	if err != nil {
		t.Fatalf("BuildTable failed: %v", err)
	}
	second, err := BuildTable(strings.NewReader("a 1\n"), strings.NewReader(source))
	if err != nil {
		t.Fatalf("BuildTable failed: %v", err)
	}
	if len(first.ngrams.scores) != len(second.ngrams.scores) {
		t.Fatalf("table sizes differ")
	}
	for i := range first.ngrams.scores {
		if first.ngrams.scores[i] != second.ngrams.scores[i] {
			t.Fatalf("scores differ at %d", i)
		}
	}
}

func TestBuildBigramGridSmoothing(t *testing.T) {
	grid, err := BuildBigramGrid(strings.NewReader("th 1000\nhe 10\n"))
	if err != nil {
		t.Fatalf("BuildBigramGrid failed: %v", err)
	}
	if got := grid.Score('t', 'h'); got < MaxScore-1 {
		t.Fatalf("expected th near %d, got %d", MaxScore, got)
	}
	want := int32(math.Log(10) * (MaxScore / math.Log(1000)))
	if got := grid.Score('h', 'e'); got != want {
		t.Fatalf("expected he=%d, got %d", want, got)
	}
	// log(1) == 0, so unseen cells exist but contribute nothing.
	if got := grid.Score('q', 'z'); got != 0 {
		t.Fatalf("expected unseen bigram to score 0, got %d", got)
	}
}

func TestAllOnesDoesNotDivideByZero(t *testing.T) {
	table, err := BuildTable(strings.NewReader("a 1\n"), strings.NewReader("ab 1\ncd 1\n"))
	if err != nil {
		t.Fatalf("BuildTable failed: %v", err)
	}
	if got := table.Ngrams().Score("ab"); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	grid, err := BuildBigramGrid(strings.NewReader("ab 1\n"))
	if err != nil {
		t.Fatalf("BuildBigramGrid failed: %v", err)
	}
	if got := grid.Score('a', 'b'); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestMalformedSources(t *testing.T) {
	tests := []struct {
		name   string
		source string
		line   int
	}{
		{"missing separator", "tion1000\n", 1},
		{"tab separator", "tion\t1000\n", 1},
		{"non-integer count", "tion 10x\n", 1},
		{"zero count", "tion 0\n", 1},
		{"length mismatch", "tion 5\nthe 3\n", 2},
		{"non-letter token", "ti0n 5\n", 1},
		{"empty", "\n\n", 0},
		{"too long", "abcde 5\n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildTable(strings.NewReader("e 1\n"), strings.NewReader(tt.source))
			if !errors.Is(err, ErrDataFormat) {
				t.Fatalf("expected ErrDataFormat, got %v", err)
			}
			var dfe *DataFormatError
			if !errors.As(err, &dfe) {
				t.Fatalf("expected *DataFormatError, got %T", err)
			}
			if dfe.Line != tt.line {
				t.Fatalf("expected line %d, got %d", tt.line, dfe.Line)
			}
		})
	}
}

func TestParseCountsToleratesCRLFAndCase(t *testing.T) {
	counts, err := ParseCounts(strings.NewReader("TH 5\r\n\r\nhe 3\r\n"), "test")
	if err != nil {
		t.Fatalf("ParseCounts failed: %v", err)
	}
	if len(counts) != 2 || counts[0].Token != "th" || counts[1].Count != 3 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}
