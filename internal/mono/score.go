package mono

import (
	"github.com/verte-zerg/subcrack/internal/freq"
	"github.com/verte-zerg/subcrack/internal/subst"
)

// scorer rates keys against one ciphertext. It is owned by a single run.
type scorer struct {
	letters []int8 // ciphertext letter offsets, -1 for anything else
	ngrams  *freq.NgramTable
	high    int // 26^(n-1)
}

func newScorer(ciphertext string, ngrams *freq.NgramTable) *scorer {
	letters := make([]int8, len(ciphertext))
	for i := 0; i < len(ciphertext); i++ {
		ch := ciphertext[i]
		if ch >= 'a' && ch <= 'z' {
			letters[i] = int8(ch - 'a')
		} else {
			letters[i] = -1
		}
	}
	high := 1
	for i := 1; i < ngrams.N(); i++ {
		high *= 26
	}
	return &scorer{letters: letters, ngrams: ngrams, high: high}
}

// score decrypts with key and sums the n-gram scores of every window.
// Windows that touch a non-letter score 0.
func (s *scorer) score(key subst.Key) int64 {
	var inv [26]int
	for plain, ch := range key {
		inv[ch-'a'] = plain
	}
	n := s.ngrams.N()
	var total int64
	idx, run := 0, 0
	for _, c := range s.letters {
		if c < 0 {
			idx, run = 0, 0
			continue
		}
		idx = (idx%s.high)*26 + inv[c]
		run++
		if run >= n {
			total += int64(s.ngrams.ScoreIndex(idx))
		}
	}
	return total
}

// Score decrypts ciphertext with key and sums the n-gram scores of every
// overlapping window of the plaintext.
func Score(ciphertext string, key subst.Key, ngrams *freq.NgramTable) int64 {
	return newScorer(ciphertext, ngrams).score(key)
}
