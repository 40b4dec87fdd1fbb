package mono

import (
	"sort"

	"github.com/verte-zerg/subcrack/internal/subst"
)

// LetterCounts counts every letter of text; all 26 counters are present.
// Bytes outside 'a'..'z' are ignored.
func LetterCounts(text string) [26]int {
	var counts [26]int
	for i := 0; i < len(text); i++ {
		if ch := text[i]; ch >= 'a' && ch <= 'z' {
			counts[ch-'a']++
		}
	}
	return counts
}

// FrequencyOrder returns the letters sorted by descending count. Letters with
// equal counts stay in alphabetical order.
func FrequencyOrder(counts [26]int) [26]byte {
	var order [26]byte
	for i := range order {
		order[i] = byte('a' + i)
	}
	sort.SliceStable(order[:], func(i, j int) bool {
		return counts[order[i]-'a'] > counts[order[j]-'a']
	})
	return order
}

// FrequencySeed guesses a key by pairing the i-th most frequent ciphertext
// letter with the i-th letter of rank.
func FrequencySeed(ciphertext string, rank [26]byte) subst.Key {
	order := FrequencyOrder(LetterCounts(ciphertext))
	var key subst.Key
	for i, plain := range rank {
		key[plain-'a'] = order[i]
	}
	return key
}
