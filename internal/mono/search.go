// Package mono recovers monoalphabetic substitution keys by hill climbing over
// random letter swaps, scored with an n-gram table.
//
// A run starts from a frequency-analysis seed, proposes a swap of two key
// positions per trial and keeps the swapped key only when it scores strictly
// higher. It stops after StallThreshold consecutive trials without
// improvement. Break runs several such walks concurrently from the same seed
// and returns the best.
package mono

import (
	"context"
	"errors"

	"github.com/verte-zerg/subcrack/internal/freq"
	"github.com/verte-zerg/subcrack/internal/subst"
)

// DefaultStallThreshold is the number of consecutive non-improving trials that ends a run.
const DefaultStallThreshold = 3000

// DefaultRestarts is the number of concurrent runs Break launches.
const DefaultRestarts = 6

const ctxCheckInterval = 1024

// Candidate is the final state of one search run.
type Candidate struct {
	Restart   int
	Key       subst.Key
	Score     int64
	SeedScore int64
	Trials    int
	Accepted  int
	// Progress holds the best score after the seed and after every accepted swap.
	Progress []int64
}

// Trial describes one mutate-and-test step of a run.
type Trial struct {
	Restart int
	Index   int
	Score   int64
	Best    int64
	// Key is the best key so far.
	Key      subst.Key
	Accepted bool
	Stall    int
}

// Observer receives every trial. Break calls it from several goroutines at once.
type Observer func(Trial)

// Run performs a single search from the frequency seed using rnd for swap positions.
func Run(ctx context.Context, ciphertext string, table *freq.Table, rnd Rand, stallThreshold int, observer Observer) (Candidate, error) {
	if table == nil {
		return Candidate{}, errors.New("frequency table is required")
	}
	if stallThreshold <= 0 {
		return Candidate{}, errors.New("stall threshold must be > 0")
	}
	seed := FrequencySeed(ciphertext, table.Rank())
	return run(ctx, 0, ciphertext, table.Ngrams(), seed, rnd, stallThreshold, observer)
}

func run(ctx context.Context, restart int, ciphertext string, ngrams *freq.NgramTable, seed subst.Key, rnd Rand, stallThreshold int, observer Observer) (Candidate, error) {
	sc := newScorer(ciphertext, ngrams)
	best := seed
	bestScore := sc.score(best)
	c := Candidate{
		Restart:   restart,
		SeedScore: bestScore,
		Progress:  []int64{bestScore},
	}

	stall := 0
	for stall < stallThreshold {
		c.Trials++
		if c.Trials%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Candidate{}, err
			}
		}
		candidate := best.Swap(rnd.Intn(26), rnd.Intn(26))
		score := sc.score(candidate)
		accepted := score > bestScore
		if accepted {
			best, bestScore = candidate, score
			stall = 0
			c.Accepted++
			c.Progress = append(c.Progress, bestScore)
		} else {
			stall++
		}
		if observer != nil {
			observer(Trial{
				Restart:  restart,
				Index:    c.Trials,
				Score:    score,
				Best:     bestScore,
				Key:      best,
				Accepted: accepted,
				Stall:    stall,
			})
		}
	}

	c.Key = best
	c.Score = bestScore
	return c, nil
}
