package mono

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/subcrack/internal/freq"
	"github.com/verte-zerg/subcrack/internal/subst"
)

// Options configures Break.
type Options struct {
	Restarts       int
	StallThreshold int
	// Seed is the base random seed; restart i uses Seed+i. Zero means time seeded.
	Seed int64
	// NewRand overrides the randomness of each restart. It is called
	// sequentially before the restarts start.
	NewRand  func(restart int) Rand
	Observer Observer
}

// Result is the outcome of Break.
type Result struct {
	Best      Candidate
	Restarts  []Candidate
	Seed      subst.Key
	SeedScore int64
}

// SearchError reports a restart that failed. Break returns the first one and
// abandons the whole search.
type SearchError struct {
	Restart int
	Err     error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("restart %d failed: %v", e.Restart, e.Err)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// Break runs opts.Restarts independent searches concurrently, all from the
// same frequency seed and sharing table read-only, and returns the candidate
// with the strictly highest score. Ties go to the lowest restart index.
func Break(ctx context.Context, ciphertext string, table *freq.Table, opts Options) (Result, error) {
	if table == nil {
		return Result{}, errors.New("frequency table is required")
	}
	if opts.Restarts <= 0 {
		return Result{}, fmt.Errorf("restarts must be > 0, got %d", opts.Restarts)
	}
	if opts.StallThreshold <= 0 {
		return Result{}, fmt.Errorf("stall threshold must be > 0, got %d", opts.StallThreshold)
	}
	newRand := opts.NewRand
	if newRand == nil {
		newRand = seededRands(opts.Seed)
	}

	seed := FrequencySeed(ciphertext, table.Rank())
	ngrams := table.Ngrams()
	results := make([]Candidate, opts.Restarts)

	g, gctx := errgroup.WithContext(ctx)
	for i := range results {
		rnd := newRand(i)
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &SearchError{Restart: i, Err: fmt.Errorf("panic: %v", r)}
				}
			}()
			c, err := run(gctx, i, ciphertext, ngrams, seed, rnd, opts.StallThreshold, opts.Observer)
			if err != nil {
				return &SearchError{Restart: i, Err: err}
			}
			results[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	best := 0
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[best].Score {
			best = i
		}
	}
	return Result{
		Best:      results[best],
		Restarts:  results,
		Seed:      seed,
		SeedScore: results[best].SeedScore,
	}, nil
}
