// Package vigenere recovers a Vigenère key of known length from ciphertext.
//
// For every pair of adjacent key positions the text columns they govern are
// zipped into digraphs, and all 676 two-letter key segments are tried against
// a bigram score grid. Each position ends up with two estimates, one from each
// boundary it touches; the one from the fitter boundary wins.
package vigenere

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/subcrack/internal/corpus"
	"github.com/verte-zerg/subcrack/internal/freq"
	"github.com/verte-zerg/subcrack/internal/subst"
)

var (
	// ErrInvalidKeyLength matches every InvalidKeyLengthError.
	ErrInvalidKeyLength = errors.New("invalid key length")
	// ErrInvalidCiphertext reports ciphertext that is not lowercase letters only.
	ErrInvalidCiphertext = errors.New("ciphertext must be lowercase letters a-z")
)

// InvalidKeyLengthError reports a key length that is not in [1, len(ciphertext)).
type InvalidKeyLengthError struct {
	KeyLength  int
	TextLength int
}

func (e *InvalidKeyLengthError) Error() string {
	return fmt.Sprintf("invalid key length %d for ciphertext of length %d", e.KeyLength, e.TextLength)
}

// Is reports whether target is ErrInvalidKeyLength.
func (e *InvalidKeyLengthError) Is(target error) bool {
	return target == ErrInvalidKeyLength
}

// Boundary is the winning key segment for positions Position and Position+1
// (cyclic). Lead and Trail are already in encryption-key form.
type Boundary struct {
	Position int
	Lead     byte
	Trail    byte
	Fitness  int64
}

// Result is the recovered key with the per-boundary estimates behind it.
type Result struct {
	Key        string
	Boundaries []Boundary
}

// Options configures Break.
type Options struct {
	// Parallel searches the boundaries concurrently.
	Parallel bool
}

// Break recovers a key of keyLength letters from ciphertext using grid.
func Break(ctx context.Context, ciphertext string, keyLength int, grid *freq.BigramGrid, opts Options) (Result, error) {
	if grid == nil {
		return Result{}, errors.New("bigram grid is required")
	}
	if keyLength <= 0 || keyLength >= len(ciphertext) {
		return Result{}, &InvalidKeyLengthError{KeyLength: keyLength, TextLength: len(ciphertext)}
	}
	if !corpus.IsLowerASCII(ciphertext) {
		return Result{}, ErrInvalidCiphertext
	}

	columns := split(ciphertext, keyLength)
	segments := make([]segment, keyLength)
	search := func(i int) {
		segments[i] = bestSegment(digraphs(columns, i), grid)
	}
	if opts.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i := range segments {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				search(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Result{}, err
		}
	} else {
		for i := range segments {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
			search(i)
		}
	}
	return assemble(segments), nil
}

// segment is a two-letter key snippet as decryption shifts.
type segment struct {
	lead, trail int
	fitness     int64
}

// split deals the ciphertext into keyLength columns by index modulo keyLength.
func split(ciphertext string, keyLength int) [][]byte {
	columns := make([][]byte, keyLength)
	for i := 0; i < len(ciphertext); i++ {
		columns[i%keyLength] = append(columns[i%keyLength], ciphertext[i]-'a')
	}
	return columns
}

// digraphs pairs column i with column i+1. Column 0 follows the last column one
// row later, so the wrap boundary shifts the second column by one.
func digraphs(columns [][]byte, i int) [][2]byte {
	keyLength := len(columns)
	next := (i + 1) % keyLength
	wrap := (i + 1) / keyLength
	n := min(len(columns[i]), len(columns[next])-wrap)
	pairs := make([][2]byte, 0, max(n, 0))
	for c := 0; c < n; c++ {
		pairs = append(pairs, [2]byte{columns[i][c], columns[next][c+wrap]})
	}
	return pairs
}

// bestSegment tries all 676 shift pairs and keeps the strictly best one.
func bestSegment(pairs [][2]byte, grid *freq.BigramGrid) segment {
	var hist [26][26]int64
	for _, p := range pairs {
		hist[p[0]][p[1]]++
	}
	best := segment{}
	for a := 0; a < 26; a++ {
		for b := 0; b < 26; b++ {
			var fitness int64
			for x := 0; x < 26; x++ {
				row := &grid[(x+a)%26]
				for y := 0; y < 26; y++ {
					if n := hist[x][y]; n != 0 {
						fitness += n * int64(row[(y+b)%26])
					}
				}
			}
			if fitness > best.fitness {
				best = segment{lead: a, trail: b, fitness: fitness}
			}
		}
	}
	return best
}

// assemble picks, for every position, the estimate from the fitter of its two
// boundaries and converts decryption shifts into the encryption key.
func assemble(segments []segment) Result {
	keyLength := len(segments)
	shifts := make([]int, keyLength)
	leads := make([]int, keyLength)
	trails := make([]int, keyLength)
	for i, s := range segments {
		prev := (i - 1 + keyLength) % keyLength
		shifts[i] = segments[prev].trail
		if s.fitness > segments[prev].fitness {
			shifts[i] = s.lead
		}
		leads[i] = s.lead
		trails[i] = s.trail
	}
	shifts = subst.ComplementShifts(shifts)
	leads = subst.ComplementShifts(leads)
	trails = subst.ComplementShifts(trails)

	key := make([]byte, keyLength)
	boundaries := make([]Boundary, keyLength)
	for i, s := range segments {
		key[i] = byte('a' + shifts[i])
		boundaries[i] = Boundary{
			Position: i,
			Lead:     byte('a' + leads[i]),
			Trail:    byte('a' + trails[i]),
			Fitness:  s.fitness,
		}
	}
	return Result{Key: string(key), Boundaries: boundaries}
}
