package mono

import (
	"math/rand"
	"time"
)

// Rand is the randomness a search run draws its swap positions from.
// *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// seededRands returns a factory giving restart i its own source seeded with
// base+i. A zero base is replaced by the current time.
func seededRands(base int64) func(restart int) Rand {
	if base == 0 {
		base = time.Now().UnixNano()
	}
	return func(restart int) Rand {
		return rand.New(rand.NewSource(base + int64(restart)))
	}
}
