package quiz

import (
	"math/rand/v2"
	"sync"
)

// Randomizer is the single source of randomness for sampling and category choice.
// It is safe for concurrent use; seed it in tests to get repeatable batches.
type Randomizer struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewRandomizer() *Randomizer {
	return &Randomizer{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

func NewSeededRandomizer(seed uint64) *Randomizer {
	return &Randomizer{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// IntN returns a value in [0, n). n must be positive.
func (r *Randomizer) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.IntN(n)
}

func (r *Randomizer) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.Perm(n)
}

// Pick returns a uniformly chosen element, or "" for an empty slice.
func (r *Randomizer) Pick(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[r.IntN(len(items))]
}
