package brackets

import (
	"math/rand"
	"sync"
)

// Randomizer - источник случайности для жеребьёвки участников, судей и сторон.
type Randomizer interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomizer returns a Randomizer that is safe for concurrent use.
func NewRandomizer(seed int64) Randomizer {
	return &lockedRand{rnd: rand.New(rand.NewSource(seed))}
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}

func (r *lockedRand) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rnd.Shuffle(n, swap)
}

// ShuffledInts returns a shuffled copy of ids.
func ShuffledInts(ids []int, rng Randomizer) []int {
	out := make([]int, len(ids))
	copy(out, ids)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
