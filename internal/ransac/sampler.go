package ransac

import (
	"math/rand"
	"time"
)

// Sampler draws minimal samples of distinct point indices.
//
// Sample fills dst with len(dst) distinct indices and returns it.
type Sampler interface {
	Sample(dst []int) []int
}

// NewRandomSampler returns a Sampler drawing uniformly without replacement from
// [0, n). A nil src is replaced by a time-seeded source.
//
// The sampler keeps a permutation of the index range and performs a partial
// Fisher-Yates shuffle on each draw, so a draw costs O(len(dst)).
func NewRandomSampler(n int, src rand.Source) Sampler {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	return &randomSampler{rng: rand.New(src), perm: perm}
}

type randomSampler struct {
	rng  *rand.Rand
	perm []int
}

func (s *randomSampler) Sample(dst []int) []int {
	n := len(s.perm)
	for i := range dst {
		j := i + s.rng.Intn(n-i)
		s.perm[i], s.perm[j] = s.perm[j], s.perm[i]
		dst[i] = s.perm[i]
	}
	return dst
}
