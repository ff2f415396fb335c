package ransac

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomSampler_Distinct(t *testing.T) {
	for _, n := range []int{2, 3, 10, 1000} {
		s := NewRandomSampler(n, rand.NewSource(int64(n)))
		k := min(n, 3)
		for i := 0; i < 200; i++ {
			idx := s.Sample(make([]int, k))
			seen := make(map[int]bool, k)
			for _, j := range idx {
				require.GreaterOrEqual(t, j, 0)
				require.Less(t, j, n)
				require.False(t, seen[j], "index %d drawn twice", j)
				seen[j] = true
			}
		}
	}
}

func TestRandomSampler_FullRange(t *testing.T) {
	// Drawing every index is always a permutation of the range.
	s := NewRandomSampler(5, rand.NewSource(1))
	for i := 0; i < 20; i++ {
		idx := s.Sample(make([]int, 5))
		assert.ElementsMatch(t, []int{0, 1, 2, 3, 4}, idx)
	}
}

func TestRandomSampler_Reproducible(t *testing.T) {
	a := NewRandomSampler(100, rand.NewSource(42))
	b := NewRandomSampler(100, rand.NewSource(42))
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Sample(make([]int, 2)), b.Sample(make([]int, 2)))
	}
}

func TestRandomSampler_Uniform(t *testing.T) {
	const n, draws = 10, 20000
	s := NewRandomSampler(n, rand.NewSource(7))
	counts := make([]int, n)
	for i := 0; i < draws; i++ {
		for _, j := range s.Sample(make([]int, 2)) {
			counts[j]++
		}
	}
	want := float64(2*draws) / n
	for j, c := range counts {
		assert.InDelta(t, want, float64(c), want*0.1, "index %d", j)
	}
}

func TestDynamicMaxTrials(t *testing.T) {
	tests := []struct {
		name        string
		inliers, n  int
		minSamples  int
		probability float64
		want        int
	}{
		{"disabled at one", 50, 100, 2, 1, math.MaxInt},
		{"disabled at zero", 50, 100, 2, 0, math.MaxInt},
		{"no inliers", 0, 100, 2, 0.99, math.MaxInt},
		{"all inliers", 100, 100, 2, 0.99, 1},
		{"half inliers", 50, 100, 2, 0.99, 17},
		{"circle", 50, 100, 3, 0.99, 35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dynamicMaxTrials(tt.inliers, tt.n, tt.minSamples, tt.probability))
		})
	}
}
