// Package synth implements the deterministic synthetic data engine:
// seeded randomness, sequential identifiers, date generation, the
// entity graph, and the ordered generation phases that populate it.
package synth

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sort"
)

// RNG wraps a seeded math/rand source. Two RNGs built from the same
// seed produce identical streams; all randomness in the engine flows
// through one of these so datasets replay exactly.
type RNG struct {
	seed int64
	src  *rand.Rand
}

// NewRNG returns a generator seeded with the given value.
func NewRNG(seed int64) *RNG {
	return &RNG{seed: seed, src: rand.New(rand.NewSource(seed))}
}

// Seed reports the seed this generator was created with.
func (r *RNG) Seed() int64 { return r.seed }

// Fork derives an independent child generator for a named subsystem.
// The child seed is the first four bytes of SHA-256("{seed}:{namespace}")
// interpreted big-endian, so the same parent seed and namespace always
// yield the same child stream regardless of how much the parent has
// been consumed.
func (r *RNG) Fork(namespace string) *RNG {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d:%s", r.seed, namespace)))
	return NewRNG(int64(binary.BigEndian.Uint32(sum[:4])))
}

// Float64 returns a uniform value in [0.0, 1.0).
func (r *RNG) Float64() float64 { return r.src.Float64() }

// IntBetween returns a uniform integer in [lo, hi], both inclusive.
func (r *RNG) IntBetween(lo, hi int) int {
	if hi < lo {
		panic(fmt.Sprintf("synth: IntBetween bounds inverted: [%d, %d]", lo, hi))
	}
	return lo + r.src.Intn(hi-lo+1)
}

// Int63Between returns a uniform int64 in [lo, hi], both inclusive.
func (r *RNG) Int63Between(lo, hi int64) int64 {
	if hi < lo {
		panic(fmt.Sprintf("synth: Int63Between bounds inverted: [%d, %d]", lo, hi))
	}
	return lo + r.src.Int63n(hi-lo+1)
}

// Uniform returns a uniform float in [lo, hi).
func (r *RNG) Uniform(lo, hi float64) float64 {
	return lo + r.src.Float64()*(hi-lo)
}

// Gauss returns a normally distributed value with the given mean and
// standard deviation.
func (r *RNG) Gauss(mu, sigma float64) float64 {
	return mu + r.src.NormFloat64()*sigma
}

// Shuffle permutes n elements in place by calling swap, consuming the
// seeded stream so the permutation replays run to run.
func (r *RNG) Shuffle(n int, swap func(i, j int)) { r.src.Shuffle(n, swap) }

// Read implements io.Reader over the random stream, for callers such
// as uuid.NewRandomFromReader that need deterministic random bytes.
func (r *RNG) Read(p []byte) (int, error) { return r.src.Read(p) }

// Choice returns a uniformly chosen element. An empty population is a
// caller error and panics.
func Choice[T any](r *RNG, population []T) T {
	if len(population) == 0 {
		panic("synth: Choice from empty population")
	}
	return population[r.src.Intn(len(population))]
}

// Choices returns k elements drawn with replacement, weighted when
// weights are supplied (len(weights) must equal len(population)).
func Choices[T any](r *RNG, population []T, weights []float64, k int) []T {
	if len(population) == 0 {
		panic("synth: Choices from empty population")
	}
	out := make([]T, 0, k)
	if len(weights) == 0 {
		for i := 0; i < k; i++ {
			out = append(out, population[r.src.Intn(len(population))])
		}
		return out
	}
	if len(weights) != len(population) {
		panic("synth: Choices weights length mismatch")
	}
	total := 0.0
	for _, w := range weights {
		total += w
	}
	for i := 0; i < k; i++ {
		target := r.src.Float64() * total
		acc := 0.0
		idx := len(population) - 1
		for j, w := range weights {
			acc += w
			if target < acc {
				idx = j
				break
			}
		}
		out = append(out, population[idx])
	}
	return out
}

// Sample returns k distinct elements drawn without replacement. When k
// meets or exceeds the population size the whole population is returned
// in a shuffled order.
func Sample[T any](r *RNG, population []T, k int) []T {
	if len(population) == 0 {
		panic("synth: Sample from empty population")
	}
	idx := r.src.Perm(len(population))
	if k > len(population) {
		k = len(population)
	}
	out := make([]T, 0, k)
	for _, i := range idx[:k] {
		out = append(out, population[i])
	}
	return out
}

// WeightedSample returns k distinct elements drawn without replacement
// with probability proportional to weight. When k meets or exceeds the
// population size the whole population is returned in input order.
func WeightedSample[T any](r *RNG, population []T, weights []float64, k int) []T {
	if len(population) == 0 {
		panic("synth: WeightedSample from empty population")
	}
	if len(weights) != len(population) {
		panic("synth: WeightedSample weights length mismatch")
	}
	if k >= len(population) {
		out := make([]T, len(population))
		copy(out, population)
		return out
	}
	remaining := make([]int, len(population))
	for i := range remaining {
		remaining[i] = i
	}
	w := make([]float64, len(weights))
	copy(w, weights)

	out := make([]T, 0, k)
	for len(out) < k {
		total := 0.0
		for _, i := range remaining {
			total += w[i]
		}
		var picked int
		if total <= 0 {
			picked = r.src.Intn(len(remaining))
		} else {
			target := r.src.Float64() * total
			acc := 0.0
			picked = len(remaining) - 1
			for j, i := range remaining {
				acc += w[i]
				if target < acc {
					picked = j
					break
				}
			}
		}
		out = append(out, population[remaining[picked]])
		remaining = append(remaining[:picked], remaining[picked+1:]...)
	}
	return out
}

// SelectFromDistribution draws a key from a probability map. Keys are
// visited in ascending order so the draw never depends on map iteration
// order. An empty map is a caller error and panics.
func SelectFromDistribution(r *RNG, dist map[int]float64) int {
	if len(dist) == 0 {
		panic("synth: SelectFromDistribution from empty distribution")
	}
	keys := make([]int, 0, len(dist))
	for k := range dist {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	total := 0.0
	for _, k := range keys {
		total += dist[k]
	}
	target := r.src.Float64() * total
	acc := 0.0
	for _, k := range keys {
		acc += dist[k]
		if target < acc {
			return k
		}
	}
	return keys[len(keys)-1]
}
