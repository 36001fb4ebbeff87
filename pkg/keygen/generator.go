// Package keygen produces query key sequences under different access
// patterns for benchmarking lookups.
package keygen

import (
	"errors"
	"fmt"
	"math/rand"
)

// DefaultSeed is used when a generator is created with seed 0.
const DefaultSeed = 42

var (
	// ErrInsufficientUniverse indicates a pattern needs more keys than the universe has.
	ErrInsufficientUniverse = errors.New("insufficient key universe")
	// ErrInvalidCount indicates a negative key count.
	ErrInvalidCount = errors.New("key count must not be negative")
	// ErrMissingLabels indicates the missing-key labeler kept producing keys
	// that exist in the universe.
	ErrMissingLabels = errors.New("missing-key labeler exhausted")
)

// MissingLabel returns the synthetic key used for index i of the Missing pattern.
func MissingLabel(i int) string {
	return fmt.Sprintf("MISSING_%d", i)
}

// Generator draws query keys. Its random source is seeded, so two
// generators with the same seed produce the same sequences.
// A Generator is not safe for concurrent use.
type Generator[K comparable] struct {
	rng     *rand.Rand
	missing func(i int) K
}

// New creates a generator. missing labels synthetic absent keys by index
// and must return distinct keys for distinct indices.
func New[K comparable](seed int64, missing func(i int) K) *Generator[K] {
	if seed == 0 {
		seed = DefaultSeed
	}
	return &Generator[K]{
		rng:     rand.New(rand.NewSource(seed)),
		missing: missing,
	}
}

// NewStrings creates a generator for string keys labelled with MissingLabel.
func NewStrings(seed int64) *Generator[string] {
	return New(seed, MissingLabel)
}

// Generate returns count keys drawn from universe according to p.
// An Unknown or out-of-range pattern yields an empty sequence and no error.
// The returned slice never aliases universe.
func (g *Generator[K]) Generate(universe []K, p Pattern, count int) ([]K, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}

	switch p {
	case Random:
		return g.random(universe, count)
	case Sequential:
		return g.sequential(universe, count)
	case Clustered:
		return g.clustered(universe, count)
	case Mixed:
		return g.mixed(universe, count)
	case Missing:
		return g.absent(universe, count)
	default:
		return []K{}, nil
	}
}

func checkUniverse(p Pattern, n, count int) error {
	if count > n {
		return fmt.Errorf("%w: %s pattern needs %d keys, universe has %d", ErrInsufficientUniverse, p, count, n)
	}
	return nil
}

// random samples count distinct positions with a partial Fisher-Yates shuffle.
func (g *Generator[K]) random(universe []K, count int) ([]K, error) {
	n := len(universe)
	if err := checkUniverse(Random, n, count); err != nil {
		return nil, err
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	keys := make([]K, count)
	for i := 0; i < count; i++ {
		j := i + g.rng.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
		keys[i] = universe[idx[i]]
	}
	return keys, nil
}

func (g *Generator[K]) sequential(universe []K, count int) ([]K, error) {
	if err := checkUniverse(Sequential, len(universe), count); err != nil {
		return nil, err
	}
	keys := make([]K, count)
	copy(keys, universe[:count])
	return keys, nil
}

func (g *Generator[K]) clustered(universe []K, count int) ([]K, error) {
	n := len(universe)
	if err := checkUniverse(Clustered, n, count); err != nil {
		return nil, err
	}
	start := g.rng.Intn(n - count + 1)
	keys := make([]K, count)
	copy(keys, universe[start:start+count])
	return keys, nil
}

// mixed alternates a random pick (even i) with universe[i mod n] (odd i).
func (g *Generator[K]) mixed(universe []K, count int) ([]K, error) {
	n := len(universe)
	if count > 0 && n == 0 {
		return nil, fmt.Errorf("%w: mixed pattern needs a non-empty universe", ErrInsufficientUniverse)
	}
	keys := make([]K, count)
	for i := range keys {
		if i%2 == 0 {
			keys[i] = universe[g.rng.Intn(n)]
		} else {
			keys[i] = universe[i%n]
		}
	}
	return keys, nil
}

// absent labels keys by ascending index, skipping any label that happens to
// exist in the universe.
func (g *Generator[K]) absent(universe []K, count int) ([]K, error) {
	if g.missing == nil {
		return nil, fmt.Errorf("%w: no labeler configured", ErrMissingLabels)
	}

	present := make(map[K]struct{}, len(universe))
	for _, k := range universe {
		present[k] = struct{}{}
	}

	keys := make([]K, 0, count)
	limit := count + len(present)
	for i := 0; len(keys) < count; i++ {
		if i >= limit {
			return nil, fmt.Errorf("%w: %d of %d keys after %d labels", ErrMissingLabels, len(keys), count, i)
		}
		k := g.missing(i)
		if _, ok := present[k]; ok {
			continue
		}
		keys = append(keys, k)
	}
	return keys, nil
}
