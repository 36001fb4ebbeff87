// Package hashtable implements a fixed-capacity hash table with separate
// chaining.
//
// A Table is built once by sequential inserts and then queried read-only.
// It never resizes, never deletes and is not safe for concurrent use.
// Duplicate keys are kept side by side in their bucket and Lookup returns
// the value inserted first.
package hashtable

import (
	"errors"
	"fmt"
	"hash/fnv"
	"hash/maphash"

	"github.com/eunmann/hashbench/pkg/dataset"
)

// ErrInvalidSize indicates a table was requested with a non-positive bucket count.
var ErrInvalidSize = errors.New("table size must be positive")

// Hasher maps a key to a 64-bit hash. It must return the same value for
// equal keys for as long as a table uses it.
type Hasher[K comparable] func(key K) uint64

// Option configures a Table.
type Option[K comparable] func(*options[K])

type options[K comparable] struct {
	hasher Hasher[K]
}

// WithHasher replaces the default seeded hash.
func WithHasher[K comparable](h Hasher[K]) Option[K] {
	return func(o *options[K]) {
		o.hasher = h
	}
}

// StringHasher hashes strings with FNV-1a. Unlike the default hasher its
// bucket layout is identical across processes.
func StringHasher(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// Table is a chained hash table with a fixed number of buckets.
type Table[K comparable, V any] struct {
	buckets    [][]dataset.Record[K, V]
	hasher     Hasher[K]
	collisions int
	entries    int
}

// New allocates a table with size empty buckets.
func New[K comparable, V any](size int, opts ...Option[K]) (*Table[K, V], error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}

	var o options[K]
	for _, opt := range opts {
		opt(&o)
	}
	if o.hasher == nil {
		seed := maphash.MakeSeed()
		o.hasher = func(key K) uint64 {
			return maphash.Comparable(seed, key)
		}
	}

	return &Table[K, V]{
		buckets: make([][]dataset.Record[K, V], size),
		hasher:  o.hasher,
	}, nil
}

func (t *Table[K, V]) slot(key K) int {
	return int(t.hasher(key) % uint64(len(t.buckets)))
}

// Insert appends (key, value) to the key's bucket. Landing in a bucket that
// already holds an entry counts as one collision, whatever the keys are.
func (t *Table[K, V]) Insert(key K, value V) {
	i := t.slot(key)
	if len(t.buckets[i]) > 0 {
		t.collisions++
	}
	t.buckets[i] = append(t.buckets[i], dataset.Record[K, V]{ID: key, Value: value})
	t.entries++
}

// Lookup returns the value of the first entry inserted under key.
func (t *Table[K, V]) Lookup(key K) (V, bool) {
	for _, e := range t.buckets[t.slot(key)] {
		if e.ID == key {
			return e.Value, true
		}
	}
	var zero V
	return zero, false
}

// Collisions returns the number of inserts that landed in a non-empty bucket.
func (t *Table[K, V]) Collisions() int {
	return t.collisions
}

// Len returns the number of inserted entries, duplicates included.
func (t *Table[K, V]) Len() int {
	return t.entries
}

// Size returns the fixed bucket count.
func (t *Table[K, V]) Size() int {
	return len(t.buckets)
}

// BucketLens returns the chain length of every bucket in slot order.
func (t *Table[K, V]) BucketLens() []int {
	lens := make([]int, len(t.buckets))
	for i, b := range t.buckets {
		lens[i] = len(b)
	}
	return lens
}
