// Package linearscan provides the exhaustive front-to-back lookup that the
// hash table is measured against.
package linearscan

import "github.com/eunmann/hashbench/pkg/dataset"

// Scan returns the first record whose ID equals key.
func Scan[K comparable, V any](records []dataset.Record[K, V], key K) (dataset.Record[K, V], bool) {
	for _, r := range records {
		if r.ID == key {
			return r, true
		}
	}
	return dataset.Record[K, V]{}, false
}

// Scanner scans a fixed record sequence. It holds no state beyond the slice.
type Scanner[K comparable, V any] struct {
	records []dataset.Record[K, V]
}

// New returns a Scanner over records. The slice is not copied.
func New[K comparable, V any](records []dataset.Record[K, V]) *Scanner[K, V] {
	return &Scanner[K, V]{records: records}
}

// Lookup scans for key. See Scan.
func (s *Scanner[K, V]) Lookup(key K) (dataset.Record[K, V], bool) {
	return Scan(s.records, key)
}

// Len returns the number of records scanned per miss.
func (s *Scanner[K, V]) Len() int {
	return len(s.records)
}
