// Package dataset loads (id, value) records that feed the lookup benchmarks.
package dataset

import (
	"errors"
	"fmt"
	"io"
)

// Record is an immutable (identifier, payload) pair.
type Record[K comparable, V any] struct {
	ID    K
	Value V
}

// Reader is the interface for reading dataset records.
// Implementations exist for both CSV and Parquet sources.
type Reader interface {
	// Next returns the next record. Returns io.EOF when done.
	Next() (Record[string, string], error)
	// Close releases resources.
	Close() error
}

// ReadAll drains r and returns every record in source order.
// It does not close r.
func ReadAll(r Reader) ([]Record[string, string], error) {
	var records []Record[string, string]
	for {
		rec, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return nil, fmt.Errorf("read record %d: %w", len(records), err)
		}
		records = append(records, rec)
	}
}

// Keys returns the identifiers of records in record order. The result is
// the key universe the query patterns sample from.
func Keys[K comparable, V any](records []Record[K, V]) []K {
	keys := make([]K, len(records))
	for i, r := range records {
		keys[i] = r.ID
	}
	return keys
}
