// Package perfhash builds a read-only lookup index over a fixed key set
// using a minimal perfect hash function.
package perfhash

import (
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/eunmann/hashbench/pkg/dataset"
	"github.com/relab/bbhash"
)

// ErrKeyHashCollision indicates two distinct ids share a 64-bit key hash,
// which the perfect hash cannot separate.
var ErrKeyHashCollision = errors.New("key hash collision")

// Index maps each distinct id of a record set to its value.
// Lookups of ids outside the build set report not found.
type Index struct {
	mph    *bbhash.BBHash2
	ids    []string
	values []string
}

// Build constructs the index. When an id occurs more than once the first
// record wins, matching a linear scan.
func Build(records []dataset.Record[string, string]) (*Index, error) {
	seen := make(map[uint64]string, len(records))
	keys := make([]uint64, 0, len(records))
	firsts := make([]dataset.Record[string, string], 0, len(records))

	for _, r := range records {
		h := hashString(r.ID)
		if prev, ok := seen[h]; ok {
			if prev != r.ID {
				return nil, fmt.Errorf("%w: %q and %q", ErrKeyHashCollision, prev, r.ID)
			}
			continue
		}
		seen[h] = r.ID
		keys = append(keys, h)
		firsts = append(firsts, r)
	}

	if len(keys) == 0 {
		return &Index{}, nil
	}

	// Gamma 2.0 trades a little space for faster construction.
	mph, err := bbhash.New(keys, bbhash.Gamma(2.0))
	if err != nil {
		return nil, fmt.Errorf("build MPHF: %w", err)
	}

	// Find is 1-indexed; slot i holds the record that hashes to i+1.
	idx := &Index{
		mph:    mph,
		ids:    make([]string, len(keys)),
		values: make([]string, len(keys)),
	}
	for i, r := range firsts {
		pos := mph.Find(keys[i])
		if pos == 0 || pos > uint64(len(keys)) {
			return nil, fmt.Errorf("MPHF lookup failed for %q", r.ID)
		}
		idx.ids[pos-1] = r.ID
		idx.values[pos-1] = r.Value
	}
	return idx, nil
}

// Lookup returns the value stored for id.
func (x *Index) Lookup(id string) (string, bool) {
	if x.mph == nil {
		return "", false
	}
	pos := x.mph.Find(hashString(id))
	if pos == 0 || pos > uint64(len(x.ids)) {
		return "", false
	}
	// A foreign key still maps to some slot, so verify the stored id.
	if x.ids[pos-1] != id {
		return "", false
	}
	return x.values[pos-1], true
}

// Len returns the number of distinct ids indexed.
func (x *Index) Len() int {
	return len(x.ids)
}

// MarshaledSize returns the encoded size of the MPHF in bytes.
func (x *Index) MarshaledSize() (int, error) {
	if x.mph == nil {
		return 0, nil
	}
	data, err := x.mph.MarshalBinary()
	if err != nil {
		return 0, fmt.Errorf("marshal MPHF: %w", err)
	}
	return len(data), nil
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
