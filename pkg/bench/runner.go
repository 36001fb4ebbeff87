// Package bench times lookup strategies against generated query keys and
// aggregates the per-call latencies.
//
// Only the lookup call sits between the two clock reads of a timing; the
// latency slice is allocated up front and nothing is logged until a whole
// key sequence has been timed.
package bench

import (
	"time"

	"github.com/eunmann/hashbench/pkg/dataset"
)

// Lookuper is the capability every timed strategy provides.
type Lookuper[K comparable, R any] interface {
	Lookup(key K) (R, bool)
}

// Timing holds the per-key latencies of one strategy over one key sequence.
// Found[i] reports whether keys[i] was present.
type Timing struct {
	Latencies []time.Duration
	Found     []bool
	Hits      int
}

// Time looks up every key once, in order, and records each call's
// latency on the monotonic clock.
func Time[K comparable, R any](l Lookuper[K, R], keys []K) Timing {
	latencies := make([]time.Duration, len(keys))
	found := make([]bool, len(keys))
	hits := 0
	for i, k := range keys {
		start := time.Now()
		_, ok := l.Lookup(k)
		latencies[i] = time.Since(start)
		if ok {
			found[i] = true
			hits++
		}
	}
	return Timing{Latencies: latencies, Found: found, Hits: hits}
}

// Run times keys against the hash strategy and then the linear one.
// Both results have one latency per key in key order.
func Run[K comparable, H, L any](hash Lookuper[K, H], linear Lookuper[K, L], keys []K) (hashLat, linearLat []time.Duration) {
	return Time(hash, keys).Latencies, Time(linear, keys).Latencies
}

// Inserter is a table being built.
type Inserter[K comparable, V any] interface {
	Insert(key K, value V)
	Collisions() int
}

// BuildResult describes the build phase.
type BuildResult struct {
	Inserted   int
	Collisions int
	Elapsed    time.Duration
}

// Build inserts records in order and times the whole build.
func Build[K comparable, V any](t Inserter[K, V], records []dataset.Record[K, V]) BuildResult {
	start := time.Now()
	for _, r := range records {
		t.Insert(r.ID, r.Value)
	}
	elapsed := time.Since(start)

	return BuildResult{
		Inserted:   len(records),
		Collisions: t.Collisions(),
		Elapsed:    elapsed,
	}
}
