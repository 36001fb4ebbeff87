package bench

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/eunmann/hashbench/internal/logctx"
	"github.com/eunmann/hashbench/pkg/benchutil"
	"github.com/eunmann/hashbench/pkg/keygen"
	"github.com/eunmann/hashbench/pkg/logging"
)

// Strategy is a named lookup strategy with its result type erased, so
// strategies returning values and records can share one plan.
type Strategy[K comparable] struct {
	Name string
	time func(keys []K) Timing
}

// NewStrategy wraps l under name.
func NewStrategy[K comparable, R any](name string, l Lookuper[K, R]) Strategy[K] {
	return Strategy[K]{
		Name: name,
		time: func(keys []K) Timing { return Time(l, keys) },
	}
}

// Time times keys against the wrapped lookup.
func (s Strategy[K]) Time(keys []K) Timing {
	return s.time(keys)
}

// Suite is the set of strategies a plan compares. Hash and Linear are
// required, Extra strategies are timed after them.
type Suite[K comparable] struct {
	Hash   Strategy[K]
	Linear Strategy[K]
	Extra  []Strategy[K]
}

// Plan lists the query volumes and patterns to combine.
type Plan struct {
	QueryCounts []int
	Patterns    []keygen.Pattern
}

// DefaultPlan returns every pattern at the standard query volumes.
func DefaultPlan() Plan {
	return Plan{
		QueryCounts: append([]int(nil), benchutil.QueryCounts...),
		Patterns:    keygen.AllPatterns(),
	}
}

// Result is one strategy's outcome for one combination.
type Result struct {
	Strategy  string
	Latencies []time.Duration
	Found     []bool
	Summary   Summary
	Hits      int
}

func newResult(s Strategy[string], t Timing) Result {
	return Result{
		Strategy:  s.Name,
		Latencies: t.Latencies,
		Found:     t.Found,
		Summary:   Summarize(t.Latencies),
		Hits:      t.Hits,
	}
}

// Record is the outcome of one (query count, pattern) combination.
type Record struct {
	Pattern keygen.Pattern
	Queries int
	Hash    Result
	Linear  Result
	Extra   []Result
	// Speedup is mean(linear) / mean(hash); zero when there is no data.
	Speedup float64
}

// Agree reports whether hash and linear lookups found exactly the same
// keys. Results without per-key flags are compared by hit count.
func (r Record) Agree() bool {
	if r.Hash.Hits != r.Linear.Hits {
		return false
	}
	if r.Hash.Found == nil || r.Linear.Found == nil {
		return true
	}
	return slices.Equal(r.Hash.Found, r.Linear.Found)
}

// RunPlan runs every combination of plan, query counts outer and patterns
// inner. Keys come from gen over universe; a generator error aborts the
// run and is returned with the records completed so far.
func RunPlan(ctx context.Context, plan Plan, suite Suite[string], universe []string, gen *keygen.Generator[string]) ([]Record, error) {
	log := logctx.FromContext(ctx)
	start := time.Now()
	total := len(plan.QueryCounts) * len(plan.Patterns)
	records := make([]Record, 0, total)
	pt := logging.NewProgressTracker("benchmark", int64(total))

	for _, n := range plan.QueryCounts {
		for _, p := range plan.Patterns {
			keys, err := gen.Generate(universe, p, n)
			if err != nil {
				return records, fmt.Errorf("generate %s keys (n=%d): %w", p, n, err)
			}

			comboStart := time.Now()
			rec := runCombination(suite, p, n, keys)
			elapsed := time.Since(comboStart)

			records = append(records, rec)
			pt.RecordCompletion(elapsed)
			logCombination(ctx, rec, elapsed, pt)
		}
	}

	logging.PhaseComplete(log, "benchmark", time.Since(start)).
		Int("combinations", len(records)).
		Log("benchmark completed")
	return records, nil
}

func runCombination(suite Suite[string], p keygen.Pattern, n int, keys []string) Record {
	rec := Record{
		Pattern: p,
		Queries: n,
		Hash:    newResult(suite.Hash, suite.Hash.Time(keys)),
		Linear:  newResult(suite.Linear, suite.Linear.Time(keys)),
	}
	for _, s := range suite.Extra {
		rec.Extra = append(rec.Extra, newResult(s, s.Time(keys)))
	}
	if ratio, ok := Speedup(rec.Linear.Summary, rec.Hash.Summary); ok {
		rec.Speedup = ratio
	}
	return rec
}

func logCombination(ctx context.Context, rec Record, elapsed time.Duration, pt *logging.ProgressTracker) {
	ctx = logctx.WithStr(ctx, "pattern", rec.Pattern.String())
	ctx = logctx.WithInt(ctx, "queries", rec.Queries)
	log := logctx.FromContext(ctx)

	ev := logging.CombinationComplete(log, pt.Phase(), elapsed).
		Latency("hash_mean", rec.Hash.Summary.Mean).
		Latency("linear_mean", rec.Linear.Summary.Mean).
		Int("hash_hits", rec.Hash.Hits).
		Int("linear_hits", rec.Linear.Hits).
		Float64("speedup", rec.Speedup)
	for _, x := range rec.Extra {
		ev = ev.Latency(x.Strategy+"_mean", x.Summary.Mean)
	}
	ev.ProgressFromTracker(pt).Log("combination completed")

	if !rec.Agree() {
		log.Warn().
			Int("hash_hits", rec.Hash.Hits).
			Int("linear_hits", rec.Linear.Hits).
			Msg("hash and linear lookups disagree on hits")
	}
}
