package benchutil

// Shared constants for benchmarks across packages.

// BenchmarkSeed is the default seed for reproducible benchmark data generation.
const BenchmarkSeed = 42

// TableSize is the bucket count the lookup comparison has always used.
const TableSize = 50000

// QueryCounts are the per-pattern query volumes of a full run.
var QueryCounts = []int{100, 500, 1000, 2000, 3000, 5000}

// DatasetSizes are record counts for quick Go benchmarks.
var DatasetSizes = []int{1000, 10000, 35000}

// ScalingSizes are larger record counts for scaling benchmarks.
// Used with HASHBENCH_LONG_BENCH=1 environment variable.
var ScalingSizes = []int{50000, 100000, 250000, 500000}
