package bench

import (
	"math"
	"time"
)

// Summary aggregates a latency sequence. The zero Summary (Count == 0)
// stands for "no data".
type Summary struct {
	Count  int
	Mean   time.Duration
	StdDev time.Duration // population standard deviation
	Min    time.Duration
	Max    time.Duration

	meanNs float64
}

// Summarize computes mean, population standard deviation, min and max.
// An empty sequence yields the zero Summary.
func Summarize(latencies []time.Duration) Summary {
	if len(latencies) == 0 {
		return Summary{}
	}

	lo, hi := latencies[0], latencies[0]
	var sum float64
	for _, d := range latencies {
		sum += float64(d)
		if d < lo {
			lo = d
		}
		if d > hi {
			hi = d
		}
	}
	n := float64(len(latencies))
	mean := sum / n

	var sq float64
	for _, d := range latencies {
		diff := float64(d) - mean
		sq += diff * diff
	}

	return Summary{
		Count:  len(latencies),
		Mean:   time.Duration(math.Round(mean)),
		StdDev: time.Duration(math.Round(math.Sqrt(sq / n))),
		Min:    lo,
		Max:    hi,
		meanNs: mean,
	}
}

// MeanNanos returns the unrounded mean in nanoseconds.
func (s Summary) MeanNanos() float64 {
	return s.meanNs
}

// Speedup returns mean(linear) / mean(hash). ok is false when either side
// has no data. A hash mean of exactly zero gives +Inf.
func Speedup(linear, hash Summary) (ratio float64, ok bool) {
	if linear.Count == 0 || hash.Count == 0 {
		return 0, false
	}
	if hash.meanNs == 0 {
		return math.Inf(1), true
	}
	return linear.meanNs / hash.meanNs, true
}
