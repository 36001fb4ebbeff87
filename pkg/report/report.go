// Package report writes benchmark records as CSV, parquet, and a human
// readable summary table.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/eunmann/hashbench/pkg/bench"
	"github.com/eunmann/hashbench/pkg/fileutil"
	"github.com/eunmann/hashbench/pkg/humanfmt"
	"github.com/eunmann/hashbench/pkg/keygen"
)

// CSVHeader is the column order of WriteCSV. Latencies are in milliseconds.
var CSVHeader = []string{"queries", "pattern", "hash_avg", "hash_std", "linear_avg", "linear_std", "speedup"}

// Millis converts a duration to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func meanMillis(s bench.Summary) float64 {
	return s.MeanNanos() / float64(time.Millisecond)
}

func formatFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// WriteCSV writes one row per record.
func WriteCSV(w io.Writer, records []bench.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Queries),
			r.Pattern.String(),
			formatFloat(meanMillis(r.Hash.Summary)),
			formatFloat(Millis(r.Hash.Summary.StdDev)),
			formatFloat(meanMillis(r.Linear.Summary)),
			formatFloat(Millis(r.Linear.Summary.StdDev)),
			formatFloat(r.Speedup),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %s/%d: %w", r.Pattern, r.Queries, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteCSVFile writes records as CSV to path, replacing any existing file
// only once the new one is complete.
func WriteCSVFile(path string, records []bench.Record) error {
	return fileutil.CreateTmpThenMove(path, func(f *os.File) error {
		return WriteCSV(f, records)
	})
}

// Extreme is the fastest and slowest single linear lookup seen for a
// pattern across all query counts.
type Extreme struct {
	Pattern keygen.Pattern
	Min     time.Duration
	Max     time.Duration
}

// PatternExtremes returns one Extreme per pattern, in first-seen order.
// Patterns with no latencies are omitted.
func PatternExtremes(records []bench.Record) []Extreme {
	var out []Extreme
	pos := make(map[keygen.Pattern]int)

	for _, r := range records {
		s := r.Linear.Summary
		if s.Count == 0 {
			continue
		}
		i, ok := pos[r.Pattern]
		if !ok {
			pos[r.Pattern] = len(out)
			out = append(out, Extreme{Pattern: r.Pattern, Min: s.Min, Max: s.Max})
			continue
		}
		if s.Min < out[i].Min {
			out[i].Min = s.Min
		}
		if s.Max > out[i].Max {
			out[i].Max = s.Max
		}
	}
	return out
}

// lookupRate is the lookups per second implied by the summed latencies.
func lookupRate(s bench.Summary) string {
	if s.Count == 0 {
		return "n/a"
	}
	total := time.Duration(s.MeanNanos() * float64(s.Count))
	return humanfmt.Rate(int64(s.Count), total)
}

// Summary writes an aligned table of per-combination means, lookup rates
// and speedups.
func Summary(w io.Writer, records []bench.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PATTERN\tQUERIES\tHASH\tLINEAR\tHASH RATE\tLINEAR RATE\tSPEEDUP\tHITS")
	for _, r := range records {
		speedup := "n/a"
		if r.Hash.Summary.Count > 0 {
			speedup = humanfmt.Speedup(r.Speedup)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d/%d\n",
			r.Pattern,
			humanfmt.Count(int64(r.Queries)),
			humanfmt.Duration(r.Hash.Summary.Mean),
			humanfmt.Duration(r.Linear.Summary.Mean),
			lookupRate(r.Hash.Summary),
			lookupRate(r.Linear.Summary),
			speedup,
			r.Hash.Hits, r.Linear.Hits,
		)
	}

	extremes := PatternExtremes(records)
	if len(extremes) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "PATTERN\tLINEAR MIN\tLINEAR MAX")
		for _, e := range extremes {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Pattern, humanfmt.Duration(e.Min), humanfmt.Duration(e.Max))
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush summary: %w", err)
	}
	return nil
}
