package report

import (
	"fmt"
	"os"
	"time"

	"github.com/eunmann/hashbench/pkg/bench"
	"github.com/eunmann/hashbench/pkg/fileutil"
	"github.com/parquet-go/parquet-go"
)

// StrategyRow holds an additional strategy's summary for one combination.
type StrategyRow struct {
	Strategy string  `parquet:"strategy"`
	Avg      float64 `parquet:"avg"`
	Std      float64 `parquet:"std"`
	Hits     int64   `parquet:"hits"`
}

// Row is the parquet layout of one combination. Latencies are in
// milliseconds.
type Row struct {
	Queries     int64         `parquet:"queries"`
	Pattern     string        `parquet:"pattern"`
	HashAvg     float64       `parquet:"hash_avg"`
	HashStd     float64       `parquet:"hash_std"`
	HashTimes   []float64     `parquet:"hash_times"`
	HashHits    int64         `parquet:"hash_hits"`
	LinearAvg   float64       `parquet:"linear_avg"`
	LinearStd   float64       `parquet:"linear_std"`
	LinearTimes []float64     `parquet:"linear_times"`
	LinearHits  int64         `parquet:"linear_hits"`
	Speedup     float64       `parquet:"speedup"`
	Extra       []StrategyRow `parquet:"extra"`
}

func millisList(ds []time.Duration) []float64 {
	out := make([]float64, len(ds))
	for i, d := range ds {
		out[i] = Millis(d)
	}
	return out
}

// Rows converts records to their parquet layout.
func Rows(records []bench.Record) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		row := Row{
			Queries:     int64(r.Queries),
			Pattern:     r.Pattern.String(),
			HashAvg:     meanMillis(r.Hash.Summary),
			HashStd:     Millis(r.Hash.Summary.StdDev),
			HashTimes:   millisList(r.Hash.Latencies),
			HashHits:    int64(r.Hash.Hits),
			LinearAvg:   meanMillis(r.Linear.Summary),
			LinearStd:   Millis(r.Linear.Summary.StdDev),
			LinearTimes: millisList(r.Linear.Latencies),
			LinearHits:  int64(r.Linear.Hits),
			Speedup:     r.Speedup,
		}
		for _, x := range r.Extra {
			row.Extra = append(row.Extra, StrategyRow{
				Strategy: x.Strategy,
				Avg:      meanMillis(x.Summary),
				Std:      Millis(x.Summary.StdDev),
				Hits:     int64(x.Hits),
			})
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteParquet writes records to a parquet file at path, replacing any
// existing file only once the new one is complete.
func WriteParquet(path string, records []bench.Record) error {
	return fileutil.CreateTmpThenMove(path, func(f *os.File) error {
		w := parquet.NewGenericWriter[Row](f)
		if _, err := w.Write(Rows(records)); err != nil {
			return fmt.Errorf("write rows: %w", err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("close parquet writer: %w", err)
		}
		return nil
	})
}
