package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/eunmann/hashbench/pkg/bench"
	"github.com/eunmann/hashbench/pkg/keygen"
	"github.com/parquet-go/parquet-go"
)

func result(name string, hits int, lat ...time.Duration) bench.Result {
	return bench.Result{
		Strategy:  name,
		Latencies: lat,
		Summary:   bench.Summarize(lat),
		Hits:      hits,
	}
}

func record(p keygen.Pattern, queries int, hash, linear bench.Result) bench.Record {
	r := bench.Record{Pattern: p, Queries: queries, Hash: hash, Linear: linear}
	if ratio, ok := bench.Speedup(linear.Summary, hash.Summary); ok {
		r.Speedup = ratio
	}
	return r
}

func sampleRecords() []bench.Record {
	ms := time.Millisecond
	return []bench.Record{
		record(keygen.Random, 2,
			result("hash", 2, 1*ms, 1*ms),
			result("linear", 2, 3*ms, 5*ms)),
		record(keygen.Missing, 2,
			result("hash", 0, 0, 0),
			result("linear", 0, 7*ms, 9*ms)),
		record(keygen.Random, 3,
			result("hash", 3, 2*ms, 2*ms, 2*ms),
			result("linear", 3, 2*ms, 6*ms, 10*ms)),
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(CSVHeader, ",") {
		t.Errorf("header = %v, want %v", rows[0], CSVHeader)
	}

	tests := []struct {
		row  int
		want string
	}{
		{1, "2,random,1,0,4,1,4"},
		{2, "2,missing,0,0,8,1,inf"},
	}
	for _, tt := range tests {
		if got := strings.Join(rows[tt.row], ","); got != tt.want {
			t.Errorf("row %d = %q, want %q", tt.row, got, tt.want)
		}
	}
}

func TestPatternExtremes(t *testing.T) {
	got := PatternExtremes(sampleRecords())
	if len(got) != 2 {
		t.Fatalf("got %d extremes, want 2", len(got))
	}

	if got[0].Pattern != keygen.Random {
		t.Errorf("first pattern = %s, want random", got[0].Pattern)
	}
	if got[0].Min != 2*time.Millisecond || got[0].Max != 10*time.Millisecond {
		t.Errorf("random extremes = %v/%v, want 2ms/10ms", got[0].Min, got[0].Max)
	}
	if got[1].Min != 7*time.Millisecond || got[1].Max != 9*time.Millisecond {
		t.Errorf("missing extremes = %v/%v, want 7ms/9ms", got[1].Min, got[1].Max)
	}
}

func TestPatternExtremesSkipsEmpty(t *testing.T) {
	records := []bench.Record{record(keygen.Unknown, 5, result("hash", 0), result("linear", 0))}
	if got := PatternExtremes(records); len(got) != 0 {
		t.Errorf("got %v, want none", got)
	}
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := Summary(&buf, sampleRecords()); err != nil {
		t.Fatalf("Summary failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"PATTERN", "random", "missing", "4.0x", "∞", "LINEAR MAX", "10.0ms", "HASH RATE", "500/s", "250/s"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestWriteParquet(t *testing.T) {
	records := sampleRecords()
	records[0].Extra = []bench.Result{result("mphf", 2, 2*time.Millisecond, 4*time.Millisecond)}

	path := filepath.Join(t.TempDir(), "results.parquet")
	if err := WriteParquet(path, records); err != nil {
		t.Fatalf("WriteParquet failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open results: %v", err)
	}
	defer f.Close()

	r := parquet.NewGenericReader[Row](f)
	defer r.Close()

	rows := make([]Row, r.NumRows())
	n, err := r.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		t.Fatalf("read rows: %v", err)
	}
	if n != len(records) {
		t.Fatalf("read %d rows, want %d", n, len(records))
	}

	first := rows[0]
	if first.Queries != 2 || first.Pattern != "random" {
		t.Errorf("first row = %d/%s, want 2/random", first.Queries, first.Pattern)
	}
	if first.LinearAvg != 4 || first.Speedup != 4 {
		t.Errorf("LinearAvg/Speedup = %v/%v, want 4/4", first.LinearAvg, first.Speedup)
	}
	if len(first.LinearTimes) != 2 || first.LinearTimes[1] != 5 {
		t.Errorf("LinearTimes = %v, want [3 5]", first.LinearTimes)
	}
	if len(first.Extra) != 1 || first.Extra[0].Strategy != "mphf" || first.Extra[0].Avg != 3 {
		t.Errorf("Extra = %+v", first.Extra)
	}
	if !math.IsInf(rows[1].Speedup, 1) {
		t.Errorf("missing row speedup = %v, want +Inf", rows[1].Speedup)
	}
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "performance.csv")
	if err := WriteCSVFile(path, sampleRecords()); err != nil {
		t.Fatalf("WriteCSVFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if !strings.HasPrefix(string(data), strings.Join(CSVHeader, ",")+"\n") {
		t.Errorf("unexpected csv:\n%s", data)
	}
}

func TestWriteParquetBadPath(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(parent, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := WriteParquet(filepath.Join(parent, "results.parquet"), sampleRecords()); err == nil {
		t.Error("expected error for unwritable path")
	}
}
