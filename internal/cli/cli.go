// Package cli implements the command-line interface for hashbench.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/eunmann/hashbench/internal/logctx"
	"github.com/eunmann/hashbench/pkg/bench"
	"github.com/eunmann/hashbench/pkg/benchutil"
	"github.com/eunmann/hashbench/pkg/dataset"
	"github.com/eunmann/hashbench/pkg/hashtable"
	"github.com/eunmann/hashbench/pkg/humanfmt"
	"github.com/eunmann/hashbench/pkg/keygen"
	"github.com/eunmann/hashbench/pkg/linearscan"
	"github.com/eunmann/hashbench/pkg/logging"
	"github.com/eunmann/hashbench/pkg/memdiag"
	"github.com/eunmann/hashbench/pkg/perfhash"
	"github.com/eunmann/hashbench/pkg/report"
	"github.com/eunmann/hashbench/pkg/s3fetch"
	"github.com/eunmann/hashbench/pkg/sysmem"
)

// Run executes the CLI with the given arguments.
func Run(args []string) error {
	return run(context.Background(), args, os.Stdout)
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New("usage: hashbench <command> [options]\ncommands: run, patterns")
	}

	switch args[0] {
	case "run":
		return runBench(ctx, args[1:], stdout)
	case "patterns":
		return runPatterns(stdout)
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func runPatterns(stdout io.Writer) error {
	for _, p := range keygen.AllPatterns() {
		if _, err := fmt.Fprintln(stdout, p); err != nil {
			return err
		}
	}
	return nil
}

// parseRunFlags loads the optional plan file and applies explicitly set
// flags over it.
func parseRunFlags(args []string) (Config, bool, bool, error) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "TOML plan file")
	data := fs.String("data", "", "dataset path or s3://bucket/key (CSV, CSV.gz, or parquet)")
	synthetic := fs.Int("synthetic", 0, "generate N synthetic product records instead of reading --data")
	tableSize := fs.Int("table-size", benchutil.TableSize, "number of hash table buckets")
	queries := fs.String("queries", "", "comma-separated query counts")
	patterns := fs.String("patterns", "", "comma-separated patterns (see 'hashbench patterns')")
	seed := fs.Int64("seed", keygen.DefaultSeed, "key generator seed")
	strategies := fs.String("strategies", "", "comma-separated strategies: hash,linear,mphf")
	out := fs.String("out", "", "write results as parquet to this path")
	csvOut := fs.String("csv", "", "write results as CSV to this path (partial results are kept if the run fails)")
	idColumn := fs.String("id-column", "", "dataset id column")
	valueColumn := fs.String("value-column", "", "dataset value column")
	debug := fs.Bool("debug", false, "enable debug logging")
	human := fs.Bool("human", false, "human-friendly console logs")

	if err := fs.Parse(args); err != nil {
		return Config{}, false, false, err
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		loaded, err := LoadConfig(*configPath)
		if err != nil {
			return Config{}, false, false, err
		}
		cfg = loaded
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "data":
			cfg.Data = *data
		case "synthetic":
			cfg.Synthetic = *synthetic
		case "table-size":
			cfg.TableSize = *tableSize
		case "queries":
			cfg.Queries, err = parseInts(*queries)
		case "patterns":
			cfg.Patterns = splitList(*patterns)
		case "seed":
			cfg.Seed = *seed
		case "strategies":
			cfg.Strategies = splitList(*strategies)
		case "out":
			cfg.Out = *out
		case "csv":
			cfg.CSV = *csvOut
		case "id-column":
			cfg.IDColumn = *idColumn
		case "value-column":
			cfg.ValueColumn = *valueColumn
		}
	})
	if err != nil {
		return Config{}, false, false, err
	}
	return cfg, *debug, *human, nil
}

func runBench(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, debug, human, err := parseRunFlags(args)
	if err != nil {
		return err
	}
	plan, err := cfg.Validate()
	if err != nil {
		return err
	}

	logging.Init(debug, human)
	ctx = logctx.WithLogger(ctx, *logging.L())
	return execute(ctx, cfg, plan, stdout)
}

// execute loads the dataset, builds every strategy, runs the plan, and
// writes the reports.
func execute(ctx context.Context, cfg Config, plan bench.Plan, stdout io.Writer) error {
	log := logctx.FromContext(ctx)
	host := sysmem.Describe()
	log.Info().
		Str("go", host.GoVersion).
		Str("os", host.GOOS).
		Str("arch", host.GOARCH).
		Int("cpus", host.CPUs).
		Str("ram", humanfmt.Bytes(int64(host.Memory.TotalBytes))).
		Bool("ram_reliable", host.Memory.Reliable).
		Msg("host")

	records, err := loadRecords(ctx, cfg)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return errors.New("dataset has no records")
	}
	universe := dataset.Keys(records)

	table, err := buildTable(ctx, cfg.TableSize, records)
	if err != nil {
		return err
	}
	suite := bench.Suite[string]{
		Hash:   bench.NewStrategy[string, string](StrategyHash, table),
		Linear: bench.NewStrategy[string, dataset.Record[string, string]](StrategyLinear, linearscan.New(records)),
	}
	if cfg.wants(StrategyMPHF) {
		idx, err := buildPerfHash(ctx, records)
		if err != nil {
			return err
		}
		suite.Extra = append(suite.Extra, bench.NewStrategy[string, string](StrategyMPHF, idx))
	}

	results, err := bench.RunPlan(ctx, plan, suite, universe, keygen.NewStrings(cfg.Seed))
	if err != nil {
		// Keep the combinations that finished before the failure.
		if len(results) > 0 {
			if werr := writeReports(ctx, cfg, results); werr != nil {
				log.Error().Err(werr).Msg("write partial results")
			}
		}
		return fmt.Errorf("run benchmark: %w", err)
	}

	if err := writeReports(ctx, cfg, results); err != nil {
		return err
	}
	return report.Summary(stdout, results)
}

func loadRecords(ctx context.Context, cfg Config) ([]dataset.Record[string, string], error) {
	log := logctx.FromContext(ctx)
	start := time.Now()

	var records []dataset.Record[string, string]
	source := cfg.Data
	if cfg.Synthetic > 0 {
		gen := benchutil.DefaultConfig(cfg.Synthetic)
		gen.Seed = cfg.Seed
		records = benchutil.NewGenerator(gen).Generate()
		source = "synthetic"
	} else {
		src := dataset.Source{
			Path:    cfg.Data,
			CSV:     dataset.DefaultCSVConfig(),
			Parquet: dataset.DefaultParquetConfig(),
		}
		if cfg.IDColumn != "" {
			src.CSV.IDColumn = cfg.IDColumn
			src.Parquet.IDColumn = cfg.IDColumn
		}
		if cfg.ValueColumn != "" {
			src.CSV.ValueColumn = cfg.ValueColumn
			src.Parquet.ValueColumn = cfg.ValueColumn
		}

		var remote dataset.ObjectStreamer
		if strings.HasPrefix(cfg.Data, "s3://") {
			client, err := s3fetch.NewClient(ctx)
			if err != nil {
				return nil, err
			}
			remote = client
		}

		var err error
		records, err = dataset.Load(ctx, src, remote)
		if err != nil {
			return nil, fmt.Errorf("load dataset %s: %w", cfg.Data, err)
		}
	}

	logging.PhaseComplete(log, "load", time.Since(start)).
		Str("source", source).
		Count("records", int64(len(records))).
		Log("dataset loaded")
	return records, nil
}

func buildTable(ctx context.Context, size int, records []dataset.Record[string, string]) (*hashtable.Table[string, string], error) {
	log := logctx.FromContext(ctx)
	memdiag.LogNow(log, "before_build")

	var (
		build    bench.BuildResult
		buildErr error
	)
	footprint, result := memdiag.HeapDelta(func() any {
		t, err := hashtable.New[string, string](size)
		if err != nil {
			buildErr = err
			return nil
		}
		build = bench.Build[string, string](t, records)
		return t
	})
	if buildErr != nil {
		return nil, fmt.Errorf("create hash table: %w", buildErr)
	}
	table := result.(*hashtable.Table[string, string])

	stats := table.Stats()
	logging.PhaseComplete(log, "build", build.Elapsed).
		Count("inserted", int64(build.Inserted)).
		Count("collisions", int64(build.Collisions)).
		Int("buckets", stats.Size).
		Int("used_buckets", stats.UsedBuckets).
		Int("longest_chain", stats.LongestChain).
		Float64("load_factor", stats.LoadFactor).
		Str("footprint", humanfmt.Bytes(footprint)).
		Log("hash table built")
	memdiag.LogNow(log, "after_build")
	return table, nil
}

func buildPerfHash(ctx context.Context, records []dataset.Record[string, string]) (*perfhash.Index, error) {
	log := logctx.FromContext(ctx)
	start := time.Now()

	idx, err := perfhash.Build(records)
	if err != nil {
		return nil, fmt.Errorf("build perfect hash: %w", err)
	}

	ev := logging.PhaseComplete(log, "build_mphf", time.Since(start)).
		Count("keys", int64(idx.Len()))
	if size, err := idx.MarshaledSize(); err == nil {
		ev = ev.Str("size", humanfmt.Bytes(int64(size)))
	}
	ev.Log("perfect hash built")
	return idx, nil
}

func writeReports(ctx context.Context, cfg Config, results []bench.Record) error {
	log := logctx.FromContext(ctx)

	if cfg.Out != "" {
		if err := report.WriteParquet(cfg.Out, results); err != nil {
			return fmt.Errorf("write parquet results: %w", err)
		}
		log.Info().Str("path", cfg.Out).Msg("parquet results written")
	}

	if cfg.CSV != "" {
		if err := report.WriteCSVFile(cfg.CSV, results); err != nil {
			return fmt.Errorf("write csv results: %w", err)
		}
		log.Info().Str("path", cfg.CSV).Msg("csv results written")
	}
	return nil
}
