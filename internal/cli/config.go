package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/eunmann/hashbench/pkg/bench"
	"github.com/eunmann/hashbench/pkg/benchutil"
	"github.com/eunmann/hashbench/pkg/fileutil"
	"github.com/eunmann/hashbench/pkg/keygen"
)

// Strategy names accepted by --strategies.
const (
	StrategyHash   = "hash"
	StrategyLinear = "linear"
	StrategyMPHF   = "mphf"
)

// ErrConfig indicates an invalid run configuration.
var ErrConfig = errors.New("invalid configuration")

// Config is a benchmark run. It can be loaded from a TOML plan file and
// overridden by flags.
type Config struct {
	Data        string   `toml:"data"`
	Synthetic   int      `toml:"synthetic"`
	TableSize   int      `toml:"table-size"`
	Queries     []int    `toml:"queries"`
	Patterns    []string `toml:"patterns"`
	Seed        int64    `toml:"seed"`
	Strategies  []string `toml:"strategies"`
	Out         string   `toml:"out"`
	CSV         string   `toml:"csv"`
	IDColumn    string   `toml:"id-column"`
	ValueColumn string   `toml:"value-column"`
}

// DefaultConfig returns the standard plan over a 50000-bucket table.
func DefaultConfig() Config {
	plan := bench.DefaultPlan()
	patterns := make([]string, len(plan.Patterns))
	for i, p := range plan.Patterns {
		patterns[i] = p.String()
	}
	return Config{
		TableSize:  benchutil.TableSize,
		Queries:    plan.QueryCounts,
		Patterns:   patterns,
		Seed:       keygen.DefaultSeed,
		Strategies: []string{StrategyHash, StrategyLinear},
	}
}

// LoadConfig decodes a TOML plan file over DefaultConfig. Unknown keys are
// rejected so typos do not silently fall back to defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys in %s: %s", ErrConfig, path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Validate checks the configuration and resolves it into a plan.
func (c Config) Validate() (bench.Plan, error) {
	if c.Data == "" && c.Synthetic <= 0 {
		return bench.Plan{}, fmt.Errorf("%w: --data or --synthetic is required", ErrConfig)
	}
	if c.Synthetic <= 0 && !strings.HasPrefix(c.Data, "s3://") && !fileutil.Exists(c.Data) {
		return bench.Plan{}, fmt.Errorf("%w: dataset %s not found", ErrConfig, c.Data)
	}
	if c.TableSize <= 0 {
		return bench.Plan{}, fmt.Errorf("%w: table size must be positive, got %d", ErrConfig, c.TableSize)
	}
	if len(c.Queries) == 0 {
		return bench.Plan{}, fmt.Errorf("%w: no query counts", ErrConfig)
	}
	for _, n := range c.Queries {
		if n < 0 {
			return bench.Plan{}, fmt.Errorf("%w: negative query count %d", ErrConfig, n)
		}
	}

	patterns := make([]keygen.Pattern, 0, len(c.Patterns))
	for _, name := range c.Patterns {
		p := keygen.ParsePattern(name)
		if !p.Valid() {
			return bench.Plan{}, fmt.Errorf("%w: unknown pattern %q", ErrConfig, name)
		}
		patterns = append(patterns, p)
	}
	if len(patterns) == 0 {
		return bench.Plan{}, fmt.Errorf("%w: no patterns", ErrConfig)
	}

	var hasHash, hasLinear bool
	for _, s := range c.Strategies {
		switch s {
		case StrategyHash:
			hasHash = true
		case StrategyLinear:
			hasLinear = true
		case StrategyMPHF:
		default:
			return bench.Plan{}, fmt.Errorf("%w: unknown strategy %q", ErrConfig, s)
		}
	}
	if !hasHash || !hasLinear {
		return bench.Plan{}, fmt.Errorf("%w: strategies must include %s and %s", ErrConfig, StrategyHash, StrategyLinear)
	}

	return bench.Plan{QueryCounts: c.Queries, Patterns: patterns}, nil
}

// wants reports whether strategy name is enabled.
func (c Config) wants(name string) bool {
	for _, s := range c.Strategies {
		if s == name {
			return true
		}
	}
	return false
}

// parseInts parses a comma-separated list of integers.
func parseInts(s string) ([]int, error) {
	var out []int
	for _, part := range splitList(s) {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: bad integer %q", ErrConfig, part)
		}
		out = append(out, n)
	}
	return out, nil
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
