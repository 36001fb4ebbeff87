// Package benchutil provides synthetic data generation for benchmarks and testing.
package benchutil

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/eunmann/hashbench/pkg/dataset"
)

// GeneratorConfig configures synthetic product generation.
type GeneratorConfig struct {
	// NumRecords is the total number of records to generate.
	NumRecords int
	// FirstID is the identifier of the first product. Later ids increase
	// with random gaps, like catalogue ids in a real export.
	FirstID int
	// DuplicateRate is the probability (0.0-1.0) that a record reuses the
	// id of an earlier one.
	DuplicateRate float64
	// Seed for reproducible generation. 0 = use default seed.
	Seed int64
}

// DefaultConfig returns a reasonable default configuration.
func DefaultConfig(numRecords int) GeneratorConfig {
	return GeneratorConfig{
		NumRecords: numRecords,
		FirstID:    1,
		Seed:       BenchmarkSeed,
	}
}

// Generator generates synthetic product records.
type Generator struct {
	cfg    GeneratorConfig
	rng    *rand.Rand
	nextID int
	ids    []string
}

// NewGenerator creates a new data generator.
func NewGenerator(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = BenchmarkSeed
	}
	return &Generator{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		nextID: cfg.FirstID,
	}
}

// Generate returns a slice of synthetic records.
func (g *Generator) Generate() []dataset.Record[string, string] {
	records := make([]dataset.Record[string, string], g.cfg.NumRecords)
	for i := range records {
		records[i] = dataset.Record[string, string]{
			ID:    g.generateID(),
			Value: g.generateTitle(),
		}
	}
	return records
}

// Products is shorthand for NewGenerator(DefaultConfig(n)).Generate().
func Products(n int) []dataset.Record[string, string] {
	return NewGenerator(DefaultConfig(n)).Generate()
}

func (g *Generator) generateID() string {
	if len(g.ids) > 0 && g.rng.Float64() < g.cfg.DuplicateRate {
		return g.ids[g.rng.Intn(len(g.ids))]
	}
	id := strconv.Itoa(g.nextID)
	g.nextID += 1 + g.rng.Intn(3)
	g.ids = append(g.ids, id)
	return id
}

var (
	brands     = []string{"Apple", "Samsung", "Bosch", "Sony", "LG", "Philips", "Canon", "Lenovo", "Miele", "Nikon"}
	categories = []string{"Mobile Phone", "Fridge Freezer", "TV", "Digital Camera", "Washing Machine", "CPU", "Dishwasher", "Microwave"}
	variants   = []string{"Black", "White", "Silver", "Stainless Steel", "Graphite", "Blue"}
)

func (g *Generator) generateTitle() string {
	var b strings.Builder
	b.WriteString(brands[g.rng.Intn(len(brands))])
	b.WriteByte(' ')
	b.WriteString(categories[g.rng.Intn(len(categories))])
	fmt.Fprintf(&b, " %c%d", 'A'+rune(g.rng.Intn(26)), 100+g.rng.Intn(900))

	// Storage or capacity suffix on roughly half the titles
	switch g.rng.Intn(4) {
	case 0:
		fmt.Fprintf(&b, " %dGB", 32<<g.rng.Intn(4))
	case 1:
		fmt.Fprintf(&b, " %dL", 200+10*g.rng.Intn(30))
	}

	b.WriteByte(' ')
	b.WriteString(variants[g.rng.Intn(len(variants))])
	return b.String()
}
