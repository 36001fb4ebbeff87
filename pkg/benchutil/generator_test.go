package benchutil

import (
	"strconv"
	"testing"
)

func TestGenerateDeterministic(t *testing.T) {
	a := Products(500)
	b := Products(500)
	if len(a) != 500 || len(b) != 500 {
		t.Fatalf("len = %d/%d, want 500", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("record %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGenerateUniqueIncreasingIDs(t *testing.T) {
	records := Products(1000)
	prev := 0
	for i, r := range records {
		id, err := strconv.Atoi(r.ID)
		if err != nil {
			t.Fatalf("record %d: id %q is not numeric", i, r.ID)
		}
		if id <= prev {
			t.Fatalf("record %d: id %d not greater than %d", i, id, prev)
		}
		prev = id
		if r.Value == "" {
			t.Errorf("record %d has empty title", i)
		}
	}
}

func TestGenerateDuplicates(t *testing.T) {
	cfg := DefaultConfig(2000)
	cfg.DuplicateRate = 0.2
	records := NewGenerator(cfg).Generate()

	seen := make(map[string]bool)
	dups := 0
	for _, r := range records {
		if seen[r.ID] {
			dups++
		}
		seen[r.ID] = true
	}
	if dups == 0 {
		t.Error("expected duplicate ids with DuplicateRate=0.2")
	}
}
