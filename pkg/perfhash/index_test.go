package perfhash

import (
	"fmt"
	"testing"

	"github.com/eunmann/hashbench/pkg/dataset"
)

func TestBuildEmpty(t *testing.T) {
	idx, err := Build(nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if idx.Len() != 0 {
		t.Errorf("Len = %d, want 0", idx.Len())
	}
	if _, ok := idx.Lookup("test"); ok {
		t.Error("expected Lookup to return false for empty index")
	}
	if n, err := idx.MarshaledSize(); err != nil || n != 0 {
		t.Errorf("MarshaledSize = %d, %v; want 0, nil", n, err)
	}
}

func TestBuildAndLookup(t *testing.T) {
	var records []dataset.Record[string, string]
	for i := 0; i < 1000; i++ {
		records = append(records, dataset.Record[string, string]{
			ID:    fmt.Sprintf("%d", 1000+i),
			Value: fmt.Sprintf("title %d", i),
		})
	}

	idx, err := Build(records)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if idx.Len() != len(records) {
		t.Errorf("Len = %d, want %d", idx.Len(), len(records))
	}

	for _, r := range records {
		v, ok := idx.Lookup(r.ID)
		if !ok {
			t.Fatalf("Lookup(%q) failed", r.ID)
		}
		if v != r.Value {
			t.Errorf("Lookup(%q) = %q, want %q", r.ID, v, r.Value)
		}
	}

	for _, id := range []string{"MISSING_0", "", "999", "2000"} {
		if _, ok := idx.Lookup(id); ok {
			t.Errorf("Lookup(%q) should return false", id)
		}
	}

	if n, err := idx.MarshaledSize(); err != nil || n == 0 {
		t.Errorf("MarshaledSize = %d, %v; want > 0", n, err)
	}
}

func TestBuildDuplicateFirstWins(t *testing.T) {
	records := []dataset.Record[string, string]{
		{ID: "a", Value: "first"},
		{ID: "b", Value: "only"},
		{ID: "a", Value: "second"},
	}

	idx, err := Build(records)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if idx.Len() != 2 {
		t.Errorf("Len = %d, want 2", idx.Len())
	}
	if v, _ := idx.Lookup("a"); v != "first" {
		t.Errorf("Lookup(a) = %q, want first", v)
	}
}
