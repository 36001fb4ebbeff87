package memdiag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRead(t *testing.T) {
	s := Read()
	if s.HeapAlloc == 0 || s.Sys == 0 {
		t.Errorf("Read() = %+v, want non-zero heap and sys", s)
	}
	if s.HeapAlloc > s.Sys {
		t.Errorf("HeapAlloc %d exceeds Sys %d", s.HeapAlloc, s.Sys)
	}
}

func TestHeapDelta(t *testing.T) {
	const size = 8 << 20
	delta, result := HeapDelta(func() any {
		return make([]byte, size)
	})

	if b, ok := result.([]byte); !ok || len(b) != size {
		t.Fatalf("result = %T, want []byte of len %d", result, size)
	}
	if delta < size/2 {
		t.Errorf("delta = %d, want at least %d", delta, size/2)
	}
}

func TestLogNow(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	t.Setenv("HASHBENCH_MEM_DEBUG", "")
	LogNow(log, "disabled")
	if buf.Len() != 0 {
		t.Errorf("expected no output when disabled, got: %s", buf.String())
	}

	t.Setenv("HASHBENCH_MEM_DEBUG", "1")
	LogNow(log, "build")
	if !strings.Contains(buf.String(), `"reason":"build"`) {
		t.Errorf("expected reason field, got: %s", buf.String())
	}
	if !strings.Contains(buf.String(), `"heap_alloc"`) {
		t.Errorf("expected heap_alloc field, got: %s", buf.String())
	}
}
