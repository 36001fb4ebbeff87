// Package memdiag provides memory diagnostics for the build phase.
//
// Enable debug logging with HASHBENCH_MEM_DEBUG=1
package memdiag

import (
	"os"
	"runtime"

	"github.com/eunmann/hashbench/pkg/humanfmt"
	"github.com/rs/zerolog"
)

// Enabled reports whether memory diagnostics were requested.
func Enabled() bool {
	return os.Getenv("HASHBENCH_MEM_DEBUG") == "1"
}

// Stats holds memory statistics from runtime.
type Stats struct {
	// HeapAlloc is bytes allocated on heap.
	HeapAlloc uint64

	// HeapSys is bytes obtained from OS for heap.
	HeapSys uint64

	// HeapInuse is bytes in in-use spans.
	HeapInuse uint64

	// Sys is bytes obtained from OS.
	Sys uint64

	// NumGC is the number of completed GC cycles.
	NumGC uint32

	// GCCPUFraction is the fraction of CPU used by GC.
	GCCPUFraction float64
}

// Read reads current memory statistics.
func Read() Stats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return Stats{
		HeapAlloc:     m.HeapAlloc,
		HeapSys:       m.HeapSys,
		HeapInuse:     m.HeapInuse,
		Sys:           m.Sys,
		NumGC:         m.NumGC,
		GCCPUFraction: m.GCCPUFraction,
	}
}

// HeapDelta runs fn between two forced collections and returns the change
// in live heap. The value fn returns is kept reachable until the second
// reading so the delta approximates its footprint. The result can be
// negative when unrelated garbage was freed.
func HeapDelta(fn func() any) (delta int64, result any) {
	runtime.GC()
	before := Read()
	result = fn()
	runtime.GC()
	after := Read()
	runtime.KeepAlive(result)
	return int64(after.HeapAlloc) - int64(before.HeapAlloc), result
}

// LogNow logs current memory stats at debug level when diagnostics are enabled.
func LogNow(log zerolog.Logger, reason string) {
	if !Enabled() {
		return
	}
	stats := Read()
	log.Debug().
		Str("reason", reason).
		Str("heap_alloc", humanfmt.Bytes(int64(stats.HeapAlloc))).
		Str("heap_sys", humanfmt.Bytes(int64(stats.HeapSys))).
		Str("heap_inuse", humanfmt.Bytes(int64(stats.HeapInuse))).
		Str("sys_total", humanfmt.Bytes(int64(stats.Sys))).
		Uint32("num_gc", stats.NumGC).
		Float64("gc_cpu_pct", stats.GCCPUFraction*100).
		Msg("memory stats")
}
