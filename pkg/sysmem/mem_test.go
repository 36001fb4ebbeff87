package sysmem

import (
	"runtime"
	"testing"
)

func TestTotal(t *testing.T) {
	result := Total()

	if result.TotalBytes == 0 {
		t.Error("Total() returned 0 bytes")
	}

	switch runtime.GOOS {
	case "linux", "darwin", "windows", "freebsd", "openbsd", "netbsd", "dragonfly":
		if !result.Reliable {
			t.Logf("Warning: memory detection not reliable on %s", runtime.GOOS)
		}
	default:
		if result.Reliable {
			t.Errorf("Expected Reliable=false on %s, got true", runtime.GOOS)
		}
		if result.TotalBytes != DefaultMemoryBytes {
			t.Errorf("Expected fallback value %d on %s, got %d", DefaultMemoryBytes, runtime.GOOS, result.TotalBytes)
		}
	}
}

func TestDescribe(t *testing.T) {
	h := Describe()

	if h.CPUs < 1 {
		t.Errorf("CPUs = %d, want >= 1", h.CPUs)
	}
	if h.GOOS != runtime.GOOS || h.GOARCH != runtime.GOARCH {
		t.Errorf("platform = %s/%s, want %s/%s", h.GOOS, h.GOARCH, runtime.GOOS, runtime.GOARCH)
	}
	if h.GoVersion == "" {
		t.Error("GoVersion is empty")
	}
	if h.Memory.TotalBytes == 0 {
		t.Error("Memory.TotalBytes is 0")
	}
}
