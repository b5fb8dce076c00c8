package workers

import (
	"os"
	"runtime"
	"strconv"
	"sync/atomic"
)

// EnvVar names the environment variable that overrides the computed size.
const EnvVar = "THUMBNAIL_WORKERS"

var override atomic.Int64

// SetOverride fixes the worker count. Zero or a negative value clears it.
func SetOverride(n int) {
	if n < 0 {
		n = 0
	}
	override.Store(int64(n))
}

func explicit() int {
	if n := override.Load(); n > 0 {
		return int(n)
	}
	if v := os.Getenv(EnvVar); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// Count returns multiplier workers per available CPU, at least one and at
// most limit (0 means no limit).
func Count(multiplier float64, limit int) int {
	n := explicit()
	if n == 0 {
		n = int(float64(runtime.GOMAXPROCS(0)) * multiplier)
	}
	if n < 1 {
		n = 1
	}
	if limit > 0 && n > limit {
		n = limit
	}
	return n
}

// ForCPU sizes CPU-bound work: one worker per CPU.
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// ForIO sizes I/O-bound work: two workers per CPU.
func ForIO(limit int) int {
	return Count(2.0, limit)
}
