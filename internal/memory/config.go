package memory

import (
	"fmt"
	"math"
	"os"
	"runtime/debug"
	"strconv"

	"gif-viewer/internal/logging"
)

// DefaultMemoryRatio is the share of the container limit given to the Go heap.
const DefaultMemoryRatio = 0.85

// Source values reported in ConfigResult.
const (
	SourceGoMemLimit  = "GOMEMLIMIT"
	SourceMemoryLimit = "MEMORY_LIMIT"
	SourceNone        = "none"
)

// ConfigResult describes how the memory limit was decided.
type ConfigResult struct {
	Configured     bool
	Source         string
	ContainerLimit int64
	GoMemLimit     int64
	Ratio          float64
}

// ComputeLimit decides the Go memory limit from environment values without
// applying it. getenv is usually os.Getenv.
func ComputeLimit(getenv func(string) string) (ConfigResult, error) {
	if v := getenv("GOMEMLIMIT"); v != "" {
		return ConfigResult{Configured: true, Source: SourceGoMemLimit}, nil
	}

	raw := getenv("MEMORY_LIMIT")
	if raw == "" {
		return ConfigResult{Source: SourceNone}, nil
	}

	container, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || container <= 0 {
		return ConfigResult{Source: SourceNone}, fmt.Errorf("invalid MEMORY_LIMIT %q", raw)
	}

	ratio := DefaultMemoryRatio
	var ratioErr error
	if rs := getenv("MEMORY_RATIO"); rs != "" {
		r, err := strconv.ParseFloat(rs, 64)
		switch {
		case err != nil:
			ratioErr = fmt.Errorf("invalid MEMORY_RATIO %q, using %.2f", rs, DefaultMemoryRatio)
		case r <= 0 || r > 1:
			ratioErr = fmt.Errorf("MEMORY_RATIO %q out of range (0.0-1.0], using %.2f", rs, DefaultMemoryRatio)
		default:
			ratio = r
		}
	}

	return ConfigResult{
		Configured:     true,
		Source:         SourceMemoryLimit,
		ContainerLimit: container,
		GoMemLimit:     int64(float64(container) * ratio),
		Ratio:          ratio,
	}, ratioErr
}

// ConfigureFromEnv applies the limit chosen by ComputeLimit. Call it early
// in main, before significant allocations.
func ConfigureFromEnv() ConfigResult {
	result, err := ComputeLimit(os.Getenv)
	if err != nil {
		logging.Warn("Memory limit: %v", err)
	}

	switch result.Source {
	case SourceGoMemLimit:
		if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
			result.GoMemLimit = limit
		}
		logging.Info("GOMEMLIMIT set via environment: %s", os.Getenv("GOMEMLIMIT"))
	case SourceMemoryLimit:
		debug.SetMemoryLimit(result.GoMemLimit)
		logging.Info("Configured GOMEMLIMIT: %s (%.0f%% of %s container limit)",
			formatBytes(result.GoMemLimit), result.Ratio*100, formatBytes(result.ContainerLimit))
	default:
		logging.Debug("MEMORY_LIMIT not set, GOMEMLIMIT left unconfigured")
	}
	return result
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
