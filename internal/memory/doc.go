// Package memory sizes the Go memory limit for containers and tells
// background work when to back off.
//
// # Memory limit
//
// ConfigureFromEnv is called first thing in main. It leaves an explicit
// GOMEMLIMIT alone; otherwise it derives one from MEMORY_LIMIT, the
// container limit in bytes as exposed by the Kubernetes Downward API:
//
//	env:
//	  - name: MEMORY_LIMIT
//	    valueFrom:
//	      resourceFieldRef:
//	        resource: limits.memory
//
// MEMORY_RATIO (default 0.85) is the share of that limit given to the Go
// heap. The remainder covers goroutine stacks and image buffers that are
// not yet garbage.
//
// # Backpressure
//
// A Monitor samples heap allocation against the limit. Once usage reaches
// the critical mark, Wait blocks callers until usage falls below the high
// mark again. Poster warm-up calls Wait before each render, so a large
// batch of new GIFs cannot push the process into the OOM killer. Request
// handling never waits.
//
// Without a limit the monitor does nothing and Wait never blocks.
package memory
