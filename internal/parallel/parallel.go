// Package parallel runs independent slices of a strided operation on
// multiple goroutines. Callers guarantee that the slices touch disjoint
// memory; nothing here synchronizes element access.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines; 0 means runtime.NumCPU().
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns the process default: sequential execution, with
// worker count and chunk size ready for when it is enabled.
func DefaultConfig() Config {
	return Config{
		Enabled:      false,
		NumWorkers:   runtime.NumCPU(),
		MinChunkSize: 64, // Typical cache line aware chunk.
	}
}

var current atomic.Pointer[Config]

func init() {
	cfg := DefaultConfig()
	current.Store(&cfg)
}

// Current returns the process-wide configuration used by sort and
// reduction kernels.
func Current() Config {
	return *current.Load()
}

// SetCurrent installs cfg as the process-wide configuration and returns the
// previous one.
func SetCurrent(cfg Config) Config {
	return *current.Swap(&cfg)
}

func (cfg Config) workers() int {
	if cfg.NumWorkers <= 0 {
		return runtime.NumCPU()
	}
	return cfg.NumWorkers
}

// ForRange splits [0, n) into contiguous chunks and calls f(lo, hi) once per
// chunk, concurrently when enabled.
func ForRange(n int, f func(lo, hi int), cfg Config) {
	if n <= 0 {
		return
	}
	workers := cfg.workers()
	if !cfg.Enabled || workers < 2 || n < 2*max(cfg.MinChunkSize, 1) {
		f(0, n)
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+workers-1)/workers, cfg.MinChunkSize, 1)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(start, end)
	}
	wg.Wait()
}
