// Package parallel splits index ranges across goroutines for bulk memory copies.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled  bool // Whether parallel execution is enabled.
	Workers  int  // Upper bound on goroutines per call.
	MinBytes int  // Copies smaller than this run on the calling goroutine.
}

// DefaultConfig returns defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:  n > 1,
		Workers:  n,
		MinBytes: 1 << 16,
	}
}

// Sequential returns a Config that never spawns goroutines.
func Sequential() Config {
	return Config{Enabled: false, Workers: 1}
}

// ForRange calls f over disjoint [lo, hi) ranges that cover [0, n) and returns the
// number of ranges it ran. work is the total number of bytes the ranges will touch;
// small jobs stay sequential as a single range on the calling goroutine.
func ForRange(n, work int, f func(lo, hi int), cfg Config) int {
	if n <= 0 {
		return 0
	}
	workers := min(cfg.Workers, n)
	if !cfg.Enabled || workers <= 1 || work < cfg.MinBytes {
		f(0, n)
		return 1
	}

	var wg sync.WaitGroup
	chunk := (n + workers - 1) / workers
	ranges := 0
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		ranges++
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			f(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
	return ranges
}
