package parallel

import (
	"sync"
	"testing"
)

func coverage(t *testing.T, n, work int, cfg Config) []int {
	t.Helper()
	hits := make([]int, n)
	var mu sync.Mutex
	ForRange(n, work, func(lo, hi int) {
		mu.Lock()
		defer mu.Unlock()
		for i := lo; i < hi; i++ {
			hits[i]++
		}
	}, cfg)
	return hits
}

func TestForRange_CoversEveryIndexOnce(t *testing.T) {
	cfg := Config{Enabled: true, Workers: 3, MinBytes: 0}
	for i, h := range coverage(t, 10, 1<<20, cfg) {
		if h != 1 {
			t.Errorf("index %d visited %d times", i, h)
		}
	}
}

func TestForRange_ReturnsRangeCount(t *testing.T) {
	cfg := Config{Enabled: true, Workers: 4, MinBytes: 0}
	if got := ForRange(16, 1<<20, func(_, _ int) {}, cfg); got != 4 {
		t.Errorf("ForRange(16) ran %d ranges, want 4", got)
	}
	if got := ForRange(3, 1<<20, func(_, _ int) {}, cfg); got != 3 {
		t.Errorf("ForRange(3) ran %d ranges, want 3", got)
	}
	if got := ForRange(1, 1<<20, func(_, _ int) {}, cfg); got != 1 {
		t.Errorf("ForRange(1) ran %d ranges, want 1", got)
	}
	if got := ForRange(0, 0, func(_, _ int) {}, cfg); got != 0 {
		t.Errorf("ForRange(0) ran %d ranges, want 0", got)
	}
}

func TestForRange_Sequential(t *testing.T) {
	calls := 0
	ForRange(100, 1<<30, func(lo, hi int) {
		calls++
		if lo != 0 || hi != 100 {
			t.Errorf("got range [%d, %d), want [0, 100)", lo, hi)
		}
	}, Sequential())
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestForRange_SmallWorkStaysSequential(t *testing.T) {
	cfg := Config{Enabled: true, Workers: 8, MinBytes: 1024}
	calls := 0
	ForRange(50, 512, func(_, _ int) { calls++ }, cfg)
	if calls != 1 {
		t.Errorf("expected sequential fallback, got %d calls", calls)
	}
}

func TestForRange_Empty(_ *testing.T) {
	ForRange(0, 0, func(_, _ int) { panic("should not be called") }, DefaultConfig())
}
