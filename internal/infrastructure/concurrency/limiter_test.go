package concurrency

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewLimiter_Clamps(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{name: "zero", in: 0, want: 1},
		{name: "negative", in: -3, want: 1},
		{name: "within range", in: 4, want: 4},
		{name: "above max", in: 100, want: MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewLimiter(tt.in).Stats().MaxConcurrent; got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestLimiter_AcquireRelease(t *testing.T) {
	l := NewLimiter(2)
	ctx := context.Background()

	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats := l.Stats()
	if stats.ActiveCount != 2 || stats.Available != 0 || stats.TotalAcquired != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}

	l.Release()
	l.Release()
	if got := l.Stats().Available; got != 2 {
		t.Errorf("expected 2 available slots, got %d", got)
	}
}

func TestStats_Gauges(t *testing.T) {
	l := NewLimiter(3)
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer l.Release()

	got := l.Stats().Gauges()
	want := map[string]int64{
		"max_concurrent": 3,
		"active":         1,
		"waiting":        0,
		"available":      2,
		"total_acquired": 1,
	}
	for key, value := range want {
		if got[key] != value {
			t.Errorf("%s: expected %d, got %d", key, value, got[key])
		}
	}
}

func TestLimiter_AcquireHonoursContext(t *testing.T) {
	l := NewLimiter(1)
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer l.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if got := l.Stats().WaitCount; got != 0 {
		t.Errorf("expected no waiters, got %d", got)
	}
}

func TestLimiter_BoundsConcurrency(t *testing.T) {
	const limit = 3
	l := NewLimiter(limit)

	var (
		wg      sync.WaitGroup
		current atomic.Int32
		peak    atomic.Int32
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Acquire(context.Background()); err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			defer l.Release()

			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			current.Add(-1)
		}()
	}
	wg.Wait()

	if got := peak.Load(); got > limit {
		t.Errorf("expected at most %d concurrent holders, saw %d", limit, got)
	}
}
