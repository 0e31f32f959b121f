// Package concurrency bounds how many expensive operations run at once.
package concurrency

import (
	"context"
	"sync"
)

// MaxLimit is the largest number of slots a Limiter hands out.
const MaxLimit = 32

// Limiter caps the number of concurrent holders of a slot.
type Limiter struct {
	semaphore     chan struct{}
	maxConcurrent int
	mu            sync.RWMutex
	activeCount   int
	waitCount     int64
	totalAcquired int64
}

// NewLimiter creates a limiter with maxConcurrent slots, clamped to [1, MaxLimit].
func NewLimiter(maxConcurrent int) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	if maxConcurrent > MaxLimit {
		maxConcurrent = MaxLimit
	}

	return &Limiter{
		semaphore:     make(chan struct{}, maxConcurrent),
		maxConcurrent: maxConcurrent,
	}
}

// Acquire blocks until a slot is free or ctx is done.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	l.waitCount++
	l.mu.Unlock()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.activeCount++
		l.totalAcquired++
		l.waitCount--
		l.mu.Unlock()
		return nil
	case <-ctx.Done():
		l.mu.Lock()
		l.waitCount--
		l.mu.Unlock()
		return ctx.Err()
	}
}

// Release frees a slot taken by Acquire.
func (l *Limiter) Release() {
	<-l.semaphore
	l.mu.Lock()
	l.activeCount--
	l.mu.Unlock()
}

// Stats describes the limiter at one point in time.
type Stats struct {
	MaxConcurrent int
	ActiveCount   int
	WaitCount     int64
	TotalAcquired int64
	Available     int
}

// Stats returns current statistics.
func (l *Limiter) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Stats{
		MaxConcurrent: l.maxConcurrent,
		ActiveCount:   l.activeCount,
		WaitCount:     l.waitCount,
		TotalAcquired: l.totalAcquired,
		Available:     l.maxConcurrent - l.activeCount,
	}
}

// Gauges renders s as health details.
func (s Stats) Gauges() map[string]int64 {
	return map[string]int64{
		"max_concurrent": int64(s.MaxConcurrent),
		"active":         int64(s.ActiveCount),
		"waiting":        s.WaitCount,
		"available":      int64(s.Available),
		"total_acquired": s.TotalAcquired,
	}
}
