package service

import (
	"sync"
	"time"
)

// TokenBucket is an in-memory per-key rate limiter. It is safe for
// concurrent use. Buckets idle for ten minutes are dropped by a janitor
// goroutine that runs until Stop.
type TokenBucket struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     float64 // tokens added per second
	capacity float64
	now      func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewTokenBucket creates a limiter allowing bursts of capacity per key,
// refilled at rate tokens per second.
func NewTokenBucket(rate, capacity float64) *TokenBucket {
	tb := &TokenBucket{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		capacity: capacity,
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go tb.janitor(5*time.Minute, 10*time.Minute)
	return tb
}

// Allow consumes one token for key and reports whether one was available.
func (tb *TokenBucket) Allow(key string) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	b, ok := tb.buckets[key]
	if !ok {
		b = &bucket{tokens: tb.capacity, last: now}
		tb.buckets[key] = b
	}

	elapsed := now.Sub(b.last).Seconds()
	b.tokens = min(b.tokens+elapsed*tb.rate, tb.capacity)
	b.last = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Stop ends the janitor goroutine. It is safe to call more than once.
func (tb *TokenBucket) Stop() {
	tb.stopOnce.Do(func() { close(tb.done) })
}

func (tb *TokenBucket) janitor(every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-tb.done:
			return
		case <-ticker.C:
			tb.sweep(idle)
		}
	}
}

func (tb *TokenBucket) sweep(idle time.Duration) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	cutoff := tb.now().Add(-idle)
	for key, b := range tb.buckets {
		if b.last.Before(cutoff) {
			delete(tb.buckets, key)
		}
	}
}
