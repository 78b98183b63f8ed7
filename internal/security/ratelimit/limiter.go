package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// staleAfter is how long an idle key keeps its bucket.
const staleAfter = 15 * time.Minute

// Limiter keeps one token bucket per key (client IP, user ID).
type Limiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	now      func() time.Time
	cleanup  *time.Ticker
	done     chan struct{}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLimiter allows rpm requests per minute per key with a burst of a sixth of
// that. A non-positive rpm disables limiting.
func NewLimiter(rpm int) *Limiter {
	burst := rpm / 6
	if burst < 1 {
		burst = 1
	}
	l := &Limiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(rpm) / 60.0),
		burst:    burst,
		now:      time.Now,
		cleanup:  time.NewTicker(5 * time.Minute),
		done:     make(chan struct{}),
	}
	if rpm <= 0 {
		l.limit = rate.Inf
	}
	go l.cleanupStale()
	return l
}

// WithClock replaces the time source; tests only.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Allow reports whether a request for key may proceed now.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// Prune drops keys idle for longer than staleAfter.
func (l *Limiter) Prune() {
	l.mu.Lock()
	defer l.mu.Unlock()
	threshold := l.now().Add(-staleAfter)
	for key, v := range l.visitors {
		if v.lastSeen.Before(threshold) {
			delete(l.visitors, key)
		}
	}
}

func (l *Limiter) cleanupStale() {
	for {
		select {
		case <-l.cleanup.C:
			l.Prune()
		case <-l.done:
			return
		}
	}
}

// Stop ends the background cleanup.
func (l *Limiter) Stop() {
	l.cleanup.Stop()
	close(l.done)
}
