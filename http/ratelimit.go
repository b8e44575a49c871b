package http

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Chat rate limit defaults.
const (
	DefaultRateWindow   = time.Minute
	DefaultRateRequests = 10
)

// cleanupThreshold is the client count above which idle limiters are pruned.
const cleanupThreshold = 100

// ClientLimiter provides per-client rate limiting using token buckets. Each
// client may spend a burst of requests that refills evenly over the window.
type ClientLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientState
	limit   rate.Limit
	burst   int
	window  time.Duration
	now     func() time.Time
}

type clientState struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientLimiter creates a ClientLimiter allowing requests per window for
// each client.
func NewClientLimiter(requests int, window time.Duration) *ClientLimiter {
	return &ClientLimiter{
		clients: make(map[string]*clientState),
		limit:   rate.Every(window / time.Duration(requests)),
		burst:   requests,
		window:  window,
		now:     time.Now,
	}
}

// Allow reports whether client may make a request now, consuming a token if so.
func (l *ClientLimiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.clients) > cleanupThreshold {
		l.prune(now)
	}

	st, ok := l.clients[client]
	if !ok {
		st = &clientState{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[client] = st
	}
	st.lastSeen = now
	return st.limiter.AllowN(now, 1)
}

// prune drops clients idle for a full window, whose buckets have refilled.
func (l *ClientLimiter) prune(now time.Time) {
	for k, st := range l.clients {
		if now.Sub(st.lastSeen) >= l.window {
			delete(l.clients, k)
		}
	}
}

// Len returns the number of tracked clients.
func (l *ClientLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}
