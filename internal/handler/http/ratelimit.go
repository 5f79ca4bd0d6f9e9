package http

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"docsum/internal/handler/http/respond"
)

// RateLimiter applies per-client-IP token bucket rate limiting.
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	lastSeen time.Duration // idle time after which a client's bucket is dropped
}

type clientLimiter struct {
	limiter *rate.Limiter
	seen    time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second with the
// given burst per client IP. Idle client buckets are dropped after ten
// minutes to bound memory.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients:  make(map[string]*clientLimiter),
		limit:    rate.Limit(rps),
		burst:    burst,
		lastSeen: 10 * time.Minute,
	}
}

// Limit rejects requests over the per-IP budget with 429.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			respond.JSON(w, http.StatusTooManyRequests,
				respond.ErrorBody{Error: "rate limit exceeded", Code: "rate_limited"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, ok := rl.clients[ip]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = client
		rl.evictIdle(now)
	}
	client.seen = now

	return client.limiter.Allow()
}

// evictIdle drops buckets not seen within the idle window. Called with the
// lock held, only when a new client is added, so steady-state traffic pays
// nothing.
func (rl *RateLimiter) evictIdle(now time.Time) {
	for ip, client := range rl.clients {
		if now.Sub(client.seen) > rl.lastSeen {
			delete(rl.clients, ip)
		}
	}
}
