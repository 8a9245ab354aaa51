package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"royalpalm-dashboard/internal/config"
	"royalpalm-dashboard/internal/errors"
	"royalpalm-dashboard/internal/observability"
)

const (
	// DefaultLimiterIdleTTL is how long a client may stay quiet before its
	// limiter is evicted.
	DefaultLimiterIdleTTL = 5 * time.Minute
	// DefaultSweepInterval is how often Run looks for idle limiters.
	DefaultSweepInterval = time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client address. Buckets survive as
// long as their client keeps sending requests; idle ones are removed by
// Sweep.
type RateLimiter struct {
	enabled bool
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	mu      sync.Mutex
	clients map[string]*clientLimiter
}

func NewRateLimiter(cfg config.SecurityConfig) *RateLimiter {
	return &RateLimiter{
		enabled: cfg.EnableRateLimit,
		limit:   rate.Limit(cfg.RateLimitRPS),
		burst:   cfg.RateLimitBurst,
		idleTTL: DefaultLimiterIdleTTL,
		now:     time.Now,
		clients: make(map[string]*clientLimiter),
	}
}

// Allow reports whether ip may make a request now.
func (rl *RateLimiter) Allow(ip string) bool {
	if !rl.enabled {
		return true
	}
	now := rl.now()

	rl.mu.Lock()
	c, ok := rl.clients[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = now
	rl.mu.Unlock()

	return c.limiter.AllowN(now, 1)
}

// Sweep removes limiters whose client has been idle longer than the idle TTL
// and returns how many were removed.
func (rl *RateLimiter) Sweep() int {
	cutoff := rl.now().Add(-rl.idleTTL)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for ip, c := range rl.clients {
		if c.lastSeen.Before(cutoff) {
			delete(rl.clients, ip)
			removed++
		}
	}
	return removed
}

// Clients returns the number of tracked client addresses.
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Run sweeps idle limiters every interval until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Sweep()
		}
	}
}

// RateLimit rejects requests over the per-client budget with 429.
func RateLimit(limiter *RateLimiter, logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if limiter.Allow(ip) {
				next.ServeHTTP(w, r)
				return
			}

			requestID := observability.GetRequestID(r.Context())
			logger.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path, "request_id", requestID)

			if limiter.limit > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(max(1, int(1/float64(limiter.limit)))))
			}
			errors.WriteError(w, logger, errors.RateLimit("Too many requests"), requestID)
		})
	}
}
