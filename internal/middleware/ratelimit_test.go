package middleware

import (
	"context"
	"testing"
	"time"

	"royalpalm-dashboard/internal/config"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(rps, burst int) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(config.SecurityConfig{EnableRateLimit: true, RateLimitRPS: rps, RateLimitBurst: burst})
	rl.now = clock.Now
	return rl, clock
}

func TestRateLimiter_StaysLimitedPastOneMinute(t *testing.T) {
	rl, clock := newTestLimiter(1, 3)
	const ip = "10.0.0.1"

	for i := range 3 {
		if !rl.Allow(ip) {
			t.Fatalf("request %d within burst was rejected", i+1)
		}
	}
	if rl.Allow(ip) {
		t.Fatal("request over burst was allowed")
	}

	// One request per second refills exactly what it spends, so the burst
	// never comes back while the client stays busy.
	for range 90 {
		clock.Advance(time.Second)
		rl.Sweep()
		if !rl.Allow(ip) {
			t.Fatalf("refilled token rejected at %s", clock.t.Format(time.TimeOnly))
		}
		if rl.Allow(ip) {
			t.Fatalf("burst was reset at %s", clock.t.Format(time.TimeOnly))
		}
	}
	if got := rl.Clients(); got != 1 {
		t.Errorf("Clients() = %d, want 1", got)
	}
}

func TestRateLimiter_SweepEvictsIdleClients(t *testing.T) {
	rl, clock := newTestLimiter(1, 1)

	rl.Allow("10.0.0.1")
	clock.Advance(DefaultLimiterIdleTTL / 2)
	rl.Allow("10.0.0.2")

	clock.Advance(DefaultLimiterIdleTTL/2 + time.Second)
	if removed := rl.Sweep(); removed != 1 {
		t.Errorf("Sweep() removed %d, want 1", removed)
	}
	if got := rl.Clients(); got != 1 {
		t.Errorf("Clients() = %d, want 1", got)
	}

	// An evicted client starts over with a full burst.
	if !rl.Allow("10.0.0.1") {
		t.Error("evicted client should be allowed again")
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := NewRateLimiter(config.SecurityConfig{EnableRateLimit: false, RateLimitRPS: 1, RateLimitBurst: 1})
	for range 5 {
		if !rl.Allow("10.0.0.1") {
			t.Fatal("disabled limiter rejected a request")
		}
	}
	if got := rl.Clients(); got != 0 {
		t.Errorf("Clients() = %d, want 0", got)
	}
}

func TestRateLimiter_RunStopsWithContext(t *testing.T) {
	rl, _ := newTestLimiter(1, 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		rl.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
