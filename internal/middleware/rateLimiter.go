package middleware

import (
	"sync"
	"time"

	"github.com/spevenexe/S25-NLP-project/internal/config"
	"golang.org/x/time/rate"
)

// entries untouched for this long are dropped on the next sweep
const clientIdleTTL = 10 * time.Minute

var limiterInstance = NewClientRateLimiter(rate.Limit(config.RATE_LIMIT_PER_SECOND), config.BURST_RATE_LIMIT_PER_SECOND)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientRateLimiter hands out one token bucket per client address.
type ClientRateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	rateLimit rate.Limit
	burst     int
	lastSweep time.Time
}

func NewClientRateLimiter(r rate.Limit, b int) *ClientRateLimiter {
	return &ClientRateLimiter{
		clients:   make(map[string]*clientLimiter),
		rateLimit: r,
		burst:     b,
		lastSweep: time.Now(),
	}
}

func (c *ClientRateLimiter) Allow(client string) bool {
	return c.limiterFor(client, time.Now()).Allow()
}

func (c *ClientRateLimiter) limiterFor(client string, now time.Time) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if now.Sub(c.lastSweep) > clientIdleTTL {
		c.sweep(now)
	}
	entry, ok := c.clients[client]
	if !ok {
		entry = &clientLimiter{limiter: rate.NewLimiter(c.rateLimit, c.burst)}
		c.clients[client] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// sweep expects c.mu to be held.
func (c *ClientRateLimiter) sweep(now time.Time) {
	for client, entry := range c.clients {
		if now.Sub(entry.lastSeen) > clientIdleTTL {
			delete(c.clients, client)
		}
	}
	c.lastSweep = now
}

func (c *ClientRateLimiter) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.clients)
}

//TODO: move the per-client buckets to redis once the API runs on more than one instance
