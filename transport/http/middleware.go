package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// ContextAddressKey holds the authenticated wallet address in gin.Context
	ContextAddressKey = "walletAddress"

	requestIDHeader = "X-Request-ID"

	maxBodyBytes = 64 << 10
)

// RequireSession aborts with 401 unless the session cookie is valid
func (h *AuthHandlers) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := h.authService.ReadSession(c.Request.Context(), h.sessionToken(c))
		if !session.Authenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated."})
			return
		}

		c.Set(ContextAddressKey, session.Address)

		c.Next()
	}
}

// RequestID tags each request with an ID, keeping one supplied by a proxy
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)

		c.Next()
	}
}

// LimitBody caps request bodies at n bytes. Reads past the cap fail, which
// handlers report as an invalid payload.
func LimitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}

		c.Next()
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter keeps one token bucket per key for a single instance
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	pruned   time.Time
	every    rate.Limit
	burst    int
	per      time.Duration
	clock    clock.Clock
}

func newRateLimiter(limit int, per time.Duration, clk clock.Clock) *rateLimiter {
	return &rateLimiter{
		visitors: make(map[string]*visitor),
		every:    rate.Every(per / time.Duration(limit)),
		burst:    limit,
		per:      per,
		clock:    clk,
	}
}

// allow takes one token from the bucket of key. Buckets idle for a whole
// period are full again and get dropped.
func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock.Now()
	if now.Sub(rl.pruned) >= rl.per {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) >= rl.per {
				delete(rl.visitors, k)
			}
		}
		rl.pruned = now
	}

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.every, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

// RateLimit rejects clients exceeding limit requests per period with 429.
// A limit of zero disables it.
func RateLimit(limit int, per time.Duration, clk clock.Clock) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if clk == nil {
		clk = clock.New()
	}

	rl := newRateLimiter(limit, per, clk)

	return func(c *gin.Context) {
		if !rl.allow("ip:" + c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests."})
			return
		}

		c.Next()
	}
}
