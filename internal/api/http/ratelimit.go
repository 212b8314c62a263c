package http

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/spec-kit/blog-service/internal/api/http/handlers"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

const limiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter throttles a route per client IP with a token bucket.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	clientIP handlers.IPResolver
	now      func() time.Time
}

// NewIPRateLimiter allows perMinute requests per IP with the given burst.
func NewIPRateLimiter(perMinute, burst int, clientIP handlers.IPResolver) *IPRateLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	if burst <= 0 {
		burst = 1
	}
	if clientIP == nil {
		clientIP = handlers.ClientIP
	}
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
		clientIP: clientIP,
		now:      time.Now,
	}
}

// Allow consumes a token for ip. When denied it also returns the suggested wait.
func (l *IPRateLimiter) Allow(ip string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.evict(now)

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[strings.Clone(ip)] = v
	}
	v.lastSeen = now

	res := v.limiter.ReserveN(now, 1)
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Handle is the fiber middleware form of Allow.
func (l *IPRateLimiter) Handle(c *fiber.Ctx) error {
	ok, wait := l.Allow(l.clientIP(c))
	if !ok {
		seconds := int(wait.Seconds())
		if wait > time.Duration(seconds)*time.Second {
			seconds++
		}
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(seconds))
		return apperrors.NewTooManyRequests("too many attempts, retry later")
	}
	return c.Next()
}

func (l *IPRateLimiter) evict(now time.Time) {
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > limiterIdleTTL {
			delete(l.visitors, ip)
		}
	}
}
