package httpapi

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/campuslink/campuslink/internal/logging"
)

// IPRateLimiter keeps a token bucket per client IP. It guards the credential
// endpoints against password guessing; a limited request is rejected before
// the store or the hasher is touched.
type IPRateLimiter struct {
	visitors sync.Map
	rps      rate.Limit
	burst    int
	log      logging.Logger
}

// lastSeen is written on every request and read by cleanupVisitors, so it
// is atomic (unix nanos).
type visitor struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

func NewIPRateLimiter(perMinute int, log logging.Logger) *IPRateLimiter {
	l := &IPRateLimiter{
		rps:   rate.Limit(float64(perMinute) / 60.0),
		burst: 5,
		log:   log,
	}
	go l.cleanupVisitors()
	return l
}

func (l *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	v, ok := l.visitors.Load(ip)
	if !ok {
		// LoadOrStore keeps concurrent first requests from one IP from each
		// installing their own bucket
		v, _ = l.visitors.LoadOrStore(ip, &visitor{limiter: rate.NewLimiter(l.rps, l.burst)})
	}
	vi := v.(*visitor)
	vi.lastSeen.Store(time.Now().UnixNano())
	return vi.limiter
}

func (l *IPRateLimiter) cleanupVisitors() {
	for {
		time.Sleep(time.Minute)
		cutoff := time.Now().Add(-5 * time.Minute).UnixNano()
		l.visitors.Range(func(k, v interface{}) bool {
			if v.(*visitor).lastSeen.Load() < cutoff {
				l.visitors.Delete(k)
			}
			return true
		})
	}
}

func (l *IPRateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		if !l.getLimiter(ip).Allow() {
			l.log.Warn(c.Request.Context(), "rate limit exceeded", "ip", ip, "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
