package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"altheia/internal/views"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	mu       sync.Mutex
	lastSeen time.Time
}

// Throttle limits credential submissions per client IP with a token bucket.
// Rejected requests get a 429 page and a Retry-After header.
type Throttle struct {
	rps     rate.Limit
	burst   int
	clients sync.Map // ip -> *clientLimiter
	now     func() time.Time
}

func NewThrottle(rps float64, burst int) *Throttle {
	return &Throttle{rps: rate.Limit(rps), burst: burst, now: time.Now}
}

func (t *Throttle) limiter(ip string) *rate.Limiter {
	v, _ := t.clients.LoadOrStore(ip, &clientLimiter{limiter: rate.NewLimiter(t.rps, t.burst)})
	cl := v.(*clientLimiter)
	cl.mu.Lock()
	cl.lastSeen = t.now()
	cl.mu.Unlock()
	return cl.limiter
}

// Sweep drops limiters idle for longer than maxIdle.
func (t *Throttle) Sweep(maxIdle time.Duration) {
	cutoff := t.now().Add(-maxIdle)
	t.clients.Range(func(key, value any) bool {
		cl := value.(*clientLimiter)
		cl.mu.Lock()
		stale := cl.lastSeen.Before(cutoff)
		cl.mu.Unlock()
		if stale {
			t.clients.Delete(key)
		}
		return true
	})
}

func (t *Throttle) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		r := t.limiter(c.ClientIP()).Reserve()
		if !r.OK() {
			tooMany(c, 0)
			return
		}
		if d := r.Delay(); d > 0 {
			r.Cancel()
			tooMany(c, int(d.Seconds())+1)
			return
		}
		c.Next()
	}
}

func tooMany(c *gin.Context, retryAfter int) {
	if retryAfter > 0 {
		c.Header("Retry-After", strconv.Itoa(retryAfter))
	}
	abortHTML(c, http.StatusTooManyRequests, views.Error("Too many attempts", "Please wait a moment and try again."))
}
