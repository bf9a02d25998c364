package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const throttleMessage = "Too many attempts, please try again later"

type window struct {
	start time.Time
	count int
}

// AuthWindowLimiter is the fixed-window limiter for the register and login
// endpoints: at most max requests per window per source address. The counter
// resets when the window elapses.
type AuthWindowLimiter struct {
	mu        sync.Mutex
	windows   map[string]*window
	max       int
	size      time.Duration
	now       func() time.Time
	lastSweep time.Time
}

func NewAuthWindowLimiter(max int, size time.Duration) *AuthWindowLimiter {
	return &AuthWindowLimiter{
		windows: make(map[string]*window),
		max:     max,
		size:    size,
		now:     time.Now,
	}
}

func (l *AuthWindowLimiter) allow(source string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	w, ok := l.windows[source]
	if !ok || now.Sub(w.start) >= l.size {
		l.windows[source] = &window{start: now, count: 1}
		return true
	}
	if w.count >= l.max {
		return false
	}
	w.count++
	return true
}

// sweep drops elapsed windows so sources that never return do not pile up.
// Runs at most once per window size; callers hold l.mu.
func (l *AuthWindowLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.size {
		return
	}
	l.lastSweep = now
	for source, w := range l.windows {
		if now.Sub(w.start) >= l.size {
			delete(l.windows, source)
		}
	}
}

func (l *AuthWindowLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
		if err != nil {
			host = c.Request.RemoteAddr
		}
		if !l.allow(host) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": throttleMessage})
			return
		}
		c.Next()
	}
}
