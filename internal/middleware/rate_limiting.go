package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"cater-menu-backend/internal/config"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitManager tracks one token-bucket limiter per client IP and evicts
// idle entries in the background.
type RateLimitManager struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	done     chan struct{}
}

func NewRateLimitManager() *RateLimitManager {
	m := &RateLimitManager{
		visitors: make(map[string]*visitor),
		done:     make(chan struct{}),
	}
	go m.cleanupLoop()
	return m
}

func (m *RateLimitManager) GetVisitor(ip string, requests, windowSeconds, burst int) *rate.Limiter {
	if requests <= 0 || windowSeconds <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = requests
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	v, exists := m.visitors[ip]
	if !exists {
		limit := rate.Limit(float64(requests) / float64(windowSeconds))
		v = &visitor{limiter: rate.NewLimiter(limit, burst)}
		m.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (m *RateLimitManager) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			for ip, v := range m.visitors {
				if time.Since(v.lastSeen) > 10*time.Minute {
					delete(m.visitors, ip)
				}
			}
			m.mu.Unlock()
		case <-m.done:
			return
		}
	}
}

func (m *RateLimitManager) Stop() {
	close(m.done)
}

// RateLimitMiddleware limits request rate per client IP.
func RateLimitMiddleware(cfg *config.Config, manager *RateLimitManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if manager == nil {
			c.Next()
			return
		}

		limiter := manager.GetVisitor(
			c.ClientIP(),
			cfg.RateLimitRequests,
			cfg.RateLimitWindow,
			cfg.RateLimitBurst,
		)
		if limiter == nil {
			c.Next()
			return
		}

		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests, please try again later",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
