package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// rateStore 按 IP 记录滑动窗口内的请求时间戳
type rateStore struct {
	mu     sync.Mutex
	window time.Duration
	hits   map[string][]time.Time
}

func newRateStore(window time.Duration) *rateStore {
	s := &rateStore{
		window: window,
		hits:   make(map[string][]time.Time),
	}
	// 定期清理过期数据，避免 map 无限增长
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			s.mu.Lock()
			for ip := range s.hits {
				if len(s.prune(ip, time.Now())) == 0 {
					delete(s.hits, ip)
				}
			}
			s.mu.Unlock()
		}
	}()
	return s
}

// prune 丢弃窗口外的时间戳，调用方需持有锁
func (s *rateStore) prune(ip string, now time.Time) []time.Time {
	cutoff := now.Add(-s.window)
	kept := s.hits[ip][:0]
	for _, t := range s.hits[ip] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	s.hits[ip] = kept
	return kept
}

// allow 判断该 IP 当前是否允许再来一次请求，允许则记录
func (s *rateStore) allow(ip string, max int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if len(s.prune(ip, now)) >= max {
		return false
	}
	s.hits[ip] = append(s.hits[ip], now)
	return true
}

// LoginRateLimit 登录接口限流中间件
// 每 IP 每窗口期最多 maxAttempts 次尝试，超过则返回 429
func LoginRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	store := newRateStore(window)

	return func(c *gin.Context) {
		if !store.allow(c.ClientIP(), maxAttempts) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "登录尝试过于频繁，请稍后再试",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
