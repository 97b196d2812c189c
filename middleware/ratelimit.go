package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	msgTooManyRequests = "Too many requests, please try again later."
	msgTooManyAttempts = "Too many attempts, please try again later."
)

// WindowCounter 固定窗口计数器
type WindowCounter interface {
	// Incr 在 windowStart 开始的窗口内计数加一，返回当前计数
	Incr(ctx context.Context, windowStart time.Time, window time.Duration) (int64, error)
}

// MemoryCounter 进程内计数器
type MemoryCounter struct {
	mu    sync.Mutex
	start time.Time
	count int64
}

// NewMemoryCounter 创建进程内计数器
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{}
}

func (m *MemoryCounter) Incr(_ context.Context, windowStart time.Time, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.start.Equal(windowStart) {
		m.start = windowStart
		m.count = 0
	}
	m.count++
	return m.count, nil
}

// RedisCounter 基于 INCR + EXPIRE 的共享计数器，多副本共用同一窗口
type RedisCounter struct {
	client redis.Cmdable
	prefix string
}

// NewRedisCounter 创建 Redis 计数器
func NewRedisCounter(client redis.Cmdable, prefix string) *RedisCounter {
	if prefix == "" {
		prefix = "thrive:ratelimit"
	}
	return &RedisCounter{client: client, prefix: prefix}
}

func (r *RedisCounter) Incr(ctx context.Context, windowStart time.Time, window time.Duration) (int64, error) {
	key := r.prefix + ":" + strconv.FormatInt(windowStart.Unix(), 10)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis rate limit: %w", err)
	}
	return incr.Val(), nil
}

// RateLimit 全局限流中间件
// 固定窗口，不区分用户；计数器出错时放行
func RateLimit(limit int, window time.Duration, counter WindowCounter) gin.HandlerFunc {
	now := time.Now
	return func(c *gin.Context) {
		windowStart := now().Truncate(window)
		count, err := counter.Incr(c.Request.Context(), windowStart, window)
		if err != nil {
			slog.WarnContext(c.Request.Context(), "rate limit counter unavailable, allowing request",
				"request_id", GetRequestID(c), "error", err)
			c.Next()
			return
		}
		if count > int64(limit) {
			retry := windowStart.Add(window).Sub(now())
			c.Header("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
			abort(c, http.StatusTooManyRequests, msgTooManyRequests)
			return
		}
		c.Next()
	}
}

// LoginRateLimit 登录接口限流中间件
// 每 IP 每个窗口最多 maxAttempts 次尝试，超过则返回 429
func LoginRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	type entry struct {
		timestamps []time.Time
	}
	var (
		mu    sync.Mutex
		store = make(map[string]*entry)
	)
	// 定期清理过期数据
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			mu.Lock()
			cutoff := time.Now().Add(-window)
			for ip, e := range store {
				e.timestamps = pruneBefore(e.timestamps, cutoff)
				if len(e.timestamps) == 0 {
					delete(store, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		e, ok := store[ip]
		if !ok {
			e = &entry{}
			store[ip] = e
		}
		e.timestamps = pruneBefore(e.timestamps, now.Add(-window))
		if len(e.timestamps) >= maxAttempts {
			mu.Unlock()
			abort(c, http.StatusTooManyRequests, msgTooManyAttempts)
			return
		}
		e.timestamps = append(e.timestamps, now)
		mu.Unlock()

		c.Next()
	}
}

func pruneBefore(ts []time.Time, cutoff time.Time) []time.Time {
	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}
