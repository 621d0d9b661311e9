package middleware

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quicky-ai/quicky-core/internal/pkg/redis"
	"github.com/quicky-ai/quicky-core/internal/pkg/response"
)

const rateLimitKeyPrefix = "quicky:rate_limit"

// Rule allows Limit requests per client address within each fixed Window.
type Rule struct {
	Name   string
	Limit  int
	Window time.Duration
}

func (r Rule) String() string {
	return fmt.Sprintf("%d per %s", r.Limit, windowLabel(r.Window))
}

func windowLabel(d time.Duration) string {
	switch d {
	case time.Second:
		return "1 second"
	case time.Minute:
		return "1 minute"
	case time.Hour:
		return "1 hour"
	case 24 * time.Hour:
		return "1 day"
	}
	return d.String()
}

// PerMinute, PerHour and PerDay build the common rules.
func PerMinute(name string, limit int) Rule { return Rule{Name: name, Limit: limit, Window: time.Minute} }
func PerHour(name string, limit int) Rule   { return Rule{Name: name, Limit: limit, Window: time.Hour} }
func PerDay(name string, limit int) Rule    { return Rule{Name: name, Limit: limit, Window: 24 * time.Hour} }

// CounterStore counts hits per key within a window.
type CounterStore interface {
	// Hit increments key and returns the count and time left in the window.
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RedisCounter shares counters between processes.
type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

func (r *RedisCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	return r.client.IncrWindow(ctx, key, window)
}

type memoryEntry struct {
	count     int64
	expiresAt time.Time
}

// MemoryCounter keeps counters in process. Used when redis is disabled.
type MemoryCounter struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
	hits    int
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{entries: make(map[string]*memoryEntry), now: time.Now}
}

func (m *MemoryCounter) Hit(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.hits++
	if m.hits%1024 == 0 {
		m.sweep(now)
	}

	entry, ok := m.entries[key]
	if !ok || !now.Before(entry.expiresAt) {
		entry = &memoryEntry{expiresAt: windowEnd(now, window)}
		m.entries[key] = entry
	}
	entry.count++
	return entry.count, entry.expiresAt.Sub(now), nil
}

// windowEnd is when the fixed window holding now closes. Windows are
// aligned to the Unix epoch, matching the bucket in the rate limit key.
func windowEnd(now time.Time, window time.Duration) time.Time {
	return time.Unix(0, (now.UnixNano()/int64(window)+1)*int64(window)).In(now.Location())
}

func (m *MemoryCounter) sweep(now time.Time) {
	for key, entry := range m.entries {
		if !now.Before(entry.expiresAt) {
			delete(m.entries, key)
		}
	}
}

// RateLimit enforces every rule against the client address. A store error
// lets the request through.
func RateLimit(store CounterStore, log *zap.Logger, rules ...Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" || store == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		now := time.Now()
		for _, rule := range rules {
			if rule.Limit <= 0 || rule.Window <= 0 {
				continue
			}
			bucket := now.UnixNano() / int64(rule.Window)
			key := fmt.Sprintf("%s:%s:%s:%d", rateLimitKeyPrefix, rule.Name, ip, bucket)

			count, ttl, err := store.Hit(ctx, key, rule.Window)
			if err != nil {
				log.Warn("rate limit store unavailable", zap.String("rule", rule.Name), zap.Error(err))
				continue
			}
			if left := windowEnd(now, rule.Window).Sub(now); ttl <= 0 || ttl > left {
				ttl = left
			}
			if count > int64(rule.Limit) {
				c.Header("Retry-After", strconv.Itoa(int(math.Ceil(ttl.Seconds()))))
				c.Header("X-RateLimit-Limit", strconv.Itoa(rule.Limit))
				response.TooManyRequests(c, "Rate limit exceeded: "+rule.String())
				return
			}
		}
		c.Next()
	}
}
