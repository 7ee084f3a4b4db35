package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SubmissionLimiter limita cuantas entregas puede hacer un usuario por ventana.
// Release devuelve el cupo de un Allow cuya entrega no llego a guardarse.
type SubmissionLimiter interface {
	Allow(ctx context.Context, key string) bool
	Release(ctx context.Context, key string)
}

type memorySubmissionLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[string][]time.Time
	now    func() time.Time
}

// NewMemorySubmissionLimiter crea un rate limiter en memoria de ventana deslizante.
func NewMemorySubmissionLimiter(window time.Duration, max int) SubmissionLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &memorySubmissionLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (l *memorySubmissionLimiter) Allow(_ context.Context, key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	cutoff := now.Add(-l.window)
	entries := l.hits[key]
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.hits[key] = kept
		return false
	}
	l.hits[key] = append(kept, now)
	return true
}

func (l *memorySubmissionLimiter) Release(_ context.Context, key string) {
	key = strings.TrimSpace(key)
	l.mu.Lock()
	defer l.mu.Unlock()
	entries := l.hits[key]
	if len(entries) == 0 {
		return
	}
	l.hits[key] = entries[:len(entries)-1]
}

const redisSubmissionAllowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

const redisSubmissionReleaseScript = `
local current = tonumber(redis.call("GET", KEYS[1]) or "0")
if current > 0 then
  return redis.call("DECR", KEYS[1])
end
return 0
`

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// redisSubmissionLimiter usa una ventana fija compartida entre instancias.
type redisSubmissionLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	prefix string
}

func NewRedisSubmissionLimiter(client *redis.Client, window time.Duration, max int) SubmissionLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisSubmissionLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: "submit:rl:",
	}
}

// Allow falla abierto si Redis no responde.
func (l *redisSubmissionLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	normalizedKey := strings.TrimSpace(key)
	if normalizedKey == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 60
	}
	count, err := l.client.Eval(ctx, redisSubmissionAllowScript, []string{l.prefix + normalizedKey}, seconds).Int()
	if err != nil {
		return true
	}
	return count <= l.max
}

func (l *redisSubmissionLimiter) Release(ctx context.Context, key string) {
	if l == nil || l.client == nil {
		return
	}
	normalizedKey := strings.TrimSpace(key)
	if normalizedKey == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	_ = l.client.Eval(ctx, redisSubmissionReleaseScript, []string{l.prefix + normalizedKey}).Err()
}
