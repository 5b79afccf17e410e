package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisRequestAllowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

type redisRequestRateLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	prefix string
}

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// NewRedisRequestRateLimiter crea un rate limiter respaldado en redis,
// compartible entre réplicas del servicio.
func NewRedisRequestRateLimiter(client *redis.Client, window time.Duration, max int) RequestRateLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisRequestRateLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: "req:rl:",
	}
}

func (l *redisRequestRateLimiter) Allow(key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	// La clave es un token de sesión o una IP: solo se recorta, sin
	// case-folding, para no mezclar sesiones distintas.
	trimmedKey := strings.TrimSpace(key)
	if trimmedKey == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	redisKey := l.prefix + trimmedKey
	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 60
	}
	count, err := l.client.Eval(ctx, redisRequestAllowScript, []string{redisKey}, seconds).Int()
	if err != nil {
		return true
	}
	return count <= l.max
}
