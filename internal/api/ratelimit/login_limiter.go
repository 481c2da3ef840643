// Package ratelimit throttles credential-guessing against the login
// endpoint. State lives in Redis so the limit holds across instances.
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "login_limit:"
	defaultLimit     = 10
	defaultWindow    = time.Minute
)

// LoginLimiter is a token bucket per caller key (email plus remote address).
// The bucket refills continuously; a Lua script keeps check-and-consume
// atomic across distributed callers.
type LoginLimiter struct {
	client    *redis.Client
	keyPrefix string
	limit     int
	window    time.Duration
}

func NewLoginLimiter(client *redis.Client) *LoginLimiter {
	return &LoginLimiter{
		client:    client,
		keyPrefix: defaultKeyPrefix,
		limit:     defaultLimit,
		window:    defaultWindow,
	}
}

var consumeScript = redis.NewScript(`
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local refillRate = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local windowSeconds = tonumber(ARGV[4])

	local bucketData = redis.call('HMGET', key, 'tokens', 'lastRefill')
	local tokens = tonumber(bucketData[1])
	local lastRefill = tonumber(bucketData[2])

	if tokens == nil then
		tokens = capacity
		lastRefill = now
	end

	local elapsed = math.max(0, now - lastRefill) / 1e9
	tokens = math.min(capacity, tokens + elapsed * refillRate)

	local allowed = 0
	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	end

	redis.call('HSET', key, 'tokens', tokens, 'lastRefill', now)
	redis.call('EXPIRE', key, windowSeconds * 2)

	return allowed
`)

// Allow consumes one attempt for the key, reporting whether the caller is
// still within budget. Fails open on Redis errors so an outage does not
// lock everyone out.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	capacity := float64(l.limit)
	refillRate := capacity / l.window.Seconds()
	now := time.Now().UnixNano()

	res, err := consumeScript.Run(ctx, l.client, []string{l.keyPrefix + key},
		capacity, refillRate, now, int(l.window.Seconds())).Int()
	if err != nil {
		return true, err
	}

	return res == 1, nil
}
