package rate_limit

import (
	"context"
	"fmt"
	"math"
	"time"

	"zidotask/internal/cache"

	"github.com/valkey-io/valkey-go"
)

type RateLimiter struct {
	client valkey.Client
	scope  string
}

// Limit describes a token bucket: Burst tokens at most, refilled at
// PerMinute tokens per minute.
type Limit struct {
	PerMinute int
	Burst     int
}

type RateLimitResult struct {
	Allowed       bool      `json:"allowed"`
	Remaining     int       `json:"remaining"`
	ResetTime     time.Time `json:"resetTime"`
	RetryAfterSec int       `json:"retryAfterSec,omitempty"`
}

const (
	defaultTimeout   = 5 * time.Second
	keyPrefix        = "rate_limit:"
	defaultPerMinute = 60
)

// Tokens are kept fractional so frequent callers still accumulate refill.
const tokenBucketLuaScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local per_minute = tonumber(ARGV[2])
local burst_limit = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local current = redis.call('HMGET', key, 'tokens', 'last_refill')
local tokens = tonumber(current[1]) or burst_limit
local last_refill = tonumber(current[2]) or now

local elapsed = math.max(0, now - last_refill)
tokens = math.min(burst_limit, tokens + elapsed * per_minute / 60000)

local allowed = 0
if tokens >= 1 then
    allowed = 1
    tokens = tokens - 1
end

redis.call('HMSET', key, 'tokens', tostring(tokens), 'last_refill', now)
redis.call('EXPIRE', key, ttl)

local time_to_full = 0
if tokens < burst_limit then
    time_to_full = math.ceil((burst_limit - tokens) * 60000 / per_minute)
end

local time_to_next = 0
if tokens < 1 then
    time_to_next = math.ceil((1 - tokens) * 60000 / per_minute)
end

return {allowed, math.floor(tokens), time_to_full, time_to_next}
`

// NewRateLimiter returns a limiter whose buckets live under the given scope,
// e.g. "invitations" or "signin".
func NewRateLimiter(scope string) *RateLimiter {
	return &RateLimiter{
		client: cache.GetCache(),
		scope:  scope,
	}
}

func (r *RateLimiter) CheckRateLimit(ctx context.Context, subject string, limit Limit) (*RateLimitResult, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	limit = normalizeLimit(limit)

	now := time.Now().UnixMilli()
	// bucket state is dropped once it would be full again anyway
	ttl := int64(math.Ceil(float64(limit.Burst)*60/float64(limit.PerMinute))) + 60

	result := r.client.Do(ctx, r.client.B().Eval().
		Script(tokenBucketLuaScript).
		Numkeys(1).
		Key(r.key(subject)).
		Arg(fmt.Sprintf("%d", now)).
		Arg(fmt.Sprintf("%d", limit.PerMinute)).
		Arg(fmt.Sprintf("%d", limit.Burst)).
		Arg(fmt.Sprintf("%d", ttl)).
		Build())

	if result.Error() != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", result.Error())
	}

	values, err := result.AsIntSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to parse rate limit result: %w", err)
	}

	if len(values) < 4 {
		return nil, fmt.Errorf("invalid rate limit result: expected 4 values, got %d", len(values))
	}

	allowed := values[0] == 1
	timeToFullMs := values[2]
	timeToNextMs := values[3]

	var retryAfterSec int
	if !allowed {
		retryAfterSec = max(1, int(math.Ceil(float64(timeToNextMs)/1000.0)))
	}

	return &RateLimitResult{
		Allowed:       allowed,
		Remaining:     int(values[1]),
		ResetTime:     time.Now().Add(time.Duration(timeToFullMs) * time.Millisecond),
		RetryAfterSec: retryAfterSec,
	}, nil
}

func (r *RateLimiter) ResetRateLimit(ctx context.Context, subject string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.client.Do(ctx, r.client.B().Del().Key(r.key(subject)).Build()).Error()
}

func (r *RateLimiter) key(subject string) string {
	return keyPrefix + r.scope + ":" + subject
}

func normalizeLimit(limit Limit) Limit {
	if limit.PerMinute <= 0 {
		limit.PerMinute = defaultPerMinute
	}

	if limit.Burst <= 0 {
		limit.Burst = limit.PerMinute
	}

	return limit
}
