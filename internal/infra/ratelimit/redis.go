package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JaligamRishitha/renewmart-sub000/internal/domain/docs"

	"github.com/redis/go-redis/v9"
)

// fixedWindowScript counts a hit and stamps the window TTL on the first hit
// of the key. Returning the counter and the remaining TTL together keeps the
// whole decision to one round trip.
var fixedWindowScript = redis.NewScript(`
local hits = redis.call("INCR", KEYS[1])
if hits == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {hits, redis.call("PTTL", KEYS[1])}
`)

type redisLimiter struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisLimiter builds a fixed-window limiter whose counters are shared
// across instances. The now func is for tests; pass nil in production.
func NewRedisLimiter(addr, password string, db int, now func() time.Time) (docs.RateLimiter, error) {
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}
	if now == nil {
		now = time.Now
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisLimiter{client: client, now: now}, nil
}

func (r *redisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (docs.RateLimitDecision, error) {
	if limit <= 0 {
		return docs.RateLimitDecision{Allowed: true, Limit: limit, Remaining: limit}, nil
	}
	windowMillis := window.Milliseconds()
	if windowMillis <= 0 {
		windowMillis = 1000
	}
	result, err := fixedWindowScript.Run(ctx, r.client, []string{key}, windowMillis).Result()
	if err != nil {
		return docs.RateLimitDecision{}, err
	}
	return decisionFromScript(result, limit, r.now())
}

// decisionFromScript interprets the {hits, ttl} pair the script returns.
// A non-positive TTL means the key carries no expiry (the PEXPIRE was lost,
// or the key predates it); the decision then has no reset time.
func decisionFromScript(result any, limit int, now time.Time) (docs.RateLimitDecision, error) {
	values, ok := result.([]any)
	if !ok || len(values) != 2 {
		return docs.RateLimitDecision{}, fmt.Errorf("rate limit script returned %T, want [hits ttl]", result)
	}
	hits, ok := values[0].(int64)
	if !ok {
		return docs.RateLimitDecision{}, fmt.Errorf("rate limit script hit count is %T", values[0])
	}
	ttlMillis, ok := values[1].(int64)
	if !ok {
		return docs.RateLimitDecision{}, fmt.Errorf("rate limit script ttl is %T", values[1])
	}

	decision := docs.RateLimitDecision{
		Allowed: hits <= int64(limit),
		Limit:   limit,
	}
	if remaining := int64(limit) - hits; remaining > 0 {
		decision.Remaining = int(remaining)
	}
	if ttlMillis > 0 {
		decision.ResetAt = now.Add(time.Duration(ttlMillis) * time.Millisecond)
	}
	return decision, nil
}
