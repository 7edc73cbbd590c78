package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/damoang/angple-revisions/internal/common"
	"github.com/redis/go-redis/v9"
)

// Limiter caps how often a single editor may revise posts
type Limiter interface {
	// Check consumes one slot for the editor, returning ErrRateLimited
	// when the window is exhausted.
	Check(ctx context.Context, editorID uint64) error
}

// slidingWindowScript is an atomic Lua script for sliding window rate limiting
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local window_start = now - window

redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
local count = redis.call('ZCARD', key)

if count < limit then
    redis.call('ZADD', key, now, now .. ':' .. math.random(1000000))
    redis.call('EXPIRE', key, math.ceil(window / 1000) + 1)
    return 1
else
    return 0
end
`)

type redisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

// NewEditLimiter creates a Redis sliding-window limiter for revise calls
func NewEditLimiter(client *redis.Client, editsPerMinute int) Limiter {
	return &redisLimiter{
		client: client,
		limit:  editsPerMinute,
		window: time.Minute,
		prefix: "edit:ratelimit:",
	}
}

func (l *redisLimiter) Check(ctx context.Context, editorID uint64) error {
	if l.client == nil || l.limit <= 0 {
		return nil
	}

	key := fmt.Sprintf("%s%d", l.prefix, editorID)
	now := time.Now().UnixMilli()

	allowed, err := slidingWindowScript.Run(ctx, l.client, []string{key},
		l.limit, l.window.Milliseconds(), now,
	).Int64()
	if err != nil {
		// Fail open — allow the edit if Redis is unavailable
		return nil
	}

	if allowed != 1 {
		return common.ErrRateLimited
	}
	return nil
}
