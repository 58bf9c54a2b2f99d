package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prperemyshlev/videotube/pkg/database"
	"github.com/redis/go-redis/v9"
)

// RateLimitResult describes the state of one key after a request.
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter is a sliding-window-log limiter backed by a Redis sorted set per
// key, scored by request time in nanoseconds.
type RateLimiter struct {
	redis *database.Redis
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(redis *database.Redis) *RateLimiter {
	return &RateLimiter{redis: redis}
}

// Allow records a request for key and reports whether it fits in the window.
// Rejected requests are not recorded.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitResult, error) {
	now := time.Now()
	redisKey := "ratelimit:" + key
	member := uuid.New().String()

	var (
		count  *redis.IntCmd
		oldest *redis.ZSliceCmd
	)
	_, err := r.redis.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, redisKey, "-inf", strconv.FormatInt(now.Add(-window).UnixNano(), 10))
		pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: member})
		count = pipe.ZCard(ctx, redisKey)
		oldest = pipe.ZRangeWithScores(ctx, redisKey, 0, 0)
		pipe.Expire(ctx, redisKey, window+time.Minute)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record request: %w", err)
	}

	var oldestAt time.Time
	if entries := oldest.Val(); len(entries) > 0 {
		oldestAt = time.Unix(0, int64(entries[0].Score))
	}

	result := evaluateWindow(count.Val(), limit, oldestAt, now, window)
	if !result.Allowed {
		if err := r.redis.Client.ZRem(ctx, redisKey, member).Err(); err != nil {
			return nil, fmt.Errorf("failed to discard rejected request: %w", err)
		}
	}

	return result, nil
}

// evaluateWindow decides a request given the window size including it.
func evaluateWindow(count int64, limit int, oldest, now time.Time, window time.Duration) *RateLimitResult {
	result := &RateLimitResult{Limit: limit}

	if count <= int64(limit) {
		result.Allowed = true
		result.Remaining = limit - int(count)
		return result
	}

	if !oldest.IsZero() {
		result.RetryAfter = oldest.Add(window).Sub(now)
	}
	if result.RetryAfter <= 0 {
		result.RetryAfter = time.Second
	}

	return result
}
