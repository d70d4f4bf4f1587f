package verification

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisThrottle enforces a per-session, per-channel cooldown between code
// sends, shared across service replicas.
type RedisThrottle struct {
	rdb      *redis.Client
	cooldown time.Duration
}

// NewRedisThrottle constructs a throttle with the given cooldown window.
func NewRedisThrottle(rdb *redis.Client, cooldown time.Duration) *RedisThrottle {
	return &RedisThrottle{rdb: rdb, cooldown: cooldown}
}

// AllowSend claims the cooldown slot for (sessionKey, ch). The first call
// in a window succeeds; repeats are rejected until the key expires.
func (t *RedisThrottle) AllowSend(ctx context.Context, sessionKey string, ch Channel) (bool, error) {
	key := fmt.Sprintf("verification:cooldown:%s:%s", sessionKey, ch)
	ok, err := t.rdb.SetNX(ctx, key, 1, t.cooldown).Result()
	if err != nil {
		return false, fmt.Errorf("cooldown setnx: %w", err)
	}
	return ok, nil
}
