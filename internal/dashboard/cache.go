package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const activeSessionsKey = "dashboard:active"

// Session identifies one signed-in caller for whom a snapshot is kept
// warm: the derived session key and the bearer token needed to refresh on
// their behalf.
type Session struct {
	Key   string
	Token string
}

// SnapshotCache shares dashboard snapshots and session registrations
// across service replicas through Redis. Everything expires with ttl, so
// an idle caller's data ages out without explicit cleanup.
type SnapshotCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSnapshotCache constructs a cache with the given entry lifetime.
func NewSnapshotCache(rdb *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{rdb: rdb, ttl: ttl}
}

// Put stores a snapshot under the session key.
func (c *SnapshotCache) Put(ctx context.Context, key string, snap *Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := c.rdb.Set(ctx, snapshotKey(key), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache snapshot: %w", err)
	}
	return nil
}

// Get returns the cached snapshot for key, or nil when none is cached.
func (c *SnapshotCache) Get(ctx context.Context, key string) (*Snapshot, error) {
	b, err := c.rdb.Get(ctx, snapshotKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cached snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("decode cached snapshot: %w", err)
	}
	return &snap, nil
}

// RememberSession registers the caller for periodic re-warming.
func (c *SnapshotCache) RememberSession(ctx context.Context, key, token string) error {
	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, sessionKey(key), token, c.ttl)
	pipe.SAdd(ctx, activeSessionsKey, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("register session: %w", err)
	}
	return nil
}

// ActiveSessions lists all callers whose session token has not expired.
// Expired members are pruned from the active set as they are found.
func (c *SnapshotCache) ActiveSessions(ctx context.Context) ([]Session, error) {
	keys, err := c.rdb.SMembers(ctx, activeSessionsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}

	sessions := make([]Session, 0, len(keys))
	for _, key := range keys {
		token, err := c.rdb.Get(ctx, sessionKey(key)).Result()
		if errors.Is(err, redis.Nil) {
			// Token expired — drop the registration.
			c.rdb.SRem(ctx, activeSessionsKey, key)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read session token: %w", err)
		}
		sessions = append(sessions, Session{Key: key, Token: token})
	}
	return sessions, nil
}

// Forget removes all cached state for key.
func (c *SnapshotCache) Forget(ctx context.Context, key string) error {
	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, snapshotKey(key), sessionKey(key))
	pipe.SRem(ctx, activeSessionsKey, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("forget session: %w", err)
	}
	return nil
}

func snapshotKey(key string) string { return "dashboard:snapshot:" + key }
func sessionKey(key string) string  { return "dashboard:session:" + key }
