package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/inkwell/internal/repository"
)

// UserCache serves username lookups for feed/comment hydration through Redis.
// Users are read-only from this service's point of view, so entries only ever
// expire, they are never invalidated.
type UserCache struct {
	cache *redis.Client
	users repository.UserRepository
	ttl   time.Duration
}

func NewUserCache(cache *redis.Client, users repository.UserRepository, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &UserCache{cache: cache, users: users, ttl: ttl}
}

func key(id int64) string { return fmt.Sprintf("user:name:%d", id) }

// Username resolves a single user id. Falls back to the store on miss.
func (c *UserCache) Username(ctx context.Context, id int64) (string, error) {
	if c.cache != nil {
		if name, err := c.cache.Get(ctx, key(id)).Result(); err == nil {
			return name, nil
		}
	}
	u, err := c.users.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if c.cache != nil {
		_ = c.cache.Set(ctx, key(id), u.Username, c.ttl).Err()
	}
	return u.Username, nil
}

// Usernames resolves a batch of user ids with a single MGET, loading only the
// misses from the store. Unknown ids are simply absent from the result map.
func (c *UserCache) Usernames(ctx context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	// dedupe while keeping the MGET key order aligned with ids
	seen := make(map[int64]struct{}, len(ids))
	uniq := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}

	missing := uniq
	if c.cache != nil {
		keys := make([]string, len(uniq))
		for i, id := range uniq {
			keys[i] = key(id)
		}
		vals, err := c.cache.MGet(ctx, keys...).Result()
		if err == nil {
			missing = nil
			for i, v := range vals {
				if s, ok := v.(string); ok {
					out[uniq[i]] = s
				} else {
					missing = append(missing, uniq[i])
				}
			}
		}
	}

	if len(missing) == 0 {
		return out, nil
	}
	users, err := c.users.GetByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u.Username
		if c.cache != nil {
			_ = c.cache.Set(ctx, key(u.ID), u.Username, c.ttl).Err()
		}
	}
	return out, nil
}
