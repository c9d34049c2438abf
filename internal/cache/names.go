package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultNamePrefix = "ideaboard:name:"

// Directory resolves user ids to display names.
type Directory interface {
	LookupNames(ctx context.Context, ids []string) (map[string]string, error)
}

// NameCache stores display names keyed by user id with a fixed TTL.
type NameCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewNameCache creates a name cache. A non-positive ttl defaults to five
// minutes.
func NewNameCache(client *redis.Client, ttl time.Duration) *NameCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &NameCache{client: client, prefix: defaultNamePrefix, ttl: ttl}
}

func (c *NameCache) key(userID string) string {
	return c.prefix + userID
}

// Get returns the cached names and the ids that were not cached.
func (c *NameCache) Get(ctx context.Context, ids []string) (map[string]string, []string, error) {
	found := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return found, nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.key(id)
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, ids, fmt.Errorf("get cached names: %w", err)
	}

	var missing []string
	for i, v := range values {
		name, ok := v.(string)
		if !ok {
			missing = append(missing, ids[i])
			continue
		}
		found[ids[i]] = name
	}
	return found, missing, nil
}

// Set caches every name in one pipeline.
func (c *NameCache) Set(ctx context.Context, names map[string]string) error {
	if len(names) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	for id, name := range names {
		pipe.Set(ctx, c.key(id), name, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache names: %w", err)
	}
	return nil
}

// CachedDirectory serves lookups from the name cache and asks next only
// for the misses. Redis failures are logged and bypassed so an outage
// never blocks reads.
type CachedDirectory struct {
	next  Directory
	cache *NameCache
}

// NewCachedDirectory wraps next with cache.
func NewCachedDirectory(next Directory, cache *NameCache) *CachedDirectory {
	return &CachedDirectory{next: next, cache: cache}
}

// LookupNames implements Directory.
func (d *CachedDirectory) LookupNames(ctx context.Context, ids []string) (map[string]string, error) {
	found, missing, err := d.cache.Get(ctx, ids)
	if err != nil {
		slog.Warn("name cache unavailable", slog.String("error", err.Error()))
		return d.next.LookupNames(ctx, ids)
	}
	if len(missing) == 0 {
		return found, nil
	}

	fresh, err := d.next.LookupNames(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, name := range fresh {
		found[id] = name
	}

	if err := d.cache.Set(ctx, fresh); err != nil {
		slog.Warn("failed to fill name cache", slog.String("error", err.Error()))
	}
	return found, nil
}
