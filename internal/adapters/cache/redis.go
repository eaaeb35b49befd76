package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/pledge/internal/ports/secondary"
)

// Redis is a cache shared between processes. Each tag is a Redis set of the
// keys stored under it plus a generation counter that Invalidate bumps.
// Entries expire after the TTL so a missed invalidation only serves stale
// data until then.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis creates a Redis-backed cache. Keys are namespaced with prefix.
func NewRedis(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) key(k string) string {
	return r.prefix + "cache:" + k
}

func (r *Redis) tagKey(tag string) string {
	return r.prefix + "tag:" + tag
}

func (r *Redis) genKey(tag string) string {
	return r.prefix + "gen:" + tag
}

// Fetch returns the cached value or loads and stores it. The load runs under
// WATCH on the tags' generation counters: a value loaded while one of its
// tags was invalidated is returned but not stored.
func (r *Redis) Fetch(ctx context.Context, key string, tags []string, load func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	value, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}

	gens := make([]string, len(tags))
	for i, tag := range tags {
		gens[i] = r.genKey(tag)
	}

	var loadErr error
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		value, loadErr = load(ctx)
		if loadErr != nil {
			return loadErr
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key(key), value, r.ttl)
			for _, tag := range tags {
				pipe.SAdd(ctx, r.tagKey(tag), r.key(key))
				pipe.Expire(ctx, r.tagKey(tag), r.ttl)
			}
			return nil
		})
		return err
	}, gens...)
	switch {
	case loadErr != nil:
		return nil, loadErr
	case errors.Is(err, redis.TxFailedErr):
		return value, nil
	case err != nil:
		return nil, fmt.Errorf("failed to store cache key %s: %w", key, err)
	}
	return value, nil
}

// Invalidate bumps each tag's generation, then deletes every key stored under
// the tag and the tag set.
func (r *Redis) Invalidate(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Incr(ctx, r.genKey(tag))
			pipe.Expire(ctx, r.genKey(tag), r.ttl)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to bump cache tag %s: %w", tag, err)
		}

		keys, err := r.client.SMembers(ctx, r.tagKey(tag)).Result()
		if err != nil {
			return fmt.Errorf("failed to read cache tag %s: %w", tag, err)
		}
		keys = append(keys, r.tagKey(tag))
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to invalidate cache tag %s: %w", tag, err)
		}
	}
	return nil
}

var _ secondary.Cache = (*Redis)(nil)
