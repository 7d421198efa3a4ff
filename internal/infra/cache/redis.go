package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"clinic-scheduler/internal/domain/slot"
	"clinic-scheduler/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "slots:"
	redisTagPrefix = "slots:tag:"
)

// RedisCache is the shared SlotCache backend for multi-process deployments.
// Entries are JSON blobs under slots:{key}; each tag keeps a set of dependent
// keys under slots:tag:{tag} so invalidation is one SMEMBERS + DEL per tag.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key Key) ([]slot.Slot, bool, error) {
	payload, err := c.client.Get(ctx, redisKeyPrefix+string(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errs.Wrap(err, "redis get failed")
	}

	var slots []slot.Slot
	if err := json.Unmarshal(payload, &slots); err != nil {
		// A corrupt entry is a miss; the caller recomputes and overwrites it.
		return nil, false, errs.Wrap(err, "corrupt cache entry")
	}
	return slots, true, nil
}

func (c *RedisCache) Put(ctx context.Context, key Key, slots []slot.Slot, tags []string, ttl time.Duration) error {
	payload, err := json.Marshal(slots)
	if err != nil {
		return errs.Wrap(err, "failed to encode slots")
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, redisKeyPrefix+string(key), payload, ttl)
	for _, tag := range tags {
		tagKey := redisTagPrefix + tag
		pipe.SAdd(ctx, tagKey, string(key))
		// Tag sets outlive their newest entry slightly so invalidation still
		// sees keys that are about to expire on their own.
		pipe.Expire(ctx, tagKey, ttl+time.Minute)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errs.Wrap(err, "redis put failed")
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		tagKey := redisTagPrefix + tag
		keys, err := c.client.SMembers(ctx, tagKey).Result()
		if err != nil {
			return errs.Wrap(err, "redis smembers failed")
		}

		del := make([]string, 0, len(keys)+1)
		for _, k := range keys {
			del = append(del, redisKeyPrefix+k)
		}
		del = append(del, tagKey)
		if err := c.client.Del(ctx, del...).Err(); err != nil {
			return errs.Wrap(err, "redis del failed")
		}
	}
	return nil
}
