package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
	"github.com/redis/go-redis/v9"
)

const (
	adKeyPrefix    = "ad:"
	ownerKeyPrefix = "owner-ads:"
)

// AdCache stores single ads by id. Get returns domain.ErrNotFound on a miss.
// DeleteByOwner drops every cached ad of one owner, whose embedded owner
// summary goes stale when the profile changes.
type AdCache interface {
	Get(ctx context.Context, id string) (*domain.Ad, error)
	Set(ctx context.Context, ad *domain.Ad, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	DeleteByOwner(ctx context.Context, ownerID string) error
}

type RedisAdCache struct {
	client *redis.Client
}

func NewRedisAdCache(client *redis.Client) *RedisAdCache {
	return &RedisAdCache{client: client}
}

func (c *RedisAdCache) Get(ctx context.Context, id string) (*domain.Ad, error) {
	data, err := c.client.Get(ctx, adKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ad %s from redis: %w", id, err)
	}

	var ad domain.Ad
	if err := json.Unmarshal(data, &ad); err != nil {
		_ = c.Delete(ctx, id)
		return nil, fmt.Errorf("failed to unmarshal cached ad %s: %w", id, err)
	}
	return &ad, nil
}

func (c *RedisAdCache) Set(ctx context.Context, ad *domain.Ad, ttl time.Duration) error {
	if ad == nil || ad.ID == "" {
		return errors.New("cannot cache nil ad or ad with empty id")
	}
	data, err := json.Marshal(ad)
	if err != nil {
		return fmt.Errorf("failed to marshal ad %s: %w", ad.ID, err)
	}
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, adKeyPrefix+ad.ID, data, ttl)
		if ad.OwnerID != "" {
			pipe.SAdd(ctx, ownerKeyPrefix+ad.OwnerID, ad.ID)
			pipe.Expire(ctx, ownerKeyPrefix+ad.OwnerID, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set ad %s to redis: %w", ad.ID, err)
	}
	return nil
}

func (c *RedisAdCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, adKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete ad %s from redis: %w", id, err)
	}
	return nil
}

func (c *RedisAdCache) DeleteByOwner(ctx context.Context, ownerID string) error {
	ids, err := c.client.SMembers(ctx, ownerKeyPrefix+ownerID).Result()
	if err != nil {
		return fmt.Errorf("failed to list cached ads of owner %s: %w", ownerID, err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, adKeyPrefix+id)
	}
	keys = append(keys, ownerKeyPrefix+ownerID)
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cached ads of owner %s: %w", ownerID, err)
	}
	return nil
}

var _ AdCache = (*RedisAdCache)(nil)
