package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"experience-booking/internal/data/entity"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const experienceKeyPrefix = "experience:"

// ExperienceCache stores experience detail lookups keyed by the id the client asked for.
// A miss is (nil, nil).
type ExperienceCache interface {
	Get(ctx context.Context, key string) (*entity.Experience, error)
	Set(ctx context.Context, key string, experience *entity.Experience) error
}

type redisExperienceCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewExperienceCache(client *redis.Client, ttl time.Duration, log *zap.Logger) ExperienceCache {
	if client == nil {
		return NopExperienceCache{}
	}
	return &redisExperienceCache{
		client: client,
		ttl:    ttl,
		log:    log.With(zap.String("cache", "experience")),
	}
}

func (c *redisExperienceCache) Get(ctx context.Context, key string) (*entity.Experience, error) {
	raw, err := c.client.Get(ctx, experienceKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached experience %s: %w", key, err)
	}

	var experience entity.Experience
	if err := json.Unmarshal(raw, &experience); err != nil {
		c.log.Warn("Dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		c.client.Del(ctx, experienceKeyPrefix+key)
		return nil, nil
	}

	return &experience, nil
}

func (c *redisExperienceCache) Set(ctx context.Context, key string, experience *entity.Experience) error {
	raw, err := json.Marshal(experience)
	if err != nil {
		return fmt.Errorf("marshal experience %s: %w", key, err)
	}

	if err := c.client.Set(ctx, experienceKeyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache experience %s: %w", key, err)
	}
	return nil
}

// NopExperienceCache always misses.
type NopExperienceCache struct{}

func (NopExperienceCache) Get(context.Context, string) (*entity.Experience, error) { return nil, nil }
func (NopExperienceCache) Set(context.Context, string, *entity.Experience) error   { return nil }
