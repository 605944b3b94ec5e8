package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/car"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/repository"
	"github.com/Mkilord/java-intensive-y-lab-sub000/pkg/logger"
)

// CachedCarRepository is a cache-aside decorator over a CarRepository:
// FindByID is served from redis when possible, every write invalidates.
// Redis failures degrade to the underlying repository, never to an error.
type CachedCarRepository struct {
	inner repository.CarRepository
	redis *redis.Client
	ttl   time.Duration
	log   logger.Logger
}

func NewCachedCarRepository(inner repository.CarRepository, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedCarRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedCarRepository{inner: inner, redis: rdb, ttl: ttl, log: log}
}

var _ repository.CarRepository = (*CachedCarRepository)(nil)

func carKey(id int64) string {
	return fmt.Sprintf("car:%d", id)
}

func (c *CachedCarRepository) FindByID(ctx context.Context, id int64) (*car.Car, error) {
	data, err := c.redis.Get(ctx, carKey(id)).Bytes()
	switch {
	case err == nil:
		var cached car.Car
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
		c.log.Warn("bad cached car payload, falling through", logger.Int64("car_id", id))
	case errors.Is(err, redis.Nil):
		// miss
	default:
		c.log.Warn("redis get failed, falling through", logger.Error(err))
	}

	found, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(found); err == nil {
		if setErr := c.redis.Set(ctx, carKey(id), payload, c.ttl).Err(); setErr != nil {
			c.log.Warn("redis set failed", logger.Error(setErr))
		}
	}
	return found, nil
}

func (c *CachedCarRepository) Create(ctx context.Context, v *car.Car) error {
	return c.inner.Create(ctx, v)
}

func (c *CachedCarRepository) FindByFilter(ctx context.Context, filter repository.CarFilter) ([]car.Car, error) {
	// Filter queries hit the store; only point reads are cached.
	return c.inner.FindByFilter(ctx, filter)
}

func (c *CachedCarRepository) UpdateState(ctx context.Context, v *car.Car) error {
	if err := c.inner.UpdateState(ctx, v); err != nil {
		return err
	}
	c.invalidate(ctx, v.ID)
	return nil
}

func (c *CachedCarRepository) Delete(ctx context.Context, id int64) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

// Invalidate drops the cached entry for a car. Exposed so the order write
// path can invalidate after transactional car updates that bypass this
// decorator.
func (c *CachedCarRepository) Invalidate(ctx context.Context, id int64) {
	c.invalidate(ctx, id)
}

func (c *CachedCarRepository) invalidate(ctx context.Context, id int64) {
	if err := c.redis.Del(ctx, carKey(id)).Err(); err != nil {
		c.log.Warn("redis del failed", logger.Int64("car_id", id), logger.Error(err))
	}
}
