package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

const (
	geocodeKeyPrefix    = "geocode:"
	directionsKeyPrefix = "directions:"
)

type cachedCoordinates struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

type cachedDirections struct {
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// RedisCache stores geocoding and directions results in Redis.
// Entries expire after TTL; a zero TTL keeps them forever.
// Keys are expected to be normalized by the caller.
type RedisCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisCache(rdb redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) GetCoordinates(ctx context.Context, location string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.cache.Get")(&err)

	var v cachedCoordinates
	if err := c.get(ctx, geocodeKeyPrefix+location, &v); err != nil {
		return domain.Coordinates{}, err
	}
	return domain.Coordinates{Lon: v.Lon, Lat: v.Lat}, nil
}

func (c *RedisCache) PutCoordinates(ctx context.Context, location string, coord domain.Coordinates) error {
	if location == "" {
		return errors.New("put geocode cache: location must not be empty")
	}
	return c.put(ctx, geocodeKeyPrefix+location, cachedCoordinates{Lon: coord.Lon, Lat: coord.Lat})
}

func (c *RedisCache) GetDirections(
	ctx context.Context,
	from domain.Coordinates,
	to domain.Coordinates,
) (_ ports.DistanceResult, err error) {
	defer obs.Time(ctx, "directions.cache.Get")(&err)

	var v cachedDirections
	if err := c.get(ctx, directionsKey(from, to), &v); err != nil {
		return ports.DistanceResult{}, err
	}
	return ports.DistanceResult{DistanceMeters: v.DistanceMeters, DurationSeconds: v.DurationSeconds}, nil
}

func (c *RedisCache) PutDirections(
	ctx context.Context,
	from domain.Coordinates,
	to domain.Coordinates,
	r ports.DistanceResult,
) error {
	return c.put(ctx, directionsKey(from, to), cachedDirections{
		DistanceMeters:  r.DistanceMeters,
		DurationSeconds: r.DurationSeconds,
	})
}

func directionsKey(from, to domain.Coordinates) string {
	return directionsKeyPrefix + from.Key() + "|" + to.Key()
}

func (c *RedisCache) get(ctx context.Context, key string, v any) error {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis get %q: %w", key, err)
	}

	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("redis decode %q: %w", key, err)
	}
	return nil
}

func (c *RedisCache) put(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("redis encode %q: %w", key, err)
	}

	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}
