package distance

import (
	"context"
	"errors"
	"fmt"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/sirupsen/logrus"
)

// CachedGeocoder checks a persistent cache before delegating to the
// wrapped geocoder. Cache failures are logged and never fail the lookup.
type CachedGeocoder struct {
	next  ports.Geocoder
	cache ports.GeocodeCache
}

func NewCachedGeocoder(next ports.Geocoder, cache ports.GeocodeCache) *CachedGeocoder {
	return &CachedGeocoder{next: next, cache: cache}
}

func (c *CachedGeocoder) Geocode(ctx context.Context, location string) (domain.Coordinates, error) {
	key := placeKey(location)
	if key == "" {
		return domain.Coordinates{}, errors.New("geocode: location must be non-empty")
	}

	coord, err := c.cache.GetCoordinates(ctx, key)
	if err == nil {
		return coord, nil
	}
	if !errors.Is(err, ports.ErrCacheMiss) {
		logrus.WithField("location", key).WithError(err).Warn("geocode cache read failed")
	}

	coord, err = c.next.Geocode(ctx, location)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("cached geocoder: %w", err)
	}

	if err := c.cache.PutCoordinates(ctx, key, coord); err != nil {
		logrus.WithField("location", key).WithError(err).Warn("geocode cache write failed")
	}

	return coord, nil
}

// CachedDirections checks a persistent cache before delegating to the
// wrapped provider.
type CachedDirections struct {
	next  ports.DirectionsProvider
	cache ports.DirectionsCache
}

func NewCachedDirections(next ports.DirectionsProvider, cache ports.DirectionsCache) *CachedDirections {
	return &CachedDirections{next: next, cache: cache}
}

func (c *CachedDirections) GetDirections(
	ctx context.Context,
	from domain.Coordinates,
	to domain.Coordinates,
) (ports.DistanceResult, error) {
	res, err := c.cache.GetDirections(ctx, from, to)
	if err == nil {
		return res, nil
	}
	if !errors.Is(err, ports.ErrCacheMiss) {
		logrus.WithError(err).Warn("directions cache read failed")
	}

	res, err = c.next.GetDirections(ctx, from, to)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("cached directions: %w", err)
	}

	if err := c.cache.PutDirections(ctx, from, to, res); err != nil {
		logrus.WithError(err).Warn("directions cache write failed")
	}

	return res, nil
}
