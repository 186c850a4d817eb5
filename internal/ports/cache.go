package ports

import (
	"context"
	"errors"
	"trip-planner-service/internal/domain"
)

// ErrCacheMiss is returned by cache lookups when no entry exists.
var ErrCacheMiss = errors.New("cache miss")

// Persistent cache mapping location identifiers to coordinates.
type GeocodeCache interface {
	GetCoordinates(ctx context.Context, location string) (domain.Coordinates, error)
	PutCoordinates(ctx context.Context, location string, c domain.Coordinates) error
}

// Persistent cache for point-to-point directions results.
type DirectionsCache interface {
	GetDirections(ctx context.Context, from, to domain.Coordinates) (DistanceResult, error)
	PutDirections(ctx context.Context, from, to domain.Coordinates, r DistanceResult) error
}
