package ports

import (
	"context"
	"trip-planner-service/internal/domain"
)

// Distance and travel duration between two locations.
type DistanceResult struct {
	DistanceMeters  float64
	DurationSeconds float64
}

// Contract for retrieving driving distance and duration between two points.
type DirectionsProvider interface {
	// Return driving distance and estimated duration from one coordinate to another.
	GetDirections(ctx context.Context, from, to domain.Coordinates) (DistanceResult, error)
}
