package ports

import (
	"context"
	"trip-planner-service/internal/domain"
)

// Resolves a free-form location identifier to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (domain.Coordinates, error)
}
