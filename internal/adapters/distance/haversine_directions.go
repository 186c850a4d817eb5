package distance

import (
	"context"
	"errors"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/umahmood/haversine"
)

// HaversineDirections estimates driving directions without a routing service:
// great-circle distance stretched by a road factor, driven at a constant
// average speed.
type HaversineDirections struct {
	roadFactor  float64
	averageKmph float64
}

func NewHaversineDirections(roadFactor, averageKmph float64) (*HaversineDirections, error) {
	if roadFactor < 1 {
		return nil, errors.New("new haversine directions: road factor must be at least 1")
	}
	if averageKmph <= 0 {
		return nil, errors.New("new haversine directions: average speed must be positive")
	}
	return &HaversineDirections{roadFactor: roadFactor, averageKmph: averageKmph}, nil
}

func (h *HaversineDirections) GetDirections(
	ctx context.Context,
	from domain.Coordinates,
	to domain.Coordinates,
) (ports.DistanceResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.DistanceResult{}, err
	}

	_, km := haversine.Distance(
		haversine.Coord{Lat: from.Lat, Lon: from.Lon},
		haversine.Coord{Lat: to.Lat, Lon: to.Lon},
	)
	roadKm := km * h.roadFactor

	return ports.DistanceResult{
		DistanceMeters:  roadKm * 1000,
		DurationSeconds: roadKm / h.averageKmph * 3600,
	}, nil
}
