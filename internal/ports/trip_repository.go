package ports

import (
	"context"
	"errors"
	"trip-planner-service/internal/domain"

	"github.com/google/uuid"
)

var ErrTripNotFound = errors.New("trip not found")

// Port: a boundary for storing planned trips with their legs, stops and logs.
type TripRepository interface {
	CreateTrip(ctx context.Context, trip *domain.Trip) error
	GetTrip(ctx context.Context, id uuid.UUID) (*domain.Trip, error)
	// Return all trips, newest first.
	ListTrips(ctx context.Context) ([]*domain.Trip, error)
	DeleteTrip(ctx context.Context, id uuid.UUID) error
}
