package ports

import (
	"context"
	"trip-planner-service/internal/domain"
)

// Notifies downstream consumers that a trip was planned and stored.
type TripEventPublisher interface {
	PublishTripPlanned(ctx context.Context, trip *domain.Trip) error
}
