package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripRequest is the immutable input of one planning run.
// CurrentCycleUsed is the number of hours already consumed in the duty cycle.
type TripRequest struct {
	CurrentLocation  string
	PickupLocation   string
	DropoffLocation  string
	CurrentCycleUsed float64
}

// Trip is the persisted aggregate of a planned trip: the request, the
// computed route and the compliance schedule.
type Trip struct {
	ID        uuid.UUID
	Request   TripRequest
	StartDate time.Time
	CreatedAt time.Time
	Route     RouteResult
	Schedule  ScheduleResult
}

// TotalDistance mirrors the route total for storage and API output.
func (t *Trip) TotalDistance() float64 { return t.Route.TotalDistance }

// EstimatedDuration is the total driving time of the route in hours.
func (t *Trip) EstimatedDuration() float64 { return t.Route.TotalDuration }
