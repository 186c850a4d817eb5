package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrInvalidTrip = errors.New("invalid trip request")

// ValidateTripRequest checks the preconditions the planning core relies on.
func ValidateTripRequest(req domain.TripRequest, rules domain.HOSRules) error {
	fields := []struct{ name, value string }{
		{"current_location", req.CurrentLocation},
		{"pickup_location", req.PickupLocation},
		{"dropoff_location", req.DropoffLocation},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidTrip, f.name)
		}
	}

	used := req.CurrentCycleUsed
	if math.IsNaN(used) || math.IsInf(used, 0) || used < 0 || used > rules.MaxCycleHours {
		return fmt.Errorf(
			"%w: current_cycle_used must be between 0 and %v",
			ErrInvalidTrip, rules.MaxCycleHours,
		)
	}

	return nil
}

type PlanTripRequest struct {
	Trip      domain.TripRequest
	StartDate time.Time
}

// TripPlanner runs the full planning pipeline for one trip:
// route, schedule, persistence and notification.
type TripPlanner struct {
	Routes    *RouteComputer
	Scheduler *ComplianceScheduler
	Repo      ports.TripRepository
	// Optional; nil disables trip.planned events.
	Events ports.TripEventPublisher
	Now    func() time.Time
}

func (p *TripPlanner) PlanTrip(ctx context.Context, req PlanTripRequest) (_ *domain.Trip, err error) {
	defer obs.Time(ctx, "trip.PlanTrip")(&err)

	in := domain.TripRequest{
		CurrentLocation:  strings.TrimSpace(req.Trip.CurrentLocation),
		PickupLocation:   strings.TrimSpace(req.Trip.PickupLocation),
		DropoffLocation:  strings.TrimSpace(req.Trip.DropoffLocation),
		CurrentCycleUsed: req.Trip.CurrentCycleUsed,
	}
	if err := ValidateTripRequest(in, p.Scheduler.Rules()); err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	createdAt := now().UTC()

	startDate := req.StartDate
	if startDate.IsZero() {
		startDate = createdAt
	}

	route := p.Routes.CalculateRoute(ctx, in.CurrentLocation, in.PickupLocation, in.DropoffLocation)

	schedule, err := p.Scheduler.Schedule(in.CurrentCycleUsed, route.TotalDistance, route.TotalDuration, startDate)
	if err != nil {
		return nil, fmt.Errorf("plan trip: schedule: %w", err)
	}

	trip := &domain.Trip{
		ID:        uuid.New(),
		Request:   in,
		StartDate: startOfDay(startDate),
		CreatedAt: createdAt,
		Route:     route,
		Schedule:  schedule,
	}

	if err := p.Repo.CreateTrip(ctx, trip); err != nil {
		return nil, fmt.Errorf("plan trip: store trip: %w", err)
	}

	if p.Events != nil {
		if err := p.Events.PublishTripPlanned(ctx, trip); err != nil {
			logrus.WithField("trip_id", trip.ID).WithError(err).Warn("publish trip planned event failed")
		}
	}

	logrus.WithFields(logrus.Fields{
		"trip_id":      trip.ID,
		"route_source": route.Source,
		"distance_km":  route.TotalDistance,
		"days":         len(schedule.DailyLogs),
		"rest_stops":   len(schedule.RestStops),
	}).Info("trip planned")

	return trip, nil
}
