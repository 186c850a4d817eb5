package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	"trip-planner-service/internal/adapters/distance"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/google/uuid"
)

type memTripRepository struct {
	mu    sync.Mutex
	trips map[uuid.UUID]*domain.Trip
	err   error
}

func (m *memTripRepository) CreateTrip(_ context.Context, trip *domain.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.trips == nil {
		m.trips = make(map[uuid.UUID]*domain.Trip)
	}
	m.trips[trip.ID] = trip
	return nil
}

func (m *memTripRepository) GetTrip(_ context.Context, id uuid.UUID) (*domain.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[id]
	if !ok {
		return nil, ports.ErrTripNotFound
	}
	return t, nil
}

func (m *memTripRepository) ListTrips(context.Context) ([]*domain.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Trip, 0, len(m.trips))
	for _, t := range m.trips {
		out = append(out, t)
	}
	return out, nil
}

func (m *memTripRepository) DeleteTrip(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[id]; !ok {
		return ports.ErrTripNotFound
	}
	delete(m.trips, id)
	return nil
}

type recordingPublisher struct {
	published []uuid.UUID
	err       error
}

func (p *recordingPublisher) PublishTripPlanned(_ context.Context, trip *domain.Trip) error {
	p.published = append(p.published, trip.ID)
	return p.err
}

func newTestPlanner(t *testing.T, repo ports.TripRepository, events ports.TripEventPublisher) *TripPlanner {
	t.Helper()

	// Directions provider knows nothing, so every plan uses the estimated route.
	rc := newTestRouteComputer(t, distance.NewMockDirectionsProvider(nil), time.Second)
	return &TripPlanner{
		Routes:    rc,
		Scheduler: newTestScheduler(t, domain.DefaultHOSRules()),
		Repo:      repo,
		Events:    events,
		Now:       func() time.Time { return time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC) },
	}
}

func TestPlanTripStoresAndPublishes(t *testing.T) {
	repo := &memTripRepository{}
	events := &recordingPublisher{}
	planner := newTestPlanner(t, repo, events)

	trip, err := planner.PlanTrip(context.Background(), PlanTripRequest{
		Trip: domain.TripRequest{
			CurrentLocation:  " Yard ",
			PickupLocation:   "Shipper",
			DropoffLocation:  "Dock",
			CurrentCycleUsed: 60,
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if trip.Request.CurrentLocation != "Yard" {
		t.Fatalf("current location = %q, want trimmed Yard", trip.Request.CurrentLocation)
	}
	if trip.Route.Source != domain.RouteSourceEstimated {
		t.Fatalf("route source = %q, want estimated", trip.Route.Source)
	}
	if len(trip.Schedule.DailyLogs) != 1 || trip.Schedule.DailyLogs[0].TotalCycleHours != 68 {
		t.Fatalf("unexpected daily logs: %+v", trip.Schedule.DailyLogs)
	}

	wantDate := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	if !trip.StartDate.Equal(wantDate) || !trip.Schedule.DailyLogs[0].Date.Equal(wantDate) {
		t.Fatalf("start date = %v, want %v", trip.StartDate, wantDate)
	}

	if _, err := repo.GetTrip(context.Background(), trip.ID); err != nil {
		t.Fatalf("trip was not stored: %v", err)
	}
	if len(events.published) != 1 || events.published[0] != trip.ID {
		t.Fatalf("published = %v, want [%s]", events.published, trip.ID)
	}
}

func TestPlanTripUsesExplicitStartDate(t *testing.T) {
	planner := newTestPlanner(t, &memTripRepository{}, nil)
	start := time.Date(2026, 12, 31, 18, 0, 0, 0, time.UTC)

	trip, err := planner.PlanTrip(context.Background(), PlanTripRequest{
		Trip: domain.TripRequest{
			CurrentLocation:  "Yard",
			PickupLocation:   "Shipper",
			DropoffLocation:  "Dock",
			CurrentCycleUsed: 10,
		},
		StartDate: start,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	if !trip.Schedule.DailyLogs[0].Date.Equal(want) {
		t.Fatalf("first log date = %v, want %v", trip.Schedule.DailyLogs[0].Date, want)
	}
}

func TestPlanTripPublishFailureDoesNotFail(t *testing.T) {
	events := &recordingPublisher{err: errors.New("broker down")}
	planner := newTestPlanner(t, &memTripRepository{}, events)

	_, err := planner.PlanTrip(context.Background(), PlanTripRequest{
		Trip: domain.TripRequest{CurrentLocation: "Yard", PickupLocation: "Shipper", DropoffLocation: "Dock"},
	})
	if err != nil {
		t.Fatalf("publish failure should not fail planning: %v", err)
	}
}

func TestPlanTripRepositoryFailure(t *testing.T) {
	repoErr := errors.New("disk full")
	planner := newTestPlanner(t, &memTripRepository{err: repoErr}, nil)

	_, err := planner.PlanTrip(context.Background(), PlanTripRequest{
		Trip: domain.TripRequest{CurrentLocation: "Yard", PickupLocation: "Shipper", DropoffLocation: "Dock"},
	})
	if !errors.Is(err, repoErr) {
		t.Fatalf("err = %v, want wrapped repository error", err)
	}
}

func TestPlanTripRejectsInvalidRequest(t *testing.T) {
	planner := newTestPlanner(t, &memTripRepository{}, nil)

	bad := []domain.TripRequest{
		{PickupLocation: "Shipper", DropoffLocation: "Dock"},
		{CurrentLocation: "Yard", PickupLocation: "  ", DropoffLocation: "Dock"},
		{CurrentLocation: "Yard", PickupLocation: "Shipper", DropoffLocation: "Dock", CurrentCycleUsed: -1},
		{CurrentLocation: "Yard", PickupLocation: "Shipper", DropoffLocation: "Dock", CurrentCycleUsed: 70.5},
	}
	for _, req := range bad {
		_, err := planner.PlanTrip(context.Background(), PlanTripRequest{Trip: req})
		if !errors.Is(err, ErrInvalidTrip) {
			t.Fatalf("request %+v: err = %v, want ErrInvalidTrip", req, err)
		}
	}
}
