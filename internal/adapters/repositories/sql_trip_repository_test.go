package repositories

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/ports"

	"github.com/google/uuid"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(db.DialectSQLite, filepath.Join(t.TempDir(), "trips.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := InitSchema(context.Background(), conn); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return conn
}

func sampleTrip(createdAt time.Time) *domain.Trip {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return &domain.Trip{
		ID: uuid.New(),
		Request: domain.TripRequest{
			CurrentLocation:  "Phoenix, AZ",
			PickupLocation:   "Tucson, AZ",
			DropoffLocation:  "El Paso, TX",
			CurrentCycleUsed: 65,
		},
		StartDate: start,
		CreatedAt: createdAt,
		Route: domain.NewRouteResult(domain.RouteSourceLegFallback,
			domain.RouteLeg{Start: "Phoenix, AZ", End: "Tucson, AZ", Distance: 180.4, Duration: 1.75, Instructions: "Drive to pickup location"},
			domain.RouteLeg{Start: "Tucson, AZ", End: "El Paso, TX", Distance: 100, Duration: 1.5, Instructions: "Drive to dropoff location", Estimated: true},
		),
		Schedule: domain.ScheduleResult{
			RestStops: []domain.RestStop{
				{Location: "Intermediate Rest Stop", DurationHours: 10, Reason: domain.ReasonCycleLimit, Sequence: 0},
				{Location: "Fuel Stop 1", DurationHours: 0.5, Reason: domain.ReasonFueling, Sequence: 1},
			},
			DailyLogs: []domain.DailyLogEntry{
				{Date: start, DrivingHours: 5.25, OnDutyHours: 7.25, OffDutyHours: 16.75, TotalCycleHours: 70.25},
			},
			Policy:            domain.CycleLimitAdvisory,
			CycleLimitReached: true,
		},
	}
}

func TestSQLTripRepositoryRoundTrip(t *testing.T) {
	repo := NewSQLTripRepository(openTestDB(t), db.DialectSQLite)
	ctx := context.Background()

	want := sampleTrip(time.Date(2026, 3, 1, 17, 4, 5, 123, time.UTC))
	if err := repo.CreateTrip(ctx, want); err != nil {
		t.Fatalf("create trip: %v", err)
	}

	got, err := repo.GetTrip(ctx, want.ID)
	if err != nil {
		t.Fatalf("get trip: %v", err)
	}

	if got.ID != want.ID || got.Request != want.Request {
		t.Fatalf("trip = %+v, want %+v", got.Request, want.Request)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) || !got.StartDate.Equal(want.StartDate) {
		t.Fatalf("times = %v/%v, want %v/%v", got.CreatedAt, got.StartDate, want.CreatedAt, want.StartDate)
	}
	if got.Route.Source != domain.RouteSourceLegFallback {
		t.Fatalf("route source = %q", got.Route.Source)
	}
	if len(got.Route.Legs) != 2 || got.Route.Legs[1] != want.Route.Legs[1] {
		t.Fatalf("legs = %+v", got.Route.Legs)
	}
	if got.Route.TotalDistance != want.Route.TotalDistance {
		t.Fatalf("total distance = %v, want %v", got.Route.TotalDistance, want.Route.TotalDistance)
	}
	if len(got.Schedule.RestStops) != 2 || got.Schedule.RestStops[0] != want.Schedule.RestStops[0] {
		t.Fatalf("rest stops = %+v", got.Schedule.RestStops)
	}
	if len(got.Schedule.DailyLogs) != 1 || got.Schedule.DailyLogs[0] != want.Schedule.DailyLogs[0] {
		t.Fatalf("daily logs = %+v", got.Schedule.DailyLogs)
	}
	if !got.Schedule.CycleLimitReached || got.Schedule.Policy != domain.CycleLimitAdvisory {
		t.Fatalf("schedule flags = %v/%q", got.Schedule.CycleLimitReached, got.Schedule.Policy)
	}
}

func TestSQLTripRepositoryListNewestFirst(t *testing.T) {
	repo := NewSQLTripRepository(openTestDB(t), db.DialectSQLite)
	ctx := context.Background()

	older := sampleTrip(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
	newer := sampleTrip(time.Date(2026, 3, 1, 9, 0, 0, 500, time.UTC))
	for _, tr := range []*domain.Trip{older, newer} {
		if err := repo.CreateTrip(ctx, tr); err != nil {
			t.Fatalf("create trip: %v", err)
		}
	}

	trips, err := repo.ListTrips(ctx)
	if err != nil {
		t.Fatalf("list trips: %v", err)
	}
	if len(trips) != 2 {
		t.Fatalf("expected 2 trips, got %d", len(trips))
	}
	if trips[0].ID != newer.ID || trips[1].ID != older.ID {
		t.Fatalf("trips not ordered newest first")
	}
	if len(trips[1].Schedule.RestStops) != 2 {
		t.Fatalf("children not loaded for listed trip")
	}
}

func TestSQLTripRepositoryDelete(t *testing.T) {
	conn := openTestDB(t)
	repo := NewSQLTripRepository(conn, db.DialectSQLite)
	ctx := context.Background()

	trip := sampleTrip(time.Now())
	if err := repo.CreateTrip(ctx, trip); err != nil {
		t.Fatalf("create trip: %v", err)
	}

	if err := repo.DeleteTrip(ctx, trip.ID); err != nil {
		t.Fatalf("delete trip: %v", err)
	}

	if _, err := repo.GetTrip(ctx, trip.ID); !errors.Is(err, ports.ErrTripNotFound) {
		t.Fatalf("get after delete err = %v, want ErrTripNotFound", err)
	}

	var legs int
	if err := conn.QueryRow("SELECT COUNT(*) FROM trip_legs").Scan(&legs); err != nil {
		t.Fatalf("count legs: %v", err)
	}
	if legs != 0 {
		t.Fatalf("legs left after delete: %d", legs)
	}

	if err := repo.DeleteTrip(ctx, trip.ID); !errors.Is(err, ports.ErrTripNotFound) {
		t.Fatalf("second delete err = %v, want ErrTripNotFound", err)
	}
}

func TestSQLTripRepositoryDuplicateIDRollsBack(t *testing.T) {
	conn := openTestDB(t)
	repo := NewSQLTripRepository(conn, db.DialectSQLite)
	ctx := context.Background()

	trip := sampleTrip(time.Now())
	if err := repo.CreateTrip(ctx, trip); err != nil {
		t.Fatalf("create trip: %v", err)
	}
	if err := repo.CreateTrip(ctx, trip); err == nil {
		t.Fatalf("expected error for duplicate id")
	}

	var logs int
	if err := conn.QueryRow("SELECT COUNT(*) FROM daily_logs").Scan(&logs); err != nil {
		t.Fatalf("count logs: %v", err)
	}
	if logs != 1 {
		t.Fatalf("daily logs = %d, want 1", logs)
	}
}
