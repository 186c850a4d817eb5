package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"

	"github.com/google/uuid"
)

const (
	// Fixed-width UTC timestamps so created_at sorts lexicographically.
	createdAtLayout = "2006-01-02T15:04:05.000000000Z"
	dateLayout      = "2006-01-02"
)

// SQL-backed implementation of the TripRepository port.
type SQLTripRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLTripRepository(conn *sql.DB, dialect db.Dialect) *SQLTripRepository {
	return &SQLTripRepository{DB: conn, Dialect: dialect}
}

func (s *SQLTripRepository) q(query string) string { return db.Rebind(s.Dialect, query) }

// CreateTrip stores the trip and all of its legs, stops and logs in one transaction.
func (s *SQLTripRepository) CreateTrip(ctx context.Context, trip *domain.Trip) (err error) {
	defer obs.Time(ctx, "trips.CreateTrip")(&err)

	if s.DB == nil {
		return errors.New("sql trip repository: DB is nil")
	}
	if trip == nil {
		return errors.New("create trip: trip is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create trip: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, s.q(`
	INSERT INTO trips (
		id,
		current_location,
		pickup_location,
		dropoff_location,
		current_cycle_used,
		start_date,
		created_at,
		total_distance,
		estimated_duration,
		route_source,
		cycle_limit_policy,
		cycle_limit_reached
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`),
		trip.ID.String(),
		trip.Request.CurrentLocation,
		trip.Request.PickupLocation,
		trip.Request.DropoffLocation,
		trip.Request.CurrentCycleUsed,
		trip.StartDate.Format(dateLayout),
		trip.CreatedAt.UTC().Format(createdAtLayout),
		trip.TotalDistance(),
		trip.EstimatedDuration(),
		string(trip.Route.Source),
		string(trip.Schedule.Policy),
		trip.Schedule.CycleLimitReached,
	)
	if err != nil {
		return fmt.Errorf("create trip: insert trip id=%s: %w", trip.ID, err)
	}

	legStmt, err := tx.PrepareContext(ctx, s.q(`
	INSERT INTO trip_legs (trip_id, sequence, start_location, end_location, distance, duration, instructions, estimated)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("create trip: prepare legs: %w", err)
	}
	defer legStmt.Close()

	for i, l := range trip.Route.Legs {
		if _, err := legStmt.ExecContext(ctx, trip.ID.String(), i, l.Start, l.End, l.Distance, l.Duration, l.Instructions, l.Estimated); err != nil {
			return fmt.Errorf("create trip: insert leg #%d: %w", i, err)
		}
	}

	stopStmt, err := tx.PrepareContext(ctx, s.q(`
	INSERT INTO rest_stops (trip_id, sequence, location, duration_hours, reason)
	VALUES (?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("create trip: prepare rest stops: %w", err)
	}
	defer stopStmt.Close()

	for _, st := range trip.Schedule.RestStops {
		if _, err := stopStmt.ExecContext(ctx, trip.ID.String(), st.Sequence, st.Location, st.DurationHours, st.Reason); err != nil {
			return fmt.Errorf("create trip: insert rest stop #%d: %w", st.Sequence, err)
		}
	}

	logStmt, err := tx.PrepareContext(ctx, s.q(`
	INSERT INTO daily_logs (trip_id, sequence, log_date, driving_hours, on_duty_hours, off_duty_hours, total_cycle_hours)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("create trip: prepare daily logs: %w", err)
	}
	defer logStmt.Close()

	for i, l := range trip.Schedule.DailyLogs {
		if _, err := logStmt.ExecContext(ctx, trip.ID.String(), i, l.Date.Format(dateLayout),
			l.DrivingHours, l.OnDutyHours, l.OffDutyHours, l.TotalCycleHours); err != nil {
			return fmt.Errorf("create trip: insert daily log #%d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create trip: commit tx: %w", err)
	}

	return nil
}

const selectTrip = `
	SELECT
		id,
		current_location,
		pickup_location,
		dropoff_location,
		current_cycle_used,
		start_date,
		created_at,
		route_source,
		cycle_limit_policy,
		cycle_limit_reached
	FROM trips
	`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*domain.Trip, error) {
	var (
		t                  domain.Trip
		id, start, created string
		source, policy     string
	)
	err := row.Scan(
		&id,
		&t.Request.CurrentLocation,
		&t.Request.PickupLocation,
		&t.Request.DropoffLocation,
		&t.Request.CurrentCycleUsed,
		&start,
		&created,
		&source,
		&policy,
		&t.Schedule.CycleLimitReached,
	)
	if err != nil {
		return nil, err
	}

	if t.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse trip id %q: %w", id, err)
	}
	if t.StartDate, err = time.Parse(dateLayout, start); err != nil {
		return nil, fmt.Errorf("parse start_date %q: %w", start, err)
	}
	if t.CreatedAt, err = time.Parse(createdAtLayout, created); err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	t.Route.Source = domain.RouteSource(source)
	t.Schedule.Policy = domain.CycleLimitPolicy(policy)

	return &t, nil
}

func (s *SQLTripRepository) GetTrip(ctx context.Context, id uuid.UUID) (_ *domain.Trip, err error) {
	defer obs.Time(ctx, "trips.GetTrip")(&err)

	if s.DB == nil {
		return nil, errors.New("sql trip repository: DB is nil")
	}

	row := s.DB.QueryRowContext(ctx, s.q(selectTrip+"WHERE id = ?;"), id.String())
	trip, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrTripNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get trip id=%s: %w", id, err)
	}

	if err := s.loadChildren(ctx, trip); err != nil {
		return nil, fmt.Errorf("get trip id=%s: %w", id, err)
	}

	return trip, nil
}

// Return all trips stored in the database, newest first.
func (s *SQLTripRepository) ListTrips(ctx context.Context) (_ []*domain.Trip, err error) {
	defer obs.Time(ctx, "trips.ListTrips")(&err)

	if s.DB == nil {
		return nil, errors.New("sql trip repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, s.q(selectTrip+"ORDER BY created_at DESC, id;"))
	if err != nil {
		return nil, fmt.Errorf("list trips: query trips table: %w", err)
	}

	trips := make([]*domain.Trip, 0, 16)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("list trips: scan row: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("list trips: row iteration: %w", err)
	}
	rows.Close()

	// Children are loaded after the cursor is closed; SQLite runs on a single connection.
	for _, t := range trips {
		if err := s.loadChildren(ctx, t); err != nil {
			return nil, fmt.Errorf("list trips: %w", err)
		}
	}

	return trips, nil
}

func (s *SQLTripRepository) DeleteTrip(ctx context.Context, id uuid.UUID) (err error) {
	defer obs.Time(ctx, "trips.DeleteTrip")(&err)

	if s.DB == nil {
		return errors.New("sql trip repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete trip: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"trip_legs", "rest_stops", "daily_logs"} {
		if _, err := tx.ExecContext(ctx, s.q("DELETE FROM "+table+" WHERE trip_id = ?;"), id.String()); err != nil {
			return fmt.Errorf("delete trip: delete from %s: %w", table, err)
		}
	}

	res, err := tx.ExecContext(ctx, s.q("DELETE FROM trips WHERE id = ?;"), id.String())
	if err != nil {
		return fmt.Errorf("delete trip: delete from trips: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete trip: rows affected: %w", err)
	}
	if n == 0 {
		return ports.ErrTripNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete trip: commit tx: %w", err)
	}

	return nil
}

func (s *SQLTripRepository) loadChildren(ctx context.Context, t *domain.Trip) error {
	legs, err := s.loadLegs(ctx, t.ID)
	if err != nil {
		return err
	}
	t.Route.Legs = legs
	for _, l := range legs {
		t.Route.TotalDistance += l.Distance
		t.Route.TotalDuration += l.Duration
	}

	if t.Schedule.RestStops, err = s.loadRestStops(ctx, t.ID); err != nil {
		return err
	}
	if t.Schedule.DailyLogs, err = s.loadDailyLogs(ctx, t.ID); err != nil {
		return err
	}
	return nil
}

func (s *SQLTripRepository) loadLegs(ctx context.Context, id uuid.UUID) ([]domain.RouteLeg, error) {
	rows, err := s.DB.QueryContext(ctx, s.q(`
	SELECT start_location, end_location, distance, duration, instructions, estimated
	FROM trip_legs
	WHERE trip_id = ?
	ORDER BY sequence;
	`), id.String())
	if err != nil {
		return nil, fmt.Errorf("load legs: %w", err)
	}
	defer rows.Close()

	legs := make([]domain.RouteLeg, 0, 2)
	for rows.Next() {
		var l domain.RouteLeg
		if err := rows.Scan(&l.Start, &l.End, &l.Distance, &l.Duration, &l.Instructions, &l.Estimated); err != nil {
			return nil, fmt.Errorf("load legs: scan row: %w", err)
		}
		legs = append(legs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load legs: row iteration: %w", err)
	}
	return legs, nil
}

func (s *SQLTripRepository) loadRestStops(ctx context.Context, id uuid.UUID) ([]domain.RestStop, error) {
	rows, err := s.DB.QueryContext(ctx, s.q(`
	SELECT sequence, location, duration_hours, reason
	FROM rest_stops
	WHERE trip_id = ?
	ORDER BY sequence;
	`), id.String())
	if err != nil {
		return nil, fmt.Errorf("load rest stops: %w", err)
	}
	defer rows.Close()

	stops := make([]domain.RestStop, 0, 4)
	for rows.Next() {
		var st domain.RestStop
		if err := rows.Scan(&st.Sequence, &st.Location, &st.DurationHours, &st.Reason); err != nil {
			return nil, fmt.Errorf("load rest stops: scan row: %w", err)
		}
		stops = append(stops, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load rest stops: row iteration: %w", err)
	}
	return stops, nil
}

func (s *SQLTripRepository) loadDailyLogs(ctx context.Context, id uuid.UUID) ([]domain.DailyLogEntry, error) {
	rows, err := s.DB.QueryContext(ctx, s.q(`
	SELECT log_date, driving_hours, on_duty_hours, off_duty_hours, total_cycle_hours
	FROM daily_logs
	WHERE trip_id = ?
	ORDER BY sequence;
	`), id.String())
	if err != nil {
		return nil, fmt.Errorf("load daily logs: %w", err)
	}
	defer rows.Close()

	logs := make([]domain.DailyLogEntry, 0, 4)
	for rows.Next() {
		var (
			l    domain.DailyLogEntry
			date string
		)
		if err := rows.Scan(&date, &l.DrivingHours, &l.OnDutyHours, &l.OffDutyHours, &l.TotalCycleHours); err != nil {
			return nil, fmt.Errorf("load daily logs: scan row: %w", err)
		}
		if l.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("load daily logs: parse date %q: %w", date, err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load daily logs: row iteration: %w", err)
	}
	return logs, nil
}
