package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the database schema. The statements are portable between
// SQLite and Postgres.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createTripsQuery := `
	CREATE TABLE IF NOT EXISTS trips (
		id TEXT PRIMARY KEY,
		current_location TEXT NOT NULL,
		pickup_location TEXT NOT NULL,
		dropoff_location TEXT NOT NULL,
		current_cycle_used DOUBLE PRECISION NOT NULL,
		start_date TEXT NOT NULL,
		created_at TEXT NOT NULL,
		total_distance DOUBLE PRECISION NOT NULL,
		estimated_duration DOUBLE PRECISION NOT NULL,
		route_source TEXT NOT NULL,
		cycle_limit_policy TEXT NOT NULL,
		cycle_limit_reached BOOLEAN NOT NULL
	);
	`

	createLegsQuery := `
	CREATE TABLE IF NOT EXISTS trip_legs (
		trip_id TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		sequence INTEGER NOT NULL,
		start_location TEXT NOT NULL,
		end_location TEXT NOT NULL,
		distance DOUBLE PRECISION NOT NULL,
		duration DOUBLE PRECISION NOT NULL,
		instructions TEXT NOT NULL,
		estimated BOOLEAN NOT NULL,
		PRIMARY KEY (trip_id, sequence)
	);
	`

	createRestStopsQuery := `
	CREATE TABLE IF NOT EXISTS rest_stops (
		trip_id TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		sequence INTEGER NOT NULL,
		location TEXT NOT NULL,
		duration_hours DOUBLE PRECISION NOT NULL,
		reason TEXT NOT NULL,
		PRIMARY KEY (trip_id, sequence)
	);
	`

	createDailyLogsQuery := `
	CREATE TABLE IF NOT EXISTS daily_logs (
		trip_id TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		sequence INTEGER NOT NULL,
		log_date TEXT NOT NULL,
		driving_hours DOUBLE PRECISION NOT NULL,
		on_duty_hours DOUBLE PRECISION NOT NULL,
		off_duty_hours DOUBLE PRECISION NOT NULL,
		total_cycle_hours DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (trip_id, sequence)
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        lon DOUBLE PRECISION NOT NULL,
        lat DOUBLE PRECISION NOT NULL
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_trips_created_at
    ON trips(created_at);
	`

	statements := []string{
		createTripsQuery,
		createLegsQuery,
		createRestStopsQuery,
		createDailyLogsQuery,
		createGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
