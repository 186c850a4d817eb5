package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

// SQLGeocodeCache is a SQL-backed cache mapping locations to coordinates.
// It works on both SQLite and Postgres.
type SQLGeocodeCache struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLGeocodeCache(conn *sql.DB, dialect db.Dialect) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: conn, Dialect: dialect}
}

// Fetch cached coordinates for one location.
func (s *SQLGeocodeCache) GetCoordinates(ctx context.Context, location string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.cache.Get")(&err)

	if s.DB == nil {
		return domain.Coordinates{}, errors.New("geocode cache: db is nil")
	}

	location = strings.TrimSpace(location)
	if location == "" {
		return domain.Coordinates{}, errors.New("get geocode cache: location must not be empty")
	}

	q := db.Rebind(s.Dialect, `
	SELECT lon, lat
    FROM geocode_cache
    WHERE address = ?;
	`)

	var c domain.Coordinates
	err = s.DB.QueryRowContext(ctx, q, location).Scan(&c.Lon, &c.Lat)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinates{}, ports.ErrCacheMiss
	}
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	return c, nil
}

// Store a location -> coordinate mapping in the cache.
func (s *SQLGeocodeCache) PutCoordinates(ctx context.Context, location string, c domain.Coordinates) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	location = strings.TrimSpace(location)
	if location == "" {
		return fmt.Errorf("insert geocode cache: empty address key")
	}

	q := db.Rebind(s.Dialect, `
	INSERT INTO geocode_cache (address, lon, lat)
    VALUES (?, ?, ?)
	ON CONFLICT (address) DO UPDATE
	SET lon = EXCLUDED.lon,
		lat = EXCLUDED.lat;
	`)

	if _, err := s.DB.ExecContext(ctx, q, location, c.Lon, c.Lat); err != nil {
		return fmt.Errorf("insert geocode cache coord=%q: %w", location, err)
	}

	return nil
}
