package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/ports"
)

func TestSQLGeocodeCacheUpsert(t *testing.T) {
	conn, err := db.Open(db.DialectSQLite, filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	if err := repositories.InitSchema(ctx, conn); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	c := NewSQLGeocodeCache(conn, db.DialectSQLite)

	if _, err := c.GetCoordinates(ctx, "tucson, az"); !errors.Is(err, ports.ErrCacheMiss) {
		t.Fatalf("err = %v, want ErrCacheMiss", err)
	}

	if err := c.PutCoordinates(ctx, "tucson, az", domain.Coordinates{Lon: -110, Lat: 32}); err != nil {
		t.Fatalf("put: %v", err)
	}
	want := domain.Coordinates{Lon: -110.9747, Lat: 32.2226}
	if err := c.PutCoordinates(ctx, "tucson, az", want); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := c.GetCoordinates(ctx, "tucson, az")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
