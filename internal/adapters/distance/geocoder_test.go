package distance

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"trip-planner-service/internal/domain"
)

func TestStaticGeocoderNormalizesNames(t *testing.T) {
	g := NewStaticGeocoder(map[string]domain.Coordinates{
		"Phoenix, AZ": {Lon: -112.074, Lat: 33.448},
	})

	c, err := g.Geocode(context.Background(), "  phoenix,  az")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Lat != 33.448 {
		t.Fatalf("lat = %v, want 33.448", c.Lat)
	}

	if _, err := g.Geocode(context.Background(), "Tucson, AZ"); err == nil {
		t.Fatalf("expected error for unknown place")
	}
}

func TestLoadGazetteer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "places.yaml")
	data := "places:\n  - name: Phoenix, AZ\n    lat: 33.4484\n    lon: -112.074\n  - name: Tucson, AZ\n    lat: 32.2226\n    lon: -110.9747\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write gazetteer: %v", err)
	}

	g, err := LoadGazetteer(path)
	if err != nil {
		t.Fatalf("load gazetteer: %v", err)
	}

	c, err := g.Geocode(context.Background(), "Tucson, AZ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Lon != -110.9747 || c.Lat != 32.2226 {
		t.Fatalf("coordinates = %+v", c)
	}
}

func TestLoadGazetteerRejectsBadCoordinates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "places.yaml")
	if err := os.WriteFile(path, []byte("places:\n  - name: Nowhere\n    lat: 123\n    lon: 0\n"), 0o600); err != nil {
		t.Fatalf("write gazetteer: %v", err)
	}

	if _, err := LoadGazetteer(path); err == nil {
		t.Fatalf("expected error for out-of-range latitude")
	}
}

func TestStubGeocoder(t *testing.T) {
	g := StubGeocoder{}
	c, err := g.Geocode(context.Background(), "anywhere")
	if err != nil || c != (domain.Coordinates{}) {
		t.Fatalf("Geocode = %+v, %v; want zero coordinate", c, err)
	}
	if _, err := g.Geocode(context.Background(), " "); err == nil {
		t.Fatalf("expected error for blank location")
	}
}

func TestHaversineDirections(t *testing.T) {
	h, err := NewHaversineDirections(1, 100)
	if err != nil {
		t.Fatalf("new haversine: %v", err)
	}

	phoenix := domain.Coordinates{Lon: -112.0740, Lat: 33.4484}
	tucson := domain.Coordinates{Lon: -110.9747, Lat: 32.2226}

	res, err := h.GetDirections(context.Background(), phoenix, tucson)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	km := res.DistanceMeters / 1000
	if km < 160 || km > 190 {
		t.Fatalf("distance = %vkm, want about 175km", km)
	}

	wantSeconds := km / 100 * 3600
	if math.Abs(res.DurationSeconds-wantSeconds) > 1e-6 {
		t.Fatalf("duration = %vs, want %vs", res.DurationSeconds, wantSeconds)
	}
}

func TestNewHaversineDirectionsValidates(t *testing.T) {
	if _, err := NewHaversineDirections(0.5, 80); err == nil {
		t.Fatalf("expected error for road factor below 1")
	}
	if _, err := NewHaversineDirections(1.2, 0); err == nil {
		t.Fatalf("expected error for zero speed")
	}
}

func TestShippedGazetteerLoads(t *testing.T) {
	g, err := LoadGazetteer(filepath.Join("..", "..", "..", "data", "places.yaml"))
	if err != nil {
		t.Fatalf("LoadGazetteer: %v", err)
	}
	c, err := g.Geocode(context.Background(), "el paso, tx")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if c.Lat != 31.7619 || c.Lon != -106.4850 {
		t.Fatalf("El Paso = %+v", c)
	}
}
