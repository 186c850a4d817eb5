package distance

import (
	"context"
	"fmt"
	"os"
	"strings"
	"trip-planner-service/internal/domain"

	"gopkg.in/yaml.v3"
)

// StubGeocoder resolves every location to the same coordinate.
type StubGeocoder struct {
	Coord domain.Coordinates
}

func (s StubGeocoder) Geocode(_ context.Context, location string) (domain.Coordinates, error) {
	if normalize(location) == "" {
		return domain.Coordinates{}, fmt.Errorf("geocode: location must be non-empty")
	}
	return s.Coord, nil
}

// StaticGeocoder resolves locations from a fixed gazetteer.
// Lookups are case-insensitive and ignore repeated whitespace.
type StaticGeocoder struct {
	places map[string]domain.Coordinates
}

func NewStaticGeocoder(places map[string]domain.Coordinates) *StaticGeocoder {
	m := make(map[string]domain.Coordinates, len(places))
	for name, c := range places {
		m[placeKey(name)] = c
	}
	return &StaticGeocoder{places: m}
}

func placeKey(s string) string { return strings.ToLower(normalize(s)) }

func (g *StaticGeocoder) Geocode(_ context.Context, location string) (domain.Coordinates, error) {
	c, ok := g.places[placeKey(location)]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("geocode: unknown location %q", location)
	}
	return c, nil
}

type gazetteerFile struct {
	Places []struct {
		Name string  `yaml:"name"`
		Lat  float64 `yaml:"lat"`
		Lon  float64 `yaml:"lon"`
	} `yaml:"places"`
}

// LoadGazetteer reads a YAML gazetteer of the form
//
//	places:
//	  - name: Phoenix, AZ
//	    lat: 33.4484
//	    lon: -112.0740
func LoadGazetteer(path string) (*StaticGeocoder, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load gazetteer: read %q: %w", path, err)
	}

	var f gazetteerFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("load gazetteer: parse %q: %w", path, err)
	}

	places := make(map[string]domain.Coordinates, len(f.Places))
	for i, p := range f.Places {
		if normalize(p.Name) == "" {
			return nil, fmt.Errorf("load gazetteer: place #%d has empty name", i+1)
		}
		if p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
			return nil, fmt.Errorf("load gazetteer: place %q has out-of-range coordinates", p.Name)
		}
		places[p.Name] = domain.Coordinates{Lon: p.Lon, Lat: p.Lat}
	}

	return NewStaticGeocoder(places), nil
}
