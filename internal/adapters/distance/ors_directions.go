package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Features []struct {
		Properties struct {
			Segments []struct {
				Distance *float64 `json:"distance"`
				Duration *float64 `json:"duration"`
			} `json:"segments"`
		} `json:"properties"`
	} `json:"features"`
}

// ORSDirectionsProvider implements DirectionsProvider using the
// OpenRouteService directions endpoint (GeoJSON output).
type ORSDirectionsProvider struct {
	client  *orsClient
	profile string
}

func NewORSDirectionsProvider(cfg ORSConfig) (*ORSDirectionsProvider, error) {
	client, err := newORSClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("new ORS directions provider: %w", err)
	}

	profile := cfg.Profile
	if profile == "" {
		profile = defaultORSProfile
	}

	return &ORSDirectionsProvider{client: client, profile: profile}, nil
}

// GetDirections asks ORS for the driving route between two points and
// returns the first segment's distance (meters) and duration (seconds).
func (o *ORSDirectionsProvider) GetDirections(
	ctx context.Context,
	from domain.Coordinates,
	to domain.Coordinates,
) (_ ports.DistanceResult, err error) {
	defer obs.Time(ctx, "ors.GetDirections")(&err)

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.client.baseURL, o.profile)

	payload, err := json.Marshal(directionsRequest{
		Coordinates: [][]float64{from.CoordsToList(), to.CoordsToList()},
	})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.client.doWithRetry(ctx, func() (*http.Request, error) {
		return o.client.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return ports.DistanceResult{}, fmt.Errorf("decode directions response: %w", err)
	}

	if len(dr.Features) == 0 {
		return ports.DistanceResult{}, errors.New("directions response has no features")
	}

	segments := dr.Features[0].Properties.Segments
	if len(segments) == 0 {
		return ports.DistanceResult{}, errors.New("directions response has no segments")
	}

	seg := segments[0]
	if seg.Distance == nil || seg.Duration == nil {
		return ports.DistanceResult{}, errors.New("directions segment is missing distance or duration")
	}

	return ports.DistanceResult{
		DistanceMeters:  *seg.Distance,
		DurationSeconds: *seg.Duration,
	}, nil
}
