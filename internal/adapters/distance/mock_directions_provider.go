package distance

import (
	"context"
	"fmt"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

type MockPair struct {
	From, To domain.Coordinates
	Meters   float64
	Seconds  float64
}

type MockDirectionsProvider struct {
	m map[string]ports.DistanceResult
}

func NewMockDirectionsProvider(pairs []MockPair) *MockDirectionsProvider {
	m := make(map[string]ports.DistanceResult, len(pairs))
	for _, p := range pairs {
		m[p.From.Key()+"|"+p.To.Key()] = ports.DistanceResult{DistanceMeters: p.Meters, DurationSeconds: p.Seconds}
	}
	return &MockDirectionsProvider{m: m}
}

func (p *MockDirectionsProvider) GetDirections(ctx context.Context, from, to domain.Coordinates) (ports.DistanceResult, error) {
	r, ok := p.m[from.Key()+"|"+to.Key()]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("missing pair %s -> %s", from.Key(), to.Key())
	}

	return r, nil
}
