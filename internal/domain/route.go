package domain

// RouteSource tells which tier produced a RouteResult.
type RouteSource string

const (
	// Every leg came from the directions provider.
	RouteSourceProvider RouteSource = "provider"
	// At least one leg was replaced by the fixed per-leg fallback.
	RouteSourceLegFallback RouteSource = "leg_fallback"
	// The whole route is the fixed estimate.
	RouteSourceEstimated RouteSource = "estimated"
)

// Represents one point-to-point segment of a trip.
// Distance is in kilometers and Duration in hours. Estimated is set when the
// leg is a fallback value rather than a provider answer.
type RouteLeg struct {
	Start        string
	End          string
	Distance     float64
	Duration     float64
	Instructions string
	Estimated    bool
}

// Represents the ordered legs of a trip and their aggregate metrics.
// TotalDistance and TotalDuration are always the exact sums of Legs.
type RouteResult struct {
	Legs          []RouteLeg
	TotalDistance float64
	TotalDuration float64
	Source        RouteSource
}

// NewRouteResult builds a RouteResult whose totals are summed from legs.
func NewRouteResult(source RouteSource, legs ...RouteLeg) RouteResult {
	r := RouteResult{Legs: legs, Source: source}
	for _, l := range legs {
		r.TotalDistance += l.Distance
		r.TotalDuration += l.Duration
	}
	return r
}

// Degraded reports whether any fallback tier contributed to the route.
func (r RouteResult) Degraded() bool { return r.Source != RouteSourceProvider }
