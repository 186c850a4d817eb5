package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"

	"github.com/sirupsen/logrus"
)

const (
	LabelToPickup  = "Drive to pickup location"
	LabelToDropoff = "Drive to dropoff location"

	estimatedSuffix = " - Estimated"

	// Per-leg fallback when the provider cannot answer.
	fallbackLegKm    = 100
	fallbackLegHours = 1.5
)

// RouteComputer turns the three trip locations into two route legs.
//
// It never fails the caller. A leg whose lookup fails is replaced with a
// fixed fallback leg; when no leg could be resolved the whole route is
// replaced with a fixed estimate. RouteResult.Source records which tier
// produced the result.
//
// RouteComputer holds no mutable state and is safe for concurrent use.
type RouteComputer struct {
	geocoder   ports.Geocoder
	directions ports.DirectionsProvider
	legTimeout time.Duration
}

func NewRouteComputer(
	geocoder ports.Geocoder,
	directions ports.DirectionsProvider,
	legTimeout time.Duration,
) (*RouteComputer, error) {
	if geocoder == nil {
		return nil, errors.New("new route computer: geocoder is nil")
	}
	if directions == nil {
		return nil, errors.New("new route computer: directions provider is nil")
	}
	if legTimeout < 0 {
		return nil, fmt.Errorf("new route computer: negative leg timeout %s", legTimeout)
	}

	return &RouteComputer{
		geocoder:   geocoder,
		directions: directions,
		legTimeout: legTimeout,
	}, nil
}

// CalculateRoute computes the current->pickup and pickup->dropoff legs.
func (rc *RouteComputer) CalculateRoute(
	ctx context.Context,
	current string,
	pickup string,
	dropoff string,
) domain.RouteResult {
	defer obs.Time(ctx, "route.CalculateRoute")(nil)

	if err := ctx.Err(); err != nil {
		logrus.WithError(err).Warn("route: context done before lookup, using estimated route")
		return EstimatedRoute(current, pickup, dropoff)
	}

	toPickup, okPickup := rc.resolveLeg(ctx, current, pickup, LabelToPickup)
	toDropoff, okDropoff := rc.resolveLeg(ctx, pickup, dropoff, LabelToDropoff)

	if !okPickup && !okDropoff {
		logrus.WithFields(logrus.Fields{
			"current": current,
			"pickup":  pickup,
			"dropoff": dropoff,
		}).Warn("route: no leg resolved, using estimated route")
		return EstimatedRoute(current, pickup, dropoff)
	}

	source := domain.RouteSourceProvider
	if !okPickup || !okDropoff {
		source = domain.RouteSourceLegFallback
	}

	return domain.NewRouteResult(source, toPickup, toDropoff)
}

// resolveLeg returns the provider leg, or the fallback leg and false.
func (rc *RouteComputer) resolveLeg(
	ctx context.Context,
	start string,
	end string,
	label string,
) (domain.RouteLeg, bool) {
	leg, err := rc.lookupLeg(ctx, start, end, label)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"start": start,
			"end":   end,
			"leg":   label,
		}).WithError(err).Warn("route: leg lookup failed, using fallback leg")
		return FallbackLeg(start, end, label), false
	}

	return leg, true
}

func (rc *RouteComputer) lookupLeg(
	ctx context.Context,
	start string,
	end string,
	label string,
) (_ domain.RouteLeg, err error) {
	defer obs.Time(ctx, "route.lookupLeg")(&err)

	if rc.legTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rc.legTimeout)
		defer cancel()
	}

	from, err := rc.geocoder.Geocode(ctx, start)
	if err != nil {
		return domain.RouteLeg{}, fmt.Errorf("geocode start %q: %w", start, err)
	}

	to, err := rc.geocoder.Geocode(ctx, end)
	if err != nil {
		return domain.RouteLeg{}, fmt.Errorf("geocode end %q: %w", end, err)
	}

	res, err := rc.directions.GetDirections(ctx, from, to)
	if err != nil {
		return domain.RouteLeg{}, fmt.Errorf("directions %q -> %q: %w", start, end, err)
	}

	if !validMetric(res.DistanceMeters) || !validMetric(res.DurationSeconds) {
		return domain.RouteLeg{}, fmt.Errorf(
			"directions %q -> %q: invalid metrics distance=%v duration=%v",
			start, end, res.DistanceMeters, res.DurationSeconds,
		)
	}

	return domain.RouteLeg{
		Start:        start,
		End:          end,
		Distance:     res.DistanceMeters / 1000,
		Duration:     res.DurationSeconds / 3600,
		Instructions: label,
	}, nil
}

func validMetric(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// FallbackLeg is the fixed leg used when a single lookup fails.
func FallbackLeg(start, end, label string) domain.RouteLeg {
	return domain.RouteLeg{
		Start:        start,
		End:          end,
		Distance:     fallbackLegKm,
		Duration:     fallbackLegHours,
		Instructions: label,
		Estimated:    true,
	}
}

// EstimatedRoute is the fixed route used when no leg could be resolved:
// 50 km / 1 h to pickup and 300 km / 5 h to dropoff.
func EstimatedRoute(current, pickup, dropoff string) domain.RouteResult {
	return domain.NewRouteResult(
		domain.RouteSourceEstimated,
		domain.RouteLeg{
			Start:        current,
			End:          pickup,
			Distance:     50,
			Duration:     1,
			Instructions: LabelToPickup + estimatedSuffix,
			Estimated:    true,
		},
		domain.RouteLeg{
			Start:        pickup,
			End:          dropoff,
			Distance:     300,
			Duration:     5,
			Instructions: LabelToDropoff + estimatedSuffix,
			Estimated:    true,
		},
	)
}
