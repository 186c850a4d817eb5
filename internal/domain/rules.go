package domain

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidRules    = errors.New("invalid hours-of-service rules")
	ErrInvalidSchedule = errors.New("invalid schedule input")
)

// CycleLimitPolicy decides what the cycle-limit rest stop does to the
// remaining schedule.
type CycleLimitPolicy string

const (
	// The rest stop is flagged only; days and cycle totals are unchanged.
	CycleLimitAdvisory CycleLimitPolicy = "advisory"
	// The rest stop restarts the cycle window; cycle totals count from zero
	// from the first day that would otherwise exceed the cycle limit.
	CycleLimitReset CycleLimitPolicy = "reset"
)

// HOSRules holds the hours-of-service parameters for one jurisdiction.
// All values are hours except FuelIntervalKm.
type HOSRules struct {
	MaxCycleHours    float64          `yaml:"max_cycle_hours"`
	MaxDailyDriving  float64          `yaml:"max_daily_driving"`
	DailyRestHours   float64          `yaml:"daily_rest_hours"`
	FuelIntervalKm   float64          `yaml:"fuel_interval_km"`
	FuelStopHours    float64          `yaml:"fuel_stop_hours"`
	HandlingHours    float64          `yaml:"handling_hours"`
	CycleLimitPolicy CycleLimitPolicy `yaml:"cycle_limit_policy"`
}

// DefaultHOSRules returns the US property-carrying 70-hour/8-day rules.
func DefaultHOSRules() HOSRules {
	return HOSRules{
		MaxCycleHours:    70,
		MaxDailyDriving:  11,
		DailyRestHours:   10,
		FuelIntervalKm:   1000,
		FuelStopHours:    0.5,
		HandlingHours:    2,
		CycleLimitPolicy: CycleLimitAdvisory,
	}
}

func (r HOSRules) Validate() error {
	positive := map[string]float64{
		"max_cycle_hours":   r.MaxCycleHours,
		"max_daily_driving": r.MaxDailyDriving,
		"fuel_interval_km":  r.FuelIntervalKm,
	}
	for name, v := range positive {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidRules, name, v)
		}
	}

	nonNegative := map[string]float64{
		"daily_rest_hours": r.DailyRestHours,
		"fuel_stop_hours":  r.FuelStopHours,
		"handling_hours":   r.HandlingHours,
	}
	for name, v := range nonNegative {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidRules, name, v)
		}
	}

	// A full driving day plus handling must still fit in 24 hours.
	if r.MaxDailyDriving+r.HandlingHours > 24 {
		return fmt.Errorf(
			"%w: max_daily_driving + handling_hours exceeds 24 (%v + %v)",
			ErrInvalidRules, r.MaxDailyDriving, r.HandlingHours,
		)
	}

	switch r.CycleLimitPolicy {
	case CycleLimitAdvisory, CycleLimitReset:
	default:
		return fmt.Errorf("%w: unknown cycle_limit_policy %q", ErrInvalidRules, r.CycleLimitPolicy)
	}

	return nil
}
