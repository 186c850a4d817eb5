package services

import (
	"fmt"
	"math"
	"time"
	"trip-planner-service/internal/domain"
)

const (
	cycleRestLocation = "Intermediate Rest Stop"
	hoursPerDay       = 24
)

// ComplianceScheduler produces rest stops and daily duty logs that respect
// the configured hours-of-service rules. It performs no I/O.
type ComplianceScheduler struct {
	rules domain.HOSRules
}

func NewComplianceScheduler(rules domain.HOSRules) (*ComplianceScheduler, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("new compliance scheduler: %w", err)
	}
	return &ComplianceScheduler{rules: rules}, nil
}

func (s *ComplianceScheduler) Rules() domain.HOSRules { return s.rules }

// Schedule plans stops and daily logs for a trip of totalDistance km and
// totalDuration driving hours, for a driver who already used
// currentCycleUsed hours of the cycle. Days start at startDate.
//
// Driving needed is the route duration plus the handling allowance for
// pickup and dropoff. It is split into days of at most MaxDailyDriving
// hours; each day's on-duty time adds the same handling allowance.
func (s *ComplianceScheduler) Schedule(
	currentCycleUsed float64,
	totalDistance float64,
	totalDuration float64,
	startDate time.Time,
) (domain.ScheduleResult, error) {
	if err := checkScheduleInput("current_cycle_used", currentCycleUsed); err != nil {
		return domain.ScheduleResult{}, err
	}
	if err := checkScheduleInput("total_distance", totalDistance); err != nil {
		return domain.ScheduleResult{}, err
	}
	if err := checkScheduleInput("total_duration", totalDuration); err != nil {
		return domain.ScheduleResult{}, err
	}

	r := s.rules
	remainingCycle := r.MaxCycleHours - currentCycleUsed
	drivingNeeded := totalDuration + r.HandlingHours

	result := domain.ScheduleResult{
		RestStops: []domain.RestStop{},
		DailyLogs: []domain.DailyLogEntry{},
		Policy:    r.CycleLimitPolicy,
	}

	if drivingNeeded > remainingCycle {
		result.CycleLimitReached = true
		result.RestStops = append(result.RestStops, domain.RestStop{
			Location:      cycleRestLocation,
			DurationHours: r.DailyRestHours,
			Reason:        domain.ReasonCycleLimit,
			Sequence:      len(result.RestStops),
		})
	}

	for i := 1; i <= FuelStopCount(totalDistance, r.FuelIntervalKm); i++ {
		result.RestStops = append(result.RestStops, domain.RestStop{
			Location:      fmt.Sprintf("Fuel Stop %d", i),
			DurationHours: r.FuelStopHours,
			Reason:        domain.ReasonFueling,
			Sequence:      len(result.RestStops),
		})
	}

	dayCount := int(math.Ceil(drivingNeeded / r.MaxDailyDriving))
	day := startOfDay(startDate)

	cycleBase := currentCycleUsed
	totalDriven := 0.0
	sinceReset := 0.0
	resetDone := false

	result.DailyLogs = make([]domain.DailyLogEntry, 0, dayCount)
	for i := 0; i < dayCount; i++ {
		driving := math.Min(r.MaxDailyDriving, drivingNeeded-totalDriven)

		// Under the reset policy the day that would cross the cycle limit
		// starts after the cycle-limit rest stop with a fresh window.
		if r.CycleLimitPolicy == domain.CycleLimitReset && result.CycleLimitReached && !resetDone &&
			cycleBase+sinceReset+driving > r.MaxCycleHours {
			cycleBase = 0
			sinceReset = 0
			resetDone = true
		}

		totalDriven += driving
		sinceReset += driving
		onDuty := driving + r.HandlingHours

		result.DailyLogs = append(result.DailyLogs, domain.DailyLogEntry{
			Date:            day.AddDate(0, 0, i),
			DrivingHours:    driving,
			OnDutyHours:     onDuty,
			OffDutyHours:    hoursPerDay - onDuty,
			TotalCycleHours: cycleBase + sinceReset,
		})
	}

	return result, nil
}

// FuelStopCount is the number of refueling stops on a route:
// one per started interval beyond the first, never negative.
func FuelStopCount(totalDistance, intervalKm float64) int {
	n := int(math.Ceil(totalDistance/intervalKm)) - 1
	if n < 0 {
		return 0
	}
	return n
}

func checkScheduleInput(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be finite, got %v", domain.ErrInvalidSchedule, name, v)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %v", domain.ErrInvalidSchedule, name, v)
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
