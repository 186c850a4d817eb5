package domain

import "time"

// Rest stop reasons.
const (
	ReasonCycleLimit = "Cycle hours limit reached"
	ReasonFueling    = "Fueling required"
)

// Represents a planned stop in the trip where the driver is not driving.
// Sequence is the position among the trip's stops in generation order.
type RestStop struct {
	Location      string
	DurationHours float64
	Reason        string
	Sequence      int
}

// One day of the driver's duty log, shaped like an ELD daily record.
type DailyLogEntry struct {
	Date            time.Time
	DrivingHours    float64
	OnDutyHours     float64
	OffDutyHours    float64
	TotalCycleHours float64
}

type ScheduleResult struct {
	RestStops         []RestStop
	DailyLogs         []DailyLogEntry
	Policy            CycleLimitPolicy
	CycleLimitReached bool
}
