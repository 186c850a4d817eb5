package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	"trip-planner-service/internal/domain"
)

const DateLayout = "2006-01-02"

// FlexFloat accepts a JSON number or a string holding one.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", b)
	}
	*f = FlexFloat(v)
	return nil
}

type CreateTripRequest struct {
	CurrentLocation  string     `json:"current_location"`
	PickupLocation   string     `json:"pickup_location"`
	DropoffLocation  string     `json:"dropoff_location"`
	CurrentCycleUsed *FlexFloat `json:"current_cycle_used"`
	StartDate        string     `json:"start_date"`
}

type TripLegResponse struct {
	Sequence      int     `json:"sequence"`
	StartLocation string  `json:"start_location"`
	EndLocation   string  `json:"end_location"`
	Distance      float64 `json:"distance"`
	Duration      float64 `json:"duration"`
	Instructions  string  `json:"instructions"`
	Estimated     bool    `json:"estimated"`
}

type RestStopResponse struct {
	Sequence      int     `json:"sequence"`
	Location      string  `json:"location"`
	DurationHours float64 `json:"duration_hours"`
	Reason        string  `json:"reason"`
}

type DailyLogResponse struct {
	Date            string  `json:"date"`
	DrivingHours    float64 `json:"driving_hours"`
	OnDutyHours     float64 `json:"on_duty_hours"`
	OffDutyHours    float64 `json:"off_duty_hours"`
	TotalCycleHours float64 `json:"total_cycle_hours"`
}

type TripResponse struct {
	ID                string             `json:"id"`
	CurrentLocation   string             `json:"current_location"`
	PickupLocation    string             `json:"pickup_location"`
	DropoffLocation   string             `json:"dropoff_location"`
	CurrentCycleUsed  float64            `json:"current_cycle_used"`
	StartDate         string             `json:"start_date"`
	CreatedAt         time.Time          `json:"created_at"`
	TotalDistance     float64            `json:"total_distance"`
	EstimatedDuration float64            `json:"estimated_duration"`
	RouteSource       string             `json:"route_source"`
	CycleLimitPolicy  string             `json:"cycle_limit_policy"`
	CycleLimitReached bool               `json:"cycle_limit_reached"`
	Legs              []TripLegResponse  `json:"legs"`
	RestStops         []RestStopResponse `json:"rest_stops"`
	DailyLogs         []DailyLogResponse `json:"daily_logs"`
}

type ListTripResponse struct {
	Trips []TripResponse `json:"trips"`
}

func NewTripResponse(t *domain.Trip) TripResponse {
	res := TripResponse{
		ID:                t.ID.String(),
		CurrentLocation:   t.Request.CurrentLocation,
		PickupLocation:    t.Request.PickupLocation,
		DropoffLocation:   t.Request.DropoffLocation,
		CurrentCycleUsed:  t.Request.CurrentCycleUsed,
		StartDate:         t.StartDate.Format(DateLayout),
		CreatedAt:         t.CreatedAt,
		TotalDistance:     t.TotalDistance(),
		EstimatedDuration: t.EstimatedDuration(),
		RouteSource:       string(t.Route.Source),
		CycleLimitPolicy:  string(t.Schedule.Policy),
		CycleLimitReached: t.Schedule.CycleLimitReached,
		Legs:              make([]TripLegResponse, 0, len(t.Route.Legs)),
		RestStops:         make([]RestStopResponse, 0, len(t.Schedule.RestStops)),
		DailyLogs:         make([]DailyLogResponse, 0, len(t.Schedule.DailyLogs)),
	}

	for i, l := range t.Route.Legs {
		res.Legs = append(res.Legs, TripLegResponse{
			Sequence:      i,
			StartLocation: l.Start,
			EndLocation:   l.End,
			Distance:      l.Distance,
			Duration:      l.Duration,
			Instructions:  l.Instructions,
			Estimated:     l.Estimated,
		})
	}
	for _, s := range t.Schedule.RestStops {
		res.RestStops = append(res.RestStops, RestStopResponse{
			Sequence:      s.Sequence,
			Location:      s.Location,
			DurationHours: s.DurationHours,
			Reason:        s.Reason,
		})
	}
	for _, d := range t.Schedule.DailyLogs {
		res.DailyLogs = append(res.DailyLogs, DailyLogResponse{
			Date:            d.Date.Format(DateLayout),
			DrivingHours:    d.DrivingHours,
			OnDutyHours:     d.OnDutyHours,
			OffDutyHours:    d.OffDutyHours,
			TotalCycleHours: d.TotalCycleHours,
		})
	}

	return res
}
