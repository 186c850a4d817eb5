package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	TripPlannedRoutingKey = "trip.planned"
	contentTypeJSON       = "application/json"
)

// TripPlannedEvent is the message body published after a trip is stored.
type TripPlannedEvent struct {
	TripID            string    `json:"trip_id"`
	CurrentLocation   string    `json:"current_location"`
	PickupLocation    string    `json:"pickup_location"`
	DropoffLocation   string    `json:"dropoff_location"`
	StartDate         string    `json:"start_date"`
	TotalDistance     float64   `json:"total_distance"`
	EstimatedDuration float64   `json:"estimated_duration"`
	RouteSource       string    `json:"route_source"`
	Days              int       `json:"days"`
	RestStops         int       `json:"rest_stops"`
	CycleLimitReached bool      `json:"cycle_limit_reached"`
	FinalCycleHours   float64   `json:"final_cycle_hours"`
	PlannedAt         time.Time `json:"planned_at"`
}

func NewTripPlannedEvent(trip *domain.Trip) TripPlannedEvent {
	ev := TripPlannedEvent{
		TripID:            trip.ID.String(),
		CurrentLocation:   trip.Request.CurrentLocation,
		PickupLocation:    trip.Request.PickupLocation,
		DropoffLocation:   trip.Request.DropoffLocation,
		StartDate:         trip.StartDate.Format("2006-01-02"),
		TotalDistance:     trip.TotalDistance(),
		EstimatedDuration: trip.EstimatedDuration(),
		RouteSource:       string(trip.Route.Source),
		Days:              len(trip.Schedule.DailyLogs),
		RestStops:         len(trip.Schedule.RestStops),
		CycleLimitReached: trip.Schedule.CycleLimitReached,
		FinalCycleHours:   trip.Request.CurrentCycleUsed,
		PlannedAt:         trip.CreatedAt,
	}
	if n := len(trip.Schedule.DailyLogs); n > 0 {
		ev.FinalCycleHours = trip.Schedule.DailyLogs[n-1].TotalCycleHours
	}
	return ev
}

// RabbitMQPublisher publishes trip events to a durable topic exchange.
// A channel is not safe for concurrent publishing, so each publish uses its own.
type RabbitMQPublisher struct {
	connection *amqp.Connection
	exchange   string
}

// NewRabbitMQPublisher dials the broker and declares the exchange.
func NewRabbitMQPublisher(url, exchange string) (*RabbitMQPublisher, error) {
	if exchange == "" {
		return nil, errors.New("new rabbitmq publisher: exchange must not be empty")
	}

	connection, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("new rabbitmq publisher: dial: %w", err)
	}

	channel, err := connection.Channel()
	if err != nil {
		_ = connection.Close()
		return nil, fmt.Errorf("new rabbitmq publisher: open channel: %w", err)
	}
	defer channel.Close()

	err = channel.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = connection.Close()
		return nil, fmt.Errorf("error declaring exchange %s: %w", exchange, err)
	}

	return &RabbitMQPublisher{connection: connection, exchange: exchange}, nil
}

func (p *RabbitMQPublisher) PublishTripPlanned(ctx context.Context, trip *domain.Trip) (err error) {
	defer obs.Time(ctx, "events.PublishTripPlanned")(&err)

	body, err := json.Marshal(NewTripPlannedEvent(trip))
	if err != nil {
		return fmt.Errorf("encode trip planned event: %w", err)
	}

	channel, err := p.connection.Channel()
	if err != nil {
		return fmt.Errorf("publish trip planned: open channel: %w", err)
	}
	defer channel.Close()

	err = channel.PublishWithContext(ctx,
		p.exchange,
		TripPlannedRoutingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  contentTypeJSON,
			MessageId:    trip.ID.String(),
			Timestamp:    trip.CreatedAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish trip planned id=%s: %w", trip.ID, err)
	}
	return nil
}

// Close closes the broker connection.
func (p *RabbitMQPublisher) Close() error {
	if err := p.connection.Close(); err != nil {
		return fmt.Errorf("error closing RabbitMQ connection: %w", err)
	}
	return nil
}
