package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

const (
	BookingCreated     = "booking.created"
	BookingConfirmed   = "booking.confirmed"
	BookingStarted     = "booking.started"
	BookingCompleted   = "booking.completed"
	BookingCancelled   = "booking.cancelled"
	BookingNoShow      = "booking.no_show"
	BookingRescheduled = "booking.rescheduled"
	BookingReviewed    = "booking.reviewed"

	RecurringCreated   = "recurring.created"
	RecurringGenerated = "recurring.generated"
	RecurringSkipped   = "recurring.skipped"
	RecurringCompleted = "recurring.completed"

	WaitlistAdded    = "waitlist.added"
	WaitlistNotified = "waitlist.notified"
	WaitlistBooked   = "waitlist.booked"
	WaitlistExpired  = "waitlist.expired"

	StylistApproved = "stylist.approved"
	StylistRejected = "stylist.rejected"
)

type Envelope struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// Publisher is fire-and-forget: publishing never fails a use case.
type Publisher interface {
	Publish(ctx context.Context, eventType string, key string, data any)
}

func newMessage(eventType, key string, data any, now time.Time) (kafka.Message, error) {
	env := Envelope{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		Key:        key,
		OccurredAt: now.UTC(),
		Data:       data,
	}

	body, err := json.Marshal(env)
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Key:   []byte(key),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(env.EventID)},
			{Key: "event_type", Value: []byte(eventType)},
		},
	}, nil
}

// ===============================
// Kafka
// ===============================

type KafkaPublisher struct {
	writer *kafka.Writer
	logger zerolog.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		BatchTimeout: 50 * time.Millisecond,
	}

	p := &KafkaPublisher{writer: w, logger: logger}
	w.Completion = func(msgs []kafka.Message, err error) {
		if err != nil {
			p.logger.Error().Err(err).Int("messages", len(msgs)).Msg("event publish failed")
		}
	}
	return p
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, key string, data any) {
	msg, err := newMessage(eventType, key, data, time.Now())
	if err != nil {
		p.logger.Error().Err(err).Str("event_type", eventType).Msg("event encode failed")
		return
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error().Err(err).Str("event_type", eventType).Msg("event publish failed")
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// ===============================
// Log only (no brokers configured)
// ===============================

type LogPublisher struct {
	logger zerolog.Logger
}

func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, eventType string, key string, _ any) {
	p.logger.Debug().Str("event_type", eventType).Str("key", key).Msg("event")
}

var (
	_ Publisher = (*KafkaPublisher)(nil)
	_ Publisher = (*LogPublisher)(nil)
)
