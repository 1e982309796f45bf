package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Domain event types published after successful writes.
const (
	EventEnrollmentCreated  = "enrollment.created"
	EventEnrollmentRemoved  = "enrollment.removed"
	EventPracticalSubmitted = "practical.submitted"
	EventAttendanceMarked   = "attendance.marked"
	EventSubmissionGraded   = "submission.graded"
)

// Event is a fact about a completed write.
type Event struct {
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

// EventPublisher emits domain events. Publishing never fails the calling operation.
type EventPublisher interface {
	Publish(ctx context.Context, event Event)
}

// NoopPublisher discards every event.
type NoopPublisher struct{}

// Publish implements EventPublisher.
func (NoopPublisher) Publish(context.Context, Event) {}

type natsPublisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
	now     func() time.Time
}

// NewNATSPublisher publishes JSON events on <subject>.<type>. A nil connection yields a no-op publisher.
func NewNATSPublisher(conn *nats.Conn, subject string, logger zerolog.Logger) EventPublisher {
	if conn == nil {
		return NoopPublisher{}
	}
	subject = strings.TrimSuffix(strings.TrimSpace(subject), ".")
	if subject == "" {
		subject = "labs.events"
	}
	return &natsPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "event_publisher").Logger(),
		now:     time.Now,
	}
}

func (p *natsPublisher) Publish(ctx context.Context, event Event) {
	payload, err := encodeEvent(event, p.now)
	if err != nil {
		p.logger.Warn().Err(err).Str("event", event.Type).Msg("failed to encode event")
		return
	}

	if err := p.conn.Publish(p.subject+"."+event.Type, payload); err != nil {
		p.logger.Warn().Err(err).Str("event", event.Type).Msg("failed to publish event")
	}
}

func encodeEvent(event Event, now func() time.Time) ([]byte, error) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = now().UTC()
	}
	if event.Data == nil {
		event.Data = map[string]interface{}{}
	}
	return json.Marshal(event)
}
