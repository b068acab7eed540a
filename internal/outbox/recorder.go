package outbox

import (
	"context"
	"encoding/json"

	"github.com/samber/oops"

	"example.com/workoutlog/internal/persistence"
)

// DefaultTopic receives every workout and catalog event.
const DefaultTopic = "workout_events"

// Event is a domain event to be recorded alongside the change that caused it.
type Event struct {
	AggregateType string
	AggregateID   string
	UserID        string
	Type          string
	Payload       any
}

// Recorder writes events into the outbox table using the caller's
// transaction, so the event commits or rolls back with the change.
type Recorder struct {
	topic string
}

// NewRecorder returns a Recorder routing events to topic.
func NewRecorder(topic string) *Recorder {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Recorder{topic: topic}
}

// Topic returns the Kafka topic events are routed to.
func (r *Recorder) Topic() string {
	return r.topic
}

// Record inserts ev into the outbox. Events flagged as once-per-aggregate
// are deduplicated on (aggregate id, event type).
func (r *Recorder) Record(ctx context.Context, db persistence.Execer, ev Event) error {
	entry, ok := schemaCatalog[ev.Type]
	if !ok {
		return oops.Code("outbox_unknown_event").With("event_type", ev.Type).Errorf("no schema metadata for event_type=%s", ev.Type)
	}

	body, err := json.Marshal(ev.Payload)
	if err != nil {
		return oops.Code("outbox_encode").With("event_type", ev.Type).Wrap(err)
	}

	partitionKey := ev.UserID
	if partitionKey == "" {
		partitionKey = ev.AggregateID
	}
	var dedupeKey *string
	if entry.Once {
		key := ev.AggregateID + ":" + ev.Type
		dedupeKey = &key
	}

	const stmt = `INSERT INTO outbox (aggregate_type, aggregate_id, user_id, event_type, topic, schema_subject, partition_key, payload, dedupe_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (dedupe_key) DO NOTHING`

	_, err = db.Exec(ctx, stmt,
		ev.AggregateType,
		ev.AggregateID,
		nullIfEmpty(ev.UserID),
		ev.Type,
		r.topic,
		SchemaSubject(r.topic, ev.Type),
		partitionKey,
		body,
		dedupeKey,
	)
	if err != nil {
		return oops.Code("outbox_insert").With("event_type", ev.Type, "aggregate_id", ev.AggregateID).Wrap(err)
	}
	return nil
}

// SchemaSubject names the registry subject for an event type on topic.
func SchemaSubject(topic, eventType string) string {
	return topic + "-" + eventType
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
