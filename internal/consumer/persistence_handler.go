package consumer

import (
	"context"

	"github.com/samber/oops"

	"example.com/workoutlog/internal/persistence"
)

// PersistenceHandler writes consumed events into the workout_event_log
// table. Redelivered records are ignored.
type PersistenceHandler struct {
	db persistence.DB
}

// NewPersistenceHandler constructs a handler backed by db.
func NewPersistenceHandler(db persistence.DB) *PersistenceHandler {
	return &PersistenceHandler{db: db}
}

// Handle stores the event keyed by its topic, partition and offset.
func (h *PersistenceHandler) Handle(ctx context.Context, msg Message) error {
	const stmt = `INSERT INTO workout_event_log
        (event_type, user_id, aggregate_id, schema_id, schema_subject, topic, partition, record_offset, payload, received_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        ON CONFLICT (topic, partition, record_offset) DO NOTHING`

	_, err := h.db.Exec(ctx, stmt,
		msg.EventType,
		nullable(msg.UserID),
		nullable(msg.AggregateID),
		schemaIDOrNull(msg.SchemaID),
		nullable(msg.SchemaSubject),
		msg.Topic,
		msg.Partition,
		msg.Offset,
		[]byte(msg.Payload),
		msg.Timestamp,
	)
	if err != nil {
		return oops.Code("event_log_insert").
			With("topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset).
			Wrap(err)
	}
	return nil
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func schemaIDOrNull(id int) *int {
	if id == 0 {
		return nil
	}
	return &id
}
