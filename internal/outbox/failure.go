package outbox

import (
	"context"

	"example.com/workoutlog/internal/persistence"
)

// DLQWriter persists failed events for investigation and replay.
type DLQWriter struct {
	db persistence.Execer
}

// NewDLQWriter initialises a writer backed by db.
func NewDLQWriter(db persistence.Execer) *DLQWriter {
	return &DLQWriter{db: db}
}

// Write records a failed outbox message in the DLQ alongside the supplied reason.
func (w *DLQWriter) Write(ctx context.Context, msg Message, reason string) error {
	_, err := w.db.Exec(ctx,
		`INSERT INTO outbox_dlq (event_id, user_id, event_type, topic, payload, reason, aggregate_type, aggregate_id, schema_subject, partition_key, next_retry_at)
         VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10, NOW())`,
		msg.EventID, nullIfEmpty(msg.UserID), msg.EventType, msg.Topic, msg.Payload, reason, msg.AggregateType, msg.AggregateID, msg.SchemaSubject, msg.PartitionKey,
	)
	return err
}
