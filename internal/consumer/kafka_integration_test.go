//go:build integration

package consumer

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	kafkacontainer "github.com/testcontainers/testcontainers-go/modules/kafka"

	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/events"
	"example.com/workoutlog/internal/outbox"
	"example.com/workoutlog/internal/persistence/pgtest"
	"example.com/workoutlog/internal/persistence/postgres"
)

func TestWorkoutEventsFlowThroughKafkaIntoEventLog(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
	defer cancel()

	kafkaC, err := kafkacontainer.Run(ctx, "confluentinc/confluent-local:7.5.0",
		kafkacontainer.WithClusterID("workoutlog-it"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kafkaC.Terminate(context.Background()) })

	brokers, err := kafkaC.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)

	topic := "workout_events_it"
	conn, err := kafka.Dial("tcp", brokers[0])
	require.NoError(t, err)
	require.NoError(t, conn.CreateTopics(kafka.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1}))
	require.NoError(t, conn.Close())

	pool := pgtest.Start(t)
	store := postgres.NewStore(pool, outbox.NewRecorder(topic))

	user, err := store.CreateUser(ctx, domain.User{
		ID:           uuid.NewString(),
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "digest",
		CreatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	now := time.Now().UTC()
	workout, err := store.CreateWorkout(ctx, domain.Workout{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		StartedAt: now,
		CreatedAt: now,
	})
	require.NoError(t, err)
	_, err = store.EndWorkout(ctx, user.ID, workout.ID, now.Add(30*time.Minute))
	require.NoError(t, err)

	producer := outbox.NewKafkaProducer(brokers)
	t.Cleanup(func() { _ = producer.Close() })
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	dispatcher := outbox.NewDispatcher(pool, producer, 200*time.Millisecond, 10)
	go dispatcher.Start(workerCtx)

	reader := NewKafkaReader(brokers, "workoutlog-it", topic)
	defer reader.Close()
	processor := NewProcessor(reader, NewPersistenceHandler(pool))
	done := make(chan error, 1)
	go func() { done <- processor.Run(workerCtx) }()

	require.Eventually(t, func() bool {
		var count int
		err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM workout_event_log WHERE aggregate_id = $1`, workout.ID).Scan(&count)
		return err == nil && count == 2
	}, time.Minute, 500*time.Millisecond)

	rows, err := pool.Query(ctx,
		`SELECT event_type, user_id FROM workout_event_log WHERE aggregate_id = $1 ORDER BY record_offset`, workout.ID)
	require.NoError(t, err)
	var types []string
	for rows.Next() {
		var eventType, userID string
		require.NoError(t, rows.Scan(&eventType, &userID))
		require.Equal(t, user.ID, userID)
		types = append(types, eventType)
	}
	require.NoError(t, rows.Err())
	require.Equal(t, []string{events.TypeWorkoutStarted, events.TypeWorkoutEnded}, types)

	var unpublished int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox WHERE published_at IS NULL`).Scan(&unpublished))
	require.Zero(t, unpublished)

	stopWorkers()
	dispatcher.Wait()
	<-done
}
