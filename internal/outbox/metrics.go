package outbox

import "github.com/prometheus/client_golang/prometheus"

const namespace = "workoutlog"

// Dispatch results.
const (
	resultPublished    = "published"
	resultDeadLettered = "dead_lettered"
)

var (
	dispatchedEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "outbox",
		Name:      "workout_events_dispatched_total",
		Help:      "Workout and catalog events leaving the outbox, labeled by event type and whether Kafka accepted them.",
	}, []string{"event_type", "result"})

	batchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "outbox",
		Name:      "dispatch_batch_seconds",
		Help:      "Time from claiming a batch of outbox rows to marking it handled.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
	})

	batchSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "outbox",
		Name:      "dispatch_batch_rows",
		Help:      "Outbox rows claimed per non-empty dispatch pass.",
		Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
	})
)

func init() {
	prometheus.MustRegister(dispatchedEvents, batchDuration, batchSize)
}

func recordDispatched(messages []Message, result string) {
	for _, msg := range messages {
		dispatchedEvents.WithLabelValues(msg.EventType, result).Inc()
	}
}
