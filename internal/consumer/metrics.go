package consumer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "workoutlog"

// Record results.
const (
	resultStored       = "stored"
	resultHandlerError = "handler_error"
	resultUndecodable  = "undecodable"
)

var (
	recordsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "consumer",
		Name:      "records_total",
		Help:      "Kafka records seen by the consumer, labeled by topic and result.",
	}, []string{"topic", "result"})

	storeDelay = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "consumer",
		Name:      "store_delay_seconds",
		Help:      "Time between a record being produced and its event being stored.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	}, []string{"event_type"})
)

func init() {
	prometheus.MustRegister(recordsCounter, storeDelay)
}

func recordResult(topic, result string) {
	recordsCounter.WithLabelValues(topic, result).Inc()
}

func recordStored(msg Message, now time.Time) {
	recordResult(msg.Topic, resultStored)
	if !msg.Timestamp.IsZero() && now.After(msg.Timestamp) {
		storeDelay.WithLabelValues(msg.EventType).Observe(now.Sub(msg.Timestamp).Seconds())
	}
}
