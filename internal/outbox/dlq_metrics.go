package outbox

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"example.com/workoutlog/internal/persistence"
)

// DLQ entry outcomes.
const (
	outcomeRequeued    = "requeued"
	outcomeRetry       = "retry_scheduled"
	outcomeQuarantined = "quarantined"
)

var (
	dlqOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "dlq",
		Name:      "entries_total",
		Help:      "DLQ entries handled by the manager, labeled by event type and outcome.",
	}, []string{"event_type", "outcome"})

	dlqBacklog = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "dlq",
		Name:      "entries",
		Help:      "Entries currently held in the DLQ, split into pending and quarantined.",
	}, []string{"state"})
)

func init() {
	prometheus.MustRegister(dlqOutcomes, dlqBacklog)
}

func recordDLQOutcome(entry dlqEntry, outcome string) {
	dlqOutcomes.WithLabelValues(entry.EventType, outcome).Inc()
}

// refreshBacklog leaves the gauges untouched when the count fails; the next
// pass will retry.
func refreshBacklog(ctx context.Context, db persistence.DB) {
	var pending, quarantined int
	err := db.QueryRow(ctx, `SELECT COUNT(*) FILTER (WHERE quarantined_at IS NULL),
       COUNT(*) FILTER (WHERE quarantined_at IS NOT NULL)
  FROM outbox_dlq`).Scan(&pending, &quarantined)
	if err != nil {
		return
	}
	dlqBacklog.WithLabelValues("pending").Set(float64(pending))
	dlqBacklog.WithLabelValues("quarantined").Set(float64(quarantined))
}
