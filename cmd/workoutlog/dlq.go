package main

import (
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"example.com/workoutlog/internal/config"
	"example.com/workoutlog/internal/outbox"
	httptransport "example.com/workoutlog/internal/transport/http"
)

// NewDLQCmd creates the dlq subcommand.
func NewDLQCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dlq",
		Short: "Requeue or quarantine failed outbox events",
		Long: `Poll the outbox dead-letter table, requeue entries with exponential
backoff and quarantine those that exhaust DLQ_MAX_RETRIES.`,
		RunE: runDLQ,
	}
}

func runDLQ(cmd *cobra.Command, _ []string) error {
	cfg := config.LoadWorker()

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	pool, err := openPool(ctx, cfg.PostgresURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	var metricsDone <-chan error
	if cfg.MetricsAddress != "" {
		metricsDone = serveMetrics(ctx, cfg.MetricsAddress, httptransport.DefaultServerConfig("").ShutdownTimeout)
	}

	manager := outbox.NewDLQManager(pool, cfg.DLQMaxRetries, cfg.DLQBaseDelay)
	err = manager.Run(ctx, cfg.DLQPollInterval, cfg.OutboxBatchSize)
	stop()
	if metricsDone != nil {
		<-metricsDone
	}
	if err != nil && !errors.Is(err, ctx.Err()) {
		return oops.Code("dlq_failed").Wrap(err)
	}
	log.Info().Msg("dlq manager stopped")
	return nil
}
