package main

import (
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"example.com/workoutlog/internal/config"
	"example.com/workoutlog/internal/consumer"
	httptransport "example.com/workoutlog/internal/transport/http"
)

// NewConsumeCmd creates the consume subcommand.
func NewConsumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consume",
		Short: "Consume workout events into the event log",
		Long: `Read workout events from the outbox topic and append them to the
workout_event_log table. Redelivered records are ignored.`,
		RunE: runConsume,
	}
}

func runConsume(cmd *cobra.Command, _ []string) error {
	cfg := config.LoadWorker()
	if len(cfg.KafkaBrokers) == 0 {
		return oops.Code("config_invalid").With("key", "KAFKA_BROKERS").Errorf("KAFKA_BROKERS is required")
	}

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

	reader := consumer.NewKafkaReader(cfg.KafkaBrokers, cfg.ConsumerGroupID, cfg.OutboxTopic)
	defer func() {
		if err := reader.Close(); err != nil {
			log.Error().Err(err).Msg("closing kafka reader")
		}
	}()

	logger := log.Logger.With().Str("component", "consumer").Str("topic", cfg.OutboxTopic).Logger()
	processor := consumer.NewProcessor(reader, consumer.NewPersistenceHandler(pool), consumer.WithLogger(logger))

	logger.Info().Str("group", cfg.ConsumerGroupID).Msg("consumer started")
	err = processor.Run(ctx)
	stop()
	if metricsDone != nil {
		<-metricsDone
	}
	if err != nil && !errors.Is(err, ctx.Err()) {
		return oops.Code("consumer_failed").Wrap(err)
	}
	logger.Info().Msg("consumer stopped")
	return nil
}
