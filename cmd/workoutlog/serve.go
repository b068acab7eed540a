package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"example.com/workoutlog/internal/api"
	"example.com/workoutlog/internal/auth"
	"example.com/workoutlog/internal/config"
	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/outbox"
	"example.com/workoutlog/internal/persistence/memory"
	"example.com/workoutlog/internal/persistence/migrations"
	"example.com/workoutlog/internal/persistence/postgres"
	httptransport "example.com/workoutlog/internal/transport/http"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the workout tracking HTTP API. Without POSTGRES_URL the API
runs on an in-memory store that is lost on exit.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	var (
		repos      domain.Repositories
		pool       *pgxpool.Pool
		dispatcher *outbox.Dispatcher
		opts       []api.HandlerOption
	)
	if cfg.PostgresURL == "" {
		log.Warn().Msg("POSTGRES_URL not set, using the in-memory store")
		repos = memory.NewStore()
	} else {
		if cfg.AutoMigrate {
			if err := migrateUp(cfg.PostgresURL); err != nil {
				return err
			}
		}
		pool, err = openPool(ctx, cfg.PostgresURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		repos = postgres.NewStore(pool, outbox.NewRecorder(cfg.OutboxTopic))
		opts = append(opts, api.WithHealthCheck(func(ctx context.Context) error {
			return pool.Ping(ctx)
		}))
	}

	if cfg.OutboxEnabled && pool != nil {
		producer := outbox.NewKafkaProducer(cfg.KafkaBrokers)
		defer func() {
			if err := producer.Close(); err != nil {
				log.Error().Err(err).Msg("closing kafka producer")
			}
		}()

		dispatcherOpts := []outbox.Option{outbox.WithLogger(log.Logger.With().Str("component", "outbox-dispatcher").Logger())}
		if cfg.SchemaRegistryURL != "" {
			dispatcherOpts = append(dispatcherOpts, outbox.WithSchemaRegistry(outbox.NewSchemaRegistryClient(cfg.SchemaRegistryURL)))
		}
		dispatcher = outbox.NewDispatcher(pool, producer, cfg.OutboxPollInterval, cfg.OutboxBatchSize, dispatcherOpts...)
		go dispatcher.Start(ctx)
	}

	issuer, err := auth.NewIssuer(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer, TTL: cfg.JWTTTL})
	if err != nil {
		return oops.Code("config_invalid").Wrap(err)
	}
	services := domain.NewServices(repos, auth.NewHasher(cfg.BcryptCost), issuer,
		domain.WithCatalogAdmins(cfg.CatalogAdmins...))
	handler := api.NewHandler(services, auth.NewMiddleware(issuer, nil), opts...)

	serverCfg := httptransport.DefaultServerConfig(cfg.HTTPAddress)
	routerCfg := api.RouterConfig{Logger: log.Logger, AllowedOrigin: cfg.CORSAllowedOrigin}
	var metricsDone <-chan error
	if cfg.MetricsAddress == "" {
		routerCfg.Metrics = promhttp.Handler()
	} else {
		metricsDone = serveMetrics(ctx, cfg.MetricsAddress, serverCfg.ShutdownTimeout)
	}

	server := httptransport.NewServer(serverCfg, api.NewRouter(handler, routerCfg))
	runErr := httptransport.Run(ctx, server, serverCfg.ShutdownTimeout)
	stop()

	if dispatcher != nil {
		dispatcher.Wait()
	}
	if metricsDone != nil {
		<-metricsDone
	}
	if runErr != nil {
		return oops.Code("http_server_failed").Wrap(runErr)
	}
	log.Info().Msg("shutdown complete")
	return nil
}

func migrateUp(databaseURL string) error {
	migrator, err := migrations.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = migrator.Close() }()
	if err := migrator.Up(); err != nil {
		return err
	}
	log.Info().Msg("migrations applied")
	return nil
}
