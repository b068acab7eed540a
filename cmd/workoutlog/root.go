package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"example.com/workoutlog/internal/config"
	"example.com/workoutlog/internal/logutil"
	httptransport "example.com/workoutlog/internal/transport/http"
)

// Global flags available to all subcommands.
var envFile string

// NewRootCmd creates the root command for the workoutlog CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workoutlog",
		Short: "Workout tracking API and its background workers",
		Long: `workoutlog serves the workout tracking HTTP API and runs the
outbox consumer, DLQ manager and schema migrations that support it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := config.LoadEnvFile(envFile); err != nil {
				return err
			}
			cfg := config.LoadWorker()
			log.Logger = logutil.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file merged into the environment")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewConsumeCmd())
	cmd.AddCommand(NewDLQCmd())

	return cmd
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func openPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, oops.Code("config_invalid").With("key", "POSTGRES_URL").Errorf("POSTGRES_URL is required")
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, oops.Code("db_connect_failed").Wrap(err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, oops.Code("db_connect_failed").Wrap(err)
	}
	return pool, nil
}

// serveMetrics exposes promhttp on addr until ctx is cancelled.
func serveMetrics(ctx context.Context, addr string, shutdownTimeout time.Duration) <-chan error {
	done := make(chan error, 1)
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	server := httptransport.NewServer(httptransport.DefaultServerConfig(addr), mux)
	go func() {
		err := httptransport.Run(ctx, server, shutdownTimeout)
		if err != nil {
			log.Error().Err(err).Str("address", addr).Msg("metrics server failed")
		}
		done <- err
	}()
	return done
}
