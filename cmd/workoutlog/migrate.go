package main

import (
	"strconv"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"example.com/workoutlog/internal/config"
	"example.com/workoutlog/internal/persistence/migrations"
)

// NewMigrateCmd creates the migrate command group.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long:  `Apply, roll back and inspect the embedded PostgreSQL schema migrations.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(cmd *cobra.Command, m *migrations.Migrator, _ []string) error {
			if err := m.Up(); err != nil {
				return err
			}
			cmd.Println("Migrations completed successfully")
			return nil
		}),
	})

	var confirm bool
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back every migration",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(cmd *cobra.Command, m *migrations.Migrator, _ []string) error {
			if !confirm {
				return oops.Code("confirmation_required").Errorf("migrate down drops all data; pass --yes to confirm")
			}
			if err := m.Down(); err != nil {
				return err
			}
			cmd.Println("All migrations rolled back")
			return nil
		}),
	}
	down.Flags().BoolVar(&confirm, "yes", false, "confirm dropping all tables")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "steps N",
		Short: "Apply N migrations, or roll back when N is negative",
		Args:  cobra.ExactArgs(1),
		RunE: withMigrator(func(cmd *cobra.Command, m *migrations.Migrator, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return oops.Code("invalid_argument").With("steps", args[0]).Wrap(err)
			}
			if err := m.Steps(n); err != nil {
				return err
			}
			cmd.Printf("Applied %d step(s)\n", n)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "force VERSION",
		Short: "Mark VERSION as applied and clear the dirty flag",
		Args:  cobra.ExactArgs(1),
		RunE: withMigrator(func(cmd *cobra.Command, m *migrations.Migrator, args []string) error {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return oops.Code("invalid_argument").With("version", args[0]).Wrap(err)
			}
			if err := m.Force(v); err != nil {
				return err
			}
			cmd.Printf("Forced version %d\n", v)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the applied version and pending migrations",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(cmd *cobra.Command, m *migrations.Migrator, _ []string) error {
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			pending, err := m.Pending()
			if err != nil {
				return err
			}
			cmd.Printf("Version: %d\n", version)
			if dirty {
				cmd.Println("State: dirty (run migrate force)")
			}
			if len(pending) == 0 {
				cmd.Println("No pending migrations")
				return nil
			}
			cmd.Printf("Pending: %v\n", pending)
			return nil
		}),
	})

	return cmd
}

type migratorFunc func(cmd *cobra.Command, m *migrations.Migrator, args []string) error

// withMigrator opens a Migrator against POSTGRES_URL for the duration of fn.
func withMigrator(fn migratorFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadWorker()
		if cfg.PostgresURL == "" {
			return oops.Code("config_invalid").With("key", "POSTGRES_URL").Errorf("POSTGRES_URL is required")
		}
		m, err := migrations.NewMigrator(cfg.PostgresURL)
		if err != nil {
			return oops.Code("migration_failed").With("operation", "connect to database").Wrap(err)
		}
		defer func() { _ = m.Close() }()
		return fn(cmd, m, args)
	}
}
