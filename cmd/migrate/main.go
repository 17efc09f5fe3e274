package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"quiz-scraper/internal/config"
	"quiz-scraper/internal/database"
	"quiz-scraper/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrationsDir string

func main() {
	rootCmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Applies or rolls back the Oracle schema.",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "dir", "database/migrations", "Directory holding *.up.sql and *.down.sql files.")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Runs every up migration in name order.",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd.Context(), func(ctx context.Context, db database.Execer, l *zap.Logger) error {
					return database.RunMigrations(ctx, db, migrationsDir, l)
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Runs every down migration in reverse name order.",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd.Context(), func(ctx context.Context, db database.Execer, l *zap.Logger) error {
					return database.RollbackMigrations(ctx, db, migrationsDir, l)
				})
			},
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func withDB(ctx context.Context, fn func(ctx context.Context, db database.Execer, l *zap.Logger) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return err
	}
	l := logger.Get()
	defer l.Sync()

	db, err := database.NewSQLXOracleDB(ctx, cfg.GetDSN(), l)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(ctx, db, l)
}
