// Command ledger_seed applies a YAML seed file to the configured Postgres
// ledger. See seed.example.yaml for the format.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/SscSPs/ledger_core/internal/core/services"
	"github.com/SscSPs/ledger_core/internal/events"
	"github.com/SscSPs/ledger_core/internal/platform/config"
	"github.com/SscSPs/ledger_core/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_core/internal/seed"
	"github.com/SscSPs/ledger_core/pkg/database"
)

func main() {
	path := flag.String("file", "seed.example.yaml", "seed file to apply")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.StorageBackend != config.BackendPostgres {
		logger.Error("Seeding needs STORAGE_BACKEND=postgres; the memory backend seeds itself from SEED_FILE")
		os.Exit(1)
	}

	f, err := seed.Load(*path)
	if err != nil {
		logger.Error("Failed to load seed file", slog.String("file", *path), slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()
	if cfg.RunMigrations {
		if _, err := pgsql.RunMigrations(cfg.DatabaseURL); err != nil {
			logger.Error("Failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		logger.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(pool)

	svc := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(pool), events.NoopPublisher{})
	summary, err := seed.Apply(ctx, svc, f)
	if err != nil {
		logger.Error("Seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Seeding complete",
		slog.Int("accounts_created", summary.AccountsCreated),
		slog.Int("accounts_existing", summary.AccountsExisting),
		slog.Int("transactions_posted", summary.TransactionsPosted),
		slog.Int("transactions_replayed", summary.TransactionsReplayed),
		slog.Int("goals_created", summary.GoalsCreated),
	)
}
