// Command migrate manages the PostgreSQL schema used when STORE_DRIVER=postgres.
//
//	migrate -command up
//	migrate -command status
//	migrate -command down -target 1
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gcredit/registration-api/internal/infrastructure/db/postgres"
	"github.com/gcredit/registration-api/internal/pkg/config"
	"github.com/gcredit/registration-api/pkg/logger"
)

func main() {
	command := flag.String("command", "up", "migration command: up, status or down")
	target := flag.Int64("target", 0, "version to roll back to with -command down (0 rolls back one step)")
	flag.Parse()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  true,
		Service: "registration-migrate",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
	if err != nil {
		log.Fatal().Err(err).Msg("connect to postgres")
	}
	defer db.Close()

	migrator, err := postgres.NewMigrator(db, logger.Component("migrator"))
	if err != nil {
		log.Fatal().Err(err).Msg("configure migrations")
	}

	switch *command {
	case "up":
		err = migrator.Up(ctx)
	case "status":
		err = migrator.Status(ctx)
	case "down":
		err = migrator.Down(ctx, *target)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", *command)
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Str("command", *command).Msg("migration failed")
		os.Exit(1)
	}
}
