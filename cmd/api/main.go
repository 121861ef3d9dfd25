// @title        Registration API
// @version      1.0
// @description  Account registration service.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/gcredit/registration-api/internal/api"
	"github.com/gcredit/registration-api/internal/api/handler"
	"github.com/gcredit/registration-api/internal/api/middleware"
	"github.com/gcredit/registration-api/internal/core/domain"
	"github.com/gcredit/registration-api/internal/core/ports"
	"github.com/gcredit/registration-api/internal/core/service"
	"github.com/gcredit/registration-api/internal/infrastructure/crypto"
	mongodb "github.com/gcredit/registration-api/internal/infrastructure/db/mongo"
	"github.com/gcredit/registration-api/internal/infrastructure/db/postgres"
	redisdb "github.com/gcredit/registration-api/internal/infrastructure/db/redis"
	"github.com/gcredit/registration-api/internal/infrastructure/queue"
	"github.com/gcredit/registration-api/internal/pkg/config"
	"github.com/gcredit/registration-api/pkg/logger"
)

const serviceName = "registration-api"

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: serviceName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("registration api stopped with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	readiness := map[string]handler.Pinger{"store": st.pinger}

	var limiter ports.RateLimiter
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, registration is not rate limited")
	} else {
		defer rdb.Close()
		limiter = redisdb.NewRateLimiter(rdb)
		readiness["redis"] = redisdb.NewPinger(rdb)
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, st.audit, logger.Component("audit"))
	dispatcher.Start(workerCtx)

	svc := service.NewRegistrationService(
		st.accounts,
		crypto.NewBcryptHasher(cfg.Registration.BcryptCost),
		dispatcher,
		service.RegistrationOptions{
			Policy: domain.PasswordPolicy{
				MinLength:     cfg.Registration.MinLength,
				MaxLength:     domain.DefaultPasswordPolicy().MaxLength,
				RequireUpper:  cfg.Registration.RequireUpper,
				RequireLower:  cfg.Registration.RequireLower,
				RequireDigit:  cfg.Registration.RequireDigit,
				RequireSymbol: cfg.Registration.RequireSymbol,
			},
			DefaultRole: domain.Role(cfg.Registration.DefaultRole),
		},
		logger.Component("registration"),
	)

	e := api.NewRouter(api.Dependencies{
		Registration: svc,
		Limiter:      limiter,
		RateLimit: middleware.RateLimitConfig{
			Scope:  "register",
			Limit:  cfg.Registration.RateLimit,
			Window: cfg.Registration.RateWindow,
		},
		Readiness: readiness,
		Logger:    logger.Component("http"),
		BodyLimit: cfg.BodyLimit,
	})

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("registration api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			stopWorkers()
			dispatcher.Wait()
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// In-flight requests are done; flush queued audit events.
	stopWorkers()
	dispatcher.Wait()
	log.Info().Msg("registration api stopped")
	return nil
}

type store struct {
	accounts ports.AccountRepository
	audit    ports.AuditRepository
	pinger   handler.Pinger
	close    func()
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := postgres.Open(ctx, postgres.Config{
			DSN:          cfg.Postgres.DSN,
			MaxOpenConns: cfg.Postgres.MaxOpenConns,
		})
		if err != nil {
			return nil, err
		}
		migrator, err := postgres.NewMigrator(db, logger.Component("migrator"))
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		if err := migrator.Up(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &store{
			accounts: postgres.NewAccountRepository(db),
			audit:    postgres.NewAuditRepository(db),
			pinger:   postgres.NewPinger(db),
			close:    func() { _ = db.Close() },
		}, nil

	default:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  serviceName,
		})
		if err != nil {
			return nil, err
		}
		accounts := mongodb.NewAccountRepository(db)
		audit := mongodb.NewAuditRepository(db)
		if err := accounts.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		if err := audit.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &store{
			accounts: accounts,
			audit:    audit,
			pinger:   mongodb.NewPinger(db),
			close: func() {
				disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = client.Disconnect(disconnectCtx)
			},
		}, nil
	}
}
