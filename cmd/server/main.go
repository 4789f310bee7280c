// @title                       Cleaning Crew Booking API
// @version                     1.0
// @description                 Registration, login and ownership-scoped booking of cleaning crews.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/cleanus/booking-api/internal/api"
	"github.com/cleanus/booking-api/internal/api/handler"
	"github.com/cleanus/booking-api/internal/api/middleware"
	"github.com/cleanus/booking-api/internal/core/ports"
	"github.com/cleanus/booking-api/internal/core/service"
	"github.com/cleanus/booking-api/internal/infrastructure/config"
	"github.com/cleanus/booking-api/internal/infrastructure/db/mongo"
	"github.com/cleanus/booking-api/internal/infrastructure/db/postgres"
	"github.com/cleanus/booking-api/internal/infrastructure/db/redis"
	"github.com/cleanus/booking-api/internal/infrastructure/storage"
	"github.com/cleanus/booking-api/pkg/logger"
	"github.com/cleanus/booking-api/pkg/password"
	"github.com/cleanus/booking-api/pkg/token"
)

const serviceName = "booking-api"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
		Env:     cfg.Env,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- PostgreSQL ---
	pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL, MaxConns: cfg.Postgres.MaxConns}, log)
	if err != nil {
		return fmt.Errorf("connect postgres (is the database running and DATABASE_URL correct?): %w", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(cfg.Postgres.URL, log); err != nil {
		return err
	}

	healthChecks := map[string]handler.HealthCheck{
		"postgres": pool.Ping,
	}

	// --- Optional token denylist ---
	var (
		revoker     ports.TokenRevoker
		revocations middleware.RevocationChecker
	)
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()

		denylist := redis.NewTokenDenylist(rdb)
		revoker, revocations = denylist, denylist
		healthChecks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Str("addr", cfg.Redis.Addr).Msg("token revocation enabled")
	}

	// --- Optional audit trail ---
	var auditor ports.BookingAuditor
	if cfg.Mongo.URI != "" {
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}()

		audit := mongo.NewAuditRepository(db)
		if err := audit.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to create audit indexes")
		}
		auditor = audit
		healthChecks["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		log.Info().Str("database", cfg.Mongo.Database).Msg("booking audit trail enabled")
	}

	// --- Core ---
	docs, err := storage.NewDocumentStore(cfg.UploadDir, cfg.MaxUploadBytes)
	if err != nil {
		return err
	}
	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)

	authService := service.NewAuthService(
		postgres.NewUserRepository(pool),
		docs,
		password.NewHasher(cfg.BcryptCost),
		tokens,
		revoker,
		log.With().Str("component", "auth").Logger(),
	)
	bookingService := service.NewBookingService(
		postgres.NewBookingRepository(pool),
		auditor,
		log.With().Str("component", "booking").Logger(),
	)

	e := api.NewRouter(api.Dependencies{
		AuthService:    authService,
		BookingService: bookingService,
		Tokens:         tokens,
		Revocations:    revocations,
		HealthChecks:   healthChecks,
		Logger:         log,
		CORSOrigins:    cfg.CORSOrigins,
		MaxBodyBytes:   cfg.MaxUploadBytes,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info().Msg("server stopped cleanly")
	return nil
}
