package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"monipersonal/server/internal/config"
	"monipersonal/server/internal/crypto"
	"monipersonal/server/internal/db"
	internalhttp "monipersonal/server/internal/http"
	"monipersonal/server/internal/model"
	"monipersonal/server/internal/repository"
	"monipersonal/server/internal/session"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("db connection failed")
	}
	defer pool.Close()

	store := repository.NewStore(pool)

	sessions, err := newSessionStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("session store init failed")
	}

	if err := seedAdmin(ctx, cfg, store, logger); err != nil {
		logger.Fatal().Err(err).Msg("admin seeding failed")
	}

	server := internalhttp.NewServer(cfg, store, sessions, logger)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Str("environment", cfg.Environment).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}

// newSessionStore uses Redis when an address is configured, so restarts do
// not drop live sessions; otherwise the in-memory store carries them.
func newSessionStore(ctx context.Context, cfg config.Config) (session.Store, error) {
	if cfg.RedisAddr == "" {
		return session.NewMemory(cfg.SessionTTL), nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return session.NewRedis(client, cfg.SessionTTL), nil
}

// seedAdmin creates the initial operator account on an empty operators table
// so a fresh deployment has a way in. Requires ADMIN_PASSWORD to be set.
func seedAdmin(ctx context.Context, cfg config.Config, store *repository.Store, logger zerolog.Logger) error {
	count, err := store.CountOperators(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if cfg.AdminPassword == "" {
		logger.Warn().Msg("no operators exist and ADMIN_PASSWORD is unset; skipping admin seeding")
		return nil
	}

	hash, err := crypto.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	if _, err := store.CreateOperator(ctx, model.Operator{
		Email:        cfg.AdminEmail,
		Name:         cfg.AdminName,
		PasswordHash: hash,
		Role:         "admin",
	}); err != nil {
		return err
	}
	logger.Info().Str("email", cfg.AdminEmail).Msg("seeded initial admin operator")
	return nil
}
