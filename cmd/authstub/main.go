// Package main is the entry point for the stub auth backend. It loads
// configuration, connects to Redis, wires the server, and runs until a
// shutdown signal arrives.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tnlabs/auth-client-kit/internal/infrastructure/db/redis"
	"github.com/tnlabs/auth-client-kit/internal/pkg/config"
	"github.com/tnlabs/auth-client-kit/internal/stub"
	"github.com/tnlabs/auth-client-kit/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Stub.Port).
		Msg("starting stub auth backend")

	ctx := context.Background()
	rdb, err := redis.Connect(ctx, cfg.Stub.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to redis")
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Stub.Redis.Addr).Msg("connected to redis")

	srv, err := stub.NewServer(cfg.Stub, rdb, log)
	if err != nil {
		log.Fatal().Err(err).Msg("build server")
	}

	// Drain in-flight requests on SIGINT/SIGTERM.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("forced shutdown")
		}
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}
