package stub

import (
	"context"
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tnlabs/auth-client-kit/internal/pkg/config"
)

// Server is the stub auth backend: Echo wiring over the in-memory user store,
// the token issuer, and the redis revocation list.
type Server struct {
	echo *echo.Echo
	cfg  config.StubConfig
	log  zerolog.Logger
}

// NewServer builds the server and registers all routes. The demo account is
// seeded here so a fresh stub is immediately usable.
func NewServer(cfg config.StubConfig, rdb *redis.Client, log zerolog.Logger) (*Server, error) {
	users := NewUserStore()
	if _, err := users.SeedDemoUser(); err != nil {
		return nil, fmt.Errorf("seed demo user: %w", err)
	}

	issuer := NewIssuer(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	revoker := NewRevoker(rdb)
	handlers := NewHandlers(users, issuer, revoker, log)

	gql, err := NewGraphQLHandler(users, issuer, revoker, log)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	// Per-server registry for the HTTP metrics; the custom counters live on
	// the default registry, so /metrics gathers from both.
	registry := prometheus.NewRegistry()
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  namespace,
		Registerer: registry,
	}))

	auth := authMiddleware(issuer, revoker)

	e.POST("/auth/login", handlers.Login)
	e.POST("/auth/register", handlers.Register)
	e.POST("/auth/logout", handlers.Logout, auth)
	e.POST("/auth/refresh", handlers.Refresh)

	e.GET("/users/me", handlers.Me, auth)
	e.PATCH("/users/me", handlers.UpdateMe, auth)
	e.GET("/users", handlers.Users, auth)

	e.POST("/graphql", gql.Serve())

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{registry, prometheus.DefaultGatherer},
	}))
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	return &Server{echo: e, cfg: cfg, log: log}, nil
}

// Start runs the HTTP listener until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info().Str("port", s.cfg.Port).Msg("stub auth backend listening")
	return s.echo.Start(":" + s.cfg.Port)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
