// Package config loads client and stub-server configuration from the
// environment and validates it before anything else runs.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

// Config is the full configuration surface. Client and stub sections share
// one struct so one environment covers both binaries.
type Config struct {
	APIBaseURL      string        `env:"API_BASE_URL,      default=http://localhost:8080" validate:"required,url"`
	GraphQLEndpoint string        `env:"GRAPHQL_ENDPOINT,  default=http://localhost:8080/graphql" validate:"required,url"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT,   default=10s"`
	StateDir        string        `env:"STATE_DIR"`
	LogLevel        string        `env:"LOG_LEVEL,         default=info"`
	Env             string        `env:"ENV,               default=development"`

	Stub StubConfig
}

// StubConfig configures the local development auth backend.
type StubConfig struct {
	Port       string        `env:"STUB_PORT,        default=8080"`
	JWTSecret  string        `env:"STUB_JWT_SECRET,  default=dev-only-secret"`
	AccessTTL  time.Duration `env:"STUB_ACCESS_TTL,  default=15m"`
	RefreshTTL time.Duration `env:"STUB_REFRESH_TTL, default=168h"`

	Redis RedisConfig
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables. It panics on invalid
// configuration: nothing useful can run without it.
func Load() *Config {
	cfg, err := load(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if cfg.StateDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve state dir: %w", err)
		}
		cfg.StateDir = filepath.Join(base, "authkit")
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return &cfg, nil
}
