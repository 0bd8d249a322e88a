package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	// JWTSecret signs session tokens. Required; startup must fail without it.
	JWTSecret string `env:"JWT_SECRET"`
	// TokenTTLSeconds is the default session token lifetime.
	TokenTTLSeconds int `env:"TOKEN_TTL, default=3600"`
	// BcryptCost tunes password hashing expense. 0 selects the bcrypt default.
	BcryptCost int `env:"BCRYPT_COST, default=0"`
	// AutoProvision enables account creation on first-seen Basic credentials.
	// Off by default: sign-up is an explicit endpoint, not a login side effect.
	AutoProvision bool `env:"AUTH_AUTO_PROVISION, default=false"`
	// ThrottleMaxFailures caps failed Basic attempts per username per window.
	ThrottleMaxFailures int `env:"AUTH_THROTTLE_MAX_FAILURES, default=10"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=library_system"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig and
// validates it. A missing signing secret is a startup failure, never a
// per-request one.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces invariants that envconfig defaults cannot express.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.Auth.TokenTTLSeconds <= 0 {
		return errors.New("config: TOKEN_TTL must be a positive number of seconds")
	}
	return nil
}
