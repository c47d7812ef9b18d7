package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config holds every setting read from the environment.
type Config struct {
	DatabaseURL   string `env:"DATABASE_URL"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	ServerPort    int    `env:"SERVER_PORT" envDefault:"8080"`

	JWTSecretKey         string        `env:"JWT_SECRET_KEY,required,notEmpty"`
	JWTTTL               time.Duration `env:"JWT_TTL" envDefault:"24h"`
	OperatorUsername     string        `env:"OPERATOR_USERNAME" envDefault:"admin"`
	OperatorPasswordHash string        `env:"OPERATOR_PASSWORD_HASH"`
	CORSAllowedOrigins   []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	R2AccountID       string `env:"R2_ACCOUNT_ID"`
	R2AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey string `env:"R2_SECRET_ACCESS_KEY"`
	R2BucketName      string `env:"R2_BUCKET_NAME"`
	R2PublicBaseURL   string `env:"R2_PUBLIC_BASE_URL"`

	StandingsRefreshInterval  time.Duration `env:"STANDINGS_REFRESH_INTERVAL" envDefault:"1m"`
	DefaultRoundLengthMinutes int           `env:"DEFAULT_ROUND_LENGTH_MINUTES" envDefault:"45"`
	LogLevel                  string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.StorageDriver {
	case StorageDriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORAGE_DRIVER is postgres"))
		}
	case StorageDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageDriverPostgres, StorageDriverMemory, c.StorageDriver))
	}

	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL))
	}
	if c.StandingsRefreshInterval < 0 {
		errs = append(errs, fmt.Errorf("STANDINGS_REFRESH_INTERVAL must not be negative, got %s", c.StandingsRefreshInterval))
	}
	if c.DefaultRoundLengthMinutes <= 0 {
		errs = append(errs, fmt.Errorf("DEFAULT_ROUND_LENGTH_MINUTES must be positive, got %d", c.DefaultRoundLengthMinutes))
	}

	return errors.Join(errs...)
}
