package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

const (
	ModeStrict = "strict"
	ModeEnsure = "ensure"
)

type Config struct {
	AppEnv          string `env:"APP_ENV" default:"development"`
	MongoURI        string `env:"MONGODB_URI"`
	MongoDatabase   string `env:"MONGODB_DATABASE"`
	ProvisionMode   string `env:"PROVISION_MODE" default:"strict"`
	MetricsTextfile string `env:"METRICS_TEXTFILE"`
	LogLevel        string `env:"LOG_LEVEL" default:"info"`
	LogFormat       string `env:"LOG_FORMAT" default:"text"`

	ConnectAttempts int `env:"CONNECT_ATTEMPTS" default:"5"`

	ConnectTimeout   time.Duration `env:"CONNECT_TIMEOUT" default:"10s"`
	OperationTimeout time.Duration `env:"OPERATION_TIMEOUT" default:"30s"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks field ranges and the production TLS rule. It does not require
// MONGODB_URI because flags may still supply it; see RequireURI.
func (c *Config) Validate() error {
	if c.ProvisionMode != ModeStrict && c.ProvisionMode != ModeEnsure {
		return fmt.Errorf("PROVISION_MODE must be %q or %q, got %q", ModeStrict, ModeEnsure, c.ProvisionMode)
	}
	if c.ConnectAttempts < 1 {
		return errors.New("CONNECT_ATTEMPTS must be at least 1")
	}
	if c.ConnectTimeout <= 0 {
		return errors.New("CONNECT_TIMEOUT must be positive")
	}
	if c.OperationTimeout <= 0 {
		return errors.New("OPERATION_TIMEOUT must be positive")
	}

	if c.AppEnv == "production" && c.MongoURI != "" {
		if setting, insecure := insecureTLS(c.MongoURI); insecure {
			return fmt.Errorf("MONGODB_URI sets %s which is not allowed in production", setting)
		}
	}

	return nil
}

// RequireURI reports an error when no connection string is configured.
func (c *Config) RequireURI() error {
	if c.MongoURI == "" {
		return errors.New("MONGODB_URI is required")
	}
	return nil
}

// insecureTLS reports whether the connection string explicitly disables TLS.
func insecureTLS(uri string) (string, bool) {
	_, rawQuery, found := strings.Cut(uri, "?")
	if !found {
		return "", false
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", false
	}
	for _, key := range []string{"tls", "ssl"} {
		if strings.EqualFold(query.Get(key), "false") {
			return key + "=false", true
		}
	}
	return "", false
}
