// Package config provides environment-based configuration.
//
// Loads from .env file (godotenv), maps to Config struct via go-simpler/env struct tags.
// Validates provisioning mode, timeouts, and the production TLS rule for the connection string.
package config
