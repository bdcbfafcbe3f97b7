// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Store drivers accepted by WSDETAILS_STORE_DRIVER.
const (
	DriverDynamoDB = "dynamodb"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the full process configuration.
type Config struct {
	TableName string `env:"DETAILS_TABLE_NAME" envDefault:"WorkspaceDetailsTable"`
	OriginURL string `env:"ORIGIN_URL"         envDefault:"*"`

	StoreDriver      string `env:"WSDETAILS_STORE_DRIVER"      envDefault:"dynamodb"`
	Region           string `env:"AWS_REGION"                  envDefault:"us-east-1"`
	DynamoDBEndpoint string `env:"WSDETAILS_DYNAMODB_ENDPOINT"`
	SQLitePath       string `env:"WSDETAILS_SQLITE_PATH"       envDefault:"wsdetails.db"`
	PostgresDSN      string `env:"WSDETAILS_POSTGRES_DSN"      envDefault:"postgres://localhost/wsdetails?sslmode=disable"`

	Archive Archive

	LogFormat string `env:"WSDETAILS_LOG_FORMAT" envDefault:"json"`
	LogLevel  string `env:"WSDETAILS_LOG_LEVEL"  envDefault:"INFO"`
}

// Archive configures the optional raw-event archive. An empty bucket disables it.
type Archive struct {
	Bucket    string `env:"WSDETAILS_ARCHIVE_BUCKET"`
	Prefix    string `env:"WSDETAILS_ARCHIVE_PREFIX"     envDefault:"events/"`
	Endpoint  string `env:"WSDETAILS_ARCHIVE_ENDPOINT"`
	PathStyle bool   `env:"WSDETAILS_ARCHIVE_PATH_STYLE" envDefault:"false"`
}

// Enabled reports whether events should be archived.
func (a Archive) Enabled() bool { return a.Bucket != "" }

// Load parses the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// LoadFrom parses an explicit environment map; used by tests and the CLI.
func LoadFrom(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch strings.ToLower(c.StoreDriver) {
	case DriverDynamoDB, DriverSQLite, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	if c.TableName == "" {
		return fmt.Errorf("DETAILS_TABLE_NAME must not be empty")
	}
	return nil
}
