// Package store selects the workspace.Store backend from configuration.
package store

import (
	"context"
	"fmt"
	"strings"

	"wsdetails/internal/config"
	"wsdetails/internal/infra/store/dynamodb"
	"wsdetails/internal/infra/store/memory"
	"wsdetails/internal/infra/store/sqlstore"
	"wsdetails/internal/workspace"
)

// Seeder is implemented by backends that can create records for local
// development. Record creation is otherwise owned by the provisioning flow.
type Seeder interface {
	Seed(ctx context.Context, rec workspace.Record) error
}

// Handle bundles an opened store with its release function.
type Handle struct {
	workspace.Store
	Driver string
	close  func() error
}

// Close releases backend resources.
func (h *Handle) Close() error {
	if h.close == nil {
		return nil
	}
	return h.close()
}

// Seeder returns the backend's Seeder when it has one.
func (h *Handle) Seeder() (Seeder, bool) {
	s, ok := h.Store.(Seeder)
	return s, ok
}

// Open selects a store implementation using cfg.StoreDriver:
//
//	dynamodb (default): DETAILS_TABLE_NAME in AWS_REGION, optional WSDETAILS_DYNAMODB_ENDPOINT
//	sqlite:   WSDETAILS_SQLITE_PATH
//	postgres: WSDETAILS_POSTGRES_DSN
//	memory:   process-local, empty at start
func Open(ctx context.Context, cfg config.Config) (*Handle, error) {
	driver := strings.ToLower(cfg.StoreDriver)
	if driver == "" {
		driver = config.DriverDynamoDB
	}
	switch driver {
	case config.DriverDynamoDB:
		s, err := dynamodb.New(ctx, dynamodb.Config{Table: cfg.TableName, Region: cfg.Region, Endpoint: cfg.DynamoDBEndpoint})
		if err != nil {
			return nil, err
		}
		return &Handle{Store: s, Driver: driver}, nil
	case config.DriverSQLite:
		s, err := sqlstore.Open(ctx, sqlstore.SQLite, cfg.SQLitePath, cfg.TableName)
		if err != nil {
			return nil, err
		}
		return &Handle{Store: s, Driver: driver, close: s.Close}, nil
	case config.DriverPostgres:
		s, err := sqlstore.Open(ctx, sqlstore.Postgres, cfg.PostgresDSN, cfg.TableName)
		if err != nil {
			return nil, err
		}
		return &Handle{Store: s, Driver: driver, close: s.Close}, nil
	case config.DriverMemory:
		return &Handle{Store: memory.New(), Driver: driver}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %s", cfg.StoreDriver)
	}
}
