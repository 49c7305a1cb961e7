// Package database opens the stores behind the session cache and the
// submission journal and probes them for the health endpoint.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"labportal/internal/common/config"
	"labportal/internal/common/errors"

	_ "github.com/lib/pq"
)

// Postgres holds the pool used by the submission journal.
type Postgres struct {
	db *sql.DB
}

// NewPostgres configures a pool. sql.Open does not dial, so an unreachable
// server only shows up on Ping.
func NewPostgres(cfg config.PostgresConfig) (*Postgres, error) {
	if cfg.Host == "" || cfg.Database == "" {
		return nil, errors.NewConfigError("database.postgres needs host and database")
	}
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Postgres{db: db}, nil
}

// WrapPostgres adopts an existing handle, e.g. a sqlmock connection.
func WrapPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) DB() *sql.DB { return p.db }

func (p *Postgres) Name() string { return "postgres" }

func (p *Postgres) Ping(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
