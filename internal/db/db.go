package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	minConns      = 2
	minMaxConns   = 10
	idleTimeout   = 5 * time.Minute
	pingTimeout   = 5 * time.Second
	applicationID = "arena-booking"
)

// NewPool opens a pgx pool for dsn and verifies it with a ping.
//
// Sessions run in UTC so timestamptz values come back as absolute instants;
// facility-local interpretation happens in the slot package. Each booking
// write pins a connection for its transaction, so the pool never drops
// below minMaxConns even when the DSN asks for fewer.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database dsn: %w", err)
	}

	cfg.MaxConns = max(cfg.MaxConns, minMaxConns)
	cfg.MinConns = max(cfg.MinConns, minConns)
	cfg.MaxConnIdleTime = idleTimeout
	cfg.ConnConfig.RuntimeParams["timezone"] = "UTC"
	if cfg.ConnConfig.RuntimeParams["application_name"] == "" {
		cfg.ConnConfig.RuntimeParams["application_name"] = applicationID
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}
