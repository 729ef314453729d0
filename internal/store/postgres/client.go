// Package postgres implements optional ledger persistence using PostgreSQL
// via pgx. The append-only JSONL trade log remains the authoritative record;
// this store exists for restarts and reporting queries.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ClientConfig holds connection parameters for the PostgreSQL client.
type ClientConfig struct {
	DSN      string
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

// DSN builds a PostgreSQL connection string from the given config. An explicit
// DSN wins over the discrete fields.
func DSN(cfg ClientConfig) string {
	if strings.TrimSpace(cfg.DSN) != "" {
		return cfg.DSN
	}

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, port, cfg.Database, sslMode,
	)
}

// Client wraps a pgxpool.Pool and manages the schema.
type Client struct {
	pool *pgxpool.Pool
}

// New creates a new Client with a connection pool configured from cfg and
// verifies connectivity with a ping.
func New(ctx context.Context, cfg ClientConfig) (*Client, error) {
	poolCfg, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = int32(cfg.MinConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return &Client{pool: pool}, nil
}

// Pool returns the underlying connection pool.
func (c *Client) Pool() *pgxpool.Pool {
	return c.pool
}

// Close shuts down the connection pool.
func (c *Client) Close() {
	c.pool.Close()
}

// EnsureSchema creates the tables this store needs if they do not exist. The
// schema is small enough that idempotent DDL beats a migration framework.
func (c *Client) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS ledger_snapshots (
			id SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			capital NUMERIC(18,4) NOT NULL,
			open_exposure NUMERIC(18,4) NOT NULL,
			daily_trades INTEGER NOT NULL,
			last_report_day INTEGER NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS trades (
			id UUID PRIMARY KEY,
			timestamp TIMESTAMPTZ NOT NULL,
			combo TEXT NOT NULL,
			title TEXT NOT NULL,
			net_edge NUMERIC(10,6) NOT NULL,
			stake NUMERIC(18,4) NOT NULL,
			pnl NUMERIC(18,4) NOT NULL,
			legs JSONB NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_trades_timestamp ON trades (timestamp DESC);
		CREATE INDEX IF NOT EXISTS idx_trades_combo ON trades (combo);`

	if _, err := c.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("postgres: ensure schema: %w", err)
	}
	return nil
}
