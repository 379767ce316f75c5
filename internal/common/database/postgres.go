// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fantasy-research/internal/common/config"

	_ "github.com/lib/pq"
)

// insightSchema matches the columns written by the research insight store.
const insightSchema = `
CREATE TABLE IF NOT EXISTS ai_insights (
	id               TEXT PRIMARY KEY,
	query_type       TEXT NOT NULL,
	query_text       TEXT NOT NULL,
	response_json    JSONB NOT NULL,
	confidence_score DOUBLE PRECISION NOT NULL,
	week             INTEGER NOT NULL,
	is_actionable    BOOLEAN NOT NULL DEFAULT FALSE,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_ai_insights_type_created ON ai_insights (query_type, created_at DESC);
`

// PostgresClient wraps the SQL database connection
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens a pooled PostgreSQL handle. The connection is not verified until Ping.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// EnsureSchema creates the ai_insights table and its lookup index when absent.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	if _, err := c.DB.ExecContext(ctx, insightSchema); err != nil {
		return fmt.Errorf("failed to ensure ai_insights schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
