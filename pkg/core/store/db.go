// Package store persists forecast scenarios to Postgres. A saved run
// stores the line-level forecast, the driver snapshot it was generated
// from, and metadata for listing.
package store

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool *pgxpool.Pool
	once sync.Once
)

// InitDB initializes the database connection pool using the DATABASE_URL
// environment variable and ensures the scenario schema exists.
func InitDB(ctx context.Context) error {
	var err error
	once.Do(func() {
		dbURL := os.Getenv("DATABASE_URL")
		if dbURL == "" {
			err = fmt.Errorf("DATABASE_URL environment variable not set")
			return
		}

		config, parseErr := pgxpool.ParseConfig(dbURL)
		if parseErr != nil {
			err = fmt.Errorf("failed to parse database config: %w", parseErr)
			return
		}

		pool, err = pgxpool.NewWithConfig(ctx, config)
		if err != nil {
			return
		}
		err = ensureSchema(ctx, pool)
	})
	return err
}

func ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS scenarios (
			id UUID PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			created_by TEXT NOT NULL,
			forecast_period TEXT NOT NULL,
			description TEXT
		);
		CREATE TABLE IF NOT EXISTS scenario_lines (
			id BIGSERIAL PRIMARY KEY,
			scenario_id UUID NOT NULL REFERENCES scenarios(id) ON DELETE CASCADE,
			category TEXT NOT NULL,
			period_date TEXT NOT NULL,
			forecast_amount DOUBLE PRECISION NOT NULL,
			adjustment_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
			final_amount DOUBLE PRECISION NOT NULL
		);
		CREATE TABLE IF NOT EXISTS scenario_drivers (
			scenario_id UUID PRIMARY KEY REFERENCES scenarios(id) ON DELETE CASCADE,
			dso_days DOUBLE PRECISION NOT NULL,
			dpo_days DOUBLE PRECISION NOT NULL,
			dio_days DOUBLE PRECISION NOT NULL,
			ccc_days DOUBLE PRECISION NOT NULL,
			revenue_growth_pct DOUBLE PRECISION NOT NULL,
			gross_margin_pct DOUBLE PRECISION NOT NULL,
			capex_pct DOUBLE PRECISION,
			interest_rate_pct DOUBLE PRECISION,
			industry TEXT,
			forecast_json JSONB
		);
	`
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure scenario schema: %w", err)
	}
	return nil
}

// GetPool returns the database connection pool.
func GetPool() *pgxpool.Pool {
	return pool
}

// Close closes the database connection pool.
func Close() {
	if pool != nil {
		pool.Close()
	}
}
