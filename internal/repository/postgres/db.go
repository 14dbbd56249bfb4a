package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/andresuchdata/invopt/internal/config"
)

type DB struct {
	*sqlx.DB
	sem *semaphore.Weighted
}

var (
	dbInstance *DB
	once       sync.Once
)

// NewDB creates a new database connection pool
func NewDB(cfg *config.DatabaseConfig) (*DB, error) {
	var err error
	once.Do(func() {
		connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

		var db *sqlx.DB
		db, err = sqlx.Connect("postgres", connStr)
		if err != nil {
			return
		}

		// Configure connection pool
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		// Initialize with a semaphore to limit concurrent operations
		dbInstance = &DB{
			DB:  db,
			sem: semaphore.NewWeighted(10), // Limit to 10 concurrent operations
		}
	})

	return dbInstance, err
}

// WithTx executes a function within a transaction
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	// Acquire semaphore
	if err := db.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("could not acquire semaphore: %w", err)
	}
	defer db.sem.Release(1)

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	if err := fn(tx.Tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("could not rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS suppliers (
		supplier_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		country TEXT NOT NULL DEFAULT '',
		base_lead_weeks DOUBLE PRECISION NOT NULL DEFAULT 0,
		lead_time_std_weeks DOUBLE PRECISION NOT NULL DEFAULT 0,
		reliability DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS components (
		component_id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		variant TEXT NOT NULL DEFAULT '',
		supplier_id TEXT NOT NULL REFERENCES suppliers (supplier_id),
		weekly_demand DOUBLE PRECISION NOT NULL,
		lead_time_weeks DOUBLE PRECISION NOT NULL,
		lead_time_std_weeks DOUBLE PRECISION NOT NULL DEFAULT 0,
		unit_cost NUMERIC(12,2) NOT NULL,
		current_stock BIGINT NOT NULL,
		service_level DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_components_category ON components (category)`,
	`CREATE INDEX IF NOT EXISTS idx_components_supplier ON components (supplier_id)`,
	`CREATE TABLE IF NOT EXISTS optimization_runs (
		id UUID PRIMARY KEY,
		max_budget NUMERIC(14,2) NOT NULL,
		target_avg_risk_pct DOUBLE PRECISION NOT NULL,
		total_spent NUMERIC(14,2) NOT NULL,
		converged BOOLEAN NOT NULL,
		result JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_optimization_runs_created ON optimization_runs (created_at DESC)`,
}

// Schema returns the DDL statements for the tables this service owns.
// The seed CLI applies them over its own connection.
func Schema() []string {
	out := make([]string, len(schema))
	copy(out, schema)
	return out
}

// EnsureSchema creates the tables this service owns if they do not exist.
// Statements are idempotent, so running it on every start is safe.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("could not apply schema: %w", err)
		}
	}

	return nil
}
