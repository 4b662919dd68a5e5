package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/touchline/internal/config"
)

// schema creates the tables backtest persistence writes to
var schema = []string{
	`CREATE TABLE IF NOT EXISTS backtest_reports (
		id               UUID PRIMARY KEY,
		strategy_kind    TEXT NOT NULL,
		strategy_name    TEXT NOT NULL,
		league           TEXT NOT NULL,
		parameter_hash   TEXT NOT NULL,
		parameters       JSONB NOT NULL,
		start_season     INTEGER NOT NULL,
		end_season       INTEGER NOT NULL,
		seasons_tested   INTEGER NOT NULL,
		total_bets       INTEGER NOT NULL,
		winning_bets     INTEGER NOT NULL,
		win_rate         DOUBLE PRECISION NOT NULL,
		total_stake      DOUBLE PRECISION NOT NULL,
		profit_loss      DOUBLE PRECISION NOT NULL,
		roi              DOUBLE PRECISION NOT NULL,
		full_report      JSONB NOT NULL,
		run_date         TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS backtest_reports_kind_run_date_idx
		ON backtest_reports (strategy_kind, run_date DESC)`,
}

// Initialize opens the pool and creates the report tables if missing
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema applies the idempotent schema statements in one transaction
func EnsureSchema(ctx context.Context, db *DB) error {
	return db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		return nil
	})
}
