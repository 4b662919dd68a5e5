package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/touchline/internal/database"
	"github.com/yourusername/touchline/internal/models"
)

const errScanBacktestSummary = "failed to scan backtest summary: %w"

const summaryColumns = `id, strategy_kind, strategy_name, league, parameter_hash,
	start_season, end_season, seasons_tested, total_bets, winning_bets,
	win_rate, total_stake, profit_loss, roi, run_date`

// PostgresBacktestReportRepository implements BacktestReportRepository for PostgreSQL
type PostgresBacktestReportRepository struct {
	db *database.DB
}

// NewPostgresBacktestReportRepository creates a new backtest report repository
func NewPostgresBacktestReportRepository(db *database.DB) BacktestReportRepository {
	return &PostgresBacktestReportRepository{db: db}
}

// SaveReport inserts the headline figures and the full JSON report
func (r *PostgresBacktestReportRepository) SaveReport(ctx context.Context, report *models.BacktestReport) error {
	params, full, err := encodeReport(report)
	if err != nil {
		return err
	}
	s := report.Summary()

	query := `
		INSERT INTO backtest_reports (
			id, strategy_kind, strategy_name, league, parameter_hash, parameters,
			start_season, end_season, seasons_tested, total_bets, winning_bets,
			win_rate, total_stake, profit_loss, roi, full_report, run_date
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`
	_, err = r.db.Exec(ctx, query,
		s.ID, s.Kind, s.Strategy, s.League, s.ParameterHash, params,
		s.StartSeason, s.EndSeason, s.SeasonsTested, s.TotalBets, s.WinningBets,
		s.WinRate, s.TotalStake, s.ProfitLoss, s.ROI, full, s.RunDate,
	)
	if err != nil {
		return fmt.Errorf("failed to save backtest report: %w", err)
	}
	return nil
}

// GetReport loads a full report by ID
func (r *PostgresBacktestReportRepository) GetReport(ctx context.Context, id uuid.UUID) (*models.BacktestReport, error) {
	var full []byte
	err := r.db.QueryRow(ctx, `SELECT full_report FROM backtest_reports WHERE id = $1`, id).Scan(&full)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query backtest report: %w", err)
	}
	return decodeReport(full)
}

// GetByStrategy retrieves the most recent summaries for a strategy kind
func (r *PostgresBacktestReportRepository) GetByStrategy(ctx context.Context, kind string, limit int) ([]*models.BacktestSummary, error) {
	query := `SELECT ` + summaryColumns + `
		FROM backtest_reports WHERE strategy_kind = $1 ORDER BY run_date DESC LIMIT $2`
	rows, err := r.db.Query(ctx, query, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query backtest reports: %w", err)
	}
	return scanSummaries(rows)
}

// GetLatest retrieves the most recent summaries across strategies
func (r *PostgresBacktestReportRepository) GetLatest(ctx context.Context, limit int) ([]*models.BacktestSummary, error) {
	query := `SELECT ` + summaryColumns + `
		FROM backtest_reports ORDER BY run_date DESC LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest backtest reports: %w", err)
	}
	return scanSummaries(rows)
}

func scanSummaries(rows pgx.Rows) ([]*models.BacktestSummary, error) {
	defer rows.Close()

	var summaries []*models.BacktestSummary
	for rows.Next() {
		s := &models.BacktestSummary{}
		if err := rows.Scan(
			&s.ID, &s.Kind, &s.Strategy, &s.League, &s.ParameterHash,
			&s.StartSeason, &s.EndSeason, &s.SeasonsTested, &s.TotalBets, &s.WinningBets,
			&s.WinRate, &s.TotalStake, &s.ProfitLoss, &s.ROI, &s.RunDate,
		); err != nil {
			return nil, fmt.Errorf(errScanBacktestSummary, err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// encodeReport marshals the parameter map and the full report for JSONB columns
func encodeReport(report *models.BacktestReport) (params, full []byte, err error) {
	if report == nil {
		return nil, nil, fmt.Errorf("backtest report is required")
	}
	params, err = json.Marshal(report.Parameters)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode parameters: %w", err)
	}
	full, err = json.Marshal(report)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode backtest report: %w", err)
	}
	return params, full, nil
}

func decodeReport(full []byte) (*models.BacktestReport, error) {
	report := &models.BacktestReport{}
	if err := json.Unmarshal(full, report); err != nil {
		return nil, fmt.Errorf("failed to decode backtest report: %w", err)
	}
	return report, nil
}
