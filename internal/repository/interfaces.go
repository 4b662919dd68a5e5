package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/yourusername/touchline/internal/models"
)

// BacktestReportRepository defines the interface for backtest report storage
type BacktestReportRepository interface {
	SaveReport(ctx context.Context, report *models.BacktestReport) error
	GetReport(ctx context.Context, id uuid.UUID) (*models.BacktestReport, error)
	GetByStrategy(ctx context.Context, kind string, limit int) ([]*models.BacktestSummary, error)
	GetLatest(ctx context.Context, limit int) ([]*models.BacktestSummary, error)
}
