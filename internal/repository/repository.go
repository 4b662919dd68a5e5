// Package repository persists backtest reports to PostgreSQL.
package repository

import (
	"fmt"

	"github.com/yourusername/touchline/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	BacktestReport BacktestReportRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		BacktestReport: NewPostgresBacktestReportRepository(db),
	}, nil
}
