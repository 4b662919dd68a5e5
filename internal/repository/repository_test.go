package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/touchline/internal/database"
	"github.com/yourusername/touchline/internal/models"
)

func sampleReport() *models.BacktestReport {
	return &models.BacktestReport{
		ID:            uuid.New(),
		Kind:          "home_away",
		Strategy:      "Home team to win all games",
		League:        "premier_league",
		Parameters:    map[string]interface{}{"odds_provider": "bet365"},
		ParameterHash: "abc123",
		StartSeason:   2015,
		EndSeason:     2016,
		RunDate:       time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC),
		SeasonResults: []models.SeasonResult{{Season: 2015}, {Season: 2016}},
		Metrics: models.DirectionalMetrics{
			Overall: models.PerformanceMetrics{TotalBets: 760, WinningBets: 350, WinRate: 46.05, TotalStake: 760, ProfitLoss: -31.4, ROI: -4.13},
		},
	}
}

func TestNewRepositoriesRequiresDB(t *testing.T) {
	_, err := NewRepositories(nil)
	assert.Error(t, err)
}

func TestReportEncodingRoundTrip(t *testing.T) {
	report := sampleReport()

	params, full, err := encodeReport(report)
	require.NoError(t, err)
	assert.JSONEq(t, `{"odds_provider":"bet365"}`, string(params))

	decoded, err := decodeReport(full)
	require.NoError(t, err)
	assert.Equal(t, report.ID, decoded.ID)
	assert.Equal(t, report.Summary(), decoded.Summary())
}

func TestEncodeReportRequiresReport(t *testing.T) {
	_, _, err := encodeReport(nil)
	assert.Error(t, err)
}

// TestBacktestReportRepository exercises the Postgres repository
func TestBacktestReportRepository(t *testing.T) {
	db := database.SetupTestDB(t)

	repos, err := NewRepositories(db)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	report := sampleReport()
	require.NoError(t, repos.BacktestReport.SaveReport(ctx, report))

	loaded, err := repos.BacktestReport.GetReport(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Strategy, loaded.Strategy)

	summaries, err := repos.BacktestReport.GetByStrategy(ctx, "home_away", 10)
	require.NoError(t, err)
	require.NotEmpty(t, summaries)
	assert.Equal(t, report.ID, summaries[0].ID)
	assert.Equal(t, 2, summaries[0].SeasonsTested)

	_, err = repos.BacktestReport.GetReport(ctx, uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}
