package backtest

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/touchline/internal/models"
)

func settled(season int, profit float64) models.BetRecord {
	won := profit > 0
	winnings := 0.0
	if won {
		winnings = profit + models.UnitStake
	}
	return models.BetRecord{
		Season:    season,
		Date:      time.Date(season, time.September, 1, 0, 0, 0, 0, time.UTC),
		HomeTeam:  "Arsenal",
		AwayTeam:  "Chelsea",
		BetTeam:   "Arsenal",
		Direction: models.DirectionFor,
		Odds:      winnings,
		Stake:     models.UnitStake,
		Won:       won,
		Winnings:  winnings,
		Profit:    profit,
	}
}

func TestBuildEquityCurve(t *testing.T) {
	bets := []models.BetRecord{settled(2010, 1), settled(2010, -1), settled(2010, -1), settled(2011, 2), settled(2011, -1)}

	curve := BuildEquityCurve(bets)
	require.Len(t, curve, 5)
	assert.Equal(t, []float64{1, 0, -1, 1, 0}, []float64{curve[0].Value, curve[1].Value, curve[2].Value, curve[3].Value, curve[4].Value})
	assert.Equal(t, 2.0, curve.MaxDrawdown())
	assert.Equal(t, 0.0, curve.Final())
	assert.Equal(t, 2011, curve[3].Season)
	assert.Positive(t, curve.GetVolatility())

	var buf bytes.Buffer
	require.NoError(t, curve.WriteCSV(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 6)
	assert.Equal(t, "time,season,value,drawdown,bet_pnl", lines[0])
}

func TestBuildEquityCurve_Empty(t *testing.T) {
	curve := BuildEquityCurve(nil)
	assert.Empty(t, curve)
	assert.Equal(t, 0.0, curve.MaxDrawdown())
	assert.Equal(t, 0.0, curve.Final())
	assert.Equal(t, 0.0, curve.GetVolatility())
}

func TestCalculateRisk(t *testing.T) {
	bets := []models.BetRecord{settled(2010, 1), settled(2010, -1), settled(2010, -1), settled(2011, 2), settled(2011, -1)}
	report := &models.BacktestReport{
		BetDetails: bets,
		SeasonResults: []models.SeasonResult{
			{Season: 2010, Metrics: models.DirectionalMetrics{Overall: models.PerformanceMetrics{ProfitLoss: -1}}},
			{Season: 2011, Metrics: models.DirectionalMetrics{Overall: models.PerformanceMetrics{ProfitLoss: 1}}},
		},
	}

	risk := CalculateRisk(report)
	assert.Equal(t, 2.0, risk.MaxDrawdown)
	assert.Equal(t, 1.0, risk.ProfitFactor)
	assert.Equal(t, 0.0, risk.Expectancy)
	assert.Equal(t, 2.0, risk.LargestWin)
	assert.Equal(t, 2, risk.LongestLosingStreak)
	assert.Equal(t, 1, risk.ProfitableSeasons)
	assert.Equal(t, 2, risk.SeasonsTested)
	assert.Equal(t, 50.0, risk.ProfitableShare())
}

func TestCalculateRisk_NoLosses(t *testing.T) {
	risk := CalculateRisk(&models.BacktestReport{BetDetails: []models.BetRecord{settled(2010, 0.5)}})
	assert.Equal(t, float64(profitFactorCap), risk.ProfitFactor)
	assert.Equal(t, 0.0, risk.ProfitableShare())

	assert.Equal(t, RiskMetrics{}, CalculateRisk(nil))
}
