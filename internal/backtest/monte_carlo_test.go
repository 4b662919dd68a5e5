package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/touchline/internal/models"
)

func TestBootstrapDeterministic(t *testing.T) {
	bets := []models.BetRecord{settled(2010, 1), settled(2010, -1), settled(2010, -1), settled(2011, 2)}

	a, err := Bootstrap(bets, BootstrapConfig{Iterations: 500, Seed: 42})
	require.NoError(t, err)
	b, err := Bootstrap(bets, BootstrapConfig{Iterations: 500, Seed: 42})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, 500, a.Iterations)
	require.Contains(t, a.ConfidenceIntervals, "95%")
	ci := a.ConfidenceIntervals["95%"]
	assert.LessOrEqual(t, ci[0], ci[1])
	assert.GreaterOrEqual(t, a.ProbabilityOfProfit, 0.0)
	assert.LessOrEqual(t, a.ProbabilityOfProfit, 1.0)
}

func TestBootstrapAllWinners(t *testing.T) {
	bets := []models.BetRecord{settled(2010, 1), settled(2010, 1)}

	result, err := Bootstrap(bets, BootstrapConfig{Seed: 7})
	require.NoError(t, err)
	assert.Equal(t, 1000, result.Iterations)
	assert.Equal(t, 100.0, result.MeanROI)
	assert.Equal(t, 0.0, result.StdROI)
	assert.Equal(t, 1.0, result.ProbabilityOfProfit)
	assert.Equal(t, [2]float64{100, 100}, result.ConfidenceIntervals["90%"])
}

func TestBootstrapNoBets(t *testing.T) {
	_, err := Bootstrap(nil, BootstrapConfig{})
	assert.Error(t, err)
}
