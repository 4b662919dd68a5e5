//go:build e2e

package e2e

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/touchline/internal/advisor"
	"github.com/yourusername/touchline/internal/analytics"
	"github.com/yourusername/touchline/internal/backtest"
	"github.com/yourusername/touchline/internal/config"
	"github.com/yourusername/touchline/internal/datasource"
	"github.com/yourusername/touchline/internal/logger"
	"github.com/yourusername/touchline/internal/strategy"
	"github.com/yourusername/touchline/test/helpers"
)

const league = "premier_league"

// writeSeasons lays out two small results files. Every home price in 2010
// is 2.00 and in 2011 is 1.50.
func writeSeasons(t *testing.T, dataDir string) {
	t.Helper()
	dir := filepath.Join(dataDir, league)
	header := helpers.Columns(datasource.OddsColumnsFor(2010, datasource.DefaultOddsProvider))

	helpers.WriteSeasonCSV(t, dir, 2010, header, [][]string{
		{"2010-08-14", "Arsenal", "Chelsea", "2", "0", "H", "2.00", "3.40", "3.80"},
		{"2010-08-14", "Everton", "Fulham", "1", "0", "H", "2.00", "3.20", "4.00"},
		{"2010-08-21", "Chelsea", "Everton", "1", "1", "D", "2.00", "3.30", "3.90"},
		{"2010-08-21", "Fulham", "Arsenal", "0", "3", "A", "2.00", "3.50", "3.60"},
	})
	helpers.WriteSeasonCSV(t, dir, 2011, header, [][]string{
		{"2011-08-13", "Arsenal", "Fulham", "1", "0", "H", "1.50", "4.00", "6.00"},
		{"2011-08-13", "Chelsea", "Everton", "2", "1", "H", "1.50", "4.00", "6.00"},
		{"2011-08-20", "Everton", "Arsenal", "3", "2", "H", "1.50", "4.00", "6.00"},
		{"2011-08-20", "Fulham", "Chelsea", "0", "1", "A", "1.50", "4.00", "6.00"},
	})
}

func newSource(t *testing.T, dataDir string) datasource.SeasonSource {
	t.Helper()
	src, err := datasource.NewSeasonSource(datasource.Options{
		DataDir:      dataDir,
		League:       league,
		CacheEnabled: true,
		CacheTTL:     time.Minute,
		CacheSize:    8,
	})
	require.NoError(t, err)
	return src
}

func TestHomeAwayBacktestFromCSV(t *testing.T) {
	dataDir := t.TempDir()
	writeSeasons(t, dataDir)
	src := newSource(t, dataDir)

	runner, err := backtest.NewRunner(
		strategy.Deps{Source: src, Logger: logger.Discard()},
		strategy.DefaultParams(),
		backtest.Config{TopNValues: backtest.DefaultTopNValues, OutputDir: filepath.Join(dataDir, "out")},
		nil,
		logger.Discard(),
	)
	require.NoError(t, err)

	report, err := runner.RunSingle(context.Background(), strategy.KindHomeAway, 2010, 2011)
	require.NoError(t, err)

	assert.Equal(t, []int{2010, 2011}, report.SeasonsTested())
	assert.Equal(t, 8, report.Metrics.Overall.TotalBets)
	assert.Equal(t, 5, report.Metrics.Overall.WinningBets)
	assert.InDelta(t, 0.5, report.Metrics.Overall.ProfitLoss, 1e-9)
	assert.InDelta(t, 6.25, report.Metrics.Overall.ROI, 1e-9)
	assert.Equal(t, 0, report.Metrics.Against.TotalBets)

	assert.InDelta(t, 0.0, report.SeasonResults[0].Metrics.Overall.ROI, 1e-9)
	assert.InDelta(t, 12.5, report.SeasonResults[1].Metrics.Overall.ROI, 1e-9)

	csvPath := filepath.Join(dataDir, "out", backtest.ReportFilename(report, "csv"))
	require.NoError(t, backtest.ExportBetsCSV(csvPath, report.BetDetails))
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 9)
}

func TestLeagueTableFromCSV(t *testing.T) {
	dataDir := t.TempDir()
	writeSeasons(t, dataDir)

	table, err := analytics.NewCalculator(newSource(t, dataDir)).LeagueTable(context.Background(), 2010)
	require.NoError(t, err)

	require.Equal(t, 4, table.Len())
	top := table.Top(1)[0]
	assert.Equal(t, "Arsenal", top.Team)
	assert.Equal(t, 6, top.Points)
	assert.Equal(t, 5, top.GoalDifference)
}

func TestPredictNextRoundFromCSV(t *testing.T) {
	dataDir := t.TempDir()
	writeSeasons(t, dataDir)

	fixtures := "Round Number,Date,Location,Home Team,Away Team,Result\n" +
		"1,13/08/2011 15:00,Emirates,Arsenal,Fulham,1 - 0\n" +
		"3,27/08/2011 15:00,Stamford Bridge,Chelsea,Arsenal,\n" +
		"3,26/08/2011 19:45,Goodison Park,Everton,Fulham,\n" +
		"4,10/09/2011 15:00,Craven Cottage,Fulham,Everton,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, league, "upcoming_11.csv"), []byte(fixtures), 0o644))

	src := newSource(t, dataDir)
	adv, err := advisor.New(config.AdvisorConfig{Mode: advisor.ModeWaterfall}, advisor.Deps{Source: src})
	require.NoError(t, err)
	fixtureSource, err := datasource.NewFixtureSource(dataDir, league)
	require.NoError(t, err)
	predictor, err := advisor.NewNextRoundPredictor(fixtureSource, adv, league, logger.Discard())
	require.NoError(t, err)

	prediction, err := predictor.Predict(context.Background(), 2011, time.Date(2011, 8, 21, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 3, prediction.Round)
	require.Len(t, prediction.Recommendations, 2)
	assert.Equal(t, "Everton", prediction.Recommendations[0].HomeTeam)
	assert.Equal(t, 2, prediction.Summary.TotalGames)
	for _, rec := range prediction.Recommendations {
		assert.NotEmpty(t, rec.Reason)
	}
}
