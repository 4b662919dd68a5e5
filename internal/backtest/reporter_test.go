package backtest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/touchline/internal/models"
	"github.com/yourusername/touchline/internal/performance"
)

func sampleReport() *models.BacktestReport {
	season2010 := []models.BetRecord{settled(2010, 1), settled(2010, -1), settled(2010, -1)}
	season2011 := []models.BetRecord{settled(2011, 2), settled(2011, -1)}
	season2011[1].Direction = models.DirectionAgainst
	season2011[1].BetTeam = "Chelsea"

	all := append(append([]models.BetRecord{}, season2010...), season2011...)
	return &models.BacktestReport{
		Kind:        "top_bottom",
		Strategy:    "Top 3 teams FOR + Bottom 3 teams AGAINST",
		League:      "premier_league",
		StartSeason: 2010,
		EndSeason:   2011,
		RunDate:     time.Date(2024, time.May, 1, 9, 30, 0, 0, time.UTC),
		SeasonResults: []models.SeasonResult{
			{Season: 2010, Metrics: performance.SplitByDirection(season2010), TopTeams: []string{"Arsenal", "Chelsea"}, BottomTeams: []string{"Wigan"}},
			{Season: 2011, Metrics: performance.SplitByDirection(season2011)},
		},
		Skipped:    []models.SkippedSeason{{Season: 2012, Kind: models.KindMissingOdds, Reason: "Missing odds columns for season 2012"}},
		BetDetails: all,
		Metrics:    performance.SplitByDirection(all),
	}
}

func TestReporterSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf).Summary(sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "Strategy: Top 3 teams FOR + Bottom 3 teams AGAINST")
	assert.Contains(t, out, "Seasons: 2010-2011 (2 tested, 1 skipped)")
	assert.Contains(t, out, "Profitable seasons: 1/2 (50.0%)")
	assert.Contains(t, out, "Skipped 2012 (missing_odds)")
	assert.Contains(t, out, "AGAINST:")
}

func TestReporterYearlyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf).YearlyTable(sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "Season")
	assert.Contains(t, out, "2010-11")
	assert.Contains(t, out, "2011-12")
	assert.Contains(t, out, "Arsenal, Chelsea")
	assert.Contains(t, out, "-33.3%")
}

func TestReporterTeamTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf).TeamTable(sampleReport(), 1))

	out := buf.String()
	assert.Contains(t, out, "Arsenal")
	assert.NotContains(t, out, "Chelsea")
}

func TestReporterSweepOrdersByN(t *testing.T) {
	r := sampleReport()
	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf).Sweep(map[string]*models.BacktestReport{"n_10": r, "n_3": r}))

	out := buf.String()
	assert.Less(t, bytes.Index([]byte(out), []byte("\n3 ")), bytes.Index([]byte(out), []byte("\n10 ")))
}

func TestReporterComparisonAndRanking(t *testing.T) {
	r := sampleReport()
	var buf bytes.Buffer
	rep := NewReporter(&buf)

	require.NoError(t, rep.Comparison(&models.StrategyComparison{
		TopN:       3,
		ForOnly:    r,
		Enhanced:   r,
		Comparison: models.ComparisonDelta{AdditionalBets: 4, ROIChange: 1.5},
	}))
	require.NoError(t, rep.Ranking([]RankedReport{{Rank: 1, Kind: "top_bottom", Report: r}}))

	out := buf.String()
	assert.Contains(t, out, "Top 3 comparison")
	assert.Contains(t, out, "Additional bets: +4")
	assert.Contains(t, out, "ROI change: +1.50 pts")
	assert.Contains(t, out, "Top 3 teams FOR + Bottom 3 teams AGAINST")
}

func TestExportBetsCSV(t *testing.T) {
	report := sampleReport()
	path := filepath.Join(t.TempDir(), "out", ReportFilename(report, "csv"))

	require.NoError(t, ExportBetsCSV(path, report.BetDetails))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, len(report.BetDetails)+1)
	assert.Equal(t, "season", rows[0][0])
	assert.Equal(t, "2010", rows[1][0])
	assert.Equal(t, "2010-09-01", rows[1][1])
	assert.Equal(t, "AGAINST", rows[5][5])
	assert.Equal(t, "-1.00", rows[5][12])
}

func TestWriteJSON(t *testing.T) {
	report := sampleReport()
	path := filepath.Join(t.TempDir(), ReportFilename(report, "json"))
	assert.Equal(t, "top_bottom_2010_2011_20240501T093000.json", filepath.Base(path))

	require.NoError(t, WriteJSON(path, report))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded models.BacktestReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.Metrics, decoded.Metrics)
	assert.Len(t, decoded.BetDetails, 5)
}
