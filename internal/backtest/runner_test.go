package backtest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/touchline/internal/config"
	"github.com/yourusername/touchline/internal/datasource"
	"github.com/yourusername/touchline/internal/models"
	"github.com/yourusername/touchline/internal/repository"
	"github.com/yourusername/touchline/internal/strategy"
	"github.com/yourusername/touchline/test/helpers"
)

var legacyCols = datasource.OddsColumnsFor(2010, datasource.DefaultOddsProvider)

// fakeStore records saved reports
type fakeStore struct {
	saved []*models.BacktestReport
	err   error
}

func (f *fakeStore) SaveReport(_ context.Context, report *models.BacktestReport) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, report)
	return nil
}

func (f *fakeStore) GetReport(_ context.Context, id uuid.UUID) (*models.BacktestReport, error) {
	for _, r := range f.saved {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeStore) GetByStrategy(context.Context, string, int) ([]*models.BacktestSummary, error) {
	return nil, nil
}

func (f *fakeStore) GetLatest(context.Context, int) ([]*models.BacktestSummary, error) {
	return nil, nil
}

// rankedSeason builds a 20-team season starting in August of year where
// T<i> beats every T<j> with j > i at home
func rankedSeason(year int) []models.Match {
	var matches []models.Match
	day := helpers.Day(year, time.August, 1)
	for i := 1; i <= 20; i++ {
		for j := i + 1; j <= 20; j++ {
			m := helpers.Result(day, fmt.Sprintf("T%d", i), fmt.Sprintf("T%d", j), 1, 0)
			matches = append(matches, helpers.WithOdds(m, legacyCols, 2, 3, 4))
			day = day.Add(24 * time.Hour)
		}
	}
	return matches
}

func rankedSource() *helpers.MemorySeasonSource {
	src := helpers.NewMemorySeasonSource("premier_league")
	for _, year := range []int{2009, 2010, 2011} {
		src.Add(year, helpers.Columns(legacyCols), rankedSeason(year)...)
	}
	return src
}

func newTestRunner(t *testing.T, src datasource.SeasonSource, cfg Config, store repository.BacktestReportRepository) *Runner {
	t.Helper()
	r, err := NewRunner(strategy.Deps{Source: src}, strategy.DefaultParams(), cfg, store, nil)
	require.NoError(t, err)
	return r
}

func TestNewRunner_Validation(t *testing.T) {
	src := rankedSource()

	_, err := NewRunner(strategy.Deps{}, strategy.DefaultParams(), Config{}, nil, nil)
	assert.Error(t, err)

	_, err = NewRunner(strategy.Deps{Source: src}, strategy.DefaultParams(), Config{Persist: true}, nil, nil)
	assert.Error(t, err)

	_, err = NewRunner(strategy.Deps{Source: src}, strategy.DefaultParams(), Config{StartSeason: 2012, EndSeason: 2010}, nil, nil)
	assert.Error(t, err)

	params := strategy.DefaultParams()
	params.OddsProvider = ""
	_, err = NewRunner(strategy.Deps{Source: src}, params, Config{}, nil, nil)
	assert.Error(t, err)
}

func TestRunSingle_HomeAway(t *testing.T) {
	r := newTestRunner(t, rankedSource(), Config{}, nil)

	report, err := r.RunSingle(context.Background(), strategy.KindHomeAway, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, "home_away", report.Kind)
	assert.Equal(t, 2009, report.StartSeason)
	assert.Equal(t, 2011, report.EndSeason)
	assert.Equal(t, []int{2009, 2010, 2011}, report.SeasonsTested())
	assert.Equal(t, 3*190, report.Metrics.Overall.TotalBets)
	assert.Equal(t, 100.0, report.Metrics.Overall.ROI)
	assert.Equal(t, HashParameters(report.Parameters), report.ParameterHash)
	assert.NotEmpty(t, report.ParameterHash)
}

func TestRunSingle_UsesConfiguredRange(t *testing.T) {
	r := newTestRunner(t, rankedSource(), Config{StartSeason: 2010, EndSeason: 2010}, nil)

	report, err := r.RunSingle(context.Background(), strategy.KindHomeAway, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{2010}, report.SeasonsTested())
}

func TestRunSingle_Persists(t *testing.T) {
	store := &fakeStore{}
	r := newTestRunner(t, rankedSource(), Config{Persist: true}, store)

	report, err := r.RunSingle(context.Background(), strategy.KindHomeAway, 2010, 2011)
	require.NoError(t, err)
	require.Len(t, store.saved, 1)
	assert.Equal(t, report.ID, store.saved[0].ID)
}

func TestRunSingle_PersistFailureKeepsReport(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	r := newTestRunner(t, rankedSource(), Config{Persist: true}, store)

	report, err := r.RunSingle(context.Background(), strategy.KindHomeAway, 2010, 2011)
	require.NoError(t, err)
	assert.NotNil(t, report)
	assert.Empty(t, store.saved)
}

func TestRunSingle_NoSuccessfulSeasons(t *testing.T) {
	src := helpers.NewMemorySeasonSource("premier_league")
	src.Add(2010, helpers.Columns(), helpers.Result(helpers.Day(2010, time.August, 14), "A", "B", 1, 0))

	r := newTestRunner(t, src, Config{}, nil)
	_, err := r.RunSingle(context.Background(), strategy.KindHomeAway, 0, 0)
	assert.ErrorIs(t, err, models.ErrNoSuccessfulRuns)
}

func TestRunMultiple_KeysByTopN(t *testing.T) {
	r := newTestRunner(t, rankedSource(), Config{}, nil)

	results, err := r.RunMultiple(context.Background(), []int{2, 3, 11}, 0, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Contains(t, results, "n_2")
	require.Contains(t, results, "n_3")

	assert.Equal(t, 2, results["n_2"].Parameters["top_n"])
	assert.Equal(t, 3, results["n_3"].Parameters["top_n"])
	assert.NotEqual(t, results["n_2"].ParameterHash, results["n_3"].ParameterHash)
	assert.Equal(t, []int{2010, 2011}, results["n_3"].SeasonsTested())
}

func TestRunMultiple_DefaultsToConfiguredValues(t *testing.T) {
	r := newTestRunner(t, rankedSource(), Config{TopNValues: []int{4}}, nil)

	results, err := r.RunMultiple(context.Background(), nil, 0, 0)
	require.NoError(t, err)
	assert.Contains(t, results, "n_4")
}

func TestRunMultiple_AllFail(t *testing.T) {
	r := newTestRunner(t, rankedSource(), Config{}, nil)

	_, err := r.RunMultiple(context.Background(), []int{0, 11}, 0, 0)
	assert.ErrorIs(t, err, models.ErrNoSuccessfulRuns)
}

func TestCompare(t *testing.T) {
	r := newTestRunner(t, rankedSource(), Config{}, nil)

	cmp, err := r.Compare(context.Background(), 3, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 3, cmp.TopN)
	assert.Equal(t, false, cmp.ForOnly.Parameters["include_against_bottom"])
	assert.Equal(t, true, cmp.Enhanced.Parameters["include_against_bottom"])
	assert.Equal(t, 0, cmp.ForOnly.Metrics.Against.TotalBets)
	assert.Positive(t, cmp.Enhanced.Metrics.Against.TotalBets)

	base, full := cmp.ForOnly.Metrics.Overall, cmp.Enhanced.Metrics.Overall
	assert.Equal(t, full.TotalBets-base.TotalBets, cmp.Comparison.AdditionalBets)
	assert.InDelta(t, full.ROI-base.ROI, cmp.Comparison.ROIChange, 0.01)
	assert.InDelta(t, full.WinRate-base.WinRate, cmp.Comparison.WinRateChange, 0.01)
	assert.InDelta(t, full.ProfitLoss-base.ProfitLoss, cmp.Comparison.ProfitChange, 0.01)
}

func TestRunAll_RanksByROI(t *testing.T) {
	r := newTestRunner(t, rankedSource(), Config{}, nil)

	ranked, err := r.RunAll(context.Background(), 0, 0)
	require.NoError(t, err)
	require.NotEmpty(t, ranked)

	var sawHomeAway bool
	for i, rr := range ranked {
		assert.Equal(t, i+1, rr.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, ranked[i-1].Report.Metrics.Overall.ROI, rr.Report.Metrics.Overall.ROI)
		}
		if rr.Kind == strategy.KindHomeAway {
			sawHomeAway = true
			assert.Equal(t, 100.0, rr.Report.Metrics.Overall.ROI)
		}
	}
	assert.True(t, sawHomeAway)
}

func TestRunAll_Cancelled(t *testing.T) {
	r := newTestRunner(t, rankedSource(), Config{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.RunAll(ctx, 0, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDelta(t *testing.T) {
	base := models.PerformanceMetrics{TotalBets: 10, WinRate: 40, ROI: -5.5, ProfitLoss: -0.55}
	enhanced := models.PerformanceMetrics{TotalBets: 16, WinRate: 50, ROI: 2.25, ProfitLoss: 0.36}

	d := Delta(base, enhanced)
	assert.Equal(t, 6, d.AdditionalBets)
	assert.Equal(t, 10.0, d.WinRateChange)
	assert.Equal(t, 7.75, d.ROIChange)
	assert.Equal(t, 0.91, d.ProfitChange)
}

func TestHashParametersIsStable(t *testing.T) {
	a := HashParameters(map[string]interface{}{"top_n": 3, "odds_provider": "bet365"})
	b := HashParameters(map[string]interface{}{"odds_provider": "bet365", "top_n": 3})
	c := HashParameters(map[string]interface{}{"odds_provider": "bet365", "top_n": 4})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestFromConfig(t *testing.T) {
	_, err := FromConfig(nil)
	assert.Error(t, err)

	cfg, err := FromConfig(&config.BacktestConfig{StartSeason: 2010, EndSeason: 2015})
	require.NoError(t, err)
	assert.Equal(t, DefaultTopNValues, cfg.TopNValues)

	_, err = FromConfig(&config.BacktestConfig{TopNValues: []int{12}})
	assert.Error(t, err)
}
