package strategy

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/touchline/internal/config"
	"github.com/yourusername/touchline/internal/datasource"
	"github.com/yourusername/touchline/internal/models"
	"github.com/yourusername/touchline/test/helpers"
)

// legacyCols are the price columns for seasons 2002-2018
var legacyCols = datasource.OddsColumnsFor(2010, datasource.DefaultOddsProvider)

func newStrategy(t *testing.T, kind Kind, src datasource.SeasonSource, mutate func(*Params)) Strategy {
	t.Helper()
	params := DefaultParams()
	if mutate != nil {
		mutate(&params)
	}
	s, err := New(kind, Deps{Source: src}, params)
	require.NoError(t, err)
	return s
}

func priced(m models.Match, home, draw, away float64) models.Match {
	return helpers.WithOdds(m, legacyCols, home, draw, away)
}

// rankedSeason builds a 20-team season where team T<i> finishes i-th
func rankedSeason() []models.Match {
	var matches []models.Match
	day := helpers.Day(2009, time.August, 1)
	for i := 1; i <= 20; i++ {
		for j := i + 1; j <= 20; j++ {
			m := helpers.Result(day, fmt.Sprintf("T%d", i), fmt.Sprintf("T%d", j), 1, 0)
			matches = append(matches, priced(m, 2, 3, 4))
			day = day.Add(24 * time.Hour)
		}
	}
	return matches
}

func betsFor(bets []models.BetRecord, home, away string) []models.BetRecord {
	var out []models.BetRecord
	for _, b := range bets {
		if b.HomeTeam == home && b.AwayTeam == away {
			out = append(out, b)
		}
	}
	return out
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Top-Bottom")
	require.NoError(t, err)
	assert.Equal(t, KindTopBottom, k)

	_, err = ParseKind("martingale")
	assert.ErrorIs(t, err, models.ErrUnknownStrategy)
}

func TestParamsFromConfig(t *testing.T) {
	assert.Equal(t, DefaultParams(), ParamsFromConfig(nil))

	cfg := &config.Config{}
	cfg.Data.OddsProvider = "pinnacle"
	cfg.Strategies.TopBottom = config.TopBottomConfig{TopN: 5}
	cfg.Strategies.Form = config.FormConfig{FormGames: 6, FormThreshold: 0.7, PoorFormThreshold: 0.2}
	cfg.Strategies.Momentum = config.MomentumConfig{Lookback: 8, WinningThreshold: 0.3, LosingThreshold: -0.3}

	params := ParamsFromConfig(cfg)
	assert.Equal(t, "pinnacle", params.OddsProvider)
	assert.Equal(t, 5, params.TopBottom.TopN)
	assert.False(t, params.TopBottom.IncludeAgainstBottom)
	assert.Equal(t, 6, params.Form.FormGames)
	assert.Equal(t, 8, params.Momentum.Lookback)
	assert.False(t, params.Momentum.BetAgainstLosingMomentum)
	require.NoError(t, ValidateParams(params))
}

func TestNew_RejectsInvalidParams(t *testing.T) {
	src := helpers.NewMemorySeasonSource("premier_league")

	params := DefaultParams()
	params.Form.FormGames = 0
	_, err := New(KindForm, Deps{Source: src}, params)
	assert.Error(t, err)

	params = DefaultParams()
	params.Form.PoorFormThreshold = 0.7
	_, err = New(KindForm, Deps{Source: src}, params)
	assert.Error(t, err)

	_, err = New(KindHomeAway, Deps{}, DefaultParams())
	assert.Error(t, err)

	_, err = New(Kind("martingale"), Deps{Source: src}, DefaultParams())
	assert.ErrorIs(t, err, models.ErrUnknownStrategy)
}

func TestHomeAway_EndToEnd(t *testing.T) {
	src := helpers.NewMemorySeasonSource("premier_league")
	src.Add(2010, helpers.Columns(legacyCols),
		priced(helpers.Result(helpers.Day(2010, time.August, 14), "TeamA", "TeamB", 2, 0), 1.5, 3.5, 6.0),
		priced(helpers.Result(helpers.Day(2010, time.August, 21), "TeamB", "TeamC", 1, 1), 2.0, 3.2, 3.8),
		priced(helpers.Result(helpers.Day(2010, time.August, 28), "TeamC", "TeamA", 0, 1), 3.0, 3.3, 2.4),
	)

	s := newStrategy(t, KindHomeAway, src, nil)
	result, err := s.AnalyzeSeason(context.Background(), 2010)
	require.NoError(t, err)
	require.Len(t, result.BetDetails, 3)

	for _, b := range result.BetDetails {
		assert.Equal(t, b.HomeTeam, b.BetTeam)
		assert.Equal(t, BetTypeHomeWin, b.BetType)
		assert.Equal(t, models.UnitStake, b.Stake)
	}
	assert.True(t, result.BetDetails[0].Won)
	assert.InDelta(t, 0.5, result.BetDetails[0].Profit, 1e-9)
	assert.False(t, result.BetDetails[1].Won)
	assert.Equal(t, 0.0, result.BetDetails[1].Winnings)
	assert.False(t, result.BetDetails[2].Won)
	assert.Equal(t, -1.0, result.BetDetails[2].Profit)

	m := result.Metrics.Overall
	assert.Equal(t, 3, m.TotalBets)
	assert.Equal(t, 1, m.WinningBets)
	assert.Equal(t, 3.0, m.TotalStake)
	assert.Equal(t, 1.5, m.TotalWinnings)
	assert.Equal(t, -1.5, m.ProfitLoss)
	assert.Equal(t, -50.0, m.ROI)
	assert.Equal(t, 0, result.Metrics.Against.TotalBets)
}

func TestAnalyzeSeason_MissingOddsColumns(t *testing.T) {
	src := helpers.NewMemorySeasonSource("premier_league")
	src.Add(2010, helpers.Columns(), helpers.Result(helpers.Day(2010, time.August, 14), "A", "B", 1, 0))

	s := newStrategy(t, KindHomeAway, src, nil)
	_, err := s.AnalyzeSeason(context.Background(), 2010)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindMissingOdds))
	assert.Contains(t, err.Error(), "Missing odds columns for season 2010")
	assert.Contains(t, err.Error(), "B365H")
}

func TestAnalyzeSeason_NoBets(t *testing.T) {
	src := helpers.NewMemorySeasonSource("premier_league")
	// Result present but no prices on the row.
	src.Add(2010, helpers.Columns(legacyCols), helpers.Result(helpers.Day(2010, time.August, 14), "A", "B", 1, 0))

	s := newStrategy(t, KindHomeAway, src, nil)
	_, err := s.AnalyzeSeason(context.Background(), 2010)
	assert.True(t, models.IsKind(err, models.KindNoBets))
	assert.EqualError(t, err, "No valid bets found for season 2010")
}

func TestTopBottom_Precedence(t *testing.T) {
	src := helpers.NewMemorySeasonSource("premier_league")
	src.Add(2009, helpers.Columns(legacyCols), rankedSeason()...)

	day := helpers.Day(2010, time.August, 14)
	src.Add(2010, helpers.Columns(legacyCols),
		priced(helpers.Result(day, "T1", "T16", 2, 0), 1.3, 5.0, 9.0),
		priced(helpers.Result(day, "T19", "T1", 0, 0), 8.0, 4.5, 1.4),
		priced(helpers.Result(day, "T2", "T1", 1, 2), 2.6, 3.4, 2.7),
		priced(helpers.Result(day, "T15", "T16", 0, 0), 2.2, 3.1, 3.4),
		priced(helpers.Result(day, "T10", "T17", 3, 1), 2.0, 3.3, 3.9),
		priced(helpers.Result(day, "T8", "T9", 1, 0), 2.5, 3.2, 2.9),
	)

	s := newStrategy(t, KindTopBottom, src, nil)
	result, err := s.AnalyzeSeason(context.Background(), 2010)
	require.NoError(t, err)

	assert.Equal(t, []string{"T1", "T2", "T3"}, result.TopTeams)
	assert.Equal(t, []string{"T15", "T16", "T17"}, result.BottomTeams)
	assert.Equal(t, 2009, result.PreviousSeason)

	t.Run("top vs bottom backs the top team only", func(t *testing.T) {
		bets := betsFor(result.BetDetails, "T1", "T16")
		require.Len(t, bets, 1)
		assert.Equal(t, "T1", bets[0].BetTeam)
		assert.Equal(t, models.DirectionFor, bets[0].Direction)
		assert.True(t, bets[0].Won)
	})

	t.Run("rank 19 is outside the bottom window", func(t *testing.T) {
		bets := betsFor(result.BetDetails, "T19", "T1")
		require.Len(t, bets, 1)
		assert.Equal(t, "T1", bets[0].BetTeam)
		assert.Equal(t, models.DirectionFor, bets[0].Direction)
		assert.False(t, bets[0].Won)
	})

	t.Run("top vs top backs the higher ranked team", func(t *testing.T) {
		bets := betsFor(result.BetDetails, "T2", "T1")
		require.Len(t, bets, 1)
		assert.Equal(t, "T1", bets[0].BetTeam)
		assert.Equal(t, 2.7, bets[0].Odds)
	})

	t.Run("bottom vs bottom opposes the higher ranked team", func(t *testing.T) {
		bets := betsFor(result.BetDetails, "T15", "T16")
		require.Len(t, bets, 1)
		assert.Equal(t, "T15", bets[0].BetTeam)
		assert.Equal(t, models.DirectionAgainst, bets[0].Direction)
		assert.Equal(t, 3.4, bets[0].Odds)
		assert.True(t, bets[0].Won)
		assert.Equal(t, 3.4, bets[0].Winnings)
	})

	t.Run("other matches bet each leg independently", func(t *testing.T) {
		bets := betsFor(result.BetDetails, "T10", "T17")
		require.Len(t, bets, 1)
		assert.Equal(t, "T17", bets[0].BetTeam)
		assert.Equal(t, models.DirectionAgainst, bets[0].Direction)
		assert.Equal(t, 3.3, bets[0].Odds)
		assert.True(t, bets[0].Won)

		assert.Empty(t, betsFor(result.BetDetails, "T8", "T9"))
	})

	assert.Equal(t, 3, result.Metrics.For.TotalBets)
	assert.Equal(t, 2, result.Metrics.Against.TotalBets)
	assert.Equal(t, 5, result.Metrics.Overall.TotalBets)
}

func TestTopBottom_ForOnly(t *testing.T) {
	src := helpers.NewMemorySeasonSource("premier_league")
	src.Add(2009, helpers.Columns(legacyCols), rankedSeason()...)
	src.Add(2010, helpers.Columns(legacyCols),
		priced(helpers.Result(helpers.Day(2010, time.August, 14), "T15", "T16", 0, 0), 2.2, 3.1, 3.4))

	s := newStrategy(t, KindTopBottom, src, func(p *Params) { p.TopBottom.IncludeAgainstBottom = false })
	assert.Equal(t, "Top 3 teams FOR only", s.Name())

	_, err := s.AnalyzeSeason(context.Background(), 2010)
	assert.True(t, models.IsKind(err, models.KindNoBets))
}

func TestTopBottom_MissingPreviousSeason(t *testing.T) {
	src := helpers.NewMemorySeasonSource("premier_league")
	src.Add(2010, helpers.Columns(legacyCols), rankedSeason()...)

	s := newStrategy(t, KindTopBottom, src, nil)
	_, err := s.AnalyzeSeason(context.Background(), 2010)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindMissingData))
	assert.Contains(t, err.Error(), "Previous season 2009 data not found")
}

func TestTopBottom_SeasonsSkipEarliest(t *testing.T) {
	src := helpers.NewMemorySeasonSource("premier_league")
	for _, y := range []int{2008, 2009, 2010} {
		src.Add(y, helpers.Columns(legacyCols))
	}

	s := newStrategy(t, KindTopBottom, src, nil)
	seasons, err := s.Seasons(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{2009, 2010}, seasons)

	seasons, err = s.Seasons(context.Background(), 2008, 2009)
	require.NoError(t, err)
	assert.Equal(t, []int{2009}, seasons)

	ha := newStrategy(t, KindHomeAway, src, nil)
	seasons, err = ha.Seasons(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{2008, 2009, 2010}, seasons)

	_, err = ha.Seasons(context.Background(), 2015, 2016)
	assert.True(t, models.IsKind(err, models.KindMissingData))
}

// countingSource records how often seasons are listed
type countingSource struct {
	*helpers.MemorySeasonSource
	listed int
}

func (c *countingSource) AvailableSeasons(ctx context.Context) ([]int, error) {
	c.listed++
	return c.MemorySeasonSource.AvailableSeasons(ctx)
}

func TestTopBottom_SeasonsListsOnce(t *testing.T) {
	src := &countingSource{MemorySeasonSource: helpers.NewMemorySeasonSource("premier_league")}
	for _, y := range []int{2012, 2010, 2011} {
		src.Add(y, helpers.Columns(legacyCols))
	}

	s := newStrategy(t, KindTopBottom, src, nil)
	seasons, err := s.Seasons(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{2011, 2012}, seasons)
	assert.Equal(t, 1, src.listed)
}

func TestForm_BetsBothBands(t *testing.T) {
	d := func(day int) time.Time { return helpers.Day(2010, time.August, day) }
	src := helpers.NewMemorySeasonSource("premier_league")
	src.Add(2010, helpers.Columns(legacyCols),
		priced(helpers.Result(d(1), "Hot", "X", 2, 0), 2, 3, 4),
		priced(helpers.Result(d(1), "Cold", "Y", 0, 1), 2, 3, 4),
		priced(helpers.Result(d(8), "Z", "Hot", 0, 3), 2, 3, 4),
		priced(helpers.Result(d(8), "W", "Cold", 2, 2), 2, 3, 4),
		priced(helpers.Result(d(15), "Hot", "Cold", 1, 1), 1.8, 3.6, 4.5),
		priced(helpers.Result(d(15), "Fresh", "Hot", 0, 1), 3.0, 3.2, 2.1),
	)

	s := newStrategy(t, KindForm, src, func(p *Params) { p.Form.FormGames = 2 })
	result, err := s.AnalyzeSeason(context.Background(), 2010)
	require.NoError(t, err)

	bets := betsFor(result.BetDetails, "Hot", "Cold")
	require.Len(t, bets, 2)

	assert.Equal(t, "Hot", bets[0].BetTeam)
	assert.Equal(t, BetTypeFormGood, bets[0].BetType)
	assert.Equal(t, 1.0, bets[0].Signals["form_score"])
	assert.False(t, bets[0].Won)

	// Cold has one point from two games: 1/6 is in the poor band.
	assert.Equal(t, "Cold", bets[1].BetTeam)
	assert.Equal(t, BetTypeFormPoorAgainst, bets[1].BetType)
	assert.Equal(t, models.DirectionAgainst, bets[1].Direction)
	assert.Equal(t, 3.6, bets[1].Odds)
	assert.True(t, bets[1].Won)

	// Fresh has no history so the whole match is skipped.
	assert.Empty(t, betsFor(result.BetDetails, "Fresh", "Hot"))
}

func TestForm_AgainstDisabled(t *testing.T) {
	d := func(day int) time.Time { return helpers.Day(2010, time.August, day) }
	src := helpers.NewMemorySeasonSource("premier_league")
	src.Add(2010, helpers.Columns(legacyCols),
		priced(helpers.Result(d(1), "Hot", "Cold", 2, 0), 2, 3, 4),
		priced(helpers.Result(d(8), "Hot", "Cold", 1, 0), 2, 3, 4),
	)

	s := newStrategy(t, KindForm, src, func(p *Params) {
		p.Form.FormGames = 1
		p.Form.BetAgainstPoorForm = false
	})
	result, err := s.AnalyzeSeason(context.Background(), 2010)
	require.NoError(t, err)
	require.Len(t, result.BetDetails, 1)
	assert.Equal(t, models.DirectionFor, result.BetDetails[0].Direction)
}

// streakSeason gives team a run of wins against fillers before the given day
func streakSeason(team string, wins int, start time.Time) []models.Match {
	var matches []models.Match
	for i := 0; i < wins; i++ {
		date := start.AddDate(0, 0, i)
		matches = append(matches, priced(helpers.Result(date, team, fmt.Sprintf("%s-filler-%d", team, i), 1, 0), 2, 3, 4))
	}
	return matches
}

func TestMomentum_BacksOnlyTheStrongerSide(t *testing.T) {
	start := helpers.Day(2010, time.August, 1)
	matches := append(streakSeason("Rising", 3, start), streakSeason("Flying", 5, start)...)
	matches = append(matches, priced(helpers.Result(helpers.Day(2010, time.September, 1), "Rising", "Flying", 2, 1), 2.8, 3.3, 2.5))

	src := helpers.NewMemorySeasonSource("premier_league")
	src.Add(2010, helpers.Columns(legacyCols), matches...)

	s := newStrategy(t, KindMomentum, src, nil)
	result, err := s.AnalyzeSeason(context.Background(), 2010)
	require.NoError(t, err)

	bets := betsFor(result.BetDetails, "Rising", "Flying")
	require.Len(t, bets, 1)
	assert.Equal(t, "Flying", bets[0].BetTeam)
	assert.Equal(t, BetTypeMomentumWinning, bets[0].BetType)
	assert.Equal(t, 0.5, bets[0].Signals["momentum_score"])
	assert.Equal(t, 0.3, bets[0].Signals["opponent_momentum_score"])
	assert.False(t, bets[0].Won)
}

func TestMomentum_EqualStreaksBackTheDraw(t *testing.T) {
	start := helpers.Day(2010, time.August, 1)
	matches := append(streakSeason("Rising", 3, start), streakSeason("Flying", 3, start)...)
	matches = append(matches, priced(helpers.Result(helpers.Day(2010, time.September, 1), "Rising", "Flying", 1, 1), 2.8, 3.3, 2.5))

	src := helpers.NewMemorySeasonSource("premier_league")
	src.Add(2010, helpers.Columns(legacyCols), matches...)

	s := newStrategy(t, KindMomentum, src, nil)
	result, err := s.AnalyzeSeason(context.Background(), 2010)
	require.NoError(t, err)

	bets := betsFor(result.BetDetails, "Rising", "Flying")
	require.Len(t, bets, 1)
	assert.Equal(t, models.DrawSelection, bets[0].BetTeam)
	assert.Equal(t, BetTypeMomentumDraw, bets[0].BetType)
	assert.True(t, bets[0].Won)
	assert.Equal(t, 3.3, bets[0].Winnings)
}

func TestMomentum_AgainstLosingStreak(t *testing.T) {
	d := func(day int) time.Time { return helpers.Day(2010, time.August, day) }
	src := helpers.NewMemorySeasonSource("premier_league")
	src.Add(2010, helpers.Columns(legacyCols),
		priced(helpers.Result(d(1), "Sinking", "A", 0, 1), 2, 3, 4),
		priced(helpers.Result(d(2), "B", "Sinking", 2, 0), 2, 3, 4),
		priced(helpers.Result(d(3), "Sinking", "C", 0, 3), 2, 3, 4),
		priced(helpers.Result(d(1), "Steady", "D", 1, 1), 2, 3, 4),
		priced(helpers.Result(d(2), "E", "Steady", 1, 1), 2, 3, 4),
		priced(helpers.Result(d(20), "Steady", "Sinking", 1, 1), 1.9, 3.4, 4.2),
	)

	s := newStrategy(t, KindMomentum, src, nil)
	result, err := s.AnalyzeSeason(context.Background(), 2010)
	require.NoError(t, err)

	bets := betsFor(result.BetDetails, "Steady", "Sinking")
	require.Len(t, bets, 1)
	assert.Equal(t, "Sinking", bets[0].BetTeam)
	assert.Equal(t, BetTypeMomentumLosingAgainst, bets[0].BetType)
	assert.Equal(t, 3.4, bets[0].Odds)
	assert.True(t, bets[0].Won)
	assert.InDelta(t, -0.3, bets[0].Signals["momentum_score"], 1e-9)
}

func TestBacktest_SkipsFailedSeasons(t *testing.T) {
	src := helpers.NewMemorySeasonSource("premier_league")
	src.Add(2009, helpers.Columns(), helpers.Result(helpers.Day(2009, time.August, 14), "A", "B", 1, 0))
	src.Add(2010, helpers.Columns(legacyCols),
		priced(helpers.Result(helpers.Day(2010, time.August, 14), "A", "B", 1, 0), 2.0, 3.0, 4.0))
	src.Add(2011, helpers.Columns(legacyCols),
		priced(helpers.Result(helpers.Day(2011, time.August, 14), "B", "A", 0, 2), 2.5, 3.0, 2.8))

	s := newStrategy(t, KindHomeAway, src, nil)
	report, err := Backtest(context.Background(), s, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, "premier_league", report.League)
	assert.Equal(t, 2009, report.StartSeason)
	assert.Equal(t, 2011, report.EndSeason)
	assert.Equal(t, []int{2010, 2011}, report.SeasonsTested())
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, 2009, report.Skipped[0].Season)
	assert.Equal(t, models.KindMissingOdds, report.Skipped[0].Kind)

	assert.Len(t, report.BetDetails, 2)
	assert.Equal(t, 2, report.Metrics.Overall.TotalBets)
	assert.Equal(t, 1, report.Metrics.Overall.WinningBets)
	assert.Equal(t, 0.0, report.Metrics.Overall.ProfitLoss)
	assert.Equal(t, "bet365", report.Parameters["odds_provider"])
}

func TestBacktest_NoSuccessfulSeasons(t *testing.T) {
	src := helpers.NewMemorySeasonSource("premier_league")
	src.Add(2010, helpers.Columns(), helpers.Result(helpers.Day(2010, time.August, 14), "A", "B", 1, 0))

	s := newStrategy(t, KindHomeAway, src, nil)
	_, err := Backtest(context.Background(), s, 0, 0)
	assert.ErrorIs(t, err, models.ErrNoSuccessfulRuns)
	assert.EqualError(t, err, "No successful season analyses completed")
}

func TestBacktest_Cancelled(t *testing.T) {
	src := helpers.NewMemorySeasonSource("premier_league")
	src.Add(2010, helpers.Columns(legacyCols),
		priced(helpers.Result(helpers.Day(2010, time.August, 14), "A", "B", 1, 0), 2.0, 3.0, 4.0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newStrategy(t, KindHomeAway, src, nil)
	_, err := Backtest(ctx, s, 0, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
