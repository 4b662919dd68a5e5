package strategy

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/touchline/internal/datasource"
	"github.com/yourusername/touchline/internal/logger"
	"github.com/yourusername/touchline/internal/models"
	"github.com/yourusername/touchline/internal/performance"
)

// base provides shared functionality for strategies
type base struct {
	source   datasource.SeasonSource
	provider string
	log      *logger.StrategyLogger
}

func newBase(deps Deps, provider string) base {
	log := deps.Logger
	if log == nil {
		log = logger.Discard()
	}
	return base{
		source:   deps.Source,
		provider: provider,
		log:      logger.NewStrategyLogger(log),
	}
}

// loadSeason loads season and resolves its odds columns. A season missing
// any of the three columns is a data error.
func (b *base) loadSeason(ctx context.Context, season int) (*datasource.Season, models.OddsColumns, error) {
	data, err := b.source.LoadSeason(ctx, season)
	if err != nil {
		return nil, models.OddsColumns{}, err
	}
	if len(data.Matches) == 0 {
		return nil, models.OddsColumns{}, models.NewEngineError(models.KindMissingData, season,
			"No data available for season %d", season)
	}

	cols := datasource.OddsColumnsFor(season, b.provider)
	if missing := data.MissingColumns(cols); len(missing) > 0 {
		return nil, cols, models.NewEngineError(models.KindMissingOdds, season,
			"Missing odds columns for season %d: %v", season, missing)
	}
	return data, cols, nil
}

// seasonsInRange returns the available seasons within [start, end]. Zero
// bounds default to the first and last available season, and seasons at or
// before after are excluded.
func (b *base) seasonsInRange(ctx context.Context, start, end int, after int) ([]int, error) {
	available, err := b.availableSeasons(ctx)
	if err != nil {
		return nil, err
	}
	return filterSeasons(available, start, end, after)
}

// availableSeasons lists the source's seasons in ascending order
func (b *base) availableSeasons(ctx context.Context) ([]int, error) {
	available, err := b.source.AvailableSeasons(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}
	if len(available) == 0 {
		return nil, models.NewEngineError(models.KindMissingData, 0, "No season data available for %s", b.source.League())
	}
	sorted := append([]int(nil), available...)
	sort.Ints(sorted)
	return sorted, nil
}

// filterSeasons applies seasonsInRange's bounds to an ascending list
func filterSeasons(available []int, start, end int, after int) ([]int, error) {
	if start == 0 {
		start = available[0]
	}
	if end == 0 {
		end = available[len(available)-1]
	}

	var seasons []int
	for _, s := range available {
		if s >= start && s <= end && s > after {
			seasons = append(seasons, s)
		}
	}
	if len(seasons) == 0 {
		return nil, models.NewEngineError(models.KindMissingData, 0, "No seasons available in range %d-%d", start, end)
	}
	return seasons, nil
}

// run evaluates one season through analyze, turning panics into internal
// errors and an empty bet list into a no-bets error.
func (b *base) run(season int, name string, analyze func() (*models.SeasonResult, int, error)) (result *models.SeasonResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			b.log.WithFields(logrus.Fields{
				"strategy_name": name,
				"season":        season,
				"stack":         string(debug.Stack()),
			}).Error("Recovered panic during season analysis")
			result = nil
			err = &models.EngineError{
				Kind:    models.KindInternal,
				Season:  season,
				Message: fmt.Sprintf("Error analyzing season %d: %v", season, r),
			}
		}
	}()

	result, matches, err := analyze()
	if err != nil {
		return nil, err
	}
	if len(result.BetDetails) == 0 {
		return nil, models.NewEngineError(models.KindNoBets, season, "No valid bets found for season %d", season)
	}

	result.Season = season
	result.Strategy = name
	result.Metrics = performance.SplitByDirection(result.BetDetails)
	b.log.LogSeasonAnalysis(name, season, matches, len(result.BetDetails), result.Metrics.Overall.ROI)
	return result, nil
}

// record logs and returns a settled bet
func (b *base) record(name string, bet models.BetRecord) models.BetRecord {
	b.log.LogBetDecision(name, bet.HomeTeam, bet.AwayTeam, bet.BetTeam, bet.BetType, bet.Odds)
	return bet
}

// price returns the decimal price in col when it is present and positive
func price(m *models.Match, col string) (float64, bool) {
	v, ok := m.Odds[col]
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// hasTeamPrices reports whether both win prices are quoted for m
func hasTeamPrices(m *models.Match, cols models.OddsColumns) bool {
	_, okH := price(m, cols.Home)
	_, okA := price(m, cols.Away)
	return okH && okA
}

// usable reports whether a row carries both teams and a result
func usable(m *models.Match) bool {
	return m.HomeTeam != "" && m.AwayTeam != "" && m.Result != ""
}

// betFor backs team to win at its own price
func betFor(m *models.Match, cols models.OddsColumns, team, betType string) (models.BetRecord, bool) {
	col := cols.Away
	if team == m.HomeTeam {
		col = cols.Home
	}
	odds, ok := price(m, col)
	if !ok {
		return models.BetRecord{}, false
	}
	return models.NewBetRecord(m, team, models.DirectionFor, betType, odds), true
}

// betDraw backs the draw at the draw price
func betDraw(m *models.Match, cols models.OddsColumns, betType string) (models.BetRecord, bool) {
	odds, ok := price(m, cols.Draw)
	if !ok {
		return models.BetRecord{}, false
	}
	return models.NewBetRecord(m, models.DrawSelection, models.DirectionFor, betType, odds), true
}

// betAgainst backs team not to win, paid at the better of the opponent
// and draw prices
func betAgainst(m *models.Match, cols models.OddsColumns, team, betType string) (models.BetRecord, bool) {
	opponentCol := cols.Home
	if team == m.HomeTeam {
		opponentCol = cols.Away
	}
	opponent, okO := price(m, opponentCol)
	draw, okD := price(m, cols.Draw)
	if !okO || !okD {
		return models.BetRecord{}, false
	}
	odds := opponent
	if draw > odds {
		odds = draw
	}
	return models.NewBetRecord(m, team, models.DirectionAgainst, betType, odds), true
}

func (b *base) logger() *logger.StrategyLogger {
	return b.log
}

func (b *base) league() string {
	return b.source.League()
}
