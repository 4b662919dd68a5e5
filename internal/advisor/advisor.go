// Package advisor recommends bets on upcoming fixtures from the same form,
// momentum, standings and venue signals the backtests use.
package advisor

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/touchline/internal/analytics"
	"github.com/yourusername/touchline/internal/config"
	"github.com/yourusername/touchline/internal/datasource"
	"github.com/yourusername/touchline/internal/logger"
	"github.com/yourusername/touchline/internal/metrics"
	"github.com/yourusername/touchline/internal/models"
)

// Advisor modes
const (
	ModeWeighted  = "weighted"
	ModeWaterfall = "waterfall"
)

// Advisor recommends at most one bet per fixture. Problems with the
// underlying data never fail the call: they come back as a recommendation
// without a team.
type Advisor interface {
	Name() string
	Recommend(ctx context.Context, fixture models.Fixture, season int) models.Recommendation
}

// Deps are the collaborators every advisor needs
type Deps struct {
	Source datasource.SeasonSource
	Logger *logrus.Logger
}

// New builds the advisor selected by cfg.Mode
func New(cfg config.AdvisorConfig, deps Deps) (Advisor, error) {
	if deps.Source == nil {
		return nil, fmt.Errorf("advisor: season source is required")
	}
	switch cfg.Mode {
	case ModeWeighted, "":
		return NewWeightedAdvisor(deps), nil
	case ModeWaterfall:
		return NewWaterfallAdvisor(deps, WaterfallConfigFrom(cfg))
	}
	return nil, fmt.Errorf("unknown advisor mode %q", cfg.Mode)
}

// core holds what both advisors share
type core struct {
	calc *analytics.Calculator
	log  *logger.StrategyLogger
}

func newCore(deps Deps) core {
	log := deps.Logger
	if log == nil {
		log = logger.Discard()
	}
	return core{
		calc: analytics.NewCalculator(deps.Source),
		log:  logger.NewStrategyLogger(log),
	}
}

// recommend runs decide with panic recovery, then logs and counts the result
func (c core) recommend(advisor string, fixture models.Fixture, decide func() models.Recommendation) (rec models.Recommendation) {
	defer func() {
		if r := recover(); r != nil {
			rec = emptyRecommendation(fixture)
			rec.Reason = fmt.Sprintf("Error: %v", r)
			rec.DetailedReason = fmt.Sprintf("Exception: %v", r)
		}
		c.observe(advisor, rec)
	}()
	return decide()
}

func (c core) observe(advisor string, rec models.Recommendation) {
	strategyLabel := "none"
	team := ""
	if rec.HasBet() {
		strategyLabel = rec.Strategy
		team = *rec.RecommendedTeam
	}
	metrics.RecordRecommendation(advisor, strategyLabel, rec.Confidence)
	c.log.LogRecommendation(advisor, rec.HomeTeam, rec.AwayTeam, team, strategyLabel, rec.Confidence)
}

// bothForm returns the form of both sides of fixture or an abstaining reason
func (c core) bothForm(ctx context.Context, f models.Fixture, season, window int) (home, away models.FormSnapshot, reason string) {
	asOf := fixtureDate(f)
	home, err := c.calc.Form(ctx, f.HomeTeam, season, asOf, window)
	if err != nil {
		return home, away, reasonInsufficientData
	}
	away, err = c.calc.Form(ctx, f.AwayTeam, season, asOf, window)
	if err != nil {
		return home, away, reasonInsufficientData
	}
	if home.GamesPlayed < window || away.GamesPlayed < window {
		return home, away, reasonInsufficientGames
	}
	return home, away, ""
}

// bothMomentum returns the momentum of both sides of fixture or an abstaining reason
func (c core) bothMomentum(ctx context.Context, f models.Fixture, season, lookback, minGames int) (home, away models.MomentumSnapshot, reason string) {
	asOf := fixtureDate(f)
	home, err := c.calc.Momentum(ctx, f.HomeTeam, season, asOf, lookback)
	if err != nil {
		return home, away, reasonInsufficientData
	}
	away, err = c.calc.Momentum(ctx, f.AwayTeam, season, asOf, lookback)
	if err != nil {
		return home, away, reasonInsufficientData
	}
	if home.GamesPlayed < minGames || away.GamesPlayed < minGames {
		return home, away, reasonInsufficientGames
	}
	return home, away, ""
}

// ranks places both sides of fixture in the standings of season
func (c core) ranks(ctx context.Context, f models.Fixture, season int) (table *analytics.Table, home, away int, reason string) {
	table, err := c.calc.LeagueTable(ctx, season)
	if err != nil || table.Len() == 0 {
		return nil, 0, 0, "No standings data"
	}
	home, okHome := table.Rank(f.HomeTeam)
	away, okAway := table.Rank(f.AwayTeam)
	if !okHome || !okAway {
		return table, 0, 0, "Team not found in standings"
	}
	return table, home, away, ""
}

const (
	reasonInsufficientData  = "Insufficient data"
	reasonInsufficientGames = "Insufficient games"
)

// fixtureDate is the cut-off for a fixture's signals; undated fixtures
// use everything played so far
func fixtureDate(f models.Fixture) time.Time {
	if f.Date.IsZero() {
		return time.Now().UTC()
	}
	return f.Date
}

func emptyRecommendation(f models.Fixture) models.Recommendation {
	return models.Recommendation{
		HomeTeam: f.HomeTeam,
		AwayTeam: f.AwayTeam,
		Date:     f.Date,
		Round:    f.Round,
	}
}

func capConfidence(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
