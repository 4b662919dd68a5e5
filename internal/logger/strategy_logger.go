// Package logger provides strategy-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// StrategyLogger provides dedicated logging for strategy evaluation.
type StrategyLogger struct {
	*logrus.Entry
}

// NewStrategyLogger creates a new strategy logger.
func NewStrategyLogger(baseLogger *logrus.Logger) *StrategyLogger {
	return &StrategyLogger{
		Entry: NewComponentLogger(baseLogger, "strategy"),
	}
}

// LogSeasonAnalysis logs a completed season evaluation.
func (sl *StrategyLogger) LogSeasonAnalysis(strategyName string, season, matches, bets int, roi float64) {
	sl.WithFields(logrus.Fields{
		"strategy_name":    strategyName,
		"season":           season,
		"matches_analyzed": matches,
		"bets_placed":      bets,
		"roi":              roi,
	}).Info("Season analysis completed")
}

// LogBetDecision logs a single bet generated for a match.
func (sl *StrategyLogger) LogBetDecision(strategyName, homeTeam, awayTeam, betTeam, betType string, odds float64) {
	sl.WithFields(logrus.Fields{
		"strategy_name": strategyName,
		"home_team":     homeTeam,
		"away_team":     awayTeam,
		"bet_team":      betTeam,
		"bet_type":      betType,
		"odds":          odds,
	}).Debug("Bet decision made")
}

// LogSkippedSeason logs a season excluded from an aggregate.
func (sl *StrategyLogger) LogSkippedSeason(strategyName string, season int, kind, reason string) {
	sl.WithFields(logrus.Fields{
		"strategy_name": strategyName,
		"season":        season,
		"error_kind":    kind,
		"reason":        reason,
	}).Warn("Season skipped")
}

// LogRecommendation logs an advisor recommendation for a fixture.
func (sl *StrategyLogger) LogRecommendation(advisor, homeTeam, awayTeam, team, strategyName string, confidence float64) {
	sl.WithFields(logrus.Fields{
		"advisor":          advisor,
		"home_team":        homeTeam,
		"away_team":        awayTeam,
		"recommended_team": team,
		"strategy_name":    strategyName,
		"confidence":       confidence,
	}).Info("Recommendation produced")
}
