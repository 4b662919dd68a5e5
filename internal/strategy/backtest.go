package strategy

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/touchline/internal/logger"
	"github.com/yourusername/touchline/internal/metrics"
	"github.com/yourusername/touchline/internal/models"
	"github.com/yourusername/touchline/internal/performance"
)

// Backtest evaluates s over every season in [start, end] and aggregates
// the bets of the seasons that succeeded. Failed seasons are listed in
// the report's Skipped field. It returns models.ErrNoSuccessfulRuns when
// no season produced bets.
func Backtest(ctx context.Context, s Strategy, start, end int) (*models.BacktestReport, error) {
	started := time.Now()
	kind := string(s.Kind())
	log := strategyLogger(s)

	seasons, err := s.Seasons(ctx, start, end)
	if err != nil {
		metrics.RecordBacktestRun(kind, "failure", time.Since(started).Seconds())
		return nil, err
	}

	report := &models.BacktestReport{
		ID:          uuid.New(),
		Kind:        kind,
		Strategy:    s.Name(),
		League:      leagueOf(s),
		Parameters:  s.Parameters(),
		StartSeason: seasons[0],
		EndSeason:   seasons[len(seasons)-1],
		RunDate:     time.Now().UTC(),
	}

	for _, season := range seasons {
		if err := ctx.Err(); err != nil {
			metrics.RecordBacktestRun(kind, "failure", time.Since(started).Seconds())
			return nil, err
		}

		result, err := s.AnalyzeSeason(ctx, season)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				metrics.RecordBacktestRun(kind, "failure", time.Since(started).Seconds())
				return nil, err
			}
			errKind := models.KindOf(err)
			report.Skipped = append(report.Skipped, models.SkippedSeason{Season: season, Kind: errKind, Reason: err.Error()})
			metrics.RecordSeasonError(kind, string(errKind))
			if log != nil {
				log.LogSkippedSeason(s.Name(), season, string(errKind), err.Error())
			}
			continue
		}
		report.SeasonResults = append(report.SeasonResults, *result)
		report.BetDetails = append(report.BetDetails, result.BetDetails...)
	}

	if len(report.SeasonResults) == 0 {
		metrics.RecordBacktestRun(kind, "failure", time.Since(started).Seconds())
		return nil, models.ErrNoSuccessfulRuns
	}

	report.Metrics = performance.SplitByDirection(report.BetDetails)
	metrics.RecordBets(kind, string(models.DirectionFor), report.Metrics.For.TotalBets)
	metrics.RecordBets(kind, string(models.DirectionAgainst), report.Metrics.Against.TotalBets)
	metrics.UpdateROI(kind, report.League, report.Metrics.Overall.ROI)
	metrics.RecordBacktestRun(kind, "success", time.Since(started).Seconds())
	return report, nil
}

func strategyLogger(s Strategy) *logger.StrategyLogger {
	if l, ok := s.(interface{ logger() *logger.StrategyLogger }); ok {
		return l.logger()
	}
	return nil
}

func leagueOf(s Strategy) string {
	if l, ok := s.(interface{ league() string }); ok {
		return l.league()
	}
	return ""
}
