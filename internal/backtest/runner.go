// Package backtest orchestrates multi-season strategy runs, comparisons
// and their reports.
package backtest

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/touchline/internal/logger"
	"github.com/yourusername/touchline/internal/models"
	"github.com/yourusername/touchline/internal/repository"
	"github.com/yourusername/touchline/internal/strategy"
)

// Runner orchestrates backtesting runs
type Runner struct {
	deps   strategy.Deps
	params strategy.Params
	config Config
	store  repository.BacktestReportRepository
	logger *logrus.Entry
}

// RankedReport is one entry of a RunAll ranking
type RankedReport struct {
	Rank   int                    `json:"rank"`
	Kind   strategy.Kind          `json:"kind"`
	Report *models.BacktestReport `json:"report"`
}

// NewRunner creates a new runner. store may be nil when persistence is off.
func NewRunner(deps strategy.Deps, params strategy.Params, cfg Config, store repository.BacktestReportRepository, log *logrus.Logger) (*Runner, error) {
	if deps.Source == nil {
		return nil, fmt.Errorf("season source is required")
	}
	if err := strategy.ValidateParams(params); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Persist && store == nil {
		return nil, fmt.Errorf("persistence enabled but no report repository configured")
	}
	if log == nil {
		log = logger.Discard()
	}
	if deps.Logger == nil {
		deps.Logger = log
	}

	return &Runner{
		deps:   deps,
		params: params,
		config: cfg,
		store:  store,
		logger: logger.NewComponentLogger(log, "backtest"),
	}, nil
}

// Config returns the runner configuration
func (r *Runner) Config() Config {
	return r.config
}

// RunSingle backtests one strategy with the runner's parameters
func (r *Runner) RunSingle(ctx context.Context, kind strategy.Kind, start, end int) (*models.BacktestReport, error) {
	return r.run(ctx, kind, r.params, start, end)
}

// RunMultiple runs Top-Bottom once per N, keyed "n_<N>". Failed values of N
// are logged and left out. It fails only when every N failed.
func (r *Runner) RunMultiple(ctx context.Context, topNs []int, start, end int) (map[string]*models.BacktestReport, error) {
	if len(topNs) == 0 {
		topNs = r.config.TopNValues
	}

	results := make(map[string]*models.BacktestReport, len(topNs))
	for _, n := range topNs {
		params := r.params
		params.TopBottom.TopN = n

		report, err := r.run(ctx, strategy.KindTopBottom, params, start, end)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.logger.WithError(err).WithField("top_n", n).Warn("Top-N backtest failed")
			continue
		}
		results[topNKey(n)] = report
	}

	if len(results) == 0 {
		return nil, models.ErrNoSuccessfulRuns
	}
	return results, nil
}

// Compare runs Top-Bottom FOR-only and with AGAINST bets on the bottom
// teams, and reports the change the AGAINST bets bring
func (r *Runner) Compare(ctx context.Context, topN, start, end int) (*models.StrategyComparison, error) {
	forOnly := r.params
	forOnly.TopBottom.TopN = topN
	forOnly.TopBottom.IncludeAgainstBottom = false

	enhanced := forOnly
	enhanced.TopBottom.IncludeAgainstBottom = true

	base, err := r.run(ctx, strategy.KindTopBottom, forOnly, start, end)
	if err != nil {
		return nil, fmt.Errorf("FOR-only run failed: %w", err)
	}
	full, err := r.run(ctx, strategy.KindTopBottom, enhanced, start, end)
	if err != nil {
		return nil, fmt.Errorf("enhanced run failed: %w", err)
	}

	return &models.StrategyComparison{
		TopN:       topN,
		ForOnly:    base,
		Enhanced:   full,
		Comparison: Delta(base.Metrics.Overall, full.Metrics.Overall),
	}, nil
}

// RunAll backtests every strategy kind and ranks the successful runs by
// overall ROI, best first
func (r *Runner) RunAll(ctx context.Context, start, end int) ([]RankedReport, error) {
	var ranked []RankedReport
	for _, kind := range strategy.Kinds() {
		report, err := r.run(ctx, kind, r.params, start, end)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.logger.WithError(err).WithField("strategy", kind).Warn("Strategy backtest failed")
			continue
		}
		ranked = append(ranked, RankedReport{Kind: kind, Report: report})
	}

	if len(ranked) == 0 {
		return nil, models.ErrNoSuccessfulRuns
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Report.Metrics.Overall.ROI > ranked[j].Report.Metrics.Overall.ROI
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

func (r *Runner) run(ctx context.Context, kind strategy.Kind, params strategy.Params, start, end int) (*models.BacktestReport, error) {
	if start == 0 {
		start = r.config.StartSeason
	}
	if end == 0 {
		end = r.config.EndSeason
	}

	s, err := strategy.New(kind, r.deps, params)
	if err != nil {
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"strategy": s.Name(),
		"start":    start,
		"end":      end,
	}).Info("Starting backtest run")

	report, err := strategy.Backtest(ctx, s, start, end)
	if err != nil {
		if errors.Is(err, models.ErrNoSuccessfulRuns) {
			return nil, fmt.Errorf("%s: %w", s.Name(), err)
		}
		return nil, err
	}
	report.ParameterHash = HashParameters(report.Parameters)

	r.logger.WithFields(logrus.Fields{
		"strategy":       report.Strategy,
		"seasons_tested": len(report.SeasonResults),
		"seasons_failed": len(report.Skipped),
		"total_bets":     report.Metrics.Overall.TotalBets,
		"roi":            report.Metrics.Overall.ROI,
	}).Info("Backtest run complete")

	r.persist(ctx, report)
	return report, nil
}

// persist stores report when enabled. A storage failure is logged and does
// not discard the computed report.
func (r *Runner) persist(ctx context.Context, report *models.BacktestReport) {
	if !r.config.Persist || r.store == nil {
		return
	}
	if err := r.store.SaveReport(ctx, report); err != nil {
		r.logger.WithError(err).WithField("report_id", report.ID).Error("Failed to persist backtest report")
		return
	}
	r.logger.WithField("report_id", report.ID).Debug("Persisted backtest report")
}

// Delta is enhanced minus base for each headline figure
func Delta(base, enhanced models.PerformanceMetrics) models.ComparisonDelta {
	diff := func(a, b float64) float64 {
		v, _ := decimal.NewFromFloat(b).Sub(decimal.NewFromFloat(a)).Round(2).Float64()
		return v
	}
	return models.ComparisonDelta{
		AdditionalBets: enhanced.TotalBets - base.TotalBets,
		WinRateChange:  diff(base.WinRate, enhanced.WinRate),
		ROIChange:      diff(base.ROI, enhanced.ROI),
		ProfitChange:   diff(base.ProfitLoss, enhanced.ProfitLoss),
	}
}

// HashParameters creates a stable hash for parameter maps
func HashParameters(params map[string]interface{}) string {
	data, _ := json.Marshal(params)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

func topNKey(n int) string {
	return fmt.Sprintf("n_%d", n)
}
