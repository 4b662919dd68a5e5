package models

import (
	"time"

	"github.com/google/uuid"
)

// SeasonResult is the outcome of evaluating one strategy over one season
type SeasonResult struct {
	Season         int                `json:"season"`
	Strategy       string             `json:"strategy"`
	Metrics        DirectionalMetrics `json:"metrics"`
	BetDetails     []BetRecord        `json:"bet_details"`
	TopTeams       []string           `json:"top_teams,omitempty"`
	BottomTeams    []string           `json:"bottom_teams,omitempty"`
	PreviousSeason int                `json:"previous_season,omitempty"`
}

// SkippedSeason records why a season was left out of an aggregate
type SkippedSeason struct {
	Season int       `json:"season"`
	Kind   ErrorKind `json:"kind"`
	Reason string    `json:"reason"`
}

// BacktestReport is a multi-season backtest run
type BacktestReport struct {
	ID            uuid.UUID              `db:"id" json:"id"`
	Kind          string                 `db:"strategy_kind" json:"kind"`
	Strategy      string                 `db:"strategy_name" json:"strategy"`
	League        string                 `db:"league" json:"league"`
	Parameters    map[string]interface{} `db:"parameters" json:"parameters"`
	ParameterHash string                 `db:"parameter_hash" json:"parameter_hash,omitempty"`
	StartSeason   int                    `db:"start_season" json:"start_season"`
	EndSeason     int                    `db:"end_season" json:"end_season"`
	RunDate       time.Time              `db:"run_date" json:"run_date"`
	SeasonResults []SeasonResult         `json:"season_results"`
	Skipped       []SkippedSeason        `json:"skipped_seasons,omitempty"`
	Metrics       DirectionalMetrics     `json:"metrics"`
	BetDetails    []BetRecord            `json:"bet_details"`
}

// SeasonsTested returns the seasons that contributed to the aggregate
func (r *BacktestReport) SeasonsTested() []int {
	seasons := make([]int, 0, len(r.SeasonResults))
	for _, sr := range r.SeasonResults {
		seasons = append(seasons, sr.Season)
	}
	return seasons
}

// BacktestSummary is the stored headline of a persisted backtest report
type BacktestSummary struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Kind          string    `db:"strategy_kind" json:"kind"`
	Strategy      string    `db:"strategy_name" json:"strategy"`
	League        string    `db:"league" json:"league"`
	ParameterHash string    `db:"parameter_hash" json:"parameter_hash"`
	StartSeason   int       `db:"start_season" json:"start_season"`
	EndSeason     int       `db:"end_season" json:"end_season"`
	SeasonsTested int       `db:"seasons_tested" json:"seasons_tested"`
	TotalBets     int       `db:"total_bets" json:"total_bets"`
	WinningBets   int       `db:"winning_bets" json:"winning_bets"`
	WinRate       float64   `db:"win_rate" json:"win_rate"`
	TotalStake    float64   `db:"total_stake" json:"total_stake"`
	ProfitLoss    float64   `db:"profit_loss" json:"profit_loss"`
	ROI           float64   `db:"roi" json:"roi"`
	RunDate       time.Time `db:"run_date" json:"run_date"`
}

// Summary returns the headline figures of r
func (r *BacktestReport) Summary() BacktestSummary {
	o := r.Metrics.Overall
	return BacktestSummary{
		ID:            r.ID,
		Kind:          r.Kind,
		Strategy:      r.Strategy,
		League:        r.League,
		ParameterHash: r.ParameterHash,
		StartSeason:   r.StartSeason,
		EndSeason:     r.EndSeason,
		SeasonsTested: len(r.SeasonResults),
		TotalBets:     o.TotalBets,
		WinningBets:   o.WinningBets,
		WinRate:       o.WinRate,
		TotalStake:    o.TotalStake,
		ProfitLoss:    o.ProfitLoss,
		ROI:           o.ROI,
		RunDate:       r.RunDate,
	}
}

// ComparisonDelta is the change from a baseline run to an enhanced one
type ComparisonDelta struct {
	AdditionalBets int     `json:"additional_bets"`
	WinRateChange  float64 `json:"win_rate_change"`
	ROIChange      float64 `json:"roi_change"`
	ProfitChange   float64 `json:"profit_change"`
}

// StrategyComparison contrasts a FOR-only run with one that also bets against
type StrategyComparison struct {
	TopN       int             `json:"top_n"`
	ForOnly    *BacktestReport `json:"for_only"`
	Enhanced   *BacktestReport `json:"enhanced"`
	Comparison ComparisonDelta `json:"comparison"`
}
