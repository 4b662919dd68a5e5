package backtest

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/yourusername/touchline/internal/models"
)

// RiskMetrics complements the headline figures of a report with the shape
// of its bet sequence
type RiskMetrics struct {
	MaxDrawdown         float64 `json:"max_drawdown"`
	ProfitFactor        float64 `json:"profit_factor"`
	Expectancy          float64 `json:"expectancy"`
	AverageOdds         float64 `json:"average_odds"`
	LargestWin          float64 `json:"largest_win"`
	LongestLosingStreak int     `json:"longest_losing_streak"`
	ProfitableSeasons   int     `json:"profitable_seasons"`
	SeasonsTested       int     `json:"seasons_tested"`
}

// profitFactorCap stands in for an infinite profit factor
const profitFactorCap = 999

// CalculateRisk derives risk metrics from report's bets and seasons
func CalculateRisk(report *models.BacktestReport) RiskMetrics {
	if report == nil {
		return RiskMetrics{}
	}
	bets := report.BetDetails

	risk := RiskMetrics{
		MaxDrawdown:         round2(BuildEquityCurve(bets).MaxDrawdown()),
		ProfitFactor:        round2(calculateProfitFactor(bets)),
		Expectancy:          round2(calculateExpectancy(bets)),
		AverageOdds:         round2(calculateAverageOdds(bets)),
		LongestLosingStreak: longestLosingStreak(bets),
		SeasonsTested:       len(report.SeasonResults),
	}
	for _, b := range bets {
		if b.Profit > risk.LargestWin {
			risk.LargestWin = round2(b.Profit)
		}
	}
	for _, sr := range report.SeasonResults {
		if sr.Metrics.Overall.ProfitLoss > 0 {
			risk.ProfitableSeasons++
		}
	}
	return risk
}

// ProfitableShare returns the percentage of tested seasons that made a profit
func (r RiskMetrics) ProfitableShare() float64 {
	if r.SeasonsTested == 0 {
		return 0
	}
	return float64(r.ProfitableSeasons) / float64(r.SeasonsTested) * 100
}

func calculateProfitFactor(bets []models.BetRecord) float64 {
	grossProfit := 0.0
	grossLoss := 0.0
	for _, bet := range bets {
		if bet.Profit > 0 {
			grossProfit += bet.Profit
		} else {
			grossLoss += math.Abs(bet.Profit)
		}
	}
	if grossLoss == 0 {
		if grossProfit > 0 {
			return profitFactorCap
		}
		return 0
	}
	return grossProfit / grossLoss
}

func calculateExpectancy(bets []models.BetRecord) float64 {
	if len(bets) == 0 {
		return 0
	}
	net := 0.0
	for _, bet := range bets {
		net += bet.Profit
	}
	return net / float64(len(bets))
}

func calculateAverageOdds(bets []models.BetRecord) float64 {
	if len(bets) == 0 {
		return 0
	}
	sum := 0.0
	for _, bet := range bets {
		sum += bet.Odds
	}
	return sum / float64(len(bets))
}

func longestLosingStreak(bets []models.BetRecord) int {
	longest, current := 0, 0
	for _, bet := range bets {
		if bet.Won {
			current = 0
			continue
		}
		current++
		if current > longest {
			longest = current
		}
	}
	return longest
}

func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
