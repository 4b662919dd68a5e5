// Package performance reduces bet records into win rate, profit and ROI figures.
package performance

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/yourusername/touchline/internal/models"
)

// CalculateMetrics aggregates bets. An empty list yields all-zero metrics.
// Win rate, stake, winnings, profit/loss and ROI are rounded to two decimals.
func CalculateMetrics(bets []models.BetRecord) models.PerformanceMetrics {
	var m models.PerformanceMetrics
	if len(bets) == 0 {
		return m
	}

	stake := decimal.Zero
	winnings := decimal.Zero
	for _, b := range bets {
		stake = stake.Add(decimal.NewFromFloat(b.Stake))
		winnings = winnings.Add(decimal.NewFromFloat(b.Winnings))
		if b.Won {
			m.WinningBets++
		}
	}

	m.TotalBets = len(bets)
	m.WinRate = calculateWinRate(m.WinningBets, m.TotalBets)
	// Profit and ROI derive from the rounded totals so that profit/loss is
	// exactly winnings minus stake as reported.
	stake = stake.Round(2)
	winnings = winnings.Round(2)
	m.TotalStake = stake.InexactFloat64()
	m.TotalWinnings = winnings.InexactFloat64()

	profit := winnings.Sub(stake)
	m.ProfitLoss = profit.InexactFloat64()
	if stake.IsPositive() {
		m.ROI = profit.Div(stake).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
	}
	return m
}

// SplitByDirection computes FOR, AGAINST and combined metrics over one list
func SplitByDirection(bets []models.BetRecord) models.DirectionalMetrics {
	var forBets, againstBets []models.BetRecord
	for _, b := range bets {
		if b.Direction == models.DirectionAgainst {
			againstBets = append(againstBets, b)
		} else {
			forBets = append(forBets, b)
		}
	}
	return models.DirectionalMetrics{
		For:     CalculateMetrics(forBets),
		Against: CalculateMetrics(againstBets),
		Overall: CalculateMetrics(bets),
	}
}

// FilterDirection returns the bets placed in direction
func FilterDirection(bets []models.BetRecord, dir models.BetDirection) []models.BetRecord {
	var out []models.BetRecord
	for _, b := range bets {
		if b.Direction == dir {
			out = append(out, b)
		}
	}
	return out
}

// TeamBreakdown summarizes bets per backed or opposed team, busiest first.
// Draw bets are not attributed to a team.
func TeamBreakdown(bets []models.BetRecord) []models.TeamPerformance {
	byTeam := make(map[string]*teamTally)
	var order []string
	for _, b := range bets {
		if b.BetTeam == models.DrawSelection {
			continue
		}
		tally, ok := byTeam[b.BetTeam]
		if !ok {
			tally = &teamTally{}
			byTeam[b.BetTeam] = tally
			order = append(order, b.BetTeam)
		}
		if b.Direction == models.DirectionAgainst {
			tally.against = append(tally.against, b)
		} else {
			tally.forBets = append(tally.forBets, b)
		}
	}

	out := make([]models.TeamPerformance, 0, len(order))
	for _, team := range order {
		tally := byTeam[team]
		forM := CalculateMetrics(tally.forBets)
		againstM := CalculateMetrics(tally.against)
		out = append(out, models.TeamPerformance{
			Team:        team,
			ForBets:     forM.TotalBets,
			ForWins:     forM.WinningBets,
			ForWinRate:  forM.WinRate,
			ForROI:      forM.ROI,
			AgainstBets: againstM.TotalBets,
			AgainstWins: againstM.WinningBets,
			AgainstRate: againstM.WinRate,
			AgainstROI:  againstM.ROI,
			TotalBets:   forM.TotalBets + againstM.TotalBets,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalBets > out[j].TotalBets
	})
	return out
}

type teamTally struct {
	forBets []models.BetRecord
	against []models.BetRecord
}

// calculateWinRate returns wins as a percentage of total, rounded to two decimals
func calculateWinRate(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(wins)).
		Div(decimal.NewFromInt(int64(total))).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
}
