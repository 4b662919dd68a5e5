package strategy

import (
	"context"
	"fmt"
	"math"

	"github.com/yourusername/touchline/internal/analytics"
	"github.com/yourusername/touchline/internal/models"
)

// Momentum bet types
const (
	BetTypeMomentumWinning       = "MOMENTUM_WINNING"
	BetTypeMomentumDraw          = "MOMENTUM_DRAW"
	BetTypeMomentumLosingAgainst = "MOMENTUM_LOSING_AGAINST"
)

const (
	minMomentumGames       = 2
	equalMomentumTolerance = 0.01
)

// Momentum backs teams on winning streaks and optionally bets against teams
// on losing streaks.
type Momentum struct {
	base
	params MomentumParams
}

// Kind returns KindMomentum
func (s *Momentum) Kind() Kind { return KindMomentum }

// Name describes the configured variant
func (s *Momentum) Name() string {
	return fmt.Sprintf("Momentum-based (lookback %d games, winning threshold %g)", s.params.Lookback, s.params.WinningThreshold)
}

// Parameters returns the settings that identify this run
func (s *Momentum) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"lookback_games":              s.params.Lookback,
		"winning_momentum_threshold":  s.params.WinningThreshold,
		"losing_momentum_threshold":   s.params.LosingThreshold,
		"bet_against_losing_momentum": s.params.BetAgainstLosingMomentum,
		"odds_provider":               s.provider,
	}
}

// Seasons returns every available season in range
func (s *Momentum) Seasons(ctx context.Context, start, end int) ([]int, error) {
	return s.seasonsInRange(ctx, start, end, 0)
}

// AnalyzeSeason computes both teams' momentum before each match. Matches
// where either side has fewer than two prior games are skipped.
func (s *Momentum) AnalyzeSeason(ctx context.Context, season int) (*models.SeasonResult, error) {
	data, cols, err := s.loadSeason(ctx, season)
	if err != nil {
		return nil, err
	}

	return s.run(season, s.Name(), func() (*models.SeasonResult, int, error) {
		result := &models.SeasonResult{}
		for i := range data.Matches {
			m := &data.Matches[i]
			if !usable(m) || m.Date.IsZero() || !hasTeamPrices(m, cols) {
				continue
			}

			home := analytics.MomentumFromMatches(data.Matches, m.HomeTeam, m.Date, s.params.Lookback)
			away := analytics.MomentumFromMatches(data.Matches, m.AwayTeam, m.Date, s.params.Lookback)
			if home.GamesPlayed < minMomentumGames || away.GamesPlayed < minMomentumGames {
				continue
			}

			for _, bet := range s.decide(m, cols, home, away) {
				result.BetDetails = append(result.BetDetails, s.record(s.Name(), bet))
			}
		}
		return result, len(data.Matches), nil
	})
}

// decide produces at most one FOR bet (a team or the draw) plus any AGAINST
// bets on teams at or below the losing threshold.
func (s *Momentum) decide(m *models.Match, cols models.OddsColumns, home, away models.MomentumSnapshot) []models.BetRecord {
	var bets []models.BetRecord
	hs, as := home.MomentumScore, away.MomentumScore
	homeHot := hs >= s.params.WinningThreshold
	awayHot := as >= s.params.WinningThreshold

	switch {
	case homeHot && awayHot && math.Abs(hs-as) < equalMomentumTolerance:
		if bet, ok := betDraw(m, cols, BetTypeMomentumDraw); ok {
			avg := (hs + as) / 2
			bets = append(bets, bet.WithSignal("momentum_score", avg).WithSignal("opponent_momentum_score", avg))
		}
	case homeHot && (!awayHot || hs > as):
		if bet, ok := betFor(m, cols, m.HomeTeam, BetTypeMomentumWinning); ok {
			bets = append(bets, withMomentumSignals(bet, home, as))
		}
	case awayHot:
		if bet, ok := betFor(m, cols, m.AwayTeam, BetTypeMomentumWinning); ok {
			bets = append(bets, withMomentumSignals(bet, away, hs))
		}
	}

	if !s.params.BetAgainstLosingMomentum {
		return bets
	}
	if hs <= s.params.LosingThreshold {
		if bet, ok := betAgainst(m, cols, m.HomeTeam, BetTypeMomentumLosingAgainst); ok {
			bets = append(bets, withMomentumSignals(bet, home, as))
		}
	}
	if as <= s.params.LosingThreshold {
		if bet, ok := betAgainst(m, cols, m.AwayTeam, BetTypeMomentumLosingAgainst); ok {
			bets = append(bets, withMomentumSignals(bet, away, hs))
		}
	}
	return bets
}

func withMomentumSignals(bet models.BetRecord, snap models.MomentumSnapshot, opponent float64) models.BetRecord {
	return bet.WithSignal("momentum_score", snap.MomentumScore).
		WithSignal("current_streak", float64(snap.CurrentStreak)).
		WithSignal("opponent_momentum_score", opponent)
}
