package strategy

import (
	"context"
	"fmt"

	"github.com/yourusername/touchline/internal/analytics"
	"github.com/yourusername/touchline/internal/models"
)

// Form bet types
const (
	BetTypeFormGood        = "FORM_GOOD"
	BetTypeFormPoorAgainst = "FORM_POOR_AGAINST"
)

// Form backs teams in good recent form and optionally bets against teams in
// poor form. The two thresholds are independent bands.
type Form struct {
	base
	params FormParams
}

// Kind returns KindForm
func (s *Form) Kind() Kind { return KindForm }

// Name describes the configured variant
func (s *Form) Name() string {
	return fmt.Sprintf("Form-based (last %d games, threshold %g)", s.params.FormGames, s.params.FormThreshold)
}

// Parameters returns the settings that identify this run
func (s *Form) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"form_games":            s.params.FormGames,
		"form_threshold":        s.params.FormThreshold,
		"bet_against_poor_form": s.params.BetAgainstPoorForm,
		"poor_form_threshold":   s.params.PoorFormThreshold,
		"odds_provider":         s.provider,
	}
}

// Seasons returns every available season in range
func (s *Form) Seasons(ctx context.Context, start, end int) ([]int, error) {
	return s.seasonsInRange(ctx, start, end, 0)
}

// AnalyzeSeason computes both teams' form before each match and bets on the
// bands they fall in. Matches where either side has fewer than FormGames
// prior games are skipped.
func (s *Form) AnalyzeSeason(ctx context.Context, season int) (*models.SeasonResult, error) {
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

			home := analytics.FormFromMatches(data.Matches, m.HomeTeam, m.Date, s.params.FormGames)
			away := analytics.FormFromMatches(data.Matches, m.AwayTeam, m.Date, s.params.FormGames)
			if home.GamesPlayed < s.params.FormGames || away.GamesPlayed < s.params.FormGames {
				continue
			}

			for _, bet := range s.decide(m, cols, home, away) {
				result.BetDetails = append(result.BetDetails, s.record(s.Name(), bet))
			}
		}
		return result, len(data.Matches), nil
	})
}

func (s *Form) decide(m *models.Match, cols models.OddsColumns, home, away models.FormSnapshot) []models.BetRecord {
	var bets []models.BetRecord
	sides := []struct {
		team          string
		score, oppose float64
	}{
		{m.HomeTeam, home.FormScore, away.FormScore},
		{m.AwayTeam, away.FormScore, home.FormScore},
	}

	for _, side := range sides {
		if side.score >= s.params.FormThreshold {
			if bet, ok := betFor(m, cols, side.team, BetTypeFormGood); ok {
				bets = append(bets, withFormSignals(bet, side.score, side.oppose))
			}
		}
	}
	if !s.params.BetAgainstPoorForm {
		return bets
	}
	for _, side := range sides {
		if side.score <= s.params.PoorFormThreshold {
			if bet, ok := betAgainst(m, cols, side.team, BetTypeFormPoorAgainst); ok {
				bets = append(bets, withFormSignals(bet, side.score, side.oppose))
			}
		}
	}
	return bets
}

func withFormSignals(bet models.BetRecord, score, opponent float64) models.BetRecord {
	return bet.WithSignal("form_score", score).WithSignal("opponent_form_score", opponent)
}
