package strategy

import (
	"context"

	"github.com/yourusername/touchline/internal/models"
)

// BetTypeHomeWin tags Home-Away bets
const BetTypeHomeWin = "HOME_WIN"

// HomeAway is the baseline: back the home side in every match
type HomeAway struct {
	base
}

// Kind returns KindHomeAway
func (s *HomeAway) Kind() Kind { return KindHomeAway }

// Name describes the strategy
func (s *HomeAway) Name() string { return "Home team to win all games" }

// Parameters returns the settings that identify this run
func (s *HomeAway) Parameters() map[string]interface{} {
	return map[string]interface{}{"odds_provider": s.provider}
}

// Seasons returns every available season in range
func (s *HomeAway) Seasons(ctx context.Context, start, end int) ([]int, error) {
	return s.seasonsInRange(ctx, start, end, 0)
}

// AnalyzeSeason backs every home team at its home price
func (s *HomeAway) AnalyzeSeason(ctx context.Context, season int) (*models.SeasonResult, error) {
	data, cols, err := s.loadSeason(ctx, season)
	if err != nil {
		return nil, err
	}

	return s.run(season, s.Name(), func() (*models.SeasonResult, int, error) {
		result := &models.SeasonResult{}
		for i := range data.Matches {
			m := &data.Matches[i]
			if !usable(m) {
				continue
			}
			if bet, ok := betFor(m, cols, m.HomeTeam, BetTypeHomeWin); ok {
				result.BetDetails = append(result.BetDetails, s.record(s.Name(), bet))
			}
		}
		return result, len(data.Matches), nil
	})
}
