package strategy

import (
	"context"
	"fmt"

	"github.com/yourusername/touchline/internal/analytics"
	"github.com/yourusername/touchline/internal/models"
)

// TopBottom backs the previous season's top N teams and bets against the
// N teams just above the relegation places.
type TopBottom struct {
	base
	params TopBottomParams
}

// Kind returns KindTopBottom
func (s *TopBottom) Kind() Kind { return KindTopBottom }

// Name describes the configured variant
func (s *TopBottom) Name() string {
	if s.params.IncludeAgainstBottom {
		return fmt.Sprintf("Top %d teams FOR + Bottom %d teams AGAINST", s.params.TopN, s.params.TopN)
	}
	return fmt.Sprintf("Top %d teams FOR only", s.params.TopN)
}

// Parameters returns the settings that identify this run
func (s *TopBottom) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"top_n":                  s.params.TopN,
		"include_against_bottom": s.params.IncludeAgainstBottom,
		"odds_provider":          s.provider,
	}
}

// Seasons skips the earliest available season, which has no predecessor
// to rank teams from.
func (s *TopBottom) Seasons(ctx context.Context, start, end int) ([]int, error) {
	available, err := s.availableSeasons(ctx)
	if err != nil {
		return nil, err
	}
	first := available[0]
	if start == 0 {
		start = first + 1
	}
	return filterSeasons(available, start, end, first)
}

// AnalyzeSeason bets season's matches using the previous season's table
func (s *TopBottom) AnalyzeSeason(ctx context.Context, season int) (*models.SeasonResult, error) {
	previous := s.params.PreviousSeason
	if previous == 0 {
		previous = season - 1
	}

	prevData, err := s.source.LoadSeason(ctx, previous)
	if err != nil {
		return nil, &models.EngineError{
			Kind:    models.KindMissingData,
			Season:  season,
			Message: fmt.Sprintf("Previous season %d data not found", previous),
			Err:     err,
		}
	}
	table := analytics.BuildLeagueTable(previous, prevData.Matches)
	top := table.TopTeams(s.params.TopN)
	var bottom []string
	if s.params.IncludeAgainstBottom {
		bottom = table.BottomTeams(s.params.TopN)
	}

	data, cols, err := s.loadSeason(ctx, season)
	if err != nil {
		return nil, err
	}

	return s.run(season, s.Name(), func() (*models.SeasonResult, int, error) {
		result := &models.SeasonResult{
			TopTeams:       top,
			BottomTeams:    bottom,
			PreviousSeason: previous,
		}
		d := topBottomDecider{table: table, top: toSet(top), bottom: toSet(bottom)}
		for i := range data.Matches {
			m := &data.Matches[i]
			if !usable(m) || !hasTeamPrices(m, cols) {
				continue
			}
			for _, bet := range d.decide(m, cols) {
				result.BetDetails = append(result.BetDetails, s.record(s.Name(), bet))
			}
		}
		return result, len(data.Matches), nil
	})
}

type topBottomDecider struct {
	table  *analytics.Table
	top    map[string]bool
	bottom map[string]bool
}

// decide applies the match classification in precedence order: top vs
// bottom, top vs top, bottom vs bottom, then independent FOR/AGAINST legs.
func (d topBottomDecider) decide(m *models.Match, cols models.OddsColumns) []models.BetRecord {
	home, away := m.HomeTeam, m.AwayTeam
	var bets []models.BetRecord
	add := func(bet models.BetRecord, ok bool) {
		if ok {
			bets = append(bets, d.withRank(bet))
		}
	}

	switch {
	case (d.top[home] && d.bottom[away]) || (d.top[away] && d.bottom[home]):
		for _, team := range d.playing(m, d.top) {
			add(betFor(m, cols, team, string(models.DirectionFor)))
		}
	case d.top[home] && d.top[away]:
		add(betFor(m, cols, d.higherRanked(home, away), string(models.DirectionFor)))
	case d.bottom[home] && d.bottom[away]:
		add(betAgainst(m, cols, d.higherRanked(home, away), string(models.DirectionAgainst)))
	default:
		for _, team := range d.playing(m, d.top) {
			add(betFor(m, cols, team, string(models.DirectionFor)))
		}
		for _, team := range d.playing(m, d.bottom) {
			add(betAgainst(m, cols, team, string(models.DirectionAgainst)))
		}
	}
	return bets
}

// playing returns the participants of m that are in set, home first
func (d topBottomDecider) playing(m *models.Match, set map[string]bool) []string {
	var teams []string
	for _, team := range []string{m.HomeTeam, m.AwayTeam} {
		if set[team] {
			teams = append(teams, team)
		}
	}
	return teams
}

// higherRanked returns whichever team finished higher; away wins ties
func (d topBottomDecider) higherRanked(home, away string) string {
	homeRank, _ := d.table.Rank(home)
	awayRank, _ := d.table.Rank(away)
	if homeRank < awayRank {
		return home
	}
	return away
}

func (d topBottomDecider) withRank(bet models.BetRecord) models.BetRecord {
	if rank, ok := d.table.Rank(bet.BetTeam); ok {
		return bet.WithSignal("previous_rank", float64(rank))
	}
	return bet
}

func toSet(teams []string) map[string]bool {
	set := make(map[string]bool, len(teams))
	for _, t := range teams {
		set[t] = true
	}
	return set
}
