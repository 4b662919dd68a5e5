package analytics

import "github.com/yourusername/touchline/internal/models"

// TeamRecords splits a team's results in matches into home and away records.
// It fails when the team has no result at either venue.
func TeamRecords(season int, matches []models.Match, team string) (models.TeamRecord, error) {
	rec := models.TeamRecord{Team: team}
	for i := range matches {
		m := &matches[i]
		if m.Result == "" {
			continue
		}
		outcome, ok := m.OutcomeFor(team)
		if !ok {
			continue
		}
		venue := &rec.Away
		if m.HomeTeam == team {
			venue = &rec.Home
		}
		venue.Games++
		switch outcome {
		case models.OutcomeWin:
			venue.Wins++
		case models.OutcomeDraw:
			venue.Draws++
		default:
			venue.Losses++
		}
	}

	if rec.Home.Games == 0 {
		return rec, models.NewEngineError(models.KindInsufficientHistory, season,
			"No home games found for %s in season %d", team, season)
	}
	if rec.Away.Games == 0 {
		return rec, models.NewEngineError(models.KindInsufficientHistory, season,
			"No away games found for %s in season %d", team, season)
	}
	finishRecord(&rec.Home)
	finishRecord(&rec.Away)
	return rec, nil
}

func finishRecord(v *models.VenueRecord) {
	v.Points = v.Wins*3 + v.Draws
	if v.Games > 0 {
		v.WinRate = float64(v.Wins) / float64(v.Games)
	}
}
