package analytics

import (
	"sort"
	"time"

	"github.com/yourusername/touchline/internal/models"
)

// Form bands
const (
	FormExcellent = 0.8
	FormGood      = 0.6
	FormPoor      = 0.3
	FormTerrible  = 0.2
)

// Momentum bands
const (
	MomentumStrongWinning = 0.3
	MomentumGoodWinning   = 0.2
	MomentumStrongLosing  = -0.3
	MomentumGoodLosing    = -0.2
)

// recentResultsShown is the number of outcomes kept on a momentum snapshot
const recentResultsShown = 5

// recentOutcomes returns team's outcomes strictly before asOf, most recent
// first, at most window of them. Matches without a date or result are ignored.
func recentOutcomes(matches []models.Match, team string, asOf time.Time, window int) []models.Outcome {
	type dated struct {
		date    time.Time
		outcome models.Outcome
	}
	var played []dated
	for i := range matches {
		m := &matches[i]
		if m.Date.IsZero() || !m.Date.Before(asOf) {
			continue
		}
		outcome, ok := m.OutcomeFor(team)
		if !ok {
			continue
		}
		played = append(played, dated{date: m.Date, outcome: outcome})
	}

	sort.SliceStable(played, func(i, j int) bool {
		return played[i].date.After(played[j].date)
	})
	if window >= 0 && len(played) > window {
		played = played[:window]
	}

	outcomes := make([]models.Outcome, len(played))
	for i, p := range played {
		outcomes[i] = p.outcome
	}
	return outcomes
}

// FormFromMatches computes team's form over its last window matches before
// asOf. A team with no prior matches gets a zero snapshot.
func FormFromMatches(matches []models.Match, team string, asOf time.Time, window int) models.FormSnapshot {
	snap := models.FormSnapshot{Team: team, AsOf: asOf, FormGames: window}
	outcomes := recentOutcomes(matches, team, asOf, window)
	if len(outcomes) == 0 || window <= 0 {
		return snap
	}

	for _, o := range outcomes {
		switch o {
		case models.OutcomeWin:
			snap.Wins++
		case models.OutcomeDraw:
			snap.Draws++
		default:
			snap.Losses++
		}
	}
	snap.GamesPlayed = len(outcomes)
	snap.Points = snap.Wins*3 + snap.Draws
	snap.FormScore = float64(snap.Points) / float64(window*3)
	return snap
}

// MomentumFromMatches computes team's current streak over its last window
// matches before asOf. Draw-led streaks have length but score zero.
func MomentumFromMatches(matches []models.Match, team string, asOf time.Time, window int) models.MomentumSnapshot {
	snap := models.MomentumSnapshot{Team: team, AsOf: asOf, Lookback: window, StreakType: models.StreakNone}
	outcomes := recentOutcomes(matches, team, asOf, window)
	if len(outcomes) == 0 || window <= 0 {
		return snap
	}

	first := outcomes[0]
	for _, o := range outcomes {
		if o != first {
			break
		}
		snap.CurrentStreak++
	}

	switch first {
	case models.OutcomeWin:
		snap.StreakType = models.StreakWinning
		snap.MomentumScore = float64(snap.CurrentStreak) / float64(window)
	case models.OutcomeLoss:
		snap.StreakType = models.StreakLosing
		snap.MomentumScore = -float64(snap.CurrentStreak) / float64(window)
	default:
		snap.StreakType = models.StreakDraw
	}

	snap.GamesPlayed = len(outcomes)
	shown := outcomes
	if len(shown) > recentResultsShown {
		shown = shown[:recentResultsShown]
	}
	snap.RecentResults = append([]models.Outcome(nil), shown...)
	return snap
}

// ClassifyForm names the band a form score falls into
func ClassifyForm(score float64) string {
	switch {
	case score >= FormExcellent:
		return "excellent"
	case score >= FormGood:
		return "good"
	case score <= FormTerrible:
		return "terrible"
	case score <= FormPoor:
		return "poor"
	}
	return "average"
}

// ClassifyMomentum names the band a momentum score falls into
func ClassifyMomentum(score float64) string {
	switch {
	case score >= MomentumStrongWinning:
		return "strong_winning"
	case score >= MomentumGoodWinning:
		return "good_winning"
	case score <= MomentumStrongLosing:
		return "strong_losing"
	case score <= MomentumGoodLosing:
		return "good_losing"
	}
	return "neutral"
}
