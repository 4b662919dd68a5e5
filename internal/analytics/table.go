// Package analytics derives league standings and per-team signals from match results.
package analytics

import (
	"sort"

	"github.com/yourusername/touchline/internal/models"
)

// relegationPlaces is the number of rows Bottom skips at the foot of the table
const relegationPlaces = 3

// Table is a ranked league table for one season
type Table struct {
	Season int                   `json:"season"`
	Rows   []models.StandingsRow `json:"rows"`
}

// BuildLeagueTable ranks every team appearing in complete matches. Rows are
// ordered by points then goal difference, with remaining ties kept in the
// order teams first appeared.
func BuildLeagueTable(season int, matches []models.Match) *Table {
	index := make(map[string]int)
	var rows []models.StandingsRow

	register := func(team string) {
		if _, ok := index[team]; !ok {
			index[team] = len(rows)
			rows = append(rows, models.StandingsRow{Team: team})
		}
	}

	for i := range matches {
		m := &matches[i]
		if !m.Complete() {
			continue
		}
		// Both teams are registered before taking pointers, since append may
		// move rows.
		register(m.HomeTeam)
		register(m.AwayTeam)
		home := &rows[index[m.HomeTeam]]
		away := &rows[index[m.AwayTeam]]

		home.GoalsFor += *m.HomeGoals
		home.GoalsAgainst += *m.AwayGoals
		home.Played++
		away.GoalsFor += *m.AwayGoals
		away.GoalsAgainst += *m.HomeGoals
		away.Played++

		switch m.Result {
		case models.ResultHomeWin:
			home.Points += 3
			home.Wins++
			away.Losses++
		case models.ResultAwayWin:
			away.Points += 3
			away.Wins++
			home.Losses++
		default:
			home.Points++
			away.Points++
			home.Draws++
			away.Draws++
		}
	}

	for i := range rows {
		rows[i].GoalDifference = rows[i].GoalsFor - rows[i].GoalsAgainst
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].GoalDifference > rows[j].GoalDifference
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}

	return &Table{Season: season, Rows: rows}
}

// Len returns the number of teams in the table
func (t *Table) Len() int {
	return len(t.Rows)
}

// Top returns the first n rows
func (t *Table) Top(n int) []models.StandingsRow {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	if n < 0 {
		n = 0
	}
	return t.Rows[:n]
}

// Bottom returns n rows from above the relegation places, i.e. ranks
// total-n-2 through total-3. Short tables return what is available from the top
// of that window.
func (t *Table) Bottom(n int) []models.StandingsRow {
	if n <= 0 {
		return nil
	}
	start := len(t.Rows) - (n + relegationPlaces)
	if start < 0 {
		start = 0
	}
	end := start + n
	if end > len(t.Rows) {
		end = len(t.Rows)
	}
	return t.Rows[start:end]
}

// TopTeams returns the names of the first n teams
func (t *Table) TopTeams(n int) []string {
	return teamNames(t.Top(n))
}

// BottomTeams returns the names of the Bottom(n) teams
func (t *Table) BottomTeams(n int) []string {
	return teamNames(t.Bottom(n))
}

// Rank returns team's position, or false if it is not in the table
func (t *Table) Rank(team string) (int, bool) {
	for _, r := range t.Rows {
		if r.Team == team {
			return r.Rank, true
		}
	}
	return 0, false
}

func teamNames(rows []models.StandingsRow) []string {
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Team
	}
	return names
}
