package models

import "time"

// ResultCode is the full-time result of a match from the home side's view
type ResultCode string

const (
	ResultHomeWin ResultCode = "H"
	ResultDraw    ResultCode = "D"
	ResultAwayWin ResultCode = "A"
)

// Outcome is a single match result from one team's perspective
type Outcome string

const (
	OutcomeWin  Outcome = "W"
	OutcomeDraw Outcome = "D"
	OutcomeLoss Outcome = "L"
)

// OddsColumns names the home/draw/away price columns to read for a season
type OddsColumns struct {
	Home string `json:"home"`
	Draw string `json:"draw"`
	Away string `json:"away"`
}

// Names returns the columns in home, draw, away order
func (c OddsColumns) Names() []string {
	return []string{c.Home, c.Draw, c.Away}
}

// MatchOdds holds the decimal prices for one fixture
type MatchOdds struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// Match represents one historical fixture loaded from a season file.
// HomeGoals, AwayGoals and Result are nil when the row did not carry them.
type Match struct {
	Season    int                `json:"season"`
	Date      time.Time          `json:"date"`
	HomeTeam  string             `json:"home_team"`
	AwayTeam  string             `json:"away_team"`
	HomeGoals *int               `json:"home_goals,omitempty"`
	AwayGoals *int               `json:"away_goals,omitempty"`
	Result    ResultCode         `json:"result,omitempty"`
	Odds      map[string]float64 `json:"odds,omitempty"`
}

// Complete reports whether the row has teams, goals and a result code
func (m *Match) Complete() bool {
	return m.HomeTeam != "" && m.AwayTeam != "" &&
		m.HomeGoals != nil && m.AwayGoals != nil && m.Result != ""
}

// Involves reports whether team played in the match
func (m *Match) Involves(team string) bool {
	return m.HomeTeam == team || m.AwayTeam == team
}

// OutcomeFor classifies the match result for team. The second return value
// is false when team did not play or the result is unknown.
func (m *Match) OutcomeFor(team string) (Outcome, bool) {
	if m.Result == "" {
		return "", false
	}
	switch team {
	case m.HomeTeam:
		switch m.Result {
		case ResultHomeWin:
			return OutcomeWin, true
		case ResultAwayWin:
			return OutcomeLoss, true
		}
		return OutcomeDraw, true
	case m.AwayTeam:
		switch m.Result {
		case ResultAwayWin:
			return OutcomeWin, true
		case ResultHomeWin:
			return OutcomeLoss, true
		}
		return OutcomeDraw, true
	}
	return "", false
}

// OddsFor returns the three prices named by cols. ok is false if any of them
// is absent from the row.
func (m *Match) OddsFor(cols OddsColumns) (MatchOdds, bool) {
	home, okH := m.Odds[cols.Home]
	draw, okD := m.Odds[cols.Draw]
	away, okA := m.Odds[cols.Away]
	return MatchOdds{Home: home, Draw: draw, Away: away}, okH && okD && okA
}

// Opponent returns the other side of the fixture
func (m *Match) Opponent(team string) string {
	if team == m.HomeTeam {
		return m.AwayTeam
	}
	return m.HomeTeam
}
