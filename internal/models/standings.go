package models

// StandingsRow is one team's line in a derived league table
type StandingsRow struct {
	Team           string `json:"team"`
	Points         int    `json:"points"`
	Played         int    `json:"played"`
	Wins           int    `json:"wins"`
	Draws          int    `json:"draws"`
	Losses         int    `json:"losses"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Rank           int    `json:"rank"`
}

// VenueRecord summarizes a team's results at home or away
type VenueRecord struct {
	Games   int     `json:"games"`
	Wins    int     `json:"wins"`
	Draws   int     `json:"draws"`
	Losses  int     `json:"losses"`
	WinRate float64 `json:"win_rate"`
	Points  int     `json:"points"`
}

// TeamRecord pairs a team's home and away records for one season
type TeamRecord struct {
	Team string      `json:"team"`
	Home VenueRecord `json:"home_record"`
	Away VenueRecord `json:"away_record"`
}
