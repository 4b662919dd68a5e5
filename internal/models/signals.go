package models

import "time"

// StreakType describes the run at the head of a team's recent results
type StreakType string

const (
	StreakWinning StreakType = "winning"
	StreakLosing  StreakType = "losing"
	StreakDraw    StreakType = "draw"
	StreakNone    StreakType = "none"
)

// FormSnapshot is a team's recent form as of a date
type FormSnapshot struct {
	Team        string    `json:"team"`
	AsOf        time.Time `json:"as_of"`
	GamesPlayed int       `json:"games_played"`
	FormGames   int       `json:"form_games"`
	Wins        int       `json:"wins"`
	Draws       int       `json:"draws"`
	Losses      int       `json:"losses"`
	Points      int       `json:"points"`
	FormScore   float64   `json:"form_score"`
}

// MomentumSnapshot is a team's current streak as of a date
type MomentumSnapshot struct {
	Team          string     `json:"team"`
	AsOf          time.Time  `json:"as_of"`
	GamesPlayed   int        `json:"games_played"`
	Lookback      int        `json:"lookback_games"`
	CurrentStreak int        `json:"current_streak"`
	StreakType    StreakType `json:"streak_type"`
	MomentumScore float64    `json:"momentum_score"`
	RecentResults []Outcome  `json:"recent_results"`
}
