package models

import "time"

// Fixture is an upcoming match from the fixtures feed
type Fixture struct {
	Date     time.Time `json:"date"`
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
	Round    int       `json:"round"`
	Location string    `json:"location"`
	Result   string    `json:"result,omitempty"`
}

// Played reports whether the feed already carries a score for the fixture
func (f *Fixture) Played() bool {
	return f.Result != ""
}

// Opinion is one strategy's view of a fixture
type Opinion struct {
	Strategy   string  `json:"strategy"`
	Team       string  `json:"team"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Recommendation is the suggested bet for a fixture. RecommendedTeam is nil
// when no strategy found an opportunity.
type Recommendation struct {
	HomeTeam             string             `json:"home_team"`
	AwayTeam             string             `json:"away_team"`
	Date                 time.Time          `json:"date"`
	Round                int                `json:"round,omitempty"`
	RecommendedTeam      *string            `json:"recommended_team"`
	Strategy             string             `json:"strategy"`
	Confidence           float64            `json:"confidence"`
	Reason               string             `json:"reason"`
	BetType              string             `json:"bet_type,omitempty"`
	Priority             int                `json:"priority,omitempty"`
	DetailedReason       string             `json:"detailed_reason,omitempty"`
	SupportingStrategies []string           `json:"supporting_strategies,omitempty"`
	AllScores            map[string]float64 `json:"all_scores,omitempty"`
	Individual           map[string]Opinion `json:"individual_strategies,omitempty"`
}

// HasBet reports whether the recommendation names a team
func (r *Recommendation) HasBet() bool {
	return r.RecommendedTeam != nil
}

// PredictionSummary aggregates a round of recommendations
type PredictionSummary struct {
	TotalGames           int       `json:"total_games"`
	BettingOpportunities int       `json:"betting_opportunities"`
	AverageConfidence    float64   `json:"average_confidence"`
	RoundDate            time.Time `json:"round_date"`
}

// RoundPrediction is the advisor output for the next round of fixtures
type RoundPrediction struct {
	League          string            `json:"league"`
	Season          int               `json:"season"`
	Round           int               `json:"round"`
	Advisor         string            `json:"advisor"`
	Recommendations []Recommendation  `json:"predictions"`
	Summary         PredictionSummary `json:"summary"`
}
