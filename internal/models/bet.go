package models

import (
	"time"

	"github.com/google/uuid"
)

// BetDirection says whether a bet backs a team to win or not to win
type BetDirection string

const (
	DirectionFor     BetDirection = "FOR"
	DirectionAgainst BetDirection = "AGAINST"
)

// DrawSelection is the BetTeam value of a bet placed on the draw
const DrawSelection = "DRAW"

// UnitStake is the notional stake of every backtest bet
const UnitStake = 1.0

// BetRecord is one notional wager generated against a historical match
type BetRecord struct {
	ID        uuid.UUID          `json:"id"`
	Season    int                `json:"season"`
	Date      time.Time          `json:"date"`
	HomeTeam  string             `json:"home_team"`
	AwayTeam  string             `json:"away_team"`
	BetTeam   string             `json:"bet_team"`
	Direction BetDirection       `json:"direction"`
	BetType   string             `json:"bet_type"`
	Odds      float64            `json:"odds"`
	Stake     float64            `json:"stake"`
	Result    ResultCode         `json:"actual_result"`
	Won       bool               `json:"bet_won"`
	Winnings  float64            `json:"winnings"`
	Profit    float64            `json:"profit"`
	Signals   map[string]float64 `json:"signals,omitempty"`
}

// NewBetRecord settles a unit-stake bet on team against the match result.
// A FOR bet on DrawSelection wins only on a draw. An AGAINST bet wins when
// team does not win.
func NewBetRecord(m *Match, team string, dir BetDirection, betType string, odds float64) BetRecord {
	won := settle(m, team, dir)
	winnings := 0.0
	if won {
		winnings = UnitStake * odds
	}
	return BetRecord{
		ID:        uuid.New(),
		Season:    m.Season,
		Date:      m.Date,
		HomeTeam:  m.HomeTeam,
		AwayTeam:  m.AwayTeam,
		BetTeam:   team,
		Direction: dir,
		BetType:   betType,
		Odds:      odds,
		Stake:     UnitStake,
		Result:    m.Result,
		Won:       won,
		Winnings:  winnings,
		Profit:    winnings - UnitStake,
	}
}

// WithSignal attaches a named signal value to the record
func (b BetRecord) WithSignal(name string, value float64) BetRecord {
	signals := make(map[string]float64, len(b.Signals)+1)
	for k, v := range b.Signals {
		signals[k] = v
	}
	signals[name] = value
	b.Signals = signals
	return b
}

func settle(m *Match, team string, dir BetDirection) bool {
	if team == DrawSelection {
		return m.Result == ResultDraw
	}
	outcome, ok := m.OutcomeFor(team)
	if !ok {
		return false
	}
	if dir == DirectionAgainst {
		return outcome != OutcomeWin
	}
	return outcome == OutcomeWin
}
