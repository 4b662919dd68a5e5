package backtest

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/yourusername/touchline/internal/models"
)

// EquityPoint is the running unit-stake balance after one bet
type EquityPoint struct {
	Time     time.Time `json:"time"`
	Season   int       `json:"season"`
	Value    float64   `json:"value"`
	Drawdown float64   `json:"drawdown"`
	BetPnL   float64   `json:"bet_pnl"`
}

// EquityCurve represents a time-series of equity points
type EquityCurve []EquityPoint

// BuildEquityCurve accumulates bet profits in the order given, starting
// from zero. Drawdown is measured in stake units below the running peak.
func BuildEquityCurve(bets []models.BetRecord) EquityCurve {
	curve := make(EquityCurve, 0, len(bets))
	value := 0.0
	peak := 0.0
	for _, b := range bets {
		value += b.Profit
		if value > peak {
			peak = value
		}
		curve = append(curve, EquityPoint{
			Time:     b.Date,
			Season:   b.Season,
			Value:    value,
			Drawdown: peak - value,
			BetPnL:   b.Profit,
		})
	}
	return curve
}

// MaxDrawdown is the largest fall from a running peak, in stake units
func (e EquityCurve) MaxDrawdown() float64 {
	maxDD := 0.0
	for _, p := range e {
		if p.Drawdown > maxDD {
			maxDD = p.Drawdown
		}
	}
	return maxDD
}

// Final returns the closing balance
func (e EquityCurve) Final() float64 {
	if len(e) == 0 {
		return 0
	}
	return e[len(e)-1].Value
}

// GetVolatility calculates the standard deviation of per-bet profit
func (e EquityCurve) GetVolatility() float64 {
	if len(e) == 0 {
		return 0
	}
	pnl := make([]float64, len(e))
	for i, p := range e {
		pnl[i] = p.BetPnL
	}
	_, std := meanStd(pnl)
	return std
}

// WriteCSV exports the equity curve as CSV
func (e EquityCurve) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "season", "value", "drawdown", "bet_pnl"}); err != nil {
		return err
	}
	for _, p := range e {
		row := []string{
			p.Time.Format(time.RFC3339),
			strconv.Itoa(p.Season),
			formatFloat(p.Value),
			formatFloat(p.Drawdown),
			formatFloat(p.BetPnL),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToJSON exports equity curve to JSON string
func (e EquityCurve) ToJSON() string {
	data, _ := json.Marshal(e)
	return string(data)
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
