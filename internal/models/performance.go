package models

// PerformanceMetrics aggregates a set of bet records
type PerformanceMetrics struct {
	TotalBets     int     `json:"total_bets"`
	WinningBets   int     `json:"winning_bets"`
	WinRate       float64 `json:"win_rate"`
	TotalStake    float64 `json:"total_stake"`
	TotalWinnings float64 `json:"total_winnings"`
	ProfitLoss    float64 `json:"profit_loss"`
	ROI           float64 `json:"roi"`
}

// DirectionalMetrics is the FOR/AGAINST partition of a bet list plus the combined view
type DirectionalMetrics struct {
	For     PerformanceMetrics `json:"for_bets"`
	Against PerformanceMetrics `json:"against_bets"`
	Overall PerformanceMetrics `json:"overall"`
}

// TeamPerformance is the per-team breakdown of a bet list
type TeamPerformance struct {
	Team        string  `json:"team"`
	ForBets     int     `json:"for_bets"`
	ForWins     int     `json:"for_wins"`
	ForWinRate  float64 `json:"for_win_rate"`
	ForROI      float64 `json:"for_roi"`
	AgainstBets int     `json:"against_bets"`
	AgainstWins int     `json:"against_wins"`
	AgainstRate float64 `json:"against_win_rate"`
	AgainstROI  float64 `json:"against_roi"`
	TotalBets   int     `json:"total_bets"`
}
