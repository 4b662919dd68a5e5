package backtest

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/yourusername/touchline/internal/models"
)

// BootstrapConfig configures the resampling of a bet sequence
type BootstrapConfig struct {
	Iterations int
	Seed       int64
}

// BootstrapResult describes the ROI distribution of resampled bet sequences
type BootstrapResult struct {
	Iterations          int                   `json:"iterations"`
	MeanROI             float64               `json:"mean_roi"`
	StdROI              float64               `json:"std_roi"`
	ProbabilityOfProfit float64               `json:"probability_of_profit"`
	ConfidenceIntervals map[string][2]float64 `json:"confidence_intervals"`
}

// Bootstrap resamples bets with replacement and reports how stable the
// observed ROI is. Every bet has a unit stake, so ROI is mean profit * 100.
func Bootstrap(bets []models.BetRecord, cfg BootstrapConfig) (BootstrapResult, error) {
	if len(bets) == 0 {
		return BootstrapResult{}, fmt.Errorf("no bets to resample")
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1000
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	rng := rand.New(rand.NewSource(seed))
	distribution := make([]float64, cfg.Iterations)
	for i := range distribution {
		total := 0.0
		for range bets {
			total += bets[rng.Intn(len(bets))].Profit
		}
		distribution[i] = total / float64(len(bets)) * 100
	}
	sort.Float64s(distribution)

	mean, std := meanStd(distribution)
	return BootstrapResult{
		Iterations:          cfg.Iterations,
		MeanROI:             round2(mean),
		StdROI:              round2(std),
		ProbabilityOfProfit: probabilityAbove(distribution, 0),
		ConfidenceIntervals: confidenceIntervals(distribution, []float64{0.9, 0.95}),
	}, nil
}

// confidenceIntervals expects sorted values
func confidenceIntervals(sorted []float64, levels []float64) map[string][2]float64 {
	results := make(map[string][2]float64, len(levels))
	for _, level := range levels {
		p := (1.0 - level) / 2.0
		results[formatPercent(level)] = [2]float64{
			round2(percentile(sorted, p)),
			round2(percentile(sorted, 1.0-p)),
		}
	}
	return results
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Floor(p * float64(len(sorted)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func probabilityAbove(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v > threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}

func formatPercent(level float64) string {
	return fmt.Sprintf("%.0f%%", level*100)
}
