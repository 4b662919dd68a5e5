package backtest

import (
	"fmt"

	"github.com/yourusername/touchline/internal/config"
)

// Config extends core config with runner-specific settings
type Config struct {
	StartSeason int
	EndSeason   int
	TopNValues  []int
	OutputDir   string
	Persist     bool
}

// DefaultTopNValues is the sweep used when none is configured
var DefaultTopNValues = []int{3, 5, 7}

// FromConfig converts app config to runner config
func FromConfig(cfg *config.BacktestConfig) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("backtest config is required")
	}

	bt := Config{
		StartSeason: cfg.StartSeason,
		EndSeason:   cfg.EndSeason,
		TopNValues:  append([]int(nil), cfg.TopNValues...),
		OutputDir:   cfg.OutputDir,
		Persist:     cfg.Persist,
	}
	if len(bt.TopNValues) == 0 {
		bt.TopNValues = append([]int(nil), DefaultTopNValues...)
	}

	return bt, bt.Validate()
}

// Validate validates runner config parameters
func (c Config) Validate() error {
	if c.StartSeason != 0 && c.EndSeason != 0 && c.StartSeason > c.EndSeason {
		return fmt.Errorf("start season %d must not be after end season %d", c.StartSeason, c.EndSeason)
	}
	for _, n := range c.TopNValues {
		if n < 1 || n > 10 {
			return fmt.Errorf("top N value %d must be between 1 and 10", n)
		}
	}
	return nil
}
