// Package config provides configuration management for the touchline application.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "TOUCHLINE"

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration like Load but tolerates a missing file,
// falling back to defaults and environment variables.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := newViper()
	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "touchline")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "text")

	v.SetDefault("data.dir", "data")
	v.SetDefault("data.league", "premier_league")
	v.SetDefault("data.odds_provider", "bet365")

	v.SetDefault("strategies.top_bottom.top_n", 3)
	v.SetDefault("strategies.top_bottom.include_against_bottom", true)
	v.SetDefault("strategies.form.form_games", 5)
	v.SetDefault("strategies.form.form_threshold", 0.6)
	v.SetDefault("strategies.form.bet_against_poor_form", true)
	v.SetDefault("strategies.form.poor_form_threshold", 0.3)
	v.SetDefault("strategies.momentum.lookback", 10)
	v.SetDefault("strategies.momentum.winning_threshold", 0.2)
	v.SetDefault("strategies.momentum.losing_threshold", -0.2)
	v.SetDefault("strategies.momentum.bet_against_losing_momentum", true)

	v.SetDefault("advisor.mode", "waterfall")
	v.SetDefault("advisor.form_games", 3)
	v.SetDefault("advisor.form_threshold", 0.6)
	v.SetDefault("advisor.poor_form_threshold", 0.4)
	v.SetDefault("advisor.momentum_lookback", 10)
	v.SetDefault("advisor.top_n", 3)

	v.SetDefault("backtest.start_season", 0)
	v.SetDefault("backtest.end_season", 0)
	v.SetDefault("backtest.top_n_values", []int{3, 4, 5, 6})
	v.SetDefault("backtest.output_dir", "output")
	v.SetDefault("backtest.persist", false)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "touchline")
	v.SetDefault("database.user", "touchline")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 5)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl_minutes", 30)
	v.SetDefault("cache.max_seasons", 64)

	v.SetDefault("http.url_template", "https://www.football-data.co.uk/mmz4281/{season_code}/{division}.csv")
	v.SetDefault("http.timeout_seconds", 30)
	v.SetDefault("http.max_retries", 3)
	v.SetDefault("http.rate_limit", 1.0)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.textfile_path", "")

	v.SetDefault("secrets.enabled", false)
	v.SetDefault("secrets.region", "eu-west-2")
	v.SetDefault("secrets.secret_name", "")

	v.SetDefault("watch.refresh_schedule", "0 6 * * *")
	v.SetDefault("watch.predict_schedule", "30 6 * * *")
	v.SetDefault("watch.season", 0)
	v.SetDefault("watch.addr", ":8080")
	v.SetDefault("watch.job_timeout_minutes", 10)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}
