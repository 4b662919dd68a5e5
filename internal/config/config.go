// Package config provides configuration management for the touchline application.
package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Data       DataConfig       `mapstructure:"data" validate:"required"`
	Strategies StrategiesConfig `mapstructure:"strategies" validate:"required"`
	Advisor    AdvisorConfig    `mapstructure:"advisor" validate:"required"`
	Backtest   BacktestConfig   `mapstructure:"backtest"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Cache      CacheConfig      `mapstructure:"cache"`
	HTTP       HTTPConfig       `mapstructure:"http" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Secrets    SecretsConfig    `mapstructure:"secrets"`
	Watch      WatchConfig      `mapstructure:"watch"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
	LogFormat   string `mapstructure:"log_format" validate:"omitempty,oneof=text json"`
}

// DataConfig locates season and fixture files
type DataConfig struct {
	Dir          string `mapstructure:"dir" validate:"required"`
	League       string `mapstructure:"league" validate:"required,league"`
	OddsProvider string `mapstructure:"odds_provider" validate:"required,odds_provider"`
}

// TopBottomConfig holds Top-Bottom strategy defaults
type TopBottomConfig struct {
	TopN                 int  `mapstructure:"top_n" validate:"gte=1,lte=10"`
	IncludeAgainstBottom bool `mapstructure:"include_against_bottom"`
}

// FormConfig holds Form strategy defaults
type FormConfig struct {
	FormGames          int     `mapstructure:"form_games" validate:"gte=1"`
	FormThreshold      float64 `mapstructure:"form_threshold" validate:"gte=0,lte=1"`
	BetAgainstPoorForm bool    `mapstructure:"bet_against_poor_form"`
	PoorFormThreshold  float64 `mapstructure:"poor_form_threshold" validate:"gte=0,lte=1"`
}

// MomentumConfig holds Momentum strategy defaults
type MomentumConfig struct {
	Lookback                 int     `mapstructure:"lookback" validate:"gte=1"`
	WinningThreshold         float64 `mapstructure:"winning_threshold" validate:"gte=0,lte=1"`
	LosingThreshold          float64 `mapstructure:"losing_threshold" validate:"gte=-1,lte=0"`
	BetAgainstLosingMomentum bool    `mapstructure:"bet_against_losing_momentum"`
}

// StrategiesConfig groups per-strategy defaults
type StrategiesConfig struct {
	TopBottom TopBottomConfig `mapstructure:"top_bottom"`
	Form      FormConfig      `mapstructure:"form"`
	Momentum  MomentumConfig  `mapstructure:"momentum"`
}

// AdvisorConfig configures the recommendation advisors
type AdvisorConfig struct {
	Mode              string  `mapstructure:"mode" validate:"required,oneof=weighted waterfall"`
	FormGames         int     `mapstructure:"form_games" validate:"gte=1"`
	FormThreshold     float64 `mapstructure:"form_threshold" validate:"gte=0,lte=1"`
	PoorFormThreshold float64 `mapstructure:"poor_form_threshold" validate:"gte=0,lte=1"`
	MomentumLookback  int     `mapstructure:"momentum_lookback" validate:"gte=1"`
	TopN              int     `mapstructure:"top_n" validate:"gte=1,lte=10"`
}

// BacktestConfig represents backtesting configuration. Zero seasons mean
// "use the available range".
type BacktestConfig struct {
	StartSeason int    `mapstructure:"start_season" validate:"omitempty,season"`
	EndSeason   int    `mapstructure:"end_season" validate:"omitempty,season"`
	TopNValues  []int  `mapstructure:"top_n_values" validate:"dive,gte=1,lte=10"`
	OutputDir   string `mapstructure:"output_dir"`
	Persist     bool   `mapstructure:"persist"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
}

// CacheConfig configures the in-process season cache
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TTLMinutes int  `mapstructure:"ttl_minutes" validate:"omitempty,gt=0"`
	MaxSeasons int  `mapstructure:"max_seasons" validate:"omitempty,gt=0"`
}

// HTTPConfig configures the season file fetcher
type HTTPConfig struct {
	URLTemplate    string  `mapstructure:"url_template" validate:"required"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"gt=0"`
}

// MetricsConfig represents metrics configuration. Batch commands write the
// registry to TextfilePath when enabled.
type MetricsConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	TextfilePath string `mapstructure:"textfile_path"`
}

// SecretsConfig points at an AWS Secrets Manager secret
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region"`
	SecretName string `mapstructure:"secret_name"`
}

// WatchConfig configures the long-running watch mode. Schedules use cron
// syntax; an empty schedule disables that job.
type WatchConfig struct {
	RefreshSchedule   string `mapstructure:"refresh_schedule"`
	PredictSchedule   string `mapstructure:"predict_schedule"`
	Season            int    `mapstructure:"season" validate:"omitempty,season"`
	Addr              string `mapstructure:"addr"`
	JobTimeoutMinutes int    `mapstructure:"job_timeout_minutes" validate:"omitempty,gt=0"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// LeagueDir returns the data directory of the configured league
func (c *Config) LeagueDir() string {
	return filepath.Join(c.Data.Dir, c.Data.League)
}

// CacheTTL returns the season cache expiry
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}

// JobTimeout bounds a single scheduled job run
func (c *Config) JobTimeout() time.Duration {
	return time.Duration(c.Watch.JobTimeoutMinutes) * time.Minute
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
