// Package main provides the entry point for the touchline command line tool.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/touchline/internal/config"
	"github.com/yourusername/touchline/internal/database"
	"github.com/yourusername/touchline/internal/datasource"
	"github.com/yourusername/touchline/internal/logger"
	"github.com/yourusername/touchline/internal/metrics"
	"github.com/yourusername/touchline/internal/repository"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	leagueFlag string
	logLevel   string

	cfg    *config.Config
	appLog *logrus.Logger
	source datasource.SeasonSource
	db     *database.DB
	repos  *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&leagueFlag, "league", "l", "", "League to analyse (overrides data.league)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides app.log_level)")

	rootCmd.AddCommand(
		tableCmd,
		formCmd,
		momentumCmd,
		recordCmd,
		backtestCmd,
		sweepCmd,
		compareCmd,
		historyCmd,
		predictCmd,
		fetchCmd,
		versionCmd,
	)
}

var rootCmd = &cobra.Command{
	Use:   "touchline",
	Short: "Backtest football betting strategies and recommend bets",
	Long: `Touchline derives league tables, form and momentum from historical
results files, backtests betting strategies over seasons and recommends
bets for the next round of fixtures.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == versionCmd {
			return nil
		}
		if err := loadConfigWithSecrets(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if db != nil {
			db.Close()
		}
		if cfg == nil || !cfg.Metrics.Enabled || cfg.Metrics.TextfilePath == "" {
			return nil
		}
		if err := metrics.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("touchline %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		log.Fatalf("Error: %v", err)
	}
}

// loadConfigWithSecrets reads the config file, applies flag overrides and
// overlays AWS secrets before validating
func loadConfigWithSecrets(ctx context.Context) error {
	loaded, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	if leagueFlag != "" {
		loaded.Data.League = leagueFlag
	}
	if logLevel != "" {
		loaded.App.LogLevel = logLevel
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		loaded.Secrets.Enabled = true
		if region := os.Getenv("AWS_REGION"); region != "" {
			loaded.Secrets.Region = region
		}
		if name := os.Getenv("AWS_SECRET_NAME"); name != "" {
			loaded.Secrets.SecretName = name
		}
	}
	if err := config.LoadSecretsFromAWS(ctx, loaded); err != nil {
		return fmt.Errorf("failed to load secrets from AWS: %w", err)
	}

	if err := config.Validate(loaded); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = loaded
	return nil
}

func setupDependencies() error {
	appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	var err error
	source, err = datasource.NewSeasonSource(datasource.Options{
		DataDir:      cfg.Data.Dir,
		League:       cfg.Data.League,
		CacheEnabled: cfg.Cache.Enabled,
		CacheTTL:     cfg.CacheTTL(),
		CacheSize:    cfg.Cache.MaxSeasons,
	})
	if err != nil {
		return fmt.Errorf("failed to create season source: %w", err)
	}

	appLog.WithFields(logrus.Fields{
		"league":      cfg.Data.League,
		"data_dir":    cfg.Data.Dir,
		"environment": cfg.App.Environment,
	}).Debug("Configuration loaded")
	return nil
}

// openRepositories connects to PostgreSQL on first use. It returns nil
// when the database is disabled.
func openRepositories(ctx context.Context) (*repository.Repositories, error) {
	if !cfg.Database.Enabled {
		return nil, nil
	}
	if repos != nil {
		return repos, nil
	}

	var err error
	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	repos, err = repository.NewRepositories(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}
	appLog.WithField("host", cfg.Database.Host).Info("Database connected")
	return repos, nil
}
