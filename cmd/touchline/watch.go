package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/touchline/internal/advisor"
	"github.com/yourusername/touchline/internal/backtest"
	"github.com/yourusername/touchline/internal/datasource"
	"github.com/yourusername/touchline/internal/health"
	"github.com/yourusername/touchline/internal/logger"
	"github.com/yourusername/touchline/internal/models"
	"github.com/yourusername/touchline/internal/scheduler"
)

const (
	jobRefresh = "refresh_results"
	jobPredict = "predict_next_round"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Refresh results and predict the next round on a schedule",
	Long: `Watch keeps the current season's results file up to date and
recommends bets for the next round on the cron schedules in the watch
section of the config. A status server exposes /health, /ready, /jobs,
/metrics and /predictions/latest.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd.Context())
	},
}

func runWatch(ctx context.Context) error {
	season := cfg.Watch.Season
	if season == 0 {
		season = currentSeason(time.Now().UTC())
	}
	log := appLog.WithFields(logrus.Fields{"league": cfg.Data.League, "season": season})

	adv, err := advisor.New(cfg.Advisor, advisor.Deps{Source: source, Logger: appLog})
	if err != nil {
		return err
	}
	fixtures, err := datasource.NewFixtureSource(cfg.Data.Dir, cfg.Data.League)
	if err != nil {
		return err
	}
	predictor, err := advisor.NewNextRoundPredictor(fixtures, adv, cfg.Data.League, appLog)
	if err != nil {
		return err
	}

	var pinger health.DatabasePinger
	if r, err := openRepositories(ctx); err != nil {
		return err
	} else if r != nil {
		pinger = db
	}

	sched := scheduler.NewScheduler(appLog, cfg.JobTimeout())
	server := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Addr:        cfg.Watch.Addr,
		Logger:      appLog,
		DB:          pinger,
		Jobs:        sched,
	})

	if spec := cfg.Watch.RefreshSchedule; spec != "" {
		if err := sched.Schedule(jobRefresh, spec, refreshJob(season)); err != nil {
			return err
		}
	}
	if spec := cfg.Watch.PredictSchedule; spec != "" {
		if err := sched.Schedule(jobPredict, spec, predictJob(predictor, server, season)); err != nil {
			return err
		}
	}

	if err := server.Start(ctx); err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}

	if cfg.Watch.PredictSchedule != "" {
		if err := sched.RunNow(ctx, jobPredict); err != nil {
			log.WithError(err).Warn("Initial prediction failed")
		}
	}
	server.SetReady(true)
	log.WithField("next_run", sched.NextRun()).Info("Watching")

	<-ctx.Done()
	server.SetReady(false)
	return sched.Stop()
}

// refreshJob downloads the season's results and drops cached seasons
func refreshJob(season int) scheduler.Job {
	httpCfg := datasource.DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.HTTP.MaxRetries
	httpCfg.RateLimit = cfg.HTTP.RateLimit
	client := datasource.NewRateLimitedHTTPClient(httpCfg, logger.NewComponentLogger(appLog, "http"))
	fetcher := datasource.NewSeasonFetcher(client, cfg.HTTP.URLTemplate, cfg.Data.Dir, appLog)

	return func(ctx context.Context) error {
		if _, err := fetcher.Fetch(ctx, cfg.Data.League, season); err != nil {
			return err
		}
		if cached, ok := source.(*datasource.CachedSeasonSource); ok {
			cached.Invalidate()
		}
		return nil
	}
}

// predictJob publishes the next round prediction and writes it to the
// output directory. An exhausted fixture list is not a failure.
func predictJob(predictor *advisor.NextRoundPredictor, server *health.Server, season int) scheduler.Job {
	return func(ctx context.Context) error {
		prediction, err := predictor.Predict(ctx, season, time.Now().UTC())
		if errors.Is(err, models.ErrNoUpcomingFixture) {
			appLog.WithField("season", season).Info("No upcoming fixtures")
			return nil
		}
		if err != nil {
			return err
		}

		server.SetPrediction(prediction)
		name := fmt.Sprintf("predictions_%s_%d_round%d.json", prediction.League, prediction.Season, prediction.Round)
		return backtest.WriteJSON(filepath.Join(cfg.Backtest.OutputDir, name), prediction)
	}
}

// currentSeason is the start year of the season in play at t. Seasons
// start in July.
func currentSeason(t time.Time) int {
	if t.Month() >= time.July {
		return t.Year()
	}
	return t.Year() - 1
}
