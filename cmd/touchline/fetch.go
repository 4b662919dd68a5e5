package main

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/touchline/internal/datasource"
	"github.com/yourusername/touchline/internal/logger"
)

var (
	fetchStart int
	fetchEnd   int
)

func init() {
	fetchCmd.Flags().IntVar(&fetchStart, "start", 0, "First season to download")
	fetchCmd.Flags().IntVar(&fetchEnd, "end", 0, "Last season to download (defaults to --start)")
	_ = fetchCmd.MarkFlagRequired("start")
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download season results files into the data directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		end := fetchEnd
		if end == 0 {
			end = fetchStart
		}
		if end < fetchStart {
			return fmt.Errorf("end season %d is before start season %d", end, fetchStart)
		}

		httpCfg := datasource.DefaultHTTPClientConfig()
		httpCfg.Timeout = time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
		httpCfg.MaxRetries = cfg.HTTP.MaxRetries
		httpCfg.RateLimit = cfg.HTTP.RateLimit
		client := datasource.NewRateLimitedHTTPClient(httpCfg, logger.NewComponentLogger(appLog, "http"))
		defer client.Close()

		fetcher := datasource.NewSeasonFetcher(client, cfg.HTTP.URLTemplate, cfg.Data.Dir, appLog)

		failed := 0
		for season := fetchStart; season <= end; season++ {
			path, err := fetcher.Fetch(cmd.Context(), cfg.Data.League, season)
			if err != nil {
				if cmd.Context().Err() != nil {
					return cmd.Context().Err()
				}
				failed++
				appLog.WithFields(logrus.Fields{
					"league": cfg.Data.League,
					"season": season,
				}).WithError(err).Warn("Season download failed")
				continue
			}
			fmt.Printf("%d -> %s\n", season, path)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d seasons failed to download", failed, end-fetchStart+1)
		}
		return nil
	},
}
