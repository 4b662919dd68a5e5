package datasource

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/touchline/internal/logger"
	"github.com/yourusername/touchline/internal/metrics"
)

const fetcherSourceName = "fetcher"

// SeasonFetcher downloads season results files into the data directory
type SeasonFetcher struct {
	client      *RateLimitedHTTPClient
	urlTemplate string
	dataDir     string
	log         *logrus.Entry
}

// NewSeasonFetcher creates a fetcher. urlTemplate may reference {season_code}
// (e.g. 2324 for 2023), {season} and {division}.
func NewSeasonFetcher(client *RateLimitedHTTPClient, urlTemplate, dataDir string, log *logrus.Logger) *SeasonFetcher {
	return &SeasonFetcher{
		client:      client,
		urlTemplate: urlTemplate,
		dataDir:     dataDir,
		log:         logger.NewComponentLogger(log, "fetcher"),
	}
}

// SeasonURL expands the template for league and season
func (f *SeasonFetcher) SeasonURL(league string, season int) (string, error) {
	division, ok := Division(league)
	if !ok {
		return "", fmt.Errorf("unsupported league: %s", league)
	}
	return strings.NewReplacer(
		"{season_code}", fmt.Sprintf("%02d%02d", season%100, (season+1)%100),
		"{season}", fmt.Sprintf("%d", season),
		"{division}", division,
	).Replace(f.urlTemplate), nil
}

// Fetch downloads one season into <dataDir>/<league>/<season>.csv and returns
// the path written. The body must parse as a results file before it replaces
// any existing file.
func (f *SeasonFetcher) Fetch(ctx context.Context, league string, season int) (path string, err error) {
	defer func() { metrics.RecordSeasonFetch(league, err) }()

	url, err := f.SeasonURL(league, season)
	if err != nil {
		return "", err
	}

	resp, err := f.client.Get(ctx, url)
	if err != nil {
		return "", NewDataSourceError(fetcherSourceName, ErrCodeNetworkError, url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", NewDataSourceError(fetcherSourceName, ErrCodeNotFound, url, ErrNotFound)
	case resp.StatusCode >= 500:
		return "", NewDataSourceError(fetcherSourceName, ErrCodeServerError, url, ErrServerError)
	case resp.StatusCode != http.StatusOK:
		return "", NewDataSourceError(fetcherSourceName, ErrCodeNetworkError, fmt.Sprintf("%s: status %d", url, resp.StatusCode), ErrNetworkError)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewDataSourceError(fetcherSourceName, ErrCodeNetworkError, url, err)
	}

	parsed, err := ParseSeason(bytes.NewReader(body), season)
	if err != nil || len(parsed.Matches) == 0 {
		if err == nil {
			err = ErrInvalidData
		}
		return "", NewDataSourceError(fetcherSourceName, ErrCodeInvalidData, url, err)
	}

	dir := filepath.Join(f.dataDir, league)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path = filepath.Join(dir, fmt.Sprintf("%d.csv", season))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("failed to replace %s: %w", path, err)
	}

	f.log.WithFields(logrus.Fields{
		"league":  league,
		"season":  season,
		"matches": len(parsed.Matches),
		"path":    path,
	}).Info("Season file downloaded")
	return path, nil
}
