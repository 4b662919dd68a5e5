package datasource

import (
	"fmt"
	"path/filepath"
	"time"
)

// Options configures NewSeasonSource
type Options struct {
	DataDir      string
	League       string
	CacheEnabled bool
	CacheTTL     time.Duration
	CacheSize    int
}

// NewSeasonSource builds the season source for a league, wrapped in a cache
// when enabled
func NewSeasonSource(opts Options) (SeasonSource, error) {
	if !IsSupportedLeague(opts.League) {
		return nil, fmt.Errorf("unsupported league: %s", opts.League)
	}

	var source SeasonSource = NewCSVSeasonSource(opts.League, filepath.Join(opts.DataDir, opts.League))
	if opts.CacheEnabled {
		ttl := opts.CacheTTL
		if ttl <= 0 {
			ttl = 30 * time.Minute
		}
		size := opts.CacheSize
		if size <= 0 {
			size = 64
		}
		source = NewCachedSeasonSource(source, ttl, size)
	}
	return source, nil
}

// NewFixtureSource builds the upcoming-fixtures source for a league
func NewFixtureSource(dataDir, league string) (FixtureSource, error) {
	if !IsSupportedLeague(league) {
		return nil, fmt.Errorf("unsupported league: %s", league)
	}
	return NewCSVFixtureSource(filepath.Join(dataDir, league)), nil
}
