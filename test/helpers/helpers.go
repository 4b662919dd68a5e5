// Package helpers builds match fixtures and in-memory sources for tests.
package helpers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yourusername/touchline/internal/datasource"
	"github.com/yourusername/touchline/internal/models"
)

// Day returns midnight UTC on the given date
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Result builds a complete match with the result code derived from the score
func Result(date time.Time, home, away string, homeGoals, awayGoals int) models.Match {
	hg, ag := homeGoals, awayGoals
	result := models.ResultDraw
	switch {
	case hg > ag:
		result = models.ResultHomeWin
	case ag > hg:
		result = models.ResultAwayWin
	}
	return models.Match{
		Season:    SeasonOf(date),
		Date:      date,
		HomeTeam:  home,
		AwayTeam:  away,
		HomeGoals: &hg,
		AwayGoals: &ag,
		Result:    result,
		Odds:      map[string]float64{},
	}
}

// WithOdds sets home/draw/away prices under cols
func WithOdds(m models.Match, cols models.OddsColumns, home, draw, away float64) models.Match {
	odds := make(map[string]float64, len(m.Odds)+3)
	for k, v := range m.Odds {
		odds[k] = v
	}
	odds[cols.Home] = home
	odds[cols.Draw] = draw
	odds[cols.Away] = away
	m.Odds = odds
	return m
}

// SeasonOf maps a date onto the season year that starts in August
func SeasonOf(date time.Time) int {
	if date.Month() >= time.July {
		return date.Year()
	}
	return date.Year() - 1
}

// MemorySeasonSource serves seasons from memory
type MemorySeasonSource struct {
	LeagueName string
	Seasons    map[int]*datasource.Season
	Loads      int
}

// NewMemorySeasonSource creates an empty in-memory source
func NewMemorySeasonSource(league string) *MemorySeasonSource {
	return &MemorySeasonSource{LeagueName: league, Seasons: map[int]*datasource.Season{}}
}

// Add registers matches for season with the given column header
func (s *MemorySeasonSource) Add(season int, columns []string, matches ...models.Match) *MemorySeasonSource {
	for i := range matches {
		matches[i].Season = season
	}
	s.Seasons[season] = &datasource.Season{League: s.LeagueName, Year: season, Columns: columns, Matches: matches}
	return s
}

// League returns the league name
func (s *MemorySeasonSource) League() string {
	return s.LeagueName
}

// LoadSeason returns the registered season or a missing-data error
func (s *MemorySeasonSource) LoadSeason(_ context.Context, season int) (*datasource.Season, error) {
	s.Loads++
	data, ok := s.Seasons[season]
	if !ok {
		return nil, &models.EngineError{
			Kind:    models.KindMissingData,
			Season:  season,
			Message: fmt.Sprintf("Data file for season %d not found", season),
			Err:     models.ErrSeasonNotFound,
		}
	}
	return data, nil
}

// AvailableSeasons lists registered seasons ascending
func (s *MemorySeasonSource) AvailableSeasons(context.Context) ([]int, error) {
	seasons := make([]int, 0, len(s.Seasons))
	for season := range s.Seasons {
		seasons = append(seasons, season)
	}
	sort.Ints(seasons)
	return seasons, nil
}

// MemoryFixtureSource serves a fixed fixture list
type MemoryFixtureSource struct {
	Fixtures []models.Fixture
	Err      error
}

// LoadFixtures returns the configured fixtures
func (s *MemoryFixtureSource) LoadFixtures(context.Context, int) ([]models.Fixture, error) {
	return s.Fixtures, s.Err
}

// Columns returns the core result columns followed by cols
func Columns(cols ...models.OddsColumns) []string {
	out := []string{"Date", "HomeTeam", "AwayTeam", "FTHG", "FTAG", "FTR"}
	for _, c := range cols {
		out = append(out, c.Names()...)
	}
	return out
}

// WriteSeasonCSV writes rows as <dir>/<season>.csv under the given header
func WriteSeasonCSV(t *testing.T, dir string, season int, header []string, rows [][]string) string {
	t.Helper()

	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(strings.Join(r, ","))
		b.WriteString("\n")
	}

	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, fmt.Sprintf("%d.csv", season))
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}
