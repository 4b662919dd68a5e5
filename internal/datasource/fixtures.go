package datasource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/touchline/internal/models"
)

const fixtureSourceName = "fixtures"

// Upcoming-fixture feed columns
const (
	colFixtureDate  = "Date"
	colFixtureHome  = "Home Team"
	colFixtureAway  = "Away Team"
	colFixtureRound = "Round Number"
	colFixtureVenue = "Location"
	colFixtureScore = "Result"
)

var fixtureDateLayouts = []string{"2006-01-02", "2006-01-02 15:04", "02/01/2006 15:04", "02/01/2006"}

// CSVFixtureSource reads upcoming_<yy>.csv or upcoming_<yyyy>.csv from a league directory
type CSVFixtureSource struct {
	dir string
}

// NewCSVFixtureSource creates a fixture source rooted at dir
func NewCSVFixtureSource(dir string) *CSVFixtureSource {
	return &CSVFixtureSource{dir: dir}
}

// Path returns the first existing fixture file for season, or the short-form
// name when neither exists.
func (s *CSVFixtureSource) Path(season int) string {
	candidates := []string{
		filepath.Join(s.dir, fmt.Sprintf("upcoming_%02d.csv", season%100)),
		filepath.Join(s.dir, fmt.Sprintf("upcoming_%d.csv", season)),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return candidates[0]
}

// LoadFixtures parses every row of the fixture feed. Rows without a usable
// date or teams are skipped. Team names are normalized onto results-file spellings.
func (s *CSVFixtureSource) LoadFixtures(ctx context.Context, season int) ([]models.Fixture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.Path(season)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, NewDataSourceError(fixtureSourceName, ErrCodeNotFound, path, ErrNotFound)
		}
		return nil, NewDataSourceError(fixtureSourceName, ErrCodeNotFound, path, err)
	}
	defer f.Close()

	fixtures, err := ParseFixtures(f)
	if err != nil {
		return nil, NewDataSourceError(fixtureSourceName, ErrCodeInvalidData, path, err)
	}
	return fixtures, nil
}

// ParseFixtures reads an upcoming-fixtures CSV
func ParseFixtures(r io.Reader) ([]models.Fixture, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	header = cleanHeader(header)
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, required := range []string{colFixtureDate, colFixtureHome, colFixtureAway} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidData, required)
		}
	}

	var fixtures []models.Fixture
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		date, ok := parseFixtureDate(field(colFixtureDate))
		home, away := field(colFixtureHome), field(colFixtureAway)
		if !ok || home == "" || away == "" {
			continue
		}
		round, _ := strconv.Atoi(field(colFixtureRound))

		fixtures = append(fixtures, models.Fixture{
			Date:     date,
			HomeTeam: NormalizeTeamName(home),
			AwayTeam: NormalizeTeamName(away),
			Round:    round,
			Location: field(colFixtureVenue),
			Result:   field(colFixtureScore),
		})
	}
	return fixtures, nil
}

func parseFixtureDate(s string) (time.Time, bool) {
	for _, layout := range fixtureDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Truncate(24 * time.Hour), true
		}
	}
	return time.Time{}, false
}
