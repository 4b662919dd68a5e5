package datasource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/touchline/internal/models"
)

const csvSourceName = "csv"

// Columns every results file is expected to carry
const (
	colDate      = "Date"
	colHomeTeam  = "HomeTeam"
	colAwayTeam  = "AwayTeam"
	colHomeGoals = "FTHG"
	colAwayGoals = "FTAG"
	colResult    = "FTR"
)

var seasonFilePattern = regexp.MustCompile(`^(\d{4})\.csv$`)

// matchDateLayouts are tried in order; normalized files use the first
var matchDateLayouts = []string{"2006-01-02", "02/01/2006", "02/01/06", "2/1/2006"}

// CSVSeasonSource reads season files laid out as <dir>/<year>.csv
type CSVSeasonSource struct {
	league string
	dir    string
}

// NewCSVSeasonSource creates a source for one league directory
func NewCSVSeasonSource(league, dir string) *CSVSeasonSource {
	return &CSVSeasonSource{league: league, dir: dir}
}

// League returns the league identifier
func (s *CSVSeasonSource) League() string {
	return s.league
}

// Path returns the file backing season
func (s *CSVSeasonSource) Path(season int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d.csv", season))
}

// LoadSeason parses the season file
func (s *CSVSeasonSource) LoadSeason(ctx context.Context, season int) (*Season, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path(season))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &models.EngineError{
				Kind:    models.KindMissingData,
				Season:  season,
				Message: fmt.Sprintf("Data file for season %d not found", season),
				Err:     models.ErrSeasonNotFound,
			}
		}
		return nil, NewDataSourceError(csvSourceName, ErrCodeNotFound, s.Path(season), err)
	}
	defer f.Close()

	parsed, err := ParseSeason(f, season)
	if err != nil {
		return nil, NewDataSourceError(csvSourceName, ErrCodeInvalidData, s.Path(season), err)
	}
	parsed.League = s.league
	return parsed, nil
}

// AvailableSeasons lists the season years found in the directory
func (s *CSVSeasonSource) AvailableSeasons(ctx context.Context) ([]int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list seasons in %s: %w", s.dir, err)
	}

	var seasons []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := seasonFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		year, _ := strconv.Atoi(m[1])
		seasons = append(seasons, year)
	}
	sort.Ints(seasons)
	return seasons, nil
}

// Fingerprint identifies the current contents of a season file
func (s *CSVSeasonSource) Fingerprint(_ context.Context, season int) (string, error) {
	info, err := os.Stat(s.Path(season))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d-%d", info.Size(), info.ModTime().UnixNano()), nil
}

// ParseSeason reads a results CSV. Unparseable goals, results or prices are
// left unset on the row rather than failing the whole file.
func ParseSeason(r io.Reader, season int) (*Season, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Season{Year: season}, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	header = cleanHeader(header)
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	out := &Season{Year: season, Columns: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if isBlankRecord(record) {
			continue
		}
		out.Matches = append(out.Matches, parseMatch(record, header, index, season))
	}
	return out, nil
}

func parseMatch(record, header []string, index map[string]int, season int) models.Match {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	m := models.Match{
		Season:    season,
		HomeTeam:  field(colHomeTeam),
		AwayTeam:  field(colAwayTeam),
		HomeGoals: parseGoals(field(colHomeGoals)),
		AwayGoals: parseGoals(field(colAwayGoals)),
		Result:    parseResult(field(colResult)),
		Odds:      make(map[string]float64),
	}
	if d, err := ParseMatchDate(field(colDate)); err == nil {
		m.Date = d
	}

	for i, name := range header {
		if i >= len(record) || isCoreColumn(name) {
			continue
		}
		if price, ok := parseOdds(record[i]); ok {
			m.Odds[name] = price
		}
	}
	return m
}

// ParseMatchDate accepts the normalized YYYY-MM-DD form and the raw
// football-data day-first forms.
func ParseMatchDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range matchDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &models.EngineError{
		Kind:    models.KindInvalidDate,
		Message: fmt.Sprintf("Invalid date format: %s", s),
	}
}

func parseOdds(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return 0, false
	}
	return d.InexactFloat64(), true
}

func parseGoals(s string) *int {
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return nil
	}
	goals := int(d.IntPart())
	return &goals
}

func parseResult(s string) models.ResultCode {
	switch models.ResultCode(strings.ToUpper(s)) {
	case models.ResultHomeWin:
		return models.ResultHomeWin
	case models.ResultDraw:
		return models.ResultDraw
	case models.ResultAwayWin:
		return models.ResultAwayWin
	}
	return ""
}

func isCoreColumn(name string) bool {
	switch name {
	case colDate, colHomeTeam, colAwayTeam, colHomeGoals, colAwayGoals, colResult:
		return true
	}
	return false
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return out
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
