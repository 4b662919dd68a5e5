package datasource

import (
	"context"
	"errors"

	"github.com/yourusername/touchline/internal/models"
)

// SeasonSource loads historical match data for one league
type SeasonSource interface {
	// LoadSeason returns every row of the season file
	LoadSeason(ctx context.Context, season int) (*Season, error)

	// AvailableSeasons lists the seasons with data, ascending
	AvailableSeasons(ctx context.Context) ([]int, error)

	// League returns the league identifier the source serves
	League() string
}

// FixtureSource loads the upcoming-fixtures feed for one league
type FixtureSource interface {
	LoadFixtures(ctx context.Context, season int) ([]models.Fixture, error)
}

// Season is one parsed season file
type Season struct {
	League  string
	Year    int
	Columns []string
	Matches []models.Match
}

// MissingColumns returns the names in cols that the season file lacks
func (s *Season) MissingColumns(cols models.OddsColumns) []string {
	present := make(map[string]struct{}, len(s.Columns))
	for _, c := range s.Columns {
		present[c] = struct{}{}
	}
	var missing []string
	for _, name := range cols.Names() {
		if _, ok := present[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string
	Code    string
	Message string
	Err     error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeNotFound     = "not_found"
	ErrCodeInvalidData  = "invalid_data"
	ErrCodeNetworkError = "network_error"
	ErrCodeServerError  = "server_error"
)

// Error constructors
var (
	ErrNotFound     = errors.New("data not found")
	ErrInvalidData  = errors.New("invalid data format")
	ErrNetworkError = errors.New("network error")
	ErrServerError  = errors.New("server error")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
