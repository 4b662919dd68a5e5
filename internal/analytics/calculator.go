package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/touchline/internal/datasource"
	"github.com/yourusername/touchline/internal/models"
)

// Calculator answers standings and signal queries against a season source
type Calculator struct {
	source datasource.SeasonSource
}

// NewCalculator creates a calculator reading from source
func NewCalculator(source datasource.SeasonSource) *Calculator {
	return &Calculator{source: source}
}

// Source returns the underlying season source
func (c *Calculator) Source() datasource.SeasonSource {
	return c.source
}

// Matches loads the rows of one season
func (c *Calculator) Matches(ctx context.Context, season int) ([]models.Match, error) {
	s, err := c.source.LoadSeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to load season %d: %w", season, err)
	}
	return s.Matches, nil
}

// LeagueTable builds the standings for season
func (c *Calculator) LeagueTable(ctx context.Context, season int) (*Table, error) {
	matches, err := c.Matches(ctx, season)
	if err != nil {
		return nil, err
	}
	return BuildLeagueTable(season, matches), nil
}

// Form computes team's form in season as of asOf
func (c *Calculator) Form(ctx context.Context, team string, season int, asOf time.Time, window int) (models.FormSnapshot, error) {
	matches, err := c.Matches(ctx, season)
	if err != nil {
		return models.FormSnapshot{}, err
	}
	return FormFromMatches(matches, team, asOf, window), nil
}

// Momentum computes team's momentum in season as of asOf
func (c *Calculator) Momentum(ctx context.Context, team string, season int, asOf time.Time, window int) (models.MomentumSnapshot, error) {
	matches, err := c.Matches(ctx, season)
	if err != nil {
		return models.MomentumSnapshot{}, err
	}
	return MomentumFromMatches(matches, team, asOf, window), nil
}

// TeamRecord returns team's home and away records for season
func (c *Calculator) TeamRecord(ctx context.Context, team string, season int) (models.TeamRecord, error) {
	matches, err := c.Matches(ctx, season)
	if err != nil {
		return models.TeamRecord{}, err
	}
	return TeamRecords(season, matches, team)
}
