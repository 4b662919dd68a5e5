package advisor

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/touchline/internal/datasource"
	"github.com/yourusername/touchline/internal/logger"
	"github.com/yourusername/touchline/internal/models"
)

// NextRoundPredictor recommends bets for the earliest round that has not
// been played yet
type NextRoundPredictor struct {
	fixtures datasource.FixtureSource
	advisor  Advisor
	league   string
	logger   *logrus.Entry
}

// NewNextRoundPredictor creates a predictor for league
func NewNextRoundPredictor(fixtures datasource.FixtureSource, advisor Advisor, league string, log *logrus.Logger) (*NextRoundPredictor, error) {
	if fixtures == nil {
		return nil, fmt.Errorf("fixture source is required")
	}
	if advisor == nil {
		return nil, fmt.Errorf("advisor is required")
	}
	if log == nil {
		log = logger.Discard()
	}
	return &NextRoundPredictor{
		fixtures: fixtures,
		advisor:  advisor,
		league:   league,
		logger:   logger.NewComponentLogger(log, "predictor"),
	}, nil
}

// Predict loads the fixture feed of season and runs the advisor over
// every fixture of the next round. A fixture counts as upcoming when it
// has no result or is dated after asOf.
func (p *NextRoundPredictor) Predict(ctx context.Context, season int, asOf time.Time) (*models.RoundPrediction, error) {
	all, err := p.fixtures.LoadFixtures(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixtures: %w", err)
	}

	round, fixtures := NextRound(all, asOf)
	if len(fixtures) == 0 {
		return nil, models.ErrNoUpcomingFixture
	}

	prediction := &models.RoundPrediction{
		League:          p.league,
		Season:          season,
		Round:           round,
		Advisor:         p.advisor.Name(),
		Recommendations: make([]models.Recommendation, 0, len(fixtures)),
	}
	for _, f := range fixtures {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		prediction.Recommendations = append(prediction.Recommendations, p.advisor.Recommend(ctx, f, season))
	}
	prediction.Summary = Summarize(prediction.Recommendations, fixtures)

	p.logger.WithFields(logrus.Fields{
		"league":                p.league,
		"season":                season,
		"round":                 round,
		"games":                 prediction.Summary.TotalGames,
		"betting_opportunities": prediction.Summary.BettingOpportunities,
	}).Info("Next round predicted")
	return prediction, nil
}

// NextRound returns the lowest round number among upcoming fixtures and
// that round's fixtures in kick-off order
func NextRound(fixtures []models.Fixture, asOf time.Time) (int, []models.Fixture) {
	var upcoming []models.Fixture
	for _, f := range fixtures {
		if !f.Played() || f.Date.After(asOf) {
			upcoming = append(upcoming, f)
		}
	}
	if len(upcoming) == 0 {
		return 0, nil
	}

	round := upcoming[0].Round
	for _, f := range upcoming[1:] {
		if f.Round < round {
			round = f.Round
		}
	}

	var out []models.Fixture
	for _, f := range upcoming {
		if f.Round == round {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return round, out
}

// Summarize counts the opportunities in recs. Average confidence is taken
// over the fixtures that have a recommended team.
func Summarize(recs []models.Recommendation, fixtures []models.Fixture) models.PredictionSummary {
	summary := models.PredictionSummary{TotalGames: len(recs)}
	total := 0.0
	for _, r := range recs {
		if r.HasBet() {
			summary.BettingOpportunities++
			total += r.Confidence
		}
	}
	if summary.BettingOpportunities > 0 {
		summary.AverageConfidence = total / float64(summary.BettingOpportunities)
	}
	for _, f := range fixtures {
		if f.Date.IsZero() {
			continue
		}
		if summary.RoundDate.IsZero() || f.Date.Before(summary.RoundDate) {
			summary.RoundDate = f.Date
		}
	}
	return summary
}
