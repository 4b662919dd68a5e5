package advisor

import (
	"context"
	"fmt"

	"github.com/yourusername/touchline/internal/models"
)

// Weighted opinion sources
const (
	OpinionMomentum  = "momentum"
	OpinionForm      = "form"
	OpinionTopBottom = "top_bottom"
	OpinionHomeAway  = "home_away"
)

// Weights reflect each strategy's historical return
var defaultWeights = map[string]float64{
	OpinionMomentum:  0.40,
	OpinionForm:      0.30,
	OpinionTopBottom: 0.20,
	OpinionHomeAway:  0.10,
}

// Weighted advisor thresholds. The advisor reads the last three games for
// form and momentum, shorter than the backtest defaults.
const (
	weightedWindow              = 3
	weightedStrongMomentum      = 0.2
	weightedWeakMomentum        = -0.2
	weightedGoodForm            = 0.6
	weightedPoorForm            = 0.4
	weightedTopN                = 3
	weightedTopBottomConfidence = 0.8
	weightedHomeAdvantage       = 0.1
	weightedHomeAwayFactor      = 3
)

// WeightedAdvisor asks momentum, form, top-bottom and home-away for an
// independent opinion and backs the team with the highest weighted score
type WeightedAdvisor struct {
	core
	weights map[string]float64
}

// NewWeightedAdvisor creates a weighted advisor with the stock weights
func NewWeightedAdvisor(deps Deps) *WeightedAdvisor {
	return &WeightedAdvisor{core: newCore(deps), weights: defaultWeights}
}

// Name returns the advisor mode
func (a *WeightedAdvisor) Name() string { return ModeWeighted }

// Recommend combines the four opinions on fixture
func (a *WeightedAdvisor) Recommend(ctx context.Context, fixture models.Fixture, season int) models.Recommendation {
	return a.recommend(ModeWeighted, fixture, func() models.Recommendation {
		opinions := []models.Opinion{
			a.momentumOpinion(ctx, fixture, season),
			a.formOpinion(ctx, fixture, season),
			a.topBottomOpinion(ctx, fixture, season),
			a.homeAwayOpinion(ctx, fixture, season),
		}
		return a.combine(fixture, opinions)
	})
}

func (a *WeightedAdvisor) combine(fixture models.Fixture, opinions []models.Opinion) models.Recommendation {
	rec := emptyRecommendation(fixture)
	rec.Strategy = ModeWeighted
	rec.Individual = make(map[string]models.Opinion, len(opinions))

	scores := make(map[string]float64)
	support := make(map[string][]string)
	var teams []string
	voters := 0
	for _, op := range opinions {
		rec.Individual[op.Strategy] = op
		if op.Team == "" {
			continue
		}
		voters++
		if _, seen := scores[op.Team]; !seen {
			teams = append(teams, op.Team)
		}
		scores[op.Team] += a.weights[op.Strategy] * op.Confidence
		support[op.Team] = append(support[op.Team], fmt.Sprintf("%s: %s", op.Strategy, op.Reason))
	}

	if len(teams) == 0 {
		rec.Reason = "No strategies recommend betting"
		return rec
	}

	best := teams[0]
	for _, team := range teams[1:] {
		if scores[team] > scores[best] {
			best = team
		}
	}

	rec.RecommendedTeam = &best
	rec.Confidence = capConfidence(scores[best])
	rec.Reason = fmt.Sprintf("Weighted recommendation based on %d strategies", voters)
	rec.SupportingStrategies = support[best]
	rec.AllScores = scores
	return rec
}

func (a *WeightedAdvisor) momentumOpinion(ctx context.Context, f models.Fixture, season int) models.Opinion {
	op := models.Opinion{Strategy: OpinionMomentum}
	home, away, reason := a.bothMomentum(ctx, f, season, weightedWindow, weightedWindow)
	if reason != "" {
		op.Reason = reason
		return op
	}

	hs, as := home.MomentumScore, away.MomentumScore
	switch {
	case hs >= weightedStrongMomentum && as <= weightedWeakMomentum:
		op.Team = f.HomeTeam
		op.Confidence = capConfidence(abs(hs-as) * 2)
		op.Reason = fmt.Sprintf("Home team strong momentum (%.2f) vs away team weak momentum (%.2f)", hs, as)
	case as >= weightedStrongMomentum && hs <= weightedWeakMomentum:
		op.Team = f.AwayTeam
		op.Confidence = capConfidence(abs(as-hs) * 2)
		op.Reason = fmt.Sprintf("Away team strong momentum (%.2f) vs home team weak momentum (%.2f)", as, hs)
	default:
		op.Reason = "No clear momentum advantage"
	}
	return op
}

func (a *WeightedAdvisor) formOpinion(ctx context.Context, f models.Fixture, season int) models.Opinion {
	op := models.Opinion{Strategy: OpinionForm}
	home, away, reason := a.bothForm(ctx, f, season, weightedWindow)
	if reason != "" {
		op.Reason = reason
		return op
	}

	hs, as := home.FormScore, away.FormScore
	switch {
	case hs >= weightedGoodForm && as <= weightedPoorForm:
		op.Team = f.HomeTeam
		op.Confidence = capConfidence(abs(hs-as) * 2)
		op.Reason = fmt.Sprintf("Home team good form (%.2f) vs away team poor form (%.2f)", hs, as)
	case as >= weightedGoodForm && hs <= weightedPoorForm:
		op.Team = f.AwayTeam
		op.Confidence = capConfidence(abs(as-hs) * 2)
		op.Reason = fmt.Sprintf("Away team good form (%.2f) vs home team poor form (%.2f)", as, hs)
	default:
		op.Reason = "No clear form advantage"
	}
	return op
}

// topBottomOpinion reads the standings of the season being played
func (a *WeightedAdvisor) topBottomOpinion(ctx context.Context, f models.Fixture, season int) models.Opinion {
	op := models.Opinion{Strategy: OpinionTopBottom}
	table, home, away, reason := a.ranks(ctx, f, season)
	if reason != "" {
		op.Reason = reason
		return op
	}

	bottomFrom := table.Len() - weightedTopN + 1
	switch {
	case home <= weightedTopN && away >= bottomFrom:
		op.Team = f.HomeTeam
		op.Confidence = weightedTopBottomConfidence
		op.Reason = fmt.Sprintf("Home team top %d vs away team bottom %d", home, away)
	case away <= weightedTopN && home >= bottomFrom:
		op.Team = f.AwayTeam
		op.Confidence = weightedTopBottomConfidence
		op.Reason = fmt.Sprintf("Away team top %d vs home team bottom %d", away, home)
	default:
		op.Reason = "No top-bottom advantage"
	}
	return op
}

// homeAwayOpinion compares the home side's home win rate with the away
// side's away win rate
func (a *WeightedAdvisor) homeAwayOpinion(ctx context.Context, f models.Fixture, season int) models.Opinion {
	op := models.Opinion{Strategy: OpinionHomeAway}
	homeRec, err := a.calc.TeamRecord(ctx, f.HomeTeam, season)
	if err != nil {
		op.Reason = reasonInsufficientData
		return op
	}
	awayRec, err := a.calc.TeamRecord(ctx, f.AwayTeam, season)
	if err != nil {
		op.Reason = reasonInsufficientData
		return op
	}

	hr, ar := homeRec.Home.WinRate, awayRec.Away.WinRate
	switch {
	case hr-ar >= weightedHomeAdvantage:
		op.Team = f.HomeTeam
		op.Confidence = capConfidence((hr - ar) * weightedHomeAwayFactor)
		op.Reason = fmt.Sprintf("Home team strong home record (%.1f%%) vs away team weak away record (%.1f%%)", hr*100, ar*100)
	case ar-hr >= weightedHomeAdvantage:
		op.Team = f.AwayTeam
		op.Confidence = capConfidence((ar - hr) * weightedHomeAwayFactor)
		op.Reason = fmt.Sprintf("Away team strong away record (%.1f%%) vs home team weak home record (%.1f%%)", ar*100, hr*100)
	default:
		op.Reason = "No clear home/away advantage"
	}
	return op
}
