package advisor

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/touchline/internal/config"
	"github.com/yourusername/touchline/internal/models"
)

// Waterfall bet types, in priority order
const (
	BetTypeFormAgainst     = "FORM_AGAINST"
	BetTypeMomentumAgainst = "MOMENTUM_AGAINST"
	BetTypeFormFor         = "FORM_FOR"
	BetTypeMomentumFor     = "MOMENTUM_FOR"
	BetTypeTopBottom       = "TOP_BOTTOM"
)

const (
	waterfallWinningMomentum = 0.2
	waterfallLosingMomentum  = -0.2
	waterfallTopBottomConf   = 0.8
)

// checkedSteps lists every rule the cascade evaluates
const checkedSteps = "Checked: Form AGAINST, Momentum AGAINST, Form FOR, Momentum FOR, Top-Bottom - no opportunities"

// WaterfallConfig configures the cascade thresholds
type WaterfallConfig struct {
	FormGames         int     `validate:"min=1,max=38"`
	FormThreshold     float64 `validate:"gte=0,lte=1"`
	PoorFormThreshold float64 `validate:"gte=0,lte=1"`
	MomentumLookback  int     `validate:"min=1,max=38"`
	TopN              int     `validate:"min=1,max=10"`
}

// DefaultWaterfallConfig returns the stock cascade thresholds
func DefaultWaterfallConfig() WaterfallConfig {
	return WaterfallConfig{
		FormGames:         3,
		FormThreshold:     0.6,
		PoorFormThreshold: 0.4,
		MomentumLookback:  10,
		TopN:              3,
	}
}

// WaterfallConfigFrom overlays configured values on the defaults
func WaterfallConfigFrom(cfg config.AdvisorConfig) WaterfallConfig {
	out := DefaultWaterfallConfig()
	if cfg.FormGames > 0 {
		out.FormGames = cfg.FormGames
	}
	if cfg.FormThreshold > 0 {
		out.FormThreshold = cfg.FormThreshold
	}
	if cfg.PoorFormThreshold > 0 {
		out.PoorFormThreshold = cfg.PoorFormThreshold
	}
	if cfg.MomentumLookback > 0 {
		out.MomentumLookback = cfg.MomentumLookback
	}
	if cfg.TopN > 0 {
		out.TopN = cfg.TopN
	}
	return out
}

var validate = validator.New()

// WaterfallAdvisor walks a fixed priority list and returns the first
// opportunity it finds. Signals are never combined.
type WaterfallAdvisor struct {
	core
	cfg WaterfallConfig
}

// step is one rule of the cascade. It returns a recommendation with a team
// when the rule fires.
type step struct {
	betType  string
	strategy string
	check    func(ctx context.Context, f models.Fixture, season int) (team string, confidence float64, reason, detail string)
}

// NewWaterfallAdvisor creates a waterfall advisor
func NewWaterfallAdvisor(deps Deps, cfg WaterfallConfig) (*WaterfallAdvisor, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid waterfall config: %w", err)
	}
	if cfg.PoorFormThreshold > cfg.FormThreshold {
		return nil, fmt.Errorf("invalid waterfall config: poor form threshold %.2f exceeds form threshold %.2f",
			cfg.PoorFormThreshold, cfg.FormThreshold)
	}
	return &WaterfallAdvisor{core: newCore(deps), cfg: cfg}, nil
}

// Name returns the advisor mode
func (a *WaterfallAdvisor) Name() string { return ModeWaterfall }

// Recommend evaluates the cascade for fixture
func (a *WaterfallAdvisor) Recommend(ctx context.Context, fixture models.Fixture, season int) models.Recommendation {
	return a.recommend(ModeWaterfall, fixture, func() models.Recommendation {
		rec := emptyRecommendation(fixture)
		for i, s := range a.steps() {
			team, confidence, reason, detail := s.check(ctx, fixture, season)
			if team == "" {
				continue
			}
			rec.RecommendedTeam = &team
			rec.BetType = s.betType
			rec.Strategy = s.strategy
			rec.Priority = i + 1
			rec.Confidence = confidence
			rec.Reason = reason
			rec.DetailedReason = detail
			return rec
		}
		rec.Reason = "No betting opportunities found in any strategy"
		rec.DetailedReason = checkedSteps
		return rec
	})
}

func (a *WaterfallAdvisor) steps() []step {
	return []step{
		{betType: BetTypeFormAgainst, strategy: "form_against", check: a.formAgainst},
		{betType: BetTypeMomentumAgainst, strategy: "momentum_against", check: a.momentumAgainst},
		{betType: BetTypeFormFor, strategy: "form_for", check: a.formFor},
		{betType: BetTypeMomentumFor, strategy: "momentum_for", check: a.momentumFor},
		{betType: BetTypeTopBottom, strategy: "top_bottom", check: a.topBottom},
	}
}

// formAgainst opposes the first side, home before away, in poor form.
// The returned team is the one to bet against.
func (a *WaterfallAdvisor) formAgainst(ctx context.Context, f models.Fixture, season int) (string, float64, string, string) {
	home, away, reason := a.bothForm(ctx, f, season, a.cfg.FormGames)
	if reason != "" {
		return "", 0, reason, ""
	}
	poor := a.cfg.PoorFormThreshold
	for _, side := range []struct {
		label string
		team  string
		score float64
	}{{"Home", f.HomeTeam, home.FormScore}, {"Away", f.AwayTeam, away.FormScore}} {
		if side.score <= poor {
			return side.team,
				capConfidence((poor - side.score) * 2),
				fmt.Sprintf("%s team poor form (%.2f) vs threshold (%g)", side.label, side.score, poor),
				fmt.Sprintf("%s team form: %.2f <= %g (poor form threshold)", side.label, side.score, poor)
		}
	}
	return "", 0, "No poor form teams found", ""
}

// momentumAgainst opposes the first side on a losing run
func (a *WaterfallAdvisor) momentumAgainst(ctx context.Context, f models.Fixture, season int) (string, float64, string, string) {
	lookback := a.cfg.MomentumLookback
	home, away, reason := a.bothMomentum(ctx, f, season, lookback, lookback)
	if reason != "" {
		return "", 0, reason, ""
	}
	for _, side := range []struct {
		label string
		team  string
		score float64
	}{{"Home", f.HomeTeam, home.MomentumScore}, {"Away", f.AwayTeam, away.MomentumScore}} {
		if side.score <= waterfallLosingMomentum {
			return side.team,
				capConfidence(abs(waterfallLosingMomentum-side.score) * 2),
				fmt.Sprintf("%s team negative momentum (%.2f) vs threshold (%g)", side.label, side.score, waterfallLosingMomentum),
				fmt.Sprintf("%s team momentum: %.2f <= %g (negative momentum threshold)", side.label, side.score, waterfallLosingMomentum)
		}
	}
	return "", 0, "No negative momentum teams found", ""
}

// formFor backs the first side in good form
func (a *WaterfallAdvisor) formFor(ctx context.Context, f models.Fixture, season int) (string, float64, string, string) {
	home, away, reason := a.bothForm(ctx, f, season, a.cfg.FormGames)
	if reason != "" {
		return "", 0, reason, ""
	}
	good := a.cfg.FormThreshold
	for _, side := range []struct {
		label string
		team  string
		score float64
	}{{"Home", f.HomeTeam, home.FormScore}, {"Away", f.AwayTeam, away.FormScore}} {
		if side.score >= good {
			return side.team,
				capConfidence((side.score - good) * 2),
				fmt.Sprintf("%s team good form (%.2f) vs threshold (%g)", side.label, side.score, good),
				fmt.Sprintf("%s team form: %.2f >= %g (good form threshold)", side.label, side.score, good)
		}
	}
	return "", 0, "No good form teams found", ""
}

// momentumFor backs the first side on a winning run
func (a *WaterfallAdvisor) momentumFor(ctx context.Context, f models.Fixture, season int) (string, float64, string, string) {
	lookback := a.cfg.MomentumLookback
	home, away, reason := a.bothMomentum(ctx, f, season, lookback, lookback)
	if reason != "" {
		return "", 0, reason, ""
	}
	for _, side := range []struct {
		label string
		team  string
		score float64
	}{{"Home", f.HomeTeam, home.MomentumScore}, {"Away", f.AwayTeam, away.MomentumScore}} {
		if side.score >= waterfallWinningMomentum {
			return side.team,
				capConfidence((side.score - waterfallWinningMomentum) * 2),
				fmt.Sprintf("%s team positive momentum (%.2f) vs threshold (%g)", side.label, side.score, waterfallWinningMomentum),
				fmt.Sprintf("%s team momentum: %.2f >= %g (positive momentum threshold)", side.label, side.score, waterfallWinningMomentum)
		}
	}
	return "", 0, "No positive momentum teams found", ""
}

// topBottom backs a top-N side of the previous season against a
// bottom-N side of that season
func (a *WaterfallAdvisor) topBottom(ctx context.Context, f models.Fixture, season int) (string, float64, string, string) {
	n := a.cfg.TopN
	table, home, away, reason := a.ranks(ctx, f, season-1)
	if reason != "" {
		return "", 0, reason, ""
	}

	bottomFrom := table.Len() - n + 1
	switch {
	case home <= n && away >= bottomFrom:
		return f.HomeTeam, waterfallTopBottomConf,
			fmt.Sprintf("Top %d vs Bottom %d", home, away),
			fmt.Sprintf("Home team: %d (top %d) vs Away team: %d (bottom %d)", home, n, away, n)
	case away <= n && home >= bottomFrom:
		return f.AwayTeam, waterfallTopBottomConf,
			fmt.Sprintf("Top %d vs Bottom %d", away, home),
			fmt.Sprintf("Away team: %d (top %d) vs Home team: %d (bottom %d)", away, n, home, n)
	}
	return "", 0, "No top-bottom advantage", ""
}
