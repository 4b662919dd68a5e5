// Package strategy evaluates betting heuristics against historical seasons.
package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/touchline/internal/config"
	"github.com/yourusername/touchline/internal/datasource"
	"github.com/yourusername/touchline/internal/models"
)

// Kind identifies one of the backtestable strategies
type Kind string

const (
	KindTopBottom Kind = "top_bottom"
	KindHomeAway  Kind = "home_away"
	KindForm      Kind = "form"
	KindMomentum  Kind = "momentum"
)

// Kinds lists every strategy in the order reports present them
func Kinds() []Kind {
	return []Kind{KindTopBottom, KindHomeAway, KindForm, KindMomentum}
}

// ParseKind maps a CLI or config name onto a Kind
func ParseKind(name string) (Kind, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for _, k := range Kinds() {
		if string(k) == normalized {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %s", models.ErrUnknownStrategy, name)
}

// Strategy evaluates one season at a time and reports the bets it would have placed
type Strategy interface {
	Kind() Kind
	Name() string
	// AnalyzeSeason generates and settles bets for every match of season.
	// Expected data problems come back as *models.EngineError.
	AnalyzeSeason(ctx context.Context, season int) (*models.SeasonResult, error)
	// Seasons resolves the seasons a backtest over [start, end] covers.
	// Zero bounds fall back to the strategy's defaults.
	Seasons(ctx context.Context, start, end int) ([]int, error)
	Parameters() map[string]interface{}
}

// TopBottomParams configures the Top-Bottom strategy
type TopBottomParams struct {
	TopN                 int  `mapstructure:"top_n" validate:"min=1,max=10"`
	PreviousSeason       int  `mapstructure:"previous_season" validate:"omitempty,min=1990"`
	IncludeAgainstBottom bool `mapstructure:"include_against_bottom"`
}

// FormParams configures the Form strategy
type FormParams struct {
	FormGames          int     `mapstructure:"form_games" validate:"min=1,max=38"`
	FormThreshold      float64 `mapstructure:"form_threshold" validate:"gte=0,lte=1"`
	BetAgainstPoorForm bool    `mapstructure:"bet_against_poor_form"`
	PoorFormThreshold  float64 `mapstructure:"poor_form_threshold" validate:"gte=0,lte=1"`
}

// MomentumParams configures the Momentum strategy
type MomentumParams struct {
	Lookback                 int     `mapstructure:"lookback" validate:"min=2,max=38"`
	WinningThreshold         float64 `mapstructure:"winning_threshold" validate:"gt=0,lte=1"`
	LosingThreshold          float64 `mapstructure:"losing_threshold" validate:"gte=-1,lt=0"`
	BetAgainstLosingMomentum bool    `mapstructure:"bet_against_losing_momentum"`
}

// Params carries the settings of every strategy; each strategy reads its own section
type Params struct {
	OddsProvider string `validate:"required"`
	TopBottom    TopBottomParams
	Form         FormParams
	Momentum     MomentumParams
}

// DefaultParams returns the stock strategy settings
func DefaultParams() Params {
	return Params{
		OddsProvider: datasource.DefaultOddsProvider,
		TopBottom: TopBottomParams{
			TopN:                 3,
			IncludeAgainstBottom: true,
		},
		Form: FormParams{
			FormGames:          5,
			FormThreshold:      0.6,
			BetAgainstPoorForm: true,
			PoorFormThreshold:  0.3,
		},
		Momentum: MomentumParams{
			Lookback:                 10,
			WinningThreshold:         0.2,
			LosingThreshold:          -0.2,
			BetAgainstLosingMomentum: true,
		},
	}
}

// ParamsFromConfig maps the configured strategy defaults onto Params
func ParamsFromConfig(cfg *config.Config) Params {
	params := DefaultParams()
	if cfg == nil {
		return params
	}
	if cfg.Data.OddsProvider != "" {
		params.OddsProvider = cfg.Data.OddsProvider
	}
	params.TopBottom.TopN = cfg.Strategies.TopBottom.TopN
	params.TopBottom.IncludeAgainstBottom = cfg.Strategies.TopBottom.IncludeAgainstBottom
	params.Form = FormParams{
		FormGames:          cfg.Strategies.Form.FormGames,
		FormThreshold:      cfg.Strategies.Form.FormThreshold,
		BetAgainstPoorForm: cfg.Strategies.Form.BetAgainstPoorForm,
		PoorFormThreshold:  cfg.Strategies.Form.PoorFormThreshold,
	}
	params.Momentum = MomentumParams{
		Lookback:                 cfg.Strategies.Momentum.Lookback,
		WinningThreshold:         cfg.Strategies.Momentum.WinningThreshold,
		LosingThreshold:          cfg.Strategies.Momentum.LosingThreshold,
		BetAgainstLosingMomentum: cfg.Strategies.Momentum.BetAgainstLosingMomentum,
	}
	return params
}

// Deps are the collaborators every strategy needs
type Deps struct {
	Source datasource.SeasonSource
	Logger *logrus.Logger
}

var validate = validator.New()

// ValidateParams checks params against their struct tags and cross-field rules
func ValidateParams(params Params) error {
	if err := validate.Struct(params); err != nil {
		return fmt.Errorf("invalid strategy parameters: %w", err)
	}
	if params.Form.PoorFormThreshold > params.Form.FormThreshold {
		return fmt.Errorf("invalid strategy parameters: poor form threshold %.2f exceeds form threshold %.2f",
			params.Form.PoorFormThreshold, params.Form.FormThreshold)
	}
	return nil
}

// New builds the strategy of the given kind
func New(kind Kind, deps Deps, params Params) (Strategy, error) {
	if deps.Source == nil {
		return nil, fmt.Errorf("strategy %s: season source is required", kind)
	}
	if err := ValidateParams(params); err != nil {
		return nil, err
	}

	b := newBase(deps, params.OddsProvider)
	switch kind {
	case KindTopBottom:
		return &TopBottom{base: b, params: params.TopBottom}, nil
	case KindHomeAway:
		return &HomeAway{base: b}, nil
	case KindForm:
		return &Form{base: b, params: params.Form}, nil
	case KindMomentum:
		return &Momentum{base: b, params: params.Momentum}, nil
	}
	return nil, fmt.Errorf("%w: %s", models.ErrUnknownStrategy, kind)
}
