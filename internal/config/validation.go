// Package config provides configuration management for the touchline application.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/touchline/internal/datasource"
)

// First and last season years a data file can carry
const (
	minSeason = 1990
	maxSeason = 2100
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("league", validateLeague)
	_ = v.RegisterValidation("odds_provider", validateOddsProvider)
	_ = v.RegisterValidation("season", validateSeason)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateLeague(fl validator.FieldLevel) bool {
	return datasource.IsSupportedLeague(fl.Field().String())
}

// validateOddsProvider accepts any provider with a closing-line mapping
func validateOddsProvider(fl validator.FieldLevel) bool {
	return datasource.IsKnownProvider(fl.Field().String())
}

func validateSeason(fl validator.FieldLevel) bool {
	season := fl.Field().Int()
	return season >= minSeason && season <= maxSeason
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if cfg.Backtest.StartSeason != 0 && cfg.Backtest.EndSeason != 0 &&
		cfg.Backtest.StartSeason > cfg.Backtest.EndSeason {
		return fmt.Errorf("backtest start_season must not be after end_season")
	}

	if cfg.Strategies.Form.PoorFormThreshold > cfg.Strategies.Form.FormThreshold {
		return fmt.Errorf("form poor_form_threshold cannot exceed form_threshold")
	}

	if cfg.Backtest.Persist && !cfg.Database.Enabled {
		return fmt.Errorf("backtest persistence requires the database to be enabled")
	}

	if cfg.Database.Enabled {
		var missing []string
		if cfg.Database.Host == "" {
			missing = append(missing, "host")
		}
		if cfg.Database.Name == "" {
			missing = append(missing, "name")
		}
		if cfg.Database.User == "" {
			missing = append(missing, "user")
		}
		if len(missing) > 0 {
			return fmt.Errorf("database enabled but missing: %s", strings.Join(missing, ", "))
		}
		if cfg.IsProduction() && cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
		}
	}

	if cfg.Secrets.Enabled && (cfg.Secrets.SecretName == "" || cfg.Secrets.Region == "") {
		return fmt.Errorf("secrets enabled but region or secret_name is empty")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "league":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: %s\n", field, strings.Join(datasource.SupportedLeagues(), ", "))
		case "odds_provider":
			errMsg += fmt.Sprintf("- Field '%s' has unknown odds provider '%v'\n", field, value)
		case "season":
			errMsg += fmt.Sprintf("- Field '%s' must be a season year between %d and %d\n", field, minSeason, maxSeason)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}
