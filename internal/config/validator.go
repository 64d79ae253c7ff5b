package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ConfigValidator validates configuration values.
type ConfigValidator interface {
	Validate(cfg *Config) error
}

// validatorImpl implements ConfigValidator using go-playground/validator.
type validatorImpl struct {
	validate *validator.Validate
}

// NewValidator creates a new ConfigValidator instance.
func NewValidator() ConfigValidator {
	return &validatorImpl{validate: validator.New()}
}

// Validate validates the configuration and returns detailed error messages.
func (v *validatorImpl) Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if err := v.validate.Struct(cfg); err != nil {
		validationErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("validation error: %w", err)
		}

		var messages []string
		for _, e := range validationErrs {
			messages = append(messages, formatValidationError(e))
		}
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(messages, "\n  - "))
	}

	// The budget split must cover the whole budget exactly.
	if total := cfg.Planner.Split.Total(); total != 100 {
		return fmt.Errorf("configuration validation failed:\n  - planner.split percents must sum to 100 (got: %d)", total)
	}

	// The early trigger must fire before the hard trigger, or replanning
	// would only ever see exhausted budgets.
	if cfg.Planner.Triggers.EarlySpentFraction > cfg.Planner.Triggers.HardSpentFraction {
		return fmt.Errorf("configuration validation failed:\n  - planner.triggers.early_spent_fraction (%.2f) must not exceed hard_spent_fraction (%.2f)",
			cfg.Planner.Triggers.EarlySpentFraction, cfg.Planner.Triggers.HardSpentFraction)
	}

	if cfg.Research.ToolTimeout > cfg.Research.OverallTimeout {
		return fmt.Errorf("configuration validation failed:\n  - research.tool_timeout (%s) must not exceed overall_timeout (%s)",
			cfg.Research.ToolTimeout, cfg.Research.OverallTimeout)
	}

	if cfg.LLM.Enabled && cfg.LLM.Provider == "" {
		return fmt.Errorf("configuration validation failed:\n  - llm.provider is required when llm.enabled is true")
	}

	return nil
}

// formatValidationError converts a field error into a readable message.
func formatValidationError(e validator.FieldError) string {
	field := strings.ToLower(e.Namespace())
	field = strings.TrimPrefix(field, "config.")

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s (got: %v)", field, e.Param(), e.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s (got: %v)", field, e.Param(), e.Value())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s (got: %v)", field, e.Param(), e.Value())
	case "lte":
		return fmt.Sprintf("%s must be at most %s (got: %v)", field, e.Param(), e.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got: %v)", field, e.Param(), e.Value())
	default:
		return fmt.Sprintf("%s failed %s validation (got: %v)", field, e.Tag(), e.Value())
	}
}
