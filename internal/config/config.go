package config

import (
	"time"
)

// Config is the root configuration for the Voyage planning pipeline.
type Config struct {
	Core       CoreConfig       `mapstructure:"core" yaml:"core"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
	Store      StoreConfig      `mapstructure:"store" yaml:"store"`
	Research   ResearchConfig   `mapstructure:"research" yaml:"research" validate:"required"`
	Validation ValidationConfig `mapstructure:"validation" yaml:"validation" validate:"required"`
	Planner    PlannerConfig    `mapstructure:"planner" yaml:"planner" validate:"required"`
	LLM        LLMConfig        `mapstructure:"llm" yaml:"llm"`
}

// CoreConfig contains core application settings.
type CoreConfig struct {
	HomeDir string `mapstructure:"home_dir" yaml:"home_dir"`
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
	Debug   bool   `mapstructure:"debug" yaml:"debug"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=json text"`
}

// StoreConfig contains plan archive database settings.
type StoreConfig struct {
	Path           string        `mapstructure:"path" yaml:"path"`
	MaxConnections int           `mapstructure:"max_connections" yaml:"max_connections" validate:"min=1,max=100"`
	BusyTimeout    time.Duration `mapstructure:"busy_timeout" yaml:"busy_timeout" validate:"min=100ms"`
}

// ResearchConfig controls the concurrent research fan-out.
type ResearchConfig struct {
	// ToolTimeout is the per-tool deadline. A tool exceeding it is recorded
	// as failed without aborting the other tools.
	ToolTimeout time.Duration `mapstructure:"tool_timeout" yaml:"tool_timeout" validate:"min=100ms"`

	// OverallTimeout bounds the join across all dispatched tools.
	OverallTimeout time.Duration `mapstructure:"overall_timeout" yaml:"overall_timeout" validate:"min=1s"`

	// RatePerSecond limits outbound tool invocations per second.
	RatePerSecond float64 `mapstructure:"rate_per_second" yaml:"rate_per_second" validate:"gt=0"`

	// CacheTTL is how long a research bundle stays reusable for replanning
	// before it is considered stale.
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl" validate:"min=1m"`
}

// ValidationConfig controls the research validation gate.
type ValidationConfig struct {
	// MinCompleteness is the weighted completeness score below which a
	// research bundle is rejected.
	MinCompleteness float64 `mapstructure:"min_completeness" yaml:"min_completeness" validate:"gt=0,lte=1"`

	// MaxRetries bounds the validator-to-research retry loop.
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries" validate:"min=0,max=5"`
}

// PlannerConfig carries the budget split, per-day floors, and replan trigger
// thresholds. These were module-level constants in earlier iterations; they
// live here so they are overridable per trip and testable.
type PlannerConfig struct {
	// Split is the default percentage allocation across spending categories.
	Split CategorySplit `mapstructure:"split" yaml:"split" validate:"required"`

	// DailyFloors are the minimum viable per-day amounts, in whole rupees,
	// for the mandatory categories.
	DailyFloors DailyFloors `mapstructure:"daily_floors" yaml:"daily_floors" validate:"required"`

	// Triggers holds the replan trigger thresholds.
	Triggers ReplanTriggers `mapstructure:"triggers" yaml:"triggers" validate:"required"`
}

// CategorySplit is a percentage table over the six spending categories.
// Values are whole percents and must sum to 100.
type CategorySplit struct {
	Accommodation int `mapstructure:"accommodation" yaml:"accommodation" validate:"min=0,max=100"`
	Food          int `mapstructure:"food" yaml:"food" validate:"min=0,max=100"`
	Transport     int `mapstructure:"transport" yaml:"transport" validate:"min=0,max=100"`
	Activities    int `mapstructure:"activities" yaml:"activities" validate:"min=0,max=100"`
	Shopping      int `mapstructure:"shopping" yaml:"shopping" validate:"min=0,max=100"`
	Emergency     int `mapstructure:"emergency" yaml:"emergency" validate:"min=0,max=100"`
}

// Total returns the sum of all category percents.
func (s CategorySplit) Total() int {
	return s.Accommodation + s.Food + s.Transport + s.Activities + s.Shopping + s.Emergency
}

// DailyFloors are minimum viable per-day amounts in whole rupees for the
// categories a plan cannot do without.
type DailyFloors struct {
	Accommodation int64 `mapstructure:"accommodation" yaml:"accommodation" validate:"min=0"`
	Food          int64 `mapstructure:"food" yaml:"food" validate:"min=0"`
	Transport     int64 `mapstructure:"transport" yaml:"transport" validate:"min=0"`
}

// Sum returns the combined per-day floor in whole rupees.
func (f DailyFloors) Sum() int64 {
	return f.Accommodation + f.Food + f.Transport
}

// ReplanTriggers holds the spend thresholds that fire a replan.
type ReplanTriggers struct {
	// HardSpentFraction fires when cumulative spend reaches this fraction of
	// the total budget (default 1.0).
	HardSpentFraction float64 `mapstructure:"hard_spent_fraction" yaml:"hard_spent_fraction" validate:"gt=0"`

	// EarlySpentFraction fires when cumulative spend reaches this fraction
	// with trip days still remaining (default 0.9).
	EarlySpentFraction float64 `mapstructure:"early_spent_fraction" yaml:"early_spent_fraction" validate:"gt=0"`

	// ProjectionFraction fires when the projected total, extrapolated from
	// the daily average, exceeds this fraction of the budget (default 1.2).
	ProjectionFraction float64 `mapstructure:"projection_fraction" yaml:"projection_fraction" validate:"gt=0"`
}

// LLMConfig configures the optional narrative provider used by the executor.
// When disabled the executor emits deterministic text only.
type LLMConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Provider string `mapstructure:"provider" yaml:"provider"`
	Model    string `mapstructure:"model" yaml:"model"`
	APIKey   string `mapstructure:"api_key" yaml:"api_key,omitempty"`
}
