package config

import (
	"os"
	"path/filepath"
	"time"
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	homeDir := DefaultHomeDir()

	return &Config{
		Core: CoreConfig{
			HomeDir: homeDir,
			DataDir: filepath.Join(homeDir, "data"),
			Debug:   false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Store: StoreConfig{
			Path:           filepath.Join(homeDir, "voyage.db"),
			MaxConnections: 10,
			BusyTimeout:    5 * time.Second,
		},
		Research: ResearchConfig{
			ToolTimeout:    8 * time.Second,
			OverallTimeout: 30 * time.Second,
			RatePerSecond:  20,
			CacheTTL:       12 * time.Hour,
		},
		Validation: ValidationConfig{
			MinCompleteness: 0.6,
			MaxRetries:      2,
		},
		Planner: PlannerConfig{
			Split: CategorySplit{
				Accommodation: 30,
				Food:          25,
				Transport:     20,
				Activities:    15,
				Shopping:      5,
				Emergency:     5,
			},
			DailyFloors: DailyFloors{
				Accommodation: 500,
				Food:          300,
				Transport:     150,
			},
			Triggers: ReplanTriggers{
				HardSpentFraction:  1.0,
				EarlySpentFraction: 0.9,
				ProjectionFraction: 1.2,
			},
		},
		LLM: LLMConfig{
			Enabled:  false,
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
	}
}

// DefaultHomeDir returns the default Voyage home directory (~/.voyage).
func DefaultHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".voyage"
	}
	return filepath.Join(home, ".voyage")
}
