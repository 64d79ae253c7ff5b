package trip

import (
	"fmt"

	"github.com/voyage-ai/voyage/internal/types"
)

// ReplanContext carries the expense-ledger snapshot that re-enters the
// pipeline at the planning stage. It is created on demand by the expense
// tracking collaborator when a trigger condition fires and consumed once.
type ReplanContext struct {
	TripID        types.ID             `json:"trip_id"`
	DaysElapsed   int                  `json:"days_elapsed"`
	DaysRemaining int                  `json:"days_remaining"`
	SpentSoFar    map[Category]types.Money `json:"spent_by_category"`
	TotalBudget   types.Money          `json:"total_budget"`
}

// Spent returns cumulative spend across all categories.
func (rc *ReplanContext) Spent() types.Money {
	var total types.Money
	for _, amount := range rc.SpentSoFar {
		total += amount
	}
	return total
}

// RemainingBudget returns the untightened budget left for the rest of the
// trip. Never negative.
func (rc *ReplanContext) RemainingBudget() types.Money {
	remaining := rc.TotalBudget - rc.Spent()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// TightenedPerDay returns the new per-day ceiling: remaining budget divided
// across remaining days.
func (rc *ReplanContext) TightenedPerDay() types.Money {
	if rc.DaysRemaining <= 0 {
		return 0
	}
	return rc.RemainingBudget() / types.Money(rc.DaysRemaining)
}

// Validate checks the replan context for structural soundness.
func (rc *ReplanContext) Validate() error {
	if rc.TripID.IsZero() {
		return fmt.Errorf("trip ID is required")
	}
	if rc.DaysElapsed < 0 {
		return fmt.Errorf("days elapsed cannot be negative (got %d)", rc.DaysElapsed)
	}
	if rc.DaysRemaining <= 0 {
		return fmt.Errorf("replanning requires at least one remaining day (got %d)", rc.DaysRemaining)
	}
	if rc.TotalBudget <= 0 {
		return fmt.Errorf("total budget must be positive")
	}
	for category, amount := range rc.SpentSoFar {
		if amount < 0 {
			return fmt.Errorf("spend for %s cannot be negative", category)
		}
	}
	return nil
}
