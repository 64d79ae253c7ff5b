package trip

import (
	"fmt"
	"strings"
	"time"

	"github.com/voyage-ai/voyage/internal/types"
)

// Category is a spending category of the trip budget.
type Category string

const (
	CategoryAccommodation Category = "Accommodation"
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryActivities    Category = "Activities"
	CategoryShopping      Category = "Shopping"
	CategoryEmergency     Category = "Emergency"
)

// Categories returns all spending categories in display order.
func Categories() []Category {
	return []Category{
		CategoryAccommodation,
		CategoryFood,
		CategoryTransport,
		CategoryActivities,
		CategoryShopping,
		CategoryEmergency,
	}
}

// ParseCategory resolves a case-insensitive category name.
func ParseCategory(s string) (Category, error) {
	for _, category := range Categories() {
		if strings.EqualFold(s, string(category)) {
			return category, nil
		}
	}
	return "", fmt.Errorf("unknown spending category %q", s)
}

// Allocation maps spending categories to amounts. The invariant enforced by
// Validate is that amounts are non-negative and sum to at most the total
// budget.
type Allocation map[Category]types.Money

// Total returns the sum of all category amounts.
func (a Allocation) Total() types.Money {
	var total types.Money
	for _, amount := range a {
		total += amount
	}
	return total
}

// Validate checks the allocation invariant against the given total budget.
func (a Allocation) Validate(budget types.Money) error {
	for category, amount := range a {
		if amount < 0 {
			return fmt.Errorf("allocation for %s is negative (%s)", category, amount)
		}
	}
	if total := a.Total(); total > budget {
		return fmt.Errorf("allocation total %s exceeds budget %s", total, budget)
	}
	return nil
}

// Clone returns a deep copy of the allocation.
func (a Allocation) Clone() Allocation {
	out := make(Allocation, len(a))
	for category, amount := range a {
		out[category] = amount
	}
	return out
}

// Activity is a single itinerary entry with a time slot, location, and cost.
type Activity struct {
	Time       string      `json:"time"` // HH:MM, local to the destination
	Name       string      `json:"name"`
	Location   string      `json:"location,omitempty"`
	Category   Category    `json:"category"`
	Cost       types.Money `json:"cost"`
	Source     string      `json:"source,omitempty"` // research tool that produced it
	BookingRef string      `json:"booking_ref,omitempty"`
	BookingURL string      `json:"booking_url,omitempty"`
}

// Day is one calendar day of the itinerary.
type Day struct {
	Number     int        `json:"number"` // 1-based
	Date       time.Time  `json:"date,omitzero"`
	Activities []Activity `json:"activities"`
}

// Cost returns the summed cost of the day's activities.
func (d Day) Cost() types.Money {
	var total types.Money
	for _, a := range d.Activities {
		total += a.Cost
	}
	return total
}

// PlanStatus tracks a plan revision's lifecycle. Superseded revisions are
// archived, never deleted, so elapsed days are never rewritten.
type PlanStatus string

const (
	PlanStatusActive     PlanStatus = "active"
	PlanStatusSuperseded PlanStatus = "superseded"
)

// Plan is a day-partitioned itinerary with its budget allocation. A trip has
// exactly one active plan at a time and retains superseded revisions.
type Plan struct {
	ID         types.ID    `json:"id"`
	TripID     types.ID    `json:"trip_id"`
	Revision   int         `json:"revision"` // 1-based, monotonically increasing per trip
	Status     PlanStatus  `json:"status"`
	Days       []Day       `json:"days"`
	Allocation Allocation  `json:"allocation"`
	PerDayCap  types.Money `json:"per_day_cap,omitempty"` // set on replanned revisions
	CreatedAt  time.Time   `json:"created_at,omitzero"`
}

// TotalCost returns the summed cost of all days.
func (p *Plan) TotalCost() types.Money {
	var total types.Money
	for _, d := range p.Days {
		total += d.Cost()
	}
	return total
}

// Day returns the day entry with the given 1-based number, or nil.
func (p *Plan) Day(number int) *Day {
	for i := range p.Days {
		if p.Days[i].Number == number {
			return &p.Days[i]
		}
	}
	return nil
}

// Itinerary is the final artifact produced by the executor: the elaborated
// plan plus its rendered text and any soft-degradation notes.
type Itinerary struct {
	Plan *Plan `json:"plan"`

	// Text is the itinerary with explicit day boundaries, ready for the
	// caller to display or persist.
	Text string `json:"text"`

	// Overage is the amount by which the estimated total exceeds the budget;
	// zero when the plan fits.
	Overage types.Money `json:"overage,omitempty"`

	// DegradedNotes lists non-fatal elaboration failures, such as a booking
	// link that could not be synthesized.
	DegradedNotes []string `json:"degraded_notes,omitempty"`
}

// Degraded reports whether any soft failures occurred during elaboration.
func (it *Itinerary) Degraded() bool {
	return len(it.DegradedNotes) > 0
}

// PartialDay is the product of a day optimization: a replacement for the
// remainder of a single calendar day, leaving every other day untouched.
type PartialDay struct {
	DayNumber  int         `json:"day_number"`
	From       string      `json:"from"` // HH:MM, first replanned slot
	Activities []Activity  `json:"activities"`
	Text       string      `json:"text"`
	BudgetCap  types.Money `json:"budget_cap"`
}

// Cost returns the summed cost of the replanned slots.
func (p *PartialDay) Cost() types.Money {
	var total types.Money
	for _, a := range p.Activities {
		total += a.Cost
	}
	return total
}
