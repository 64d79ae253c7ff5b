package planning

import (
	"fmt"
	"strings"
	"time"

	"github.com/voyage-ai/voyage/internal/research"
	"github.com/voyage-ai/voyage/internal/tool"
	"github.com/voyage-ai/voyage/internal/trip"
	"github.com/voyage-ai/voyage/internal/types"
)

// DayOptRequest narrows a single-day optimization. Near and Budget come
// from the traveler's actual situation: where they are right now and how
// much of today's money is really left. Both are optional; an empty Near
// applies no location bias and a zero Budget falls back to whatever the
// dropped activities release.
type DayOptRequest struct {
	DayNumber int         `json:"day_number"`
	From      string      `json:"from"`
	Near      string      `json:"near,omitempty"`
	Budget    types.Money `json:"budget,omitempty"`
}

// OptimizeDay rebuilds one day of an active plan from a time of day onward.
// Meals, lodging, and transfers stay where they are; only activity slots at
// or after the cutoff are reconsidered, funded by the caller's remaining
// budget for the day, or by the budget the dropped activities release when
// the caller states none. Every other day of the plan is untouched.
func (p *Planner) OptimizeDay(plan *trip.Plan, opt DayOptRequest, bundle *research.Bundle, party int) (*trip.PartialDay, error) {
	day := plan.Day(opt.DayNumber)
	if day == nil {
		return nil, types.NewError(types.PLAN_NOT_FOUND,
			fmt.Sprintf("plan has no day %d", opt.DayNumber))
	}
	party = max(party, 1)

	var released types.Money
	dropped := 0
	for _, a := range day.Activities {
		if a.Category == trip.CategoryActivities && a.Time >= opt.From {
			released += a.Cost
			dropped++
		}
	}

	ceiling := opt.Budget
	if ceiling.IsZero() {
		ceiling = released
	}

	// Names used anywhere in the plan stay off the table, so the rebuilt
	// afternoon actually differs from what it replaces.
	used := make(map[string]bool)
	for _, d := range plan.Days {
		for _, a := range d.Activities {
			used[a.Name] = true
		}
	}

	partial := &trip.PartialDay{
		DayNumber: opt.DayNumber,
		From:      opt.From,
		BudgetCap: ceiling,
	}

	options, ok := bundle.Activities()
	if !ok {
		return partial, nil
	}
	budget := ceiling
	for _, sl := range daySlots {
		if sl.time < opt.From {
			continue
		}
		for _, o := range orderByArea(options.Options, opt.Near) {
			if o.Slot != sl.name || used[o.Name] {
				continue
			}
			cost := o.Price * types.Money(party)
			if cost > budget {
				continue
			}
			used[o.Name] = true
			budget -= cost
			partial.Activities = append(partial.Activities, trip.Activity{
				Time:     sl.time,
				Name:     o.Name,
				Location: o.Area,
				Category: trip.CategoryActivities,
				Cost:     cost,
				Source:   tool.KindActivitySearch.String(),
			})
			break
		}
	}

	p.logger.Info("day optimized",
		"plan_id", plan.ID,
		"day", opt.DayNumber,
		"from", opt.From,
		"near", opt.Near,
		"dropped", dropped,
		"picked", len(partial.Activities),
		"budget_cap", partial.BudgetCap.String())
	return partial, nil
}

// orderByArea puts options in the traveler's stated area first, so a
// nearby choice wins whenever one fits the slot and the budget. An empty
// area keeps the search order as-is.
func orderByArea(options []tool.ActivityOption, near string) []tool.ActivityOption {
	if near == "" {
		return options
	}
	ordered := make([]tool.ActivityOption, 0, len(options))
	var far []tool.ActivityOption
	for _, o := range options {
		if strings.Contains(strings.ToLower(o.Area), strings.ToLower(near)) {
			ordered = append(ordered, o)
		} else {
			far = append(far, o)
		}
	}
	return append(ordered, far...)
}

// ApplyPartialDay folds an optimized day into a new plan revision. The
// previous revision is returned untouched; the caller archives it.
func ApplyPartialDay(plan *trip.Plan, partial *trip.PartialDay) *trip.Plan {
	next := *plan
	next.ID = types.NewID()
	next.Revision = plan.Revision + 1
	next.Status = trip.PlanStatusActive
	next.CreatedAt = time.Now()

	next.Days = make([]trip.Day, len(plan.Days))
	copy(next.Days, plan.Days)

	for i, day := range next.Days {
		if day.Number != partial.DayNumber {
			continue
		}
		kept := make([]trip.Activity, 0, len(day.Activities))
		for _, a := range day.Activities {
			if a.Category == trip.CategoryActivities && a.Time >= partial.From {
				continue
			}
			kept = append(kept, a)
		}
		kept = append(kept, partial.Activities...)
		sortByTime(kept)
		next.Days[i] = trip.Day{Number: day.Number, Date: day.Date, Activities: kept}
	}
	next.Allocation = plan.Allocation.Clone()
	return &next
}
