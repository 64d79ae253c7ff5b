package planning

import (
	"fmt"
	"math"
	"time"

	"github.com/voyage-ai/voyage/internal/research"
	"github.com/voyage-ai/voyage/internal/trip"
	"github.com/voyage-ai/voyage/internal/types"
)

// ReplanDecision is the outcome of evaluating the replan triggers against
// mid-trip spending.
type ReplanDecision struct {
	Should bool   `json:"should"`
	Reason string `json:"reason,omitempty"`
}

// EvaluateTriggers decides whether mid-trip spending warrants a replan:
// the budget is gone, nearly gone with days still left, or on pace to
// overshoot by the projection threshold.
func (p *Planner) EvaluateTriggers(rctx trip.ReplanContext) ReplanDecision {
	if rctx.TotalBudget.IsZero() {
		return ReplanDecision{}
	}
	triggers := p.cfg.Triggers
	spent := rctx.Spent()
	fraction := float64(spent) / float64(rctx.TotalBudget)

	if fraction >= triggers.HardSpentFraction {
		return ReplanDecision{Should: true, Reason: fmt.Sprintf(
			"spend %s has reached the %s budget", spent, rctx.TotalBudget)}
	}
	if fraction >= triggers.EarlySpentFraction && rctx.DaysRemaining > 0 {
		return ReplanDecision{Should: true, Reason: fmt.Sprintf(
			"spend %s is %.0f%% of the budget with %d days remaining",
			spent, fraction*100, rctx.DaysRemaining)}
	}
	if rctx.DaysElapsed > 0 {
		// Integer comparison, so a projection landing exactly on the
		// threshold does not trigger through float rounding.
		total := int64(rctx.DaysElapsed + rctx.DaysRemaining)
		pct := int64(math.Round(triggers.ProjectionFraction * 100))
		if int64(spent)*total*100 > pct*int64(rctx.TotalBudget)*int64(rctx.DaysElapsed) {
			projected := types.Money(int64(spent) * total / int64(rctx.DaysElapsed))
			return ReplanDecision{Should: true, Reason: fmt.Sprintf(
				"current pace projects %s against the %s budget",
				projected, rctx.TotalBudget)}
		}
	}
	return ReplanDecision{}
}

// Replan rebuilds the remaining days of a trip against what is actually
// left of the budget. Elapsed days are carried over from the previous
// revision untouched; only the future is rewritten, under a tightened
// per-day cap.
func (p *Planner) Replan(req *trip.Request, prev *trip.Plan, rctx trip.ReplanContext, bundle *research.Bundle) (*trip.Plan, error) {
	if err := rctx.Validate(); err != nil {
		return nil, err
	}
	if rctx.DaysRemaining <= 0 {
		return nil, types.NewError(types.PLANNING_INFEASIBLE, "no days remaining to replan")
	}

	// The daily floors gate first plans only. A squeezed mid-trip budget
	// still gets a minimal plan for the remaining days; the scheduler drops
	// whatever the tightened ceiling cannot cover.
	remaining := rctx.RemainingBudget()
	if remaining <= 0 {
		return nil, types.NewError(types.PLANNING_INFEASIBLE, fmt.Sprintf(
			"budget %s is fully spent with %d days remaining",
			rctx.TotalBudget, rctx.DaysRemaining))
	}
	tightCap := rctx.TightenedPerDay()

	totalDays := rctx.DaysElapsed + rctx.DaysRemaining
	party := max(req.PartySize, 1)
	alloc := allocateBudget(remaining, rctx.DaysRemaining, party, bundle, p.cfg.Split)

	s := newScheduler(bundle, alloc, party, rctx.DaysRemaining, true)
	markPlanned(s, prev, rctx.DaysElapsed)

	next := &trip.Plan{
		ID:         types.NewID(),
		TripID:     prev.TripID,
		Revision:   prev.Revision + 1,
		Status:     trip.PlanStatusActive,
		Allocation: alloc,
		PerDayCap:  tightCap,
		CreatedAt:  time.Now(),
	}

	// Elapsed days carry over exactly as lived.
	for _, day := range prev.Days {
		if day.Number <= rctx.DaysElapsed {
			next.Days = append(next.Days, day)
		}
	}

	var resumeDate time.Time
	if elapsed := prev.Day(rctx.DaysElapsed); elapsed != nil && !elapsed.Date.IsZero() {
		resumeDate = elapsed.Date.AddDate(0, 0, 1)
	}
	next.Days = append(next.Days,
		s.buildSegment(rctx.DaysElapsed+1, totalDays, totalDays, resumeDate)...)

	p.logger.Info("plan replanned",
		"trip_id", prev.TripID,
		"revision", next.Revision,
		"days_remaining", rctx.DaysRemaining,
		"remaining_budget", remaining.String(),
		"per_day_cap", tightCap.String())
	return next, nil
}

// markPlanned tells the scheduler which activities the previous revision
// already used, so rebuilt days favor fresh suggestions.
func markPlanned(s *scheduler, prev *trip.Plan, throughDay int) {
	for _, day := range prev.Days {
		if day.Number > throughDay {
			continue
		}
		for _, a := range day.Activities {
			if a.Category == trip.CategoryActivities {
				s.used[a.Name] = true
			}
		}
	}
}
