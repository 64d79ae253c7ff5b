// Package executor turns an accepted plan into the final itinerary artifact:
// rendered day-by-day text, booking links checked and backfilled, budget
// overage computed, and optional narrative elaboration. Elaboration failures
// degrade the itinerary instead of failing it.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/voyage-ai/voyage/internal/llm"
	"github.com/voyage-ai/voyage/internal/research"
	"github.com/voyage-ai/voyage/internal/tool"
	"github.com/voyage-ai/voyage/internal/trip"
	"github.com/voyage-ai/voyage/internal/types"
)

// Executor elaborates plans into itineraries.
type Executor struct {
	narrator llm.Narrator
	logger   *slog.Logger
}

// New creates an Executor. A nil narrator falls back to the static one.
func New(narrator llm.Narrator, logger *slog.Logger) *Executor {
	if narrator == nil {
		narrator = llm.NewStatic()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		narrator: narrator,
		logger:   logger.With("component", "executor"),
	}
}

// Execute renders the plan into a trip.Itinerary. It always returns an
// itinerary for a well-formed plan; soft failures (a missing booking link,
// a narrator error) land in DegradedNotes rather than in the error return.
func (e *Executor) Execute(ctx context.Context, req *trip.Request, plan *trip.Plan, bundle *research.Bundle) (*trip.Itinerary, error) {
	if plan == nil || len(plan.Days) == 0 {
		return nil, types.NewError(types.PLAN_NOT_FOUND, "cannot execute an empty plan")
	}

	it := &trip.Itinerary{Plan: plan}

	e.backfillLinks(plan, bundle, it)

	outline := e.renderOutline(req, plan, bundle)

	text, err := e.narrator.Narrate(ctx, llm.NarrativeRequest{
		Destination: req.Destination,
		Days:        len(plan.Days),
		Budget:      req.TotalBudget.String(),
		Style:       string(req.Style),
		Outline:     outline,
	})
	if err != nil {
		e.logger.Warn("narration failed, using outline",
			"narrator", e.narrator.Name(), "error", err)
		it.DegradedNotes = append(it.DegradedNotes,
			fmt.Sprintf("narrative elaboration unavailable (%s)", e.narrator.Name()))
		text = outline
	}
	it.Text = text

	if total := plan.TotalCost(); total > req.TotalBudget {
		it.Overage = total - req.TotalBudget
		it.DegradedNotes = append(it.DegradedNotes,
			fmt.Sprintf("estimated total %s exceeds budget %s by %s",
				total, req.TotalBudget, it.Overage))
	}

	e.logger.Info("itinerary executed",
		"trip_id", plan.TripID,
		"revision", plan.Revision,
		"days", len(plan.Days),
		"total_cost", plan.TotalCost(),
		"degraded", it.Degraded())
	return it, nil
}

// ExecutePartial renders a day-optimization result as standalone text for
// the replaced tail of the day.
func (e *Executor) ExecutePartial(partial *trip.PartialDay) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Day %d, revised from %s:\n", partial.DayNumber, partial.From)
	if len(partial.Activities) == 0 {
		b.WriteString("  free time (no bookable alternatives within today's budget)\n")
	}
	for _, a := range partial.Activities {
		writeEntry(&b, a)
	}
	fmt.Fprintf(&b, "  revised segment cost %s within a %s cap\n", partial.Cost(), partial.BudgetCap)
	return b.String()
}

// backfillLinks fills empty BookingURL fields from the researched link table
// and records a degradation note for refs that have no link at all.
func (e *Executor) backfillLinks(plan *trip.Plan, bundle *research.Bundle, it *trip.Itinerary) {
	var links map[string]string
	if bundle != nil {
		if lb, ok := bundle.BookingLinks(); ok {
			links = lb.Links
		}
	}
	for di := range plan.Days {
		for ai := range plan.Days[di].Activities {
			a := &plan.Days[di].Activities[ai]
			if a.BookingRef == "" || a.BookingURL != "" {
				continue
			}
			if url, ok := links[a.BookingRef]; ok {
				a.BookingURL = url
				continue
			}
			it.DegradedNotes = append(it.DegradedNotes,
				fmt.Sprintf("no booking link available for %s (%s)", a.Name, a.BookingRef))
		}
	}
}

// renderOutline produces the deterministic day-by-day text. Every day gets
// an explicit section header so downstream consumers can split on them.
func (e *Executor) renderOutline(req *trip.Request, plan *trip.Plan, bundle *research.Bundle) string {
	var b strings.Builder

	if bundle != nil {
		if adv, ok := bundle.Advisory(); ok && adv.Level != "" && adv.Level != tool.AdvisoryNone {
			fmt.Fprintf(&b, "Advisory (%s): %s\n", adv.Level, adv.Summary)
		}
		if visa, ok := bundle.Visa(); ok && visa.Required {
			fmt.Fprintf(&b, "Visa: %s required, allow %d processing days. %s\n",
				visa.Type, visa.ProcessingDays, visa.Notes)
		}
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}

	for i, day := range plan.Days {
		if i > 0 {
			b.WriteString("\n")
		}
		if day.Date.IsZero() {
			fmt.Fprintf(&b, "Day %d\n", day.Number)
		} else {
			fmt.Fprintf(&b, "Day %d (%s)\n", day.Number, day.Date.Format("Mon, 02 Jan 2006"))
		}
		for _, a := range day.Activities {
			writeEntry(&b, a)
		}
		fmt.Fprintf(&b, "  day total %s\n", day.Cost())
	}

	fmt.Fprintf(&b, "\nEstimated total: %s of %s budget\n", plan.TotalCost(), req.TotalBudget)
	b.WriteString(allocationLine(plan.Allocation))
	return b.String()
}

func writeEntry(b *strings.Builder, a trip.Activity) {
	fmt.Fprintf(b, "  %s  %s", a.Time, a.Name)
	if a.Location != "" {
		fmt.Fprintf(b, " (%s)", a.Location)
	}
	if !a.Cost.IsZero() {
		fmt.Fprintf(b, ", %s", a.Cost)
	}
	if a.BookingURL != "" {
		fmt.Fprintf(b, " [book: %s]", a.BookingURL)
	}
	b.WriteString("\n")
}

// allocationLine renders the budget split in the canonical category order.
func allocationLine(alloc trip.Allocation) string {
	if len(alloc) == 0 {
		return ""
	}
	parts := make([]string, 0, len(alloc))
	for _, category := range trip.Categories() {
		if amount, ok := alloc[category]; ok {
			parts = append(parts, fmt.Sprintf("%s %s", category, amount))
		}
	}
	return "Allocation: " + strings.Join(parts, ", ") + "\n"
}
