// Package orchestrator drives the planning pipeline end to end: prompt
// extraction, concurrent research, the validation gate, budget-partitioned
// planning, and executor elaboration. It also hosts the two re-entry modes,
// mid-trip replanning and single-day optimization.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/voyage-ai/voyage/internal/config"
	"github.com/voyage-ai/voyage/internal/events"
	"github.com/voyage-ai/voyage/internal/executor"
	"github.com/voyage-ai/voyage/internal/extract"
	"github.com/voyage-ai/voyage/internal/llm"
	"github.com/voyage-ai/voyage/internal/planning"
	"github.com/voyage-ai/voyage/internal/research"
	"github.com/voyage-ai/voyage/internal/store"
	"github.com/voyage-ai/voyage/internal/tool"
	"github.com/voyage-ai/voyage/internal/trip"
	"github.com/voyage-ai/voyage/internal/types"
	"github.com/voyage-ai/voyage/internal/validate"
)

// State names a pipeline stage. Outcomes report the state the pipeline
// finished in, not transient intermediate states.
type State string

const (
	StateIdle          State = "idle"
	StateExtracting    State = "extracting"
	StateNeedsInfo     State = "needs_info"
	StateResearching   State = "researching"
	StateValidating    State = "validating"
	StatePlanning      State = "planning"
	StateExecuting     State = "executing"
	StateDone          State = "done"
	StateReplanning    State = "replanning"
	StateOptimizingDay State = "optimizing_day"
	StateFailed        State = "failed"
)

// Outcome is the result of one pipeline entry. Exactly one of Question or
// Itinerary is meaningful: NeedsInfo outcomes carry a clarification question
// plus the partial request the caller must pass back to Resume, Done
// outcomes carry the executed itinerary.
type Outcome struct {
	State     State           `json:"state"`
	Request   *trip.Request   `json:"request,omitempty"`
	Question  string          `json:"question,omitempty"`
	Plan      *trip.Plan      `json:"plan,omitempty"`
	Itinerary *trip.Itinerary `json:"itinerary,omitempty"`
}

// PlanOption supplies structured fields alongside the prompt text.
type PlanOption func(*planOptions)

type planOptions struct {
	start, end time.Time
}

// WithDates fixes the trip's date range regardless of what the prompt says
// about timing. A zero start or end leaves that side to the prompt.
func WithDates(start, end time.Time) PlanOption {
	return func(o *planOptions) {
		o.start, o.end = start, end
	}
}

// Orchestrator wires the pipeline stages together. It holds no per-trip
// session state and is safe for concurrent use; a clarification loop works
// by the caller passing each outcome's Request back into Resume.
type Orchestrator struct {
	extractor  *extract.Extractor
	dispatcher *research.Dispatcher
	gate       *validate.Gate
	planner    *planning.Planner
	executor   *executor.Executor
	archive    *store.Store
	bus        events.Bus
	bundleTTL  time.Duration
	logger     *slog.Logger
}

// New builds an orchestrator from configuration and its external
// collaborators. archive and bus may be nil; persistence and event
// publication are then skipped.
func New(cfg *config.Config, registry tool.Registry, archive *store.Store, bus events.Bus, narrator llm.Narrator, logger *slog.Logger) (*Orchestrator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ex, err := extract.NewDefault()
	if err != nil {
		return nil, err
	}
	dispatcher := research.NewDispatcher(registry, cfg.Research, logger)
	return &Orchestrator{
		extractor:  ex,
		dispatcher: dispatcher,
		gate:       validate.NewGate(dispatcher, cfg.Validation, cfg.Planner.DailyFloors, logger),
		planner:    planning.NewPlanner(cfg.Planner, logger),
		executor:   executor.New(narrator, logger),
		archive:    archive,
		bus:        bus,
		bundleTTL:  cfg.Research.CacheTTL,
		logger:     logger.With("component", "orchestrator"),
	}, nil
}

// Plan runs the full pipeline for a fresh prompt. When extraction cannot
// resolve a mandatory field, the outcome carries a clarification question
// and the partial request; the caller resumes with Resume.
func (o *Orchestrator) Plan(ctx context.Context, prompt string, opts ...PlanOption) (*Outcome, error) {
	var po planOptions
	for _, opt := range opts {
		opt(&po)
	}
	var seed *trip.Request
	if !po.start.IsZero() || !po.end.IsZero() {
		// Structured dates merge like an already-answered clarification.
		seed = &trip.Request{StartDate: po.start, EndDate: po.end}
	}
	return o.run(ctx, prompt, seed)
}

// Resume continues a clarification loop: prev is the partial request a
// NeedsInfo outcome returned, prompt is the traveler's answer. The answer
// is merged into the prior extraction; corrections override previously
// resolved fields.
func (o *Orchestrator) Resume(ctx context.Context, prev *trip.Request, prompt string) (*Outcome, error) {
	if prev == nil {
		return nil, types.NewError(types.EXTRACTION_AMBIGUOUS,
			"resume requires the partial request from the previous outcome")
	}
	return o.run(ctx, prompt, prev)
}

func (o *Orchestrator) run(ctx context.Context, prompt string, prev *trip.Request) (*Outcome, error) {
	res, err := o.extractor.Extract(prompt, prev)
	if err != nil {
		return nil, err
	}
	req := res.Request

	if res.NeedsMoreInfo {
		o.publish(events.NewEvent(events.EventTripNeedsInfo, req.ID, res.Question))
		return &Outcome{State: StateNeedsInfo, Request: req, Question: res.Question}, nil
	}
	o.publish(events.NewEvent(events.EventTripExtracted, req.ID,
		fmt.Sprintf("%d days in %s, budget %s", req.Days(), req.Destination, req.TotalBudget)))

	if err := req.Validate(); err != nil {
		return nil, types.WrapError(types.EXTRACTION_AMBIGUOUS, "extracted request is not plannable", err)
	}

	o.publish(events.NewEvent(events.EventResearchStarted, req.ID, ""))
	bundle, err := o.gate.Run(ctx, req)
	if err != nil {
		o.publish(events.NewEvent(events.EventValidationFail, req.ID, err.Error()))
		return nil, err
	}
	o.publish(events.NewEvent(events.EventValidationOK, req.ID,
		fmt.Sprintf("research completeness %.2f", bundle.Completeness())))

	plan, err := o.planner.Build(req, bundle)
	if err != nil {
		o.publish(events.NewEvent(events.EventPlanInfeasible, req.ID, err.Error()))
		return nil, err
	}
	o.publish(o.planEvent(events.EventPlanCreated, plan, ""))

	return o.execute(ctx, req, plan, bundle)
}

// Replan re-enters the pipeline mid-trip. When force is false the configured
// triggers decide; a decision not to replan returns a Done outcome with the
// current active plan untouched.
func (o *Orchestrator) Replan(ctx context.Context, rctx trip.ReplanContext, force bool) (*Outcome, error) {
	req, prevPlan, err := o.load(ctx, rctx.TripID)
	if err != nil {
		return nil, err
	}

	if !force {
		decision := o.planner.EvaluateTriggers(rctx)
		if !decision.Should {
			o.logger.Info("replan not warranted", "trip_id", rctx.TripID)
			return &Outcome{State: StateDone, Request: req, Plan: prevPlan}, nil
		}
		o.logger.Info("replan triggered", "trip_id", rctx.TripID, "reason", decision.Reason)
	}

	bundle, err := o.bundleFor(ctx, req)
	if err != nil {
		return nil, err
	}

	plan, err := o.planner.Replan(req, prevPlan, rctx, bundle)
	if err != nil {
		o.publish(events.NewEvent(events.EventPlanInfeasible, rctx.TripID, err.Error()))
		return nil, err
	}
	o.publish(o.planEvent(events.EventPlanReplanned, plan,
		fmt.Sprintf("revision %d, per-day cap %s", plan.Revision, plan.PerDayCap)))

	return o.execute(ctx, req, plan, bundle)
}

// OptimizeDay rebuilds the remainder of one day of the active plan and
// archives the result as a new revision.
func (o *Orchestrator) OptimizeDay(ctx context.Context, tripID types.ID, opt planning.DayOptRequest) (*Outcome, error) {
	req, plan, err := o.load(ctx, tripID)
	if err != nil {
		return nil, err
	}

	bundle, err := o.bundleFor(ctx, req)
	if err != nil {
		return nil, err
	}

	partial, err := o.planner.OptimizeDay(plan, opt, bundle, req.PartySize)
	if err != nil {
		return nil, err
	}
	partial.Text = o.executor.ExecutePartial(partial)

	next := planning.ApplyPartialDay(plan, partial)
	o.publish(o.planEvent(events.EventDayOptimized, next,
		fmt.Sprintf("day %d rebuilt from %s", opt.DayNumber, opt.From)))

	return o.execute(ctx, req, next, bundle)
}

// bundleFor serves re-entry modes: the trip's archived research bundle when
// it is still fresh, a new research pass otherwise.
func (o *Orchestrator) bundleFor(ctx context.Context, req *trip.Request) (*research.Bundle, error) {
	if o.archive != nil {
		bundle, err := o.archive.Bundle(ctx, req.ID)
		if err == nil && time.Since(bundle.CreatedAt) <= o.bundleTTL {
			o.logger.Debug("reusing archived research bundle",
				"trip_id", req.ID, "age", time.Since(bundle.CreatedAt))
			return bundle, nil
		}
	}
	return o.dispatcher.Research(ctx, req)
}

// execute elaborates and archives a finished plan.
func (o *Orchestrator) execute(ctx context.Context, req *trip.Request, plan *trip.Plan, bundle *research.Bundle) (*Outcome, error) {
	it, err := o.executor.Execute(ctx, req, plan, bundle)
	if err != nil {
		return nil, err
	}

	if o.archive != nil {
		if err := o.archive.SaveTrip(ctx, req); err != nil {
			return nil, err
		}
		if err := o.archive.SavePlan(ctx, plan); err != nil {
			return nil, err
		}
		if err := o.archive.SaveBundle(ctx, req.ID, bundle); err != nil {
			return nil, err
		}
		if err := o.archive.SaveItinerary(ctx, it); err != nil {
			return nil, err
		}
	}

	eventType := events.EventExecutionDone
	if it.Degraded() {
		eventType = events.EventExecutionDegr
	}
	o.publish(o.planEvent(eventType, plan, ""))

	o.logger.Info("pipeline finished",
		"trip_id", plan.TripID,
		"revision", plan.Revision,
		"total_cost", plan.TotalCost(),
		"degraded", it.Degraded())
	return &Outcome{State: StateDone, Request: req, Plan: plan, Itinerary: it}, nil
}

// load fetches a trip and its active plan from the archive.
func (o *Orchestrator) load(ctx context.Context, tripID types.ID) (*trip.Request, *trip.Plan, error) {
	if o.archive == nil {
		return nil, nil, types.NewError(types.STORE_OPEN_FAILED, "no plan archive configured")
	}
	req, err := o.archive.GetTrip(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}
	plan, err := o.archive.ActivePlan(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}
	return req, plan, nil
}

func (o *Orchestrator) publish(event events.Event) {
	if o.bus == nil {
		return
	}
	// Best effort; a closed bus must not fail the pipeline.
	_ = o.bus.Publish(context.Background(), event)
}

func (o *Orchestrator) planEvent(t events.EventType, plan *trip.Plan, message string) events.Event {
	event := events.NewEvent(t, plan.TripID, message)
	event.PlanID = plan.ID
	return event
}
