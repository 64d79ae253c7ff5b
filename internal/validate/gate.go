// Package validate gates a researched trip before planning: the bundle must
// be complete enough to trust, the budget must clear the bare survival
// floor, and no advisory may forbid travel. An incomplete bundle earns a
// bounded number of narrowed retries before the gate gives up for good.
package validate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/voyage-ai/voyage/internal/config"
	"github.com/voyage-ai/voyage/internal/research"
	"github.com/voyage-ai/voyage/internal/tool"
	"github.com/voyage-ai/voyage/internal/trip"
	"github.com/voyage-ai/voyage/internal/types"
)

// Issue is one reason a bundle failed the gate.
type Issue struct {
	Code   types.ErrorCode `json:"code"`
	Reason string          `json:"reason"`
}

// Verdict is the outcome of evaluating one bundle.
type Verdict struct {
	OK           bool    `json:"ok"`
	Completeness float64 `json:"completeness"`
	Issues       []Issue `json:"issues,omitempty"`

	// RetryHints suggest how to narrow the next research pass. Empty when
	// retrying cannot help.
	RetryHints []tool.Hint `json:"retry_hints,omitempty"`

	// Terminal marks failures no retry can fix, like a blocked destination
	// or a budget below the survival floor.
	Terminal bool `json:"terminal,omitempty"`
}

func (v *Verdict) addIssue(code types.ErrorCode, format string, args ...any) {
	v.Issues = append(v.Issues, Issue{Code: code, Reason: fmt.Sprintf(format, args...)})
}

// Gate validates research bundles, re-dispatching with narrowing hints up to
// the configured retry budget.
type Gate struct {
	dispatcher *research.Dispatcher
	cfg        config.ValidationConfig
	floors     config.DailyFloors
	logger     *slog.Logger
}

// NewGate builds a validation gate over the dispatcher.
func NewGate(d *research.Dispatcher, cfg config.ValidationConfig, floors config.DailyFloors, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		dispatcher: d,
		cfg:        cfg,
		floors:     floors,
		logger:     logger.With("component", "validate"),
	}
}

// Run researches the request and validates the bundle, retrying with
// narrowing hints while the verdict says a retry could help. It returns the
// accepted bundle, or an error under the final verdict's own issue code
// carrying its reasons.
func (g *Gate) Run(ctx context.Context, req *trip.Request) (*research.Bundle, error) {
	var hints []tool.Hint
	var verdict *Verdict

	for attempt := 0; attempt <= g.cfg.MaxRetries; attempt++ {
		bundle, err := g.dispatcher.Research(ctx, req, hints...)
		if err != nil {
			return nil, err
		}

		verdict = g.Evaluate(req, bundle)
		if verdict.OK {
			if attempt > 0 {
				g.logger.Info("validation passed after retry",
					"trip_id", req.ID, "attempt", attempt)
			}
			return bundle, nil
		}
		if verdict.Terminal || len(verdict.RetryHints) == 0 {
			break
		}

		hints = append(hints, verdict.RetryHints...)
		g.logger.Warn("validation failed, retrying with narrowed research",
			"trip_id", req.ID,
			"attempt", attempt+1,
			"completeness", fmt.Sprintf("%.2f", verdict.Completeness),
			"hints", hints)
	}

	return nil, types.NewError(verdictCode(verdict), verdictSummary(verdict))
}

// verdictCode surfaces the failure under the first issue's own code, so an
// infeasible budget reads as a planning failure rather than thin research.
func verdictCode(v *Verdict) types.ErrorCode {
	if v != nil && len(v.Issues) > 0 {
		return v.Issues[0].Code
	}
	return types.VALIDATION_INSUFFICIENT
}

// Evaluate applies the gate's checks to one bundle.
func (g *Gate) Evaluate(req *trip.Request, bundle *research.Bundle) *Verdict {
	verdict := &Verdict{Completeness: bundle.Completeness()}

	if advisory, ok := bundle.Advisory(); ok && advisory.HardBlock() {
		verdict.Terminal = true
		verdict.addIssue(types.VALIDATION_INSUFFICIENT,
			"travel advisory forbids the trip: %s", advisory.Summary)
		return verdict
	}

	if days := req.Days(); days > 0 {
		minimum := types.FromMajor(g.floors.Sum() * int64(days))
		if req.TotalBudget < minimum {
			verdict.Terminal = true
			verdict.addIssue(types.PLANNING_INFEASIBLE,
				"budget %s is below the %s minimum for %d days", req.TotalBudget, minimum, days)
			return verdict
		}
	}

	if verdict.Completeness < g.cfg.MinCompleteness {
		verdict.addIssue(types.VALIDATION_INSUFFICIENT,
			"research completeness %.2f below required %.2f", verdict.Completeness, g.cfg.MinCompleteness)
		verdict.RetryHints = retryHints(bundle)
		return verdict
	}

	verdict.OK = true
	return verdict
}

// retryHints picks narrowing hints from which capabilities failed.
func retryHints(bundle *research.Bundle) []tool.Hint {
	var hints []tool.Hint
	for _, kind := range bundle.Failed() {
		switch kind {
		case tool.KindStaySearch:
			hints = append(hints, tool.HintRelaxStayClass)
		case tool.KindTransportSearch, tool.KindActivitySearch:
			hints = append(hints, tool.HintBroadenDates)
		}
	}
	if len(hints) == 0 && len(bundle.Failures) > 0 {
		hints = append(hints, tool.HintBroadenDates)
	}
	return dedupeHints(hints)
}

func dedupeHints(hints []tool.Hint) []tool.Hint {
	seen := make(map[tool.Hint]bool, len(hints))
	out := hints[:0]
	for _, h := range hints {
		if !seen[h] {
			seen[h] = true
			out = append(out, h)
		}
	}
	return out
}

func verdictSummary(v *Verdict) string {
	if v == nil || len(v.Issues) == 0 {
		return "validation failed"
	}
	msg := v.Issues[0].Reason
	for _, issue := range v.Issues[1:] {
		msg += "; " + issue.Reason
	}
	return msg
}
