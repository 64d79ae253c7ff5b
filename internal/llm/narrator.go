// Package llm provides the optional narrative layer of the executor. A
// Narrator turns a finished day-by-day outline into warmer prose; when no
// provider is configured, or a provider call fails, the executor falls back
// to the deterministic outline.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/voyage-ai/voyage/internal/config"
	"github.com/voyage-ai/voyage/internal/types"
)

// NarrativeRequest carries everything a narrator needs to elaborate an
// itinerary. Outline is the deterministic day-by-day text and is always a
// valid itinerary on its own.
type NarrativeRequest struct {
	Destination string
	Days        int
	Budget      string
	Style       string
	Outline     string
}

// Narrator elaborates a deterministic itinerary outline into narrative text.
type Narrator interface {
	// Name identifies the narrator for logs and degradation notes.
	Name() string

	// Narrate returns elaborated itinerary text. Implementations must keep
	// every day section from the outline present in the output.
	Narrate(ctx context.Context, req NarrativeRequest) (string, error)

	// Health reports provider reachability.
	Health(ctx context.Context) types.HealthStatus
}

// New builds a Narrator from configuration. A disabled config yields the
// static narrator, which never fails.
func New(cfg config.LLMConfig) (Narrator, error) {
	if !cfg.Enabled {
		return NewStatic(), nil
	}
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return newOpenAINarrator(cfg)
	case "anthropic":
		return newAnthropicNarrator(cfg)
	case "ollama":
		return newOllamaNarrator(cfg)
	default:
		return nil, types.NewError(types.LLM_PROVIDER_UNKNOWN,
			fmt.Sprintf("unknown narrative provider %q (supported: openai, anthropic, ollama)", cfg.Provider))
	}
}

// prompt renders the instruction sent to a model-backed narrator. The model
// rewrites tone only; amounts, times, and day boundaries come from the
// outline and must survive verbatim.
func prompt(req NarrativeRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a travel writer. Rewrite the itinerary below for a %d-day %s trip to %s with a total budget of %s.\n",
		req.Days, req.Style, req.Destination, req.Budget)
	b.WriteString("Keep every day heading, every time, and every amount exactly as given. ")
	b.WriteString("Add one short sentence of local color per day. Do not invent places or prices.\n\n")
	b.WriteString(req.Outline)
	return b.String()
}
