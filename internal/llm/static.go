package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/voyage-ai/voyage/internal/types"
)

// StaticNarrator is the deterministic fallback narrator. It frames the
// outline with a short header and footer and never calls out.
type StaticNarrator struct{}

// NewStatic returns the deterministic narrator.
func NewStatic() *StaticNarrator {
	return &StaticNarrator{}
}

func (s *StaticNarrator) Name() string {
	return "static"
}

func (s *StaticNarrator) Narrate(_ context.Context, req NarrativeRequest) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Your %d-day %s itinerary for %s (budget %s):\n\n",
		req.Days, req.Style, req.Destination, req.Budget)
	b.WriteString(req.Outline)
	if !strings.HasSuffix(req.Outline, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("\nAll amounts are estimates from research at planning time. Carry some slack for on-the-ground prices.\n")
	return b.String(), nil
}

func (s *StaticNarrator) Health(context.Context) types.HealthStatus {
	return types.Healthy("static narrator always available")
}
