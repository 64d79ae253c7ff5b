// Package builtins provides the in-process implementations of the research
// capability catalog. Results are synthesized deterministically from the
// embedded destination gazetteer, scaled by regional cost index and travel
// style, so the pipeline behaves identically across runs.
package builtins

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/voyage-ai/voyage/internal/places"
	"github.com/voyage-ai/voyage/internal/tool"
	"github.com/voyage-ai/voyage/internal/trip"
	"github.com/voyage-ai/voyage/internal/types"
)

// RegisterAll registers every builtin capability against the registry using
// the embedded gazetteer.
func RegisterAll(r tool.Registry) error {
	catalog, err := places.Default()
	if err != nil {
		return fmt.Errorf("failed to load places catalog: %w", err)
	}
	return RegisterAllWithCatalog(r, catalog)
}

// RegisterAllWithCatalog registers every builtin capability backed by the
// given catalog.
func RegisterAllWithCatalog(r tool.Registry, catalog *places.Catalog) error {
	base := base{catalog: catalog}
	all := []tool.Tool{
		&budgetEstimateTool{base},
		&advisoryTool{base},
		&visaTool{base},
		&stayTool{base},
		&transportTool{base},
		&activityTool{base},
		&priceTool{base},
		&bookingTool{base},
		&restaurantTool{base},
	}
	for _, t := range all {
		if err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// base carries the shared gazetteer and the common health check.
type base struct {
	catalog *places.Catalog
}

func (b base) Health(ctx context.Context) types.HealthStatus {
	if b.catalog == nil {
		return types.Unhealthy("places catalog not loaded")
	}
	return types.Healthy("catalog loaded")
}

// resolve looks up the query destination, failing with TOOL_INVALID_INPUT
// for places outside the gazetteer.
func (b base) resolve(q tool.Query) (*places.Place, error) {
	if q.Destination == "" {
		return nil, types.NewError(tool.ErrToolInvalidInput, "destination is required")
	}
	p, ok := b.catalog.Resolve(q.Destination)
	if !ok {
		return nil, types.NewError(tool.ErrToolInvalidInput, fmt.Sprintf("unknown destination %q", q.Destination))
	}
	return p, nil
}

// styleFactor scales baseline prices by travel style.
func styleFactor(s trip.TravelStyle) float64 {
	switch s {
	case trip.StyleBudget:
		return 0.7
	case trip.StyleComfort:
		return 1.35
	case trip.StyleLuxury:
		return 1.9
	default:
		return 1.0
	}
}

// preferredClass maps travel style to the lodging class tried first.
func preferredClass(s trip.TravelStyle) string {
	switch s {
	case trip.StyleBudget:
		return "budget"
	case trip.StyleLuxury:
		return "premium"
	default:
		return "midrange"
	}
}

// scale multiplies a rupee amount by a factor, rounding to the nearest rupee.
func scale(m types.Money, factor float64) types.Money {
	major := math.Round(float64(m.Major()) * factor)
	return types.FromMajor(int64(major))
}

// rooms returns the number of rooms for a party, two travelers per room.
func rooms(partySize int) int {
	if partySize <= 0 {
		partySize = 1
	}
	return (partySize + 1) / 2
}

// median returns the middle value of the amounts; 0 for an empty slice.
func median(amounts []types.Money) types.Money {
	if len(amounts) == 0 {
		return 0
	}
	sorted := append([]types.Money(nil), amounts...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted[len(sorted)/2]
}

// stayRef returns the deterministic booking reference for the i-th stay of
// a place. Booking link synthesis regenerates the same codes.
func stayRef(p *places.Place, i int) string {
	return fmt.Sprintf("STAY-%s-%d", placeCode(p), i+1)
}

// transportRef returns the deterministic booking reference for a transport
// mode between two places.
func transportRef(from, to *places.Place, mode string) string {
	return fmt.Sprintf("TR-%s-%s-%s", placeCode(from), placeCode(to), strings.ToUpper(mode))
}

func placeCode(p *places.Place) string {
	code := strings.ToUpper(strings.ReplaceAll(p.Name, " ", ""))
	if len(code) > 6 {
		code = code[:6]
	}
	return code
}

// interestOverlap counts shared tags between an option and the traveler's
// interests, case-insensitively.
func interestOverlap(tags []string, interests []string) int {
	if len(interests) == 0 {
		return 0
	}
	set := make(map[string]bool, len(interests))
	for _, interest := range interests {
		set[strings.ToLower(interest)] = true
	}
	overlap := 0
	for _, tag := range tags {
		if set[strings.ToLower(tag)] {
			overlap++
		}
	}
	return overlap
}
