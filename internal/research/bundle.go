// Package research fans a trip request out across the capability catalog
// concurrently and assembles the results into a bundle. A failed capability
// marks its slot and lowers the bundle's completeness score instead of
// failing the fan-out; the validation gate decides whether the bundle is
// good enough to plan from.
package research

import (
	"sort"
	"time"

	"github.com/voyage-ai/voyage/internal/tool"
	"github.com/voyage-ai/voyage/internal/types"
)

// kindWeights ranks how much each capability contributes to completeness.
// Budget grounding matters most, searches next, advisories and links least.
var kindWeights = map[tool.Kind]float64{
	tool.KindBudgetEstimate:  3,
	tool.KindStaySearch:      2,
	tool.KindTransportSearch: 2,
	tool.KindActivitySearch:  1.5,
	tool.KindPriceEstimate:   1.5,
	tool.KindAdvisory:        1,
	tool.KindVisa:            1,
	tool.KindBookingLinks:    1,
	tool.KindRestaurants:     1,
}

// Bundle is the joined output of one research fan-out. Every requested kind
// lands either in Results or in Failures.
type Bundle struct {
	TripID      types.ID                  `json:"trip_id"`
	Fingerprint string                    `json:"fingerprint"`
	Requested   []tool.Kind               `json:"requested"`
	Results     map[tool.Kind]tool.Payload `json:"-"`
	Failures    map[tool.Kind]string      `json:"failures,omitempty"`
	CreatedAt   time.Time                 `json:"created_at"`
}

// Has reports whether the kind produced a result.
func (b *Bundle) Has(kind tool.Kind) bool {
	_, ok := b.Results[kind]
	return ok
}

// Failed returns the failure reasons keyed by kind, sorted for stable logs.
func (b *Bundle) Failed() []tool.Kind {
	kinds := make([]tool.Kind, 0, len(b.Failures))
	for kind := range b.Failures {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Completeness scores how much of the requested research succeeded, weighted
// by how load-bearing each capability is. 1.0 means every requested kind
// produced a result.
func (b *Bundle) Completeness() float64 {
	var total, got float64
	for _, kind := range b.Requested {
		w := kindWeights[kind]
		total += w
		if b.Has(kind) {
			got += w
		}
	}
	if total == 0 {
		return 0
	}
	return got / total
}

// BudgetEstimate returns the budget estimate slot.
func (b *Bundle) BudgetEstimate() (tool.BudgetEstimate, bool) {
	p, ok := b.Results[tool.KindBudgetEstimate].(tool.BudgetEstimate)
	return p, ok
}

// Advisory returns the advisory slot.
func (b *Bundle) Advisory() (tool.Advisory, bool) {
	p, ok := b.Results[tool.KindAdvisory].(tool.Advisory)
	return p, ok
}

// Visa returns the visa slot.
func (b *Bundle) Visa() (tool.VisaInfo, bool) {
	p, ok := b.Results[tool.KindVisa].(tool.VisaInfo)
	return p, ok
}

// Stays returns the accommodation search slot.
func (b *Bundle) Stays() (tool.StayResults, bool) {
	p, ok := b.Results[tool.KindStaySearch].(tool.StayResults)
	return p, ok
}

// Transport returns the transport search slot.
func (b *Bundle) Transport() (tool.TransportResults, bool) {
	p, ok := b.Results[tool.KindTransportSearch].(tool.TransportResults)
	return p, ok
}

// Activities returns the activity search slot.
func (b *Bundle) Activities() (tool.ActivityResults, bool) {
	p, ok := b.Results[tool.KindActivitySearch].(tool.ActivityResults)
	return p, ok
}

// Prices returns the local price estimate slot.
func (b *Bundle) Prices() (tool.PriceEstimates, bool) {
	p, ok := b.Results[tool.KindPriceEstimate].(tool.PriceEstimates)
	return p, ok
}

// BookingLinks returns the booking link slot.
func (b *Bundle) BookingLinks() (tool.BookingLinks, bool) {
	p, ok := b.Results[tool.KindBookingLinks].(tool.BookingLinks)
	return p, ok
}

// Restaurants returns the restaurant suggestion slot.
func (b *Bundle) Restaurants() (tool.RestaurantResults, bool) {
	p, ok := b.Results[tool.KindRestaurants].(tool.RestaurantResults)
	return p, ok
}
