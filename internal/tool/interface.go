// Package tool declares the closed catalog of research capabilities the
// planning pipeline can dispatch to, and the registry that executes them.
// Capabilities form a fixed, tagged set of operation kinds with one uniform
// typed invoke contract; a new capability is added by adding a Kind and a
// payload type, never by reflection.
package tool

import (
	"context"
	"time"

	"github.com/voyage-ai/voyage/internal/trip"
	"github.com/voyage-ai/voyage/internal/types"
)

// Kind identifies a research capability. The set is closed: every dispatchable
// operation is one of these.
type Kind string

const (
	KindBudgetEstimate  Kind = "budget_estimate"
	KindAdvisory        Kind = "advisory"
	KindVisa            Kind = "visa"
	KindStaySearch      Kind = "stay_search"
	KindTransportSearch Kind = "transport_search"
	KindActivitySearch  Kind = "activity_search"
	KindPriceEstimate   Kind = "price_estimate"
	KindBookingLinks    Kind = "booking_links"
	KindRestaurants     Kind = "restaurants"
)

// Kinds returns every capability kind in the catalog.
func Kinds() []Kind {
	return []Kind{
		KindBudgetEstimate,
		KindAdvisory,
		KindVisa,
		KindStaySearch,
		KindTransportSearch,
		KindActivitySearch,
		KindPriceEstimate,
		KindBookingLinks,
		KindRestaurants,
	}
}

// Valid reports whether k is a known capability kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// String returns the string form of the kind.
func (k Kind) String() string {
	return string(k)
}

// Hint names a narrowing adjustment the validator can request for a retry
// pass. Tools interpret the hints relevant to them and ignore the rest.
type Hint string

const (
	HintBroadenDates   Hint = "broaden_dates"
	HintRelaxStayClass Hint = "relax_stay_class"
	HintReduceScope    Hint = "reduce_party_scope"
)

// Query is the uniform input for every capability. It is a read-only
// projection of the trip request plus any retry hints.
type Query struct {
	Destination string
	Origin      string
	PartySize   int
	StartDate   time.Time
	EndDate     time.Time
	Days        int
	Budget      types.Money
	Interests   []string
	Style       trip.TravelStyle
	Domestic    bool
	Hints       []Hint
}

// NewQuery builds a Query from a trip request.
func NewQuery(req *trip.Request) Query {
	return Query{
		Destination: req.Destination,
		Origin:      req.Origin,
		PartySize:   max(req.PartySize, 1),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Days:        req.Days(),
		Budget:      req.TotalBudget,
		Interests:   append([]string(nil), req.Interests...),
		Style:       req.Style,
		Domestic:    req.Domestic,
	}
}

// WithHints returns a copy of the query carrying the given retry hints.
func (q Query) WithHints(hints ...Hint) Query {
	q.Hints = append(append([]Hint(nil), q.Hints...), hints...)
	return q
}

// HasHint reports whether the query carries the given hint.
func (q Query) HasHint(h Hint) bool {
	for _, hint := range q.Hints {
		if hint == h {
			return true
		}
	}
	return false
}

// Payload is the typed output of a capability. Each capability kind has
// exactly one payload type; consumers switch on Kind and assert.
type Payload interface {
	Kind() Kind
}

// Tool is a single research capability: an atomic, stateless operation with
// a typed input and output.
type Tool interface {
	// Kind returns the capability kind this tool implements.
	Kind() Kind

	// Name returns a human-readable name for logs and metrics.
	Name() string

	// Description returns what this tool researches.
	Description() string

	// Tags returns categorization tags for discovery.
	Tags() []string

	// Execute runs the capability. Context carries the per-tool deadline;
	// implementations must return promptly on cancellation.
	Execute(ctx context.Context, q Query) (Payload, error)

	// Health returns the current health of the capability.
	Health(ctx context.Context) types.HealthStatus
}
