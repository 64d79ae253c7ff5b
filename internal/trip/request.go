// Package trip defines the core data model for the Voyage planning pipeline:
// structured trip requests, day-partitioned itinerary plans, budget
// allocations, and replanning context.
package trip

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/voyage-ai/voyage/internal/types"
)

// TravelStyle describes the traveler's spending posture. It orders activity
// suggestions as a soft preference, never a hard filter.
type TravelStyle string

const (
	StyleBudget   TravelStyle = "budget"
	StyleBalanced TravelStyle = "balanced"
	StyleComfort  TravelStyle = "comfort"
	StyleLuxury   TravelStyle = "luxury"
)

// Field names a mandatory or optional slot of a trip request. The extractor
// reports unresolved mandatory slots through Request.MissingFields.
type Field string

const (
	FieldDestination Field = "destination"
	FieldOrigin      Field = "origin"
	FieldBudget      Field = "budget"
	FieldDates       Field = "dates"
	FieldPartySize   Field = "party_size"
)

// Request is the structured, validated representation of a travel ask.
// It is immutable once the validation gate accepts it; a changed budget or
// date range starts a new Request with a fresh ID.
type Request struct {
	ID          types.ID    `json:"id"`
	Destination string      `json:"destination"`
	Origin      string      `json:"origin,omitempty"`
	PartySize   int         `json:"party_size"`
	StartDate   time.Time   `json:"start_date,omitzero"`
	EndDate     time.Time   `json:"end_date,omitzero"`
	Duration    int         `json:"duration_days,omitempty"`
	TotalBudget types.Money `json:"total_budget"`
	Interests   []string    `json:"interests,omitempty"`
	Style       TravelStyle `json:"style,omitempty"`
	RawPrompt   string      `json:"raw_prompt,omitempty"`

	// MissingFields lists mandatory slots the extractor could not resolve.
	// Empty for a complete request.
	MissingFields []Field `json:"missing_fields,omitempty"`

	// Domestic marks trips where origin and destination share a country, so
	// visa research can be skipped.
	Domestic bool `json:"domestic,omitempty"`

	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Days returns the trip length in days, derived from the date range when
// present, otherwise from the stated duration. Returns 0 when neither is known.
func (r *Request) Days() int {
	if !r.StartDate.IsZero() && !r.EndDate.IsZero() {
		d := int(r.EndDate.Sub(r.StartDate).Hours() / 24)
		if d > 0 {
			return d
		}
		return 1
	}
	return r.Duration
}

// HasDates reports whether an explicit date range is set.
func (r *Request) HasDates() bool {
	return !r.StartDate.IsZero() && !r.EndDate.IsZero()
}

// Missing recomputes the unresolved mandatory slots: destination, budget,
// and at least one of dates or duration.
func (r *Request) Missing() []Field {
	var missing []Field
	if r.Destination == "" {
		missing = append(missing, FieldDestination)
	}
	if r.TotalBudget.IsZero() {
		missing = append(missing, FieldBudget)
	}
	if !r.HasDates() && r.Duration == 0 {
		missing = append(missing, FieldDates)
	}
	return missing
}

// IsComplete reports whether all mandatory slots are resolved.
func (r *Request) IsComplete() bool {
	return len(r.Missing()) == 0
}

// HasMissing reports whether the given field is recorded as missing.
func (r *Request) HasMissing(f Field) bool {
	for _, m := range r.MissingFields {
		if m == f {
			return true
		}
	}
	return false
}

// Fingerprint returns a stable digest of the research-relevant request
// fields. Research bundles are cached under this key, so two requests that
// would dispatch identical research share a bundle.
func (r *Request) Fingerprint() string {
	interests := append([]string(nil), r.Interests...)
	sort.Strings(interests)

	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%d|%s|%s|%d|%d|%s|%s",
		strings.ToLower(r.Destination),
		strings.ToLower(r.Origin),
		r.PartySize,
		r.StartDate.Format("2006-01-02"),
		r.EndDate.Format("2006-01-02"),
		r.Days(),
		r.TotalBudget,
		r.Style,
		strings.Join(interests, ","),
	)
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Validate checks structural soundness of a request before it enters the
// research stage.
func (r *Request) Validate() error {
	if missing := r.Missing(); len(missing) > 0 {
		return fmt.Errorf("request incomplete, missing: %v", missing)
	}
	if r.PartySize < 0 {
		return fmt.Errorf("party size cannot be negative (got %d)", r.PartySize)
	}
	if r.HasDates() && r.EndDate.Before(r.StartDate) {
		return fmt.Errorf("end date %s precedes start date %s",
			r.EndDate.Format("2006-01-02"), r.StartDate.Format("2006-01-02"))
	}
	if r.TotalBudget < 0 {
		return fmt.Errorf("budget cannot be negative")
	}
	return nil
}
