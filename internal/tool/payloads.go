package tool

import (
	"github.com/voyage-ai/voyage/internal/trip"
	"github.com/voyage-ai/voyage/internal/types"
)

// BudgetEstimate is the payload of the budget estimate capability: typical
// per-day spend for the destination, broken down per category.
type BudgetEstimate struct {
	// PerDay is the typical total daily spend for one traveler.
	PerDay types.Money `json:"per_day"`

	// PerCategoryPerDay breaks the daily spend down by category.
	PerCategoryPerDay map[trip.Category]types.Money `json:"per_category_per_day"`

	// MinimumViablePerDay is the lowest workable daily spend.
	MinimumViablePerDay types.Money `json:"minimum_viable_per_day"`
}

func (BudgetEstimate) Kind() Kind { return KindBudgetEstimate }

// AdvisoryLevel grades a travel advisory.
type AdvisoryLevel string

const (
	AdvisoryNone    AdvisoryLevel = "none"
	AdvisoryCaution AdvisoryLevel = "caution"
	AdvisoryWarning AdvisoryLevel = "warning"
	AdvisoryBlock   AdvisoryLevel = "do_not_travel"
)

// Advisory is the payload of the advisory lookup capability.
type Advisory struct {
	Level   AdvisoryLevel `json:"level"`
	Summary string        `json:"summary,omitempty"`
}

func (Advisory) Kind() Kind { return KindAdvisory }

// HardBlock reports whether the advisory forbids planning for the dates.
func (a Advisory) HardBlock() bool {
	return a.Level == AdvisoryBlock
}

// VisaInfo is the payload of the visa lookup capability.
type VisaInfo struct {
	Required       bool   `json:"required"`
	Type           string `json:"type,omitempty"` // e.g. "visa on arrival", "e-visa"
	ProcessingDays int    `json:"processing_days,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

func (VisaInfo) Kind() Kind { return KindVisa }

// StayOption is a single lodging candidate.
type StayOption struct {
	Name    string      `json:"name"`
	Area    string      `json:"area,omitempty"`
	Class   string      `json:"class"` // budget, midrange, premium
	Nightly types.Money `json:"nightly"`
	RefCode string      `json:"ref_code,omitempty"`
}

// StayResults is the payload of the accommodation search capability.
type StayResults struct {
	Options []StayOption `json:"options"`

	// TypicalNightly is the median nightly rate across options matching the
	// requested style, used by the planner to adjust the allocation.
	TypicalNightly types.Money `json:"typical_nightly"`
}

func (StayResults) Kind() Kind { return KindStaySearch }

// TransportOption is a single intercity transport candidate.
type TransportOption struct {
	Mode    string      `json:"mode"` // flight, train, bus
	Carrier string      `json:"carrier,omitempty"`
	From    string      `json:"from"`
	To      string      `json:"to"`
	Fare    types.Money `json:"fare"` // per person, round trip
	RefCode string      `json:"ref_code,omitempty"`
}

// TransportResults is the payload of the transport search capability.
type TransportResults struct {
	Options     []TransportOption `json:"options"`
	TypicalFare types.Money       `json:"typical_fare"`
}

func (TransportResults) Kind() Kind { return KindTransportSearch }

// ActivityOption is a single activity candidate.
type ActivityOption struct {
	Name  string      `json:"name"`
	Area  string      `json:"area,omitempty"`
	Tags  []string    `json:"tags,omitempty"`
	Price types.Money `json:"price"` // per person
	Slot  string      `json:"slot"`  // morning, afternoon, evening
	Hours int         `json:"hours,omitempty"`
}

// ActivityResults is the payload of the activity search capability.
type ActivityResults struct {
	Options []ActivityOption `json:"options"`
}

func (ActivityResults) Kind() Kind { return KindActivitySearch }

// PriceEstimates is the payload of the local price estimate capability.
type PriceEstimates struct {
	// MealPerHead is the typical cost of one restaurant meal.
	MealPerHead types.Money `json:"meal_per_head"`

	// LocalTransportPerDay is the typical daily cost of getting around.
	LocalTransportPerDay types.Money `json:"local_transport_per_day"`
}

func (PriceEstimates) Kind() Kind { return KindPriceEstimate }

// BookingLinks is the payload of the booking link synthesis capability:
// reference-code-keyed booking URLs for stay and transport options.
type BookingLinks struct {
	Links map[string]string `json:"links"` // RefCode -> URL
}

func (BookingLinks) Kind() Kind { return KindBookingLinks }

// RestaurantOption is a single dining candidate.
type RestaurantOption struct {
	Name      string      `json:"name"`
	Area      string      `json:"area,omitempty"`
	Cuisine   string      `json:"cuisine,omitempty"`
	MealPrice types.Money `json:"meal_price"` // per person
	Tags      []string    `json:"tags,omitempty"`
}

// RestaurantResults is the payload of the restaurant suggestion capability.
type RestaurantResults struct {
	Options []RestaurantOption `json:"options"`
}

func (RestaurantResults) Kind() Kind { return KindRestaurants }
