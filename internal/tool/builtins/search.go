package builtins

import (
	"context"
	"sort"
	"strings"

	"github.com/voyage-ai/voyage/internal/places"
	"github.com/voyage-ai/voyage/internal/tool"
	"github.com/voyage-ai/voyage/internal/trip"
	"github.com/voyage-ai/voyage/internal/types"
)

// stayTool searches the gazetteer's lodging options, preferring the class
// matching the travel style. The relax_stay_class hint widens the search to
// every class.
type stayTool struct {
	base
}

func (t *stayTool) Kind() tool.Kind { return tool.KindStaySearch }
func (t *stayTool) Name() string    { return "builtin-stay-search" }
func (t *stayTool) Description() string {
	return "Searches lodging options at the destination"
}
func (t *stayTool) Tags() []string { return []string{"stay", "search"} }

func (t *stayTool) Execute(ctx context.Context, q tool.Query) (tool.Payload, error) {
	p, err := t.resolve(q)
	if err != nil {
		return nil, err
	}

	wantClass := preferredClass(q.Style)
	relaxed := q.HasHint(tool.HintRelaxStayClass)

	roomCount := rooms(q.PartySize)
	options := make([]tool.StayOption, 0, len(p.Stays))
	var matchingRates []types.Money
	for i, s := range p.Stays {
		if !relaxed && !strings.EqualFold(s.Class, wantClass) {
			continue
		}
		nightly := types.FromMajor(s.Nightly * int64(roomCount))
		options = append(options, tool.StayOption{
			Name:    s.Name,
			Area:    s.Area,
			Class:   s.Class,
			Nightly: nightly,
			RefCode: stayRef(p, i),
		})
		matchingRates = append(matchingRates, nightly)
	}

	// Nothing in the preferred class: fall back to everything so the
	// traveler still sees options, just at a different comfort level.
	if len(options) == 0 {
		for i, s := range p.Stays {
			nightly := types.FromMajor(s.Nightly * int64(roomCount))
			options = append(options, tool.StayOption{
				Name:    s.Name,
				Area:    s.Area,
				Class:   s.Class,
				Nightly: nightly,
				RefCode: stayRef(p, i),
			})
			matchingRates = append(matchingRates, nightly)
		}
	}

	sort.Slice(options, func(i, j int) bool { return options[i].Nightly < options[j].Nightly })
	return tool.StayResults{
		Options:        options,
		TypicalNightly: median(matchingRates),
	}, nil
}

// transportFares holds the national baseline round-trip fares per person in
// whole rupees, scaled by the mean cost index of the two endpoints.
var transportFares = map[string]int64{
	"flight": 6000,
	"train":  1600,
	"bus":    1100,
}

// transportTool synthesizes intercity options between origin and
// destination. Flights appear only when both endpoints list an airport hub.
type transportTool struct {
	base
}

func (t *transportTool) Kind() tool.Kind { return tool.KindTransportSearch }
func (t *transportTool) Name() string    { return "builtin-transport-search" }
func (t *transportTool) Description() string {
	return "Searches intercity transport between origin and destination"
}
func (t *transportTool) Tags() []string { return []string{"transport", "search"} }

func (t *transportTool) Execute(ctx context.Context, q tool.Query) (tool.Payload, error) {
	dest, err := t.resolve(q)
	if err != nil {
		return nil, err
	}
	if q.Origin == "" {
		return nil, types.NewError(tool.ErrToolInvalidInput, "origin is required for transport search")
	}
	origin, ok := t.catalog.Resolve(q.Origin)
	if !ok {
		return nil, types.NewError(tool.ErrToolInvalidInput, "unknown origin "+q.Origin)
	}

	factor := (origin.CostIndex + dest.CostIndex) / 2
	options := make([]tool.TransportOption, 0, len(transportFares))
	for _, mode := range []string{"flight", "train", "bus"} {
		if mode == "flight" && (!hasHub(origin, "airport") || !hasHub(dest, "airport")) {
			continue
		}
		fare := scale(types.FromMajor(transportFares[mode]), factor)
		options = append(options, tool.TransportOption{
			Mode:    mode,
			From:    origin.Name,
			To:      dest.Name,
			Fare:    fare,
			RefCode: transportRef(origin, dest, mode),
		})
	}

	fares := make([]types.Money, 0, len(options))
	for _, o := range options {
		fares = append(fares, o.Fare)
	}
	return tool.TransportResults{
		Options:     options,
		TypicalFare: median(fares),
	}, nil
}

func hasHub(p *places.Place, kind string) bool {
	for _, hub := range p.Hubs {
		if strings.Contains(strings.ToLower(hub), kind) {
			return true
		}
	}
	return false
}

// activityTool lists the destination's activities, ordered by overlap with
// the traveler's interests. Ordering is stable so equal-overlap options keep
// their catalog order.
type activityTool struct {
	base
}

func (t *activityTool) Kind() tool.Kind { return tool.KindActivitySearch }
func (t *activityTool) Name() string    { return "builtin-activity-search" }
func (t *activityTool) Description() string {
	return "Searches activities and experiences at the destination"
}
func (t *activityTool) Tags() []string { return []string{"activity", "search"} }

func (t *activityTool) Execute(ctx context.Context, q tool.Query) (tool.Payload, error) {
	p, err := t.resolve(q)
	if err != nil {
		return nil, err
	}

	options := make([]tool.ActivityOption, 0, len(p.Activities))
	for _, a := range p.Activities {
		options = append(options, tool.ActivityOption{
			Name:  a.Name,
			Area:  a.Area,
			Tags:  append([]string(nil), a.Tags...),
			Price: types.FromMajor(a.Price),
			Slot:  a.Slot,
			Hours: a.Hours,
		})
	}
	sort.SliceStable(options, func(i, j int) bool {
		return interestOverlap(options[i].Tags, q.Interests) > interestOverlap(options[j].Tags, q.Interests)
	})
	return tool.ActivityResults{Options: options}, nil
}

// restaurantTool lists the destination's dining options. Budget travelers
// see the cheapest first, luxury travelers the priciest.
type restaurantTool struct {
	base
}

func (t *restaurantTool) Kind() tool.Kind { return tool.KindRestaurants }
func (t *restaurantTool) Name() string    { return "builtin-restaurants" }
func (t *restaurantTool) Description() string {
	return "Suggests restaurants at the destination"
}
func (t *restaurantTool) Tags() []string { return []string{"restaurants", "search"} }

func (t *restaurantTool) Execute(ctx context.Context, q tool.Query) (tool.Payload, error) {
	p, err := t.resolve(q)
	if err != nil {
		return nil, err
	}

	options := make([]tool.RestaurantOption, 0, len(p.Restaurants))
	for _, r := range p.Restaurants {
		options = append(options, tool.RestaurantOption{
			Name:      r.Name,
			Area:      r.Area,
			Cuisine:   r.Cuisine,
			MealPrice: types.FromMajor(r.MealPrice),
			Tags:      append([]string(nil), r.Tags...),
		})
	}
	switch q.Style {
	case trip.StyleLuxury, trip.StyleComfort:
		sort.SliceStable(options, func(i, j int) bool { return options[i].MealPrice > options[j].MealPrice })
	default:
		sort.SliceStable(options, func(i, j int) bool { return options[i].MealPrice < options[j].MealPrice })
	}
	return tool.RestaurantResults{Options: options}, nil
}
