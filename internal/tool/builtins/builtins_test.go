package builtins

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyage-ai/voyage/internal/tool"
	"github.com/voyage-ai/voyage/internal/trip"
	"github.com/voyage-ai/voyage/internal/types"
)

func newTestRegistry(t *testing.T) *tool.DefaultRegistry {
	t.Helper()
	r := tool.NewRegistry()
	require.NoError(t, RegisterAll(r))
	return r
}

func goaQuery() tool.Query {
	return tool.Query{
		Destination: "Goa",
		Origin:      "Mumbai",
		PartySize:   2,
		Days:        5,
		Budget:      types.FromMajor(30000),
		Style:       trip.StyleBalanced,
		Domestic:    true,
	}
}

func TestRegisterAllCoversCatalog(t *testing.T) {
	r := newTestRegistry(t)

	descriptors := r.List()
	require.Len(t, descriptors, len(tool.Kinds()))

	health := r.Health(context.Background())
	assert.True(t, health.IsHealthy())
}

func TestBudgetEstimate(t *testing.T) {
	r := newTestRegistry(t)

	payload, err := r.Execute(context.Background(), tool.KindBudgetEstimate, goaQuery())
	require.NoError(t, err)
	estimate, ok := payload.(tool.BudgetEstimate)
	require.True(t, ok)

	// Goa's cost index is 1.1; balanced style keeps the baseline factor.
	assert.Equal(t, types.FromMajor(3410), estimate.PerDay)
	assert.Equal(t, types.FromMajor(1320), estimate.PerCategoryPerDay[trip.CategoryAccommodation])
	assert.Equal(t, types.FromMajor(770), estimate.PerCategoryPerDay[trip.CategoryFood])

	// Cheapest stay, three cheapest meals, scaled local transport.
	assert.Equal(t, types.FromMajor(900+3*250+165), estimate.MinimumViablePerDay)
	assert.Less(t, estimate.MinimumViablePerDay, estimate.PerDay)
}

func TestBudgetEstimateStyleScaling(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	budget := goaQuery()
	budget.Style = trip.StyleBudget
	luxury := goaQuery()
	luxury.Style = trip.StyleLuxury

	low, err := r.Execute(ctx, tool.KindBudgetEstimate, budget)
	require.NoError(t, err)
	high, err := r.Execute(ctx, tool.KindBudgetEstimate, luxury)
	require.NoError(t, err)

	assert.Less(t, low.(tool.BudgetEstimate).PerDay, high.(tool.BudgetEstimate).PerDay)
}

func TestUnknownDestinationRejected(t *testing.T) {
	r := newTestRegistry(t)

	q := goaQuery()
	q.Destination = "Atlantis"
	for _, kind := range tool.Kinds() {
		_, err := r.Execute(context.Background(), kind, q)
		require.Error(t, err, "kind %s", kind)
		assert.Equal(t, tool.ErrToolInvalidInput, types.CodeOf(err), "kind %s", kind)
	}
}

func TestStaySearchFiltersByStyle(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	q := goaQuery()
	q.Style = trip.StyleBudget
	payload, err := r.Execute(ctx, tool.KindStaySearch, q)
	require.NoError(t, err)
	results := payload.(tool.StayResults)

	require.Len(t, results.Options, 2)
	for _, opt := range results.Options {
		assert.Equal(t, "budget", opt.Class)
		assert.NotEmpty(t, opt.RefCode)
	}
	// Options come back cheapest first.
	assert.Equal(t, "Seaside Hostel Calangute", results.Options[0].Name)
	assert.Equal(t, types.FromMajor(900), results.Options[0].Nightly)

	relaxed, err := r.Execute(ctx, tool.KindStaySearch, q.WithHints(tool.HintRelaxStayClass))
	require.NoError(t, err)
	assert.Len(t, relaxed.(tool.StayResults).Options, 5)
}

func TestStaySearchScalesRoomsToParty(t *testing.T) {
	r := newTestRegistry(t)

	q := goaQuery()
	q.Style = trip.StyleBudget
	q.PartySize = 4
	payload, err := r.Execute(context.Background(), tool.KindStaySearch, q)
	require.NoError(t, err)

	// Four travelers need two rooms, doubling the nightly rate.
	assert.Equal(t, types.FromMajor(1800), payload.(tool.StayResults).Options[0].Nightly)
}

func TestTransportSearch(t *testing.T) {
	r := newTestRegistry(t)

	payload, err := r.Execute(context.Background(), tool.KindTransportSearch, goaQuery())
	require.NoError(t, err)
	results := payload.(tool.TransportResults)

	// Both endpoints list an airport, so all three modes appear.
	require.Len(t, results.Options, 3)
	modes := make(map[string]tool.TransportOption, 3)
	for _, opt := range results.Options {
		modes[opt.Mode] = opt
	}
	assert.Equal(t, types.FromMajor(7500), modes["flight"].Fare)
	assert.Equal(t, types.FromMajor(2000), modes["train"].Fare)
	assert.Equal(t, types.FromMajor(1375), modes["bus"].Fare)
	assert.Equal(t, types.FromMajor(2000), results.TypicalFare)
	assert.Equal(t, "TR-MUMBAI-GOA-FLIGHT", modes["flight"].RefCode)
}

func TestTransportSearchRequiresOrigin(t *testing.T) {
	r := newTestRegistry(t)

	q := goaQuery()
	q.Origin = ""
	_, err := r.Execute(context.Background(), tool.KindTransportSearch, q)
	require.Error(t, err)
	assert.Equal(t, tool.ErrToolInvalidInput, types.CodeOf(err))
}

func TestAdvisorySeasons(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		destination string
		start       time.Time
		want        tool.AdvisoryLevel
	}{
		{"goa monsoon", "Goa", time.Date(2026, time.July, 10, 0, 0, 0, 0, time.UTC), tool.AdvisoryCaution},
		{"goa winter", "Goa", time.Date(2026, time.December, 10, 0, 0, 0, 0, time.UTC), tool.AdvisoryNone},
		{"manali winter", "Manali", time.Date(2027, time.January, 5, 0, 0, 0, 0, time.UTC), tool.AdvisoryCaution},
		{"no dates", "Goa", time.Time{}, tool.AdvisoryNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := goaQuery()
			q.Destination = tt.destination
			q.StartDate = tt.start
			if !tt.start.IsZero() {
				q.EndDate = tt.start.AddDate(0, 0, 4)
			}

			payload, err := r.Execute(ctx, tool.KindAdvisory, q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, payload.(tool.Advisory).Level)
		})
	}
}

func TestVisaLookup(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	domestic, err := r.Execute(ctx, tool.KindVisa, goaQuery())
	require.NoError(t, err)
	assert.False(t, domestic.(tool.VisaInfo).Required)

	q := goaQuery()
	q.Destination = "Bali"
	q.Domestic = false
	international, err := r.Execute(ctx, tool.KindVisa, q)
	require.NoError(t, err)
	info := international.(tool.VisaInfo)
	assert.True(t, info.Required)
	assert.Equal(t, "e-visa", info.Type)
	assert.Positive(t, info.ProcessingDays)
}

func TestActivitySearchOrdersByInterest(t *testing.T) {
	r := newTestRegistry(t)

	q := goaQuery()
	q.Interests = []string{"watersports"}
	payload, err := r.Execute(context.Background(), tool.KindActivitySearch, q)
	require.NoError(t, err)
	results := payload.(tool.ActivityResults)

	require.NotEmpty(t, results.Options)
	assert.Equal(t, "Parasailing at Calangute", results.Options[0].Name)
}

func TestPriceEstimates(t *testing.T) {
	r := newTestRegistry(t)

	payload, err := r.Execute(context.Background(), tool.KindPriceEstimate, goaQuery())
	require.NoError(t, err)
	estimates := payload.(tool.PriceEstimates)

	assert.Equal(t, types.FromMajor(600), estimates.MealPerHead)
	assert.Equal(t, types.FromMajor(165), estimates.LocalTransportPerDay)
}

func TestBookingLinksMatchSearchRefCodes(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	q := goaQuery()

	payload, err := r.Execute(ctx, tool.KindBookingLinks, q)
	require.NoError(t, err)
	links := payload.(tool.BookingLinks).Links
	require.NotEmpty(t, links)

	stays, err := r.Execute(ctx, tool.KindStaySearch, q.WithHints(tool.HintRelaxStayClass))
	require.NoError(t, err)
	for _, opt := range stays.(tool.StayResults).Options {
		assert.Contains(t, links, opt.RefCode)
	}

	transport, err := r.Execute(ctx, tool.KindTransportSearch, q)
	require.NoError(t, err)
	for _, opt := range transport.(tool.TransportResults).Options {
		assert.Contains(t, links, opt.RefCode)
	}
}

func TestRestaurantOrderingByStyle(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	cheapFirst, err := r.Execute(ctx, tool.KindRestaurants, goaQuery())
	require.NoError(t, err)
	options := cheapFirst.(tool.RestaurantResults).Options
	require.NotEmpty(t, options)
	assert.Equal(t, "Vinayak Family Restaurant", options[0].Name)

	q := goaQuery()
	q.Style = trip.StyleLuxury
	priceyFirst, err := r.Execute(ctx, tool.KindRestaurants, q)
	require.NoError(t, err)
	assert.Equal(t, "Fisherman's Wharf", priceyFirst.(tool.RestaurantResults).Options[0].Name)
}
