package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyage-ai/voyage/internal/config"
	"github.com/voyage-ai/voyage/internal/research"
	"github.com/voyage-ai/voyage/internal/tool"
	"github.com/voyage-ai/voyage/internal/trip"
	"github.com/voyage-ai/voyage/internal/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(config.StoreConfig{
		Path:           filepath.Join(t.TempDir(), "voyage.db"),
		MaxConnections: 2,
		BusyTimeout:    time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func storedRequest() *trip.Request {
	return &trip.Request{
		ID:          types.NewID(),
		Destination: "Goa",
		Origin:      "Mumbai",
		PartySize:   2,
		Duration:    5,
		TotalBudget: types.FromMajor(30000),
		Style:       trip.StyleBalanced,
		Domestic:    true,
	}
}

func storedPlan(tripID types.ID, revision int) *trip.Plan {
	return &trip.Plan{
		ID:       types.NewID(),
		TripID:   tripID,
		Revision: revision,
		Status:   trip.PlanStatusActive,
		Days: []trip.Day{
			{Number: 1, Activities: []trip.Activity{
				{Time: "07:00", Name: "Travel to Goa by bus",
					Category: trip.CategoryTransport, Cost: types.FromMajor(1375)},
			}},
		},
		Allocation: trip.Allocation{trip.CategoryTransport: types.FromMajor(3000)},
	}
}

func TestSaveAndGetTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	req := storedRequest()

	require.NoError(t, s.SaveTrip(ctx, req))

	got, err := s.GetTrip(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, req.Destination, got.Destination)
	assert.Equal(t, req.TotalBudget, got.TotalBudget)
	assert.Equal(t, req.ID, got.ID)
}

func TestSaveTripUpserts(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	req := storedRequest()

	require.NoError(t, s.SaveTrip(ctx, req))
	req.TotalBudget = types.FromMajor(35000)
	require.NoError(t, s.SaveTrip(ctx, req))

	got, err := s.GetTrip(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, types.FromMajor(35000), got.TotalBudget)
}

func TestGetTripNotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.GetTrip(context.Background(), types.NewID())
	require.Error(t, err)
	assert.Equal(t, types.TRIP_NOT_FOUND, types.CodeOf(err))
}

func TestSavePlanSupersedesPrevious(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	req := storedRequest()
	require.NoError(t, s.SaveTrip(ctx, req))

	first := storedPlan(req.ID, 1)
	require.NoError(t, s.SavePlan(ctx, first))

	second := storedPlan(req.ID, 2)
	require.NoError(t, s.SavePlan(ctx, second))

	active, err := s.ActivePlan(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
	assert.Equal(t, 2, active.Revision)

	revisions, err := s.Revisions(ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, revisions, 2)
	assert.Equal(t, 1, revisions[0].Revision)
	assert.Equal(t, 2, revisions[1].Revision)

	// The first revision is retained, just no longer active.
	old, err := s.PlanRevision(ctx, req.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, old.ID)
}

func TestActivePlanNotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.ActivePlan(context.Background(), types.NewID())
	require.Error(t, err)
	assert.Equal(t, types.PLAN_NOT_FOUND, types.CodeOf(err))
}

func TestDuplicateRevisionRejected(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	req := storedRequest()
	require.NoError(t, s.SaveTrip(ctx, req))

	require.NoError(t, s.SavePlan(ctx, storedPlan(req.ID, 1)))
	err := s.SavePlan(ctx, storedPlan(req.ID, 1))
	require.Error(t, err)
	assert.Equal(t, types.STORE_QUERY_FAILED, types.CodeOf(err))
}

func TestSaveAndLoadItinerary(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	req := storedRequest()
	require.NoError(t, s.SaveTrip(ctx, req))
	plan := storedPlan(req.ID, 1)
	require.NoError(t, s.SavePlan(ctx, plan))

	it := &trip.Itinerary{
		Plan:          plan,
		Text:          "Day 1\n  07:00 Travel to Goa by bus\n",
		Overage:       types.FromMajor(450),
		DegradedNotes: []string{"narrative elaboration unavailable (openai)"},
	}
	require.NoError(t, s.SaveItinerary(ctx, it))

	got, err := s.Itinerary(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, it.Text, got.Text)
	assert.Equal(t, it.Overage, got.Overage)
	assert.Equal(t, it.DegradedNotes, got.DegradedNotes)
	assert.Equal(t, plan.ID, got.Plan.ID)
}

func TestItineraryNotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.Itinerary(context.Background(), types.NewID())
	require.Error(t, err)
	assert.Equal(t, types.PLAN_NOT_FOUND, types.CodeOf(err))
}

func TestListTrips(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	a := storedRequest()
	b := storedRequest()
	b.Destination = "Jaipur"
	require.NoError(t, s.SaveTrip(ctx, a))
	require.NoError(t, s.SaveTrip(ctx, b))

	trips, err := s.ListTrips(ctx)
	require.NoError(t, err)
	assert.Len(t, trips, 2)
}

func TestHealth(t *testing.T) {
	s := testStore(t)
	assert.True(t, s.Health(context.Background()).IsHealthy())
}

func TestSaveAndLoadBundle(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	req := storedRequest()
	require.NoError(t, s.SaveTrip(ctx, req))

	bundle := &research.Bundle{
		TripID:      req.ID,
		Fingerprint: req.Fingerprint(),
		Requested:   []tool.Kind{tool.KindStaySearch, tool.KindVisa},
		Results: map[tool.Kind]tool.Payload{
			tool.KindStaySearch: tool.StayResults{
				TypicalNightly: types.FromMajor(2800),
				Options: []tool.StayOption{
					{Name: "Palm Grove", Area: "Calangute", Nightly: types.FromMajor(2800), RefCode: "STAY-GOA-3"},
				},
			},
		},
		Failures:  map[tool.Kind]string{tool.KindVisa: "capability timed out"},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.SaveBundle(ctx, req.ID, bundle))

	loaded, err := s.Bundle(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, bundle.Fingerprint, loaded.Fingerprint)
	assert.Equal(t, bundle.CreatedAt, loaded.CreatedAt)
	assert.Equal(t, bundle.Failures, loaded.Failures)

	// Payloads come back as their concrete types, not raw JSON.
	stays, ok := loaded.Stays()
	require.True(t, ok)
	require.Len(t, stays.Options, 1)
	assert.Equal(t, "Palm Grove", stays.Options[0].Name)
	assert.Equal(t, types.FromMajor(2800), stays.Options[0].Nightly)
}

func TestBundleReplacedOnResave(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	req := storedRequest()
	require.NoError(t, s.SaveTrip(ctx, req))

	first := &research.Bundle{TripID: req.ID, Fingerprint: "aaa", CreatedAt: time.Now()}
	require.NoError(t, s.SaveBundle(ctx, req.ID, first))
	second := &research.Bundle{TripID: req.ID, Fingerprint: "bbb", CreatedAt: time.Now()}
	require.NoError(t, s.SaveBundle(ctx, req.ID, second))

	loaded, err := s.Bundle(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "bbb", loaded.Fingerprint)
}

func TestBundleNotFound(t *testing.T) {
	s := testStore(t)

	_, err := s.Bundle(context.Background(), types.NewID())
	require.Error(t, err)
	assert.Equal(t, types.TRIP_NOT_FOUND, types.CodeOf(err))
}
