package research

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyage-ai/voyage/internal/config"
	"github.com/voyage-ai/voyage/internal/tool"
	"github.com/voyage-ai/voyage/internal/trip"
	"github.com/voyage-ai/voyage/internal/types"
)

type stubTool struct {
	kind    tool.Kind
	err     error
	calls   atomic.Int64
	payload tool.Payload
}

func (s *stubTool) Kind() tool.Kind     { return s.kind }
func (s *stubTool) Name() string        { return "stub-" + s.kind.String() }
func (s *stubTool) Description() string { return "stub" }
func (s *stubTool) Tags() []string      { return nil }

func (s *stubTool) Execute(ctx context.Context, q tool.Query) (tool.Payload, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.payload, nil
}

func (s *stubTool) Health(ctx context.Context) types.HealthStatus {
	return types.Healthy("ok")
}

// stubPayload satisfies the payload contract for any kind.
type stubPayload struct{ kind tool.Kind }

func (p stubPayload) Kind() tool.Kind { return p.kind }

func newStubRegistry(t *testing.T, failing map[tool.Kind]error) (*tool.DefaultRegistry, map[tool.Kind]*stubTool) {
	t.Helper()
	r := tool.NewRegistry()
	stubs := make(map[tool.Kind]*stubTool)
	for _, kind := range tool.Kinds() {
		s := &stubTool{kind: kind, err: failing[kind], payload: stubPayload{kind: kind}}
		require.NoError(t, r.Register(s))
		stubs[kind] = s
	}
	return r, stubs
}

func testResearchConfig() config.ResearchConfig {
	return config.ResearchConfig{
		ToolTimeout:    2 * time.Second,
		OverallTimeout: 5 * time.Second,
		RatePerSecond:  1000,
		CacheTTL:       time.Minute,
	}
}

func domesticRequest() *trip.Request {
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

func TestSelectKindsSkipsIrrelevantResearch(t *testing.T) {
	domestic := domesticRequest()
	kinds := SelectKinds(domestic)
	assert.NotContains(t, kinds, tool.KindVisa)
	assert.Contains(t, kinds, tool.KindTransportSearch)

	noOrigin := domesticRequest()
	noOrigin.Origin = ""
	kinds = SelectKinds(noOrigin)
	assert.NotContains(t, kinds, tool.KindTransportSearch)

	international := domesticRequest()
	international.Destination = "Bali"
	international.Domestic = false
	assert.Contains(t, SelectKinds(international), tool.KindVisa)
}

func TestResearchJoinsAllResults(t *testing.T) {
	registry, _ := newStubRegistry(t, nil)
	d := NewDispatcher(registry, testResearchConfig(), nil)

	bundle, err := d.Research(context.Background(), domesticRequest())
	require.NoError(t, err)

	assert.Len(t, bundle.Results, len(bundle.Requested))
	assert.Empty(t, bundle.Failures)
	assert.InDelta(t, 1.0, bundle.Completeness(), 1e-9)
}

func TestResearchToleratesSingleFailure(t *testing.T) {
	registry, _ := newStubRegistry(t, map[tool.Kind]error{
		tool.KindBudgetEstimate: errors.New("upstream unavailable"),
	})
	d := NewDispatcher(registry, testResearchConfig(), nil)

	bundle, err := d.Research(context.Background(), domesticRequest())
	require.NoError(t, err)

	assert.False(t, bundle.Has(tool.KindBudgetEstimate))
	assert.Contains(t, bundle.Failures, tool.KindBudgetEstimate)
	// Every other requested capability still produced a result.
	assert.Len(t, bundle.Results, len(bundle.Requested)-1)

	// Budget carries weight 3 of the 13 requested for a domestic trip with
	// a known origin.
	assert.InDelta(t, 10.0/13.0, bundle.Completeness(), 1e-9)
}

func TestResearchCachesByFingerprint(t *testing.T) {
	registry, stubs := newStubRegistry(t, nil)
	d := NewDispatcher(registry, testResearchConfig(), nil)
	req := domesticRequest()

	first, err := d.Research(context.Background(), req)
	require.NoError(t, err)
	second, err := d.Research(context.Background(), req)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.EqualValues(t, 1, stubs[tool.KindBudgetEstimate].calls.Load())

	// Retry hints change the dispatch, so they bypass the plain-key cache.
	_, err = d.Research(context.Background(), req, tool.HintRelaxStayClass)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stubs[tool.KindBudgetEstimate].calls.Load())
}

func TestResearchInvalidate(t *testing.T) {
	registry, stubs := newStubRegistry(t, nil)
	d := NewDispatcher(registry, testResearchConfig(), nil)
	req := domesticRequest()

	_, err := d.Research(context.Background(), req)
	require.NoError(t, err)
	d.Invalidate(req)
	_, err = d.Research(context.Background(), req)
	require.NoError(t, err)

	assert.EqualValues(t, 2, stubs[tool.KindBudgetEstimate].calls.Load())
}

func TestResearchHonorsCancellation(t *testing.T) {
	registry, _ := newStubRegistry(t, nil)
	d := NewDispatcher(registry, testResearchConfig(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Research(ctx, domesticRequest())
	require.Error(t, err)
}

func TestBundleTypedAccessors(t *testing.T) {
	bundle := &Bundle{
		Requested: []tool.Kind{tool.KindBudgetEstimate, tool.KindStaySearch},
		Results: map[tool.Kind]tool.Payload{
			tool.KindBudgetEstimate: tool.BudgetEstimate{PerDay: types.FromMajor(3400)},
		},
		Failures: map[tool.Kind]string{tool.KindStaySearch: "timeout"},
	}

	estimate, ok := bundle.BudgetEstimate()
	require.True(t, ok)
	assert.Equal(t, types.FromMajor(3400), estimate.PerDay)

	_, ok = bundle.Stays()
	assert.False(t, ok)
	assert.Equal(t, []tool.Kind{tool.KindStaySearch}, bundle.Failed())
	assert.InDelta(t, 0.6, bundle.Completeness(), 1e-9)
}

// The plan archive stores bundles as JSON; a decoded bundle must behave
// exactly like the one the fan-out produced, typed payloads included.
func TestBundleSurvivesArchiveEncoding(t *testing.T) {
	bundle := &Bundle{
		TripID:      types.NewID(),
		Fingerprint: "abcd1234",
		Requested:   []tool.Kind{tool.KindStaySearch, tool.KindPriceEstimate, tool.KindVisa},
		Results: map[tool.Kind]tool.Payload{
			tool.KindStaySearch: tool.StayResults{
				TypicalNightly: types.FromMajor(2800),
				Options: []tool.StayOption{
					{Name: "Palm Grove", Class: "midrange", Nightly: types.FromMajor(2800), RefCode: "STAY-GOA-3"},
				},
			},
			tool.KindPriceEstimate: tool.PriceEstimates{
				MealPerHead:          types.FromMajor(600),
				LocalTransportPerDay: types.FromMajor(165),
			},
		},
		Failures:  map[tool.Kind]string{tool.KindVisa: "capability timed out"},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	encoded, err := json.Marshal(bundle)
	require.NoError(t, err)

	var decoded Bundle
	require.NoError(t, json.Unmarshal(encoded, &decoded))

	assert.Equal(t, bundle.Fingerprint, decoded.Fingerprint)
	assert.Equal(t, bundle.CreatedAt, decoded.CreatedAt)
	assert.InDelta(t, bundle.Completeness(), decoded.Completeness(), 1e-9)

	stays, ok := decoded.Stays()
	require.True(t, ok)
	assert.Equal(t, types.FromMajor(2800), stays.TypicalNightly)
	prices, ok := decoded.Prices()
	require.True(t, ok)
	assert.Equal(t, types.FromMajor(600), prices.MealPerHead)
}

func TestBundleDecodeRejectsUnknownKind(t *testing.T) {
	raw := `{"trip_id":"x","requested":["stay_search"],"results":{"teleportation":{}}}`

	var decoded Bundle
	err := json.Unmarshal([]byte(raw), &decoded)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "teleportation")
}
