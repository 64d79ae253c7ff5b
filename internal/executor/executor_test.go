package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyage-ai/voyage/internal/llm"
	"github.com/voyage-ai/voyage/internal/research"
	"github.com/voyage-ai/voyage/internal/tool"
	"github.com/voyage-ai/voyage/internal/trip"
	"github.com/voyage-ai/voyage/internal/types"
)

type failingNarrator struct{}

func (failingNarrator) Name() string { return "failing" }
func (failingNarrator) Narrate(context.Context, llm.NarrativeRequest) (string, error) {
	return "", errors.New("provider unreachable")
}
func (failingNarrator) Health(context.Context) types.HealthStatus {
	return types.Unhealthy("down")
}

func testRequest() *trip.Request {
	return &trip.Request{
		ID:          types.NewID(),
		Destination: "Goa",
		Origin:      "Mumbai",
		PartySize:   2,
		Duration:    2,
		TotalBudget: types.FromMajor(12000),
		Style:       trip.StyleBalanced,
		Domestic:    true,
	}
}

func testPlan(tripID types.ID) *trip.Plan {
	return &trip.Plan{
		ID:       types.NewID(),
		TripID:   tripID,
		Revision: 1,
		Status:   trip.PlanStatusActive,
		Days: []trip.Day{
			{Number: 1, Activities: []trip.Activity{
				{Time: "07:00", Name: "Travel to Goa by bus", Category: trip.CategoryTransport,
					Cost: types.FromMajor(1375), BookingRef: "TR-MUMBAI-GOA-BUS"},
				{Time: "13:00", Name: "Meals", Category: trip.CategoryFood, Cost: types.FromMajor(2400)},
				{Time: "21:00", Name: "Night at Palm Grove Cottages", Location: "Benaulim",
					Category: trip.CategoryAccommodation, Cost: types.FromMajor(2800), BookingRef: "STAY-GOA-3"},
			}},
			{Number: 2, Activities: []trip.Activity{
				{Time: "09:00", Name: "Fort Aguada", Category: trip.CategoryActivities, Cost: types.FromMajor(100)},
				{Time: "13:00", Name: "Meals", Category: trip.CategoryFood, Cost: types.FromMajor(2400)},
				{Time: "20:00", Name: "Return to Mumbai by bus", Category: trip.CategoryTransport,
					Cost: types.FromMajor(1375), BookingRef: "TR-MUMBAI-GOA-BUS"},
			}},
		},
		Allocation: trip.Allocation{
			trip.CategoryFood:          types.FromMajor(5000),
			trip.CategoryAccommodation: types.FromMajor(4000),
			trip.CategoryTransport:     types.FromMajor(3000),
		},
	}
}

func testBundle() *research.Bundle {
	return &research.Bundle{
		Requested: []tool.Kind{tool.KindBookingLinks},
		Results: map[tool.Kind]tool.Payload{
			tool.KindBookingLinks: tool.BookingLinks{Links: map[string]string{
				"TR-MUMBAI-GOA-BUS": "https://book.voyage.example/transport/mumbai-goa?ref=TR-MUMBAI-GOA-BUS",
				"STAY-GOA-3":        "https://book.voyage.example/stays/goa-palm-grove-cottages?ref=STAY-GOA-3",
			}},
		},
	}
}

func TestExecuteRendersEveryDaySection(t *testing.T) {
	req := testRequest()
	plan := testPlan(req.ID)

	it, err := New(llm.NewStatic(), nil).Execute(context.Background(), req, plan, testBundle())
	require.NoError(t, err)

	for n := 1; n <= 2; n++ {
		assert.Contains(t, it.Text, fmt.Sprintf("Day %d", n))
	}
	assert.Contains(t, it.Text, "Travel to Goa by bus")
	assert.Contains(t, it.Text, "Night at Palm Grove Cottages (Benaulim)")
	assert.Contains(t, it.Text, "Estimated total:")
	assert.Contains(t, it.Text, "Allocation:")
	assert.False(t, it.Degraded())
	assert.True(t, it.Overage.IsZero())
}

func TestExecuteBackfillsBookingLinks(t *testing.T) {
	req := testRequest()
	plan := testPlan(req.ID)

	it, err := New(llm.NewStatic(), nil).Execute(context.Background(), req, plan, testBundle())
	require.NoError(t, err)

	assert.Contains(t, it.Text, "ref=TR-MUMBAI-GOA-BUS")
	assert.Contains(t, it.Text, "ref=STAY-GOA-3")
	for _, day := range plan.Days {
		for _, a := range day.Activities {
			if a.BookingRef != "" {
				assert.NotEmpty(t, a.BookingURL, "%s lost its link", a.Name)
			}
		}
	}
}

func TestExecuteNotesMissingLink(t *testing.T) {
	req := testRequest()
	plan := testPlan(req.ID)
	plan.Days[0].Activities[2].BookingRef = "STAY-GOA-99"

	it, err := New(llm.NewStatic(), nil).Execute(context.Background(), req, plan, testBundle())
	require.NoError(t, err)

	require.True(t, it.Degraded())
	assert.Contains(t, strings.Join(it.DegradedNotes, "\n"), "STAY-GOA-99")
}

func TestExecuteComputesOverage(t *testing.T) {
	req := testRequest()
	req.TotalBudget = types.FromMajor(10000)
	plan := testPlan(req.ID) // costs 10,450

	it, err := New(llm.NewStatic(), nil).Execute(context.Background(), req, plan, testBundle())
	require.NoError(t, err)

	assert.Equal(t, types.FromMajor(450), it.Overage)
	assert.True(t, it.Degraded())
}

func TestExecuteDegradesWhenNarratorFails(t *testing.T) {
	req := testRequest()
	plan := testPlan(req.ID)

	it, err := New(failingNarrator{}, nil).Execute(context.Background(), req, plan, testBundle())
	require.NoError(t, err)

	// Falls back to the deterministic outline with a note.
	assert.Contains(t, it.Text, "Day 1")
	assert.Contains(t, it.Text, "Day 2")
	require.True(t, it.Degraded())
	assert.Contains(t, it.DegradedNotes[0], "narrative elaboration unavailable")
}

func TestExecuteIncludesAdvisoryAndVisa(t *testing.T) {
	req := testRequest()
	req.Domestic = false
	plan := testPlan(req.ID)
	bundle := testBundle()
	bundle.Results[tool.KindAdvisory] = tool.Advisory{
		Level:   tool.AdvisoryCaution,
		Summary: "monsoon season, expect heavy rain",
	}
	bundle.Results[tool.KindVisa] = tool.VisaInfo{
		Required:       true,
		Type:           "e-visa",
		ProcessingDays: 4,
	}

	it, err := New(llm.NewStatic(), nil).Execute(context.Background(), req, plan, bundle)
	require.NoError(t, err)

	assert.Contains(t, it.Text, "Advisory (caution): monsoon season")
	assert.Contains(t, it.Text, "e-visa required, allow 4 processing days")
}

func TestExecuteRejectsEmptyPlan(t *testing.T) {
	req := testRequest()
	_, err := New(llm.NewStatic(), nil).Execute(context.Background(), req, &trip.Plan{}, testBundle())
	require.Error(t, err)
	assert.Equal(t, types.PLAN_NOT_FOUND, types.CodeOf(err))
}

func TestExecutePartialRendersSegment(t *testing.T) {
	partial := &trip.PartialDay{
		DayNumber: 1,
		From:      "14:00",
		Activities: []trip.Activity{
			{Time: "19:00", Name: "Mandovi river cruise", Category: trip.CategoryActivities, Cost: types.FromMajor(2400)},
		},
		BudgetCap: types.FromMajor(2400),
	}
	out := New(llm.NewStatic(), nil).ExecutePartial(partial)
	assert.Contains(t, out, "Day 1, revised from 14:00")
	assert.Contains(t, out, "Mandovi river cruise")
}
