package extract

import (
	"time"

	"github.com/voyage-ai/voyage/internal/trip"
)

// merge layers a fresh extraction over the previous request. Slots the
// earlier prompts already resolved stay resolved; a fresh value replaces an
// existing one only when the prompt reads as a correction. The merged
// request keeps the previous identity so a clarification loop stays one
// conversation.
func merge(prev, fresh *trip.Request, correcting bool) *trip.Request {
	out := *prev
	out.Interests = append([]string(nil), prev.Interests...)

	take := func(has bool) bool { return has || correcting }

	if fresh.Destination != "" && take(prev.Destination == "") {
		out.Destination = fresh.Destination
	}
	if fresh.Origin != "" && take(prev.Origin == "") {
		out.Origin = fresh.Origin
	}
	if !fresh.TotalBudget.IsZero() && take(prev.TotalBudget.IsZero()) {
		out.TotalBudget = fresh.TotalBudget
	}
	if fresh.HasDates() && take(!prev.HasDates()) {
		out.StartDate, out.EndDate = fresh.StartDate, fresh.EndDate
		out.Duration = 0
	} else if fresh.Duration > 0 && take(!prev.HasDates() && prev.Duration == 0) {
		if !out.StartDate.IsZero() {
			out.EndDate = out.StartDate.AddDate(0, 0, fresh.Duration)
			out.Duration = 0
		} else {
			out.Duration = fresh.Duration
			out.EndDate = time.Time{}
		}
	}
	if fresh.PartySize > 0 && take(prev.PartySize == 0) {
		out.PartySize = fresh.PartySize
	}
	if fresh.Style != trip.StyleBalanced && take(prev.Style == "" || prev.Style == trip.StyleBalanced) {
		out.Style = fresh.Style
	}

	seen := make(map[string]bool, len(out.Interests))
	for _, interest := range out.Interests {
		seen[interest] = true
	}
	for _, interest := range fresh.Interests {
		if !seen[interest] {
			seen[interest] = true
			out.Interests = append(out.Interests, interest)
		}
	}
	return &out
}
