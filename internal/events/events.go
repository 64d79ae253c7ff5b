// Package events distributes pipeline progress events to subscribers.
// Publishing never blocks: a subscriber that stops draining its channel
// loses events instead of stalling the pipeline.
package events

import (
	"time"

	"github.com/voyage-ai/voyage/internal/types"
)

// EventType identifies a pipeline lifecycle event.
type EventType string

const (
	EventTripExtracted   EventType = "trip.extracted"
	EventTripNeedsInfo   EventType = "trip.needs_info"
	EventResearchStarted EventType = "research.started"
	EventResearchDone    EventType = "research.completed"
	EventToolFailed      EventType = "research.tool_failed"
	EventValidationRetry EventType = "validation.retrying"
	EventValidationOK    EventType = "validation.passed"
	EventValidationFail  EventType = "validation.failed"
	EventPlanCreated     EventType = "plan.created"
	EventPlanInfeasible  EventType = "plan.infeasible"
	EventPlanReplanned   EventType = "plan.replanned"
	EventDayOptimized    EventType = "plan.day_optimized"
	EventExecutionDone   EventType = "execution.completed"
	EventExecutionDegr   EventType = "execution.degraded"
)

// Event is one pipeline occurrence.
type Event struct {
	Type      EventType      `json:"type"`
	TripID    types.ID       `json:"trip_id,omitempty"`
	PlanID    types.ID       `json:"plan_id,omitempty"`
	Message   string         `json:"message,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewEvent builds an event stamped with the current time.
func NewEvent(t EventType, tripID types.ID, message string) Event {
	return Event{
		Type:      t,
		TripID:    tripID,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Filter restricts which events a subscription receives. Zero-value filters
// match everything.
type Filter struct {
	// Types limits delivery to the listed event types.
	Types []EventType

	// TripID limits delivery to one trip's events.
	TripID types.ID
}

// Matches reports whether the event passes the filter.
func (f Filter) Matches(e Event) bool {
	if len(f.Types) > 0 {
		found := false
		for _, t := range f.Types {
			if t == e.Type {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if !f.TripID.IsZero() && f.TripID != e.TripID {
		return false
	}
	return true
}
