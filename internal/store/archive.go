package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/voyage-ai/voyage/internal/research"
	"github.com/voyage-ai/voyage/internal/trip"
	"github.com/voyage-ai/voyage/internal/types"
)

// SaveTrip inserts or updates the structured request for a trip.
func (s *Store) SaveTrip(ctx context.Context, req *trip.Request) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return types.WrapError(types.STORE_QUERY_FAILED, "marshal trip request", err)
	}

	query := `
		INSERT INTO trips (id, destination, request)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			destination = excluded.destination,
			request     = excluded.request,
			updated_at  = CURRENT_TIMESTAMP
	`
	if _, err := s.conn.ExecContext(ctx, query, req.ID, req.Destination, string(payload)); err != nil {
		return types.WrapError(types.STORE_QUERY_FAILED, "save trip", err)
	}
	return nil
}

// GetTrip loads a trip request by ID.
func (s *Store) GetTrip(ctx context.Context, id types.ID) (*trip.Request, error) {
	var payload string
	err := s.conn.QueryRowContext(ctx,
		`SELECT request FROM trips WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.NewError(types.TRIP_NOT_FOUND, fmt.Sprintf("trip %s not found", id))
	}
	if err != nil {
		return nil, types.WrapError(types.STORE_QUERY_FAILED, "load trip", err)
	}

	var req trip.Request
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return nil, types.WrapError(types.STORE_QUERY_FAILED, "decode trip request", err)
	}
	return &req, nil
}

// ListTrips returns all stored trip requests, newest first.
func (s *Store) ListTrips(ctx context.Context) ([]*trip.Request, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT request FROM trips ORDER BY created_at DESC`)
	if err != nil {
		return nil, types.WrapError(types.STORE_QUERY_FAILED, "list trips", err)
	}
	defer rows.Close()

	var trips []*trip.Request
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, types.WrapError(types.STORE_QUERY_FAILED, "scan trip", err)
		}
		var req trip.Request
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return nil, types.WrapError(types.STORE_QUERY_FAILED, "decode trip request", err)
		}
		trips = append(trips, &req)
	}
	return trips, rows.Err()
}

// SavePlan archives a plan revision as the trip's active plan, flipping any
// previously active revision to superseded in the same transaction.
func (s *Store) SavePlan(ctx context.Context, plan *trip.Plan) error {
	payload, err := json.Marshal(plan)
	if err != nil {
		return types.WrapError(types.STORE_QUERY_FAILED, "marshal plan", err)
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return types.WrapError(types.STORE_QUERY_FAILED, "begin plan transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE plans SET status = ? WHERE trip_id = ? AND status = ?`,
		trip.PlanStatusSuperseded, plan.TripID, trip.PlanStatusActive); err != nil {
		return types.WrapError(types.STORE_QUERY_FAILED, "supersede previous plan", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO plans (id, trip_id, revision, status, payload, total_cost)
		VALUES (?, ?, ?, ?, ?, ?)`,
		plan.ID, plan.TripID, plan.Revision, trip.PlanStatusActive,
		string(payload), int64(plan.TotalCost())); err != nil {
		return types.WrapError(types.STORE_QUERY_FAILED, "insert plan revision", err)
	}

	if err := tx.Commit(); err != nil {
		return types.WrapError(types.STORE_QUERY_FAILED, "commit plan transaction", err)
	}
	return nil
}

// ActivePlan returns the trip's single active plan revision.
func (s *Store) ActivePlan(ctx context.Context, tripID types.ID) (*trip.Plan, error) {
	return s.planQuery(ctx,
		`SELECT payload FROM plans WHERE trip_id = ? AND status = ?`,
		tripID, trip.PlanStatusActive)
}

// PlanRevision returns a specific revision of a trip's plan, active or not.
func (s *Store) PlanRevision(ctx context.Context, tripID types.ID, revision int) (*trip.Plan, error) {
	return s.planQuery(ctx,
		`SELECT payload FROM plans WHERE trip_id = ? AND revision = ?`,
		tripID, revision)
}

func (s *Store) planQuery(ctx context.Context, query string, args ...any) (*trip.Plan, error) {
	var payload string
	err := s.conn.QueryRowContext(ctx, query, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.NewError(types.PLAN_NOT_FOUND, "no matching plan revision")
	}
	if err != nil {
		return nil, types.WrapError(types.STORE_QUERY_FAILED, "load plan", err)
	}

	var plan trip.Plan
	if err := json.Unmarshal([]byte(payload), &plan); err != nil {
		return nil, types.WrapError(types.STORE_QUERY_FAILED, "decode plan", err)
	}
	return &plan, nil
}

// Revisions returns every archived revision for a trip in revision order.
func (s *Store) Revisions(ctx context.Context, tripID types.ID) ([]*trip.Plan, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT payload FROM plans WHERE trip_id = ? ORDER BY revision ASC`, tripID)
	if err != nil {
		return nil, types.WrapError(types.STORE_QUERY_FAILED, "list revisions", err)
	}
	defer rows.Close()

	var plans []*trip.Plan
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, types.WrapError(types.STORE_QUERY_FAILED, "scan revision", err)
		}
		var plan trip.Plan
		if err := json.Unmarshal([]byte(payload), &plan); err != nil {
			return nil, types.WrapError(types.STORE_QUERY_FAILED, "decode revision", err)
		}
		plans = append(plans, &plan)
	}
	return plans, rows.Err()
}

// SaveItinerary archives the executed itinerary for a plan revision.
func (s *Store) SaveItinerary(ctx context.Context, it *trip.Itinerary) error {
	var notes any
	if len(it.DegradedNotes) > 0 {
		encoded, err := json.Marshal(it.DegradedNotes)
		if err != nil {
			return types.WrapError(types.STORE_QUERY_FAILED, "marshal degraded notes", err)
		}
		notes = string(encoded)
	}

	query := `
		INSERT INTO itineraries (plan_id, text, overage, degraded_notes)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(plan_id) DO UPDATE SET
			text           = excluded.text,
			overage        = excluded.overage,
			degraded_notes = excluded.degraded_notes
	`
	if _, err := s.conn.ExecContext(ctx, query,
		it.Plan.ID, it.Text, int64(it.Overage), notes); err != nil {
		return types.WrapError(types.STORE_QUERY_FAILED, "save itinerary", err)
	}
	return nil
}

// Itinerary loads the archived itinerary for a plan revision. The returned
// itinerary carries the stored plan.
func (s *Store) Itinerary(ctx context.Context, planID types.ID) (*trip.Itinerary, error) {
	var (
		text    string
		overage int64
		notes   sql.NullString
		payload string
	)
	err := s.conn.QueryRowContext(ctx, `
		SELECT i.text, i.overage, i.degraded_notes, p.payload
		FROM itineraries i JOIN plans p ON p.id = i.plan_id
		WHERE i.plan_id = ?`, planID).Scan(&text, &overage, &notes, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.NewError(types.PLAN_NOT_FOUND, fmt.Sprintf("no itinerary for plan %s", planID))
	}
	if err != nil {
		return nil, types.WrapError(types.STORE_QUERY_FAILED, "load itinerary", err)
	}

	var plan trip.Plan
	if err := json.Unmarshal([]byte(payload), &plan); err != nil {
		return nil, types.WrapError(types.STORE_QUERY_FAILED, "decode plan", err)
	}
	it := &trip.Itinerary{Plan: &plan, Text: text, Overage: types.Money(overage)}
	if notes.Valid {
		if err := json.Unmarshal([]byte(notes.String), &it.DegradedNotes); err != nil {
			return nil, types.WrapError(types.STORE_QUERY_FAILED, "decode degraded notes", err)
		}
	}
	return it, nil
}

// SaveBundle archives the research bundle a trip's plans were built from,
// replacing any earlier bundle for the trip.
func (s *Store) SaveBundle(ctx context.Context, tripID types.ID, bundle *research.Bundle) error {
	payload, err := json.Marshal(bundle)
	if err != nil {
		return types.WrapError(types.STORE_QUERY_FAILED, "marshal research bundle", err)
	}

	query := `
		INSERT INTO bundles (trip_id, payload)
		VALUES (?, ?)
		ON CONFLICT(trip_id) DO UPDATE SET
			payload    = excluded.payload,
			created_at = CURRENT_TIMESTAMP
	`
	if _, err := s.conn.ExecContext(ctx, query, tripID, string(payload)); err != nil {
		return types.WrapError(types.STORE_QUERY_FAILED, "save research bundle", err)
	}
	return nil
}

// Bundle loads the archived research bundle for a trip.
func (s *Store) Bundle(ctx context.Context, tripID types.ID) (*research.Bundle, error) {
	var payload string
	err := s.conn.QueryRowContext(ctx,
		`SELECT payload FROM bundles WHERE trip_id = ?`, tripID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.NewError(types.TRIP_NOT_FOUND,
			fmt.Sprintf("no research bundle archived for trip %s", tripID))
	}
	if err != nil {
		return nil, types.WrapError(types.STORE_QUERY_FAILED, "load research bundle", err)
	}

	var bundle research.Bundle
	if err := json.Unmarshal([]byte(payload), &bundle); err != nil {
		return nil, types.WrapError(types.STORE_QUERY_FAILED, "decode research bundle", err)
	}
	return &bundle, nil
}
