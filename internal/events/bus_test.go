package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyage-ai/voyage/internal/types"
)

func TestPublishDeliversToMatchingSubscribers(t *testing.T) {
	bus := NewBus()
	defer bus.Close()
	ctx := context.Background()

	all, cleanupAll := bus.Subscribe(ctx, Filter{}, 4)
	defer cleanupAll()

	planOnly, cleanupPlan := bus.Subscribe(ctx, Filter{Types: []EventType{EventPlanCreated}}, 4)
	defer cleanupPlan()

	tripID := types.NewID()
	require.NoError(t, bus.Publish(ctx, NewEvent(EventResearchDone, tripID, "bundle ready")))
	require.NoError(t, bus.Publish(ctx, NewEvent(EventPlanCreated, tripID, "plan ready")))

	assert.Equal(t, EventResearchDone, (<-all).Type)
	assert.Equal(t, EventPlanCreated, (<-all).Type)

	got := <-planOnly
	assert.Equal(t, EventPlanCreated, got.Type)
	select {
	case e := <-planOnly:
		t.Fatalf("unexpected extra event %s", e.Type)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestFilterByTrip(t *testing.T) {
	bus := NewBus()
	defer bus.Close()
	ctx := context.Background()

	wantTrip := types.NewID()
	ch, cleanup := bus.Subscribe(ctx, Filter{TripID: wantTrip}, 4)
	defer cleanup()

	require.NoError(t, bus.Publish(ctx, NewEvent(EventPlanCreated, types.NewID(), "other trip")))
	require.NoError(t, bus.Publish(ctx, NewEvent(EventPlanCreated, wantTrip, "our trip")))

	got := <-ch
	assert.Equal(t, wantTrip, got.TripID)
	assert.Equal(t, "our trip", got.Message)
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	var droppedFor string
	bus := NewBus(
		WithDefaultBufferSize(1),
		WithErrorHandler(func(err error, eventType EventType, subscriberID string) {
			droppedFor = subscriberID
		}),
	)
	defer bus.Close()
	ctx := context.Background()

	_, cleanup := bus.Subscribe(ctx, Filter{}, 1)
	defer cleanup()

	tripID := types.NewID()
	require.NoError(t, bus.Publish(ctx, NewEvent(EventPlanCreated, tripID, "fills the buffer")))

	done := make(chan struct{})
	go func() {
		_ = bus.Publish(ctx, NewEvent(EventPlanCreated, tripID, "dropped"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
	assert.NotEmpty(t, droppedFor)
}

func TestCloseStopsPublishing(t *testing.T) {
	bus := NewBus()
	ch, cleanup := bus.Subscribe(context.Background(), Filter{}, 1)
	defer cleanup()

	require.NoError(t, bus.Close())
	require.Error(t, bus.Publish(context.Background(), NewEvent(EventPlanCreated, types.NewID(), "late")))

	_, open := <-ch
	assert.False(t, open)
	assert.Zero(t, bus.SubscriberCount())
}
