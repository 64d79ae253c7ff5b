package events

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Bus fans events out to filtered subscribers.
type Bus interface {
	// Publish sends an event to all matching subscribers. It returns an
	// error only when the bus is closed and never blocks on a slow
	// subscriber.
	Publish(ctx context.Context, event Event) error

	// Subscribe creates a subscription. The cleanup function must be called
	// to release it. bufferSize 0 uses the bus default.
	Subscribe(ctx context.Context, filter Filter, bufferSize int) (<-chan Event, func())

	// Close shuts the bus down and closes every subscriber channel.
	Close() error
}

// DefaultBus implements Bus with per-subscriber buffered channels and
// non-blocking sends.
type DefaultBus struct {
	mu          sync.RWMutex
	subscribers map[string]*subscription
	options     *busOptions
	closed      bool
}

type subscription struct {
	id      string
	ch      chan Event
	filter  Filter
	ctx     context.Context
	cancel  context.CancelFunc
	created time.Time
	dropped atomic.Int64
}

type busOptions struct {
	defaultBufferSize int
	errorHandler      func(err error, eventType EventType, subscriberID string)
}

// Option configures a DefaultBus.
type Option func(*busOptions)

// WithDefaultBufferSize sets the buffer used when Subscribe passes 0.
func WithDefaultBufferSize(size int) Option {
	return func(opts *busOptions) {
		if size > 0 {
			opts.defaultBufferSize = size
		}
	}
}

// WithErrorHandler installs a handler invoked when an event is dropped for
// a slow subscriber.
func WithErrorHandler(handler func(err error, eventType EventType, subscriberID string)) Option {
	return func(opts *busOptions) {
		if handler != nil {
			opts.errorHandler = handler
		}
	}
}

// NewBus creates a bus with the given options.
func NewBus(opts ...Option) *DefaultBus {
	options := &busOptions{
		defaultBufferSize: 64,
		errorHandler:      func(error, EventType, string) {},
	}
	for _, opt := range opts {
		opt(options)
	}
	return &DefaultBus{
		subscribers: make(map[string]*subscription),
		options:     options,
	}
}

// Publish delivers the event to every subscriber whose filter matches.
func (b *DefaultBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("event bus is closed")
	}

	for _, sub := range b.subscribers {
		select {
		case <-sub.ctx.Done():
			continue
		default:
		}
		if !sub.filter.Matches(event) {
			continue
		}

		select {
		case sub.ch <- event:
		case <-ctx.Done():
			return ctx.Err()
		default:
			sub.dropped.Add(1)
			b.options.errorHandler(
				fmt.Errorf("dropped event for slow subscriber"), event.Type, sub.id)
		}
	}
	return nil
}

// Subscribe registers a filtered subscription and returns its channel plus
// the cleanup that releases it.
func (b *DefaultBus) Subscribe(ctx context.Context, filter Filter, bufferSize int) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if bufferSize <= 0 {
		bufferSize = b.options.defaultBufferSize
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &subscription{
		id:      nextSubscriberID(),
		ch:      make(chan Event, bufferSize),
		filter:  filter,
		ctx:     subCtx,
		cancel:  cancel,
		created: time.Now(),
	}
	b.subscribers[sub.id] = sub

	return sub.ch, func() { b.unsubscribe(sub.id) }
}

func (b *DefaultBus) unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subscribers[id]
	if !ok {
		return
	}
	sub.cancel()
	close(sub.ch)
	delete(b.subscribers, id)
}

// Close shuts the bus down. Idempotent.
func (b *DefaultBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for id, sub := range b.subscribers {
		sub.cancel()
		close(sub.ch)
		delete(b.subscribers, id)
	}
	return nil
}

// SubscriberCount returns the number of active subscriptions.
func (b *DefaultBus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

var subscriberCounter atomic.Uint64

func nextSubscriberID() string {
	return fmt.Sprintf("sub-%d", subscriberCounter.Add(1))
}

var _ Bus = (*DefaultBus)(nil)
