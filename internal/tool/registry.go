package tool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/voyage-ai/voyage/internal/types"
)

// Registry manages capability registration, discovery, and execution. It
// keeps per-capability metrics and aggregates health across the catalog.
type Registry interface {
	// Register adds a capability implementation. At most one tool per kind.
	Register(t Tool) error

	// Get retrieves the tool for a kind.
	Get(kind Kind) (Tool, error)

	// List returns descriptors for all registered tools.
	List() []Descriptor

	// Execute runs the capability for a kind, recording metrics.
	Execute(ctx context.Context, kind Kind, q Query) (Payload, error)

	// Health returns the aggregate health of the catalog.
	Health(ctx context.Context) types.HealthStatus

	// Metrics returns execution metrics for a kind.
	Metrics(kind Kind) (Metrics, error)
}

// Descriptor contains capability metadata for discovery and introspection.
type Descriptor struct {
	Kind        Kind     `json:"kind"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Metrics tracks capability execution statistics.
type Metrics struct {
	TotalCalls    int64         `json:"total_calls"`
	SuccessCalls  int64         `json:"success_calls"`
	FailedCalls   int64         `json:"failed_calls"`
	TotalDuration time.Duration `json:"total_duration"`
	AvgDuration   time.Duration `json:"avg_duration"`
	LastExecuted  *time.Time    `json:"last_executed,omitempty"`
}

func (m *Metrics) record(duration time.Duration, failed bool) {
	m.TotalCalls++
	if failed {
		m.FailedCalls++
	} else {
		m.SuccessCalls++
	}
	m.TotalDuration += duration
	m.AvgDuration = m.TotalDuration / time.Duration(m.TotalCalls)
	now := time.Now()
	m.LastExecuted = &now
}

// SuccessRate returns the fraction of calls that succeeded, 0 when idle.
func (m Metrics) SuccessRate() float64 {
	if m.TotalCalls == 0 {
		return 0
	}
	return float64(m.SuccessCalls) / float64(m.TotalCalls)
}

// DefaultRegistry implements Registry with thread-safe operations.
type DefaultRegistry struct {
	mu      sync.RWMutex
	tools   map[Kind]Tool
	metrics map[Kind]*Metrics
}

// NewRegistry creates an empty DefaultRegistry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		tools:   make(map[Kind]Tool),
		metrics: make(map[Kind]*Metrics),
	}
}

// Register adds a capability implementation.
// Returns TOOL_ALREADY_EXISTS when the kind is taken and TOOL_INVALID_INPUT
// for nil tools or kinds outside the catalog.
func (r *DefaultRegistry) Register(t Tool) error {
	if t == nil {
		return types.NewError(ErrToolInvalidInput, "tool cannot be nil")
	}
	kind := t.Kind()
	if !kind.Valid() {
		return types.NewError(ErrToolInvalidInput, fmt.Sprintf("unknown capability kind %q", kind))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[kind]; exists {
		return types.NewError(ErrToolAlreadyExists, fmt.Sprintf("capability %q already registered", kind))
	}

	r.tools[kind] = t
	r.metrics[kind] = &Metrics{}
	return nil
}

// Get retrieves the tool for a kind.
func (r *DefaultRegistry) Get(kind Kind) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, exists := r.tools[kind]
	if !exists {
		return nil, types.NewError(ErrToolNotFound, fmt.Sprintf("capability %q not registered", kind))
	}
	return t, nil
}

// List returns descriptors for all registered tools, in catalog order.
func (r *DefaultRegistry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descriptors := make([]Descriptor, 0, len(r.tools))
	for _, kind := range Kinds() {
		t, exists := r.tools[kind]
		if !exists {
			continue
		}
		descriptors = append(descriptors, Descriptor{
			Kind:        kind,
			Name:        t.Name(),
			Description: t.Description(),
			Tags:        t.Tags(),
		})
	}
	return descriptors
}

// Execute runs the capability for a kind, recording metrics. A context
// deadline expiring during execution is reported as TOOL_TIMEOUT, which is
// retryable; other failures surface as TOOL_EXECUTION_FAILED.
func (r *DefaultRegistry) Execute(ctx context.Context, kind Kind, q Query) (Payload, error) {
	t, err := r.Get(kind)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	payload, execErr := t.Execute(ctx, q)
	duration := time.Since(start)

	r.mu.Lock()
	if metrics, exists := r.metrics[kind]; exists {
		metrics.record(duration, execErr != nil)
	}
	r.mu.Unlock()

	if execErr != nil {
		if ctx.Err() != nil {
			return nil, types.NewRetryableError(ErrToolTimeout, fmt.Sprintf("capability %q timed out after %s", kind, duration.Round(time.Millisecond)))
		}
		return nil, types.WrapError(ErrToolExecutionFailed, fmt.Sprintf("capability %q failed", kind), execErr)
	}

	return payload, nil
}

// Health returns aggregate catalog health: healthy when every tool is
// healthy, unhealthy when all are down or none registered, degraded between.
func (r *DefaultRegistry) Health(ctx context.Context) types.HealthStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.tools) == 0 {
		return types.Unhealthy("no capabilities registered")
	}

	healthy := 0
	for _, t := range r.tools {
		if t.Health(ctx).IsHealthy() {
			healthy++
		}
	}

	total := len(r.tools)
	switch healthy {
	case total:
		return types.Healthy(fmt.Sprintf("all %d capabilities healthy", total))
	case 0:
		return types.Unhealthy(fmt.Sprintf("all %d capabilities unhealthy", total))
	default:
		return types.Degraded(fmt.Sprintf("%d/%d capabilities healthy", healthy, total))
	}
}

// Metrics returns a copy of the execution metrics for a kind.
func (r *DefaultRegistry) Metrics(kind Kind) (Metrics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	metrics, exists := r.metrics[kind]
	if !exists {
		return Metrics{}, types.NewError(ErrToolNotFound, fmt.Sprintf("capability %q not registered", kind))
	}
	return *metrics, nil
}

var _ Registry = (*DefaultRegistry)(nil)
