package usage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fleetkit/fleetkit/pkg/plan"
)

// CounterFunc returns the current usage for a tenant resource.
// Counts must be scoped strictly to the given tenant and recomputed on
// every call; caching here would let a tenant race past its limit.
type CounterFunc func(ctx context.Context, tenantID uuid.UUID) (int64, error)

// Registry maps a Resource to its CounterFunc.
// Not thread-safe: register all counters at startup only.
type Registry map[plan.Resource]CounterFunc

// NewRegistry returns a new, empty Registry.
func NewRegistry() Registry {
	return make(Registry)
}

// Register sets or replaces the CounterFunc for the given resource.
// Panics if fn is nil or the resource kind is unknown, so a misconfigured
// gate fails at startup rather than at request time.
func (r Registry) Register(res plan.Resource, fn CounterFunc) {
	if fn == nil {
		panic(fmt.Sprintf("usage: CounterFunc for resource %q cannot be nil", res))
	}
	if !res.Valid() {
		panic(fmt.Sprintf("usage: cannot register counter for unknown resource %q", res))
	}
	r[res] = fn
}

// Count returns the current usage for res. Unregistered or unknown kinds
// are an error, never an implicit zero.
func (r Registry) Count(ctx context.Context, tenantID uuid.UUID, res plan.Resource) (int64, error) {
	if !res.Valid() {
		return 0, errors.Join(plan.ErrUnknownResource, fmt.Errorf("resource %q", res))
	}
	fn, ok := r[res]
	if !ok {
		return 0, errors.Join(ErrNoCounterRegistered, fmt.Errorf("resource %q", res))
	}

	n, err := fn(ctx, tenantID)
	if err != nil {
		return 0, errors.Join(ErrFailedToCountUsage, err)
	}
	if n < 0 {
		return 0, errors.Join(ErrFailedToCountUsage, fmt.Errorf("counter for %q returned negative count %d", res, n))
	}
	return n, nil
}
