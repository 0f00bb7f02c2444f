package subscription

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/fleetkit/fleetkit/pkg/plan"
)

// State classifies a tenant's entitlement at a point in time.
type State string

const (
	// StateNone means the tenant has no subscription row at all and runs
	// on the implicit free plan (one vehicle, one user).
	StateNone State = "none"

	// StateExpired means the current row's period has ended.
	StateExpired State = "expired"

	// StateTrialExpired means the trial window closed and no paid plan
	// was ever attached.
	StateTrialExpired State = "trial_expired"

	// StateActive means the tenant is entitled to its plan's limits and
	// features right now.
	StateActive State = "active"
)

// Snapshot is the resolved, time-aware view of a tenant's entitlement at
// request time. Plan is always populated: for StateNone it carries the
// free plan so limit evaluation never special-cases a nil plan.
type Snapshot struct {
	State        State
	Plan         plan.Plan
	Subscription *Subscription // nil for StateNone
}

// Entitled reports whether the snapshot grants access at all.
// Both StateNone and StateActive are entitled (to free-plan and plan
// limits respectively); expired states are not.
func (s Snapshot) Entitled() bool {
	return s.State == StateActive || s.State == StateNone
}

// SelectCurrent picks the single row that governs entitlements at the
// given instant from a tenant's subscription history.
//
// Precedence: rows with status=active whose period covers now win,
// tie-broken by most recent StartsAt. If no such row exists, the most
// recently started row is returned so expiry can be classified from it.
// Returns nil for an empty history.
//
// This is the canonical "current subscription" rule; selection keyed on
// a bare is_active flag is intentionally not supported.
func SelectCurrent(subs []Subscription, now time.Time) *Subscription {
	if len(subs) == 0 {
		return nil
	}

	byStart := func(a, b Subscription) int {
		return a.StartsAt.Compare(b.StartsAt)
	}

	var live []Subscription
	for _, s := range subs {
		if s.Status == StatusActive && s.LiveAt(now) {
			live = append(live, s)
		}
	}
	if len(live) > 0 {
		cur := slices.MaxFunc(live, byStart)
		return &cur
	}

	cur := slices.MaxFunc(subs, byStart)
	return &cur
}

// Store defines the interface for subscription persistence.
type Store interface {
	// ListByTenant returns all subscription rows for a tenant, any order.
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]Subscription, error)

	// Save creates or updates a subscription row. Implementations must
	// keep at most one live active row per tenant: saving a new active
	// row closes out prior live rows in the same transaction.
	Save(ctx context.Context, sub *Subscription) error
}

// StateResolver resolves a tenant ID into its entitlement Snapshot.
// It is pure with respect to time: now is injectable for deterministic
// tests and defaults to time.Now in UTC.
type StateResolver struct {
	store   Store
	catalog *plan.Catalog
	now     func() time.Time
}

// StateResolverOption configures a StateResolver.
type StateResolverOption func(*StateResolver)

// WithClock overrides the time source.
func WithClock(now func() time.Time) StateResolverOption {
	return func(r *StateResolver) {
		if now != nil {
			r.now = now
		}
	}
}

// NewStateResolver creates a StateResolver.
// Panics if store or catalog is nil to fail fast during initialization.
func NewStateResolver(store Store, catalog *plan.Catalog, opts ...StateResolverOption) *StateResolver {
	if store == nil {
		panic("subscription: Store is required")
	}
	if catalog == nil {
		panic("subscription: plan catalog is required")
	}

	r := &StateResolver{
		store:   store,
		catalog: catalog,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve classifies the tenant's entitlement right now.
//
// Precedence:
//  1. no rows                                      -> StateNone (free plan)
//  2. current row's period ended                   -> StateExpired
//  3. trial window closed, no concrete plan        -> StateTrialExpired
//  4. otherwise                                    -> StateActive
//
// Store failures are wrapped in ErrSubscriptionLookupFailed; the gate
// denies on them rather than defaulting to the free plan.
func (r *StateResolver) Resolve(ctx context.Context, tenantID uuid.UUID) (Snapshot, error) {
	subs, err := r.store.ListByTenant(ctx, tenantID)
	if err != nil {
		return Snapshot{}, errors.Join(ErrSubscriptionLookupFailed, err)
	}

	now := r.now()

	cur := SelectCurrent(subs, now)
	if cur == nil {
		return Snapshot{State: StateNone, Plan: plan.FreePlan()}, nil
	}

	if !cur.LiveAt(now) {
		return Snapshot{State: StateExpired, Plan: plan.FreePlan(), Subscription: cur}, nil
	}

	if cur.TrialExpiredAt(now) && cur.PlanID == "" {
		return Snapshot{State: StateTrialExpired, Plan: plan.FreePlan(), Subscription: cur}, nil
	}

	// Trial-only row with the trial still running: entitle free-plan limits
	// until a concrete plan is attached.
	if cur.PlanID == "" {
		return Snapshot{State: StateActive, Plan: plan.FreePlan(), Subscription: cur}, nil
	}

	// A row naming a plan the catalog does not know is bad state, not a
	// reason to guess. Fail closed.
	p, err := r.catalog.Get(cur.PlanID)
	if err != nil {
		return Snapshot{}, errors.Join(ErrPlanNotInCatalog, ErrInvalidSubscriptionState, err)
	}

	return Snapshot{State: StateActive, Plan: p, Subscription: cur}, nil
}
