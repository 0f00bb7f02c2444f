package subscription_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetkit/fleetkit/pkg/plan"
	"github.com/fleetkit/fleetkit/pkg/subscription"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// mockStore is an in-memory Store for tests.
type mockStore struct {
	subs map[uuid.UUID][]subscription.Subscription
	err  error
}

func newMockStore() *mockStore {
	return &mockStore{subs: make(map[uuid.UUID][]subscription.Subscription)}
}

func (s *mockStore) add(sub subscription.Subscription) {
	s.subs[sub.TenantID] = append(s.subs[sub.TenantID], sub)
}

func (s *mockStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]subscription.Subscription, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.subs[tenantID], nil
}

func (s *mockStore) Save(ctx context.Context, sub *subscription.Subscription) error {
	if s.err != nil {
		return s.err
	}
	s.add(*sub)
	return nil
}

func testCatalog(t *testing.T) *plan.Catalog {
	t.Helper()

	catalog, err := plan.NewCatalog(context.Background(), plan.NewInMemSource(map[string]plan.Plan{
		"professional": {
			ID:   "professional",
			Name: "Professional",
			Limits: map[plan.Resource]int64{
				plan.ResourceVehicles: 25,
				plan.ResourceUsers:    10,
			},
			Public: true,
		},
	}))
	require.NoError(t, err)
	return catalog
}

func newTestResolver(t *testing.T, store subscription.Store) *subscription.StateResolver {
	t.Helper()
	return subscription.NewStateResolver(store, testCatalog(t), subscription.WithClock(fixedClock))
}

func ptr(tm time.Time) *time.Time { return &tm }

func TestSelectCurrent(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, subscription.SelectCurrent(nil, testNow))
	})

	t.Run("live active row wins over newer expired row", func(t *testing.T) {
		t.Parallel()

		live := subscription.Subscription{
			ID: uuid.New(), TenantID: tenantID, PlanID: "professional",
			Status: subscription.StatusActive, StartsAt: testNow.AddDate(0, -2, 0),
		}
		dead := subscription.Subscription{
			ID: uuid.New(), TenantID: tenantID, PlanID: "professional",
			Status: subscription.StatusExpired, StartsAt: testNow.AddDate(0, -1, 0),
			EndsAt: ptr(testNow.AddDate(0, 0, -1)),
		}

		cur := subscription.SelectCurrent([]subscription.Subscription{dead, live}, testNow)
		require.NotNil(t, cur)
		assert.Equal(t, live.ID, cur.ID)
	})

	t.Run("newest starts_at breaks ties between live rows", func(t *testing.T) {
		t.Parallel()

		older := subscription.Subscription{
			ID: uuid.New(), TenantID: tenantID,
			Status: subscription.StatusActive, StartsAt: testNow.AddDate(0, -3, 0),
		}
		newer := subscription.Subscription{
			ID: uuid.New(), TenantID: tenantID,
			Status: subscription.StatusActive, StartsAt: testNow.AddDate(0, -1, 0),
		}

		cur := subscription.SelectCurrent([]subscription.Subscription{older, newer}, testNow)
		require.NotNil(t, cur)
		assert.Equal(t, newer.ID, cur.ID)
	})

	t.Run("no live row falls back to most recently started", func(t *testing.T) {
		t.Parallel()

		a := subscription.Subscription{
			ID: uuid.New(), TenantID: tenantID,
			Status: subscription.StatusExpired, StartsAt: testNow.AddDate(-1, 0, 0),
			EndsAt: ptr(testNow.AddDate(0, -6, 0)),
		}
		b := subscription.Subscription{
			ID: uuid.New(), TenantID: tenantID,
			Status: subscription.StatusExpired, StartsAt: testNow.AddDate(0, -6, 0),
			EndsAt: ptr(testNow.AddDate(0, -1, 0)),
		}

		cur := subscription.SelectCurrent([]subscription.Subscription{a, b}, testNow)
		require.NotNil(t, cur)
		assert.Equal(t, b.ID, cur.ID)
	})

	t.Run("active row whose period ended is not live", func(t *testing.T) {
		t.Parallel()

		// Status still says active but ends_at passed: the flag does not win.
		stale := subscription.Subscription{
			ID: uuid.New(), TenantID: tenantID,
			Status: subscription.StatusActive, StartsAt: testNow.AddDate(0, -2, 0),
			EndsAt: ptr(testNow.AddDate(0, 0, -1)),
		}

		cur := subscription.SelectCurrent([]subscription.Subscription{stale}, testNow)
		require.NotNil(t, cur)
		assert.Equal(t, stale.ID, cur.ID)
		assert.False(t, cur.LiveAt(testNow))
	})
}

func TestStateResolverResolve(t *testing.T) {
	t.Parallel()

	t.Run("no rows is StateNone with free plan", func(t *testing.T) {
		t.Parallel()

		resolver := newTestResolver(t, newMockStore())

		snap, err := resolver.Resolve(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, subscription.StateNone, snap.State)
		assert.Equal(t, plan.FreePlanID, snap.Plan.ID)
		assert.Nil(t, snap.Subscription)
		assert.True(t, snap.Entitled())

		limit, ok := snap.Plan.LimitFor(plan.ResourceVehicles)
		require.True(t, ok)
		assert.Equal(t, int64(1), limit)
	})

	t.Run("period ended is StateExpired", func(t *testing.T) {
		t.Parallel()

		tenantID := uuid.New()
		store := newMockStore()
		store.add(subscription.Subscription{
			ID: uuid.New(), TenantID: tenantID, PlanID: "professional",
			Status: subscription.StatusActive, StartsAt: testNow.AddDate(0, -2, 0),
			EndsAt: ptr(testNow.AddDate(0, 0, -3)),
		})
		resolver := newTestResolver(t, store)

		snap, err := resolver.Resolve(context.Background(), tenantID)
		require.NoError(t, err)
		assert.Equal(t, subscription.StateExpired, snap.State)
		assert.False(t, snap.Entitled())
	})

	t.Run("ends_at exactly now is already expired", func(t *testing.T) {
		t.Parallel()

		tenantID := uuid.New()
		store := newMockStore()
		store.add(subscription.Subscription{
			ID: uuid.New(), TenantID: tenantID, PlanID: "professional",
			Status: subscription.StatusActive, StartsAt: testNow.AddDate(0, -1, 0),
			EndsAt: ptr(testNow),
		})
		resolver := newTestResolver(t, store)

		snap, err := resolver.Resolve(context.Background(), tenantID)
		require.NoError(t, err)
		assert.Equal(t, subscription.StateExpired, snap.State)
	})

	t.Run("ends_at one second after now is still active", func(t *testing.T) {
		t.Parallel()

		tenantID := uuid.New()
		store := newMockStore()
		store.add(subscription.Subscription{
			ID: uuid.New(), TenantID: tenantID, PlanID: "professional",
			Status: subscription.StatusActive, StartsAt: testNow.AddDate(0, -1, 0),
			EndsAt: ptr(testNow.Add(time.Second)),
		})
		resolver := newTestResolver(t, store)

		snap, err := resolver.Resolve(context.Background(), tenantID)
		require.NoError(t, err)
		assert.Equal(t, subscription.StateActive, snap.State)
	})

	t.Run("trial closed without plan is StateTrialExpired", func(t *testing.T) {
		t.Parallel()

		tenantID := uuid.New()
		store := newMockStore()
		store.add(subscription.Subscription{
			ID: uuid.New(), TenantID: tenantID, PlanID: "",
			Status: subscription.StatusActive, StartsAt: testNow.AddDate(0, -1, 0),
			TrialEndsAt: ptr(testNow.AddDate(0, 0, -2)),
		})
		resolver := newTestResolver(t, store)

		snap, err := resolver.Resolve(context.Background(), tenantID)
		require.NoError(t, err)
		assert.Equal(t, subscription.StateTrialExpired, snap.State)
		assert.False(t, snap.Entitled())
	})

	t.Run("live trial without plan is active on free limits", func(t *testing.T) {
		t.Parallel()

		tenantID := uuid.New()
		store := newMockStore()
		store.add(subscription.Subscription{
			ID: uuid.New(), TenantID: tenantID, PlanID: "",
			Status: subscription.StatusActive, StartsAt: testNow.AddDate(0, 0, -3),
			TrialEndsAt: ptr(testNow.AddDate(0, 0, 11)),
		})
		resolver := newTestResolver(t, store)

		snap, err := resolver.Resolve(context.Background(), tenantID)
		require.NoError(t, err)
		assert.Equal(t, subscription.StateActive, snap.State)
		assert.Equal(t, plan.FreePlanID, snap.Plan.ID)
	})

	t.Run("expired trial with concrete plan stays active", func(t *testing.T) {
		t.Parallel()

		tenantID := uuid.New()
		store := newMockStore()
		store.add(subscription.Subscription{
			ID: uuid.New(), TenantID: tenantID, PlanID: "professional",
			Status: subscription.StatusActive, StartsAt: testNow.AddDate(0, -1, 0),
			TrialEndsAt: ptr(testNow.AddDate(0, 0, -16)),
		})
		resolver := newTestResolver(t, store)

		snap, err := resolver.Resolve(context.Background(), tenantID)
		require.NoError(t, err)
		assert.Equal(t, subscription.StateActive, snap.State)
		assert.Equal(t, "professional", snap.Plan.ID)
	})

	t.Run("active snapshot carries plan limits", func(t *testing.T) {
		t.Parallel()

		tenantID := uuid.New()
		store := newMockStore()
		store.add(subscription.Subscription{
			ID: uuid.New(), TenantID: tenantID, PlanID: "professional",
			Status: subscription.StatusActive, StartsAt: testNow.AddDate(0, -1, 0),
		})
		resolver := newTestResolver(t, store)

		snap, err := resolver.Resolve(context.Background(), tenantID)
		require.NoError(t, err)
		assert.Equal(t, subscription.StateActive, snap.State)

		limit, ok := snap.Plan.LimitFor(plan.ResourceVehicles)
		require.True(t, ok)
		assert.Equal(t, int64(25), limit)
	})

	t.Run("unknown plan id fails closed", func(t *testing.T) {
		t.Parallel()

		tenantID := uuid.New()
		store := newMockStore()
		store.add(subscription.Subscription{
			ID: uuid.New(), TenantID: tenantID, PlanID: "retired-plan",
			Status: subscription.StatusActive, StartsAt: testNow.AddDate(0, -1, 0),
		})
		resolver := newTestResolver(t, store)

		_, err := resolver.Resolve(context.Background(), tenantID)
		assert.ErrorIs(t, err, subscription.ErrPlanNotInCatalog)
	})

	t.Run("store failure wraps ErrSubscriptionLookupFailed", func(t *testing.T) {
		t.Parallel()

		store := newMockStore()
		store.err = errors.New("timeout")
		resolver := newTestResolver(t, store)

		_, err := resolver.Resolve(context.Background(), uuid.New())
		assert.ErrorIs(t, err, subscription.ErrSubscriptionLookupFailed)
	})
}

func TestSubscriptionLifecycle(t *testing.T) {
	t.Parallel()

	t.Run("cancel sets status and timestamp", func(t *testing.T) {
		t.Parallel()

		sub := subscription.Subscription{Status: subscription.StatusActive}
		sub.Cancel(testNow)

		assert.True(t, sub.IsCancelled())
		require.NotNil(t, sub.CancelledAt)
		assert.Equal(t, testNow, *sub.CancelledAt)
	})

	t.Run("expire closes an open-ended period", func(t *testing.T) {
		t.Parallel()

		sub := subscription.Subscription{Status: subscription.StatusActive}
		sub.Expire(testNow)

		assert.Equal(t, subscription.StatusExpired, sub.Status)
		require.NotNil(t, sub.EndsAt)
		assert.False(t, sub.LiveAt(testNow))
	})

	t.Run("trial boundary is strict", func(t *testing.T) {
		t.Parallel()

		sub := subscription.Subscription{TrialEndsAt: ptr(testNow)}
		assert.True(t, sub.TrialExpiredAt(testNow))
		assert.False(t, sub.TrialExpiredAt(testNow.Add(-time.Second)))
	})
}
