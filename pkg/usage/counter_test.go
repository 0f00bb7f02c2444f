package usage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetkit/fleetkit/pkg/plan"
	"github.com/fleetkit/fleetkit/pkg/usage"
)

func TestRegistryRegister(t *testing.T) {
	t.Parallel()

	noop := func(ctx context.Context, tenantID uuid.UUID) (int64, error) { return 0, nil }

	t.Run("nil func panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() {
			usage.NewRegistry().Register(plan.ResourceVehicles, nil)
		})
	})

	t.Run("unknown resource panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() {
			usage.NewRegistry().Register(plan.Resource("gadgets"), noop)
		})
	})

	t.Run("replaces existing counter", func(t *testing.T) {
		t.Parallel()

		r := usage.NewRegistry()
		r.Register(plan.ResourceVehicles, noop)
		r.Register(plan.ResourceVehicles, func(ctx context.Context, tenantID uuid.UUID) (int64, error) {
			return 7, nil
		})

		n, err := r.Count(context.Background(), uuid.New(), plan.ResourceVehicles)
		require.NoError(t, err)
		assert.Equal(t, int64(7), n)
	})
}

func TestRegistryCount(t *testing.T) {
	t.Parallel()

	t.Run("unknown resource errors", func(t *testing.T) {
		t.Parallel()

		r := usage.NewRegistry()
		_, err := r.Count(context.Background(), uuid.New(), plan.Resource("gadgets"))
		assert.ErrorIs(t, err, plan.ErrUnknownResource)
	})

	t.Run("unregistered resource errors rather than returning zero", func(t *testing.T) {
		t.Parallel()

		r := usage.NewRegistry()
		_, err := r.Count(context.Background(), uuid.New(), plan.ResourceVehicles)
		assert.ErrorIs(t, err, usage.ErrNoCounterRegistered)
	})

	t.Run("counter failure is wrapped", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("connection reset")
		r := usage.NewRegistry()
		r.Register(plan.ResourceVehicles, func(ctx context.Context, tenantID uuid.UUID) (int64, error) {
			return 0, cause
		})

		_, err := r.Count(context.Background(), uuid.New(), plan.ResourceVehicles)
		assert.ErrorIs(t, err, usage.ErrFailedToCountUsage)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("negative count is rejected", func(t *testing.T) {
		t.Parallel()

		r := usage.NewRegistry()
		r.Register(plan.ResourceVehicles, func(ctx context.Context, tenantID uuid.UUID) (int64, error) {
			return -1, nil
		})

		_, err := r.Count(context.Background(), uuid.New(), plan.ResourceVehicles)
		assert.ErrorIs(t, err, usage.ErrFailedToCountUsage)
	})

	t.Run("counts are isolated per tenant", func(t *testing.T) {
		t.Parallel()

		tenantA := uuid.New()
		tenantB := uuid.New()

		// Both tenants own rows; only the asked-for tenant's rows count.
		rows := map[uuid.UUID]int64{tenantA: 3, tenantB: 1}

		r := usage.NewRegistry()
		r.Register(plan.ResourceVehicles, func(ctx context.Context, tenantID uuid.UUID) (int64, error) {
			return rows[tenantID], nil
		})

		nA, err := r.Count(context.Background(), tenantA, plan.ResourceVehicles)
		require.NoError(t, err)
		nB, err := r.Count(context.Background(), tenantB, plan.ResourceVehicles)
		require.NoError(t, err)

		assert.Equal(t, int64(3), nA)
		assert.Equal(t, int64(1), nB)
	})

	t.Run("resources count independently", func(t *testing.T) {
		t.Parallel()

		tenantID := uuid.New()
		r := usage.NewRegistry()
		r.Register(plan.ResourceVehicles, func(ctx context.Context, id uuid.UUID) (int64, error) {
			return 5, nil
		})
		r.Register(plan.ResourceUsers, func(ctx context.Context, id uuid.UUID) (int64, error) {
			return 2, nil
		})

		vehicles, err := r.Count(context.Background(), tenantID, plan.ResourceVehicles)
		require.NoError(t, err)
		users, err := r.Count(context.Background(), tenantID, plan.ResourceUsers)
		require.NoError(t, err)

		assert.Equal(t, int64(5), vehicles)
		assert.Equal(t, int64(2), users)
	})
}
