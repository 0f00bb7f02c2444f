package entitlement_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetkit/fleetkit/pkg/entitlement"
	"github.com/fleetkit/fleetkit/pkg/plan"
)

func tierCatalog(t *testing.T) *plan.Catalog {
	t.Helper()

	catalog, err := plan.NewCatalog(context.Background(), plan.NewInMemSource(map[string]plan.Plan{
		"starter": {
			ID: "starter", Name: "Starter", Public: true,
			Price:  plan.Money{Amount: 2900, Currency: "USD"},
			Limits: map[plan.Resource]int64{plan.ResourceVehicles: 5, plan.ResourceUsers: 3},
		},
		"professional": {
			ID: "professional", Name: "Professional", Public: true,
			Price:  plan.Money{Amount: 9900, Currency: "USD"},
			Limits: map[plan.Resource]int64{plan.ResourceVehicles: 25, plan.ResourceUsers: 10},
		},
		"enterprise": {
			ID: "enterprise", Name: "Enterprise", Public: true,
			Price:  plan.Money{Amount: 49900, Currency: "USD"},
			Limits: map[plan.Resource]int64{plan.ResourceVehicles: plan.Unlimited, plan.ResourceUsers: plan.Unlimited},
		},
		"internal-qa": {
			ID: "internal-qa", Name: "Internal QA", Public: false,
			Limits: map[plan.Resource]int64{plan.ResourceVehicles: 1000},
		},
	}))
	require.NoError(t, err)
	return catalog
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	t.Run("unlimited always allows", func(t *testing.T) {
		t.Parallel()

		d := entitlement.Evaluate(plan.ResourceVehicles, 1_000_000, plan.Unlimited)
		assert.True(t, d.Allowed)
		assert.False(t, d.Warning)
		assert.Equal(t, int64(plan.Unlimited), d.Usage.Limit)
	})

	t.Run("under limit allows without warning", func(t *testing.T) {
		t.Parallel()

		d := entitlement.Evaluate(plan.ResourceVehicles, 3, 25)
		assert.True(t, d.Allowed)
		assert.False(t, d.Warning)
		assert.Empty(t, d.Message)
	})

	t.Run("at threshold allows with warning", func(t *testing.T) {
		t.Parallel()

		// 20 of 25 is exactly the default 0.8 ratio.
		d := entitlement.Evaluate(plan.ResourceVehicles, 20, 25)
		assert.True(t, d.Allowed)
		assert.True(t, d.Warning)
		assert.Contains(t, d.Message, "approaching vehicles limit")
		assert.Contains(t, d.Message, "20 of 25")
	})

	t.Run("just under threshold has no warning", func(t *testing.T) {
		t.Parallel()

		d := entitlement.Evaluate(plan.ResourceVehicles, 19, 25)
		assert.True(t, d.Allowed)
		assert.False(t, d.Warning)
	})

	t.Run("at limit denies", func(t *testing.T) {
		t.Parallel()

		d := entitlement.Evaluate(plan.ResourceVehicles, 25, 25)
		assert.False(t, d.Allowed)
		assert.Equal(t, entitlement.CodeLimitReached, d.Code)
		assert.Contains(t, d.Message, "vehicles limit reached: 25 of 25 used")
	})

	t.Run("over limit denies", func(t *testing.T) {
		t.Parallel()

		// Limits can shrink on downgrade, leaving usage above them.
		d := entitlement.Evaluate(plan.ResourceUsers, 12, 10)
		assert.False(t, d.Allowed)
		assert.Equal(t, entitlement.CodeLimitReached, d.Code)
	})

	t.Run("custom threshold", func(t *testing.T) {
		t.Parallel()

		d := entitlement.Evaluate(plan.ResourceVehicles, 13, 25,
			entitlement.WithWarningThreshold(0.5))
		assert.True(t, d.Allowed)
		assert.True(t, d.Warning)
	})

	t.Run("invalid threshold keeps default", func(t *testing.T) {
		t.Parallel()

		d := entitlement.Evaluate(plan.ResourceVehicles, 13, 25,
			entitlement.WithWarningThreshold(1.5))
		assert.True(t, d.Allowed)
		assert.False(t, d.Warning)
	})

	t.Run("denial suggests next tier", func(t *testing.T) {
		t.Parallel()

		d := entitlement.Evaluate(plan.ResourceVehicles, 5, 5,
			entitlement.WithCatalog(tierCatalog(t)))
		assert.False(t, d.Allowed)
		assert.Equal(t, "professional", d.SuggestedPlan)
		assert.Contains(t, d.Message, "upgrade to Professional")
	})

	t.Run("unlimited tier suggested after highest finite plan", func(t *testing.T) {
		t.Parallel()

		d := entitlement.Evaluate(plan.ResourceVehicles, 25, 25,
			entitlement.WithCatalog(tierCatalog(t)))
		assert.False(t, d.Allowed)
		// Private plans never get suggested even when their limit fits.
		assert.Equal(t, "enterprise", d.SuggestedPlan)
	})

	t.Run("no bigger plan suggests contacting sales", func(t *testing.T) {
		t.Parallel()

		d := entitlement.Evaluate(plan.ResourceVehicles, 10, plan.Unlimited)
		assert.True(t, d.Allowed)

		catalog, err := plan.NewCatalog(context.Background(), plan.NewInMemSource(map[string]plan.Plan{
			"only": {
				ID: "only", Name: "Only", Public: true,
				Limits: map[plan.Resource]int64{plan.ResourceVehicles: 5},
			},
		}))
		require.NoError(t, err)

		d = entitlement.Evaluate(plan.ResourceVehicles, 5, 5, entitlement.WithCatalog(catalog))
		assert.False(t, d.Allowed)
		assert.Empty(t, d.SuggestedPlan)
		assert.Contains(t, d.Message, "contact sales")
	})
}

func TestDenialCodeHTTPStatus(t *testing.T) {
	t.Parallel()

	cases := map[entitlement.DenialCode]int{
		entitlement.CodeNoTenant:            400,
		entitlement.CodeInvalidTenant:       403,
		entitlement.CodeTenantMismatch:      403,
		entitlement.CodeNoSubscription:      402,
		entitlement.CodeSubscriptionExpired: 402,
		entitlement.CodeTrialExpired:        402,
		entitlement.CodeLimitReached:        422,
		entitlement.CodeInternal:            500,
	}
	for code, want := range cases {
		assert.Equal(t, want, code.HTTPStatus(), "code %s", code)
	}
}

func TestDenialCodeUpgradeRequired(t *testing.T) {
	t.Parallel()

	assert.True(t, entitlement.CodeLimitReached.UpgradeRequired())
	assert.True(t, entitlement.CodeNoSubscription.UpgradeRequired())
	assert.True(t, entitlement.CodeSubscriptionExpired.UpgradeRequired())
	assert.True(t, entitlement.CodeTrialExpired.UpgradeRequired())
	assert.False(t, entitlement.CodeNoTenant.UpgradeRequired())
	assert.False(t, entitlement.CodeInvalidTenant.UpgradeRequired())
	assert.False(t, entitlement.CodeInternal.UpgradeRequired())
}
