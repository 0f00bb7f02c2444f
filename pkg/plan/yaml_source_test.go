package plan_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetkit/fleetkit/pkg/plan"
)

const testCatalogYAML = `
starter:
  name: Starter
  description: For small fleets
  limits:
    vehicles: 5
    users: 3
  price:
    amount: 990
    currency: USD
  interval: monthly
  public: true
professional:
  name: Professional
  limits:
    vehicles: 25
    users: 10
  features:
    - maintenance_alerts
    - fuel_tracking
  price:
    amount: 4990
    currency: USD
  interval: monthly
  public: true
  trial_days: 14
`

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plans.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestYAMLSource(t *testing.T) {
	t.Parallel()

	t.Run("loads plan catalog", func(t *testing.T) {
		t.Parallel()

		src := plan.NewYAMLSource(writeCatalogFile(t, testCatalogYAML))
		plans, err := src.Load(context.Background())
		require.NoError(t, err)
		require.Len(t, plans, 2)

		pro := plans["professional"]
		assert.Equal(t, "professional", pro.ID)
		assert.Equal(t, "Professional", pro.Name)
		assert.Equal(t, int64(25), pro.Limits[plan.ResourceVehicles])
		assert.Equal(t, int64(10), pro.Limits[plan.ResourceUsers])
		assert.Contains(t, pro.Features, plan.FeatureMaintenanceAlerts)
		assert.Equal(t, int64(4990), pro.Price.Amount)
		assert.Equal(t, plan.BillingIntervalMonthly, pro.Interval)
		assert.Equal(t, 14, pro.TrialDays)
		assert.True(t, pro.Public)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		src := plan.NewYAMLSource(filepath.Join(t.TempDir(), "missing.yaml"))
		_, err := src.Load(context.Background())
		assert.ErrorIs(t, err, plan.ErrFailedToLoadPlans)
	})

	t.Run("invalid interval", func(t *testing.T) {
		t.Parallel()

		src := plan.NewYAMLSource(writeCatalogFile(t, "bad:\n  name: Bad\n  interval: weekly\n"))
		_, err := src.Load(context.Background())
		assert.ErrorIs(t, err, plan.ErrInvalidPlanConfiguration)
	})

	t.Run("feeds catalog end to end", func(t *testing.T) {
		t.Parallel()

		src := plan.NewYAMLSource(writeCatalogFile(t, testCatalogYAML))
		catalog, err := plan.NewCatalog(context.Background(), src)
		require.NoError(t, err)

		next, ok := catalog.NextTier(plan.ResourceVehicles, 5)
		require.True(t, ok)
		assert.Equal(t, "professional", next.ID)
	})
}
