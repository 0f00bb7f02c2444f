package plan

// Resource is a countable tenant resource kind gated by plan limits.
//
// The enumeration is closed on purpose: every gated kind must have an
// explicit limit and an explicit usage counter. Unknown kinds are an
// error, never an implicit allow.
type Resource string

const (
	ResourceVehicles Resource = "vehicles"
	ResourceUsers    Resource = "users"
)

// Valid reports whether r is one of the known resource kinds.
func (r Resource) Valid() bool {
	switch r {
	case ResourceVehicles, ResourceUsers:
		return true
	}
	return false
}

// Unlimited indicates no limit for a resource (-1 chosen for SQL compatibility).
const Unlimited int64 = -1

// Feature represents a plan-specific capability that can be enabled/disabled.
type Feature string

const (
	FeatureMaintenanceAlerts Feature = "maintenance_alerts"
	FeatureFuelTracking      Feature = "fuel_tracking"
	FeatureAPI               Feature = "api"
	FeatureExport            Feature = "export"
	FeaturePrioritySupport   Feature = "priority_support"
	FeatureDriverAssignments Feature = "driver_assignments"
)

// UsageInfo contains the current usage and limit for a resource.
type UsageInfo struct {
	Used  int64 `json:"used"`
	Limit int64 `json:"limit"`
}

// Available returns how many more instances can be created, or Unlimited.
func (u UsageInfo) Available() int64 {
	if u.Limit == Unlimited {
		return Unlimited
	}
	if u.Used >= u.Limit {
		return 0
	}
	return u.Limit - u.Used
}

// Money represents a monetary amount in the smallest currency unit.
// For example, $10.99 USD would be Amount: 1099, Currency: "USD".
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// BillingInterval represents the billing frequency for a plan.
type BillingInterval string

const (
	BillingIntervalNone    BillingInterval = "none" // free plans with no billing
	BillingIntervalMonthly BillingInterval = "monthly"
	BillingIntervalAnnual  BillingInterval = "annual"
)
