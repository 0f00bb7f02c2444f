package plan

import (
	"maps"
	"slices"
	"time"
)

// Plan describes a subscription plan and its resource/feature constraints.
// Price and Interval are billing metadata retained for display and upgrade
// suggestions only; the gate never charges anyone.
type Plan struct {
	ID          string
	Name        string
	Description string
	Limits      map[Resource]int64 // -1 represents unlimited
	Features    []Feature
	Price       Money
	Interval    BillingInterval
	Public      bool // available for self-service signup
	TrialDays   int
}

// FreePlanID identifies the implicit plan applied to tenants without any
// subscription record.
const FreePlanID = "free"

// FreePlan returns the implicit maximally-restrictive plan: one vehicle,
// one user, no features. Tenants without a subscription row fall back to it.
func FreePlan() Plan {
	return Plan{
		ID:   FreePlanID,
		Name: "Free",
		Limits: map[Resource]int64{
			ResourceVehicles: 1,
			ResourceUsers:    1,
		},
		Interval: BillingIntervalNone,
		Public:   true,
	}
}

// LimitFor returns the limit for the given resource.
// The second return value is false if the plan does not gate that resource.
func (p Plan) LimitFor(res Resource) (int64, bool) {
	limit, ok := p.Limits[res]
	return limit, ok
}

// HasFeature reports whether the plan enables the given feature.
func (p Plan) HasFeature(f Feature) bool {
	return slices.Contains(p.Features, f)
}

// TrialEndsAt calculates when the trial period ends.
// Returns startedAt unchanged if no trial is available.
func (p Plan) TrialEndsAt(startedAt time.Time) time.Time {
	if p.TrialDays <= 0 {
		return startedAt
	}
	return startedAt.AddDate(0, 0, p.TrialDays).UTC()
}

// Clone returns a deep copy so catalog entries never share mutable maps.
func (p Plan) Clone() Plan {
	cp := p
	cp.Limits = maps.Clone(p.Limits)
	cp.Features = slices.Clone(p.Features)
	return cp
}
