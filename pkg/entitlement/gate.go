package entitlement

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fleetkit/fleetkit/pkg/plan"
	"github.com/fleetkit/fleetkit/pkg/subscription"
	"github.com/fleetkit/fleetkit/pkg/tenant"
	"github.com/fleetkit/fleetkit/pkg/usage"
)

// Action describes what an inbound request wants to do, as far as the
// gate cares: which resource it touches and whether it mutates.
type Action struct {
	Resource plan.Resource
	// Mutation triggers the count/limit stage. Reads skip it.
	Mutation bool
	// RequirePaid denies tenants running on the implicit free plan with
	// CodeNoSubscription. Used for endpoints behind paid features.
	RequirePaid bool
}

// Result is the request-scoped context the gate attaches on success.
// It is read-only by contract: downstream handlers consume it, never
// mutate it.
type Result struct {
	// Internal is true when an internal principal bypassed the gate;
	// all other fields are zero in that case.
	Internal bool
	Tenant   *tenant.Tenant
	Snapshot subscription.Snapshot
	// Decision is set only when the resource-check stage ran.
	Decision *Decision
}

// Gate is the single composed entitlement decision for inbound requests.
// It runs tenant resolution, subscription classification, and (for
// mutations) the usage/limit check in that fixed order, short-circuiting
// on the first failure. Every divergent per-route reimplementation of
// these checks belongs here instead.
type Gate struct {
	tenants   *tenant.Resolver
	subs      *subscription.StateResolver
	counters  usage.Registry
	catalog   *plan.Catalog
	threshold float64
	logger    *slog.Logger
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithGateWarningThreshold overrides the near-limit warning ratio.
func WithGateWarningThreshold(ratio float64) GateOption {
	return func(g *Gate) {
		if ratio > 0 && ratio <= 1 {
			g.threshold = ratio
		}
	}
}

// WithGateLogger sets a custom logger.
func WithGateLogger(logger *slog.Logger) GateOption {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGate creates the gate. All collaborators are required; the
// constructor panics on nil to fail fast during initialization.
func NewGate(tenants *tenant.Resolver, subs *subscription.StateResolver, counters usage.Registry, catalog *plan.Catalog, opts ...GateOption) *Gate {
	if tenants == nil {
		panic("entitlement: tenant resolver is required")
	}
	if subs == nil {
		panic("entitlement: subscription state resolver is required")
	}
	if counters == nil {
		panic("entitlement: usage registry is required")
	}
	if catalog == nil {
		panic("entitlement: plan catalog is required")
	}

	g := &Gate{
		tenants:   tenants,
		subs:      subs,
		counters:  counters,
		catalog:   catalog,
		threshold: DefaultWarningThreshold,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// Check evaluates the gate for one request. The stages run in a fixed
// order and every failure, including lookup timeouts, denies: the error
// is always a *DenialError (matching ErrDenied), never a raw cause.
//
// On success the returned Result carries the resolved tenant, snapshot,
// and limit decision for downstream handlers.
func (g *Gate) Check(ctx context.Context, principal tenant.Principal, hint string, action Action) (*Result, error) {
	// Stage 1: tenant resolution. Internal principals bypass everything.
	if principal.Internal {
		return &Result{Internal: true}, nil
	}

	t, err := g.tenants.Resolve(ctx, principal, hint)
	if err != nil {
		return nil, g.denyTenant(ctx, err)
	}

	// Stage 2: subscription classification.
	snap, err := g.subs.Resolve(ctx, t.ID)
	if err != nil {
		g.logger.ErrorContext(ctx, "subscription resolution failed",
			"tenant_id", t.ID, "error", err)
		return nil, &DenialError{Code: CodeInternal, Message: "entitlement check failed"}
	}

	switch snap.State {
	case subscription.StateExpired:
		return nil, &DenialError{Code: CodeSubscriptionExpired, Message: "subscription has expired", PlanName: planName(snap)}
	case subscription.StateTrialExpired:
		return nil, &DenialError{Code: CodeTrialExpired, Message: "trial period has ended", PlanName: planName(snap)}
	case subscription.StateNone:
		if action.RequirePaid {
			return nil, &DenialError{Code: CodeNoSubscription, Message: "an active subscription is required"}
		}
	}

	result := &Result{Tenant: t, Snapshot: snap}

	// Stage 3: resource check, mutations only.
	if !action.Mutation {
		return result, nil
	}

	limit, ok := snap.Plan.LimitFor(action.Resource)
	if !ok {
		// The plan does not gate this resource kind at all. That is a
		// configuration hole, not permission; fail loudly.
		g.logger.ErrorContext(ctx, "plan has no limit for resource",
			"tenant_id", t.ID, "plan_id", snap.Plan.ID, "resource", action.Resource)
		return nil, &DenialError{Code: CodeInternal, Message: "entitlement check failed"}
	}

	used, err := g.counters.Count(ctx, t.ID, action.Resource)
	if err != nil {
		g.logger.ErrorContext(ctx, "usage count failed",
			"tenant_id", t.ID, "resource", action.Resource, "error", err)
		return nil, &DenialError{Code: CodeInternal, Message: "entitlement check failed"}
	}

	d := Evaluate(action.Resource, used, limit,
		WithWarningThreshold(g.threshold),
		WithCatalog(g.catalog),
	)
	result.Decision = &d

	if !d.Allowed {
		return nil, &DenialError{
			Code:     d.Code,
			Message:  d.Message,
			PlanName: snap.Plan.Name,
			Resource: string(action.Resource),
			Decision: &d,
		}
	}
	if d.Warning {
		g.logger.WarnContext(ctx, "tenant approaching resource limit",
			"tenant_id", t.ID, "resource", action.Resource,
			"used", d.Usage.Used, "limit", d.Usage.Limit)
	}

	return result, nil
}

func (g *Gate) denyTenant(ctx context.Context, err error) *DenialError {
	switch {
	case errors.Is(err, tenant.ErrNoTenant):
		return &DenialError{Code: CodeNoTenant, Message: "tenant identifier is required"}
	case errors.Is(err, tenant.ErrInvalidTenant):
		return &DenialError{Code: CodeInvalidTenant, Message: "unknown or inactive tenant"}
	case errors.Is(err, tenant.ErrTenantMismatch):
		return &DenialError{Code: CodeTenantMismatch, Message: "tenant does not match credentials"}
	default:
		g.logger.ErrorContext(ctx, "tenant resolution failed", "error", err)
		return &DenialError{Code: CodeInternal, Message: "entitlement check failed"}
	}
}

func planName(snap subscription.Snapshot) string {
	return snap.Plan.Name
}

// Payload converts a denial into the structured response body, filling
// plan and usage details when the gate got far enough to know them.
func Payload(d *DenialError) DenialPayload {
	p := DenialPayload{
		Error:           d.Error(),
		Code:            d.Code,
		UpgradeRequired: d.Code.UpgradeRequired(),
	}

	if d.PlanName != "" {
		name := d.PlanName
		p.CurrentPlan = &name
	}

	if d.Decision != nil {
		if d.Decision.SuggestedPlan != "" {
			sp := d.Decision.SuggestedPlan
			p.SuggestedPlan = &sp
		}
		u := d.Decision.Usage
		p.LimitDetails = map[plan.Resource]LimitDetail{
			plan.Resource(d.Resource): {Used: u.Used, Limit: u.Limit, Available: u.Available()},
		}
	}

	return p
}
