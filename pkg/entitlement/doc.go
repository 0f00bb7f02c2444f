// Package entitlement is the single decision gate that determines whether
// an inbound request may proceed given tenant, subscription, and limit
// state.
//
// The gate composes three stages in a fixed order and short-circuits on
// the first failure:
//
//	tenant resolution -> subscription classification -> usage/limit check
//
// The last stage runs only for mutating actions on a gated resource.
// Every failure denies, including infrastructure errors and lookup
// timeouts; nothing in this package ever defaults to allow. Internal
// principals bypass the gate entirely.
//
// Evaluate is the pure core: given usage and a limit it classifies the
// mutation as allowed, allowed-with-warning (usage at or past 80% of the
// limit by default), or denied with an upgrade suggestion picked from the
// plan catalog.
//
// Denials surface as *DenialError carrying a machine code (NoTenant,
// InvalidTenant, TenantMismatch, NoSubscription, SubscriptionExpired,
// TrialExpired, LimitReached), mapped to HTTP statuses 400/403/402/422
// respectively; infrastructure failures map to 500 without leaking
// internals. The HTTP middleware writes the structured DenialPayload and,
// on success, attaches the read-only Result (tenant, snapshot, decision)
// to the request context for downstream handlers.
//
// # Usage
//
//	gate := entitlement.NewGate(tenantResolver, stateResolver, counters, catalog)
//
//	result, err := gate.Check(ctx, principal, hint, entitlement.Action{
//		Resource: plan.ResourceVehicles,
//		Mutation: true,
//	})
//	if err != nil {
//		d, _ := entitlement.AsDenial(err)
//		// render entitlement.Payload(d) with d.Code.HTTPStatus()
//	}
//
// Note the gate's limit check is advisory under concurrency: two requests
// can both pass it before either creates. usage.Reserver at the point of
// creation is the enforcing side of the same policy.
package entitlement
