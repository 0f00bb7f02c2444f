// Package plan defines the entitlement templates a tenant can subscribe to:
// named bundles of resource limits, feature flags, and billing metadata.
//
// Plans are loaded once at startup into an immutable Catalog via a Source
// (in-memory for tests, YAML file for deployments). The catalog also answers
// upgrade questions: NextTier picks the cheapest public plan that raises the
// limit for a given resource, which the entitlement gate uses to suggest an
// upgrade target on denial.
//
// Resource kinds are a closed enumeration. Every gated kind needs an explicit
// limit and counter; anything unknown is rejected rather than allowed.
//
// # Usage
//
//	catalog, err := plan.NewCatalog(ctx, plan.NewYAMLSource("plans.yaml"))
//	if err != nil {
//		// handle error
//	}
//
//	next, ok := catalog.NextTier(plan.ResourceVehicles, 10)
//	if !ok {
//		// no bigger plan exists: suggest contacting sales
//	}
package plan
