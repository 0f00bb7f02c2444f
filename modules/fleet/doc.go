// Package fleet composes the entitlement gate with vehicle and tenant
// member endpoints. It demonstrates the intended shape: the gate
// middleware is the only place tenant, subscription, and limit state is
// decided, handlers consume the attached result, and creation goes
// through the atomic reserver so limits hold under concurrency.
package fleet
