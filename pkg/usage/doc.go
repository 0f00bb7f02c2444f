// Package usage counts tenant-scoped resources and enforces limits at the
// moment of creation.
//
// Counting is deliberately uncached: a CounterFunc recomputes the count on
// every call so the gate never decides on stale numbers, and every counter
// filters on tenant_id alone so counts can never leak across tenants.
// Counters are registered per resource kind at startup; an unregistered or
// unknown kind is an error, not an implicit allow.
//
// The gate's pre-check is inherently racy: two concurrent requests can both
// observe usage below the limit and both create. Reserver is the chosen
// mitigation - an atomic reserve-and-count at creation time. It takes a
// per-(tenant, resource) advisory transaction lock, recounts, compares
// against the limit, and only then runs the caller's insert, all in one
// transaction. Concurrent creations for the same tenant and resource
// serialize on the lock, so usage cannot overshoot the cap.
package usage
