// Package tenant resolves which customer organization an inbound request
// acts on, and fails closed when it cannot tell.
//
// The package is built around three concepts:
//
//  1. HintResolvers - extract an explicit tenant hint from HTTP requests
//     (header, subdomain, or a composite of both)
//  2. Providers - load the full tenant record from a data source
//  3. Resolver - combines principal, hint, and record into a decision
//
// Resolution rules, in order:
//
//   - Internal principals skip resolution entirely and operate tenant-less.
//   - Non-internal principals must supply a hint; absence is ErrNoTenant.
//   - The hint must name an existing, active tenant; otherwise
//     ErrInvalidTenant.
//   - A principal already bound to a tenant must match the hinted one;
//     otherwise ErrTenantMismatch. This blocks cross-tenant impersonation
//     through a forged header.
//
// The resolved tenant travels in the request context via WithTenant /
// FromContext and is treated as read-only downstream.
//
// # Usage
//
//	provider := tenant.NewPGProvider(pool)
//	resolver := tenant.NewResolver(provider,
//		tenant.WithCache(tenant.NewInMemoryCache()),
//		tenant.WithCacheTTL(5*time.Minute),
//	)
//
//	t, err := resolver.Resolve(ctx, principal, hint)
//
// # Caching
//
// Tenant records are read on every gated request. The in-memory cache
// suits single-instance deployments; NewRedisCache shares the cache (and
// deactivation events) across instances.
package tenant
