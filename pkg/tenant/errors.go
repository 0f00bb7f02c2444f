package tenant

import "errors"

var (
	// ErrNoTenant is returned when a non-internal principal supplies no
	// tenant hint at all.
	ErrNoTenant = errors.New("no tenant identifier supplied")

	// ErrInvalidTenant is returned when the hint does not resolve to an
	// active tenant record (unknown id, malformed id, or inactive tenant).
	ErrInvalidTenant = errors.New("invalid or inactive tenant")

	// ErrTenantMismatch is returned when the principal's tenant association
	// disagrees with the tenant named by the hint. This blocks cross-tenant
	// impersonation via a forged hint.
	ErrTenantMismatch = errors.New("tenant does not match principal")

	// ErrTenantNotFound is returned by providers when no record exists.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrNoTenantInContext is returned when no tenant is found in context.
	ErrNoTenantInContext = errors.New("no tenant in context")

	// ErrTenantLookupFailed wraps infrastructure failures during tenant
	// resolution. The gate treats it as a deny, never an allow.
	ErrTenantLookupFailed = errors.New("tenant lookup failed")
)
