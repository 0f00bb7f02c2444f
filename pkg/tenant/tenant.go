package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tenant represents a customer organization: the unit of data isolation.
// Internal tenants (the operator's own org) are never created; internal
// principals operate tenant-less instead.
type Tenant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Subdomain string    `json:"subdomain"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Principal is the authenticated caller as produced by the external auth
// collaborator. It is opaque to this package beyond three facts: who it is,
// which tenant it belongs to (zero UUID when none), and whether it is an
// internal operator principal that bypasses tenant checks entirely.
type Principal struct {
	ID       uuid.UUID
	TenantID uuid.UUID // zero value means no tenant association
	Internal bool
}

// HasTenant reports whether the principal carries a tenant association.
func (p Principal) HasTenant() bool {
	return p.TenantID != uuid.Nil
}

// Provider loads tenant records from a data source.
// Implementations should accept any unique identifier format the
// application uses for hints (UUID, subdomain).
type Provider interface {
	// GetByIdentifier retrieves a tenant using any unique identifier.
	// Returns ErrTenantNotFound if no tenant matches.
	GetByIdentifier(ctx context.Context, identifier string) (*Tenant, error)
}
