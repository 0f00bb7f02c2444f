package tenant

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGProvider loads tenants from PostgreSQL. It accepts both UUID and
// subdomain identifiers so any hint strategy can share one provider.
type PGProvider struct {
	pool *pgxpool.Pool
}

// NewPGProvider creates a Postgres-backed tenant provider.
// Panics if pool is nil to fail fast during initialization.
func NewPGProvider(pool *pgxpool.Pool) *PGProvider {
	if pool == nil {
		panic("tenant: pgx pool is required")
	}
	return &PGProvider{pool: pool}
}

// GetByIdentifier retrieves a tenant by UUID or subdomain.
func (p *PGProvider) GetByIdentifier(ctx context.Context, identifier string) (*Tenant, error) {
	var row pgx.Row
	if id, err := uuid.Parse(identifier); err == nil {
		row = p.pool.QueryRow(ctx,
			`SELECT id, name, subdomain, active, created_at FROM tenants WHERE id = $1`, id)
	} else {
		row = p.pool.QueryRow(ctx,
			`SELECT id, name, subdomain, active, created_at FROM tenants WHERE subdomain = $1`, identifier)
	}

	var t Tenant
	if err := row.Scan(&t.ID, &t.Name, &t.Subdomain, &t.Active, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return &t, nil
}
