package usage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetkit/fleetkit/pkg/plan"
)

// Reserver closes the check-then-create race. Two concurrent requests can
// each read usage = N < limit at the gate and both proceed; without
// coordination the tenant ends at N+2 when only N+1 was allowed. Reserve
// serializes creations per (tenant, resource) inside one transaction:
// advisory lock, fresh count, limit compare, then the caller's insert.
//
// The gate's own check stays advisory (fast, lock-free); Reserve at the
// point of creation is what actually enforces the cap.
type Reserver struct {
	pool *pgxpool.Pool
}

// NewReserver creates a Reserver.
// Panics if pool is nil to fail fast during initialization.
func NewReserver(pool *pgxpool.Pool) *Reserver {
	if pool == nil {
		panic("usage: pgx pool is required")
	}
	return &Reserver{pool: pool}
}

// Reserve runs create inside a transaction that holds a per-(tenant,
// resource) advisory lock and has verified count < limit. Returns
// ErrLimitExceeded without calling create when the tenant is at its cap.
// A limit of plan.Unlimited skips the count entirely.
func (r *Reserver) Reserve(ctx context.Context, tenantID uuid.UUID, res plan.Resource, limit int64, create func(pgx.Tx) error) error {
	if !res.Valid() {
		return errors.Join(plan.ErrUnknownResource, fmt.Errorf("resource %q", res))
	}
	if create == nil {
		return errors.New("usage: create callback is required")
	}

	table, ok := resourceTables[res]
	if !ok {
		return errors.Join(plan.ErrUnknownResource, fmt.Errorf("resource %q", res))
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if limit != plan.Unlimited {
			// hashtextextended gives a stable 64-bit key per tenant+resource;
			// the xact lock releases automatically on commit or rollback.
			if _, err := tx.Exec(ctx,
				`SELECT pg_advisory_xact_lock(hashtextextended($1 || ':' || $2, 0))`,
				tenantID.String(), string(res),
			); err != nil {
				return err
			}

			var n int64
			query := fmt.Sprintf(`SELECT count(*) FROM %s WHERE tenant_id = $1`, table)
			if err := tx.QueryRow(ctx, query, tenantID).Scan(&n); err != nil {
				return errors.Join(ErrFailedToCountUsage, err)
			}
			if n >= limit {
				return errors.Join(ErrLimitExceeded,
					fmt.Errorf("%s: %d of %d used", res, n, limit))
			}
		}

		return create(tx)
	})
}
