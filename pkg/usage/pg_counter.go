package usage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetkit/fleetkit/pkg/plan"
)

// resourceTables maps each gated resource to the table its rows live in.
// Every table carries a tenant_id column; counts filter on it and nothing
// else, so tenant A's usage can never include tenant B's rows.
var resourceTables = map[plan.Resource]string{
	plan.ResourceVehicles: "vehicles",
	plan.ResourceUsers:    "users",
}

// NewPGCounter returns a CounterFunc that counts rows of res scoped to
// one tenant. Panics for unknown resource kinds at construction time.
func NewPGCounter(pool *pgxpool.Pool, res plan.Resource) CounterFunc {
	if pool == nil {
		panic("usage: pgx pool is required")
	}
	table, ok := resourceTables[res]
	if !ok {
		panic(fmt.Sprintf("usage: no table mapping for resource %q", res))
	}

	query := fmt.Sprintf(`SELECT count(*) FROM %s WHERE tenant_id = $1`, table)

	return func(ctx context.Context, tenantID uuid.UUID) (int64, error) {
		var n int64
		if err := pool.QueryRow(ctx, query, tenantID).Scan(&n); err != nil {
			return 0, err
		}
		return n, nil
	}
}

// NewPGRegistry returns a Registry with Postgres counters for every
// gated resource.
func NewPGRegistry(pool *pgxpool.Pool) Registry {
	reg := NewRegistry()
	for res := range resourceTables {
		reg.Register(res, NewPGCounter(pool, res))
	}
	return reg
}
