package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore persists subscriptions in PostgreSQL. Rows are never deleted;
// history stays for billing audit.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a Postgres-backed subscription store.
// Panics if pool is nil to fail fast during initialization.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	if pool == nil {
		panic("subscription: pgx pool is required")
	}
	return &PGStore{pool: pool}
}

const listQuery = `
SELECT id, tenant_id, plan_id, status, starts_at, ends_at, trial_ends_at,
       created_at, updated_at, cancelled_at
FROM subscriptions
WHERE tenant_id = $1
ORDER BY starts_at DESC`

// ListByTenant returns all subscription rows for a tenant.
func (s *PGStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]Subscription, error) {
	rows, err := s.pool.Query(ctx, listQuery, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		var sub Subscription
		if err := rows.Scan(
			&sub.ID, &sub.TenantID, &sub.PlanID, &sub.Status,
			&sub.StartsAt, &sub.EndsAt, &sub.TrialEndsAt,
			&sub.CreatedAt, &sub.UpdatedAt, &sub.CancelledAt,
		); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// Save creates or updates a subscription row. Saving a new active row
// closes out any other live active rows for the tenant in the same
// transaction, so at most one row is ever live.
func (s *PGStore) Save(ctx context.Context, sub *Subscription) error {
	if sub == nil {
		return ErrInvalidSubscriptionState
	}
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}

	now := time.Now().UTC()
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = now
	}
	sub.UpdatedAt = now

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if sub.Status == StatusActive {
			// Supersede prior live rows so exactly one governs entitlements.
			if _, err := tx.Exec(ctx, `
				UPDATE subscriptions
				SET status = $1, ends_at = COALESCE(ends_at, $2), updated_at = $2
				WHERE tenant_id = $3 AND id <> $4 AND status = $5
				  AND (ends_at IS NULL OR ends_at > $2)`,
				StatusExpired, now, sub.TenantID, sub.ID, StatusActive,
			); err != nil {
				return err
			}
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO subscriptions
				(id, tenant_id, plan_id, status, starts_at, ends_at, trial_ends_at,
				 created_at, updated_at, cancelled_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO UPDATE SET
				plan_id = EXCLUDED.plan_id,
				status = EXCLUDED.status,
				starts_at = EXCLUDED.starts_at,
				ends_at = EXCLUDED.ends_at,
				trial_ends_at = EXCLUDED.trial_ends_at,
				updated_at = EXCLUDED.updated_at,
				cancelled_at = EXCLUDED.cancelled_at`,
			sub.ID, sub.TenantID, sub.PlanID, sub.Status, sub.StartsAt,
			sub.EndsAt, sub.TrialEndsAt, sub.CreatedAt, sub.UpdatedAt, sub.CancelledAt,
		)
		return err
	})
}

// IsNotFound detects the store's not-found condition.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSubscriptionNotFound) || errors.Is(err, pgx.ErrNoRows)
}
