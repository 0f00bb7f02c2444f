package plan

import (
	"context"
	"errors"
	"fmt"
)

// Source defines how plans are loaded into a Catalog.
type Source interface {
	Load(ctx context.Context) (map[string]Plan, error)
}

// Catalog is a validated, immutable set of plans keyed by plan ID.
// Build it once at startup; it is safe for concurrent use afterwards.
type Catalog struct {
	plans map[string]Plan
}

// NewCatalog loads and validates plans from the given source.
func NewCatalog(ctx context.Context, src Source) (*Catalog, error) {
	if src == nil {
		panic("plan: Source is required")
	}

	plans, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}
	if plans == nil {
		plans = make(map[string]Plan)
	}

	if err := validatePlans(plans); err != nil {
		return nil, err
	}

	return &Catalog{plans: plans}, nil
}

// Get returns the plan with the given ID.
func (c *Catalog) Get(id string) (Plan, error) {
	p, ok := c.plans[id]
	if !ok {
		return Plan{}, ErrPlanNotFound
	}
	return p.Clone(), nil
}

// Has reports whether a plan ID exists in the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.plans[id]
	return ok
}

// NextTier returns the cheapest public plan whose limit for res strictly
// exceeds currentLimit. Unlimited exceeds any finite limit. The second
// return value is false when no such plan exists, in which case callers
// should suggest contacting sales.
func (c *Catalog) NextTier(res Resource, currentLimit int64) (Plan, bool) {
	var best Plan
	found := false

	for _, p := range c.plans {
		if !p.Public {
			continue
		}
		limit, ok := p.Limits[res]
		if !ok {
			continue
		}
		if !exceeds(limit, currentLimit) {
			continue
		}
		if !found || p.Price.Amount < best.Price.Amount {
			best = p
			found = true
		}
	}

	if !found {
		return Plan{}, false
	}
	return best.Clone(), true
}

// exceeds reports whether limit is strictly greater than current,
// treating Unlimited as greater than any finite value.
func exceeds(limit, current int64) bool {
	if current == Unlimited {
		return false
	}
	if limit == Unlimited {
		return true
	}
	return limit > current
}

// validatePlans checks plan configurations for validity.
func validatePlans(plans map[string]Plan) error {
	for planID, p := range plans {
		if p.TrialDays < 0 {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s has negative trial days: %d", planID, p.TrialDays))
		}
		for res, limit := range p.Limits {
			if !res.Valid() {
				return errors.Join(ErrInvalidPlanConfiguration,
					fmt.Errorf("plan %s gates unknown resource %q", planID, res))
			}
			if limit < 0 && limit != Unlimited {
				return errors.Join(ErrInvalidPlanConfiguration,
					fmt.Errorf("plan %s has invalid limit %d for %s", planID, limit, res))
			}
		}
	}
	return nil
}
