package entitlement

import (
	"fmt"

	"github.com/fleetkit/fleetkit/pkg/plan"
)

// DefaultWarningThreshold is the usage/limit ratio at which an allowed
// decision starts carrying a near-limit warning.
const DefaultWarningThreshold = 0.8

// EvaluateOption configures a single evaluation.
type EvaluateOption func(*evaluateConfig)

type evaluateConfig struct {
	threshold float64
	catalog   *plan.Catalog
}

// WithWarningThreshold overrides the near-limit warning ratio.
// Values outside (0, 1] are ignored.
func WithWarningThreshold(ratio float64) EvaluateOption {
	return func(c *evaluateConfig) {
		if ratio > 0 && ratio <= 1 {
			c.threshold = ratio
		}
	}
}

// WithCatalog enables upgrade suggestions: denials name the cheapest
// public plan whose limit for the resource exceeds the current one.
func WithCatalog(catalog *plan.Catalog) EvaluateOption {
	return func(c *evaluateConfig) {
		c.catalog = catalog
	}
}

// Evaluate classifies a requested mutation against current usage and the
// plan limit. It is a pure function of its arguments: no I/O, no clock.
//
//	limit == Unlimited          -> allowed
//	used >= limit               -> denied, CodeLimitReached
//	used >= limit * threshold   -> allowed with warning
//	otherwise                   -> allowed
func Evaluate(res plan.Resource, used, limit int64, opts ...EvaluateOption) Decision {
	cfg := &evaluateConfig{threshold: DefaultWarningThreshold}
	for _, opt := range opts {
		opt(cfg)
	}

	d := Decision{
		Usage: plan.UsageInfo{Used: used, Limit: limit},
	}

	if limit == plan.Unlimited {
		d.Allowed = true
		return d
	}

	if used >= limit {
		d.Code = CodeLimitReached
		d.SuggestedPlan, d.Message = suggestion(cfg.catalog, res, used, limit)
		return d
	}

	d.Allowed = true
	if float64(used) >= float64(limit)*cfg.threshold {
		d.Warning = true
		d.Message = fmt.Sprintf("approaching %s limit: %d of %d used", res, used, limit)
	}
	return d
}

// suggestion builds the denial message together with the upgrade target.
func suggestion(catalog *plan.Catalog, res plan.Resource, used, limit int64) (string, string) {
	base := fmt.Sprintf("%s limit reached: %d of %d used", res, used, limit)

	if catalog == nil {
		return "", base
	}
	next, ok := catalog.NextTier(res, limit)
	if !ok {
		return "", base + "; contact sales to raise your limit"
	}
	return next.ID, fmt.Sprintf("%s; upgrade to %s for a higher limit", base, next.Name)
}
