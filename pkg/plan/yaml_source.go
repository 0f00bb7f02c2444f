package plan

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlPlan is the on-disk representation of a plan.
type yamlPlan struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Limits      map[string]int64 `yaml:"limits"`
	Features    []string         `yaml:"features"`
	Price       struct {
		Amount   int64  `yaml:"amount"`
		Currency string `yaml:"currency"`
	} `yaml:"price"`
	Interval  string `yaml:"interval"`
	Public    bool   `yaml:"public"`
	TrialDays int    `yaml:"trial_days"`
}

// yamlSource loads plans from a YAML file. The file maps plan IDs to plan
// definitions, so ops can edit the catalog without a code change.
type yamlSource struct {
	path string
}

// NewYAMLSource returns a Source that reads the plan catalog from path.
func NewYAMLSource(path string) Source {
	return &yamlSource{path: path}
}

// Load parses the YAML catalog. The file is read on every call so a
// restarted service always sees the latest catalog.
func (s *yamlSource) Load(ctx context.Context) (map[string]Plan, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	var raw map[string]yamlPlan
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	plans := make(map[string]Plan, len(raw))
	for id, yp := range raw {
		p := Plan{
			ID:          id,
			Name:        yp.Name,
			Description: yp.Description,
			Limits:      make(map[Resource]int64, len(yp.Limits)),
			Features:    make([]Feature, 0, len(yp.Features)),
			Price:       Money{Amount: yp.Price.Amount, Currency: yp.Price.Currency},
			Public:      yp.Public,
			TrialDays:   yp.TrialDays,
		}

		for res, limit := range yp.Limits {
			p.Limits[Resource(res)] = limit
		}
		for _, f := range yp.Features {
			p.Features = append(p.Features, Feature(f))
		}

		switch yp.Interval {
		case "", string(BillingIntervalNone):
			p.Interval = BillingIntervalNone
		case string(BillingIntervalMonthly):
			p.Interval = BillingIntervalMonthly
		case string(BillingIntervalAnnual):
			p.Interval = BillingIntervalAnnual
		default:
			return nil, errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s has unknown billing interval %q", id, yp.Interval))
		}

		plans[id] = p
	}

	return plans, nil
}
