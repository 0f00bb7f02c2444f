package plan

import "errors"

var (
	ErrPlanNotFound             = errors.New("plan not found")
	ErrUnknownResource          = errors.New("unknown resource kind")
	ErrInvalidPlanConfiguration = errors.New("invalid plan configuration")
	ErrFailedToLoadPlans        = errors.New("failed to load plans")
)
