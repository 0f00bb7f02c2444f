package subscription

import "errors"

var (
	ErrSubscriptionNotFound     = errors.New("subscription not found")
	ErrInvalidSubscriptionState = errors.New("invalid subscription state")
	ErrSubscriptionLookupFailed = errors.New("subscription lookup failed")
	ErrPlanNotInCatalog         = errors.New("subscription references unknown plan")
)
