package usage

import "errors"

var (
	ErrNoCounterRegistered = errors.New("no usage counter registered for resource")
	ErrFailedToCountUsage  = errors.New("failed to count resource usage")
	ErrLimitExceeded       = errors.New("resource limit exceeded")
)
