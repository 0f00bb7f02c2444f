package entitlement

import "errors"

var (
	// ErrDenied is the sentinel wrapped by every gate denial. Callers use
	// AsDenial to recover the structured decision.
	ErrDenied = errors.New("request denied by entitlement gate")

	ErrUnknownAction = errors.New("no action mapping for request")
)

// DenialError carries the structured decision behind a gate denial.
type DenialError struct {
	Code    DenialCode
	Message string
	// PlanName is the denied tenant's current plan, when the gate got far
	// enough to resolve it.
	PlanName string
	// Resource and Decision are set only for limit denials, where usage
	// details exist.
	Resource string
	Decision *Decision
}

// Error implements the error interface.
func (e *DenialError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Is makes every DenialError match ErrDenied.
func (e *DenialError) Is(target error) bool {
	return target == ErrDenied
}

// AsDenial extracts a DenialError if err is (or wraps) one.
func AsDenial(err error) (*DenialError, bool) {
	var d *DenialError
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}
