package entitlement

import (
	"net/http"

	"github.com/fleetkit/fleetkit/pkg/plan"
)

// DenialCode is the machine-readable reason a request was refused.
type DenialCode string

const (
	CodeNoTenant            DenialCode = "NoTenant"
	CodeInvalidTenant       DenialCode = "InvalidTenant"
	CodeTenantMismatch      DenialCode = "TenantMismatch"
	CodeNoSubscription      DenialCode = "NoSubscription"
	CodeSubscriptionExpired DenialCode = "SubscriptionExpired"
	CodeTrialExpired        DenialCode = "TrialExpired"
	CodeLimitReached        DenialCode = "LimitReached"

	// CodeInternal covers infrastructure failures (lookup timeouts, store
	// errors). The gate fails closed on them without leaking internals.
	CodeInternal DenialCode = "InternalError"
)

// HTTPStatus maps a denial code to its HTTP response status.
func (c DenialCode) HTTPStatus() int {
	switch c {
	case CodeNoTenant:
		return http.StatusBadRequest
	case CodeInvalidTenant, CodeTenantMismatch:
		return http.StatusForbidden
	case CodeNoSubscription, CodeSubscriptionExpired, CodeTrialExpired:
		return http.StatusPaymentRequired
	case CodeLimitReached:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// UpgradeRequired reports whether the denial is solvable by buying a
// bigger plan, as opposed to fixing the request.
func (c DenialCode) UpgradeRequired() bool {
	switch c {
	case CodeNoSubscription, CodeSubscriptionExpired, CodeTrialExpired, CodeLimitReached:
		return true
	}
	return false
}

// Decision is the limit evaluator's verdict for one resource mutation.
// Constructed fresh per request, never persisted.
type Decision struct {
	Allowed       bool
	Warning       bool // allowed, but usage is near the limit
	Code          DenialCode
	Message       string
	SuggestedPlan string // empty when no bigger plan exists
	Usage         plan.UsageInfo
}

// DenialPayload is the structured body returned to callers on denial.
type DenialPayload struct {
	Error           string                          `json:"error"`
	Code            DenialCode                      `json:"code"`
	UpgradeRequired bool                            `json:"upgrade_required"`
	CurrentPlan     *string                         `json:"current_plan"`
	LimitDetails    map[plan.Resource]LimitDetail   `json:"limit_details,omitempty"`
	SuggestedPlan   *string                         `json:"suggested_plan"`
}

// LimitDetail reports used/limit/available for one resource.
type LimitDetail struct {
	Used      int64 `json:"used"`
	Limit     int64 `json:"limit"`
	Available int64 `json:"available"`
}
