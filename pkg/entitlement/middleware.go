package entitlement

import (
	"encoding/json"
	"net/http"

	"github.com/fleetkit/fleetkit/pkg/tenant"
)

// ActionResolver maps an inbound request to the Action the gate should
// evaluate. Returning ok=false means the route is not registered with
// the gate; the middleware denies it rather than waving it through.
type ActionResolver func(r *http.Request) (Action, bool)

// Middleware runs the gate in front of every request and attaches the
// Result to the request context on success. Denials are written as the
// structured JSON payload with the code's HTTP status.
//
// The authenticated principal must already be in the request context
// (tenant.WithPrincipal); requests without one are treated as having an
// empty principal and fail tenant resolution accordingly.
func Middleware(gate *Gate, hint tenant.HintResolver, actions ActionResolver) func(http.Handler) http.Handler {
	if gate == nil {
		panic("entitlement: gate is required")
	}
	if hint == nil {
		hint = tenant.NewHeaderHint("")
	}
	if actions == nil {
		panic("entitlement: action resolver is required")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			action, ok := actions(r)
			if !ok {
				// Unmapped route: fail loudly instead of allow-by-default.
				writeDenial(w, &DenialError{Code: CodeInternal, Message: "route not registered with entitlement gate"})
				return
			}

			principal, _ := tenant.PrincipalFromContext(r.Context())

			hintValue, err := hint(r)
			if err != nil {
				writeDenial(w, &DenialError{Code: CodeInvalidTenant, Message: "invalid tenant identifier"})
				return
			}

			result, err := gate.Check(r.Context(), principal, hintValue, action)
			if err != nil {
				if d, ok := AsDenial(err); ok {
					writeDenial(w, d)
					return
				}
				writeDenial(w, &DenialError{Code: CodeInternal, Message: "entitlement check failed"})
				return
			}

			ctx := WithResult(r.Context(), result)
			if result.Tenant != nil {
				ctx = tenant.WithTenant(ctx, result.Tenant)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeDenial(w http.ResponseWriter, d *DenialError) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(d.Code.HTTPStatus())
	_ = json.NewEncoder(w).Encode(Payload(d))
}
