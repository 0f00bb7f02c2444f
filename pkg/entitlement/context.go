package entitlement

import "context"

// resultKey is a private type to prevent collisions with other context keys.
type resultKey struct{}

// WithResult attaches the gate's result to the context.
// The result is read-only by contract; handlers must not mutate it.
func WithResult(ctx context.Context, r *Result) context.Context {
	return context.WithValue(ctx, resultKey{}, r)
}

// ResultFromContext retrieves the gate result from the context.
func ResultFromContext(ctx context.Context) (*Result, bool) {
	r, ok := ctx.Value(resultKey{}).(*Result)
	return r, ok
}

// MustResultFromContext retrieves the gate result from the context.
// Panics if absent. Use only in handlers mounted strictly behind the
// gate middleware.
func MustResultFromContext(ctx context.Context) *Result {
	r, ok := ResultFromContext(ctx)
	if !ok || r == nil {
		panic("entitlement: no gate result in context")
	}
	return r
}
