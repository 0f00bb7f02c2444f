package tenant

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Resolver turns a principal plus an explicit hint into an active Tenant,
// or fails closed. It is the single place tenant identity is decided;
// downstream code consumes the result from context and never re-derives it.
type Resolver struct {
	provider Provider
	cache    Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithCache sets a custom cache implementation.
func WithCache(cache Cache) ResolverOption {
	return func(r *Resolver) {
		if cache != nil {
			r.cache = cache
		}
	}
}

// WithCacheTTL sets how long resolved tenants stay cached.
func WithCacheTTL(ttl time.Duration) ResolverOption {
	return func(r *Resolver) {
		if ttl > 0 {
			r.cacheTTL = ttl
		}
	}
}

// WithLogger sets a custom logger for the resolver.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a Resolver backed by the given provider.
// Panics if provider is nil to fail fast during initialization.
func NewResolver(provider Provider, opts ...ResolverOption) *Resolver {
	if provider == nil {
		panic("tenant: Provider is required")
	}

	r := &Resolver{
		provider: provider,
		cache:    NewNoOpCache(),
		cacheTTL: 5 * time.Minute,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve determines which tenant the request acts on.
//
//   - Internal principals bypass resolution entirely: (nil, nil).
//   - A missing hint fails with ErrNoTenant.
//   - A hint that does not name an active tenant fails with ErrInvalidTenant.
//   - A principal already bound to a different tenant fails with
//     ErrTenantMismatch.
//
// Infrastructure failures are wrapped in ErrTenantLookupFailed so callers
// can distinguish them from input errors and still deny.
func (r *Resolver) Resolve(ctx context.Context, principal Principal, hint string) (*Tenant, error) {
	if principal.Internal {
		return nil, nil
	}

	if hint == "" {
		return nil, ErrNoTenant
	}

	t, err := r.lookup(ctx, hint)
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) {
			return nil, ErrInvalidTenant
		}
		r.logger.ErrorContext(ctx, "tenant lookup failed", "hint", hint, "error", err)
		return nil, errors.Join(ErrTenantLookupFailed, err)
	}

	if !t.Active {
		return nil, ErrInvalidTenant
	}

	if principal.HasTenant() && principal.TenantID != t.ID {
		return nil, ErrTenantMismatch
	}

	return t, nil
}

func (r *Resolver) lookup(ctx context.Context, hint string) (*Tenant, error) {
	if cached, ok := r.cache.Get(ctx, hint); ok {
		return cached, nil
	}

	t, err := r.provider.GetByIdentifier(ctx, hint)
	if err != nil {
		return nil, err
	}

	r.cache.Set(ctx, hint, t, r.cacheTTL)
	return t, nil
}
