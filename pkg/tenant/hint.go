package tenant

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

const (
	// MaxHintLength bounds tenant hints to keep them DNS-compatible and to
	// reject obviously hostile input early.
	MaxHintLength = 63
)

// hintPattern permits UUIDs and DNS-safe slugs: alphanumeric start,
// hyphens allowed after.
var hintPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*$`)

// HintResolver extracts an explicit tenant hint from an HTTP request.
// Returns empty string if no hint is present, error if extraction failed.
type HintResolver func(r *http.Request) (string, error)

func isValidHint(id string) bool {
	if id == "" || len(id) > MaxHintLength {
		return false
	}
	return hintPattern.MatchString(id)
}

// NewHeaderHint extracts the tenant hint from an HTTP header.
// Defaults to "X-Tenant-ID" if headerName is empty.
func NewHeaderHint(headerName string) HintResolver {
	if headerName == "" {
		headerName = "X-Tenant-ID"
	}

	return func(req *http.Request) (string, error) {
		value := strings.TrimSpace(req.Header.Get(headerName))
		if value == "" {
			return "", nil
		}
		if !isValidHint(value) {
			return "", fmt.Errorf("%w: header value %q", ErrInvalidTenant, value)
		}
		return value, nil
	}
}

// NewSubdomainHint extracts the tenant hint from the request subdomain,
// optionally stripping suffix (e.g. ".fleet.example.com").
// Returns empty string for the base domain.
func NewSubdomainHint(suffix string) HintResolver {
	return func(req *http.Request) (string, error) {
		host := req.Host

		// Remove port if present
		if idx := strings.LastIndex(host, ":"); idx != -1 {
			host = host[:idx]
		}

		originalParts := strings.Split(host, ".")

		if suffix != "" && strings.HasSuffix(host, suffix) && len(host) > len(suffix) {
			host = host[:len(host)-len(suffix)]
		}

		parts := strings.Split(host, ".")
		if len(parts) == 0 || parts[0] == "" {
			return "", nil
		}

		subdomain := parts[0]
		// Skip www prefix, use next subdomain if available
		if subdomain == "www" {
			if len(parts) > 1 {
				subdomain = parts[1]
			} else {
				return "", nil
			}
		}

		// Require at least subdomain.domain.tld structure
		if len(originalParts) < 3 {
			return "", nil
		}

		subdomain = strings.TrimSpace(subdomain)
		if subdomain == "" {
			return "", nil
		}
		if !isValidHint(subdomain) {
			return "", fmt.Errorf("%w: subdomain %q", ErrInvalidTenant, subdomain)
		}
		return subdomain, nil
	}
}

// NewCompositeHint tries multiple hint resolvers in order, returning the
// first non-empty result. Aggregates errors from all resolvers.
func NewCompositeHint(resolvers ...HintResolver) HintResolver {
	return func(r *http.Request) (string, error) {
		var errs []error

		for _, resolver := range resolvers {
			id, err := resolver(r)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if id != "" {
				return id, nil
			}
		}

		if len(errs) > 0 {
			return "", fmt.Errorf("composite hint resolver: %w", errors.Join(errs...))
		}
		return "", nil
	}
}
